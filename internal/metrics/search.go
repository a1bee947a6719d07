package metrics

import (
	"storefront/internal/service"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of tiered product searches by outcome.",
		},
		[]string{"outcome"},
	)
	searchTierExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_tier_executions_total",
			Help: "Number of times each search tier ran or was skipped.",
		},
		[]string{"tier", "state"},
	)
	searchTierMatches = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_tier_new_matches",
			Help:    "Products first found by each search tier.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
		[]string{"tier"},
	)
	searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_results",
			Help:    "Number of products returned per search.",
			Buckets: []float64{0, 1, 5, 6, 10, 25, 50, 100},
		},
	)
)

func init() {
	prometheus.MustRegister(searchRequestsTotal, searchTierExecutions, searchTierMatches, searchResults)
}

// SearchMonitor reports tiered search progress to Prometheus
type SearchMonitor struct{}

var _ service.SearchMonitor = SearchMonitor{}

// NewSearchMonitor returns a monitor backed by the default registry
func NewSearchMonitor() SearchMonitor {
	return SearchMonitor{}
}

func (SearchMonitor) Start(storeID, categoryID int64, query string) {}

func (SearchMonitor) TierCompleted(tier service.Tier, matched int) {
	searchTierExecutions.WithLabelValues(tier.String(), "executed").Inc()
	searchTierMatches.WithLabelValues(tier.String()).Observe(float64(matched))
}

func (SearchMonitor) TierSkipped(tier service.Tier) {
	searchTierExecutions.WithLabelValues(tier.String(), "skipped").Inc()
}

func (SearchMonitor) Finish(results int, err error) {
	if err != nil {
		searchRequestsTotal.WithLabelValues("error").Inc()
		return
	}
	searchRequestsTotal.WithLabelValues("ok").Inc()
	searchResults.Observe(float64(results))
}
