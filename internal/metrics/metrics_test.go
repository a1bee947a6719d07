package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/service"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	tests := map[int]string{
		200: "2xx",
		304: "3xx",
		404: "4xx",
		503: "5xx",
		99:  "unknown",
	}
	for code, want := range tests {
		assert.Equal(t, want, classifyStatus(code), "status %d", code)
	}
}

func TestRecordRequest(t *testing.T) {
	counter := httpRequestsTotal.WithLabelValues("GET", "/api/products/{productID}", "4xx")
	before := testutil.ToFloat64(counter)

	RecordRequest("GET", "/api/products/{productID}", http.StatusNotFound, 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestSearchMonitor(t *testing.T) {
	m := NewSearchMonitor()

	executed := searchTierExecutions.WithLabelValues("words", "executed")
	skipped := searchTierExecutions.WithLabelValues("fragments", "skipped")
	ok := searchRequestsTotal.WithLabelValues("ok")
	failed := searchRequestsTotal.WithLabelValues("error")

	executedBefore := testutil.ToFloat64(executed)
	skippedBefore := testutil.ToFloat64(skipped)
	okBefore := testutil.ToFloat64(ok)
	failedBefore := testutil.ToFloat64(failed)

	m.Start(1, 10, "phone")
	m.TierCompleted(service.TierWords, 3)
	m.TierSkipped(service.TierFragments)
	m.Finish(3, nil)
	m.Finish(0, errors.New("boom"))

	assert.Equal(t, executedBefore+1, testutil.ToFloat64(executed))
	assert.Equal(t, skippedBefore+1, testutil.ToFloat64(skipped))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestHandlerExposesSearchMetrics(t *testing.T) {
	NewSearchMonitor().TierCompleted(service.TierRelevance, 2)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "search_tier_executions_total"))
}
