package service

// Tier identifies one escalation stage of the product search
type Tier int

const (
	TierRelevance Tier = iota + 1
	TierWords
	TierFragments
	tierDone
)

func (t Tier) String() string {
	switch t {
	case TierRelevance:
		return "relevance"
	case TierWords:
		return "words"
	case TierFragments:
		return "fragments"
	case tierDone:
		return "done"
	default:
		return "unknown"
	}
}

// SearchMonitor observes a search as it escalates through tiers.
// Implementations must be safe for concurrent use.
type SearchMonitor interface {
	Start(storeID, categoryID int64, query string)
	TierCompleted(tier Tier, matched int)
	TierSkipped(tier Tier)
	Finish(results int, err error)
}

type noopMonitor struct{}

func (noopMonitor) Start(int64, int64, string) {}
func (noopMonitor) TierCompleted(Tier, int)    {}
func (noopMonitor) TierSkipped(Tier)           {}
func (noopMonitor) Finish(int, error)          {}
