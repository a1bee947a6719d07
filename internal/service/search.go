package service

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// RelevanceThreshold is K: once more than K results have accumulated no
// further tier runs.
const RelevanceThreshold = 5

// searchRun accumulates results across tiers, keyed by product id
type searchRun struct {
	results []domain.SearchResult
	seen    map[int64]bool
}

func newSearchRun() *searchRun {
	return &searchRun{
		results: []domain.SearchResult{},
		seen:    map[int64]bool{},
	}
}

// add appends matches not returned by an earlier tier and reports how many
// were new.
func (r *searchRun) add(matches []domain.ProductMatch) int {
	added := 0
	for _, m := range matches {
		if r.seen[m.ID] {
			continue
		}
		r.seen[m.ID] = true
		r.results = append(r.results, m.ToSearchResult())
		added++
	}
	return added
}

func (r *searchRun) ids() []int64 {
	ids := make([]int64, 0, len(r.results))
	for _, res := range r.results {
		ids = append(ids, res.ID)
	}
	return ids
}

// after picks the state following a completed tier
func (r *searchRun) after(next Tier) Tier {
	if len(r.results) > RelevanceThreshold {
		return tierDone
	}
	return next
}

// Search finds products of a store in a category and its immediate children,
// escalating from relevance ranking to word and then fragment substring
// matching while no more than RelevanceThreshold results have been found.
func (s *catalogService) Search(ctx context.Context, storeID, categoryID int64, query string) (results []domain.SearchResult, err error) {
	if verr := validateScope(storeID, categoryID, query); verr != nil {
		return nil, verr
	}

	s.monitor.Start(storeID, categoryID, query)
	defer func() { s.monitor.Finish(len(results), err) }()

	scope := repository.SearchScope{StoreID: storeID, CategoryID: categoryID}
	tokens := Tokenize(query)
	run := newSearchRun()

	for state := TierRelevance; state != tierDone; {
		var matches []domain.ProductMatch

		switch state {
		case TierRelevance:
			matches, err = s.products.SearchRelevance(ctx, scope, tokens)
		case TierWords:
			matches, err = s.products.SearchSubstring(ctx, scope, tokens, run.ids())
		case TierFragments:
			fragments := Fragments(tokens)
			if len(fragments) == 0 {
				s.monitor.TierSkipped(state)
				state = tierDone
				continue
			}
			matches, err = s.products.SearchSubstring(ctx, scope, fragments, run.ids())
		}

		if err != nil {
			s.logger.Error("Search tier failed",
				zap.Stringer("tier", state),
				zap.Int64("store_id", storeID),
				zap.Int64("category_id", categoryID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %s tier: %w", ErrSearchUnavailable, state, err)
		}

		added := run.add(matches)
		s.monitor.TierCompleted(state, added)
		s.logger.Debug("Search tier completed",
			zap.Stringer("tier", state),
			zap.Int("matched", added),
			zap.Int("total", len(run.results)),
		)

		switch state {
		case TierRelevance:
			state = run.after(TierWords)
		case TierWords:
			state = run.after(TierFragments)
		default:
			state = tierDone
		}
	}

	return run.results, nil
}
