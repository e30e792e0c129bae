package search

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dailyworker-news/DWnews-sub003/internal/logging"
)

// ErrAllProvidersFailed marks a fully failed query, which the
// verification agent treats as a technical failure rather than
// evidence insufficiency.
var ErrAllProvidersFailed = errors.New("search: all providers failed")

// MultiSearcher fans a query across several providers, one at a time.
// Provider errors and timeouts degrade to fewer results; only a total
// wipeout surfaces as an error.
type MultiSearcher struct {
	providers    []Provider
	queryTimeout time.Duration
	log          *log.Logger
}

// NewMultiSearcher creates a searcher over the given providers.
func NewMultiSearcher(providers []Provider, queryTimeout time.Duration) *MultiSearcher {
	if queryTimeout <= 0 {
		queryTimeout = 15 * time.Second
	}
	return &MultiSearcher{
		providers:    providers,
		queryTimeout: queryTimeout,
		log:          logging.WithPrefix("search"),
	}
}

// Providers returns the number of configured providers.
func (m *MultiSearcher) Providers() int { return len(m.providers) }

// Search runs the query against every provider sequentially. A stalled
// or failing provider contributes nothing; its results are treated as
// empty rather than retried. Results are deduplicated by URL.
func (m *MultiSearcher) Search(ctx context.Context, q Query) ([]Result, error) {
	if len(m.providers) == 0 {
		return nil, ErrAllProvidersFailed
	}

	var (
		results []Result
		failed  int
		seen    = make(map[string]bool)
	)

	for _, p := range m.providers {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		qctx, cancel := context.WithTimeout(ctx, m.queryTimeout)
		hits, err := p.Search(qctx, q)
		cancel()

		if err != nil {
			failed++
			m.log.Warn("provider query failed", "provider", p.Name(), "terms", q.Terms, "err", err)
			continue
		}

		for _, h := range hits {
			if h.URL == "" || seen[h.URL] {
				continue
			}
			seen[h.URL] = true
			results = append(results, h)
		}
	}

	if failed == len(m.providers) {
		return nil, ErrAllProvidersFailed
	}

	return results, nil
}
