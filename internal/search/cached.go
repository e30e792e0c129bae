package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dailyworker-news/DWnews-sub003/internal/cache"
)

// CachedProvider wraps a provider with a TTL response cache so that
// re-running verification on an unchanged topic neither burns search
// budget nor changes the evidence set.
type CachedProvider struct {
	inner Provider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps the given provider.
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, cache: c, ttl: ttl}
}

// Name returns the wrapped provider's name.
func (p *CachedProvider) Name() string { return p.inner.Name() }

// Search serves from cache when possible, otherwise queries the inner
// provider and stores the result. Cache failures are ignored; they
// only cost an extra query.
func (p *CachedProvider) Search(ctx context.Context, q Query) ([]Result, error) {
	key := cache.Key(p.inner.Name(), q.Terms,
		q.From.UTC().Format(time.RFC3339), q.To.UTC().Format(time.RFC3339))

	if raw, found := p.cache.Get(key); found {
		var results []Result
		if err := json.Unmarshal(raw, &results); err == nil {
			return results, nil
		}
	}

	results, err := p.inner.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(results); err == nil {
		_ = p.cache.Set(key, raw, p.ttl)
	}

	return results, nil
}
