package agent

import (
	"context"
	"time"

	mem "tripcrew/pkg/memcache"
)

const searchCacheTTL = 10 * time.Minute

// cachedSearcher answers repeated queries within one run from memory.
// It is created per run and never shared between requests.
type cachedSearcher struct {
	next  Searcher
	cache mem.QueryStore[[]SearchResult]
}

func newCachedSearcher(next Searcher) *cachedSearcher {
	return &cachedSearcher{next: next, cache: mem.NewQueryCache[[]SearchResult]()}
}

func (s *cachedSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if hit, ok := s.cache.Get(query); ok {
		return hit, nil
	}
	results, err := s.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.Set(query, results, searchCacheTTL)
	return results, nil
}
