// pkg/memcache/query_cache.go
package mem

import (
	"strings"
	"sync"
	"time"
)

// QueryStore remembers values per normalized query until they expire.
type QueryStore[V any] interface {
	Set(query string, value V, ttl time.Duration)

	// Get returns the value for query if present and not expired.
	Get(query string) (V, bool)

	Len() int
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type QueryCache[V any] struct {
	mu   sync.RWMutex
	data map[string]entry[V]
	now  func() time.Time
}

func NewQueryCache[V any]() *QueryCache[V] {
	return &QueryCache[V]{
		data: make(map[string]entry[V]),
		now:  time.Now,
	}
}

// NormalizeQuery folds case and whitespace so "Pickleball  Reston" and
// "pickleball reston" share an entry.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func (s *QueryCache[V]) Set(query string, value V, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[NormalizeQuery(query)] = entry[V]{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
}

func (s *QueryCache[V]) Get(query string) (V, bool) {
	key := NormalizeQuery(query)

	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key) // cleanup expired
		s.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *QueryCache[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
