// Package cache provides the process-wide TTL cache that fronts the
// warehouse and quote lookups.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Cache categories. Keys are namespaced so the historical and price caches
// never collide despite sharing one store.
const (
	CategoryHistorical = "historical"
	CategoryPrice      = "price"
)

// Key builds the canonical cache key for a category and symbol.
func Key(category, symbol string) string {
	return category + ":" + strings.ToUpper(strings.TrimSpace(symbol))
}

type entry struct {
	payload   any
	fetchedAt time.Time
}

// Store is a mutex-guarded map of (payload, fetchedAt) pairs. Entries are
// never evicted: a stale entry is shadowed on Get and overwritten on the next
// Set. Unbounded growth is acceptable at the target scale of tens of symbols.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time // injectable clock for testing
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// SetClock replaces the store's clock. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get returns the cached payload when the entry is younger than ttl.
// Stale or absent entries behave identically as a miss.
func (s *Store) Get(key string, ttl time.Duration) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.fetchedAt) >= ttl {
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under key with the current timestamp, unconditionally
// overwriting any prior entry. Last writer wins — concurrent writers for the
// same key produce equivalent derived data.
func (s *Store) Set(key string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{payload: payload, fetchedAt: s.now()}
}

// Len returns the number of entries, stale ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
