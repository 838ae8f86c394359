package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "historical:AAPL", Key(CategoryHistorical, "aapl"))
	assert.Equal(t, "price:MSFT", Key(CategoryPrice, " msft "))
	assert.NotEqual(t, Key(CategoryHistorical, "AAPL"), Key(CategoryPrice, "AAPL"))
}

func TestGetSet(t *testing.T) {
	store := New()

	_, ok := store.Get("price:AAPL", time.Minute)
	assert.False(t, ok)

	store.Set("price:AAPL", 175.50)

	v, ok := store.Get("price:AAPL", time.Minute)
	require.True(t, ok)
	assert.Equal(t, 175.50, v)
	assert.Equal(t, 1, store.Len())
}

func TestGetExpired(t *testing.T) {
	store := New()

	current := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })

	store.Set("price:AAPL", 175.50)

	current = current.Add(4 * time.Minute)
	_, ok := store.Get("price:AAPL", 5*time.Minute)
	assert.True(t, ok)

	// Age exactly equal to the TTL is already stale.
	current = current.Add(time.Minute)
	_, ok = store.Get("price:AAPL", 5*time.Minute)
	assert.False(t, ok)

	// The stale entry is shadowed, not deleted.
	assert.Equal(t, 1, store.Len())
}

func TestSetOverwrites(t *testing.T) {
	store := New()

	current := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })

	store.Set("price:AAPL", 175.50)
	current = current.Add(10 * time.Minute)
	store.Set("price:AAPL", 176.00)

	// The overwrite refreshed the timestamp.
	v, ok := store.Get("price:AAPL", 5*time.Minute)
	require.True(t, ok)
	assert.Equal(t, 176.00, v)
}

func TestPerTTLFreshness(t *testing.T) {
	store := New()

	current := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return current })

	store.Set("historical:AAPL", "facts")
	current = current.Add(10 * time.Minute)

	// The same entry can be fresh under one TTL and stale under another.
	_, ok := store.Get("historical:AAPL", 24*time.Hour)
	assert.True(t, ok)
	_, ok = store.Get("historical:AAPL", 5*time.Minute)
	assert.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	store := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key(CategoryPrice, fmt.Sprintf("SYM%d", i%10))
			store.Set(key, float64(i))
			store.Get(key, time.Minute)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, store.Len())
}
