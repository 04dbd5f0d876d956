package demo

import (
	"fmt"

	ristretto "github.com/dgraph-io/ristretto/v2"
)

// Cache is the fast tier consulted before the repository.
type Cache interface {
	Get(key string) (int, bool)
	Set(key string, value int) bool
}

// RistrettoCache is a Cache bounded by entry count.
type RistrettoCache struct {
	*ristretto.Cache[string, int]
}

// NewRistrettoCache returns a cache admitting at most maxEntries values.
func NewRistrettoCache(maxEntries int64) (*RistrettoCache, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("ristretto cache: maxEntries should be greater than 0, got %d", maxEntries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, int]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("ristretto cache: %w", err)
	}
	return &RistrettoCache{Cache: cache}, nil
}

func (r *RistrettoCache) Get(key string) (int, bool) {
	return r.Cache.Get(key)
}

// Set stores value and waits until it is visible to Get. It reports false
// when the cache dropped the write.
func (r *RistrettoCache) Set(key string, value int) bool {
	if !r.Cache.Set(key, value, 1) {
		return false
	}
	r.Cache.Wait()
	return true
}
