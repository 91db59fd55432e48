package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/carslab/funnel-api/pkg/metrics"
)

// FragmentCache holds rendered fragment bytes. Fragments change only on
// deploy, so a short TTL keeps edits visible without hammering the source.
type FragmentCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewFragmentCache creates a fragment cache with the given TTL in seconds
func NewFragmentCache(ttlSeconds int) *FragmentCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &FragmentCache{
		cache: gocache.New(ttl, time.Minute),
		ttl:   ttl,
	}
}

// Get returns the cached fragment bytes
func (c *FragmentCache) Get(name string) ([]byte, bool) {
	data, found := c.cache.Get(name)
	if !found {
		metrics.CacheMisses.WithLabelValues("fragment").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("fragment").Inc()

	html, ok := data.([]byte)
	return html, ok
}

// Set stores fragment bytes under the fragment name
func (c *FragmentCache) Set(name string, html []byte) {
	c.cache.Set(name, html, c.ttl)
}

// Flush drops every cached fragment
func (c *FragmentCache) Flush() {
	c.cache.Flush()
}
