package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ttlCache wraps go-cache for deployments that prefer time-based expiry
// over LRU eviction. Zero-ttl entries never expire.
type ttlCache struct {
	c *gocache.Cache
}

// NewTTL creates a cache whose entries default to defaultTTL and are
// swept every cleanup interval.
func NewTTL(defaultTTL time.Duration) Cache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &ttlCache{c: gocache.New(defaultTTL, 10*time.Minute)}
}

func (t *ttlCache) Get(key string) (string, bool) {
	v, ok := t.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (t *ttlCache) Set(key, value string, ttl time.Duration) {
	if ttl <= 0 {
		t.c.Set(key, value, gocache.NoExpiration)
		return
	}
	t.c.Set(key, value, ttl)
}

func (t *ttlCache) Purge() {
	t.c.Flush()
}

// New returns the cache implementation for the given provider name.
func New(provider string, capacity int, defaultTTL time.Duration) Cache {
	if provider == "ttl" {
		return NewTTL(defaultTTL)
	}
	return NewLRU(capacity)
}
