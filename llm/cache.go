package llm

import (
	"context"
	"time"

	"github.com/mdbplc/advisor/cache"
	"github.com/mdbplc/advisor/metrics"
	"github.com/mdbplc/advisor/schema"
)

// cachedProvider memoizes generation responses. Entries expire so
// time-sensitive banking facts do not go stale.
type cachedProvider struct {
	inner Provider
	store cache.Cache
	ttl   time.Duration
}

// WithCache wraps p so identical message lists reuse the prior response
// for ttl (default one hour).
func WithCache(p Provider, store cache.Cache, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &cachedProvider{inner: p, store: store, ttl: ttl}
}

func (c *cachedProvider) GetProviderType() string { return c.inner.GetProviderType() }

func (c *cachedProvider) Chat(ctx context.Context, messages []schema.ChatMessage) (string, error) {
	key := responseKey(messages)
	if v, ok := c.store.Get(key); ok {
		metrics.CountCache("response", true)
		return v, nil
	}
	metrics.CountCache("response", false)
	out, err := c.inner.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	c.store.Set(key, out, c.ttl)
	return out, nil
}

func responseKey(messages []schema.ChatMessage) string {
	parts := make([]string, 0, len(messages)*2)
	for _, m := range messages {
		parts = append(parts, m.Role, m.Content)
	}
	return cache.Key("resp", parts...)
}
