package gen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/quorumlabs/council/internal/log"
)

// DefaultCacheTTL is how long a cached generation stays valid.
const DefaultCacheTTL = 15 * time.Minute

// Cached wraps a Generator with an in-memory TTL cache so repeated
// invocations with identical instructions and prompt reuse the prior text
// instead of paying for another external call. Failures are never cached.
type Cached struct {
	inner Generator
	cache *gocache.Cache
}

// NewCached creates a caching wrapper around inner. A non-positive ttl
// falls back to DefaultCacheTTL.
func NewCached(inner Generator, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Provider returns the wrapped generator's provider type.
func (c *Cached) Provider() ProviderType { return c.inner.Provider() }

// Generate returns the cached text for this (instructions, prompt) pair when
// present, delegating to the wrapped generator otherwise.
func (c *Cached) Generate(ctx context.Context, instructions, prompt string) (string, error) {
	key := cacheKey(instructions, prompt)
	if text, ok := c.cache.Get(key); ok {
		log.Debug(log.CatGen, "Generation cache hit", "provider", c.inner.Provider(), "key", key[:12])
		return text.(string), nil
	}

	text, err := c.inner.Generate(ctx, instructions, prompt)
	if err != nil {
		return "", err
	}
	c.cache.SetDefault(key, text)
	return text, nil
}

func cacheKey(instructions, prompt string) string {
	h := sha256.New()
	h.Write([]byte(instructions))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
