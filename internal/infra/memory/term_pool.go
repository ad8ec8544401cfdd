package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"techlingo-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// TermSource loads filtered term pools from a backing catalog.
type TermSource interface {
	FilterTerms(ctx context.Context, category, difficulty string) ([]domain.Term, error)
}

// TermPoolCache caches filtered term pools with TTL to avoid repeated
// catalog hits; the pool for a filter pair changes only on reseed.
type TermPoolCache struct {
	source TermSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPool
}

type cachedPool struct {
	terms     []domain.Term
	expiresAt time.Time
}

func NewTermPoolCache(source TermSource, ttl time.Duration) *TermPoolCache {
	return &TermPoolCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPool),
	}
}

func (c *TermPoolCache) FilterTerms(ctx context.Context, category, difficulty string) ([]domain.Term, error) {
	key := poolKey(category, difficulty)
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.terms, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.terms, nil
		}
		c.mu.RUnlock()

		terms, err := c.source.FilterTerms(ctx, category, difficulty)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cachedPool{
			terms:     terms,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return terms, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Term), nil
}

func (c *TermPoolCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func poolKey(category, difficulty string) string {
	return category + "\x00" + difficulty
}
