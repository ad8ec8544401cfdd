package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"techlingo-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// TermSource loads filtered term pools from a backing catalog.
type TermSource interface {
	FilterTerms(ctx context.Context, category, difficulty string) ([]domain.Term, error)
}

// TermPoolCache caches filtered term pools in Redis as JSON blobs and falls
// back to the catalog on cache miss.
// Pools are stored as: SET terms:pool:{category}:{difficulty} {json} EX ttl
type TermPoolCache struct {
	client *redis.Client
	source TermSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewTermPoolCache(client *redis.Client, source TermSource, ttl time.Duration) *TermPoolCache {
	return &TermPoolCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *TermPoolCache) FilterTerms(ctx context.Context, category, difficulty string) ([]domain.Term, error) {
	key := c.poolKey(category, difficulty)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if terms, decodeErr := decodePool(raw); decodeErr == nil {
			return terms, nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			if terms, decodeErr := decodePool(raw); decodeErr == nil {
				return terms, nil
			}
		}

		terms, err := c.source.FilterTerms(ctx, category, difficulty)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(terms); err == nil {
			// best-effort cache fill
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return terms, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Term), nil
}

func (c *TermPoolCache) poolKey(category, difficulty string) string {
	return "terms:pool:" + category + ":" + difficulty
}

func (c *TermPoolCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func decodePool(raw []byte) ([]domain.Term, error) {
	var terms []domain.Term
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}
