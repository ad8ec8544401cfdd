package redis

import (
	"context"
	"testing"
	"time"

	"techlingo-service/internal/domain"
	"techlingo-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestTermPoolCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingCatalog{TermCatalog: memory.NewTermCatalog(sampleTerms())}
	cache := NewTermPoolCache(newClient(mr), source, time.Minute)

	terms, err := cache.FilterTerms(context.Background(), "Concurrency", "")
	if err != nil {
		t.Fatalf("filter terms: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if source.calls != 1 {
		t.Fatalf("expected catalog called once, got %d", source.calls)
	}

	// Second call should hit cache, catalog not incremented.
	terms, err = cache.FilterTerms(context.Background(), "Concurrency", "")
	if err != nil {
		t.Fatalf("filter terms: %v", err)
	}
	if len(terms) != 2 || source.calls != 1 {
		t.Fatalf("expected cache hit, catalog calls=%d", source.calls)
	}

	if !mr.Exists("terms:pool:Concurrency:") {
		t.Fatal("expected pool key in redis")
	}
}

func TestTermPoolRefetchesAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingCatalog{TermCatalog: memory.NewTermCatalog(sampleTerms())}
	cache := NewTermPoolCache(newClient(mr), source, time.Minute)

	if _, err := cache.FilterTerms(context.Background(), "", ""); err != nil {
		t.Fatalf("filter terms: %v", err)
	}

	// jitter extends the TTL by at most 10%
	mr.FastForward(2 * time.Minute)

	if _, err := cache.FilterTerms(context.Background(), "", ""); err != nil {
		t.Fatalf("filter terms: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", source.calls)
	}
}

func TestTermPoolIgnoresCorruptCacheEntry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("terms:pool:Concurrency:", "{not json"); err != nil {
		t.Fatalf("set: %v", err)
	}

	source := &countingCatalog{TermCatalog: memory.NewTermCatalog(sampleTerms())}
	cache := NewTermPoolCache(newClient(mr), source, time.Minute)

	terms, err := cache.FilterTerms(context.Background(), "Concurrency", "")
	if err != nil {
		t.Fatalf("filter terms: %v", err)
	}
	if len(terms) != 2 || source.calls != 1 {
		t.Fatalf("expected fallthrough to catalog, terms=%d calls=%d", len(terms), source.calls)
	}
}

type countingCatalog struct {
	*memory.TermCatalog
	calls int
}

func (c *countingCatalog) FilterTerms(ctx context.Context, category, difficulty string) ([]domain.Term, error) {
	c.calls++
	return c.TermCatalog.FilterTerms(ctx, category, difficulty)
}

func sampleTerms() []domain.Term {
	return []domain.Term{
		{Name: "Goroutine", Definition: "A lightweight thread", Category: "Concurrency", Difficulty: domain.DifficultyBeginner},
		{Name: "Channel", Definition: "A typed conduit", Category: "Concurrency", Difficulty: domain.DifficultyIntermediate},
		{Name: "Index", Definition: "A lookup structure", Category: "Databases", Difficulty: domain.DifficultyBeginner},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
