package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"techlingo-service/internal/domain"
)

type countingSource struct {
	calls int64
	terms []domain.Term
	err   error
}

func (s *countingSource) FilterTerms(_ context.Context, category, difficulty string) ([]domain.Term, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return s.terms, nil
}

func TestTermPoolCacheHit(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{terms: []domain.Term{{ID: 1, Name: "goroutine"}}}
	cache := NewTermPoolCache(source, time.Minute)

	for i := 0; i < 5; i++ {
		terms, err := cache.FilterTerms(ctx, "Programming", "beginner")
		if err != nil {
			t.Fatalf("filter terms: %v", err)
		}
		if len(terms) != 1 || terms[0].Name != "goroutine" {
			t.Fatalf("unexpected terms %+v", terms)
		}
	}
	if got := atomic.LoadInt64(&source.calls); got != 1 {
		t.Fatalf("expected 1 source call, got %d", got)
	}
}

func TestTermPoolCacheExpiry(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{terms: []domain.Term{{ID: 1, Name: "goroutine"}}}

	now := time.Date(2024, 11, 22, 12, 0, 0, 0, time.UTC)
	cache := NewTermPoolCache(source, time.Minute)
	cache.clock = func() time.Time { return now }

	if _, err := cache.FilterTerms(ctx, "", ""); err != nil {
		t.Fatalf("filter terms: %v", err)
	}
	// jitter extends the TTL by at most 10%
	now = now.Add(2 * time.Minute)
	if _, err := cache.FilterTerms(ctx, "", ""); err != nil {
		t.Fatalf("filter terms: %v", err)
	}
	if got := atomic.LoadInt64(&source.calls); got != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", got)
	}
}

func TestTermPoolCacheKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{terms: []domain.Term{{ID: 1, Name: "goroutine"}}}
	cache := NewTermPoolCache(source, time.Minute)

	if _, err := cache.FilterTerms(ctx, "Programming", ""); err != nil {
		t.Fatalf("filter terms: %v", err)
	}
	if _, err := cache.FilterTerms(ctx, "", "Programming"); err != nil {
		t.Fatalf("filter terms: %v", err)
	}
	if got := atomic.LoadInt64(&source.calls); got != 2 {
		t.Fatalf("expected distinct cache keys, got %d calls", got)
	}
}

func TestTermPoolCacheErrorNotCached(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{err: errors.New("catalog down")}
	cache := NewTermPoolCache(source, time.Minute)

	if _, err := cache.FilterTerms(ctx, "", ""); err == nil {
		t.Fatal("expected error")
	}
	source.err = nil
	source.terms = []domain.Term{{ID: 1, Name: "goroutine"}}
	terms, err := cache.FilterTerms(ctx, "", "")
	if err != nil {
		t.Fatalf("filter terms after recovery: %v", err)
	}
	if len(terms) != 1 {
		t.Fatalf("unexpected terms %+v", terms)
	}
}

func TestTermPoolCacheConcurrentSingleLoad(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{terms: []domain.Term{{ID: 1, Name: "goroutine"}}}
	cache := NewTermPoolCache(source, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.FilterTerms(ctx, "", ""); err != nil {
				t.Errorf("filter terms: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&source.calls); got != 1 {
		t.Fatalf("expected singleflight to collapse loads to 1, got %d", got)
	}
}
