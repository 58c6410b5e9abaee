package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
)

func TestFlightCoalescesConcurrentComputes(t *testing.T) {
	var (
		f        Flight
		computes int32
		wg       sync.WaitGroup
	)

	const callers = 12
	results := make([]*domain.Analysis, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, _, err := f.Do("fp-1", func() (*domain.Analysis, error) {
				atomic.AddInt32(&computes, 1)
				time.Sleep(50 * time.Millisecond)
				return &domain.Analysis{ID: "a-1"}, nil
			})
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = a
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&computes); got != 1 {
		t.Errorf("compute ran %d times, want exactly 1", got)
	}
	for i, a := range results {
		if a == nil || a.ID != "a-1" {
			t.Errorf("caller %d got %+v", i, a)
		}
	}
}

func TestFlightDistinctKeysRunIndependently(t *testing.T) {
	var (
		f        Flight
		computes int32
		wg       sync.WaitGroup
	)
	for _, key := range []string{"fp-a", "fp-b"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, _, _ = f.Do(key, func() (*domain.Analysis, error) {
				atomic.AddInt32(&computes, 1)
				time.Sleep(20 * time.Millisecond)
				return &domain.Analysis{ID: domain.AnalysisID(key)}, nil
			})
		}(key)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&computes); got != 2 {
		t.Errorf("distinct keys: %d computes, want 2", got)
	}
}

func TestFlightSequentialCallsRecompute(t *testing.T) {
	var (
		f        Flight
		computes int
	)
	for i := 0; i < 2; i++ {
		_, shared, err := f.Do("fp", func() (*domain.Analysis, error) {
			computes++
			return &domain.Analysis{}, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if shared {
			t.Error("sequential call should not be shared")
		}
	}
	if computes != 2 {
		t.Errorf("sequential calls: %d computes, want 2 (no memoization)", computes)
	}
}
