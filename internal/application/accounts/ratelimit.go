package accounts

import (
	"sync"
	"time"

	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

// Endpoint classes with their own rate budgets.
type Endpoint string

const (
	EndpointAnalyze Endpoint = "analyze"
	EndpointCompare Endpoint = "compare"
	EndpointExport  Endpoint = "export"
)

// Sliding windows: analyze and compare use an hour, export a day.
var endpointWindows = map[Endpoint]time.Duration{
	EndpointAnalyze: time.Hour,
	EndpointCompare: time.Hour,
	EndpointExport:  24 * time.Hour,
}

var endpointLimits = map[Endpoint]map[users.Tier]int{
	EndpointAnalyze: {
		users.TierAnonymous:  5,
		users.TierFree:       20,
		users.TierStarter:    100,
		users.TierGrowth:     500,
		users.TierEnterprise: 2000,
	},
	EndpointCompare: {
		users.TierAnonymous:  5,
		users.TierFree:       10,
		users.TierStarter:    50,
		users.TierGrowth:     200,
		users.TierEnterprise: 1000,
	},
	EndpointExport: {
		users.TierAnonymous:  1,
		users.TierFree:       5,
		users.TierStarter:    20,
		users.TierGrowth:     100,
		users.TierEnterprise: 1000,
	},
}

// slidingWindow keeps the request timestamps still inside the window.
type slidingWindow struct {
	mu    sync.Mutex
	times []time.Time
}

// RateLimiter enforces per-user sliding-window limits. Stale windows
// are swept by a background goroutine so the map does not grow
// unbounded.
type RateLimiter struct {
	mu      sync.RWMutex
	windows map[string]*slidingWindow
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*slidingWindow),
		now:     time.Now,
	}
	go rl.cleanup()
	return rl
}

// newRateLimiterAt is the test constructor with an injected clock and
// no sweeper.
func newRateLimiterAt(now func() time.Time) *RateLimiter {
	return &RateLimiter{windows: make(map[string]*slidingWindow), now: now}
}

func (rl *RateLimiter) window(key string) *slidingWindow {
	rl.mu.RLock()
	w, ok := rl.windows[key]
	rl.mu.RUnlock()
	if ok {
		return w
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if w, ok = rl.windows[key]; ok {
		return w
	}
	w = &slidingWindow{}
	rl.windows[key] = w
	return w
}

// Allow records a request under key if the count within span stays at
// or under max. On rejection it reports the seconds until the oldest
// entry ages out.
func (rl *RateLimiter) Allow(key string, max int, span time.Duration) (ok bool, retryAfter int) {
	w := rl.window(key)
	w.mu.Lock()
	defer w.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-span)
	kept := w.times[:0]
	for _, t := range w.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.times = kept

	if len(w.times) >= max {
		retry := int(w.times[0].Sub(cutoff).Seconds()) + 1
		return false, retry
	}
	w.times = append(w.times, now)
	return true, 0
}

// Usage reports how many requests under key are inside the window and
// when the oldest one ages out.
func (rl *RateLimiter) Usage(key string, span time.Duration) (count int, resetAt time.Time) {
	w := rl.window(key)
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := rl.now().Add(-span)
	for _, t := range w.times {
		if t.After(cutoff) {
			count++
			if resetAt.IsZero() {
				resetAt = t.Add(span)
			}
		}
	}
	if resetAt.IsZero() {
		resetAt = rl.now().Add(span)
	}
	return count, resetAt
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := rl.now().Add(-24 * time.Hour)
		rl.mu.Lock()
		for key, w := range rl.windows {
			w.mu.Lock()
			stale := len(w.times) == 0 || !w.times[len(w.times)-1].After(cutoff)
			w.mu.Unlock()
			if stale {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

// LimitFor resolves the request budget for an endpoint and tier,
// honoring configured overrides.
func LimitFor(endpoint Endpoint, tier users.Tier, overrides map[string]int) (int, time.Duration) {
	limit := endpointLimits[endpoint][tier]
	if overrides != nil {
		if v, ok := overrides[string(endpoint)+":"+string(tier)]; ok {
			limit = v
		}
	}
	return limit, endpointWindows[endpoint]
}
