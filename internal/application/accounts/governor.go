package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/veridianlabs/esg-intel/internal/application"
	"github.com/veridianlabs/esg-intel/internal/domain/activity"
	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
	"github.com/veridianlabs/esg-intel/internal/middleware"
)

// Credit costs per operation.
const (
	CostQuick    = 1
	CostFull     = 5
	CostFetch    = 2
	CostCacheHit = 1
)

// creditOpTimeout bounds the atomic balance operation.
const creditOpTimeout = 500 * time.Millisecond

// defaultMaxInFlight bounds concurrent analyses per user; excess
// requests get a typed busy error instead of queueing unbounded.
const defaultMaxInFlight = 4

// RateStatus carries the limit headers for a successful admission.
type RateStatus struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Governor is the credit and rate admission gate (the only path that
// debits and refunds credit balances).
type Governor struct {
	Users    users.Repository
	Activity activity.Repository
	Limiter  *RateLimiter
	Clock    application.Clock

	// RateOverrides maps "endpoint:tier" to a replacement budget.
	RateOverrides map[string]int
	MaxInFlight   int

	mu       sync.Mutex
	inFlight map[string]int
}

// CheckRate admits or rejects a request under the endpoint's sliding
// window. A rejection is recorded in the activity log and carries
// retry_after.
func (g *Governor) CheckRate(ctx context.Context, userID string, tier users.Tier, endpoint Endpoint) (RateStatus, error) {
	limit, span := LimitFor(endpoint, tier, g.RateOverrides)
	key := userID + ":" + string(endpoint)

	ok, retryAfter := g.Limiter.Allow(key, limit, span)
	if !ok {
		middleware.IncRateLimitHit(string(endpoint), string(tier))
		g.logActivity(userID, activity.EventRateLimitHit, map[string]any{
			"endpoint": string(endpoint),
			"tier":     string(tier),
		})
		return RateStatus{Limit: limit}, apperr.RateLimited(retryAfter, limit)
	}

	used, resetAt := g.Limiter.Usage(key, span)
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return RateStatus{Limit: limit, Remaining: remaining, ResetAt: resetAt}, nil
}

// Debit atomically charges cost credits and returns the new balance.
// The repository guarantees the check-and-decrement is a single atomic
// step; a failed debit leaves the balance untouched.
func (g *Governor) Debit(ctx context.Context, userID string, cost int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, creditOpTimeout)
	defer cancel()

	balance, err := g.Users.UpdateCredits(ctx, userID, -cost)
	if errors.Is(err, users.ErrInsufficientCredits) {
		middleware.IncCreditDebit("insufficient")
		g.logActivity(userID, activity.EventCreditDenied, map[string]any{"cost": cost})
		return 0, apperr.InsufficientCredits(balance)
	}
	if err != nil {
		middleware.IncCreditDebit("error")
		return 0, apperr.Unavailable("credit service unavailable", err)
	}
	middleware.IncCreditDebit("ok")
	return balance, nil
}

// Refund compensates a debit whose downstream work failed after the
// charge, and records the compensation.
func (g *Governor) Refund(ctx context.Context, userID string, cost int, reason string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, creditOpTimeout)
	defer cancel()

	balance, err := g.Users.UpdateCredits(ctx, userID, cost)
	if err != nil {
		return 0, err
	}
	g.logActivity(userID, activity.EventCreditRefund, map[string]any{
		"amount": cost,
		"reason": reason,
	})
	return balance, nil
}

// AcquireSlot claims one of the user's concurrent-analysis slots. The
// returned release must be called when the analysis finishes.
func (g *Governor) AcquireSlot(userID string) (release func(), err error) {
	max := g.MaxInFlight
	if max <= 0 {
		max = defaultMaxInFlight
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inFlight == nil {
		g.inFlight = make(map[string]int)
	}
	if g.inFlight[userID] >= max {
		return nil, apperr.Busy()
	}
	g.inFlight[userID]++

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			if g.inFlight[userID]--; g.inFlight[userID] <= 0 {
				delete(g.inFlight, userID)
			}
		})
	}, nil
}

// Usage reports the analyze-window consumption for /usage.
func (g *Governor) Usage(userID string, tier users.Tier) (used, limit int, percentage float64, resetAt time.Time) {
	limit, span := LimitFor(EndpointAnalyze, tier, g.RateOverrides)
	used, resetAt = g.Limiter.Usage(userID+":"+string(EndpointAnalyze), span)
	if limit > 0 {
		percentage = float64(int(float64(used)/float64(limit)*1000+0.5)) / 10
	}
	return used, limit, percentage, resetAt
}

// logActivity appends best-effort; admission decisions never fail on a
// logging error.
func (g *Governor) logActivity(userID string, event activity.Event, payload map[string]any) {
	if g.Activity == nil {
		return
	}
	blob, _ := json.Marshal(payload)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = g.Activity.Append(ctx, &activity.Record{
		UserID:    userID,
		Event:     event,
		Payload:   string(blob),
		CreatedAt: g.now(),
	})
}

func (g *Governor) now() time.Time {
	if g.Clock != nil {
		return g.Clock.Now()
	}
	return time.Now()
}
