package accounts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/veridianlabs/esg-intel/internal/application"
	"github.com/veridianlabs/esg-intel/internal/domain/activity"
	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

func newGovernor(repo users.Repository, act activity.Repository) *Governor {
	return &Governor{
		Users:    repo,
		Activity: act,
		Limiter:  NewRateLimiter(),
		Clock:    application.SystemClock{},
	}
}

func TestDebitAndRefund(t *testing.T) {
	repo := newMemUserRepo(&users.User{ID: "u1", Email: "a@b.co", Tier: users.TierFree, Credits: 10})
	act := &memActivityRepo{}
	g := newGovernor(repo, act)

	balance, err := g.Debit(context.Background(), "u1", 7)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 3 {
		t.Errorf("balance=%d, want 3", balance)
	}

	balance, err = g.Refund(context.Background(), "u1", 7, "fetch_failed")
	if err != nil {
		t.Fatal(err)
	}
	if balance != 10 {
		t.Errorf("balance after refund=%d, want 10", balance)
	}
	if act.eventsOf(activity.EventCreditRefund) != 1 {
		t.Error("refund should be recorded in activity")
	}
}

func TestDebitInsufficient(t *testing.T) {
	repo := newMemUserRepo(&users.User{ID: "u1", Email: "a@b.co", Credits: 3})
	act := &memActivityRepo{}
	g := newGovernor(repo, act)

	_, err := g.Debit(context.Background(), "u1", 5)
	if err == nil {
		t.Fatal("expected insufficient-credits error")
	}
	e := apperr.From(err)
	if e.Kind != apperr.KindQuota {
		t.Errorf("kind=%s, want %s", e.Kind, apperr.KindQuota)
	}
	if act.eventsOf(activity.EventCreditDenied) != 1 {
		t.Error("denial should be recorded in activity")
	}

	// balance untouched
	u, _ := repo.Get(context.Background(), "u1")
	if u.Credits != 3 {
		t.Errorf("credits=%d, want 3", u.Credits)
	}
}

func TestDebitLastCreditConcurrent(t *testing.T) {
	repo := newMemUserRepo(&users.User{ID: "u1", Email: "a@b.co", Credits: 1})
	g := newGovernor(repo, &memActivityRepo{})

	const n = 16
	var (
		wg        sync.WaitGroup
		successes int32
		mu        sync.Mutex
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Debit(context.Background(), "u1", 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("concurrent debits of the last credit: %d successes, want exactly 1", successes)
	}
	u, _ := repo.Get(context.Background(), "u1")
	if u.Credits != 0 {
		t.Errorf("credits=%d, want 0", u.Credits)
	}
}

func TestCheckRateRejectsAndLogs(t *testing.T) {
	repo := newMemUserRepo(&users.User{ID: "u1", Email: "a@b.co", Credits: 100})
	act := &memActivityRepo{}
	g := newGovernor(repo, act)
	g.RateOverrides = map[string]int{"analyze:free": 1}

	if _, err := g.CheckRate(context.Background(), "u1", users.TierFree, EndpointAnalyze); err != nil {
		t.Fatal(err)
	}
	_, err := g.CheckRate(context.Background(), "u1", users.TierFree, EndpointAnalyze)
	if err == nil {
		t.Fatal("second request should be rate limited")
	}
	e := apperr.From(err)
	if e.Kind != apperr.KindRateLimited || e.RetryAfter <= 0 {
		t.Errorf("unexpected error: %+v", e)
	}
	if act.eventsOf(activity.EventRateLimitHit) != 1 {
		t.Error("rate limit hit should be recorded")
	}
}

func TestAcquireSlotBound(t *testing.T) {
	g := newGovernor(newMemUserRepo(), &memActivityRepo{})
	g.MaxInFlight = 2

	r1, err := g.AcquireSlot("u1")
	if err != nil {
		t.Fatal(err)
	}
	r2, err := g.AcquireSlot("u1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AcquireSlot("u1"); err == nil {
		t.Fatal("third slot should be refused")
	} else if apperr.From(err).Kind != apperr.KindBusy {
		t.Errorf("kind=%s, want busy", apperr.From(err).Kind)
	}

	// another user is unaffected
	if _, err := g.AcquireSlot("u2"); err != nil {
		t.Errorf("other user's slot refused: %v", err)
	}

	r1()
	r1() // double release is safe
	if _, err := g.AcquireSlot("u1"); err != nil {
		t.Errorf("slot should free after release: %v", err)
	}
	r2()
}

func TestRefundMissingUserReturnsNotFound(t *testing.T) {
	repo := newMemUserRepo(&users.User{ID: "u1", Email: "a@b.co", Credits: 0})
	g := newGovernor(repo, &memActivityRepo{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := g.Refund(ctx, "missing", 1, "x"); !errors.Is(err, users.ErrNotFound) {
		t.Errorf("expected not-found passthrough, got %v", err)
	}
}
