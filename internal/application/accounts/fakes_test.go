package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/veridianlabs/esg-intel/internal/domain/activity"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

// memUserRepo is an in-memory users.Repository whose UpdateCredits is
// atomic under a mutex, matching the store's guarantee.
type memUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*users.User
	byEmail map[string]string
}

func newMemUserRepo(seed ...*users.User) *memUserRepo {
	r := &memUserRepo{byID: map[string]*users.User{}, byEmail: map[string]string{}}
	for _, u := range seed {
		c := *u
		r.byID[u.ID] = &c
		r.byEmail[u.Email] = u.ID
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, u *users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *u
	r.byID[u.ID] = &c
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *memUserRepo) Get(_ context.Context, id string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	c := *r.byID[id]
	return &c, nil
}

func (r *memUserRepo) UpdateCredits(_ context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return 0, users.ErrNotFound
	}
	if u.Credits+delta < 0 {
		return u.Credits, users.ErrInsufficientCredits
	}
	u.Credits += delta
	return u.Credits, nil
}

func (r *memUserRepo) SetTier(_ context.Context, id string, tier users.Tier, credits int, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	u.Tier = tier
	u.Credits = credits
	u.PaymentCustomerID = customerID
	return nil
}

func (r *memUserRepo) TouchLastSeen(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.LastSeenAt = time.Now().UTC()
	}
	return nil
}

// memActivityRepo records appended events for assertions.
type memActivityRepo struct {
	mu      sync.Mutex
	records []*activity.Record
}

func (r *memActivityRepo) Append(_ context.Context, rec *activity.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *rec
	r.records = append(r.records, &c)
	return nil
}

func (r *memActivityRepo) ListByUser(_ context.Context, userID string, event activity.Event, limit int) ([]*activity.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*activity.Record
	for _, rec := range r.records {
		if rec.UserID == userID && (event == "" || rec.Event == event) {
			out = append(out, rec)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memActivityRepo) eventsOf(kind activity.Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.Event == kind {
			n++
		}
	}
	return n
}

// fakePayments approves every call unless fail is set, and records the
// tier of the last approved call.
type fakePayments struct {
	lastTier string
	fail     bool
}

func (f *fakePayments) Subscribe(_ context.Context, email, tier, method string) (string, error) {
	if f.fail {
		return "", context.DeadlineExceeded
	}
	f.lastTier = tier
	return "cus_test", nil
}
