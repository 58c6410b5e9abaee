package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/veridianlabs/esg-intel/internal/domain/activity"
	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
	"github.com/veridianlabs/esg-intel/internal/domain/companies"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

type memAnalysisRepo struct {
	mu       sync.Mutex
	byID     map[domain.AnalysisID]*domain.Analysis
	failNext bool
	inserts  int
}

func newMemAnalysisRepo() *memAnalysisRepo {
	return &memAnalysisRepo{byID: map[domain.AnalysisID]*domain.Analysis{}}
}

func (r *memAnalysisRepo) Insert(_ context.Context, a *domain.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext {
		return errors.New("store down")
	}
	c := *a
	r.byID[a.ID] = &c
	r.inserts++
	return nil
}

func (r *memAnalysisRepo) GetByID(_ context.Context, userID string, id domain.AnalysisID) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (r *memAnalysisRepo) ListByUser(_ context.Context, userID string, page, pageSize int) ([]*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Analysis
	if page > 1 {
		return nil, nil
	}
	for _, a := range r.byID {
		if a.UserID == userID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memAnalysisRepo) ListByCompany(_ context.Context, name string, since time.Time) ([]*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Analysis
	for _, a := range r.byID {
		if a.CompanyName == name && !a.CreatedAt.Before(since) {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memAnalysisRepo) LatestByCompany(_ context.Context, name string) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.Analysis
	for _, a := range r.byID {
		if a.CompanyName == name && (latest == nil || a.CreatedAt.After(latest.CreatedAt)) {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (r *memAnalysisRepo) Benchmark(_ context.Context, sector string) (domain.Benchmark, error) {
	return domain.Benchmark{Sector: sector}, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string]*domain.Analysis
	puts int
}

func newMemCache() *memCache {
	return &memCache{data: map[string]*domain.Analysis{}}
}

func (c *memCache) Get(_ context.Context, fp string) (*domain.Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.data[fp]
	if !ok {
		return nil, false
	}
	cp := *a
	return &cp, true
}

func (c *memCache) Put(_ context.Context, fp string, a *domain.Analysis, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *a
	c.data[fp] = &cp
	c.puts++
}

// serialFlight runs every compute inline; single-flight behavior is
// covered by the cache package tests.
type serialFlight struct{}

func (serialFlight) Do(_ string, fn func() (*domain.Analysis, error)) (*domain.Analysis, bool, error) {
	a, err := fn()
	return a, false, err
}

type memCompanyRepo struct {
	mu       sync.Mutex
	profiles map[string]*companies.Profile
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{profiles: map[string]*companies.Profile{}}
}

func (r *memCompanyRepo) Upsert(_ context.Context, p *companies.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *p
	r.profiles[p.Name] = &c
	return nil
}

func (r *memCompanyRepo) Get(_ context.Context, name string) (*companies.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[name]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*users.User
}

func newMemUserRepo(seed ...*users.User) *memUserRepo {
	r := &memUserRepo{byID: map[string]*users.User{}}
	for _, u := range seed {
		c := *u
		r.byID[u.ID] = &c
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, u *users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *u
	r.byID[u.ID] = &c
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
	for _, u := range r.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, users.ErrNotFound
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

func (r *memUserRepo) TouchLastSeen(context.Context, string) error { return nil }

func (r *memUserRepo) credits(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].Credits
}

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
	return nil, nil
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

// stubFetcher returns canned content or a canned error.
type stubFetcher struct {
	text string
	err  error
}

func (f *stubFetcher) Fetch(context.Context, string) (domain.Fetched, error) {
	if f.err != nil {
		return domain.Fetched{}, f.err
	}
	return domain.Fetched{Text: f.text, MIME: "html"}, nil
}
