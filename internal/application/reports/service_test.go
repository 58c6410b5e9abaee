package reports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/veridianlabs/esg-intel/internal/application"
	"github.com/veridianlabs/esg-intel/internal/application/accounts"
	"github.com/veridianlabs/esg-intel/internal/domain/activity"
	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
	"github.com/veridianlabs/esg-intel/internal/domain/compliance"
	"github.com/veridianlabs/esg-intel/internal/domain/scoring"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

// fakeRepo serves canned analyses.
type fakeRepo struct {
	mu       sync.Mutex
	analyses []*domain.Analysis
}

func (r *fakeRepo) Insert(_ context.Context, a *domain.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses = append(r.analyses, a)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, userID string, id domain.AnalysisID) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.analyses {
		if a.ID == id && a.UserID == userID {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID string, page, pageSize int) ([]*domain.Analysis, error) {
	if page > 1 {
		return nil, nil
	}
	var out []*domain.Analysis
	for _, a := range r.analyses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByCompany(_ context.Context, name string, since time.Time) ([]*domain.Analysis, error) {
	var out []*domain.Analysis
	for _, a := range r.analyses {
		if a.CompanyName == name && !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) LatestByCompany(_ context.Context, name string) (*domain.Analysis, error) {
	var latest *domain.Analysis
	for _, a := range r.analyses {
		if a.CompanyName == name && (latest == nil || a.CreatedAt.After(latest.CreatedAt)) {
			latest = a
		}
	}
	return latest, nil
}

func (r *fakeRepo) Benchmark(_ context.Context, sector string) (domain.Benchmark, error) {
	return domain.Benchmark{Sector: sector, Overall: 70, SampleSize: 10}, nil
}

type nullActivity struct{}

func (nullActivity) Append(context.Context, *activity.Record) error { return nil }
func (nullActivity) ListByUser(context.Context, string, activity.Event, int) ([]*activity.Record, error) {
	return nil, nil
}

type nullUsers struct{}

func (nullUsers) Create(context.Context, *users.User) error { return nil }
func (nullUsers) Get(context.Context, string) (*users.User, error) {
	return nil, users.ErrNotFound
}
func (nullUsers) GetByEmail(context.Context, string) (*users.User, error) {
	return nil, users.ErrNotFound
}
func (nullUsers) UpdateCredits(context.Context, string, int) (int, error) { return 0, nil }
func (nullUsers) SetTier(context.Context, string, users.Tier, int, string) error {
	return nil
}
func (nullUsers) TouchLastSeen(context.Context, string) error { return nil }

func newReportsService(repo *fakeRepo) *Service {
	return &Service{
		Repo:     repo,
		Activity: nullActivity{},
		Governor: &accounts.Governor{
			Users:   nullUsers{},
			Limiter: accounts.NewRateLimiter(),
			Clock:   application.SystemClock{},
		},
		Clock: application.SystemClock{},
	}
}

func analysisAt(user, company string, overall float64, age time.Duration) *domain.Analysis {
	return &domain.Analysis{
		ID:          domain.AnalysisID(company + "-" + age.String()),
		UserID:      user,
		CompanyName: company,
		CreatedAt:   time.Now().UTC().Add(-age),
		Scores:      scoring.PillarScores{Environmental: overall, Social: overall, Governance: overall, Overall: overall},
		FrameworkCoverage: []compliance.Coverage{
			{Framework: "CSRD", CoveragePercentage: 40, RequirementsFound: 5, RequirementsTotal: 13},
		},
	}
}

func freeUser() *users.User {
	return &users.User{ID: "u1", Email: "a@b.co", Tier: users.TierFree}
}

func TestTrend(t *testing.T) {
	cases := []struct {
		overall []float64
		want    string
	}{
		{[]float64{50}, TrendStable},
		{[]float64{50, 53}, TrendImproving},
		{[]float64{50, 47.5}, TrendDeclining},
		{[]float64{50, 51}, TrendStable},
		{[]float64{10, 50, 52.5}, TrendImproving}, // only last 3 points
		{[]float64{90, 50, 48, 47}, TrendDeclining},
		{nil, TrendStable},
	}
	for _, tc := range cases {
		if got := trend(tc.overall); got != tc.want {
			t.Errorf("trend(%v)=%s, want %s", tc.overall, got, tc.want)
		}
	}
}

func TestHistoryOldestFirst(t *testing.T) {
	repo := &fakeRepo{}
	repo.analyses = append(repo.analyses,
		analysisAt("u1", "Acme", 70, 1*24*time.Hour),
		analysisAt("u1", "Acme", 50, 30*24*time.Hour),
		analysisAt("u1", "Acme", 60, 10*24*time.Hour),
	)
	s := newReportsService(repo)

	h, err := s.History(context.Background(), "Acme", 90)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.History) != 3 {
		t.Fatalf("history len=%d, want 3", len(h.History))
	}
	if !(h.History[0].Scores.Overall == 50 && h.History[2].Scores.Overall == 70) {
		t.Errorf("history not oldest-first: %+v", h.History)
	}
	if h.Trend != TrendImproving {
		t.Errorf("trend=%s, want improving", h.Trend)
	}
	if len(h.History[0].FrameworkCoverage) == 0 {
		t.Error("history points should carry coverage")
	}
}

func TestHistoryNotFound(t *testing.T) {
	s := newReportsService(&fakeRepo{})
	_, err := s.History(context.Background(), "Ghost", 90)
	if err == nil || apperr.From(err).Kind != apperr.KindNotFound {
		t.Errorf("expected not_found, got %v", err)
	}
}

func TestGapsSortedAndOwned(t *testing.T) {
	repo := &fakeRepo{}
	a := analysisAt("u1", "Acme", 60, time.Hour)
	a.Gaps = []compliance.Gap{
		{Framework: "GRI", RequirementID: "GRI-2", Severity: compliance.SeverityMedium},
		{Framework: "CSRD", RequirementID: "CSRD-9", Severity: compliance.SeverityCritical},
		{Framework: "CSRD", RequirementID: "CSRD-1", Severity: compliance.SeverityCritical},
		{Framework: "TCFD", RequirementID: "TCFD-1", Severity: compliance.SeverityHigh},
	}
	repo.analyses = append(repo.analyses, a)
	s := newReportsService(repo)

	gaps, err := s.Gaps(context.Background(), "u1", a.ID)
	if err != nil {
		t.Fatal(err)
	}
	wantIDs := []string{"CSRD-1", "CSRD-9", "TCFD-1", "GRI-2"}
	for i, g := range gaps {
		if g.RequirementID != wantIDs[i] {
			t.Fatalf("order[%d]=%s, want %s", i, g.RequirementID, wantIDs[i])
		}
	}

	// ownership: foreign user reads not-found
	if _, err := s.Gaps(context.Background(), "intruder", a.ID); apperr.From(err).Kind != apperr.KindNotFound {
		t.Errorf("expected not_found for foreign access, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	repo := &fakeRepo{}
	repo.analyses = append(repo.analyses,
		analysisAt("u1", "Acme", 60, 20*24*time.Hour),
		analysisAt("u1", "Acme", 65, time.Hour),
		analysisAt("u2", "Globex", 40, time.Hour),
	)
	s := newReportsService(repo)

	res, err := s.Compare(context.Background(), freeUser(), []string{"Acme", "Globex", "Ghost"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Companies) != 3 {
		t.Fatalf("companies=%d, want 3", len(res.Companies))
	}
	if res.Companies[0].Scores == nil || res.Companies[0].Scores.Overall != 65 {
		t.Errorf("Acme latest scores wrong: %+v", res.Companies[0])
	}
	if res.Companies[0].Trend != TrendImproving {
		t.Errorf("Acme trend=%s, want improving", res.Companies[0].Trend)
	}
	if res.Companies[2].Scores != nil || res.Companies[2].Message == "" {
		t.Errorf("Ghost should have no data: %+v", res.Companies[2])
	}
	if res.Benchmark.SampleSize == 0 {
		t.Error("benchmark baseline missing")
	}
}

func TestCompareLimits(t *testing.T) {
	s := newReportsService(&fakeRepo{})
	if _, err := s.Compare(context.Background(), freeUser(), nil); err == nil {
		t.Error("empty company list should be rejected")
	}
	if _, err := s.Compare(context.Background(), freeUser(),
		[]string{"a", "b", "c", "d", "e", "f"}); err == nil {
		t.Error("more than 5 companies should be rejected")
	}
}

func TestBenchmark(t *testing.T) {
	repo := &fakeRepo{}
	repo.analyses = append(repo.analyses,
		analysisAt("u1", "Acme", 80, time.Hour),
		analysisAt("u1", "Globex", 60, time.Hour),
	)
	s := newReportsService(repo)

	res, err := s.Benchmark(context.Background(), freeUser(), []string{"Acme", "Globex"},
		[]catalog.Framework{catalog.FrameworkCSRD})
	if err != nil {
		t.Fatal(err)
	}
	if res.BestPerformer != "Acme" {
		t.Errorf("best performer=%s, want Acme", res.BestPerformer)
	}
	if res.AverageScores.Overall != 70 {
		t.Errorf("average overall=%v, want 70", res.AverageScores.Overall)
	}
	for _, c := range res.Companies {
		for _, cov := range c.Coverage {
			if cov.Framework != "CSRD" {
				t.Errorf("coverage not filtered to requested frameworks: %+v", cov)
			}
		}
	}
}
