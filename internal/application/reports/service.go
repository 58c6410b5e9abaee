package reports

import (
	"context"
	"encoding/json"
	"sort"
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

const (
	maxCompareCompanies   = 5
	maxBenchmarkCompanies = 10
	defaultHistoryDays    = 90
	maxHistoryDays        = 365
)

// Trend tags derived from the last three score points.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Service implements history, comparison, benchmarking, and export.
type Service struct {
	Repo     domain.Repository
	Activity activity.Repository
	Governor *accounts.Governor
	Clock    application.Clock
}

// HistoryPoint is one timestamped observation in a company's history.
type HistoryPoint struct {
	Timestamp         time.Time             `json:"timestamp"`
	Scores            scoring.PillarScores  `json:"scores"`
	FrameworkCoverage []compliance.Coverage `json:"framework_coverage,omitempty"`
}

// CompanyHistory is the /company/{name}/history payload.
type CompanyHistory struct {
	Company    string         `json:"company"`
	PeriodDays int            `json:"period_days"`
	History    []HistoryPoint `json:"history"`
	Trend      string         `json:"trend"`
}

// History returns a company's score history, oldest first.
func (s *Service) History(ctx context.Context, companyName string, days int) (*CompanyHistory, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}
	since := s.Clock.Now().AddDate(0, 0, -days)

	analyses, err := s.Repo.ListByCompany(ctx, companyName, since)
	if err != nil {
		return nil, apperr.Unavailable("analysis store unavailable", err)
	}
	if len(analyses) == 0 {
		return nil, apperr.NotFound("no historical data found for this company")
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].CreatedAt.Before(analyses[j].CreatedAt)
	})

	h := &CompanyHistory{Company: companyName, PeriodDays: days}
	overall := make([]float64, 0, len(analyses))
	for _, a := range analyses {
		h.History = append(h.History, HistoryPoint{
			Timestamp:         a.CreatedAt,
			Scores:            a.Scores,
			FrameworkCoverage: a.FrameworkCoverage,
		})
		overall = append(overall, a.Scores.Overall)
	}
	h.Trend = trend(overall)
	return h, nil
}

// Gaps returns the gap list of one of the caller's analyses, sorted by
// severity, framework, then requirement id.
func (s *Service) Gaps(ctx context.Context, userID string, id domain.AnalysisID) ([]compliance.Gap, error) {
	a, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("analysis not found")
	}
	gaps := make([]compliance.Gap, len(a.Gaps))
	copy(gaps, a.Gaps)
	compliance.SortGaps(gaps)
	return gaps, nil
}

// CompanyComparison is the per-company block of /compare and /benchmark.
type CompanyComparison struct {
	Company     string                `json:"company"`
	Scores      *scoring.PillarScores `json:"scores,omitempty"`
	Coverage    []compliance.Coverage `json:"framework_coverage,omitempty"`
	Trend       string                `json:"trend,omitempty"`
	LastUpdated *time.Time            `json:"last_updated,omitempty"`
	Message     string                `json:"message,omitempty"`
}

// CompareResult is the /compare payload.
type CompareResult struct {
	Companies []CompanyComparison `json:"companies"`
	Benchmark domain.Benchmark    `json:"benchmark"`
}

// Compare reports each company's latest scores plus a sector-median
// baseline (global median when no sector dominates).
func (s *Service) Compare(ctx context.Context, user *users.User, companyNames []string) (*CompareResult, error) {
	if len(companyNames) == 0 {
		return nil, apperr.Input("at least one company must be provided")
	}
	if len(companyNames) > maxCompareCompanies {
		return nil, apperr.Input("maximum %d companies can be compared at once", maxCompareCompanies)
	}
	if _, err := s.Governor.CheckRate(ctx, user.ID, user.Tier, accounts.EndpointCompare); err != nil {
		return nil, err
	}

	res := &CompareResult{}
	sectors := map[string]int{}
	for _, name := range companyNames {
		cmp, sector := s.compareOne(ctx, name)
		res.Companies = append(res.Companies, cmp)
		if sector != "" {
			sectors[sector]++
		}
	}

	baseline, err := s.Repo.Benchmark(ctx, dominantSector(sectors))
	if err == nil {
		res.Benchmark = baseline
	}

	if user.Tier != users.TierAnonymous {
		s.log(user.ID, activity.EventCompare, map[string]any{"companies": companyNames})
	}
	return res, nil
}

func (s *Service) compareOne(ctx context.Context, name string) (CompanyComparison, string) {
	cmp := CompanyComparison{Company: name}

	latest, err := s.Repo.LatestByCompany(ctx, name)
	if err != nil || latest == nil {
		cmp.Message = "no analysis data available for this company"
		return cmp, ""
	}
	scores := latest.Scores
	cmp.Scores = &scores
	cmp.Coverage = latest.FrameworkCoverage
	ts := latest.CreatedAt
	cmp.LastUpdated = &ts

	history, err := s.Repo.ListByCompany(ctx, name, s.Clock.Now().AddDate(0, 0, -maxHistoryDays))
	if err == nil {
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].CreatedAt.Before(history[j].CreatedAt)
		})
		overall := make([]float64, len(history))
		for i, a := range history {
			overall[i] = a.Scores.Overall
		}
		cmp.Trend = trend(overall)
	}
	return cmp, latest.IndustrySector
}

// BenchmarkResult is the /benchmark payload.
type BenchmarkResult struct {
	Companies          []CompanyComparison  `json:"companies"`
	AverageScores      scoring.PillarScores `json:"average_scores"`
	BestPerformer      string               `json:"best_performer,omitempty"`
	FrameworksAnalyzed []catalog.Framework  `json:"frameworks_analyzed"`
}

// Benchmark compares companies' latest coverage against the requested
// frameworks.
func (s *Service) Benchmark(ctx context.Context, user *users.User, companyNames []string, frameworks []catalog.Framework) (*BenchmarkResult, error) {
	if len(companyNames) == 0 {
		return nil, apperr.Input("at least one company must be provided")
	}
	if len(companyNames) > maxBenchmarkCompanies {
		return nil, apperr.Input("maximum %d companies allowed", maxBenchmarkCompanies)
	}
	if len(frameworks) == 0 {
		frameworks = catalog.All()
	}
	for _, fw := range frameworks {
		if !catalog.Valid(fw) {
			return nil, apperr.Input("invalid framework: %s", fw)
		}
	}
	if _, err := s.Governor.CheckRate(ctx, user.ID, user.Tier, accounts.EndpointCompare); err != nil {
		return nil, err
	}

	res := &BenchmarkResult{FrameworksAnalyzed: frameworks}
	var (
		sum  scoring.PillarScores
		n    int
		best float64
	)
	for _, name := range companyNames {
		cmp, _ := s.compareOne(ctx, name)
		cmp.Coverage = filterCoverage(cmp.Coverage, frameworks)
		res.Companies = append(res.Companies, cmp)

		if cmp.Scores != nil && cmp.Scores.Overall > 0 {
			n++
			sum.Environmental += cmp.Scores.Environmental
			sum.Social += cmp.Scores.Social
			sum.Governance += cmp.Scores.Governance
			sum.Overall += cmp.Scores.Overall
			if cmp.Scores.Overall > best {
				best = cmp.Scores.Overall
				res.BestPerformer = name
			}
		}
	}
	if n > 0 {
		res.AverageScores = scoring.PillarScores{
			Environmental: round1(sum.Environmental / float64(n)),
			Social:        round1(sum.Social / float64(n)),
			Governance:    round1(sum.Governance / float64(n)),
			Overall:       round1(sum.Overall / float64(n)),
		}
	}
	return res, nil
}

// trend derives the tag from the last three points: a net move of at
// least +2 is improving, at most -2 declining, anything else stable.
func trend(overall []float64) string {
	if len(overall) < 2 {
		return TrendStable
	}
	if len(overall) > 3 {
		overall = overall[len(overall)-3:]
	}
	delta := overall[len(overall)-1] - overall[0]
	switch {
	case delta >= 2:
		return TrendImproving
	case delta <= -2:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func filterCoverage(cov []compliance.Coverage, frameworks []catalog.Framework) []compliance.Coverage {
	want := map[string]bool{}
	for _, fw := range frameworks {
		want[string(fw)] = true
	}
	var out []compliance.Coverage
	for _, c := range cov {
		if want[c.Framework] {
			out = append(out, c)
		}
	}
	return out
}

func dominantSector(sectors map[string]int) string {
	best, bestN := "", 0
	for s, n := range sectors {
		if n > bestN {
			best, bestN = s, n
		}
	}
	return best
}

func round1(v float64) float64 {
	if v < 0 {
		return float64(int(v*10-0.5)) / 10
	}
	return float64(int(v*10+0.5)) / 10
}

func (s *Service) log(userID string, event activity.Event, payload map[string]any) {
	if s.Activity == nil {
		return
	}
	blob, _ := json.Marshal(payload)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.Activity.Append(ctx, &activity.Record{
		UserID:    userID,
		Event:     event,
		Payload:   string(blob),
		CreatedAt: s.Clock.Now(),
	})
}
