package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/veridianlabs/esg-intel/internal/application"
	"github.com/veridianlabs/esg-intel/internal/application/accounts"
	"github.com/veridianlabs/esg-intel/internal/domain/activity"
	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
	"github.com/veridianlabs/esg-intel/internal/domain/companies"
	"github.com/veridianlabs/esg-intel/internal/domain/compliance"
	"github.com/veridianlabs/esg-intel/internal/domain/metrics"
	"github.com/veridianlabs/esg-intel/internal/domain/scoring"
	"github.com/veridianlabs/esg-intel/internal/domain/sentiment"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

const (
	maxInlineText  = 200_000
	persistTimeout = 5 * time.Second
	persistRetries = 3

	defaultCacheTTL = 24 * time.Hour
)

var persistBackoff = []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, 1500 * time.Millisecond}

// SingleFlight coalesces concurrent computes of the same fingerprint
// within this process.
type SingleFlight interface {
	// Do runs fn once per in-flight key; other callers share the result.
	Do(key string, fn func() (*domain.Analysis, error)) (a *domain.Analysis, shared bool, err error)
}

// AnalyzeCommand is the validated /analyze request body.
type AnalyzeCommand struct {
	URL             string
	Text            string
	CompanyName     string
	QuickMode       bool
	Frameworks      []catalog.Framework
	IndustrySector  string
	ReportingPeriod string
	ExtractMetrics  bool
}

// AnalyzeResult wraps the analysis snapshot with the request's billing
// outcome.
type AnalyzeResult struct {
	*domain.Analysis
	CacheHit         bool `json:"cache_hit"`
	CreditsUsed      int  `json:"credits_used"`
	CreditsRemaining int  `json:"credits_remaining"`

	// Rate carries the admission window state for response headers.
	Rate accounts.RateStatus `json:"-"`
}

// Service is the analysis orchestrator: admission, acquisition, cached
// or fresh computation, persistence, and activity. It is reentrant;
// independent pipeline steps run concurrently in full mode.
type Service struct {
	Catalog   *catalog.Catalog
	Repo      domain.Repository
	Companies companies.Repository
	Activity  activity.Repository
	Cache     domain.Cache
	Flight    SingleFlight
	Fetcher   domain.Fetcher
	Sentiment sentiment.Classifier // optional
	Governor  *accounts.Governor
	Clock     application.Clock

	Scorer       scoring.Scorer
	Standardizer metrics.Standardizer

	// CacheTTL overrides the default 24h snapshot lifetime.
	CacheTTL time.Duration
}

// Analyze runs the end-to-end pipeline for one request.
func (s *Service) Analyze(ctx context.Context, user *users.User, cmd AnalyzeCommand) (*AnalyzeResult, error) {
	if err := s.validate(&cmd); err != nil {
		return nil, err
	}

	rate, err := s.Governor.CheckRate(ctx, user.ID, user.Tier, accounts.EndpointAnalyze)
	if err != nil {
		return nil, err
	}

	release, err := s.Governor.AcquireSlot(user.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	kind := domain.KindFull
	if cmd.QuickMode {
		kind = domain.KindQuick
	}

	cost := accounts.CostFull
	if cmd.QuickMode {
		cost = accounts.CostQuick
	}
	if cmd.URL != "" {
		cost += accounts.CostFetch
	}

	// The anonymous tier carries no credits and leaves no records; it is
	// admitted by its rate-limit row alone.
	if user.Tier == users.TierAnonymous {
		result, err := s.run(ctx, user, cmd, kind)
		if err != nil {
			return nil, err
		}
		result.Rate = rate
		return result, nil
	}

	// Debit up front; every downstream failure path compensates, so the
	// debit observably happens-before persistence of the analysis that
	// consumed it.
	balance, err := s.Governor.Debit(ctx, user.ID, cost)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, user, cmd, kind)
	if err != nil {
		_, _ = s.Governor.Refund(ctx, user.ID, cost, string(apperr.From(err).Kind))
		return nil, err
	}

	used := cost
	if result.CacheHit {
		// Cache hits charge the quick cost only.
		if refund := cost - accounts.CostCacheHit; refund > 0 {
			if b, rerr := s.Governor.Refund(ctx, user.ID, refund, "cache_hit"); rerr == nil {
				balance = b
			}
		}
		used = accounts.CostCacheHit
	}

	result.CreditsUsed = used
	result.CreditsRemaining = balance
	result.Rate = rate

	s.logAnalyze(user.ID, result)
	return result, nil
}

func (s *Service) validate(cmd *AnalyzeCommand) error {
	if cmd.URL == "" && cmd.Text == "" {
		return apperr.Input("either url or text must be provided")
	}
	if cmd.URL != "" && cmd.Text != "" {
		return apperr.Input("url and text are mutually exclusive")
	}
	if len(cmd.Text) > maxInlineText {
		return apperr.Input("text content too long (max %d characters)", maxInlineText)
	}
	if len(cmd.Frameworks) == 0 {
		cmd.Frameworks = catalog.All()
	}
	seen := map[catalog.Framework]bool{}
	for _, fw := range cmd.Frameworks {
		if !catalog.Valid(fw) {
			return apperr.Input("invalid framework: %s", fw)
		}
		if seen[fw] {
			return apperr.Input("duplicate framework: %s", fw)
		}
		seen[fw] = true
	}
	return nil
}

// run acquires content, consults the cache under single-flight, and
// computes on miss.
func (s *Service) run(ctx context.Context, user *users.User, cmd AnalyzeCommand, kind domain.Kind) (*AnalyzeResult, error) {
	var (
		text        string
		source      string
		fingerprint string
	)
	if cmd.URL != "" {
		fetched, err := s.Fetcher.Fetch(ctx, cmd.URL)
		if err != nil {
			return nil, err
		}
		text = fetched.Text
		source = cmd.URL
		fingerprint = domain.FingerprintURL(cmd.URL, kind, cmd.Frameworks, cmd.IndustrySector)
	} else {
		text = cmd.Text
		source = domain.SourceText
		fingerprint = domain.FingerprintText(cmd.Text, kind, cmd.Frameworks, cmd.IndustrySector)
	}

	if cached, ok := s.Cache.Get(ctx, fingerprint); ok {
		return &AnalyzeResult{Analysis: cached, CacheHit: true}, nil
	}

	computed := false
	a, shared, err := s.Flight.Do(fingerprint, func() (*domain.Analysis, error) {
		computed = true
		a, err := s.compute(ctx, user, cmd, kind, source, fingerprint, text)
		if err != nil {
			return nil, err
		}
		// Cache write happens after persistence; it is idempotent and
		// may complete even if the caller has gone away.
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = defaultCacheTTL
		}
		putCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.Cache.Put(putCtx, fingerprint, a, ttl)
		return a, nil
	})
	if err != nil {
		return nil, err
	}
	// A caller that piggybacked on another in-flight compute is served
	// a snapshot, exactly like a cache hit.
	return &AnalyzeResult{Analysis: a, CacheHit: shared && !computed}, nil
}

// compute runs scoring, sentiment, extraction, and compliance, then
// persists the assembled analysis.
func (s *Service) compute(ctx context.Context, user *users.User, cmd AnalyzeCommand, kind domain.Kind, source, fingerprint, text string) (*domain.Analysis, error) {
	normalized := scoring.Normalize(text)

	var (
		signal    *sentiment.Signal
		extracted []metrics.ExtractedMetric
		diag      metrics.Diagnostics
	)

	g, gctx := errgroup.WithContext(ctx)

	if s.Sentiment != nil && kind == domain.KindFull {
		g.Go(func() error {
			// Best-effort: classification errors never fail the analysis.
			if sig, err := s.Sentiment.Classify(gctx, head(text, 2000)); err == nil {
				signal = &sig
			}
			return nil
		})
	}

	if kind == domain.KindFull && cmd.ExtractMetrics {
		g.Go(func() error {
			ex := metrics.Extractor{Catalog: s.Catalog, Standardizer: s.Standardizer}
			extracted, diag = ex.Extract(text, cmd.Frameworks)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	scores := s.Scorer.ScoreWithSentiment(normalized, signal)
	keywords := s.Scorer.TopKeywords(normalized, 10)

	comp := s.evaluateFrameworks(ctx, normalized, extracted, cmd.Frameworks, cmd.IndustrySector)

	confidence := 0.7
	if kind == domain.KindFull {
		confidence = 0.75
		if signal != nil {
			confidence = 0.85
		}
	}

	a := &domain.Analysis{
		ID:                domain.AnalysisID(uuid.New().String()),
		UserID:            user.ID,
		Source:            source,
		Fingerprint:       fingerprint,
		CompanyName:       cmd.CompanyName,
		Kind:              kind,
		IndustrySector:    cmd.IndustrySector,
		ReportingPeriod:   cmd.ReportingPeriod,
		CreatedAt:         s.Clock.Now(),
		Frameworks:        cmd.Frameworks,
		Scores:            scores,
		Keywords:          keywords,
		Insights:          domain.BuildInsights(scores, normalized, comp.Gaps),
		Sentiment:         signal,
		Confidence:        confidence,
		ExtractedMetrics:  extracted,
		FrameworkCoverage: comp.Coverage,
		Gaps:              comp.Gaps,
		Findings:          comp.Findings,
		Recommendations:   comp.Recommendations,
		Diagnostics:       diag,
	}

	// A user-visible analysis is only persisted when the request is
	// still live; compute that outlived its deadline is discarded.
	if ctx.Err() != nil {
		return nil, apperr.From(ctx.Err())
	}

	// Anonymous analyses are never persisted; the snapshot cache is the
	// only place they live.
	if user.Tier != users.TierAnonymous {
		if err := s.persist(ctx, a); err != nil {
			return nil, err
		}
		s.updateCompany(ctx, a)
	}
	return a, nil
}

// evaluateFrameworks runs the compliance engine per framework
// concurrently and merges results in stable framework order. One
// framework can never fail another's evaluation.
func (s *Service) evaluateFrameworks(ctx context.Context, normalized string, extracted []metrics.ExtractedMetric, frameworks []catalog.Framework, industry string) compliance.Result {
	if len(frameworks) == 0 {
		return compliance.Result{}
	}

	engine := compliance.Engine{Catalog: s.Catalog}
	partial := make([]compliance.Result, len(frameworks))

	var g errgroup.Group
	for i, fw := range frameworks {
		g.Go(func() error {
			partial[i] = engine.Evaluate(normalized, extracted, []catalog.Framework{fw}, industry)
			return nil
		})
	}
	_ = g.Wait()

	var merged compliance.Result
	for _, p := range partial {
		merged.Findings = append(merged.Findings, p.Findings...)
		merged.Coverage = append(merged.Coverage, p.Coverage...)
		merged.Gaps = append(merged.Gaps, p.Gaps...)
		merged.Recommendations = append(merged.Recommendations, p.Recommendations...)
	}
	if len(merged.Recommendations) > 10 {
		merged.Recommendations = merged.Recommendations[:10]
	}
	sort.SliceStable(merged.Coverage, func(i, j int) bool {
		return merged.Coverage[i].Framework < merged.Coverage[j].Framework
	})
	return merged
}

// persist writes the analysis with bounded retries on transient store
// errors. A final failure surfaces as a dependency error so the caller
// can compensate the debit.
func (s *Service) persist(ctx context.Context, a *domain.Analysis) error {
	var lastErr error
	for attempt := 0; attempt < persistRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(persistBackoff[attempt-1]):
			case <-ctx.Done():
				return apperr.From(ctx.Err())
			}
		}
		opCtx, cancel := context.WithTimeout(ctx, persistTimeout)
		lastErr = s.Repo.Insert(opCtx, a)
		cancel()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return apperr.Unavailable("analysis store unavailable", lastErr)
}

// updateCompany refreshes the shared company profile; best-effort.
func (s *Service) updateCompany(ctx context.Context, a *domain.Analysis) {
	if s.Companies == nil || a.CompanyName == "" {
		return
	}
	p, err := s.Companies.Get(ctx, a.CompanyName)
	if err != nil || p == nil {
		p = &companies.Profile{Name: a.CompanyName}
	}
	if a.IndustrySector != "" {
		p.IndustrySector = a.IndustrySector
	}
	p.LatestAnalysisID = string(a.ID)
	p.LatestOverall = a.Scores.Overall
	p.History = append(p.History, companies.ScorePoint{Overall: a.Scores.Overall, Timestamp: a.CreatedAt})
	p.UpdatedAt = a.CreatedAt
	_ = s.Companies.Upsert(ctx, p)
}

// logAnalyze appends the activity record after the operation completed.
func (s *Service) logAnalyze(userID string, res *AnalyzeResult) {
	if s.Activity == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"analysis_id": res.ID,
		"kind":        res.Kind,
		"cache_hit":   res.CacheHit,
		"overall":     res.Scores.Overall,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.Activity.Append(ctx, &activity.Record{
		UserID:    userID,
		Event:     activity.EventAnalyze,
		Payload:   string(payload),
		CreatedAt: s.Clock.Now(),
	})
}

// GetByID returns one of the caller's analyses; foreign or missing ids
// both read as not-found.
func (s *Service) GetByID(ctx context.Context, userID string, id domain.AnalysisID) (*domain.Analysis, error) {
	a, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound(fmt.Sprintf("analysis %s not found", id))
	}
	return a, nil
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
