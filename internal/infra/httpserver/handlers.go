package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/veridianlabs/esg-intel/internal/application/analysis"
	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
	"github.com/veridianlabs/esg-intel/internal/middleware"
)

func contextWithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, requestTimeout)
}

// currentUser resolves the authenticated account from the token claims.
// Untokened requests only reach here on public-flagged endpoints and
// act as the anonymous tier, keyed by client address for rate limiting.
func (r *Router) currentUser(req *http.Request) (*users.User, error) {
	id, _, ok := middleware.UserFromContext(req.Context())
	if !ok {
		return anonymousUser(req), nil
	}
	return r.accounts.GetUser(req.Context(), id)
}

func anonymousUser(req *http.Request) *users.User {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}
	return &users.User{ID: "anon:" + host, Tier: users.TierAnonymous}
}

func decodeBody(req *http.Request, v any) error {
	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(v); err != nil {
		return apperr.Input("invalid request body: %v", err)
	}
	return nil
}

// POST /auth/register {"email": "..."}
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}

	u, err := r.accounts.Register(req.Context(), body.Email)
	if err != nil {
		return err
	}
	token, err := middleware.SignToken(r.jwtSecret, u.ID, u.Tier, r.tokenTTL)
	if err != nil {
		return apperr.Internal(err)
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"tier":    u.Tier,
		"credits": u.Credits,
	})
}

// POST /analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	u, err := r.currentUser(req)
	if err != nil {
		return err
	}

	var body struct {
		URL             string   `json:"url"`
		Text            string   `json:"text"`
		CompanyName     string   `json:"company_name"`
		QuickMode       bool     `json:"quick_mode"`
		Frameworks      []string `json:"frameworks"`
		IndustrySector  string   `json:"industry_sector"`
		ReportingPeriod string   `json:"reporting_period"`
		ExtractMetrics  bool     `json:"extract_metrics"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}

	fws := make([]catalog.Framework, len(body.Frameworks))
	for i, fw := range body.Frameworks {
		fws[i] = catalog.Framework(strings.ToUpper(strings.TrimSpace(fw)))
	}

	result, err := r.analysis.Analyze(req.Context(), u, appanalysis.AnalyzeCommand{
		URL:             strings.TrimSpace(body.URL),
		Text:            body.Text,
		CompanyName:     middleware.SanitizeString(body.CompanyName),
		QuickMode:       body.QuickMode,
		Frameworks:      fws,
		IndustrySector:  middleware.SanitizeString(body.IndustrySector),
		ReportingPeriod: middleware.SanitizeString(body.ReportingPeriod),
		ExtractMetrics:  body.ExtractMetrics,
	})
	if err != nil {
		return err
	}

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Rate.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Rate.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.Rate.ResetAt.Unix(), 10))

	fwLabels := make([]string, len(result.Frameworks))
	for i, fw := range result.Frameworks {
		fwLabels[i] = string(fw)
	}
	middleware.ObserveAnalysis(fwLabels, string(u.Tier))
	middleware.ObserveExtractedCount(len(result.ExtractedMetrics))

	return writeJSON(w, http.StatusOK, result)
}

// POST /compare {"companies": [...]}
func (r *Router) handleCompare(w http.ResponseWriter, req *http.Request) error {
	u, err := r.currentUser(req)
	if err != nil {
		return err
	}
	var body struct {
		Companies []string `json:"companies"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	for _, name := range body.Companies {
		if err := middleware.ValidateCompanyName(name); err != nil {
			return apperr.Input("%v", err)
		}
	}
	result, err := r.reports.Compare(req.Context(), u, body.Companies)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

// POST /benchmark {"companies": [...], "frameworks": [...]}
func (r *Router) handleBenchmark(w http.ResponseWriter, req *http.Request) error {
	u, err := r.currentUser(req)
	if err != nil {
		return err
	}
	var body struct {
		Companies  []string `json:"companies"`
		Frameworks []string `json:"frameworks"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	for _, name := range body.Companies {
		if err := middleware.ValidateCompanyName(name); err != nil {
			return apperr.Input("%v", err)
		}
	}
	fws := make([]catalog.Framework, len(body.Frameworks))
	for i, fw := range body.Frameworks {
		fws[i] = catalog.Framework(strings.ToUpper(strings.TrimSpace(fw)))
	}
	result, err := r.reports.Benchmark(req.Context(), u, body.Companies, fws)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, result)
}

// GET /frameworks
func (r *Router) handleFrameworks(w http.ResponseWriter, req *http.Request) error {
	summaries := map[string]catalog.Summary{}
	for _, fw := range r.catalog.Frameworks() {
		summaries[string(fw)] = r.catalog.Summarize(fw)
	}
	return writeJSON(w, http.StatusOK, map[string]any{"frameworks": summaries})
}

// GET /company/{name}/history?days=N
func (r *Router) handleCompanyHistory(w http.ResponseWriter, req *http.Request) error {
	if _, err := r.currentUser(req); err != nil {
		return err
	}
	name := chi.URLParam(req, "name")
	if err := middleware.ValidateCompanyName(name); err != nil {
		return apperr.Input("%v", err)
	}
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))
	days = middleware.ValidateDays(days)

	history, err := r.reports.History(req.Context(), name, days)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, history)
}

// GET /analysis/{id}/gaps
func (r *Router) handleAnalysisGaps(w http.ResponseWriter, req *http.Request) error {
	u, err := r.currentUser(req)
	if err != nil {
		return err
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		return apperr.Input("%v", err)
	}
	gaps, err := r.reports.Gaps(req.Context(), u.ID, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, gaps)
}

// POST /export {"format": "json|csv"}
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	u, err := r.currentUser(req)
	if err != nil {
		return err
	}
	var body struct {
		Format string `json:"format"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	result, err := r.reports.Export(req.Context(), u, body.Format, r.archive)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.Filename))
	if result.ArchiveURL != "" {
		w.Header().Set("X-Archive-Location", result.ArchiveURL)
	}
	_, err = w.Write(result.Body)
	return err
}

// GET /usage
func (r *Router) handleUsage(w http.ResponseWriter, req *http.Request) error {
	u, err := r.currentUser(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, r.accounts.Usage(u.ID, u.Tier))
}

// POST /subscribe {"tier": "...", "payment_method": "..."}
func (r *Router) handleSubscribe(w http.ResponseWriter, req *http.Request) error {
	u, err := r.currentUser(req)
	if err != nil {
		return err
	}
	var body struct {
		Tier          string `json:"tier"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	updated, err := r.accounts.Subscribe(req.Context(), u.ID, users.Tier(body.Tier), body.PaymentMethod)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"tier":    updated.Tier,
		"credits": updated.Credits,
	})
}
