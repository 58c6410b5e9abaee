package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/veridianlabs/esg-intel/internal/application/accounts"
	appanalysis "github.com/veridianlabs/esg-intel/internal/application/analysis"
	"github.com/veridianlabs/esg-intel/internal/application/reports"
	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
	"github.com/veridianlabs/esg-intel/internal/middleware"
)

// requestTimeout bounds every request end to end.
const requestTimeout = 60 * time.Second

// Router wires the HTTP surface onto the application services.
type Router struct {
	accounts *accounts.Service
	analysis *appanalysis.Service
	reports  *reports.Service
	catalog  *catalog.Catalog
	archive  reports.ArchiveStore // nil when no object store configured

	jwtSecret []byte
	tokenTTL  time.Duration
	version   string
}

// Options carries everything the router needs from main.
type Options struct {
	Accounts  *accounts.Service
	Analysis  *appanalysis.Service
	Reports   *reports.Service
	Catalog   *catalog.Catalog
	Archive   reports.ArchiveStore
	JWTSecret []byte
	TokenTTL  time.Duration
	Version   string

	CORSOrigins []string
	Health      map[string]middleware.HealthChecker
}

// New builds the full middleware stack and route table.
func New(opts Options) http.Handler {
	r := &Router{
		accounts:  opts.Accounts,
		analysis:  opts.Analysis,
		reports:   opts.Reports,
		catalog:   opts.Catalog,
		archive:   opts.Archive,
		jwtSecret: opts.JWTSecret,
		tokenTTL:  opts.TokenTTL,
		version:   opts.Version,
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	mux.Use(middleware.BearerAuth(opts.JWTSecret))

	mux.Get("/health", middleware.HealthHandler(opts.Version))
	mux.Get("/health/detailed", middleware.DetailedHealthHandler(opts.Version, opts.Health))
	mux.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	mux.Post("/auth/register", r.wrap(r.handleRegister))
	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Post("/compare", r.wrap(r.handleCompare))
	mux.Post("/benchmark", r.wrap(r.handleBenchmark))
	mux.Get("/frameworks", r.wrap(r.handleFrameworks))
	mux.Get("/company/{name}/history", r.wrap(r.handleCompanyHistory))
	mux.Get("/analysis/{id}/gaps", r.wrap(r.handleAnalysisGaps))
	mux.Post("/export", r.wrap(r.handleExport))
	mux.Get("/usage", r.wrap(r.handleUsage))
	mux.Post("/subscribe", r.wrap(r.handleSubscribe))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap applies the request deadline and maps returned errors onto the
// response envelope.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := req.Context(), func() {}
		if _, has := ctx.Deadline(); !has {
			ctx, cancel = contextWithTimeout(ctx)
		}
		defer cancel()

		if err := h(w, req.WithContext(ctx)); err != nil {
			writeError(w, req, err)
		}
	}
}
