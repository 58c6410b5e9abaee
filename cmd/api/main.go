package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veridianlabs/esg-intel/internal/application"
	"github.com/veridianlabs/esg-intel/internal/application/accounts"
	appanalysis "github.com/veridianlabs/esg-intel/internal/application/analysis"
	"github.com/veridianlabs/esg-intel/internal/application/reports"
	"github.com/veridianlabs/esg-intel/internal/config"
	"github.com/veridianlabs/esg-intel/internal/domain/activity"
	domanalysis "github.com/veridianlabs/esg-intel/internal/domain/analysis"
	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
	"github.com/veridianlabs/esg-intel/internal/domain/companies"
	"github.com/veridianlabs/esg-intel/internal/domain/sentiment"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
	aiopenai "github.com/veridianlabs/esg-intel/internal/infra/ai/openai"
	infrabilling "github.com/veridianlabs/esg-intel/internal/infra/billing"
	"github.com/veridianlabs/esg-intel/internal/infra/cache"
	mysqlp "github.com/veridianlabs/esg-intel/internal/infra/db/mysql"
	postgresp "github.com/veridianlabs/esg-intel/internal/infra/db/postgres"
	"github.com/veridianlabs/esg-intel/internal/infra/fetch"
	"github.com/veridianlabs/esg-intel/internal/infra/httpserver"
	minioStore "github.com/veridianlabs/esg-intel/internal/infra/storage"
	"github.com/veridianlabs/esg-intel/internal/middleware"
)

const version = "1.0.0"

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// catalog is read-only after this point; a corrupt catalog is fatal
	cat, err := catalog.New()
	if err != nil {
		log.Fatalf("catalog load error: %v", err)
	}

	// connect primary store (backend picked by DSN scheme)
	var (
		db           *sql.DB
		userRepo     users.Repository
		analysisRepo domanalysis.Repository
		activityRepo activity.Repository
		companyRepo  companies.Repository
	)
	if postgresp.IsPostgresDSN(cfg.Database.URI) {
		db, err = postgresp.Connect(ctx, cfg.Database.URI, cfg.Database.PoolMin, cfg.Database.PoolMax)
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		if err := postgresp.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate error: %v", err)
		}
		userRepo = postgresp.NewUserRepository(db)
		analysisRepo = postgresp.NewAnalysisRepository(db)
		activityRepo = postgresp.NewActivityRepository(db)
		companyRepo = postgresp.NewCompanyRepository(db)
	} else {
		db, err = mysqlp.Connect(ctx, cfg.Database.URI, cfg.Database.PoolMin, cfg.Database.PoolMax)
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		if err := mysqlp.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate error: %v", err)
		}
		userRepo = mysqlp.NewUserRepository(db)
		analysisRepo = mysqlp.NewAnalysisRepository(db)
		activityRepo = mysqlp.NewActivityRepository(db)
		companyRepo = mysqlp.NewCompanyRepository(db)
	}
	defer db.Close()

	// cache backend; the Noop cache keeps the pipeline correct when no
	// backend is configured
	var analysisCache domanalysis.Cache = cache.Noop{}
	health := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	if cfg.Cache.URL != "" {
		redisCache, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			log.Printf("cache unavailable, falling back to local compute: %v", err)
		} else {
			analysisCache = redisCache
			health["cache"] = &middleware.CacheHealthChecker{Cache: redisCache}
			defer redisCache.Close()
		}
	}

	// optional collaborators
	var classifier sentiment.Classifier
	if cfg.Sentiment.OpenAIKey != "" {
		classifier = aiopenai.NewClient(cfg.Sentiment.OpenAIKey, cfg.Sentiment.Model)
	}

	var archive reports.ArchiveStore
	if cfg.Storage.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Storage.Endpoint,
			cfg.Storage.Region,
			cfg.Storage.BucketName,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.UseSSL,
		)
		if err != nil {
			log.Printf("export archive store unavailable: %v", err)
		} else {
			archive = store
		}
	}

	clock := application.SystemClock{}

	governor := &accounts.Governor{
		Users:         userRepo,
		Activity:      activityRepo,
		Limiter:       accounts.NewRateLimiter(),
		Clock:         clock,
		RateOverrides: cfg.RateLimitOverrides,
	}

	accountsSvc := &accounts.Service{
		Users:       userRepo,
		Activity:    activityRepo,
		Payments:    infrabilling.NoopProcessor{},
		Governor:    governor,
		Clock:       clock,
		FreeCredits: cfg.Credits.FreeTier,
	}

	analysisSvc := &appanalysis.Service{
		Catalog:   cat,
		Repo:      analysisRepo,
		Companies: companyRepo,
		Activity:  activityRepo,
		Cache:     analysisCache,
		Flight:    &cache.Flight{},
		Fetcher:   fetch.New(cfg.Fetch.MaxBytes, cfg.FetchTimeout()),
		Sentiment: classifier,
		Governor:  governor,
		Clock:     clock,
		CacheTTL:  cfg.CacheTTL(),
	}

	reportsSvc := &reports.Service{
		Repo:     analysisRepo,
		Activity: activityRepo,
		Governor: governor,
		Clock:    clock,
	}

	handler := httpserver.New(httpserver.Options{
		Accounts:    accountsSvc,
		Analysis:    analysisSvc,
		Reports:     reportsSvc,
		Catalog:     cat,
		Archive:     archive,
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL:    cfg.TokenTTL(),
		Version:     version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Health:      health,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
