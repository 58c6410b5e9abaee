package analysis

import (
	"context"
	"time"
)

// Repository port for analysis persistence. GetByID scopes by owner:
// a mismatching user receives not-found, never a permission error.
type Repository interface {
	Insert(ctx context.Context, a *Analysis) error
	GetByID(ctx context.Context, userID string, id AnalysisID) (*Analysis, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*Analysis, error)
	ListByCompany(ctx context.Context, companyName string, since time.Time) ([]*Analysis, error)
	LatestByCompany(ctx context.Context, companyName string) (*Analysis, error)
	Benchmark(ctx context.Context, sector string) (Benchmark, error)
}

// Cache port for the analysis snapshot cache. Both operations are
// best-effort: backend unavailability falls through to compute.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (*Analysis, bool)
	Put(ctx context.Context, fingerprint string, a *Analysis, ttl time.Duration)
}

// Fetched is the output of the content acquirer.
type Fetched struct {
	Text     string
	MIME     string // html | pdf | text
	FinalURL string
}

// Fetcher port for URL content acquisition.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Fetched, error)
}
