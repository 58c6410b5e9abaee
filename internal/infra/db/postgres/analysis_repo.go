package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	domain "github.com/veridianlabs/esg-intel/internal/domain/analysis"
)

const benchmarkSample = 1000

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Insert(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses
 (id, user_id, fingerprint, source, company_name, kind, industry_sector,
  reporting_period, created_at, environmental, social, governance, overall,
  confidence, result_json)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15);
`
	blob, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.UserID, a.Fingerprint, a.Source, a.CompanyName, string(a.Kind),
		a.IndustrySector, a.ReportingPeriod, created,
		a.Scores.Environmental, a.Scores.Social, a.Scores.Governance, a.Scores.Overall,
		a.Confidence, string(blob),
	)
	return err
}

func (r *AnalysisRepository) GetByID(ctx context.Context, userID string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `SELECT result_json FROM analyses WHERE user_id=$1 AND id=$2 LIMIT 1;`
	var blob string
	if err := r.db.QueryRowContext(ctx, q, userID, id).Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return decode(blob)
}

func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	const q = `
SELECT result_json FROM analyses
WHERE user_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	return r.list(ctx, q, userID, pageSize, (page-1)*pageSize)
}

func (r *AnalysisRepository) ListByCompany(ctx context.Context, companyName string, since time.Time) ([]*domain.Analysis, error) {
	const q = `
SELECT result_json FROM analyses
WHERE company_name=$1 AND created_at >= $2
ORDER BY created_at DESC, id DESC;
`
	return r.list(ctx, q, companyName, since)
}

func (r *AnalysisRepository) LatestByCompany(ctx context.Context, companyName string) (*domain.Analysis, error) {
	const q = `
SELECT result_json FROM analyses
WHERE company_name=$1
ORDER BY created_at DESC, id DESC
LIMIT 1;
`
	var blob string
	if err := r.db.QueryRowContext(ctx, q, companyName).Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return decode(blob)
}

func (r *AnalysisRepository) Benchmark(ctx context.Context, sector string) (domain.Benchmark, error) {
	q := `SELECT environmental, social, governance, overall FROM analyses`
	args := []any{}
	if sector != "" {
		q += ` WHERE industry_sector=$1`
		args = append(args, sector)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d;`, benchmarkSample)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return domain.Benchmark{}, err
	}
	defer rows.Close()

	var env, soc, gov, all []float64
	for rows.Next() {
		var e, s, g, o float64
		if err := rows.Scan(&e, &s, &g, &o); err != nil {
			return domain.Benchmark{}, err
		}
		env = append(env, e)
		soc = append(soc, s)
		gov = append(gov, g)
		all = append(all, o)
	}
	if err := rows.Err(); err != nil {
		return domain.Benchmark{}, err
	}
	return domain.Benchmark{
		Sector:        sector,
		Environmental: median(env),
		Social:        median(soc),
		Governance:    median(gov),
		Overall:       median(all),
		SampleSize:    len(all),
	}, nil
}

func (r *AnalysisRepository) list(ctx context.Context, q string, args ...any) ([]*domain.Analysis, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		a, err := decode(blob)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func decode(blob string) (*domain.Analysis, error) {
	var a domain.Analysis
	if err := json.Unmarshal([]byte(blob), &a); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	return &a, nil
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}
