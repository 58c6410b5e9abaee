package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/veridianlabs/esg-intel/internal/domain/companies"
)

const historyLimit = 100

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	const q = `
INSERT INTO companies (name, industry_sector, latest_analysis_id, latest_overall, history_json, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (name) DO UPDATE SET
 industry_sector=EXCLUDED.industry_sector,
 latest_analysis_id=EXCLUDED.latest_analysis_id,
 latest_overall=EXCLUDED.latest_overall,
 history_json=EXCLUDED.history_json,
 updated_at=EXCLUDED.updated_at;
`
	history := p.History
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	blob, err := json.Marshal(history)
	if err != nil {
		return err
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, q,
		p.Name, p.IndustrySector, p.LatestAnalysisID, p.LatestOverall, string(blob), updated,
	)
	return err
}

func (r *CompanyRepository) Get(ctx context.Context, name string) (*domain.Profile, error) {
	const q = `
SELECT name, industry_sector, latest_analysis_id, latest_overall, history_json, updated_at
FROM companies WHERE name=$1 LIMIT 1;
`
	var (
		p    domain.Profile
		blob sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, q, name).Scan(
		&p.Name, &p.IndustrySector, &p.LatestAnalysisID, &p.LatestOverall, &blob, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if blob.Valid && blob.String != "" {
		if err := json.Unmarshal([]byte(blob.String), &p.History); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
