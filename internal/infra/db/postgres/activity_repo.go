package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/veridianlabs/esg-intel/internal/domain/activity"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO user_activity (user_id, event, payload, created_at)
VALUES ($1,$2,$3,$4);
`
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q, rec.UserID, string(rec.Event), rec.Payload, created)
	return err
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, event domain.Event, limit int) ([]*domain.Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `
SELECT id, user_id, event, payload, created_at FROM user_activity
WHERE user_id=$1`
	args := []any{userID}
	if event != "" {
		q += ` AND event=$2
ORDER BY created_at DESC LIMIT $3;`
		args = append(args, string(event), limit)
	} else {
		q += `
ORDER BY created_at DESC LIMIT $2;`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var payload sql.NullString
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Event, &payload, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Payload = payload.String
		out = append(out, &rec)
	}
	return out, rows.Err()
}
