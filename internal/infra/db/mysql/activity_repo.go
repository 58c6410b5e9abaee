package mysql

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

// Append inserts one record; the log is append-only.
func (r *ActivityRepository) Append(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO user_activity (user_id, event, payload, created_at)
VALUES (?,?,?,?);
`
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q, stringOrDash(rec.UserID), string(rec.Event), rec.Payload, created)
	return err
}

// ListByUser returns a user's records, optionally filtered by event,
// newest first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, event domain.Event, limit int) ([]*domain.Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `
SELECT id, user_id, event, payload, created_at FROM user_activity
WHERE user_id=?`
	args := []any{userID}
	if event != "" {
		q += " AND event=?"
		args = append(args, string(event))
	}
	q += "\nORDER BY created_at DESC LIMIT ?;"
	args = append(args, limit)

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
