package activity

import "context"

// Repository port for the activity log. Append-only.
type Repository interface {
	Append(ctx context.Context, r *Record) error
	ListByUser(ctx context.Context, userID string, event Event, limit int) ([]*Record, error)
}
