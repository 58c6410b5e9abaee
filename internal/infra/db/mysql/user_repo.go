package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/veridianlabs/esg-intel/internal/domain/users"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users (id, email, tier, credits, created_at, last_seen_at, payment_customer_id)
VALUES (?,?,?,?,?,?,?);
`
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		u.ID, u.Email, stringOrDash(string(u.Tier)), u.Credits,
		created, created, u.PaymentCustomerID,
	)
	return err
}

// Get by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id, email, tier, credits, created_at, last_seen_at, payment_customer_id
FROM users WHERE id=? LIMIT 1;
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByEmail for idempotent registration.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id, email, tier, credits, created_at, last_seen_at, payment_customer_id
FROM users WHERE email=? LIMIT 1;
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.Tier, &u.Credits,
		&u.CreatedAt, &u.LastSeenAt, &u.PaymentCustomerID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateCredits applies delta in one guarded UPDATE so the
// check-and-decrement is atomic: the WHERE clause refuses any change
// that would take the balance negative.
func (r *UserRepository) UpdateCredits(ctx context.Context, id string, delta int) (int, error) {
	const q = `
UPDATE users SET credits = credits + ?
WHERE id = ? AND credits + ? >= 0;
`
	res, err := r.db.ExecContext(ctx, q, delta, id, delta)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	var balance int
	if err := r.db.QueryRowContext(ctx, `SELECT credits FROM users WHERE id=?`, id).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	if n == 0 {
		// Row exists but the guard refused the debit.
		return balance, domain.ErrInsufficientCredits
	}
	return balance, nil
}

// SetTier updates the subscription tier and its credit grant.
func (r *UserRepository) SetTier(ctx context.Context, id string, tier domain.Tier, credits int, paymentCustomerID string) error {
	const q = `
UPDATE users SET tier=?, credits=?, payment_customer_id=?
WHERE id=?;
`
	res, err := r.db.ExecContext(ctx, q, string(tier), credits, paymentCustomerID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchLastSeen bumps the last-seen timestamp.
func (r *UserRepository) TouchLastSeen(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_seen_at=? WHERE id=?`, time.Now().UTC(), id)
	return err
}
