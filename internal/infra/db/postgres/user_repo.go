package postgres

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

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users (id, email, tier, credits, created_at, last_seen_at, payment_customer_id)
VALUES ($1,$2,$3,$4,$5,$6,$7);
`
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		u.ID, u.Email, string(u.Tier), u.Credits, created, created, u.PaymentCustomerID,
	)
	return err
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id, email, tier, credits, created_at, last_seen_at, payment_customer_id
FROM users WHERE id=$1 LIMIT 1;
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id, email, tier, credits, created_at, last_seen_at, payment_customer_id
FROM users WHERE email=$1 LIMIT 1;
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

// UpdateCredits uses RETURNING so the guarded update and the balance
// read are one statement.
func (r *UserRepository) UpdateCredits(ctx context.Context, id string, delta int) (int, error) {
	const q = `
UPDATE users SET credits = credits + $1
WHERE id = $2 AND credits + $1 >= 0
RETURNING credits;
`
	var balance int
	err := r.db.QueryRowContext(ctx, q, delta, id).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	// Guard refused or user missing; disambiguate.
	if err := r.db.QueryRowContext(ctx, `SELECT credits FROM users WHERE id=$1`, id).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return balance, domain.ErrInsufficientCredits
}

func (r *UserRepository) SetTier(ctx context.Context, id string, tier domain.Tier, credits int, paymentCustomerID string) error {
	const q = `
UPDATE users SET tier=$1, credits=$2, payment_customer_id=$3
WHERE id=$4;
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

func (r *UserRepository) TouchLastSeen(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_seen_at=$1 WHERE id=$2`, time.Now().UTC(), id)
	return err
}
