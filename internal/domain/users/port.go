package users

import (
	"context"
	"errors"
)

// ErrInsufficientCredits signals a debit that would take the balance
// negative. The balance is left untouched.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrNotFound signals a missing user.
var ErrNotFound = errors.New("user not found")

// Repository port for user persistence. UpdateCredits is the only path
// that debits or refunds a balance and must be atomic: two concurrent
// debits for the last credit resolve to exactly one success.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// UpdateCredits applies delta (negative = debit) and returns the new
	// balance, or ErrInsufficientCredits when the debit would overdraw.
	UpdateCredits(ctx context.Context, id string, delta int) (int, error)
	SetTier(ctx context.Context, id string, tier Tier, credits int, paymentCustomerID string) error
	TouchLastSeen(ctx context.Context, id string) error
}
