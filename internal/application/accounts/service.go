package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/veridianlabs/esg-intel/internal/application"
	"github.com/veridianlabs/esg-intel/internal/domain/activity"
	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
	"github.com/veridianlabs/esg-intel/internal/domain/billing"
	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service implements the account use-cases: registration, subscription
// upgrades, and usage reporting.
type Service struct {
	Users       users.Repository
	Activity    activity.Repository
	Payments    billing.Processor
	Governor    *Governor
	Clock       application.Clock
	FreeCredits int
}

// Register creates the account for an email (idempotent: re-registering
// returns the existing account) and records the event.
func (s *Service) Register(ctx context.Context, email string) (*users.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, apperr.Input("invalid email address")
	}

	if existing, err := s.Users.GetByEmail(ctx, email); err == nil {
		_ = s.Users.TouchLastSeen(ctx, existing.ID)
		return existing, nil
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, apperr.Unavailable("user store unavailable", err)
	}

	credits := s.FreeCredits
	if credits <= 0 {
		credits = users.TierCredits[users.TierFree]
	}
	now := s.Clock.Now()
	u := &users.User{
		ID:         users.IDFromEmail(email),
		Email:      email,
		Tier:       users.TierFree,
		Credits:    credits,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, apperr.Unavailable("user store unavailable", err)
	}

	s.log(u.ID, activity.EventRegister, map[string]any{"tier": string(u.Tier)})
	return u, nil
}

// Subscribe upgrades the user's tier through the payment processor and
// grants the tier's credits.
func (s *Service) Subscribe(ctx context.Context, userID string, tier users.Tier, paymentMethod string) (*users.User, error) {
	if tier == users.TierFree || !users.ValidTier(tier) {
		return nil, apperr.Input("invalid subscription tier: %s", tier)
	}
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Unavailable("user store unavailable", err)
	}

	customerID, err := s.Payments.Subscribe(ctx, u.Email, string(tier), paymentMethod)
	if err != nil {
		return nil, apperr.Input("payment failed: %v", err)
	}

	credits := users.TierCredits[tier]
	if err := s.Users.SetTier(ctx, userID, tier, credits, customerID); err != nil {
		return nil, apperr.Unavailable("user store unavailable", err)
	}

	s.log(userID, activity.EventSubscribe, map[string]any{
		"tier":    string(tier),
		"credits": credits,
	})

	u.Tier = tier
	u.Credits = credits
	u.PaymentCustomerID = customerID
	return u, nil
}

// GetUser loads the caller's account; missing accounts read as an auth
// failure since tokens only exist for registered users.
func (s *Service) GetUser(ctx context.Context, id string) (*users.User, error) {
	u, err := s.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, apperr.Unauthorized("unknown account")
		}
		return nil, apperr.Unavailable("user store unavailable", err)
	}
	return u, nil
}

// UsageReport is the /usage payload.
type UsageReport struct {
	CurrentUsage int       `json:"current_usage"`
	Limit        int       `json:"limit"`
	Percentage   float64   `json:"percentage"`
	ResetAt      time.Time `json:"reset_at"`
}

// Usage reports the caller's analyze-window consumption.
func (s *Service) Usage(userID string, tier users.Tier) UsageReport {
	used, limit, pct, resetAt := s.Governor.Usage(userID, tier)
	return UsageReport{CurrentUsage: used, Limit: limit, Percentage: pct, ResetAt: resetAt}
}

func (s *Service) log(userID string, event activity.Event, payload map[string]any) {
	if s.Activity == nil {
		return
	}
	blob, _ := json.Marshal(payload)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.Activity.Append(ctx, &activity.Record{
		UserID:    userID,
		Event:     event,
		Payload:   string(blob),
		CreatedAt: s.Clock.Now(),
	})
}
