package companies

import "context"

// Repository port for company profiles.
type Repository interface {
	Upsert(ctx context.Context, p *Profile) error
	Get(ctx context.Context, name string) (*Profile, error)
}
