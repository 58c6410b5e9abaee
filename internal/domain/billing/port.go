package billing

import "context"

// Processor is the external payment collaborator used by the
// subscription path. The core never talks to a payment provider
// directly; only this capability set is required.
type Processor interface {
	// Subscribe charges the payment method for the tier and returns the
	// provider's customer id.
	Subscribe(ctx context.Context, email, tier, paymentMethod string) (customerID string, err error)
}
