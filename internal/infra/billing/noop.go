package billing

import (
	"context"
	"fmt"

	"github.com/veridianlabs/esg-intel/internal/domain/users"
)

// NoopProcessor accepts every subscription without charging. Wired in
// deployments that run without a payment provider; production wires a
// real implementation of the billing.Processor port instead.
type NoopProcessor struct{}

func (NoopProcessor) Subscribe(_ context.Context, email, tier, _ string) (string, error) {
	return fmt.Sprintf("noop-%s-%s", tier, users.IDFromEmail(email)[:12]), nil
}
