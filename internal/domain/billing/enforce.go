package billing

import (
	"context"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
)

// Enforce consumes one unit of kind or returns a *QuotaError when denied.
func Enforce(ctx context.Context, gate inbound.BillingDomain, userID string, kind model.OperationKind) (*model.GateDecision, error) {
	decision, err := gate.CheckAndConsume(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return decision, &QuotaError{Decision: decision}
	}
	return decision, nil
}
