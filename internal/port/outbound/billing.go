package outbound

import (
	"context"

	"github.com/rezzy/server/internal/model"
)

// Unlimited is the ceiling value that disables the counter guard.
const Unlimited = -1

// UsageDatabasePort defines usage period persistence operations.
type UsageDatabasePort interface {
	// Consume atomically increments the kind counter of (userID, month) when it
	// is below ceiling, creating the row if missing. Unlimited skips the guard.
	// It returns the counter value after the call and whether it was incremented.
	Consume(ctx context.Context, userID, month string, kind model.OperationKind, ceiling int) (used int, consumed bool, err error)

	// Get returns the period row, or (nil, nil) if it does not exist.
	Get(ctx context.Context, userID, month string) (*model.UsagePeriod, error)

	// ListByUser returns the most recent periods first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.UsagePeriod, error)

	// Reset zeroes every counter of (userID, month). Returns false when the row does not exist.
	Reset(ctx context.Context, userID, month string) (bool, error)
}
