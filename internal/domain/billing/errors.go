package billing

import (
	"errors"
	"fmt"

	"github.com/rezzy/server/internal/model"
)

// Domain errors for billing.
var (
	ErrUnknownUser         = errors.New("unknown user")
	ErrStorageUnavailable  = errors.New("usage storage unavailable")
	ErrInvalidOperation    = errors.New("invalid operation kind")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidMonth        = errors.New("invalid month, expected YYYY-MM")
	ErrUsagePeriodNotFound = errors.New("usage period not found")
)

// ErrQuotaExceeded is matched by every QuotaError.
var ErrQuotaExceeded = errors.New("quota exceeded")

// QuotaError carries the denied decision to the transport layer.
type QuotaError struct {
	Decision *model.GateDecision
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota exceeded for plan %s: used %d of %d",
		e.Decision.Operation, e.Decision.Plan, e.Decision.Used, e.Decision.Limit)
}

// Is reports whether target is ErrQuotaExceeded.
func (e *QuotaError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
