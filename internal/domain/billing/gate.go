package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
)

// Gate decides and records metered operations against a plan table.
// All state lives in the usage store; the gate itself is stateless.
type Gate struct {
	users outbound.UserDatabasePort
	usage outbound.UsageDatabasePort
	plans *PlanTable
	now   func() time.Time
}

// NewGate creates a gate. now defaults to time.Now.
func NewGate(users outbound.UserDatabasePort, usage outbound.UsageDatabasePort, plans *PlanTable, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{users: users, usage: usage, plans: plans, now: now}
}

// CheckAndConsume allows kind for userID when the current month's counter is
// below the plan ceiling and consumes one unit in the same atomic step.
// A denial never mutates state, so repeating it is harmless.
func (g *Gate) CheckAndConsume(ctx context.Context, userID string, kind model.OperationKind) (*model.GateDecision, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOperation, kind)
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrStorageUnavailable, err)
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	plan := user.EffectivePlan()
	month := model.MonthLabel(g.now())
	ceiling := g.plans.Ceiling(plan, kind)

	decision := &model.GateDecision{
		Operation: kind,
		Plan:      plan,
		Month:     month,
		Limit:     ceiling,
	}

	if ceiling == 0 {
		period, err := g.usage.Get(ctx, userID, month)
		if err != nil {
			return nil, fmt.Errorf("%w: read usage: %w", ErrStorageUnavailable, err)
		}
		decision.Reason = model.DenyNotInPlan
		decision.Used = period.Used(kind)
		return decision, nil
	}

	used, consumed, err := g.usage.Consume(ctx, userID, month, kind, ceiling)
	if err != nil {
		return nil, fmt.Errorf("%w: consume: %w", ErrStorageUnavailable, err)
	}

	decision.Used = used
	decision.Allowed = consumed
	if !consumed {
		decision.Reason = model.DenyLimitReached
	}
	return decision, nil
}

// Month returns the label of the current usage period.
func (g *Gate) Month() string {
	return model.MonthLabel(g.now())
}
