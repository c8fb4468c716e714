package billing

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 12
	maxHistoryLimit     = 60
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// MetricsRecorder receives gate outcomes.
type MetricsRecorder interface {
	RecordGateDecision(operation, outcome string)
}

// Domain implements billing business logic.
type Domain struct {
	gate    *Gate
	userDB  outbound.UserDatabasePort
	usageDB outbound.UsageDatabasePort
	plans   *PlanTable
	metrics MetricsRecorder
	logger  *zap.Logger
}

// NewBillingDomain creates a new billing domain service. metrics may be nil.
func NewBillingDomain(
	gate *Gate,
	userDB outbound.UserDatabasePort,
	usageDB outbound.UsageDatabasePort,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Domain {
	return &Domain{
		gate:    gate,
		userDB:  userDB,
		usageDB: usageDB,
		plans:   gate.plans,
		metrics: metrics,
		logger:  logger,
	}
}

// Compile-time interface check
var _ inbound.BillingDomain = (*Domain)(nil)

// --- Gate ---

func (d *Domain) CheckAndConsume(ctx context.Context, userID string, kind model.OperationKind) (*model.GateDecision, error) {
	decision, err := d.gate.CheckAndConsume(ctx, userID, kind)
	if err != nil {
		d.record(kind, "error")
		d.logger.Warn("usage gate failed",
			zap.String("user_id", userID),
			zap.String("operation", string(kind)),
			zap.Error(err),
		)
		return nil, err
	}

	if decision.Allowed {
		d.record(kind, "allowed")
	} else {
		d.record(kind, "denied")
		d.logger.Info("usage denied",
			zap.String("user_id", userID),
			zap.String("operation", string(kind)),
			zap.String("plan", string(decision.Plan)),
			zap.String("reason", string(decision.Reason)),
			zap.Int("limit", decision.Limit),
			zap.Int("used", decision.Used),
		)
	}
	return decision, nil
}

func (d *Domain) record(kind model.OperationKind, outcome string) {
	if d.metrics != nil {
		d.metrics.RecordGateDecision(string(kind), outcome)
	}
}

// --- Plan Operations ---

func (d *Domain) GetPlanStatus(ctx context.Context, userID string) (*model.PlanStatusResponse, error) {
	user, err := d.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	month := d.gate.Month()
	period, err := d.usageDB.Get(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("%w: read usage: %w", ErrStorageUnavailable, err)
	}

	usage := &model.UsageResponse{Month: month}
	if period != nil {
		usage = period.ToResponse()
	}

	plan := user.EffectivePlan()
	return &model.PlanStatusResponse{
		UserID:      user.ID,
		Plan:        plan,
		PlanVersion: d.plans.Version(),
		Limits:      d.plans.Limits(plan),
		Usage:       usage,
	}, nil
}

func (d *Domain) ListUsage(ctx context.Context, userID string, limit int) ([]*model.UsageResponse, error) {
	if _, err := d.findUser(ctx, userID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	periods, err := d.usageDB.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list usage: %w", ErrStorageUnavailable, err)
	}

	out := make([]*model.UsageResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, p.ToResponse())
	}
	return out, nil
}

func (d *Domain) Catalog() []*model.PlanCatalogEntry {
	plans := d.plans.Plans()
	out := make([]*model.PlanCatalogEntry, 0, len(plans))
	for _, plan := range plans {
		tier, _ := d.plans.Tier(plan)
		out = append(out, &model.PlanCatalogEntry{
			Plan:       plan,
			PriceCents: tier.PriceCents,
			Limits:     d.plans.Limits(plan),
		})
	}
	return out
}

// --- Administrative Operations ---

func (d *Domain) SetPlan(ctx context.Context, userID string, plan model.PlanTag) error {
	if !d.plans.Has(plan) {
		return fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}

	ok, err := d.userDB.UpdatePlan(ctx, userID, plan)
	if err != nil {
		return fmt.Errorf("%w: update plan: %w", ErrStorageUnavailable, err)
	}
	if !ok {
		return ErrUnknownUser
	}

	d.logger.Info("plan changed manually",
		zap.String("user_id", userID),
		zap.String("plan", string(plan)),
	)
	return nil
}

func (d *Domain) ResetUsage(ctx context.Context, userID, month string) error {
	if month == "" {
		month = d.gate.Month()
	}
	if !monthPattern.MatchString(month) {
		return ErrInvalidMonth
	}

	ok, err := d.usageDB.Reset(ctx, userID, month)
	if err != nil {
		return fmt.Errorf("%w: reset usage: %w", ErrStorageUnavailable, err)
	}
	if !ok {
		return ErrUsagePeriodNotFound
	}

	d.logger.Info("usage reset",
		zap.String("user_id", userID),
		zap.String("month", month),
	)
	return nil
}

func (d *Domain) findUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := d.userDB.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrStorageUnavailable, err)
	}
	if user == nil {
		return nil, ErrUnknownUser
	}
	return user, nil
}
