package inbound

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
)

// BillingDomain defines the usage-and-plan gate and plan queries.
type BillingDomain interface {
	// CheckAndConsume decides whether userID may perform kind this month and,
	// if so, consumes one unit atomically.
	CheckAndConsume(ctx context.Context, userID string, kind model.OperationKind) (*model.GateDecision, error)

	// GetPlanStatus returns the plan, its ceilings and the current month's usage.
	GetPlanStatus(ctx context.Context, userID string) (*model.PlanStatusResponse, error)

	// ListUsage returns past usage periods, most recent first.
	ListUsage(ctx context.Context, userID string, limit int) ([]*model.UsageResponse, error)

	// Catalog lists purchasable plans.
	Catalog() []*model.PlanCatalogEntry

	// SetPlan changes the plan of a user.
	SetPlan(ctx context.Context, userID string, plan model.PlanTag) error

	// ResetUsage zeroes the counters of one month.
	ResetUsage(ctx context.Context, userID, month string) error
}

// BillingHttpPort defines HTTP handler interface for plan and usage operations.
type BillingHttpPort interface {
	// GetPlan handles GET /get-plan
	GetPlan(c *gin.Context)

	// ListUsageHistory handles GET /usage-history
	ListUsageHistory(c *gin.Context)

	// ListPlans handles GET /plans
	ListPlans(c *gin.Context)
}
