package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/shared/response"
)

// billingHandler implements inbound.BillingHttpPort.
type billingHandler struct {
	billingDomain inbound.BillingDomain
}

// NewBillingHandler creates a new billing HTTP handler.
func NewBillingHandler(billingDomain inbound.BillingDomain) inbound.BillingHttpPort {
	return &billingHandler{billingDomain: billingDomain}
}

// Compile-time interface check
var _ inbound.BillingHttpPort = (*billingHandler)(nil)

// GetPlan returns the caller's plan, ceilings and current usage.
//
//	@Summary		Get plan and usage
//	@Tags			Billing
//	@Produce		json
//	@Security		BearerAuth
//	@Param			user_id	query		string	false	"Must match the authenticated user"
//	@Success		200		{object}	model.PlanStatusResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Router			/get-plan [get]
func (h *billingHandler) GetPlan(c *gin.Context) {
	userID, ok := requireUser(c, requestedUserID(c))
	if !ok {
		return
	}

	status, err := h.billingDomain.GetPlanStatus(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, status)
}

// ListUsageHistory returns past usage periods, newest first.
//
//	@Summary		List usage history
//	@Tags			Billing
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Maximum number of months"
//	@Success		200		{object}	map[string][]model.UsageResponse
//	@Failure		401		{object}	response.ErrorResponse
//	@Router			/usage-history [get]
func (h *billingHandler) ListUsageHistory(c *gin.Context) {
	userID, ok := requireUser(c, requestedUserID(c))
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	usage, err := h.billingDomain.ListUsage(c.Request.Context(), userID, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	if usage == nil {
		usage = []*model.UsageResponse{}
	}

	response.OK(c, gin.H{"usage": usage})
}

// ListPlans returns the plan catalogue.
//
//	@Summary		List plans
//	@Tags			Billing
//	@Produce		json
//	@Success		200	{object}	map[string][]model.PlanCatalogEntry
//	@Router			/plans [get]
func (h *billingHandler) ListPlans(c *gin.Context) {
	response.OK(c, gin.H{"plans": h.billingDomain.Catalog()})
}
