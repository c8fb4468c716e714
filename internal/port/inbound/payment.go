package inbound

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
)

// PaymentDomain defines checkout and webhook ingestion operations.
type PaymentDomain interface {
	// CreateCheckoutSession starts a hosted subscription checkout for plan.
	CreateCheckoutSession(ctx context.Context, userID string, plan model.PlanTag) (*model.CheckoutSession, error)

	// HandleWebhook verifies and applies a provider event exactly once.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*model.WebhookAck, error)
}

// PaymentHttpPort defines HTTP handler interface for payment operations.
type PaymentHttpPort interface {
	// CreateCheckoutSession handles POST /create-checkout-session
	CreateCheckoutSession(c *gin.Context)

	// StripeWebhook handles POST /stripe-webhook
	StripeWebhook(c *gin.Context)
}
