package gin

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/domain/payment"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/response"
)

const (
	// StripeSignatureHeader carries the webhook signature.
	StripeSignatureHeader = "Stripe-Signature"

	maxWebhookBytes = 1 << 16
)

// paymentHandler implements inbound.PaymentHttpPort.
type paymentHandler struct {
	paymentDomain inbound.PaymentDomain
}

// NewPaymentHandler creates a new payment HTTP handler.
func NewPaymentHandler(paymentDomain inbound.PaymentDomain) inbound.PaymentHttpPort {
	return &paymentHandler{paymentDomain: paymentDomain}
}

// Compile-time interface check
var _ inbound.PaymentHttpPort = (*paymentHandler)(nil)

// CreateCheckoutSession starts a hosted subscription checkout.
//
//	@Summary		Create a checkout session
//	@Tags			Payment
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Idempotency-Key	header		string					false	"Replays the first response for the same key"
//	@Param			request			body		model.CheckoutRequest	true	"Plan to purchase"
//	@Success		200				{object}	model.CheckoutSession
//	@Failure		400				{object}	response.ErrorResponse
//	@Failure		404				{object}	response.ErrorResponse
//	@Failure		502				{object}	response.ErrorResponse
//	@Router			/create-checkout-session [post]
func (h *paymentHandler) CreateCheckoutSession(c *gin.Context) {
	var req model.CheckoutRequest
	if !bindRequest(c, &req) {
		return
	}
	userID, ok := requireUser(c, req.UserID)
	if !ok {
		return
	}

	session, err := h.paymentDomain.CreateCheckoutSession(c.Request.Context(), userID, model.ParsePlanTag(req.Plan))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, session)
}

// StripeWebhook ingests a payment provider event.
//
//	@Summary		Stripe webhook
//	@Description	Verifies the signature, then applies the event once. Redelivered events answer already_processed.
//	@Tags			Payment
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string	true	"Webhook signature"
//	@Success		200					{object}	model.WebhookAck
//	@Failure		400					{object}	response.ErrorResponse
//	@Failure		500					{object}	response.ErrorResponse
//	@Router			/stripe-webhook [post]
func (h *paymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		response.BadRequest(c, "could not read the request body")
		return
	}

	ack, err := h.paymentDomain.HandleWebhook(c.Request.Context(), payload, c.GetHeader(StripeSignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrStorageUnavailable), errors.Is(err, outbound.ErrInvalidSignature):
			handleError(c, err)
		default:
			// A verified payload that cannot be decoded will not succeed on retry.
			response.BadRequest(c, "invalid webhook payload")
		}
		return
	}

	response.OK(c, ack)
}
