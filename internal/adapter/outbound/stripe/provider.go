package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Event types the service reacts to.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// Metadata keys attached to sessions and subscriptions.
const (
	metadataUserID = "user_id"
	metadataPlan   = "plan"
)

// Config holds Stripe configuration.
type Config struct {
	APIKey        string
	WebhookSecret string
}

// Provider implements outbound.PaymentProviderPort for Stripe.
type Provider struct {
	webhookSecret string
}

// NewProvider creates a new Stripe provider.
func NewProvider(cfg *Config) *Provider {
	stripe.Key = cfg.APIKey
	return &Provider{webhookSecret: cfg.WebhookSecret}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "stripe"
}

func (p *Provider) CreateCustomer(ctx context.Context, user *model.User) (string, error) {
	params := &stripe.CustomerParams{
		Email:    stripe.String(user.Email),
		Name:     stripe.String(user.DisplayName()),
		Metadata: map[string]string{metadataUserID: user.ID},
	}
	params.Context = ctx

	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return c.ID, nil
}

func (p *Provider) CreateCheckoutSession(ctx context.Context, req *outbound.CheckoutRequest) (*model.CheckoutSession, error) {
	metadata := map[string]string{
		metadataUserID: req.UserID,
		metadataPlan:   string(req.Plan),
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(req.UserID),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
		Metadata: metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &model.CheckoutSession{
		SessionID: s.ID,
		URL:       s.URL,
		Plan:      req.Plan,
	}, nil
}

// ParseWebhook verifies the Stripe-Signature header and decodes the events
// the service handles. Other event types are returned without a body.
func (p *Provider) ParseWebhook(payload []byte, signature string) (*outbound.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureError(err) {
			return nil, fmt.Errorf("%w: %v", outbound.ErrInvalidSignature, err)
		}
		return nil, fmt.Errorf("decode webhook: %w", err)
	}

	result := &outbound.PaymentEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: payload,
	}

	switch result.Type {
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		result.Checkout = mapCheckoutSession(&s)

	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		result.Subscription = mapSubscription(&sub, result.Type == EventSubscriptionDeleted)
	}

	return result, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrTooOld)
}

func mapCheckoutSession(s *stripe.CheckoutSession) *outbound.CheckoutCompleted {
	out := &outbound.CheckoutCompleted{
		SessionID:   s.ID,
		UserID:      s.ClientReferenceID,
		AmountTotal: s.AmountTotal,
		Currency:    strings.ToLower(string(s.Currency)),
		Paid: s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
			s.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	if v := s.Metadata[metadataUserID]; v != "" {
		out.UserID = v
	}
	out.Plan = model.ParsePlanTag(s.Metadata[metadataPlan])
	return out
}

func mapSubscription(sub *stripe.Subscription, deleted bool) *outbound.SubscriptionChange {
	out := &outbound.SubscriptionChange{
		SubscriptionID: sub.ID,
		UserID:         sub.Metadata[metadataUserID],
		Plan:           model.ParsePlanTag(sub.Metadata[metadataPlan]),
		Status:         string(sub.Status),
		Deleted:        deleted,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item != nil && item.Price != nil {
				out.PriceID = item.Price.ID
				break
			}
		}
	}
	return out
}

// Compile-time check
var _ outbound.PaymentProviderPort = (*Provider)(nil)
