package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/config"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// MetricsRecorder receives webhook processing outcomes.
type MetricsRecorder interface {
	RecordWebhookEvent(eventType, outcome string)
}

// Webhook outcomes reported to metrics.
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeUnmatched = "unmatched"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

type nopMetrics struct{}

func (nopMetrics) RecordWebhookEvent(string, string) {}

// Config holds checkout settings.
type Config struct {
	Prices     map[model.PlanTag]string
	SuccessURL string
	CancelURL  string
}

// ConfigFromSettings builds checkout settings from application settings.
func ConfigFromSettings(cfg *config.StripeConfig) *Config {
	prices := make(map[model.PlanTag]string, len(cfg.Prices))
	for plan, price := range cfg.Prices {
		if price != "" {
			prices[model.ParsePlanTag(plan)] = price
		}
	}
	return &Config{
		Prices:     prices,
		SuccessURL: cfg.SuccessURL,
		CancelURL:  cfg.CancelURL,
	}
}

// Domain implements subscription checkout and webhook ingestion.
type Domain struct {
	provider    outbound.PaymentProviderPort
	userDB      outbound.UserDatabasePort
	paymentDB   outbound.PaymentDatabasePort
	config      *Config
	planByPrice map[string]model.PlanTag
	metrics     MetricsRecorder
	logger      *zap.Logger
}

// NewPaymentDomain creates a new payment domain service. metrics may be nil.
func NewPaymentDomain(
	provider outbound.PaymentProviderPort,
	userDB outbound.UserDatabasePort,
	paymentDB outbound.PaymentDatabasePort,
	cfg *Config,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Domain {
	planByPrice := make(map[string]model.PlanTag, len(cfg.Prices))
	for plan, price := range cfg.Prices {
		planByPrice[price] = plan
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Domain{
		provider:    provider,
		userDB:      userDB,
		paymentDB:   paymentDB,
		config:      cfg,
		planByPrice: planByPrice,
		metrics:     metrics,
		logger:      logger,
	}
}

// Compile-time interface check
var _ inbound.PaymentDomain = (*Domain)(nil)

func (d *Domain) purchasable(plan model.PlanTag) bool {
	return plan != "" && d.config.Prices[plan] != ""
}

// CreateCheckoutSession reuses the user's Stripe customer or creates one.
func (d *Domain) CreateCheckoutSession(ctx context.Context, userID string, plan model.PlanTag) (*model.CheckoutSession, error) {
	if !d.purchasable(plan) {
		return nil, fmt.Errorf("%w: %q", ErrPlanNotPurchasable, plan)
	}

	user, err := d.userDB.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var customerID string
	if user.StripeCustomerID != nil {
		customerID = *user.StripeCustomerID
	}
	if customerID == "" {
		customerID, err = d.provider.CreateCustomer(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProviderNotAvailable, err)
		}
		if err := d.userDB.SetStripeCustomerID(ctx, user.ID, customerID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		d.logger.Info("stripe customer created", zap.String("user_id", user.ID), zap.String("customer_id", customerID))
	}

	session, err := d.provider.CreateCheckoutSession(ctx, &outbound.CheckoutRequest{
		UserID:     user.ID,
		CustomerID: customerID,
		Plan:       plan,
		PriceID:    d.config.Prices[plan],
		SuccessURL: d.config.SuccessURL,
		CancelURL:  d.config.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderNotAvailable, err)
	}

	d.logger.Info("checkout session created",
		zap.String("user_id", user.ID),
		zap.String("plan", string(plan)),
		zap.String("session_id", session.SessionID),
	)
	return session, nil
}

// HandleWebhook verifies the payload, then stores the event and applies its
// plan change in one transaction. A redelivered event id changes nothing.
func (d *Domain) HandleWebhook(ctx context.Context, payload []byte, signature string) (*model.WebhookAck, error) {
	event, err := d.provider.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, outbound.ErrInvalidSignature) {
			d.metrics.RecordWebhookEvent("unknown", OutcomeRejected)
			d.logger.Warn("webhook signature rejected", zap.Error(err))
		}
		return nil, err
	}

	record := &model.WebhookEvent{
		EventID:   event.ID,
		Provider:  d.provider.Name(),
		EventType: event.Type,
		Payload:   datatypes.JSON(event.Payload),
	}
	change := d.planChangeFor(event)

	outcome, err := d.paymentDB.ApplyEvent(ctx, record, change)
	if err != nil {
		d.metrics.RecordWebhookEvent(event.Type, OutcomeFailed)
		d.logger.Error("webhook event not applied",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if outcome.Duplicate {
		d.metrics.RecordWebhookEvent(event.Type, OutcomeDuplicate)
		d.logger.Info("webhook event already processed", zap.String("event_id", event.ID))
		return &model.WebhookAck{Status: model.WebhookStatusAlreadyProcessed, EventID: event.ID}, nil
	}

	switch {
	case change != nil && !outcome.Matched:
		d.metrics.RecordWebhookEvent(event.Type, OutcomeUnmatched)
		d.logger.Warn("webhook event matched no user",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
			zap.String("user_id", change.UserID),
			zap.String("customer_id", change.StripeCustomerID),
		)
	default:
		d.metrics.RecordWebhookEvent(event.Type, OutcomeProcessed)
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
		}
		if change != nil {
			fields = append(fields, zap.String("user_id", outcome.UserID), zap.String("plan", string(change.Plan)))
		}
		d.logger.Info("webhook event processed", fields...)
	}

	return &model.WebhookAck{Status: model.WebhookStatusProcessed, EventID: event.ID}, nil
}
