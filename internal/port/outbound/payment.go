package outbound

import (
	"context"
	"errors"

	"github.com/rezzy/server/internal/model"
)

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// CheckoutRequest describes a subscription checkout.
type CheckoutRequest struct {
	UserID     string
	CustomerID string
	Plan       model.PlanTag
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// CheckoutCompleted is a finished hosted checkout.
type CheckoutCompleted struct {
	SessionID       string
	CustomerID      string
	PaymentIntentID string
	UserID          string
	Plan            model.PlanTag
	AmountTotal     int64
	Currency        string
	Paid            bool
}

// SubscriptionChange is a created, updated or deleted subscription.
type SubscriptionChange struct {
	SubscriptionID string
	CustomerID     string
	UserID         string
	Plan           model.PlanTag
	PriceID        string
	Status         string
	Deleted        bool
}

// PaymentEvent is a verified provider webhook event.
type PaymentEvent struct {
	ID           string
	Type         string
	Payload      []byte
	Checkout     *CheckoutCompleted
	Subscription *SubscriptionChange
}

// PaymentProviderPort defines the hosted checkout provider.
type PaymentProviderPort interface {
	// Name returns the provider name.
	Name() string

	// CreateCustomer registers a customer for the user and returns its id.
	CreateCustomer(ctx context.Context, user *model.User) (string, error)

	// CreateCheckoutSession starts a hosted subscription checkout.
	CreateCheckoutSession(ctx context.Context, req *CheckoutRequest) (*model.CheckoutSession, error)

	// ParseWebhook verifies the signature and decodes the event.
	// Returns ErrInvalidSignature when verification fails.
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}

// EventOutcome reports what ApplyEvent did.
type EventOutcome struct {
	Duplicate bool
	UserID    string
	Matched   bool
}

// PaymentDatabasePort defines webhook ingestion persistence.
type PaymentDatabasePort interface {
	// ApplyEvent stores the event and applies the plan change in one
	// transaction. A previously stored event id yields Duplicate and no change.
	ApplyEvent(ctx context.Context, event *model.WebhookEvent, change *model.PlanChange) (*EventOutcome, error)

	// ListPaymentsByUser returns the newest payments of a user first.
	ListPaymentsByUser(ctx context.Context, userID string, limit int) ([]*model.Payment, error)
}
