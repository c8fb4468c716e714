package model

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentStatus represents the status of a recorded payment.
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records a completed checkout.
type Payment struct {
	ID              string        `json:"id" gorm:"primaryKey;size:36"`
	UserID          string        `json:"user_id" gorm:"not null;size:191;index"`
	StripeReference string        `json:"stripe_reference" gorm:"not null;uniqueIndex;size:255"`
	AmountCents     int64         `json:"amount_cents"`
	Currency        string        `json:"currency" gorm:"size:8"`
	Plan            PlanTag       `json:"plan" gorm:"size:32"`
	Status          PaymentStatus `json:"status" gorm:"size:32"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Payment) TableName() string {
	return "payments"
}

// WebhookEvent is a received provider event. Its primary key dedups delivery.
type WebhookEvent struct {
	EventID   string         `json:"event_id" gorm:"primaryKey;size:255"`
	Provider  string         `json:"provider" gorm:"not null;size:32"`
	EventType string         `json:"event_type" gorm:"not null;size:128"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName returns the database table name.
func (WebhookEvent) TableName() string {
	return "webhook_events"
}

// CheckoutSession is the body of POST /create-checkout-session.
type CheckoutSession struct {
	SessionID string  `json:"session_id"`
	URL       string  `json:"url"`
	Plan      PlanTag `json:"plan"`
}

// PlanChange is a plan transition derived from a provider event.
type PlanChange struct {
	UserID           string
	StripeCustomerID string
	Plan             PlanTag
	Payment          *Payment
}
