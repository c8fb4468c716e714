package postgres

import (
	"context"
	"fmt"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"gorm.io/gorm"
)

// paymentAdapter implements outbound.PaymentDatabasePort.
type paymentAdapter struct {
	db *gorm.DB
}

// NewPaymentAdapter creates a new payment database adapter.
func NewPaymentAdapter(db *gorm.DB) outbound.PaymentDatabasePort {
	return &paymentAdapter{db: db}
}

const defaultPaymentListLimit = 20

func (a *paymentAdapter) ListPaymentsByUser(ctx context.Context, userID string, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = defaultPaymentListLimit
	}

	var payments []*model.Payment
	if err := a.db.WithContext(ctx).
		Where(&model.Payment{UserID: userID}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// Compile-time check
var _ outbound.PaymentDatabasePort = (*paymentAdapter)(nil)
