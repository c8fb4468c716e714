package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyEvent records the event id first. The insert is the dedup key: a
// second delivery of the same id affects no row and changes nothing else.
func (a *paymentAdapter) ApplyEvent(ctx context.Context, event *model.WebhookEvent, change *model.PlanChange) (*outbound.EventOutcome, error) {
	outcome := &outbound.EventOutcome{}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(event)
		if res.Error != nil {
			return fmt.Errorf("store webhook event: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			outcome.Duplicate = true
			return nil
		}
		if change == nil {
			return nil
		}

		user, err := findChangeTarget(tx, change)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}
		outcome.Matched = true
		outcome.UserID = user.ID

		updates := map[string]any{"updated_at": time.Now()}
		if change.Plan != "" {
			updates["plan"] = change.Plan
		}
		if change.StripeCustomerID != "" {
			updates["stripe_customer_id"] = change.StripeCustomerID
		}
		if err := tx.Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user plan: %w", err)
		}

		if change.Payment != nil {
			payment := *change.Payment
			payment.UserID = user.ID
			if payment.ID == "" {
				payment.ID = uuid.NewString()
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "stripe_reference"}},
				DoNothing: true,
			}).Create(&payment).Error
			if err != nil {
				return fmt.Errorf("record payment: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func findChangeTarget(tx *gorm.DB, change *model.PlanChange) (*model.User, error) {
	var user model.User
	var err error
	switch {
	case change.UserID != "":
		err = tx.Where("id = ?", change.UserID).Take(&user).Error
	case change.StripeCustomerID != "":
		err = tx.Where("stripe_customer_id = ?", change.StripeCustomerID).Take(&user).Error
	default:
		return nil, nil
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
