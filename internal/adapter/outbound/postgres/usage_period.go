package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// usagePeriodAdapter implements outbound.UsageDatabasePort.
type usagePeriodAdapter struct {
	db *gorm.DB
}

// NewUsagePeriodAdapter creates a new usage period database adapter.
func NewUsagePeriodAdapter(db *gorm.DB) outbound.UsageDatabasePort {
	return &usagePeriodAdapter{db: db}
}

// Consume runs insert-if-missing and a guarded increment in one transaction.
// The guarded UPDATE takes the row lock, so concurrent callers re-check the
// counter after the winner commits and cannot overshoot the ceiling.
func (a *usagePeriodAdapter) Consume(ctx context.Context, userID, month string, kind model.OperationKind, ceiling int) (int, bool, error) {
	column := kind.Column()
	if column == "" {
		return 0, false, fmt.Errorf("unknown operation kind %q", kind)
	}

	var (
		used     int
		consumed bool
	)
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		period := &model.UsagePeriod{UserID: userID, Month: month}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(period).Error; err != nil {
			return fmt.Errorf("ensure usage period: %w", err)
		}

		query := tx.Model(&model.UsagePeriod{}).Where("user_id = ? AND month = ?", userID, month)
		if ceiling != outbound.Unlimited {
			query = query.Where(column+" < ?", ceiling)
		}
		res := query.Updates(map[string]any{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": time.Now(),
		})
		if res.Error != nil {
			return fmt.Errorf("increment %s: %w", column, res.Error)
		}
		consumed = res.RowsAffected == 1

		var current model.UsagePeriod
		if err := tx.Where("user_id = ? AND month = ?", userID, month).Take(&current).Error; err != nil {
			return fmt.Errorf("read usage period: %w", err)
		}
		used = current.Used(kind)
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return used, consumed, nil
}

func (a *usagePeriodAdapter) Get(ctx context.Context, userID, month string) (*model.UsagePeriod, error) {
	var period model.UsagePeriod
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND month = ?", userID, month).
		Take(&period).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

func (a *usagePeriodAdapter) ListByUser(ctx context.Context, userID string, limit int) ([]*model.UsagePeriod, error) {
	var periods []*model.UsagePeriod
	query := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

func (a *usagePeriodAdapter) Reset(ctx context.Context, userID, month string) (bool, error) {
	res := a.db.WithContext(ctx).
		Model(&model.UsagePeriod{}).
		Where("user_id = ? AND month = ?", userID, month).
		Updates(map[string]any{
			"scans_used":                    0,
			"cover_letters_generated":       0,
			"interview_questions_generated": 0,
			"updated_at":                    time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Compile-time check
var _ outbound.UsageDatabasePort = (*usagePeriodAdapter)(nil)
