package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"gorm.io/gorm"
)

// userAdapter implements outbound.UserDatabasePort.
type userAdapter struct {
	db *gorm.DB
}

// NewUserAdapter creates a new user database adapter.
func NewUserAdapter(db *gorm.DB) outbound.UserDatabasePort {
	return &userAdapter{db: db}
}

func (a *userAdapter) Create(ctx context.Context, u *model.User) error {
	return a.db.WithContext(ctx).Create(u).Error
}

func (a *userAdapter) FindByID(ctx context.Context, id string) (*model.User, error) {
	return a.findOne(ctx, "id = ?", id)
}

func (a *userAdapter) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return a.findOne(ctx, "email = ?", email)
}

func (a *userAdapter) FindByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error) {
	return a.findOne(ctx, "stripe_customer_id = ?", customerID)
}

func (a *userAdapter) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := a.db.WithContext(ctx).Where(query, arg).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (a *userAdapter) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now()
	return a.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"updated_at": u.UpdatedAt,
		}).Error
}

func (a *userAdapter) UpdatePlan(ctx context.Context, id string, plan model.PlanTag) (bool, error) {
	res := a.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"plan":       plan,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (a *userAdapter) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	return a.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stripe_customer_id": customerID,
			"updated_at":         time.Now(),
		}).Error
}

// Compile-time check
var _ outbound.UserDatabasePort = (*userAdapter)(nil)
