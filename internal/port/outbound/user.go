package outbound

import (
	"context"

	"github.com/rezzy/server/internal/model"
)

// UserDatabasePort defines user persistence operations.
// Finders return (nil, nil) when no row matches.
type UserDatabasePort interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// FindByID gets a user by identity-provider subject.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail gets a user by email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByStripeCustomerID gets a user by payment-provider customer id.
	FindByStripeCustomerID(ctx context.Context, customerID string) (*model.User, error)

	// Update saves profile fields of an existing user.
	Update(ctx context.Context, user *model.User) error

	// UpdatePlan sets the plan of a user. Returns false when the user does not exist.
	UpdatePlan(ctx context.Context, id string, plan model.PlanTag) (bool, error)

	// SetStripeCustomerID binds a payment-provider customer to a user.
	SetStripeCustomerID(ctx context.Context, id, customerID string) error
}
