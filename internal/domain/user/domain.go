package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"
	"go.uber.org/zap"
)

// Domain implements user registration logic.
type Domain struct {
	userDB outbound.UserDatabasePort
	logger *zap.Logger
}

// NewUserDomain creates a new user domain service.
func NewUserDomain(userDB outbound.UserDatabasePort, logger *zap.Logger) *Domain {
	return &Domain{
		userDB: userDB,
		logger: logger,
	}
}

// Compile-time interface check
var _ inbound.UserDomain = (*Domain)(nil)

// CreateUser registers the verified identity. Calling it again for the same
// subject refreshes the profile fields and reports created=false.
func (d *Domain) CreateUser(ctx context.Context, identity *outbound.Identity, in *model.CreateUserRequest) (*model.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		email = strings.ToLower(strings.TrimSpace(identity.Email))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, false, ErrInvalidEmail
	}

	existing, err := d.userDB.FindByID(ctx, identity.Subject)
	if err != nil {
		return nil, false, d.storageErr("find user", err)
	}
	if existing != nil {
		user, err := d.refresh(ctx, existing, email, in)
		return user, false, err
	}

	if err := d.ensureEmailFree(ctx, email, identity.Subject); err != nil {
		return nil, false, err
	}

	user := &model.User{
		ID:        identity.Subject,
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Plan:      model.PlanFree,
		IsActive:  true,
	}
	if err := d.userDB.Create(ctx, user); err != nil {
		// A concurrent request for the same subject may have won the insert.
		if winner, findErr := d.userDB.FindByID(ctx, identity.Subject); findErr == nil && winner != nil {
			return winner, false, nil
		}
		return nil, false, d.storageErr("create user", err)
	}

	d.logger.Info("user created",
		zap.String("user_id", user.ID),
		zap.String("plan", string(user.Plan)),
	)
	return user, true, nil
}

func (d *Domain) refresh(ctx context.Context, user *model.User, email string, in *model.CreateUserRequest) (*model.User, error) {
	changed := false
	if email != user.Email {
		if err := d.ensureEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
		changed = true
	}
	if v := strings.TrimSpace(in.FirstName); v != "" && v != user.FirstName {
		user.FirstName = v
		changed = true
	}
	if v := strings.TrimSpace(in.LastName); v != "" && v != user.LastName {
		user.LastName = v
		changed = true
	}

	if changed {
		if err := d.userDB.Update(ctx, user); err != nil {
			return nil, d.storageErr("update user", err)
		}
	}
	return user, nil
}

func (d *Domain) ensureEmailFree(ctx context.Context, email, subject string) error {
	owner, err := d.userDB.FindByEmail(ctx, email)
	if err != nil {
		return d.storageErr("find user by email", err)
	}
	if owner != nil && owner.ID != subject {
		return ErrEmailAlreadyExists
	}
	return nil
}

// GetUser returns a user by id.
func (d *Domain) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := d.userDB.FindByID(ctx, id)
	if err != nil {
		return nil, d.storageErr("find user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (d *Domain) storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
