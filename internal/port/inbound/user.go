package inbound

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
)

// UserDomain defines user registration operations.
type UserDomain interface {
	// CreateUser registers the identity as a user. It is idempotent on the
	// subject; created reports whether a row was inserted.
	CreateUser(ctx context.Context, identity *outbound.Identity, in *model.CreateUserRequest) (user *model.User, created bool, err error)

	// GetUser returns a user by id.
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// UserHttpPort defines HTTP handler interface for user operations.
type UserHttpPort interface {
	// CreateUser handles POST /create-user
	CreateUser(c *gin.Context)
}
