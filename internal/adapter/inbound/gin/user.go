package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/shared/response"
	"github.com/rezzy/server/internal/utils/middleware"
)

// userHandler implements inbound.UserHttpPort.
type userHandler struct {
	userDomain inbound.UserDomain
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(userDomain inbound.UserDomain) inbound.UserHttpPort {
	return &userHandler{userDomain: userDomain}
}

// Compile-time interface check
var _ inbound.UserHttpPort = (*userHandler)(nil)

// CreateUser registers the authenticated identity.
//
//	@Summary		Register the signed-in user
//	@Description	Idempotent on the token subject. Returns 201 when the user is new and 200 otherwise.
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		model.CreateUserRequest	true	"Profile"
//	@Success		200		{object}	model.UserResponse
//	@Success		201		{object}	model.UserResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		409		{object}	response.ErrorResponse
//	@Router			/create-user [post]
func (h *userHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if !bindRequest(c, &req) {
		return
	}
	if _, ok := requireUser(c, req.UserID); !ok {
		return
	}

	user, created, err := h.userDomain.CreateUser(c.Request.Context(), middleware.GetIdentity(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	if created {
		response.Created(c, user.ToResponse())
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}
