package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/response"
	"github.com/rezzy/server/internal/utils/requestctx"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// DevUserHeader names the caller when token verification is disabled.
	DevUserHeader = "X-User-ID"
	// UserIDKey is the context key for user ID.
	UserIDKey = "user_id"
	// EmailKey is the context key for email.
	EmailKey = "email"
	// IdentityKey is the context key for the verified identity.
	IdentityKey = "identity"
)

// AuthConfig holds authentication middleware configuration.
type AuthConfig struct {
	// Disabled trusts the X-User-ID header. Local development only.
	Disabled bool
}

// Auth returns a middleware that verifies the bearer token and stores the
// subject as the requesting user.
func Auth(verifier outbound.TokenVerifierPort, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var identity *outbound.Identity

		if cfg.Disabled {
			if id := strings.TrimSpace(c.GetHeader(DevUserHeader)); id != "" {
				identity = &outbound.Identity{Subject: id}
			}
		}

		if identity == nil {
			token := extractBearerToken(c)
			if token == "" || verifier == nil {
				response.Unauthorized(c, "authorization header required")
				return
			}

			verified, err := verifier.Verify(c.Request.Context(), token)
			if err != nil {
				response.Unauthorized(c, "invalid or expired token")
				return
			}
			identity = verified
		}

		setIdentity(c, identity)
		c.Next()
	}
}

func setIdentity(c *gin.Context, identity *outbound.Identity) {
	c.Set(UserIDKey, identity.Subject)
	c.Set(EmailKey, identity.Email)
	c.Set(IdentityKey, identity)
	c.Request = c.Request.WithContext(requestctx.WithUserID(c.Request.Context(), identity.Subject))
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if len(authHeader) <= len(BearerPrefix) || !strings.EqualFold(authHeader[:len(BearerPrefix)], BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(BearerPrefix):])
}

// GetUserID returns the user ID from context.
// Returns "" if not found.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetEmail returns the email from context.
// Returns empty string if not found.
func GetEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}

// GetIdentity returns the verified identity, or nil.
func GetIdentity(c *gin.Context) *outbound.Identity {
	if val, exists := c.Get(IdentityKey); exists {
		if identity, ok := val.(*outbound.Identity); ok {
			return identity
		}
	}
	return nil
}

// IsAuthenticated returns true if the user is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != ""
}
