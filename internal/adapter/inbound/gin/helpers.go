package gin

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/shared/response"
	"github.com/rezzy/server/internal/utils/middleware"
)

// requireUser returns the authenticated subject. A request that names a
// different user_id is rejected with 403.
func requireUser(c *gin.Context, requested string) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "")
		return "", false
	}
	if requested != "" && requested != userID {
		response.Forbidden(c, "user_id does not match the authenticated user")
		return "", false
	}
	return userID, true
}

// requestedUserID returns the user_id named in the query or form, if any.
func requestedUserID(c *gin.Context) string {
	if id := c.Query("user_id"); id != "" {
		return id
	}
	return c.PostForm("user_id")
}

// bindRequest binds a JSON or form body, answering 400 on failure.
func bindRequest(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}

// queryLimit parses the limit query parameter. Zero means the domain default.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		response.BadRequest(c, "limit must be a non-negative integer")
		return 0, false
	}
	return limit, true
}
