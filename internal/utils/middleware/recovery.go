package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	apperrors "github.com/rezzy/server/internal/shared/errors"
	"github.com/rezzy/server/internal/shared/response"
	"go.uber.org/zap"
)

// Recovery returns a middleware that recovers from panics.
// If log is nil, panics are recovered silently.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()),
					zap.String("request_id", GetRequestID(c)),
					zap.String("stack", string(debug.Stack())),
				)

				response.AppError(c, apperrors.Internal("", nil))
			}
		}()
		c.Next()
	}
}
