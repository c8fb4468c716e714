package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/rezzy/server/internal/shared/errors"
)

// ErrorResponse represents a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// AppError writes an application error and aborts the request.
func AppError(c *gin.Context, err *apperrors.AppError) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(err.StatusCode, ErrorResponse{
		Error:   err.Message,
		Code:    err.Code,
		Details: err.Details,
	})
}

// Error writes any error, unwrapping an AppError when present.
func Error(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		AppError(c, appErr)
		return
	}
	AppError(c, apperrors.Internal("", err))
}

// BadRequest sends a 400 validation response.
func BadRequest(c *gin.Context, message string) {
	AppError(c, apperrors.ValidationError(message))
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message string) {
	AppError(c, apperrors.Unauthorized(message))
}

// Forbidden sends a 403 response.
func Forbidden(c *gin.Context, message string) {
	AppError(c, apperrors.Forbidden(message))
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, resource string) {
	AppError(c, apperrors.NotFound(resource))
}

// OK sends a 200 JSON response.
func OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Created sends a 201 JSON response.
func Created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}
