package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindAuth               Kind = "auth"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindQuotaExceeded      Kind = "quota_exceeded"
	KindRateLimited        Kind = "rate_limited"
	KindUpstream           Kind = "upstream"
	KindStorageUnavailable Kind = "storage_unavailable"
	KindInternal           Kind = "internal"
)

// Common error types.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal error")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrRateLimited        = errors.New("rate limited")
	ErrUpstream           = errors.New("upstream provider failure")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// AppError represents an application error with HTTP status and error code.
type AppError struct {
	Kind       Kind   `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Details    any    `json:"details,omitempty"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error carrying extra response details.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Wrap returns a copy of the error wrapping cause.
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	if cause != nil {
		cp.Err = fmt.Errorf("%w: %w", e.Err, cause)
	}
	return &cp
}

// ValidationError creates a malformed-input error.
func ValidationError(message string) *AppError {
	return &AppError{
		Kind:       KindValidation,
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        ErrBadRequest,
	}
}

// Unauthorized creates an unresolvable-identity error.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Kind:       KindAuth,
		Code:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Err:        ErrUnauthorized,
	}
}

// Forbidden creates a mismatched-identity error.
func Forbidden(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return &AppError{
		Kind:       KindAuth,
		Code:       "FORBIDDEN",
		Message:    message,
		StatusCode: http.StatusForbidden,
		Err:        ErrForbidden,
	}
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{
		Kind:       KindNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// Conflict creates a conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Kind:       KindConflict,
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
		Err:        ErrConflict,
	}
}

// QuotaDetails is the response body detail of a denied operation.
type QuotaDetails struct {
	Operation string `json:"operation"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
}

// QuotaExceeded creates a quota exceeded error carrying limit and usage.
func QuotaExceeded(operation string, limit, used int) *AppError {
	return &AppError{
		Kind:       KindQuotaExceeded,
		Code:       "QUOTA_EXCEEDED",
		Message:    fmt.Sprintf("monthly %s limit reached", operation),
		StatusCode: http.StatusConflict,
		Details:    QuotaDetails{Operation: operation, Limit: limit, Used: used},
		Err:        ErrQuotaExceeded,
	}
}

// RateLimited creates a rate limited error.
func RateLimited() *AppError {
	return &AppError{
		Kind:       KindRateLimited,
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "too many requests, please try again later",
		StatusCode: http.StatusTooManyRequests,
		Err:        ErrRateLimited,
	}
}

// BadGateway creates an upstream error for a provider that answered badly.
func BadGateway(provider string, err error) *AppError {
	return &AppError{
		Kind:       KindUpstream,
		Code:       "UPSTREAM_FAILURE",
		Message:    fmt.Sprintf("%s request failed", provider),
		StatusCode: http.StatusBadGateway,
		Err:        joinCause(ErrUpstream, err),
	}
}

// UpstreamUnavailable creates an upstream error for an unreachable provider.
func UpstreamUnavailable(provider string, err error) *AppError {
	return &AppError{
		Kind:       KindUpstream,
		Code:       "UPSTREAM_UNAVAILABLE",
		Message:    fmt.Sprintf("%s is unavailable", provider),
		StatusCode: http.StatusServiceUnavailable,
		Err:        joinCause(ErrUpstream, err),
	}
}

// StorageUnavailable creates a persistence failure error.
func StorageUnavailable(err error) *AppError {
	return &AppError{
		Kind:       KindStorageUnavailable,
		Code:       "STORAGE_UNAVAILABLE",
		Message:    "storage is temporarily unavailable",
		StatusCode: http.StatusServiceUnavailable,
		Err:        joinCause(ErrStorageUnavailable, err),
	}
}

// Internal creates an internal error.
func Internal(message string, err error) *AppError {
	if message == "" {
		message = "internal error"
	}
	return &AppError{
		Kind:       KindInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        joinCause(ErrInternal, err),
	}
}

func joinCause(base, cause error) error {
	if cause == nil {
		return base
	}
	return fmt.Errorf("%w: %w", base, cause)
}

// As extracts an AppError from err.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetStatusCode returns the HTTP status code for an error.
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
