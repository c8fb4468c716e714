package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      *AppError
		kind     Kind
		status   int
		sentinel error
	}{
		{"validation", ValidationError("bad"), KindValidation, http.StatusBadRequest, ErrBadRequest},
		{"unauthorized", Unauthorized(""), KindAuth, http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", Forbidden(""), KindAuth, http.StatusForbidden, ErrForbidden},
		{"not found", NotFound("analysis"), KindNotFound, http.StatusNotFound, ErrNotFound},
		{"conflict", Conflict("taken"), KindConflict, http.StatusConflict, ErrConflict},
		{"quota", QuotaExceeded("resume_scan", 3, 3), KindQuotaExceeded, http.StatusConflict, ErrQuotaExceeded},
		{"rate limited", RateLimited(), KindRateLimited, http.StatusTooManyRequests, ErrRateLimited},
		{"bad gateway", BadGateway("llm", cause), KindUpstream, http.StatusBadGateway, ErrUpstream},
		{"unavailable", UpstreamUnavailable("llm", cause), KindUpstream, http.StatusServiceUnavailable, ErrUpstream},
		{"storage", StorageUnavailable(cause), KindStorageUnavailable, http.StatusServiceUnavailable, ErrStorageUnavailable},
		{"internal", Internal("", cause), KindInternal, http.StatusInternalServerError, ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.status, GetStatusCode(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}

func TestQuotaExceeded_Details(t *testing.T) {
	err := QuotaExceeded("resume_scan", 3, 3)

	details, ok := err.Details.(QuotaDetails)
	require.True(t, ok)
	assert.Equal(t, 3, details.Limit)
	assert.Equal(t, 3, details.Used)
	assert.Equal(t, "resume_scan", details.Operation)
}

func TestAppError_WrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := StorageUnavailable(nil).Wrap(cause)

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAppError_WithDetailsCopies(t *testing.T) {
	base := StorageUnavailable(nil)
	withDetails := base.WithDetails(map[string]string{"result": "x"})

	assert.Nil(t, base.Details)
	assert.NotNil(t, withDetails.Details)
}

func TestGetStatusCode_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(errors.New("plain")))
}
