package gin

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/domain/analysis"
	"github.com/rezzy/server/internal/domain/billing"
	"github.com/rezzy/server/internal/domain/generation"
	"github.com/rezzy/server/internal/domain/jobs"
	"github.com/rezzy/server/internal/domain/payment"
	"github.com/rezzy/server/internal/domain/resume"
	"github.com/rezzy/server/internal/domain/user"
	"github.com/rezzy/server/internal/port/outbound"
	apperrors "github.com/rezzy/server/internal/shared/errors"
	"github.com/rezzy/server/internal/shared/response"
)

const (
	llmProviderName      = "language model"
	jobBoardProviderName = "job board"
)

// mapError translates a domain error into an application error.
func mapError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}

	var quotaErr *billing.QuotaError
	if errors.As(err, &quotaErr) {
		d := quotaErr.Decision
		return apperrors.QuotaExceeded(string(d.Operation), d.Limit, d.Used).Wrap(err)
	}

	if partial, ok := analysis.IsPartial(err); ok {
		return apperrors.StorageUnavailable(err).WithDetails(map[string]any{"result": partial.Result})
	}

	switch {
	// Not found
	case errors.Is(err, billing.ErrUnknownUser),
		errors.Is(err, jobs.ErrUnknownUser),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, payment.ErrUserNotFound):
		return apperrors.NotFound("user")
	case errors.Is(err, analysis.ErrAnalysisNotFound):
		return apperrors.NotFound("analysis")
	case errors.Is(err, billing.ErrUsagePeriodNotFound):
		return apperrors.NotFound("usage period")

	// Forbidden
	case errors.Is(err, jobs.ErrNotInPlan):
		return apperrors.Forbidden(err.Error())

	// Conflict
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return apperrors.Conflict(err.Error())

	// Validation
	case errors.Is(err, analysis.ErrInvalidInput),
		errors.Is(err, analysis.ErrInputTooLong),
		errors.Is(err, generation.ErrInvalidInput),
		errors.Is(err, generation.ErrInputTooLong),
		errors.Is(err, jobs.ErrInvalidInput),
		errors.Is(err, jobs.ErrInvalidMatchInput),
		errors.Is(err, jobs.ErrInputTooLong),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, payment.ErrPlanNotPurchasable),
		errors.Is(err, billing.ErrInvalidOperation),
		errors.Is(err, billing.ErrInvalidPlan),
		errors.Is(err, billing.ErrInvalidMonth),
		errors.Is(err, outbound.ErrInvalidSignature),
		resume.IsClientError(err):
		return apperrors.ValidationError(validationMessage(err))

	// Upstream
	case errors.Is(err, outbound.ErrJobBoardUnavailable),
		errors.Is(err, jobs.ErrSearchNotConfigured):
		return apperrors.UpstreamUnavailable(jobBoardProviderName, err)
	case errors.Is(err, jobs.ErrSearchFailed):
		return apperrors.BadGateway(jobBoardProviderName, err)
	case errors.Is(err, outbound.ErrProviderUnavailable):
		return apperrors.UpstreamUnavailable(llmProviderName, err)
	case errors.Is(err, analysis.ErrGenerationFailed),
		errors.Is(err, generation.ErrGenerationFailed):
		return apperrors.BadGateway(llmProviderName, err)
	case errors.Is(err, payment.ErrProviderNotAvailable):
		return apperrors.BadGateway("payment provider", err)

	// Storage
	case errors.Is(err, payment.ErrStorageUnavailable):
		// The payment provider retries deliveries answered with a 5xx.
		return apperrors.Internal("webhook event not applied", err)
	case errors.Is(err, billing.ErrStorageUnavailable),
		errors.Is(err, user.ErrStorageUnavailable),
		errors.Is(err, analysis.ErrStorageUnavailable),
		errors.Is(err, resume.ErrStorageUnavailable),
		errors.Is(err, jobs.ErrStorageUnavailable):
		return apperrors.StorageUnavailable(err)
	}

	return apperrors.Internal("", err)
}

// validationMessage returns the message of the outermost sentinel.
func validationMessage(err error) string {
	for _, sentinel := range []error{
		outbound.ErrInvalidSignature,
		outbound.ErrDocumentTooLarge,
		resume.ErrEmptyFile,
		resume.ErrFileTooLarge,
		resume.ErrUnsupportedFileType,
		resume.ErrTextExtractionFailed,
		payment.ErrPlanNotPurchasable,
		billing.ErrInvalidPlan,
		billing.ErrInvalidMonth,
		billing.ErrInvalidOperation,
		user.ErrInvalidEmail,
		analysis.ErrInputTooLong,
		generation.ErrInputTooLong,
		jobs.ErrInputTooLong,
		analysis.ErrInvalidInput,
		generation.ErrInvalidInput,
		jobs.ErrInvalidInput,
		jobs.ErrInvalidMatchInput,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// handleError writes the mapped error response and aborts the request.
func handleError(c *gin.Context, err error) {
	response.AppError(c, mapError(err))
}
