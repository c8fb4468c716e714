package jobs

import "errors"

// Domain errors for job search.
var (
	ErrInvalidInput        = errors.New("search query is required")
	ErrInvalidMatchInput   = errors.New("resume text and job description are required")
	ErrInputTooLong        = errors.New("input exceeds the maximum length")
	ErrUnknownUser         = errors.New("unknown user")
	ErrNotInPlan           = errors.New("job search requires a paid plan")
	ErrSearchNotConfigured = errors.New("job search is not configured")
	ErrSearchFailed        = errors.New("job search failed")
	ErrStorageUnavailable  = errors.New("user storage unavailable")
)
