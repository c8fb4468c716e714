package analysis

import (
	"errors"

	"github.com/rezzy/server/internal/model"
)

// Domain errors for analysis.
var (
	ErrAnalysisNotFound   = errors.New("analysis not found")
	ErrInvalidInput       = errors.New("resume text and job description are required")
	ErrInputTooLong       = errors.New("input exceeds the maximum length")
	ErrGenerationFailed   = errors.New("evaluation failed")
	ErrStorageUnavailable = errors.New("analysis storage unavailable")
)

// PartialResultError is returned when the evaluation succeeded but could not
// be stored. Result holds the evaluation so the caller can still use it.
type PartialResultError struct {
	Result *model.EvaluationResult
	Err    error
}

func (e *PartialResultError) Error() string {
	return "evaluation not saved: " + e.Err.Error()
}

func (e *PartialResultError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}
