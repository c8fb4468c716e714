package generation

import "errors"

// Domain errors for generation.
var (
	ErrInvalidInput     = errors.New("resume text and job description are required")
	ErrInputTooLong     = errors.New("input exceeds the maximum length")
	ErrGenerationFailed = errors.New("generation failed")
)
