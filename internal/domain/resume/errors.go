package resume

import "errors"

// Domain errors for resume files.
var (
	ErrEmptyFile            = errors.New("file is empty")
	ErrFileTooLarge         = errors.New("file exceeds the upload limit")
	ErrUnsupportedFileType  = errors.New("only PDF, DOCX and DOC files are supported")
	ErrTextExtractionFailed = errors.New("could not extract text from the document")
	ErrStorageUnavailable   = errors.New("file storage unavailable")
)
