package outbound

import (
	"context"
	"errors"

	"github.com/rezzy/server/internal/model"
)

// ErrUnsupportedDocument is returned when text cannot be extracted from a file.
var ErrUnsupportedDocument = errors.New("unsupported document")

// ErrDocumentTooLarge is returned when a document inflates past the extraction limit.
var ErrDocumentTooLarge = errors.New("document content exceeds the extraction limit")

// TextExtractorPort extracts plain text from an uploaded document.
type TextExtractorPort interface {
	Extract(ctx context.Context, fileName string, data []byte) (string, error)
}

// ResumeFileDatabasePort defines stored file persistence operations.
type ResumeFileDatabasePort interface {
	// Create inserts a file record.
	Create(ctx context.Context, file *model.ResumeFile) error

	// ListByUser returns the newest files of a user first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.ResumeFile, error)
}
