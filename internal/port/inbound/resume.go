package inbound

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
)

// UploadInput is an uploaded resume document.
type UploadInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ResumeDomain defines resume file operations.
type ResumeDomain interface {
	// Upload validates, stores and parses a resume document.
	Upload(ctx context.Context, userID string, in *UploadInput) (*model.UploadResult, error)

	// ListFiles returns the user's stored files with download URLs.
	ListFiles(ctx context.Context, userID string, limit int) ([]*model.FileResponse, error)

	// MaxUploadBytes returns the upload size limit.
	MaxUploadBytes() int64
}

// ResumeHttpPort defines HTTP handler interface for resume file operations.
type ResumeHttpPort interface {
	// UploadResume handles POST /upload-resume
	UploadResume(c *gin.Context)

	// ListFiles handles GET /user-files
	ListFiles(c *gin.Context)
}
