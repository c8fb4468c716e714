package postgres

import (
	"context"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"gorm.io/gorm"
)

// resumeFileAdapter implements outbound.ResumeFileDatabasePort.
type resumeFileAdapter struct {
	db *gorm.DB
}

// NewResumeFileAdapter creates a new stored file database adapter.
func NewResumeFileAdapter(db *gorm.DB) outbound.ResumeFileDatabasePort {
	return &resumeFileAdapter{db: db}
}

func (a *resumeFileAdapter) Create(ctx context.Context, file *model.ResumeFile) error {
	return a.db.WithContext(ctx).Create(file).Error
}

func (a *resumeFileAdapter) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ResumeFile, error) {
	var files []*model.ResumeFile
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Compile-time check
var _ outbound.ResumeFileDatabasePort = (*resumeFileAdapter)(nil)
