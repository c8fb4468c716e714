package postgres

import (
	"context"
	"errors"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"gorm.io/gorm"
)

// analysisAdapter implements outbound.AnalysisDatabasePort.
type analysisAdapter struct {
	db *gorm.DB
}

// NewAnalysisAdapter creates a new resume analysis database adapter.
func NewAnalysisAdapter(db *gorm.DB) outbound.AnalysisDatabasePort {
	return &analysisAdapter{db: db}
}

func (a *analysisAdapter) Create(ctx context.Context, analysis *model.ResumeAnalysis) error {
	return a.db.WithContext(ctx).Create(analysis).Error
}

func (a *analysisAdapter) FindByIDForUser(ctx context.Context, userID, id string) (*model.ResumeAnalysis, error) {
	var analysis model.ResumeAnalysis
	err := a.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &analysis, nil
}

func (a *analysisAdapter) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ResumeAnalysis, error) {
	var analyses []*model.ResumeAnalysis
	err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&analyses).Error
	if err != nil {
		return nil, err
	}
	return analyses, nil
}

// Compile-time check
var _ outbound.AnalysisDatabasePort = (*analysisAdapter)(nil)
