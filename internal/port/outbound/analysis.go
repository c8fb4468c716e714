package outbound

import (
	"context"

	"github.com/rezzy/server/internal/model"
)

// AnalysisDatabasePort defines resume analysis persistence operations.
type AnalysisDatabasePort interface {
	// Create inserts an analysis.
	Create(ctx context.Context, analysis *model.ResumeAnalysis) error

	// FindByIDForUser returns the analysis only if userID owns it, else (nil, nil).
	FindByIDForUser(ctx context.Context, userID, id string) (*model.ResumeAnalysis, error)

	// ListByUser returns the newest analyses of a user first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.ResumeAnalysis, error)
}
