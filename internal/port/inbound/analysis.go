package inbound

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
)

// AnalysisDomain defines resume evaluation and job analysis operations.
type AnalysisDomain interface {
	// AnalyzeJob summarizes a job description. It is not metered.
	AnalyzeJob(ctx context.Context, jobDescription string) (*model.JobAnalysis, error)

	// Evaluate runs a metered resume evaluation and stores the result.
	Evaluate(ctx context.Context, userID string, in *model.EvaluateResumeRequest) (*model.EvaluationResult, error)

	// List returns the newest analyses of a user with shortened texts.
	List(ctx context.Context, userID string, limit int) ([]*model.AnalysisSummary, error)

	// Get returns one analysis owned by userID.
	Get(ctx context.Context, userID, id string) (*model.AnalysisDetail, error)
}

// AnalysisHttpPort defines HTTP handler interface for analysis operations.
type AnalysisHttpPort interface {
	// AnalyzeJob handles POST /analyze-job
	AnalyzeJob(c *gin.Context)

	// EvaluateResume handles POST /evaluate-resume
	EvaluateResume(c *gin.Context)

	// ListAnalyses handles GET /resume-analyses
	ListAnalyses(c *gin.Context)

	// GetAnalysis handles GET /resume-analysis/:id
	GetAnalysis(c *gin.Context)
}
