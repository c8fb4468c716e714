package inbound

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
)

// GenerationDomain defines metered text generation operations.
type GenerationDomain interface {
	// CoverLetter writes a cover letter for the job.
	CoverLetter(ctx context.Context, userID string, in *model.CoverLetterRequest) (*model.CoverLetterResponse, error)

	// InterviewQuestions proposes interview questions for the job.
	InterviewQuestions(ctx context.Context, userID string, in *model.InterviewQuestionsRequest) (*model.InterviewQuestionsResponse, error)
}

// GenerationHttpPort defines HTTP handler interface for generation operations.
type GenerationHttpPort interface {
	// GenerateCoverLetter handles POST /generate-cover-letter
	GenerateCoverLetter(c *gin.Context)

	// GenerateInterviewQuestions handles POST /generate-interview-questions
	GenerateInterviewQuestions(c *gin.Context)
}
