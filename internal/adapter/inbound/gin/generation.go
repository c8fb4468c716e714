package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/shared/response"
)

// generationHandler implements inbound.GenerationHttpPort.
type generationHandler struct {
	generationDomain inbound.GenerationDomain
}

// NewGenerationHandler creates a new generation HTTP handler.
func NewGenerationHandler(generationDomain inbound.GenerationDomain) inbound.GenerationHttpPort {
	return &generationHandler{generationDomain: generationDomain}
}

// Compile-time interface check
var _ inbound.GenerationHttpPort = (*generationHandler)(nil)

// GenerateCoverLetter writes a cover letter.
//
//	@Summary		Generate a cover letter
//	@Description	Consumes one cover_letter.
//	@Tags			Generation
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		model.CoverLetterRequest	true	"Resume, job description and company"
//	@Success		200		{object}	model.CoverLetterResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		409		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Failure		502		{object}	response.ErrorResponse
//	@Failure		503		{object}	response.ErrorResponse
//	@Router			/generate-cover-letter [post]
func (h *generationHandler) GenerateCoverLetter(c *gin.Context) {
	var req model.CoverLetterRequest
	if !bindRequest(c, &req) {
		return
	}
	userID, ok := requireUser(c, req.UserID)
	if !ok {
		return
	}

	letter, err := h.generationDomain.CoverLetter(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, letter)
}

// GenerateInterviewQuestions proposes interview questions.
//
//	@Summary		Generate interview questions
//	@Description	Consumes one interview_questions.
//	@Tags			Generation
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		model.InterviewQuestionsRequest	true	"Resume and job description"
//	@Success		200		{object}	model.InterviewQuestionsResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		409		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Failure		502		{object}	response.ErrorResponse
//	@Failure		503		{object}	response.ErrorResponse
//	@Router			/generate-interview-questions [post]
func (h *generationHandler) GenerateInterviewQuestions(c *gin.Context) {
	var req model.InterviewQuestionsRequest
	if !bindRequest(c, &req) {
		return
	}
	userID, ok := requireUser(c, req.UserID)
	if !ok {
		return
	}

	questions, err := h.generationDomain.InterviewQuestions(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, questions)
}
