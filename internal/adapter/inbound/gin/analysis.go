package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/shared/response"
)

// analysisHandler implements inbound.AnalysisHttpPort.
type analysisHandler struct {
	analysisDomain inbound.AnalysisDomain
}

// NewAnalysisHandler creates a new analysis HTTP handler.
func NewAnalysisHandler(analysisDomain inbound.AnalysisDomain) inbound.AnalysisHttpPort {
	return &analysisHandler{analysisDomain: analysisDomain}
}

// Compile-time interface check
var _ inbound.AnalysisHttpPort = (*analysisHandler)(nil)

// AnalyzeJob summarizes a job description. It does not consume quota.
//
//	@Summary		Analyze a job description
//	@Tags			Analysis
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		model.AnalyzeJobRequest	true	"Job description"
//	@Success		200		{object}	model.JobAnalysis
//	@Failure		400		{object}	response.ErrorResponse
//	@Router			/analyze-job [post]
func (h *analysisHandler) AnalyzeJob(c *gin.Context) {
	var req model.AnalyzeJobRequest
	if !bindRequest(c, &req) {
		return
	}
	if _, ok := requireUser(c, requestedUserID(c)); !ok {
		return
	}

	result, err := h.analysisDomain.AnalyzeJob(c.Request.Context(), req.JobDescription)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// EvaluateResume scores a resume against a job description.
//
//	@Summary		Evaluate a resume
//	@Description	Consumes one resume_scan. A denied scan answers 409 with the limit and current usage.
//	@Tags			Analysis
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		model.EvaluateResumeRequest	true	"Resume and job description"
//	@Success		200		{object}	model.EvaluationResult
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		404		{object}	response.ErrorResponse
//	@Failure		409		{object}	response.ErrorResponse
//	@Failure		502		{object}	response.ErrorResponse
//	@Failure		503		{object}	response.ErrorResponse
//	@Router			/evaluate-resume [post]
func (h *analysisHandler) EvaluateResume(c *gin.Context) {
	var req model.EvaluateResumeRequest
	if !bindRequest(c, &req) {
		return
	}
	userID, ok := requireUser(c, req.UserID)
	if !ok {
		return
	}

	result, err := h.analysisDomain.Evaluate(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListAnalyses returns the caller's analyses, newest first.
//
//	@Summary		List resume analyses
//	@Tags			Analysis
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Maximum number of analyses (default 10, max 50)"
//	@Success		200		{object}	map[string][]model.AnalysisSummary
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Router			/resume-analyses [get]
func (h *analysisHandler) ListAnalyses(c *gin.Context) {
	userID, ok := requireUser(c, requestedUserID(c))
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	analyses, err := h.analysisDomain.List(c.Request.Context(), userID, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	if analyses == nil {
		analyses = []*model.AnalysisSummary{}
	}

	response.OK(c, gin.H{"analyses": analyses})
}

// GetAnalysis returns one analysis owned by the caller.
//
//	@Summary		Get a resume analysis
//	@Description	Analyses owned by another user answer 404.
//	@Tags			Analysis
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Analysis ID"
//	@Success		200	{object}	model.AnalysisDetail
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/resume-analysis/{id} [get]
func (h *analysisHandler) GetAnalysis(c *gin.Context) {
	userID, ok := requireUser(c, requestedUserID(c))
	if !ok {
		return
	}

	detail, err := h.analysisDomain.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, detail)
}
