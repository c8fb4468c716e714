package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/shared/response"
)

// jobsHandler implements inbound.JobsHttpPort.
type jobsHandler struct {
	jobsDomain inbound.JobsDomain
}

// NewJobsHandler creates a new job search HTTP handler.
func NewJobsHandler(jobsDomain inbound.JobsDomain) inbound.JobsHttpPort {
	return &jobsHandler{jobsDomain: jobsDomain}
}

// Compile-time interface check
var _ inbound.JobsHttpPort = (*jobsHandler)(nil)

// SearchJobs searches the job board.
//
//	@Summary		Search job postings
//	@Description	Paid plans only. Not metered.
//	@Tags			Jobs
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		model.SearchJobsRequest	true	"Query, location and limit"
//	@Success		200		{object}	model.JobsResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Failure		502		{object}	response.ErrorResponse
//	@Failure		503		{object}	response.ErrorResponse
//	@Router			/search-jobs [post]
func (h *jobsHandler) SearchJobs(c *gin.Context) {
	var req model.SearchJobsRequest
	if !bindRequest(c, &req) {
		return
	}
	userID, ok := requireUser(c, req.UserID)
	if !ok {
		return
	}

	jobs, err := h.jobsDomain.Search(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, jobs)
}

// MatchJobs finds postings similar to a job description and ranks them
// against the resume.
//
//	@Summary		Match job postings to a resume
//	@Description	Paid plans only. Not metered. Results carry a 0-100 match_score.
//	@Tags			Jobs
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		model.MatchJobsRequest	true	"Resume, job description, location and limit"
//	@Success		200		{object}	model.JobsResponse
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		403		{object}	response.ErrorResponse
//	@Failure		429		{object}	response.ErrorResponse
//	@Failure		502		{object}	response.ErrorResponse
//	@Failure		503		{object}	response.ErrorResponse
//	@Router			/match-jobs [post]
func (h *jobsHandler) MatchJobs(c *gin.Context) {
	var req model.MatchJobsRequest
	if !bindRequest(c, &req) {
		return
	}
	userID, ok := requireUser(c, req.UserID)
	if !ok {
		return
	}

	jobs, err := h.jobsDomain.Match(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, jobs)
}
