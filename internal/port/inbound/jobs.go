package inbound

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rezzy/server/internal/model"
)

// JobsDomain defines job board search for paid plans.
type JobsDomain interface {
	// Search runs a keyword search on the job board.
	Search(ctx context.Context, userID string, in *model.SearchJobsRequest) (*model.JobsResponse, error)

	// Match searches jobs related to the resume and ranks them by keyword coverage.
	Match(ctx context.Context, userID string, in *model.MatchJobsRequest) (*model.JobsResponse, error)
}

// JobsHttpPort defines HTTP handler interface for job search operations.
type JobsHttpPort interface {
	// SearchJobs handles POST /search-jobs
	SearchJobs(c *gin.Context)

	// MatchJobs handles POST /match-jobs
	MatchJobs(c *gin.Context)
}
