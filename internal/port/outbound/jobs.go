package outbound

import (
	"context"
	"errors"

	"github.com/rezzy/server/internal/model"
)

// ErrJobBoardUnavailable is returned when the job board is unreachable,
// throttling us or its circuit is open.
var ErrJobBoardUnavailable = errors.New("job board unavailable")

// JobQuery is a job board search.
type JobQuery struct {
	Query    string
	Location string
	Limit    int
}

// JobSearchPort defines a job board.
type JobSearchPort interface {
	// Name returns the provider name used in logs and metrics.
	Name() string

	// Search returns at most q.Limit postings for the query.
	Search(ctx context.Context, q *JobQuery) ([]*model.JobPosting, error)
}
