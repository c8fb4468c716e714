package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rezzy/server/internal/domain/analysis"
	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/inbound"
	"github.com/rezzy/server/internal/port/outbound"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 10
	MaxLimit     = 20

	// matchOversample is how many candidates per returned match are fetched
	// before ranking.
	matchOversample = 2
)

// PlanPolicy reports which plans include job search.
type PlanPolicy interface {
	JobSearch(plan model.PlanTag) bool
}

// Domain implements job board search and resume matching for paid plans.
type Domain struct {
	users    outbound.UserDatabasePort
	plans    PlanPolicy
	searcher outbound.JobSearchPort
	logger   *zap.Logger
}

// NewJobsDomain creates a new jobs domain service. searcher may be nil when
// no job board is configured; every call then fails with ErrSearchNotConfigured.
func NewJobsDomain(users outbound.UserDatabasePort, plans PlanPolicy, searcher outbound.JobSearchPort, logger *zap.Logger) *Domain {
	return &Domain{
		users:    users,
		plans:    plans,
		searcher: searcher,
		logger:   logger,
	}
}

// Compile-time interface check
var _ inbound.JobsDomain = (*Domain)(nil)

func (d *Domain) Search(ctx context.Context, userID string, in *model.SearchJobsRequest) (*model.JobsResponse, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(query) > analysis.MaxInputLength {
		return nil, ErrInputTooLong
	}
	if err := d.authorize(ctx, userID); err != nil {
		return nil, err
	}

	postings, err := d.search(ctx, &outbound.JobQuery{
		Query:    query,
		Location: strings.TrimSpace(in.Location),
		Limit:    clampLimit(in.Limit),
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("jobs searched",
		zap.String("user_id", userID),
		zap.Int("results", len(postings)),
	)
	return &model.JobsResponse{Query: query, Jobs: postings}, nil
}

func (d *Domain) Match(ctx context.Context, userID string, in *model.MatchJobsRequest) (*model.JobsResponse, error) {
	resumeText := strings.TrimSpace(in.ResumeText)
	jobDescription := strings.TrimSpace(in.JobDescription)
	if resumeText == "" || jobDescription == "" {
		return nil, ErrInvalidMatchInput
	}
	if utf8.RuneCountInString(resumeText) > analysis.MaxInputLength ||
		utf8.RuneCountInString(jobDescription) > analysis.MaxInputLength {
		return nil, ErrInputTooLong
	}
	if err := d.authorize(ctx, userID); err != nil {
		return nil, err
	}

	limit := clampLimit(in.Limit)
	query := searchQuery(jobDescription)
	postings, err := d.search(ctx, &outbound.JobQuery{
		Query:    query,
		Location: strings.TrimSpace(in.Location),
		Limit:    limit * matchOversample,
	})
	if err != nil {
		return nil, err
	}

	for _, p := range postings {
		score := matchScore(resumeText, p.Description)
		p.MatchScore = &score
	}
	sort.SliceStable(postings, func(i, j int) bool {
		return *postings[i].MatchScore > *postings[j].MatchScore
	})
	if len(postings) > limit {
		postings = postings[:limit]
	}

	d.logger.Info("jobs matched",
		zap.String("user_id", userID),
		zap.String("query", query),
		zap.Int("results", len(postings)),
	)
	return &model.JobsResponse{Query: query, Jobs: postings}, nil
}

// authorize checks the plan before any board call is made.
func (d *Domain) authorize(ctx context.Context, userID string) error {
	user, err := d.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: find user: %w", ErrStorageUnavailable, err)
	}
	if user == nil {
		return ErrUnknownUser
	}
	if !d.plans.JobSearch(user.EffectivePlan()) {
		return ErrNotInPlan
	}
	if d.searcher == nil {
		return ErrSearchNotConfigured
	}
	return nil
}

func (d *Domain) search(ctx context.Context, q *outbound.JobQuery) ([]*model.JobPosting, error) {
	postings, err := d.searcher.Search(ctx, q)
	if err != nil {
		d.logger.Warn("job board search failed",
			zap.String("provider", d.searcher.Name()),
			zap.Error(err),
		)
		if errors.Is(err, outbound.ErrJobBoardUnavailable) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	for _, p := range postings {
		p.ExperienceLevel = experienceLevel(p.Description)
	}
	return postings, nil
}

// matchScore is the share of the posting's keywords found in the resume,
// between 0 and 100.
func matchScore(resumeText, description string) float64 {
	coverage := analysis.FindKeywordGaps(resumeText, description).CoveragePercentage
	switch {
	case coverage < 0:
		return 0
	case coverage > 100:
		return 100
	default:
		return coverage
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
