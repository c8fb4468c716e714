package jobsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Recorder receives the outcome of every job board call.
type Recorder interface {
	RecordJobSearch(provider, status string, duration time.Duration)
}

// BreakerConfig configures the circuit breaker around a job board.
type BreakerConfig struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	RequestTimeout   time.Duration
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      60 * time.Second,
		RequestTimeout:   15 * time.Second,
	}
}

// BreakerSearcher guards a job board with a per-call timeout and a circuit
// breaker. An open circuit fails fast with outbound.ErrJobBoardUnavailable.
type BreakerSearcher struct {
	inner    outbound.JobSearchPort
	breaker  *gobreaker.CircuitBreaker[[]*model.JobPosting]
	timeout  time.Duration
	recorder Recorder
	logger   *zap.Logger
}

// NewBreakerSearcher wraps inner. recorder may be nil.
func NewBreakerSearcher(inner outbound.JobSearchPort, cfg *BreakerConfig, recorder Recorder, logger *zap.Logger) *BreakerSearcher {
	if cfg == nil {
		cfg = DefaultBreakerConfig()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	s := &BreakerSearcher{
		inner:    inner,
		timeout:  cfg.RequestTimeout,
		recorder: recorder,
		logger:   logger.Named("jobsearch").With(zap.String("provider", inner.Name())),
	}

	s.breaker = gobreaker.NewCircuitBreaker[[]*model.JobPosting](gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// Only an unavailable board counts against the circuit; a rejected
			// query is the caller's problem.
			return err == nil || !errors.Is(err, outbound.ErrJobBoardUnavailable)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			s.logger.Warn("job board circuit state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return s
}

func (s *BreakerSearcher) Name() string {
	return s.inner.Name()
}

func (s *BreakerSearcher) Search(ctx context.Context, q *outbound.JobQuery) ([]*model.JobPosting, error) {
	start := time.Now()

	postings, err := s.breaker.Execute(func() ([]*model.JobPosting, error) {
		callCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		postings, err := s.inner.Search(callCtx, q)
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w: request timed out", outbound.ErrJobBoardUnavailable)
		}
		return postings, err
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", outbound.ErrJobBoardUnavailable, err)
	}

	s.record(err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return postings, nil
}

// State returns the current circuit state.
func (s *BreakerSearcher) State() gobreaker.State {
	return s.breaker.State()
}

func (s *BreakerSearcher) record(err error, d time.Duration) {
	if s.recorder == nil {
		return
	}
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, outbound.ErrJobBoardUnavailable):
		status = "unavailable"
	default:
		status = "error"
	}
	s.recorder.RecordJobSearch(s.inner.Name(), status, d)
}

// Compile-time check
var _ outbound.JobSearchPort = (*BreakerSearcher)(nil)
