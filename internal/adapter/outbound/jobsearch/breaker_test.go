package jobsearch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rezzy/server/internal/model"
	"github.com/rezzy/server/internal/port/outbound"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBoard struct {
	mu    sync.Mutex
	err   error
	delay time.Duration
	calls int
}

func (f *fakeBoard) Name() string { return "fake" }

func (f *fakeBoard) Search(ctx context.Context, q *outbound.JobQuery) ([]*model.JobPosting, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []*model.JobPosting{{ID: "1", Title: q.Query}}, nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	statuses []string
}

func (r *fakeRecorder) RecordJobSearch(_, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func TestBreakerSearcher_PassesThrough(t *testing.T) {
	rec := &fakeRecorder{}
	s := NewBreakerSearcher(&fakeBoard{}, nil, rec, zap.NewNop())

	jobs, err := s.Search(context.Background(), &outbound.JobQuery{Query: "go"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "go", jobs[0].Title)
	assert.Equal(t, "fake", s.Name())
	assert.Equal(t, []string{"success"}, rec.statuses)
}

func TestBreakerSearcher_OpensAfterUnavailableBoard(t *testing.T) {
	inner := &fakeBoard{err: outbound.ErrJobBoardUnavailable}
	rec := &fakeRecorder{}
	s := NewBreakerSearcher(inner, &BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Minute}, rec, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := s.Search(context.Background(), &outbound.JobQuery{Query: "go"})
		assert.ErrorIs(t, err, outbound.ErrJobBoardUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, s.State())

	_, err := s.Search(context.Background(), &outbound.JobQuery{Query: "go"})
	assert.ErrorIs(t, err, outbound.ErrJobBoardUnavailable)
	assert.Equal(t, 2, inner.calls, "open circuit must not reach the board")
	assert.Equal(t, []string{"unavailable", "unavailable", "unavailable"}, rec.statuses)
}

func TestBreakerSearcher_RejectedQueryDoesNotTrip(t *testing.T) {
	inner := &fakeBoard{err: errors.New("bad status: 400 Bad Request")}
	rec := &fakeRecorder{}
	s := NewBreakerSearcher(inner, &BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute}, rec, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := s.Search(context.Background(), &outbound.JobQuery{Query: "go"})
		assert.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateClosed, s.State())
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, "error", rec.statuses[0])
}

func TestBreakerSearcher_TimeoutIsUnavailable(t *testing.T) {
	s := NewBreakerSearcher(&fakeBoard{delay: time.Second}, &BreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      time.Minute,
		RequestTimeout:   10 * time.Millisecond,
	}, nil, zap.NewNop())

	_, err := s.Search(context.Background(), &outbound.JobQuery{Query: "go"})
	assert.ErrorIs(t, err, outbound.ErrJobBoardUnavailable)
}
