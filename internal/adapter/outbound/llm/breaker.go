package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rezzy/server/internal/port/outbound"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Recorder receives the outcome of every provider call.
type Recorder interface {
	RecordLLMRequest(provider, status string, duration time.Duration)
}

// CircuitRecorder is implemented by recorders that track the circuit state.
type CircuitRecorder interface {
	SetCircuitOpen(provider string, open bool)
}

// BreakerConfig configures the circuit breaker around a provider.
type BreakerConfig struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	RequestTimeout   time.Duration
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		RequestTimeout:   60 * time.Second,
	}
}

// BreakerProvider guards a provider with a per-call timeout and a circuit
// breaker. An open circuit fails fast with outbound.ErrProviderUnavailable.
type BreakerProvider struct {
	inner    outbound.LLMProviderPort
	breaker  *gobreaker.CircuitBreaker[*outbound.Completion]
	timeout  time.Duration
	recorder Recorder
	logger   *zap.Logger
}

// NewBreakerProvider wraps inner. recorder may be nil.
func NewBreakerProvider(inner outbound.LLMProviderPort, cfg *BreakerConfig, recorder Recorder, logger *zap.Logger) *BreakerProvider {
	if cfg == nil {
		cfg = DefaultBreakerConfig()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	p := &BreakerProvider{
		inner:    inner,
		timeout:  cfg.RequestTimeout,
		recorder: recorder,
		logger:   logger.Named("llm").With(zap.String("provider", inner.Name())),
	}

	p.breaker = gobreaker.NewCircuitBreaker[*outbound.Completion](gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellations say nothing about provider health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("llm circuit state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if cr, ok := recorder.(CircuitRecorder); ok {
				cr.SetCircuitOpen(name, to == gobreaker.StateOpen)
			}
		},
	})

	return p
}

func (p *BreakerProvider) Name() string {
	return p.inner.Name()
}

func (p *BreakerProvider) Complete(ctx context.Context, req *outbound.CompletionRequest) (*outbound.Completion, error) {
	start := time.Now()

	completion, err := p.breaker.Execute(func() (*outbound.Completion, error) {
		callCtx := ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		completion, err := p.inner.Complete(callCtx, req)
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w: request timed out", outbound.ErrProviderUnavailable)
		}
		return completion, err
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", outbound.ErrProviderUnavailable, err)
	}

	p.record(err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// State returns the current circuit state.
func (p *BreakerProvider) State() gobreaker.State {
	return p.breaker.State()
}

func (p *BreakerProvider) record(err error, d time.Duration) {
	if p.recorder == nil {
		return
	}
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, outbound.ErrProviderUnavailable):
		status = "unavailable"
	default:
		status = "error"
	}
	p.recorder.RecordLLMRequest(p.inner.Name(), status, d)
}

// Compile-time check
var _ outbound.LLMProviderPort = (*BreakerProvider)(nil)
