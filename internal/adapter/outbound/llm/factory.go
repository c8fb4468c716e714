package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rezzy/server/internal/port/outbound"
	"github.com/rezzy/server/internal/shared/config"
	"go.uber.org/zap"
)

// NewProvider builds the configured provider wrapped in a circuit breaker.
func NewProvider(ctx context.Context, cfg *config.LLMConfig, httpClient *http.Client, recorder Recorder, logger *zap.Logger) (outbound.LLMProviderPort, error) {
	var (
		inner outbound.LLMProviderPort
		err   error
	)

	switch cfg.Provider {
	case "", "openai":
		inner, err = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, httpClient)
	case "gemini":
		inner, err = NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, httpClient)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewBreakerProvider(inner, &BreakerConfig{
		FailureThreshold: cfg.FailureThreshold,
		OpenTimeout:      cfg.CircuitTimeout,
		RequestTimeout:   cfg.RequestTimeout,
	}, recorder, logger), nil
}
