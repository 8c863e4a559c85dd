package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dgallion1/demystify/internal/config"
)

// Completer turns one prompt into one completion. Implementations make a single
// request per call: no retries, no streaming.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Backend is a provider-specific Completer.
type Backend interface {
	Completer
	Provider() string
	Model() string
}

// ServiceError reports a failed call to the generative-language service
// (network, auth, quota or a malformed response).
type ServiceError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Client wraps a Backend with latency stats and logging.
type Client struct {
	backend Backend
	Stats   *LLMStats
	log     *zap.Logger
}

func NewClient(backend Backend, stats *LLMStats, log *zap.Logger) *Client {
	if stats == nil {
		stats = NewLLMStats(time.Hour)
	}
	return &Client{
		backend: backend,
		Stats:   stats,
		log:     log.With(zap.String("provider", backend.Provider()), zap.String("model", backend.Model())),
	}
}

// New builds the client for the configured provider.
func New(cfg config.Config, log *zap.Logger) (*Client, error) {
	var backend Backend
	switch cfg.GenAIProvider {
	case config.ProviderAnthropic:
		backend = NewAnthropicBackend(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.GenAIBaseURL, cfg.GenAIMaxTokens)
	case config.ProviderOpenAI:
		backend = NewOpenAIBackend(cfg.GenAIAPIKey, cfg.GenAIModel, cfg.GenAIBaseURL, cfg.GenAIMaxTokens)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.GenAIProvider)
	}
	return NewClient(backend, NewLLMStats(time.Hour), log), nil
}

// Complete sends the prompt and returns the completion text. Every failure is
// returned as a *ServiceError.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := c.backend.Complete(ctx, prompt)
	elapsed := time.Since(start)
	c.Stats.Record(elapsed)

	if err != nil {
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			err = &ServiceError{Service: c.backend.Provider(), Err: err}
		}
		c.log.Warn("generation failed",
			zap.Int("prompt_tokens_est", EstimateTokens(prompt)),
			zap.Int64("duration_ms", elapsed.Milliseconds()),
			zap.Error(err),
		)
		return "", err
	}

	c.log.Info("generation complete",
		zap.Int("prompt_tokens_est", EstimateTokens(prompt)),
		zap.Int("completion_chars", len(text)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	)
	return text, nil
}

func (c *Client) Provider() string { return c.backend.Provider() }

func (c *Client) Model() string { return c.backend.Model() }
