package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend calls the Anthropic Messages API.
type AnthropicBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicBackend(apiKey, model, baseURL string, maxTokens int) *AnthropicBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	return &AnthropicBackend{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

func (b *AnthropicBackend) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: b.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		svcErr := &ServiceError{Service: b.Provider(), Err: err}
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			svcErr.StatusCode = apiErr.StatusCode
		}
		return "", svcErr
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &ServiceError{Service: b.Provider(), Err: errors.New("empty response")}
	}
	return sb.String(), nil
}

func (b *AnthropicBackend) Provider() string { return "anthropic" }

func (b *AnthropicBackend) Model() string { return b.model }
