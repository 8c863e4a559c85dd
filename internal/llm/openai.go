package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIBackend calls an OpenAI-compatible chat completions API.
type OpenAIBackend struct {
	client    openai.Client
	model     string
	maxTokens int64
}

func NewOpenAIBackend(apiKey, model, baseURL string, maxTokens int) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	return &OpenAIBackend{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(b.maxTokens),
	})
	if err != nil {
		svcErr := &ServiceError{Service: b.Provider(), Err: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			svcErr.StatusCode = apiErr.StatusCode
		}
		return "", svcErr
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &ServiceError{Service: b.Provider(), Err: errors.New("empty response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *OpenAIBackend) Provider() string { return "openai" }

func (b *OpenAIBackend) Model() string { return b.model }
