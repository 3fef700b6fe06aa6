package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

const (
	maxOutputTokens = 200
	temperature     = 0.3
)

const systemPrompt = "You are a helpful assistant that summarizes software development issues clearly and concisely."

// OpenAISummarizer calls an OpenAI-compatible chat completions endpoint.
// Groq exposes the same wire protocol, so both providers share this
// implementation and differ only in base URL.
type OpenAISummarizer struct {
	client openai.Client
	model  string
}

func NewOpenAISummarizer(apiKey, model string) *OpenAISummarizer {
	return newOpenAISummarizer(apiKey, model, "")
}

func NewGroqSummarizer(apiKey, model string) *OpenAISummarizer {
	return newOpenAISummarizer(apiKey, model, groqBaseURL)
}

func newOpenAISummarizer(apiKey, model, baseURL string) *OpenAISummarizer {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAISummarizer{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
		MaxTokens:   openai.Int(maxOutputTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("completion text is empty")
	}
	return out, nil
}
