package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiSummarizer produces summaries with the Gemini API.
type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

func NewGeminiSummarizer(ctx context.Context, apiKey, model string) (*GeminiSummarizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiSummarizer{client: client, model: model}, nil
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, "models/"+s.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](temperature),
		MaxOutputTokens:   maxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", errors.New("response text is empty")
	}
	return out, nil
}
