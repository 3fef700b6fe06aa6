package summarize

import (
	"context"
	"fmt"

	"glissues/gitlab"
)

// Summarizer produces a natural-language summary of the given text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Provider selects which LLM backend serves summary requests.
type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// DefaultModel returns the model used when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "gpt-3.5-turbo"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return "llama-3.3-70b-versatile"
	}
}

func apiKeyEnv(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

// Options configure a summary client.
type Options struct {
	Provider Provider
	Model    string
	APIKey   string
}

// Client wraps a provider Summarizer with the prompts and the degrade
// policy: a failed provider call yields a placeholder string, never an
// error, so one bad summary does not sink the whole run.
type Client struct {
	summarizer Summarizer
	provider   Provider
	model      string
}

// New builds a summary client for the configured provider. A missing API
// key is a configuration error reported before any network call.
func New(ctx context.Context, opts Options) (*Client, error) {
	model := opts.Model
	if model == "" {
		model = DefaultModel(opts.Provider)
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s API key is missing: set %s or use --api-key", opts.Provider, apiKeyEnv(opts.Provider))
	}

	var (
		s   Summarizer
		err error
	)
	switch opts.Provider {
	case ProviderGroq:
		s = NewGroqSummarizer(opts.APIKey, model)
	case ProviderOpenAI:
		s = NewOpenAISummarizer(opts.APIKey, model)
	case ProviderGemini:
		s, err = NewGeminiSummarizer(ctx, opts.APIKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider %q (use groq, openai or gemini)", opts.Provider)
	}
	if err != nil {
		return nil, err
	}
	return &Client{summarizer: s, provider: opts.Provider, model: model}, nil
}

// NewWithSummarizer wires an explicit Summarizer implementation, bypassing
// provider selection.
func NewWithSummarizer(s Summarizer, provider Provider, model string) *Client {
	return &Client{summarizer: s, provider: provider, model: model}
}

func (c *Client) Provider() Provider { return c.provider }

func (c *Client) Model() string { return c.model }

// SummarizeIssue returns a short summary of one issue and its comments.
func (c *Client) SummarizeIssue(ctx context.Context, issue gitlab.Issue, notes []gitlab.Note) string {
	out, err := c.summarizer.Summarize(ctx, issuePrompt(issue, notes))
	if err != nil {
		return "summary unavailable: " + err.Error()
	}
	return out
}

// SummarizeCollection returns a high-level summary across all fetched
// issues.
func (c *Client) SummarizeCollection(ctx context.Context, issues []gitlab.Issue) string {
	if len(issues) == 0 {
		return "no issues to summarize"
	}
	out, err := c.summarizer.Summarize(ctx, collectionPrompt(issues))
	if err != nil {
		return "summary unavailable: " + err.Error()
	}
	return out
}
