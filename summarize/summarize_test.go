package summarize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glissues/gitlab"
	"glissues/summarize"
)

type stubSummarizer struct {
	calls   int
	lastIn  string
	summary string
	err     error
}

func (s *stubSummarizer) Summarize(_ context.Context, text string) (string, error) {
	s.calls++
	s.lastIn = text
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

func TestSummarizeIssueDegradesToPlaceholder(t *testing.T) {
	stub := &stubSummarizer{err: errors.New("connection refused")}
	client := summarize.NewWithSummarizer(stub, summarize.ProviderGroq, "llama-3.3-70b-versatile")

	out := client.SummarizeIssue(context.Background(), gitlab.Issue{IID: 1, Title: "broken build"}, nil)
	assert.Contains(t, out, "summary unavailable")
	assert.Contains(t, out, "connection refused")
	assert.Equal(t, 1, stub.calls)
}

func TestSummarizeIssueFeedsTitleAndComments(t *testing.T) {
	stub := &stubSummarizer{summary: "short summary"}
	client := summarize.NewWithSummarizer(stub, summarize.ProviderOpenAI, "gpt-3.5-turbo")

	issue := gitlab.Issue{
		IID:         4,
		Title:       "flaky pipeline",
		State:       "opened",
		Description: "fails every other run",
		Author:      gitlab.User{Username: "jane", Name: "Jane"},
	}
	notes := []gitlab.Note{
		{Author: gitlab.User{Username: "john.doe"}, Body: "retried, same failure"},
	}

	out := client.SummarizeIssue(context.Background(), issue, notes)
	require.Equal(t, "short summary", out)
	assert.Contains(t, stub.lastIn, "Issue #4: flaky pipeline")
	assert.Contains(t, stub.lastIn, "State: opened")
	assert.Contains(t, stub.lastIn, "fails every other run")
	assert.Contains(t, stub.lastIn, "john.doe: retried, same failure")
}

func TestSummarizeCollection(t *testing.T) {
	stub := &stubSummarizer{summary: "collection overview"}
	client := summarize.NewWithSummarizer(stub, summarize.ProviderGroq, "llama-3.3-70b-versatile")

	issues := []gitlab.Issue{
		{IID: 1, Title: "first", State: "opened"},
		{IID: 2, Title: "second", State: "closed"},
	}
	out := client.SummarizeCollection(context.Background(), issues)
	require.Equal(t, "collection overview", out)
	assert.Contains(t, stub.lastIn, "Total issues: 2")
	assert.Contains(t, stub.lastIn, "- Issue #1: first (opened)")
	assert.Contains(t, stub.lastIn, "- Issue #2: second (closed)")
}

func TestSummarizeCollectionEmpty(t *testing.T) {
	stub := &stubSummarizer{summary: "should not be used"}
	client := summarize.NewWithSummarizer(stub, summarize.ProviderGroq, "llama-3.3-70b-versatile")

	out := client.SummarizeCollection(context.Background(), nil)
	assert.Equal(t, "no issues to summarize", out)
	assert.Equal(t, 0, stub.calls)
}

func TestSummarizeCollectionDegradesToPlaceholder(t *testing.T) {
	stub := &stubSummarizer{err: errors.New("rate limited")}
	client := summarize.NewWithSummarizer(stub, summarize.ProviderGroq, "llama-3.3-70b-versatile")

	out := client.SummarizeCollection(context.Background(), []gitlab.Issue{{IID: 1, Title: "x"}})
	assert.Contains(t, out, "summary unavailable")
}

func TestNewRequiresAPIKey(t *testing.T) {
	for _, provider := range []summarize.Provider{
		summarize.ProviderGroq,
		summarize.ProviderOpenAI,
		summarize.ProviderGemini,
	} {
		_, err := summarize.New(context.Background(), summarize.Options{Provider: provider})
		require.Error(t, err, "provider %s", provider)
		assert.Contains(t, err.Error(), "API key is missing")
	}
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := summarize.New(context.Background(), summarize.Options{
		Provider: "anthropic",
		APIKey:   "key",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "llama-3.3-70b-versatile", summarize.DefaultModel(summarize.ProviderGroq))
	assert.Equal(t, "gpt-3.5-turbo", summarize.DefaultModel(summarize.ProviderOpenAI))
	assert.Equal(t, "gemini-2.5-flash", summarize.DefaultModel(summarize.ProviderGemini))
}

func TestClientReportsProviderAndModel(t *testing.T) {
	client, err := summarize.New(context.Background(), summarize.Options{
		Provider: summarize.ProviderGroq,
		APIKey:   "key",
	})
	require.NoError(t, err)
	assert.Equal(t, summarize.ProviderGroq, client.Provider())
	assert.Equal(t, "llama-3.3-70b-versatile", client.Model())
}
