package display_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glissues/display"
	"glissues/gitlab"
)

func sampleRecords() []display.IssueRecord {
	created := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	updated := time.Date(2025, 5, 3, 17, 0, 0, 0, time.UTC)
	return []display.IssueRecord{
		{
			Issue: gitlab.Issue{
				ID:          101,
				IID:         1,
				ProjectID:   7,
				Title:       "broken login",
				Description: "login fails with 500",
				State:       "opened",
				Author:      gitlab.User{Username: "jane", Name: "Jane Doe"},
				Assignee:    &gitlab.User{Username: "john.doe", Name: "John Doe"},
				CreatedAt:   created,
				UpdatedAt:   updated,
				WebURL:      "https://gitlab.com/group/proj/-/issues/1",
			},
			Summary: "Login endpoint returns 500; fix in progress.",
		},
		{
			Issue: gitlab.Issue{
				ID:        102,
				IID:       2,
				ProjectID: 7,
				Title:     "update docs",
				State:     "closed",
				Author:    gitlab.User{Username: "john.doe", Name: "John Doe"},
				CreatedAt: created,
				UpdatedAt: updated,
				WebURL:    "https://gitlab.com/group/proj/-/issues/2",
			},
		},
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	in := display.Output{
		Issues:            sampleRecords(),
		TotalCount:        2,
		CollectionSummary: "two issues, one open",
		LLMProvider:       "groq",
		LLMModel:          "llama-3.3-70b-versatile",
	}

	var buf bytes.Buffer
	require.NoError(t, display.WriteJSON(&buf, in))

	var out display.Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, in, out)
}

func TestWriteJSONOmitsEmptyOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, display.WriteJSON(&buf, display.Output{
		Issues:     sampleRecords()[1:],
		TotalCount: 1,
	}))

	raw := buf.String()
	assert.NotContains(t, raw, "collection_summary")
	assert.NotContains(t, raw, "llm_provider")
	assert.NotContains(t, raw, "llm_model")
	assert.NotContains(t, raw, `"summary"`)
	assert.Contains(t, raw, `"assignee": null`)
	assert.Contains(t, raw, `"total_count": 1`)
}

func TestIssueBlockFieldOrder(t *testing.T) {
	block := display.IssueBlock(sampleRecords()[0])

	lines := strings.Split(block, "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Issue #1: broken login", lines[0])
	assert.Equal(t, "State: opened", lines[1])
	assert.Equal(t, "Author: Jane Doe (@jane)", lines[2])
	assert.Equal(t, "Assignee: John Doe (@john.doe)", lines[3])
	assert.Equal(t, "Created: 2025-05-01 09:30:00", lines[4])
	assert.Equal(t, "Updated: 2025-05-03 17:00:00", lines[5])
	assert.Equal(t, "URL: https://gitlab.com/group/proj/-/issues/1", lines[6])
	assert.Equal(t, "Description: login fails with 500", lines[7])
	assert.Equal(t, "Summary: Login endpoint returns 500; fix in progress.", lines[8])
}

func TestIssueBlockUnassignedAndNoSummary(t *testing.T) {
	block := display.IssueBlock(sampleRecords()[1])
	assert.Contains(t, block, "Assignee: Unassigned")
	assert.NotContains(t, block, "Summary:")
	assert.NotContains(t, block, "Description:")
}

func TestIssueBlockTruncatesDescription(t *testing.T) {
	rec := sampleRecords()[1]
	rec.Description = strings.Repeat("d", 130)

	block := display.IssueBlock(rec)
	assert.Contains(t, block, "Description: "+strings.Repeat("d", 100)+"...")
	assert.NotContains(t, block, strings.Repeat("d", 101))
}
