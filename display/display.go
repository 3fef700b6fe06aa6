package display

import (
	"encoding/json"
	"io"

	"glissues/gitlab"
)

// IssueRecord is an issue plus its optional generated summary.
type IssueRecord struct {
	gitlab.Issue
	Summary string `json:"summary,omitempty"`
}

// Output is everything one run produced, in render order.
type Output struct {
	Issues            []IssueRecord `json:"issues"`
	TotalCount        int           `json:"total_count"`
	CollectionSummary string        `json:"collection_summary,omitempty"`
	LLMProvider       string        `json:"llm_provider,omitempty"`
	LLMModel          string        `json:"llm_model,omitempty"`
}

// WriteJSON renders the output as indented JSON.
func WriteJSON(w io.Writer, out Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
