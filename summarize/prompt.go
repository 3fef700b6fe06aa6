package summarize

import (
	"fmt"
	"strings"
	"time"

	"glissues/gitlab"
)

const collectionPromptLimit = 10

func issuePrompt(issue gitlab.Issue, notes []gitlab.Note) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Issue #%d: %s\n", issue.IID, issue.Title)
	fmt.Fprintf(&sb, "State: %s\n", issue.State)
	fmt.Fprintf(&sb, "Author: %s (@%s)\n", issue.Author.Name, issue.Author.Username)
	fmt.Fprintf(&sb, "Created: %s\n", issue.CreatedAt.Format(time.RFC3339))

	sb.WriteString("Description:\n")
	if issue.Description != "" {
		sb.WriteString(issue.Description)
	} else {
		sb.WriteString("No description provided")
	}
	sb.WriteString("\n")

	sb.WriteString("Comments:\n")
	if len(notes) == 0 {
		sb.WriteString("No comments\n")
	}
	for _, note := range notes {
		fmt.Fprintf(&sb, "%s: %s\n", note.Author.Username, note.Body)
	}

	return fmt.Sprintf(`Provide a concise summary (2-3 sentences) of this GitLab issue, including the latest updates and discussions from the comments:

%s
Focus on:
- What the issue is about
- Current status/state
- Key actionable points or recent discussions from the comments`, sb.String())
}

func collectionPrompt(issues []gitlab.Issue) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total issues: %d\n\n", len(issues))

	shown := issues
	if len(shown) > collectionPromptLimit {
		shown = shown[:collectionPromptLimit]
	}
	for _, issue := range shown {
		fmt.Fprintf(&sb, "- Issue #%d: %s (%s)\n", issue.IID, issue.Title, issue.State)
		if issue.Description != "" {
			fmt.Fprintf(&sb, "  Description: %s\n", truncate(issue.Description, 100))
		}
		sb.WriteString("\n")
	}
	if rest := len(issues) - collectionPromptLimit; rest > 0 {
		fmt.Fprintf(&sb, "... and %d more issues\n", rest)
	}

	return fmt.Sprintf(`Provide a high-level summary of this collection of GitLab issues:

%s
Include:
- Overall themes or patterns
- Distribution of issue states (open/closed)
- Key areas of focus or concern
- Any notable trends

Keep it concise (3-4 sentences).`, sb.String())
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
