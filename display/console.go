package display

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

const descriptionPreviewLen = 100

// PrintConsole renders the output as human-readable blocks, one per issue.
func PrintConsole(out Output) {
	if len(out.Issues) == 0 {
		pterm.Warning.Println("No issues found.")
		return
	}

	if out.CollectionSummary != "" {
		header := "Collection summary"
		if out.LLMProvider != "" {
			header = fmt.Sprintf("Collection summary (%s)", strings.ToUpper(out.LLMProvider))
		}
		pterm.DefaultSection.WithStyle(pterm.NewStyle(pterm.FgCyan, pterm.Bold)).Println(header)
		pterm.Println(out.CollectionSummary)
		pterm.Println()
	}

	pterm.Success.Printfln("Found %d issue(s)", out.TotalCount)
	pterm.Println()
	pterm.Println(pterm.Gray(strings.Repeat("-", 80)))
	for _, rec := range out.Issues {
		pterm.Println(IssueBlock(rec))
		pterm.Println(pterm.Gray(strings.Repeat("-", 80)))
	}
}

// IssueBlock formats one issue in the fixed console field order: number,
// title, state, author, assignee, dates, URL, description preview and the
// summary when present.
func IssueBlock(rec IssueRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Issue #%d: %s\n", rec.IID, rec.Title)
	fmt.Fprintf(&sb, "State: %s\n", rec.State)
	fmt.Fprintf(&sb, "Author: %s (@%s)\n", rec.Author.Name, rec.Author.Username)
	if rec.Assignee != nil {
		fmt.Fprintf(&sb, "Assignee: %s (@%s)\n", rec.Assignee.Name, rec.Assignee.Username)
	} else {
		sb.WriteString("Assignee: Unassigned\n")
	}
	fmt.Fprintf(&sb, "Created: %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Updated: %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "URL: %s\n", rec.WebURL)
	if rec.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", preview(rec.Description))
	}
	if rec.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", rec.Summary)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func preview(s string) string {
	if len(s) <= descriptionPreviewLen {
		return s
	}
	return s[:descriptionPreviewLen] + "..."
}
