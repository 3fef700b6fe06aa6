package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"glissues/display"
	"glissues/gitlab"
	"glissues/internal/config"
	"glissues/summarize"
)

type rootFlags struct {
	projectURL          string
	username            string
	token               string
	assigneeOnly        bool
	authorOnly          bool
	output              string
	summarizeIndividual bool
	summarizeCollection bool
	provider            string
	apiKey              string
	llmModel            string
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "glissues",
	Short: "Fetch GitLab issues by username with optional AI summaries",
	Long: `glissues fetches the issues of a GitLab project that are assigned to
and/or authored by a username, and can summarize them individually or as a
collection using Groq, OpenAI or Gemini.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute runs the CLI with the given context and returns the command error,
// if any.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.projectURL, "project-url", "", "GitLab project URL or numeric project ID")
	f.StringVar(&flags.username, "username", "", "username to filter issues by")
	f.StringVar(&flags.token, "token", "", "GitLab access token (for private projects or higher rate limits)")
	f.BoolVar(&flags.assigneeOnly, "assignee-only", false, "only fetch issues assigned to the user")
	f.BoolVar(&flags.authorOnly, "author-only", false, "only fetch issues created by the user")
	f.StringVar(&flags.output, "output", "console", "output format: console or json")
	f.BoolVar(&flags.summarizeIndividual, "summarize-individual", false, "generate an AI summary for each issue")
	f.BoolVar(&flags.summarizeCollection, "summarize-collection", false, "generate an AI summary of the whole collection")
	f.StringVar(&flags.provider, "provider", "", "LLM provider: groq, openai or gemini (default from config, groq otherwise)")
	f.StringVar(&flags.apiKey, "api-key", "", "LLM API key (or set GROQ_API_KEY/OPENAI_API_KEY/GEMINI_API_KEY)")
	f.StringVar(&flags.llmModel, "llm-model", "", "LLM model (defaults per provider)")

	cobra.CheckErr(rootCmd.MarkFlagRequired("project-url"))
	cobra.CheckErr(rootCmd.MarkFlagRequired("username"))
	rootCmd.MarkFlagsMutuallyExclusive("assignee-only", "author-only")

	rootCmd.AddCommand(configCmd, versionCmd)
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if flags.output != "console" && flags.output != "json" {
		return fmt.Errorf("invalid --output %q: use console or json", flags.output)
	}
	console := flags.output == "console"

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.token != "" {
		cfg.GitLabToken = flags.token
	}
	if console && cfg.GitLabToken == "" {
		pterm.Warning.Println("No access token provided; only public projects are accessible.")
	}

	// Summarizer setup happens before any network call so a missing API key
	// fails fast as a configuration error.
	var summaryClient *summarize.Client
	if flags.summarizeIndividual || flags.summarizeCollection {
		provider := summarize.Provider(firstNonEmpty(flags.provider, cfg.Provider))
		opts := summarize.Options{
			Provider: provider,
			Model:    firstNonEmpty(flags.llmModel, cfg.Model),
			APIKey:   firstNonEmpty(flags.apiKey, cfg.APIKeyFor(provider)),
		}
		summaryClient, err = summarize.New(ctx, opts)
		if err != nil {
			return err
		}
	}

	client := gitlab.NewClient(cfg.GitLabURL, cfg.GitLabToken)
	query := gitlab.FetchQuery{
		ProjectURL:      flags.projectURL,
		Username:        flags.username,
		IncludeAssignee: !flags.authorOnly,
		IncludeAuthor:   !flags.assigneeOnly,
	}

	var spinner *pterm.SpinnerPrinter
	if console {
		spinner, _ = pterm.DefaultSpinner.Start("Fetching issues for " + flags.username + "...")
	}
	issues, err := client.FetchByUsername(ctx, query)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		switch {
		case gitlab.IsAuth(err):
			return fmt.Errorf("authentication failed, check your GitLab token: %w", err)
		case gitlab.IsNotFound(err):
			return err
		default:
			return fmt.Errorf("fetch issues: %w", err)
		}
	}

	out := buildOutput(ctx, client, summaryClient, issues, console)
	if !console {
		return display.WriteJSON(os.Stdout, out)
	}
	display.PrintConsole(out)
	return nil
}

// buildOutput runs the optional summarization passes and assembles the
// render-ready output. Summarization failures degrade to placeholder
// strings, so this never fails.
func buildOutput(ctx context.Context, client *gitlab.Client, summaryClient *summarize.Client, issues []gitlab.Issue, console bool) display.Output {
	records := make([]display.IssueRecord, 0, len(issues))
	for _, issue := range issues {
		rec := display.IssueRecord{Issue: issue}
		if summaryClient != nil && flags.summarizeIndividual {
			var spinner *pterm.SpinnerPrinter
			if console {
				spinner, _ = pterm.DefaultSpinner.
					WithRemoveWhenDone(true).
					Start(fmt.Sprintf("Summarizing issue #%d...", issue.IID))
			}
			// Comments feed the prompt; a failed notes fetch just means a
			// summary without them.
			notes, err := client.ListIssueNotes(ctx, issue.ProjectID, issue.IID)
			if err != nil {
				notes = nil
			}
			rec.Summary = summaryClient.SummarizeIssue(ctx, issue, notes)
			if spinner != nil {
				_ = spinner.Stop()
			}
		}
		records = append(records, rec)
	}

	out := display.Output{Issues: records, TotalCount: len(records)}
	if summaryClient != nil {
		out.LLMProvider = string(summaryClient.Provider())
		out.LLMModel = summaryClient.Model()
		if flags.summarizeCollection && len(issues) > 0 {
			var spinner *pterm.SpinnerPrinter
			if console {
				spinner, _ = pterm.DefaultSpinner.
					WithRemoveWhenDone(true).
					Start("Summarizing collection...")
			}
			out.CollectionSummary = summaryClient.SummarizeCollection(ctx, issues)
			if spinner != nil {
				_ = spinner.Stop()
			}
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
