package cli

import (
	"github.com/spf13/cobra"

	"glissues/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Interactively set up GitLab and LLM credentials",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := config.RunSetup()
		return err
	},
}
