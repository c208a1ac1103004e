package cmd

import (
	"github.com/greenbyte/sustain/core"
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/spf13/cobra"
)

// rubricCmd prints the effective rubric after config overrides.
var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Print the scoring rubric in effect.",
	Long: `Print the good and bad bounds and the weight of every metric, per language,
after the rubric section of the config file has been merged in.

Examples:
  # All languages
  sustain rubric

  # Only Go, as JSON
  sustain rubric --language go --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRubric(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot print rubric", err)
		}
	},
}
