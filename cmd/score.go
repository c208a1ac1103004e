package cmd

import (
	"github.com/greenbyte/sustain/core"
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd scores files and directories against the rubric.
var scoreCmd = &cobra.Command{
	Use:   "score [path...]",
	Short: "Score files for sustainability, worst first.",
	Long: `Run lizard, cloc and radon over each file and score it against the
per-language rubric. Scores range from 0 (poor) to 100 (excellent).

Directories are walked recursively. Files with no detectable language are
skipped unless --language forces one. Version-control, vendor and build
directories are always excluded; add more with --exclude.

Missing analyzers are reported once and their metrics are dropped from the
score rather than failing the run.

Examples:
  # Score the current directory
  sustain score

  # Score a couple of files and show the per-metric breakdown
  sustain score app.py lib/util.py --explain

  # Export scores as JSON
  sustain score src --output json --output-file scores.json`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}
		return sharedSetup(rootCtx, cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScore(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot score files", err)
		}
	},
}
