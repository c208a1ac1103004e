package cmd

import (
	"errors"
	"os"

	"github.com/greenbyte/sustain/core"
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/internal/iocache"
	"github.com/spf13/cobra"
)

// gateCmd reports whether a file would be sent to the optimizer.
var gateCmd = &cobra.Command{
	Use:   "gate <file>",
	Short: "Decide whether a file is worth an LLM rewrite.",
	Long: `Score a single file and apply the gate policy without calling any LLM.

The LLM step is skipped when the first of these applies:
- --skip-llm was given (forced)
- the score is at or above gate.score-threshold
- the file has more code lines than gate.max-code-lines
- the language is unknown
- the file is blank

By default the staged blob is read when the file is inside a Git repository;
use --from-disk to read the working tree instead.

With --strict the command exits with status 1 when the file would be sent to
the optimizer, which makes it usable as a pre-commit check.

Examples:
  # Show the decision for one file
  sustain gate app.py

  # Fail a hook when a file still needs work
  sustain gate app.py --strict`,
	Args:    cobra.ExactArgs(1),
	PreRunE: boundSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := core.ExecuteGate(rootCtx, cfg, historyManager)
		if errors.Is(err, core.ErrWouldOptimize) {
			_ = StopProfiling()
			iocache.CloseHistory()
			os.Exit(1)
		}
		if err != nil {
			contract.LogFatal("Cannot gate file", err)
		}
	},
}
