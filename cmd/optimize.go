package cmd

import (
	"github.com/greenbyte/sustain/core"
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/spf13/cobra"
)

// optimizeCmd asks the configured LLM for a more sustainable version of a file.
var optimizeCmd = &cobra.Command{
	Use:   "optimize <file>",
	Short: "Rewrite a file with an LLM when the gate lets it through.",
	Long: `Score a file, apply the gate, and when the gate does not skip, ask the
configured LLM provider (groq or gemini) for a more efficient version.

The answer is scored again. It is written back only when its score did not
drop, unless --allow-regression is given. --dry-run prints the candidate and
leaves the file untouched.

API keys come from SUSTAIN_LLM_API_KEY, the provider's own environment
variable (GROQ_API_KEY or GEMINI_API_KEY), a .env file, or llm.api-key-file.

Examples:
  # Preview a rewrite
  sustain optimize slow.py --dry-run

  # Use Gemini and write the result back
  SUSTAIN_LLM_PROVIDER=gemini sustain optimize slow.py`,
	Args:    cobra.ExactArgs(1),
	PreRunE: boundSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteOptimize(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot optimize file", err)
		}
	},
}
