package outwriter

import (
	"os"

	"github.com/greenbyte/sustain/internal/contract"
	"golang.org/x/term"
)

const (
	fallbackTermWidth = 80 // pipes and CI
	scoreFixedWidth   = 65 // rank, language, score, label and code lines with borders
	weakestWidth      = 40
	minPathWidth      = 15
	maxPathWidth      = 70
)

// terminalWidth returns the --width override, the width of stdout, or the
// fallback when stdout is not a terminal.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackTermWidth
}

// pathColumnWidth returns how many characters of a path fit in the score table
// next to the fixed columns and, with --explain, the weakest-metrics column.
func pathColumnWidth(cfg *contract.Config) int {
	available := terminalWidth(cfg) - scoreFixedWidth
	if cfg.Explain {
		available -= weakestWidth
	}
	return max(minPathWidth, min(available, maxPathWidth))
}
