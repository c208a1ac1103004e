package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
)

// WriteOptimizeResult prints the optimizer outcome. In text mode a dry run
// also prints the optimized code to stdout.
func WriteOptimizeResult(result schema.OptimizeResult, cfg *contract.Config) error {
	fmtFloat := scoreFormatter(cfg.Precision)

	err := writeFormatted(cfg, "optimize result", formatWriters{
		json: jsonWriter(result),
		csv: func(w io.Writer) error {
			return writeOptimizeCSV(w, result, fmtFloat)
		},
		text: func(w io.Writer) error {
			return writeOptimizeText(w, result, fmtFloat)
		},
	})
	if err != nil {
		return err
	}
	if cfg.Output != schema.JSONOut && cfg.Output != schema.CSVOut && result.DryRun && result.Optimized != "" && !result.Rejected {
		_, err = fmt.Fprint(os.Stdout, result.Optimized)
	}
	return err
}

func writeOptimizeText(w io.Writer, r schema.OptimizeResult, fmtFloat func(float64) string) error {
	before := formatScore(r.Before, fmtFloat)
	if _, err := fmt.Fprintf(w, "%s (%s)\n  before: %s\n", r.Path, r.Language.DisplayName(), before); err != nil {
		return err
	}

	if r.Gate.Skip {
		_, err := fmt.Fprintf(w, "  skipped: %s\n", r.Gate.Reason)
		return err
	}

	after := "-"
	if r.After != nil {
		after = formatScore(*r.After, fmtFloat)
	}
	var outcome string
	switch {
	case r.Rejected:
		outcome = contract.PoorColor.Sprint("rejected, the answer scored lower")
	case r.Written:
		outcome = contract.ExcellentColor.Sprint("written")
	case r.DryRun:
		outcome = "dry run, file untouched"
	default:
		outcome = "not written"
	}
	_, err := fmt.Fprintf(w, "  after: %s\n  model: %s/%s\n  result: %s (%d ms)\n", after, r.Provider, r.Model, outcome, r.DurationMs)
	return err
}

func writeOptimizeCSV(w io.Writer, r schema.OptimizeResult, fmtFloat func(float64) string) error {
	header := []string{"path", "language", "before", "after", "skip", "reason", "written", "rejected", "dry_run", "provider", "model", "duration_ms"}
	after := ""
	if r.After != nil {
		after = fmtFloat(r.After.Score)
	}
	return writeCSV(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			r.Path,
			string(r.Language),
			fmtFloat(r.Before.Score),
			after,
			strconv.FormatBool(r.Gate.Skip),
			string(r.Gate.Reason),
			strconv.FormatBool(r.Written),
			strconv.FormatBool(r.Rejected),
			strconv.FormatBool(r.DryRun),
			string(r.Provider),
			r.Model,
			strconv.FormatInt(r.DurationMs, 10),
		})
	})
}

func formatScore(r schema.ScoreResult, fmtFloat func(float64) string) string {
	if !r.Scored {
		return schema.UnscoredLabel
	}
	return fmt.Sprintf("%s (%s)", fmtFloat(r.Score), schema.LabelFor(r))
}
