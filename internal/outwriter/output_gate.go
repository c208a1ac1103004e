package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
)

// WriteGateReport prints the gate verdict for one file.
func WriteGateReport(report schema.GateReport, cfg *contract.Config) error {
	fmtFloat := scoreFormatter(cfg.Precision)

	return writeFormatted(cfg, "gate report", formatWriters{
		json: jsonWriter(report),
		csv: func(w io.Writer) error {
			return writeGateCSV(w, report, fmtFloat)
		},
		text: func(w io.Writer) error {
			return writeGateText(w, report, fmtFloat)
		},
	})
}

func writeGateText(w io.Writer, r schema.GateReport, fmtFloat func(float64) string) error {
	score := fmtFloat(r.Score)
	if !r.Scored {
		score = schema.UnscoredLabel
	}
	verdict := contract.PoorColor.Sprint("optimize")
	if r.Decision.Skip {
		verdict = contract.ExcellentColor.Sprintf("skip (%s)", r.Decision.Reason)
	}
	_, err := fmt.Fprintf(w, "%s: %s\n  language: %s\n  score: %s (threshold %s)\n  code lines: %d (limit %d)\n",
		r.Path, verdict, r.Language.DisplayName(), score, fmtFloat(r.ScoreThreshold), r.CodeLOC, r.MaxCodeLines)
	return err
}

func writeGateCSV(w io.Writer, r schema.GateReport, fmtFloat func(float64) string) error {
	header := []string{"path", "language", "score", "scored", "code_loc", "score_threshold", "max_code_lines", "skip", "reason"}
	return writeCSV(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			r.Path,
			string(r.Language),
			fmtFloat(r.Score),
			strconv.FormatBool(r.Scored),
			strconv.Itoa(r.CodeLOC),
			fmtFloat(r.ScoreThreshold),
			strconv.Itoa(r.MaxCodeLines),
			strconv.FormatBool(r.Decision.Skip),
			string(r.Decision.Reason),
		})
	})
}
