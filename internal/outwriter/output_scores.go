package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// explainTopN is how many of the weakest metrics the explain column lists.
const explainTopN = 2

// WriteScoreResults outputs scored files, dispatching on the configured output format.
func WriteScoreResults(reports []schema.FileReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := scoreFormatter(cfg.Precision)

	return writeFormatted(cfg, "scores", formatWriters{
		json: jsonWriter(schema.RankFiles(reports)),
		csv: func(w io.Writer) error {
			return writeScoreCSV(w, reports, fmtFloat)
		},
		text: func(w io.Writer) error {
			return writeScoreTable(w, reports, cfg, fmtFloat, duration)
		},
	})
}

// writeScoreTable generates and writes the human-readable table.
func writeScoreTable(w io.Writer, reports []schema.FileReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Path", "Language", "Score", "Label", "LOC"}
	if cfg.Explain {
		headers = append(headers, "Weakest")
	}
	table.Header(headers)
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := pathColumnWidth(cfg)
	var data [][]string
	var unscored, failed int
	for i, r := range schema.RankFiles(reports) {
		label := contract.GetColorLabel(r.Result)
		score := fmtFloat(r.Result.Score)
		switch {
		case r.Err != "":
			failed++
			label = contract.PoorColor.Sprint("Error")
			score = "-"
		case !r.Result.Scored:
			unscored++
			score = "-"
		}

		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, pathWidth),
			r.Language.DisplayName(),
			score,
			label,
			strconv.Itoa(r.CodeLOC),
		}
		if cfg.Explain {
			if r.Err != "" {
				row = append(row, r.Err)
			} else {
				row = append(row, formatWeakestMetrics(r.Result, fmtFloat))
			}
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Scored %d files (%d unscored, %d failed)\n", len(reports)-unscored-failed, unscored, failed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers.\n", duration.Round(time.Millisecond), cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeScoreCSV writes one row per file with every metric as its own column.
func writeScoreCSV(w io.Writer, reports []schema.FileReport, fmtFloat func(float64) string) error {
	header := []string{"rank", "path", "language", "score", "scored", "label", "code_loc"}
	for _, key := range schema.AllMetricKeys {
		header = append(header, string(key))
	}
	header = append(header, "error")

	return writeCSV(w, header, func(cw *csv.Writer) error {
		for _, r := range schema.RankFiles(reports) {
			rec := []string{
				strconv.Itoa(r.Rank),
				r.Path,
				string(r.Language),
				fmtFloat(r.Result.Score),
				strconv.FormatBool(r.Result.Scored),
				r.Label,
				strconv.Itoa(r.CodeLOC),
			}
			for _, key := range schema.AllMetricKeys {
				if v, ok := r.Metrics.Get(key); ok {
					rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
				} else {
					rec = append(rec, "")
				}
			}
			rec = append(rec, r.Err)
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatWeakestMetrics lists the lowest normalized metric scores, worst first.
func formatWeakestMetrics(result schema.ScoreResult, fmtFloat func(float64) string) string {
	if len(result.Details) == 0 {
		return "no metrics"
	}
	keys := make([]schema.MetricKey, 0, len(result.Details))
	for k := range result.Details {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := result.Details[keys[i]].Score, result.Details[keys[j]].Score
		if si != sj {
			return si < sj
		}
		return keys[i] < keys[j]
	})

	parts := make([]string, 0, explainTopN)
	for _, k := range keys[:min(explainTopN, len(keys))] {
		parts = append(parts, fmt.Sprintf("%s %s", k, fmtFloat(result.Details[k].Score)))
	}
	return strings.Join(parts, ", ")
}
