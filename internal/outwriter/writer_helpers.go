package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
)

// formatWriters holds the writer of every output format for one result kind.
type formatWriters struct {
	json func(io.Writer) error
	csv  func(io.Writer) error
	text func(io.Writer) error
}

// writeFormatted picks the writer for cfg.Output and runs it on cfg.OutputFile,
// or stdout when no file is set. Writing a file leaves a note on stderr.
func writeFormatted(cfg *contract.Config, kind string, fw formatWriters) error {
	write, format := fw.text, "text"
	switch cfg.Output {
	case schema.JSONOut:
		write, format = fw.json, "JSON"
	case schema.CSVOut:
		write, format = fw.csv, "CSV"
	}

	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to open %s output: %w", kind, err)
	}
	if file == os.Stdout {
		return write(file)
	}
	defer func() { _ = file.Close() }()

	if err := write(file); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "Wrote %s %s to %s\n", kind, format, cfg.OutputFile)
	return nil
}

// jsonWriter encodes v with two-space indentation.
func jsonWriter(v any) func(io.Writer) error {
	return func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}
}

// writeCSV writes header followed by the records from writeRows.
func writeCSV(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(cw)
}

// scoreFormatter formats scores, thresholds and derived metrics with a fixed
// number of decimals.
func scoreFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}
