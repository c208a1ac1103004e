package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/internal/parquet"
)

// ErrHistoryDisabled is returned when a history command runs without a store.
var ErrHistoryDisabled = errors.New("history tracking is disabled")

// ExecuteHistoryExport writes every run and file score to
// <outputFile>.runs.parquet and <outputFile>.file_scores.parquet.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return ErrHistoryDisabled
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(out, "Total file records: %d\n", status.TableSizes[fileScoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := store.GetAllFileScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve file scores: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	parquetScores := parquet.ConvertFileScoreRecords(scores)
	scoresFile := outputFile + ".file_scores.parquet"
	if err := parquet.WriteFileScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write file scores: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d file score records to: %s\n", len(parquetScores), scoresFile)

	return nil
}
