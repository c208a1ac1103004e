// Package parquet exports sustain history data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/greenbyte/sustain/schema"
	"github.com/parquet-go/parquet-go"
)

// Run is one recorded command invocation.
// This struct maps to the sustain_runs database table.
type Run struct {
	RunID int64 `parquet:"run_id,snappy"`

	// Command is score, gate or optimize
	Command string `parquet:"command,snappy"`

	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalFiles    int32      `parquet:"total_files,snappy"`

	// ConfigParams contains the JSON-encoded command parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FileScore is the score of one file version within a run.
// This struct maps to the sustain_file_scores database table.
type FileScore struct {
	RunID    int64  `parquet:"run_id,snappy"`
	FilePath string `parquet:"file_path,snappy"`

	// Version is scan, original or optimized
	Version      string    `parquet:"version,snappy"`
	Language     string    `parquet:"language,snappy"`
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
	Score        float64   `parquet:"score,snappy"`
	Scored       bool      `parquet:"scored,snappy"`
	CodeLOC      int32     `parquet:"code_loc,snappy"`

	// Metrics is the JSON-encoded metric set
	Metrics    string `parquet:"metrics,snappy"`
	SkipReason string `parquet:"skip_reason,snappy"`
}

// WriteRunsParquet writes runs to a Parquet file at outputPath.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFileScoresParquet writes file scores to a Parquet file at outputPath.
func WriteFileScoresParquet(data []FileScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet infers the schema from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts store records for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			Command:       record.Command,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalFiles:    record.TotalFiles,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertFileScoreRecords converts store records for Parquet export.
func ConvertFileScoreRecords(records []schema.FileScoreRecord) []FileScore {
	result := make([]FileScore, len(records))
	for i, record := range records {
		result[i] = FileScore{
			RunID:        record.RunID,
			FilePath:     record.FilePath,
			Version:      record.Version,
			Language:     record.Language,
			AnalysisTime: record.AnalysisTime,
			Score:        record.Score,
			Scored:       record.Scored,
			CodeLOC:      record.CodeLOC,
			Metrics:      record.Metrics,
			SkipReason:   record.SkipReason,
		}
	}
	return result
}
