package schema

import "time"

// RunRecord represents a row from the sustain_runs table.
type RunRecord struct {
	RunID         int64
	Command       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalFiles    int32
	ConfigParams  *string
}

// FileScoreRecord represents a row from the sustain_file_scores table.
type FileScoreRecord struct {
	RunID        int64
	FilePath     string
	Version      string // VersionScan, VersionOriginal or VersionOptimized
	Language     string
	AnalysisTime time.Time
	Score        float64
	Scored       bool
	CodeLOC      int32
	Metrics      string // JSON-encoded MetricSet
	SkipReason   string
}

// File versions recorded in history.
const (
	VersionScan      = "scan"
	VersionOriginal  = "original"
	VersionOptimized = "optimized"
)
