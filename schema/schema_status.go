package schema

import "time"

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        int64            `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TotalFilesScored int              `json:"total_files_scored"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
