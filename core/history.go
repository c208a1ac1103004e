package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
)

// beginRun opens a history run and stores its ID in the returned context.
// Tracking failures are logged and never stop the command.
func beginRun(ctx context.Context, store contract.HistoryStore, command string, params map[string]any) (context.Context, int64) {
	if store == nil {
		return ctx, 0
	}
	runID, err := store.BeginRun(command, time.Now(), params)
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return ctx, 0
	}
	if runID > 0 {
		ctx = withRunID(ctx, runID)
	}
	return ctx, runID
}

// endRun finalizes a history run.
func endRun(store contract.HistoryStore, runID int64, totalFiles int) {
	if store == nil || runID <= 0 {
		return
	}
	if err := store.EndRun(runID, time.Now(), totalFiles); err != nil {
		contract.LogWarn("Failed to finalize history run", err)
	}
}

// recordFileScore stores one scored file version.
func recordFileScore(store contract.HistoryStore, runID int64, report schema.FileReport, version string, reason schema.SkipReason) {
	metrics, err := json.Marshal(report.Metrics)
	if err != nil {
		metrics = []byte("{}")
	}
	record := schema.FileScoreRecord{
		RunID:        runID,
		FilePath:     report.Path,
		Version:      version,
		Language:     string(report.Language),
		AnalysisTime: time.Now(),
		Score:        report.Result.Score,
		Scored:       report.Result.Scored,
		CodeLOC:      int32(report.CodeLOC),
		Metrics:      string(metrics),
		SkipReason:   string(reason),
	}
	if err := store.RecordFileScore(runID, record); err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to record score for %s", report.Path), err)
	}
}

// RecordScans stores reports as one finished run of command.
func RecordScans(ctx context.Context, store contract.HistoryStore, command string, params map[string]any, reports []schema.FileReport) {
	_, runID := beginRun(ctx, store, command, params)
	if runID <= 0 {
		return
	}
	for _, report := range reports {
		recordFileScore(store, runID, report, schema.VersionScan, schema.NotSkipped)
	}
	endRun(store, runID, len(reports))
}
