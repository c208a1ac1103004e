// Package core has core logic for metric collection, scoring, gating and optimization.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/internal/outwriter"
	"github.com/greenbyte/sustain/schema"
)

// ErrWouldOptimize is returned by ExecuteGate in strict mode when the gate
// lets the file through to the optimizer.
var ErrWouldOptimize = errors.New("file would be sent to the optimizer")

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// ExecuteScore scores every file under cfg.Paths and prints the ranked results.
// It serves as the main entry point for the 'score' command.
func ExecuteScore(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	store := historyStore(mgr)
	collector := NewCollectorFromConfig(cfg, contract.NewLocalToolRunner())
	scorer := NewScorer(cfg.Rubric)

	ctx, runID := beginRun(ctx, store, "score", map[string]any{
		"paths":    cfg.Paths,
		"language": string(cfg.Language),
		"workers":  cfg.Workers,
		"excludes": cfg.Excludes,
	})
	reports, err := ScoreFiles(ctx, cfg, collector, scorer, store)
	endRun(store, runID, len(reports))
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteScores(reports, cfg, time.Since(start))
}

// ExecuteGate scores the single file in cfg.Paths and prints the gate decision.
// In strict mode it returns ErrWouldOptimize after printing when the step would run.
func ExecuteGate(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	path, err := singlePath(cfg)
	if err != nil {
		return err
	}
	collector := NewCollectorFromConfig(cfg, contract.NewLocalToolRunner())
	scorer := NewScorer(cfg.Rubric)

	report, err := GateFile(ctx, cfg, collector, scorer, contract.NewLocalGitClient(), path)
	if err != nil {
		return err
	}
	if err := outwriter.NewOutWriter().WriteGate(report, cfg); err != nil {
		return err
	}
	if cfg.Strict && !report.Decision.Skip {
		return ErrWouldOptimize
	}
	return nil
}

// GateFile scores path and applies the configured gate policy to it. The
// content is loaded the same way the optimizer loads it, so the decision
// matches what optimize would do with the same config.
func GateFile(ctx context.Context, cfg *contract.Config, collector *Collector, scorer *Scorer, git contract.GitClient, path string) (schema.GateReport, error) {
	content, _, err := loadSource(ctx, git, path, cfg.FromDisk)
	if err != nil {
		return schema.GateReport{}, fmt.Errorf("failed to score %s: %w", path, err)
	}

	builder := NewFileReportBuilder(ctx, collector, scorer, path).
		WithContent(content).
		WithLanguage(cfg.Language).
		ReadContent().
		DetectLanguage().
		CollectMetrics().
		DeriveMetrics().
		CalculateScore()
	report := builder.Build()
	if report.Err != "" {
		return schema.GateReport{}, fmt.Errorf("failed to score %s: %s", path, report.Err)
	}

	policy := NewGatePolicy(cfg)
	return schema.GateReport{
		Path:           path,
		Language:       report.Language,
		Score:          report.Result.Score,
		Scored:         report.Result.Scored,
		CodeLOC:        report.CodeLOC,
		ScoreThreshold: policy.ScoreThreshold,
		MaxCodeLines:   policy.MaxCodeLines,
		Decision: policy.ShouldSkip(
			report.Result.Score,
			report.CodeLOC,
			cfg.SkipLLM,
			report.Language != schema.Unknown,
			builder.IsBlank(),
		),
	}, nil
}

// ExecuteOptimize runs the optimizer on the single file in cfg.Paths and prints the outcome.
func ExecuteOptimize(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	path, err := singlePath(cfg)
	if err != nil {
		return err
	}
	collector := NewCollectorFromConfig(cfg, contract.NewLocalToolRunner())
	scorer := NewScorer(cfg.Rubric)

	opts := []OptimizerOption{WithGitClient(contract.NewLocalGitClient())}
	if store := historyStore(mgr); store != nil {
		opts = append(opts, WithHistoryStore(store))
	}
	result, err := NewOptimizer(cfg, collector, scorer, opts...).Optimize(ctx, path)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteOptimize(result, cfg)
}

// ExecuteRubric prints the effective rubric, limited to cfg.Language when one is forced.
func ExecuteRubric(_ context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	langs := cfg.Rubric.Languages()
	if cfg.Language != schema.Unknown {
		if !cfg.Rubric.Has(cfg.Language) {
			return fmt.Errorf("no rubric defined for %s", cfg.Language.DisplayName())
		}
		langs = []schema.Language{cfg.Language}
	}
	return outwriter.NewOutWriter().WriteRubric(cfg.Rubric, langs, cfg)
}

func singlePath(cfg *contract.Config) (string, error) {
	if len(cfg.Paths) != 1 {
		return "", fmt.Errorf("expected exactly one file (received %d)", len(cfg.Paths))
	}
	return cfg.Paths[0], nil
}

func historyStore(mgr contract.HistoryManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}
