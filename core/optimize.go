package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/internal/llm"
	"github.com/greenbyte/sustain/schema"
)

// ErrBlankAnswer is returned when the model answer is empty after sanitizing.
var ErrBlankAnswer = errors.New("model returned no code")

// Optimizer scores a file, asks the model for a leaner rewrite when the gate
// allows it, re-scores the answer and writes it back.
type Optimizer struct {
	cfg       *contract.Config
	collector *Collector
	scorer    *Scorer
	gate      GatePolicy
	git       contract.GitClient
	client    llm.Client
	store     contract.HistoryStore
}

// OptimizerOption configures an Optimizer.
type OptimizerOption func(*Optimizer)

// WithGitClient reads staged and HEAD content through client.
func WithGitClient(client contract.GitClient) OptimizerOption {
	return func(o *Optimizer) { o.git = client }
}

// WithLLMClient uses client instead of building one from the config.
func WithLLMClient(client llm.Client) OptimizerOption {
	return func(o *Optimizer) { o.client = client }
}

// WithHistoryStore records both file versions in store.
func WithHistoryStore(store contract.HistoryStore) OptimizerOption {
	return func(o *Optimizer) { o.store = store }
}

// NewOptimizer returns an Optimizer for the validated config.
func NewOptimizer(cfg *contract.Config, collector *Collector, scorer *Scorer, opts ...OptimizerOption) *Optimizer {
	o := &Optimizer{
		cfg:       cfg,
		collector: collector,
		scorer:    scorer,
		gate:      NewGatePolicy(cfg),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize runs the full pipeline on path. Errors mean the file could not be
// read, scored or sent to the model; a gate skip or a rejected answer is a
// normal result.
func (o *Optimizer) Optimize(ctx context.Context, path string) (schema.OptimizeResult, error) {
	start := time.Now()
	result := schema.OptimizeResult{Path: path, DryRun: o.cfg.DryRun}

	ctx, runID := beginRun(ctx, o.store, "optimize", map[string]any{
		"path":             path,
		"provider":         string(o.cfg.LLM.Provider),
		"dry_run":          o.cfg.DryRun,
		"allow_regression": o.cfg.AllowRegression,
	})
	recorded := 0
	defer func() { endRun(o.store, runID, recorded) }()

	content, head, err := loadSource(ctx, o.git, path, o.cfg.FromDisk)
	if err != nil {
		return result, err
	}

	beforeBuilder := o.scoreContent(ctx, path, content, o.cfg.Language)
	before := beforeBuilder.Build()
	if before.Err != "" {
		return result, fmt.Errorf("failed to score %s: %s", path, before.Err)
	}
	result.Language = before.Language
	result.Before = before.Result

	result.Gate = o.gate.ShouldSkip(
		before.Result.Score,
		before.CodeLOC,
		o.cfg.SkipLLM,
		before.Language != schema.Unknown,
		beforeBuilder.IsBlank(),
	)
	if runID > 0 {
		recordFileScore(o.store, runID, before, schema.VersionOriginal, result.Gate.Reason)
		recorded++
	}
	if result.Gate.Skip {
		result.DurationMs = time.Since(start).Milliseconds()
		return result, nil
	}

	client, err := o.llmClient()
	if err != nil {
		return result, err
	}
	result.Provider = client.Provider()
	result.Model = client.Model()

	optimized, err := o.complete(ctx, client, before.Language, content, head)
	if err != nil {
		return result, err
	}
	result.Optimized = optimized

	after := o.scoreContent(ctx, path, []byte(optimized), before.Language).Build()
	if after.Err != "" {
		return result, fmt.Errorf("failed to score optimized %s: %s", path, after.Err)
	}
	result.After = &after.Result
	if runID > 0 {
		recordFileScore(o.store, runID, after, schema.VersionOptimized, schema.NotSkipped)
		recorded++
	}

	if isRegression(before.Result, after.Result) && !o.cfg.AllowRegression {
		result.Rejected = true
		result.DurationMs = time.Since(start).Milliseconds()
		return result, nil
	}

	if !o.cfg.DryRun {
		if err := writeBack(path, []byte(optimized)); err != nil {
			return result, err
		}
		result.Written = true
	}
	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

func (o *Optimizer) scoreContent(ctx context.Context, path string, content []byte, lang schema.Language) *FileReportBuilder {
	return NewFileReportBuilder(ctx, o.collector, o.scorer, path).
		WithContent(content).
		WithLanguage(lang).
		DetectLanguage().
		CollectMetrics().
		DeriveMetrics().
		CalculateScore()
}

func (o *Optimizer) llmClient() (llm.Client, error) {
	if o.client != nil {
		return o.client, nil
	}
	client, err := llm.NewClientFromConfig(o.cfg.LLM)
	if err != nil {
		return nil, err
	}
	o.client = client
	return client, nil
}

func (o *Optimizer) complete(ctx context.Context, client llm.Client, lang schema.Language, content, head []byte) (string, error) {
	timeout := o.cfg.LLM.Timeout
	if timeout <= 0 {
		timeout = contract.DefaultLLMTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	contract.LogInfo("Sending %d bytes to %s (%s)", len(content), client.Provider(), client.Model())
	answer, err := client.Complete(cctx, llm.Request{
		System:      llm.SystemPrompt(lang),
		User:        llm.UserPrompt(lang, content, head),
		Temperature: o.cfg.LLM.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", client.Provider(), err)
	}

	optimized := llm.StripCodeFences(answer, content)
	if strings.TrimSpace(optimized) == "" {
		return "", ErrBlankAnswer
	}
	return optimized, nil
}

// isRegression reports whether after scored strictly lower than before.
func isRegression(before, after schema.ScoreResult) bool {
	if !before.Scored || !after.Scored {
		return false
	}
	return after.Score < before.Score
}

func writeBack(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
