package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/greenbyte/sustain/core/deps"
	"github.com/greenbyte/sustain/core/parse"
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
)

// defaultCacheSize bounds the number of memoized metric sets.
const defaultCacheSize = 512

// Metrics each tool is responsible for, used to report what went missing.
var (
	lizardMetrics = []schema.MetricKey{
		schema.CyclomaticComplexityMax, schema.CyclomaticComplexityAvg,
		schema.FunctionNLOCMax, schema.NLOCTotal,
	}
	clocMetrics = []schema.MetricKey{
		schema.LOCBlank, schema.LOCComment, schema.LOCCode, schema.LOCTotal,
	}
	radonMetrics = []schema.MetricKey{schema.LLOC}
)

// WarnFunc receives non-fatal collection problems.
type WarnFunc func(msg string, err error)

// Collector runs the external analyzers on a file and merges their metrics.
// It is safe for concurrent use.
type Collector struct {
	runner  contract.ToolRunner
	tools   contract.ToolNames
	timeout time.Duration
	warn    WarnFunc
	cache   *lru.Cache[string, schema.MetricSet]
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithTools overrides the analyzer binary names. Empty names keep the defaults.
func WithTools(tools contract.ToolNames) CollectorOption {
	return func(c *Collector) {
		if tools.Lizard != "" {
			c.tools.Lizard = tools.Lizard
		}
		if tools.Cloc != "" {
			c.tools.Cloc = tools.Cloc
		}
		if tools.Radon != "" {
			c.tools.Radon = tools.Radon
		}
	}
}

// WithToolTimeout bounds each analyzer invocation.
func WithToolTimeout(d time.Duration) CollectorOption {
	return func(c *Collector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithWarn routes collection warnings to fn.
func WithWarn(fn WarnFunc) CollectorOption {
	return func(c *Collector) {
		if fn != nil {
			c.warn = fn
		}
	}
}

// WithCacheSize sets the memoization size. Zero disables memoization.
func WithCacheSize(n int) CollectorOption {
	return func(c *Collector) {
		if n <= 0 {
			c.cache = nil
			return
		}
		c.cache, _ = lru.New[string, schema.MetricSet](n)
	}
}

// NewCollector returns a Collector that invokes tools through runner.
func NewCollector(runner contract.ToolRunner, opts ...CollectorOption) *Collector {
	c := &Collector{
		runner:  runner,
		tools:   contract.DefaultToolNames(),
		timeout: contract.DefaultToolTimeout,
		warn:    contract.LogWarn,
	}
	c.cache, _ = lru.New[string, schema.MetricSet](defaultCacheSize)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCollectorFromConfig builds a Collector from the validated config.
func NewCollectorFromConfig(cfg *contract.Config, runner contract.ToolRunner) *Collector {
	return NewCollector(runner, WithTools(cfg.Tools), WithToolTimeout(cfg.ToolTimeout))
}

// Collect reads path and collects its metrics. Only a failure to read the file
// is returned as an error; tool problems leave metrics absent.
func (c *Collector) Collect(ctx context.Context, path string, lang schema.Language) (schema.MetricSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.CollectContent(ctx, content, filepath.Base(path), lang)
}

// CollectContent collects metrics for content as if it were a file called name.
// The content is written to a temporary directory that is removed before returning.
func (c *Collector) CollectContent(ctx context.Context, content []byte, name string, lang schema.Language) (schema.MetricSet, error) {
	key := cacheKey(content, lang)
	if c.cache != nil {
		if ms, ok := c.cache.Get(key); ok {
			return ms.Clone(), nil
		}
	}

	dir, err := os.MkdirTemp("", "sustain-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	target := filepath.Join(dir, tempFileName(name, lang))
	if err := os.WriteFile(target, content, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	ms := schema.NewMetricSet()
	c.collectLizard(ctx, ms, target, lang)
	c.collectCloc(ctx, ms, target)
	if lang == schema.Python {
		c.collectRadon(ctx, ms, target)
	}
	if family := lang.Family(); family != schema.FamilyNone {
		ms.Set(schema.DependencyCount, float64(deps.CountFile(target, family)))
	}

	if err := ctx.Err(); err != nil {
		return ms, err
	}
	if c.cache != nil {
		c.cache.Add(key, ms.Clone())
	}
	return ms, nil
}

func (c *Collector) collectLizard(ctx context.Context, ms schema.MetricSet, target string, lang schema.Language) {
	var args []string
	if name := lang.LizardName(); name != "" {
		args = append(args, "-l", name)
	}
	args = append(args, target)

	out, ok := c.runTool(ctx, c.tools.Lizard, lizardMetrics, args...)
	if !ok {
		return
	}
	fragment, err := parse.ParseLizard(string(out))
	if err != nil {
		contract.LogInfo("lizard: %v", err)
	}
	ms.Merge(fragment)
}

func (c *Collector) collectCloc(ctx context.Context, ms schema.MetricSet, target string) {
	out, ok := c.runTool(ctx, c.tools.Cloc, clocMetrics, "--json", "--quiet", target)
	if !ok {
		return
	}
	fragment, err := parse.ParseCloc(out)
	if err != nil {
		c.warn(fmt.Sprintf("cloc output unusable, missing %s", schema.JoinMetricKeys(clocMetrics)), err)
	}
	ms.Merge(fragment)
}

func (c *Collector) collectRadon(ctx context.Context, ms schema.MetricSet, target string) {
	out, ok := c.runTool(ctx, c.tools.Radon, radonMetrics, "raw", "-s", target)
	if !ok {
		return
	}
	fragment, err := parse.ParseRadonRaw(string(out))
	if err != nil {
		c.warn(fmt.Sprintf("radon output unusable, missing %s", schema.JoinMetricKeys(radonMetrics)), err)
	}
	ms.Merge(fragment)
}

// runTool looks up and runs tool with the configured timeout. It reports false
// when there is no output worth parsing; a non-zero exit still yields output.
func (c *Collector) runTool(ctx context.Context, tool string, provides []schema.MetricKey, args ...string) ([]byte, bool) {
	missing := schema.JoinMetricKeys(provides)

	if _, err := c.runner.LookPath(tool); err != nil {
		c.warn(fmt.Sprintf("%s not found, missing %s", tool, missing), contract.ErrToolNotFound)
		return nil, false
	}

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Run(tctx, tool, args...)
	switch {
	case err == nil:
		return out, true
	case errors.Is(err, contract.ErrToolExit):
		contract.LogInfo("%s: %v", tool, err)
		return out, len(out) > 0
	default:
		c.warn(fmt.Sprintf("%s failed, missing %s", tool, missing), err)
		return nil, false
	}
}

func cacheKey(content []byte, lang schema.Language) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]) + ":" + string(lang)
}

// tempFileName keeps the base name so the analyzers detect the language, and
// adds the canonical extension when there is none.
func tempFileName(name string, lang schema.Language) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "source"
	}
	if filepath.Ext(base) == "" {
		base += LanguageExtension(lang)
	}
	return base
}
