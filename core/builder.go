package core

import (
	"context"
	"strings"

	"github.com/greenbyte/sustain/schema"
)

// FileReportBuilder builds the report of one file version step by step.
// A failed step records the error and turns later steps into no-ops.
type FileReportBuilder struct {
	ctx       context.Context
	collector *Collector
	scorer    *Scorer
	forced    schema.Language
	result    *schema.FileReport

	content  []byte
	supplied bool
	name     string
	failed   bool
}

// NewFileReportBuilder is the starting point for building a file report.
func NewFileReportBuilder(ctx context.Context, collector *Collector, scorer *Scorer, path string) *FileReportBuilder {
	return &FileReportBuilder{
		ctx:       ctx,
		collector: collector,
		scorer:    scorer,
		result:    &schema.FileReport{Path: path, Metrics: schema.NewMetricSet()},
		name:      path,
	}
}

// WithContent uses content instead of reading the file from disk.
func (b *FileReportBuilder) WithContent(content []byte) *FileReportBuilder {
	b.content = content
	b.supplied = true
	return b
}

// WithLanguage forces the language. Unknown keeps detection.
func (b *FileReportBuilder) WithLanguage(lang schema.Language) *FileReportBuilder {
	b.forced = lang
	return b
}

// ReadContent loads the file unless content was supplied.
func (b *FileReportBuilder) ReadContent() *FileReportBuilder {
	if b.failed || b.supplied {
		return b
	}
	content, err := readSource(b.result.Path)
	if err != nil {
		b.fail(err)
		return b
	}
	b.content = content
	return b
}

// DetectLanguage resolves the language from the forced value, the extension or a shebang.
func (b *FileReportBuilder) DetectLanguage() *FileReportBuilder {
	if b.failed {
		return b
	}
	b.result.Language = ResolveLanguage(b.forced, b.name, b.content)
	return b
}

// CollectMetrics runs the analyzers on the content.
func (b *FileReportBuilder) CollectMetrics() *FileReportBuilder {
	if b.failed {
		return b
	}
	ms, err := b.collector.CollectContent(b.ctx, b.content, b.name, b.result.Language)
	if ms != nil {
		b.result.Metrics = ms
	}
	if err != nil {
		b.fail(err)
	}
	return b
}

// DeriveMetrics adds the density metric the language rubric asks for.
func (b *FileReportBuilder) DeriveMetrics() *FileReportBuilder {
	if b.failed {
		return b
	}
	if lr, ok := b.scorer.Rubric().For(b.result.Language); ok {
		DeriveMetrics(b.result.Metrics, lr)
	}
	b.result.CodeLOC = CodeLines(b.result.Metrics, b.content)
	return b
}

// CalculateScore reduces the metrics to the aggregate score.
func (b *FileReportBuilder) CalculateScore() *FileReportBuilder {
	if b.failed {
		b.result.Result = schema.ScoreResult{Language: b.result.Language, Details: map[schema.MetricKey]schema.MetricScore{}}
		return b
	}
	b.result.Result = b.scorer.Score(b.result.Metrics, b.result.Language)
	return b
}

// Build finalizes the construction and returns the report.
func (b *FileReportBuilder) Build() schema.FileReport {
	return *b.result
}

// Content returns the analyzed content.
func (b *FileReportBuilder) Content() []byte {
	return b.content
}

// IsBlank reports whether the content is empty or whitespace only.
func (b *FileReportBuilder) IsBlank() bool {
	return strings.TrimSpace(string(b.content)) == ""
}

func (b *FileReportBuilder) fail(err error) {
	b.failed = true
	b.result.Err = err.Error()
}

// CodeLines returns the code line count used by the gate: cloc code lines,
// else the lizard NLOC total, else the non-blank lines of content.
func CodeLines(ms schema.MetricSet, content []byte) int {
	for _, key := range []schema.MetricKey{schema.LOCCode, schema.NLOCTotal} {
		if v, ok := ms.Get(key); ok {
			return int(v)
		}
	}
	n := 0
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
