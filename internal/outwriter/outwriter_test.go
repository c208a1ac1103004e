package outwriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, mode schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:     mode,
		OutputFile: filepath.Join(t.TempDir(), "out"),
		Precision:  1,
		Workers:    2,
		Width:      120,
	}
}

func sampleReports() []schema.FileReport {
	return []schema.FileReport{
		{
			Path:     "src/slow.py",
			Language: schema.Python,
			Metrics:  schema.MetricSet{schema.CyclomaticComplexityMax: 12, schema.LOCCode: 40},
			Result: schema.ScoreResult{
				Language: schema.Python,
				Score:    42.5,
				Scored:   true,
				Details: map[schema.MetricKey]schema.MetricScore{
					schema.CyclomaticComplexityMax: {Value: 12, Score: 23.1, Weight: 30},
					schema.LOCCode:                 {Value: 40, Score: 100, Weight: 5},
				},
			},
			CodeLOC: 40,
		},
		{
			Path:     "src/notes.txt",
			Language: schema.Unknown,
			Metrics:  schema.MetricSet{},
			Result:   schema.ScoreResult{Details: map[schema.MetricKey]schema.MetricScore{}},
		},
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(data)
}

func TestWriteScoreResultsJSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut)
	require.NoError(t, WriteScoreResults(sampleReports(), cfg, time.Second))

	var ranked []schema.RankedFileReport
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "Poor", ranked[0].Label)
	assert.Equal(t, schema.UnscoredLabel, ranked[1].Label)
	assert.InDelta(t, 12, ranked[0].Metrics[schema.CyclomaticComplexityMax], 1e-9)
}

func TestWriteScoreResultsCSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut)
	require.NoError(t, WriteScoreResults(sampleReports(), cfg, time.Second))

	lines := strings.Split(strings.TrimSpace(readOutput(t, cfg)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "rank,path,language,score,scored,label,code_loc,cyclomatic_complexity_max"))
	assert.True(t, strings.HasSuffix(lines[0], ",error"))
	assert.True(t, strings.HasPrefix(lines[1], "1,src/slow.py,python,42.5,true,Poor,40,12,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,src/notes.txt,,0.0,false,Unscored,0,"))
}

func TestWriteScoreResultsTable(t *testing.T) {
	cfg := testConfig(t, schema.TextOut)
	cfg.Explain = true
	require.NoError(t, WriteScoreResults(sampleReports(), cfg, 1500*time.Millisecond))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "src/slow.py")
	assert.Contains(t, out, "cyclomatic_complexity_max 23.1")
	assert.Contains(t, out, "Scored 1 files (1 unscored, 0 failed)")
	assert.Contains(t, out, "with 2 workers")
}

func TestFormatWeakestMetrics(t *testing.T) {
	fmtFloat := scoreFormatter(1)
	assert.Equal(t, "no metrics", formatWeakestMetrics(schema.ScoreResult{}, fmtFloat))

	result := schema.ScoreResult{Details: map[schema.MetricKey]schema.MetricScore{
		schema.LOCCode:                 {Score: 90},
		schema.CyclomaticComplexityAvg: {Score: 10},
		schema.DependencyCount:         {Score: 50},
	}}
	assert.Equal(t, "cyclomatic_complexity_avg 10.0, dependency_count 50.0", formatWeakestMetrics(result, fmtFloat))
}

func TestWriteGateReport(t *testing.T) {
	report := schema.GateReport{
		Path:           "app.js",
		Language:       schema.JavaScript,
		Score:          99.96,
		Scored:         true,
		CodeLOC:        12,
		ScoreThreshold: 99.9,
		MaxCodeLines:   1000,
		Decision:       schema.GateDecision{Skip: true, Reason: schema.SkipScoreThreshold},
	}

	cfg := testConfig(t, schema.TextOut)
	require.NoError(t, WriteGateReport(report, cfg))
	out := readOutput(t, cfg)
	assert.Contains(t, out, "score threshold met")
	assert.Contains(t, out, "code lines: 12 (limit 1000)")

	cfg = testConfig(t, schema.CSVOut)
	require.NoError(t, WriteGateReport(report, cfg))
	assert.Contains(t, readOutput(t, cfg), "app.js,javascript,100.0,true,12,99.9,1000,true,score threshold met")

	cfg = testConfig(t, schema.JSONOut)
	require.NoError(t, WriteGateReport(report, cfg))
	var decoded schema.GateReport
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, report, decoded)
}

func TestWriteOptimizeResult(t *testing.T) {
	after := schema.ScoreResult{Score: 80, Scored: true}
	result := schema.OptimizeResult{
		Path:      "main.py",
		Language:  schema.Python,
		Before:    schema.ScoreResult{Score: 60, Scored: true},
		After:     &after,
		Written:   true,
		Optimized: "print('hi')\n",
		Provider:  schema.GroqProvider,
		Model:     "llama-3.3-70b-versatile",
	}

	cfg := testConfig(t, schema.TextOut)
	require.NoError(t, WriteOptimizeResult(result, cfg))
	out := readOutput(t, cfg)
	assert.Contains(t, out, "before: 60.0 (Fair)")
	assert.Contains(t, out, "after: 80.0 (Good)")
	assert.Contains(t, out, "written")

	cfg = testConfig(t, schema.JSONOut)
	require.NoError(t, WriteOptimizeResult(result, cfg))
	assert.NotContains(t, readOutput(t, cfg), "print('hi')")

	skipped := schema.OptimizeResult{
		Path:   "main.py",
		Before: schema.ScoreResult{Score: 100, Scored: true},
		Gate:   schema.GateDecision{Skip: true, Reason: schema.SkipScoreThreshold},
	}
	cfg = testConfig(t, schema.CSVOut)
	require.NoError(t, WriteOptimizeResult(skipped, cfg))
	assert.Contains(t, readOutput(t, cfg), "main.py,,100.0,,true,score threshold met,false,false,false,,,0")
}

func TestWriteRubricTable(t *testing.T) {
	rubric := schema.DefaultRubric()

	cfg := testConfig(t, schema.JSONOut)
	require.NoError(t, WriteRubricTable(rubric, []schema.Language{schema.Python, schema.Shell}, cfg))

	var rows []rubricRow
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &rows))
	lr, _ := rubric.For(schema.Python)
	require.Len(t, rows, len(lr))
	assert.Equal(t, schema.CyclomaticComplexityMax, rows[0].Metric)
	assert.Equal(t, "lower is better", rows[0].Direction)

	cfg = testConfig(t, schema.TextOut)
	require.NoError(t, WriteRubricTable(rubric, []schema.Language{schema.Go}, cfg))
	assert.Contains(t, readOutput(t, cfg), "function_nloc_max")
}
