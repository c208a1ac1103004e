package contract

import (
	"testing"
	"time"

	"github.com/greenbyte/sustain/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

// validInput returns the raw input produced by the default flag values.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		PathArgs:       []string{"."},
		Output:         "text",
		Precision:      1,
		Workers:        4,
		Color:          "yes",
		HistoryBackend: "sqlite",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, []string{"."}, cfg.Paths)
	assert.Equal(t, schema.Unknown, cfg.Language)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, DefaultToolTimeout, cfg.ToolTimeout)
	assert.Equal(t, ToolNames{Lizard: "lizard", Cloc: "cloc", Radon: "radon"}, cfg.Tools)
	assert.Equal(t, DefaultScoreThreshold, cfg.ScoreThreshold)
	assert.Equal(t, DefaultMaxCodeLines, cfg.MaxCodeLines)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.Equal(t, schema.GroqProvider, cfg.LLM.Provider)
	assert.Equal(t, DefaultTemperature, cfg.LLM.Temperature)
	assert.Equal(t, DefaultAPIKeyFile, cfg.LLM.APIKeyFile)
	assert.Equal(t, DefaultLLMTimeout, cfg.LLM.Timeout)
	assert.Equal(t, DefaultExcludes, cfg.Excludes)
	require.NotNil(t, cfg.Rubric)
	assert.True(t, cfg.Rubric.Has(schema.Python))
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"invalid language", func(in *ConfigRawInput) { in.Language = "cobol" }, true},
		{"zero workers", func(in *ConfigRawInput) { in.Workers = 0 }, true},
		{"precision too high", func(in *ConfigRawInput) { in.Precision = 3 }, true},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "xml" }, true},
		{"invalid color", func(in *ConfigRawInput) { in.Color = "maybe" }, true},
		{"invalid backend", func(in *ConfigRawInput) { in.HistoryBackend = "redis" }, true},
		{"mysql without connection", func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, true},
		{"invalid tool timeout", func(in *ConfigRawInput) { in.ToolTimeout = "soon" }, true},
		{"negative tool timeout", func(in *ConfigRawInput) { in.ToolTimeout = "-5s" }, true},
		{"gate threshold out of range", func(in *ConfigRawInput) { in.Gate.ScoreThreshold = float64Ptr(120) }, true},
		{"gate max lines zero", func(in *ConfigRawInput) { in.Gate.MaxCodeLines = intPtr(0) }, true},
		{"invalid provider", func(in *ConfigRawInput) { in.LLM.Provider = "openai" }, true},
		{"temperature out of range", func(in *ConfigRawInput) { in.LLM.Temperature = float64Ptr(3) }, true},
		{"unknown rubric metric", func(in *ConfigRawInput) {
			in.Rubric = map[string]map[string]ThresholdRawInput{"python": {"cyclomatic": {Weight: float64Ptr(1)}}}
		}, true},
		{"negative rubric weight", func(in *ConfigRawInput) {
			in.Rubric = map[string]map[string]ThresholdRawInput{"python": {"loc_code": {Weight: float64Ptr(-1)}}}
		}, true},
		{"new rubric entry without bounds", func(in *ConfigRawInput) {
			in.Rubric = map[string]map[string]ThresholdRawInput{"shell": {"loc_code": {Weight: float64Ptr(1)}}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateOverrides(t *testing.T) {
	input := validInput()
	input.Language = "py"
	input.Exclude = "generated/, *.pb.go ,"
	input.ToolTimeout = "90"
	input.Tools.Lizard = "/opt/bin/lizard"
	input.Gate.ScoreThreshold = float64Ptr(95)
	input.Gate.MaxCodeLines = intPtr(400)
	input.HistoryBackend = "postgresql"
	input.HistoryDBConnect = "host=localhost dbname=sustain"
	input.LLM = LLMRawInput{Provider: "Gemini", Model: "gemini-2.5-flash", Timeout: "2m", Temperature: float64Ptr(0.3)}
	input.Rubric = map[string]map[string]ThresholdRawInput{
		"python": {"loc_code": {Weight: float64Ptr(20)}},
		"shell":  {"loc_code": {Good: float64Ptr(20), Bad: float64Ptr(300), Weight: float64Ptr(1)}},
	}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.Python, cfg.Language)
	assert.Contains(t, cfg.Excludes, "generated/")
	assert.Contains(t, cfg.Excludes, "*.pb.go")
	assert.Len(t, cfg.Excludes, len(DefaultExcludes)+2)
	assert.Equal(t, 90*time.Second, cfg.ToolTimeout)
	assert.Equal(t, "/opt/bin/lizard", cfg.Tools.Lizard)
	assert.Equal(t, "cloc", cfg.Tools.Cloc)
	assert.Equal(t, 95.0, cfg.ScoreThreshold)
	assert.Equal(t, 400, cfg.MaxCodeLines)
	assert.Equal(t, schema.PostgreSQLBackend, cfg.HistoryBackend)
	assert.Equal(t, schema.GeminiProvider, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 2*time.Minute, cfg.LLM.Timeout)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)

	py, ok := cfg.Rubric.For(schema.Python)
	require.True(t, ok)
	assert.Equal(t, schema.Threshold{Good: 50, Bad: 500, Weight: 20}, py[schema.LOCCode], "unset fields keep defaults")

	sh, ok := cfg.Rubric.For(schema.Shell)
	require.True(t, ok)
	assert.Equal(t, schema.Threshold{Good: 20, Bad: 300, Weight: 1}, sh[schema.LOCCode])
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "u:p@tcp(localhost:3306)/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "u:p@localhost/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "u:p@tcp(localhost:3306)"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=h dbname=d"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "dbname=d"))
}

func TestParseDurationOrSeconds(t *testing.T) {
	d, err := ParseDurationOrSeconds("", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	d, err = ParseDurationOrSeconds("1.5", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = ParseDurationOrSeconds("45s", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	_, err = ParseDurationOrSeconds("0", time.Minute)
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Paths: []string{"a.py"}, Excludes: []string{"vendor/"}, Rubric: schema.DefaultRubric()}
	clone := cfg.Clone()
	clone.Paths[0] = "b.py"
	clone.Excludes[0] = "dist/"

	assert.Equal(t, "a.py", cfg.Paths[0])
	assert.Equal(t, "vendor/", cfg.Excludes[0])
	assert.Same(t, cfg.Rubric, clone.Rubric)
}

func TestProcessProfilingConfig(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		expected ProfileConfig
		wantErr  bool
	}{
		{"disabled", "", ProfileConfig{}, false},
		{"enabled", "sustain", ProfileConfig{Enabled: true, Prefix: "sustain"}, false},
		{"trimmed", "  out/run ", ProfileConfig{Enabled: true, Prefix: "out/run"}, false},
		{"directory", "profiles/", ProfileConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var profile ProfileConfig
			err := ProcessProfilingConfig(&profile, tt.prefix)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, profile)
		})
	}
}
