package contract

import (
	"fmt"
	"maps"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/greenbyte/sustain/schema"
)

// Default values for configuration.
const (
	DefaultPrecision      = 1
	DefaultToolTimeout    = 60 * time.Second
	DefaultLLMTimeout     = 120 * time.Second
	DefaultScoreThreshold = 99.9
	DefaultMaxCodeLines   = 1000
	DefaultTemperature    = 0.1
	DefaultAPIKeyFile     = "api_key.txt"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DefaultExcludes are always skipped when walking directories.
var DefaultExcludes = []string{
	".git/", ".hg/", ".svn/",
	"node_modules/", "vendor/", "__pycache__/", ".venv/", "venv/",
	"dist/", "build/", "out/", "target/", "bin/",
	"*.min.js",
}

// ToolNames holds the binary names of the external analyzers.
type ToolNames struct {
	Lizard string
	Cloc   string
	Radon  string
}

// DefaultToolNames returns the analyzer binaries looked up on PATH.
func DefaultToolNames() ToolNames {
	return ToolNames{Lizard: "lizard", Cloc: "cloc", Radon: "radon"}
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// LLMConfig holds the settings of the chat-completion backend.
type LLMConfig struct {
	Provider    schema.LLMProvider
	Model       string // empty means provider default
	APIKey      string // Please use env var as this is plaintext
	APIKeyFile  string
	Timeout     time.Duration
	Temperature float64
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Paths      []string
	Language   schema.Language // forced language, Unknown means detect
	Workers    int
	Excludes   []string
	Explain    bool
	Verbose    bool
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	ToolTimeout time.Duration
	Tools       ToolNames

	ScoreThreshold float64
	MaxCodeLines   int

	// Rubric is the default rubric merged with config overrides
	Rubric *schema.Rubric

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LLM LLMConfig

	// Optimizer and gate switches
	DryRun          bool
	FromDisk        bool
	SkipLLM         bool // gate always reports "forced"
	AllowRegression bool
	Strict          bool
}

// ToolsRawInput holds tool binary overrides from the config file.
type ToolsRawInput struct {
	Lizard string `mapstructure:"lizard"`
	Cloc   string `mapstructure:"cloc"`
	Radon  string `mapstructure:"radon"`
}

// GateRawInput holds the gate settings from the config file.
type GateRawInput struct {
	ScoreThreshold *float64 `mapstructure:"score-threshold"`
	MaxCodeLines   *int     `mapstructure:"max-code-lines"`
}

// ThresholdRawInput holds one rubric entry override. Unset fields keep the default.
type ThresholdRawInput struct {
	Good   *float64 `mapstructure:"good"`
	Bad    *float64 `mapstructure:"bad"`
	Weight *float64 `mapstructure:"weight"`
}

// LLMRawInput holds the LLM settings from flags, env and config file.
type LLMRawInput struct {
	Provider    string   `mapstructure:"provider"`
	Model       string   `mapstructure:"model"`
	APIKey      string   `mapstructure:"api-key"`
	APIKeyFile  string   `mapstructure:"api-key-file"`
	Timeout     string   `mapstructure:"timeout"`
	Temperature *float64 `mapstructure:"temperature"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	PathArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Language         string `mapstructure:"language"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Workers          int    `mapstructure:"workers"`
	Exclude          string `mapstructure:"exclude"`
	Verbose          bool   `mapstructure:"verbose"`
	Color            string `mapstructure:"color"`
	Width            int    `mapstructure:"width"`
	ToolTimeout      string `mapstructure:"tool-timeout"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from scoreCmd.Flags() ---
	Explain bool `mapstructure:"explain"`

	// --- Fields from optimizeCmd.Flags() and gateCmd.Flags() ---
	DryRun          bool `mapstructure:"dry-run"`
	FromDisk        bool `mapstructure:"from-disk"`
	SkipLLM         bool `mapstructure:"skip-llm"`
	AllowRegression bool `mapstructure:"allow-regression"`
	Strict          bool `mapstructure:"strict"`

	// --- Nested sections from config file ---
	Tools  ToolsRawInput                           `mapstructure:"tools"`
	Gate   GateRawInput                            `mapstructure:"gate"`
	LLM    LLMRawInput                             `mapstructure:"llm"`
	Rubric map[string]map[string]ThresholdRawInput `mapstructure:"rubric"`
}

// Clone returns a deep copy of the Config struct. The Rubric is immutable and shared.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Paths != nil {
		clone.Paths = make([]string, len(c.Paths))
		copy(clone.Paths, c.Paths)
	}
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processToolSettings(cfg, input); err != nil {
		return err
	}
	if err := processGateSettings(cfg, input); err != nil {
		return err
	}
	if err := processRubricOverrides(cfg, input); err != nil {
		return err
	}
	if err := processLLMSettings(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Paths = input.PathArgs
	cfg.OutputFile = input.OutputFile
	cfg.Explain = input.Explain
	cfg.Verbose = input.Verbose
	cfg.Width = input.Width
	cfg.DryRun = input.DryRun
	cfg.FromDisk = input.FromDisk
	cfg.SkipLLM = input.SkipLLM
	cfg.AllowRegression = input.AllowRegression
	cfg.Strict = input.Strict

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Language Validation ---
	lang, err := schema.ParseLanguage(input.Language)
	if err != nil {
		return fmt.Errorf("invalid --language: %w", err)
	}
	cfg.Language = lang

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 4. Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// --- 5. Excludes Processing ---
	cfg.Excludes = append([]string{}, DefaultExcludes...)
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	return nil
}

// processToolSettings resolves tool binaries and the per-tool timeout.
func processToolSettings(cfg *Config, input *ConfigRawInput) error {
	defaults := DefaultToolNames()
	cfg.Tools = ToolNames{
		Lizard: firstNonEmpty(input.Tools.Lizard, defaults.Lizard),
		Cloc:   firstNonEmpty(input.Tools.Cloc, defaults.Cloc),
		Radon:  firstNonEmpty(input.Tools.Radon, defaults.Radon),
	}

	timeout, err := ParseDurationOrSeconds(input.ToolTimeout, DefaultToolTimeout)
	if err != nil {
		return fmt.Errorf("invalid --tool-timeout: %w", err)
	}
	cfg.ToolTimeout = timeout
	return nil
}

// processGateSettings applies gate defaults and overrides.
func processGateSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.ScoreThreshold = DefaultScoreThreshold
	if input.Gate.ScoreThreshold != nil {
		cfg.ScoreThreshold = *input.Gate.ScoreThreshold
	}
	if cfg.ScoreThreshold < 0.0 || cfg.ScoreThreshold > 100.0 {
		return fmt.Errorf("gate score threshold must be between 0.0 and 100.0 (received %.2f)", cfg.ScoreThreshold)
	}

	cfg.MaxCodeLines = DefaultMaxCodeLines
	if input.Gate.MaxCodeLines != nil {
		cfg.MaxCodeLines = *input.Gate.MaxCodeLines
	}
	if cfg.MaxCodeLines <= 0 {
		return fmt.Errorf("gate max code lines must be greater than 0 (received %d)", cfg.MaxCodeLines)
	}
	return nil
}

// processRubricOverrides merges the rubric section of the config file into
// the default rubric and stores the immutable result on cfg.
func processRubricOverrides(cfg *Config, input *ConfigRawInput) error {
	base := schema.DefaultRubric()
	overrides, err := ProcessRubricRawInput(base, input.Rubric)
	if err != nil {
		return err
	}
	if len(overrides) == 0 {
		cfg.Rubric = base
		return nil
	}
	merged, err := base.WithOverrides(overrides)
	if err != nil {
		return fmt.Errorf("invalid rubric: %w", err)
	}
	cfg.Rubric = merged
	return nil
}

// ProcessRubricRawInput converts raw rubric overrides into typed rubric entries.
// Unset fields inherit from base; new metric entries must set good and bad.
func ProcessRubricRawInput(base *schema.Rubric, raw map[string]map[string]ThresholdRawInput) (map[schema.Language]schema.LanguageRubric, error) {
	result := make(map[schema.Language]schema.LanguageRubric)

	langNames := make([]string, 0, len(raw))
	for name := range raw {
		langNames = append(langNames, name)
	}
	sort.Strings(langNames)

	for _, langName := range langNames {
		lang, err := schema.ParseLanguage(langName)
		if err != nil || lang == schema.Unknown {
			return nil, fmt.Errorf("invalid rubric language %q", langName)
		}
		defaults, _ := base.For(lang)

		entries := make(schema.LanguageRubric)
		for metricName, rawThreshold := range raw[langName] {
			key, err := schema.ParseMetricKey(metricName)
			if err != nil {
				return nil, fmt.Errorf("invalid rubric entry %s.%s: %w", langName, metricName, err)
			}

			t, known := defaults[key]
			if !known && (rawThreshold.Good == nil || rawThreshold.Bad == nil) {
				return nil, fmt.Errorf("rubric entry %s.%s must set both good and bad", langName, metricName)
			}
			if rawThreshold.Good != nil {
				t.Good = *rawThreshold.Good
			}
			if rawThreshold.Bad != nil {
				t.Bad = *rawThreshold.Bad
			}
			if rawThreshold.Weight != nil {
				t.Weight = *rawThreshold.Weight
			}
			if err := t.Validate(); err != nil {
				return nil, fmt.Errorf("invalid rubric entry %s.%s: %w", langName, metricName, err)
			}
			entries[key] = t
		}

		if len(entries) > 0 {
			existing := result[lang]
			if existing == nil {
				existing = make(schema.LanguageRubric)
			}
			maps.Copy(existing, entries)
			result[lang] = existing
		}
	}

	return result, nil
}

// processLLMSettings validates the provider section.
func processLLMSettings(cfg *Config, input *ConfigRawInput) error {
	provider := schema.LLMProvider(strings.ToLower(strings.TrimSpace(input.LLM.Provider)))
	if provider == "" {
		provider = schema.GroqProvider
	}
	if _, ok := schema.ValidLLMProviders[provider]; !ok {
		return fmt.Errorf("invalid llm provider '%s'. must be groq, gemini", input.LLM.Provider)
	}

	timeout, err := ParseDurationOrSeconds(input.LLM.Timeout, DefaultLLMTimeout)
	if err != nil {
		return fmt.Errorf("invalid llm timeout: %w", err)
	}

	temperature := DefaultTemperature
	if input.LLM.Temperature != nil {
		temperature = *input.LLM.Temperature
	}
	if temperature < 0 || temperature > 2 {
		return fmt.Errorf("llm temperature must be between 0 and 2 (received %.2f)", temperature)
	}

	cfg.LLM = LLMConfig{
		Provider:    provider,
		Model:       strings.TrimSpace(input.LLM.Model),
		APIKey:      strings.TrimSpace(input.LLM.APIKey),
		APIKeyFile:  firstNonEmpty(input.LLM.APIKeyFile, DefaultAPIKeyFile),
		Timeout:     timeout,
		Temperature: temperature,
	}
	return nil
}

// ProcessProfilingConfig enables CPU and heap profiling when a prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if strings.HasSuffix(profilePrefix, "/") {
		return fmt.Errorf("profile prefix must name a file, not a directory (received %q)", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}

// ParseDurationOrSeconds parses a Go duration ("90s", "2m") or a bare number of
// seconds. The empty string yields def.
func ParseDurationOrSeconds(s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	var d time.Duration
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		d = time.Duration(secs * float64(time.Second))
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("expected a duration like 60s or a number of seconds, got %q", s)
		}
		d = parsed
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive (received %s)", s)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
