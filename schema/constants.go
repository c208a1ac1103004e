package schema

// Custom string types for type safety.
type (
	// MetricKey names a metric in a MetricSet or a Rubric.
	MetricKey string

	// Language is the normalized key of a source language.
	Language string

	// LanguageFamily groups languages that share a dependency-counting heuristic.
	LanguageFamily string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for history tracking.
	DatabaseBackend string

	// SkipReason explains why the optimization step was skipped.
	SkipReason string

	// LLMProvider names a chat-completion backend.
	LLMProvider string
)

// Metric keys produced by parsers, counters and the derived-metric calculator.
const (
	CyclomaticComplexityMax MetricKey = "cyclomatic_complexity_max" // lizard CCN, max over functions
	CyclomaticComplexityAvg MetricKey = "cyclomatic_complexity_avg" // lizard CCN, mean over functions
	FunctionNLOCMax         MetricKey = "function_nloc_max"         // lizard NLOC, max over functions
	NLOCTotal               MetricKey = "nloc_total"                // lizard summary row
	LOCBlank                MetricKey = "loc_blank"                 // cloc
	LOCComment              MetricKey = "loc_comment"               // cloc
	LOCCode                 MetricKey = "loc_code"                  // cloc
	LOCTotal                MetricKey = "loc_total"                 // cloc blank+comment+code
	LLOC                    MetricKey = "lloc"                      // radon raw
	DependencyCount         MetricKey = "dependency_count"          // local counter

	ComplexityDensity     MetricKey = "complexity_density"      // avg CCN / logical LOC
	ComplexityDensityCLOC MetricKey = "complexity_density_cloc" // avg CCN / cloc code lines
)

// AllMetricKeys lists every metric key in display order.
var AllMetricKeys = []MetricKey{
	CyclomaticComplexityMax,
	CyclomaticComplexityAvg,
	FunctionNLOCMax,
	NLOCTotal,
	LOCBlank,
	LOCComment,
	LOCCode,
	LOCTotal,
	LLOC,
	DependencyCount,
	ComplexityDensity,
	ComplexityDensityCLOC,
}

// Supported languages. Unknown is the empty key.
const (
	Unknown    Language = ""
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Java       Language = "java"
	C          Language = "c"
	CPP        Language = "cpp"
	CSharp     Language = "csharp"
	Go         Language = "go"
	Ruby       Language = "ruby"
	Rust       Language = "rust"
	PHP        Language = "php"
	Shell      Language = "shell"
)

// AllLanguages lists every language the detector can return.
var AllLanguages = []Language{Python, JavaScript, TypeScript, Java, C, CPP, CSharp, Go, Ruby, Rust, PHP, Shell}

// Dependency-counting families.
const (
	FamilyNone   LanguageFamily = "none"
	FamilyImport LanguageFamily = "import" // python-style import statements
	FamilyModule LanguageFamily = "module" // require() and ES module specifiers
	FamilyHeader LanguageFamily = "header" // #include <system header>
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Reasons reported by the score gate, in priority order.
const (
	NotSkipped          SkipReason = ""
	SkipForced          SkipReason = "forced"
	SkipScoreThreshold  SkipReason = "score threshold met"
	SkipLOCLimit        SkipReason = "LOC limit exceeded"
	SkipUnknownLanguage SkipReason = "unknown language"
	SkipBlankContent    SkipReason = "blank content"
)

// All LLM providers supported.
const (
	GroqProvider   LLMProvider = "groq" // default
	GeminiProvider LLMProvider = "gemini"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidLLMProviders lists all valid LLM providers.
var ValidLLMProviders = map[LLMProvider]struct{}{
	GroqProvider:   {},
	GeminiProvider: {},
}
