// Package schema has the metric vocabulary, rubric and result models for all parts of sustain.
package schema

// MetricScore is the normalized score of one metric and the weight applied to it.
type MetricScore struct {
	Value  float64 `json:"value"`
	Score  float64 `json:"score"`  // normalized, 0-100
	Weight float64 `json:"weight"` // rubric weight, always > 0
}

// ScoreResult is the weighted aggregate of a MetricSet under one language rubric.
// Scored is false when no positive-weight rubric metric was present; Score is 0
// and Details is empty in that case.
type ScoreResult struct {
	Language Language                  `json:"language"`
	Score    float64                   `json:"score"`
	Scored   bool                      `json:"scored"`
	Details  map[MetricKey]MetricScore `json:"details"`
}

// FileReport is the outcome of scoring a single file.
type FileReport struct {
	Path     string      `json:"path"`
	Language Language    `json:"language"`
	Metrics  MetricSet   `json:"metrics"`
	Result   ScoreResult `json:"result"`
	CodeLOC  int         `json:"code_loc"`
	Err      string      `json:"error,omitempty"` // analysis failure, empty on success
}

// OptimizeResult summarizes one run of the optimizer on a file.
type OptimizeResult struct {
	Path       string       `json:"path"`
	Language   Language     `json:"language"`
	Before     ScoreResult  `json:"before"`
	After      *ScoreResult `json:"after,omitempty"`
	Gate       GateDecision `json:"gate"`
	Written    bool         `json:"written"`
	Rejected   bool         `json:"rejected"` // answer scored lower than the original
	DryRun     bool         `json:"dry_run"`
	Optimized  string       `json:"-"`
	Provider   LLMProvider  `json:"provider,omitempty"`
	Model      string       `json:"model,omitempty"`
	DurationMs int64        `json:"duration_ms"`
}
