package schema

// GateDecision is the verdict of the score gate. Reason is NotSkipped when Skip is false.
type GateDecision struct {
	Skip   bool       `json:"skip"`
	Reason SkipReason `json:"reason"`
}

// GateReport pairs a gate decision with the inputs that produced it.
type GateReport struct {
	Path           string       `json:"path"`
	Language       Language     `json:"language"`
	Score          float64      `json:"score"`
	Scored         bool         `json:"scored"`
	CodeLOC        int          `json:"code_loc"`
	ScoreThreshold float64      `json:"score_threshold"`
	MaxCodeLines   int          `json:"max_code_lines"`
	Decision       GateDecision `json:"decision"`
}
