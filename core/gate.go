package core

import (
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
)

// GatePolicy decides whether the LLM optimization step is worth running.
type GatePolicy struct {
	ScoreThreshold float64
	MaxCodeLines   int
}

// DefaultGatePolicy returns the policy with the built-in limits.
func DefaultGatePolicy() GatePolicy {
	return GatePolicy{
		ScoreThreshold: contract.DefaultScoreThreshold,
		MaxCodeLines:   contract.DefaultMaxCodeLines,
	}
}

// NewGatePolicy builds a policy from the validated config.
func NewGatePolicy(cfg *contract.Config) GatePolicy {
	return GatePolicy{ScoreThreshold: cfg.ScoreThreshold, MaxCodeLines: cfg.MaxCodeLines}
}

// ShouldSkip reports whether to skip the step and the first matching reason,
// checked in this order: forced, score threshold, LOC limit, unknown language, blank content.
func (p GatePolicy) ShouldSkip(score float64, codeLOC int, forceSkip, languageKnown, isBlank bool) schema.GateDecision {
	switch {
	case forceSkip:
		return skip(schema.SkipForced)
	case score >= p.ScoreThreshold:
		return skip(schema.SkipScoreThreshold)
	case codeLOC > p.MaxCodeLines:
		return skip(schema.SkipLOCLimit)
	case !languageKnown:
		return skip(schema.SkipUnknownLanguage)
	case isBlank:
		return skip(schema.SkipBlankContent)
	default:
		return schema.GateDecision{Skip: false, Reason: schema.NotSkipped}
	}
}

func skip(reason schema.SkipReason) schema.GateDecision {
	return schema.GateDecision{Skip: true, Reason: reason}
}
