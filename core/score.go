package core

import (
	"math"

	"github.com/greenbyte/sustain/schema"
)

// Scorer reduces metric sets to weighted 0-100 scores using an immutable rubric.
type Scorer struct {
	rubric *schema.Rubric
}

// NewScorer returns a Scorer for rubric. A nil rubric means the built-in one.
func NewScorer(rubric *schema.Rubric) *Scorer {
	if rubric == nil {
		rubric = schema.DefaultRubric()
	}
	return &Scorer{rubric: rubric}
}

// Rubric returns the rubric used for scoring.
func (s *Scorer) Rubric() *schema.Rubric {
	return s.rubric
}

// Normalize maps value onto [0,100] against the threshold's good/bad interval.
// When good equals bad only an exact match scores 100.
func Normalize(value float64, t schema.Threshold) float64 {
	var score float64
	switch {
	case t.Good == t.Bad:
		if value == t.Good {
			score = 100
		}
	case t.Good < t.Bad:
		switch {
		case value <= t.Good:
			score = 100
		case value >= t.Bad:
			score = 0
		default:
			score = 100 * (t.Bad - value) / (t.Bad - t.Good)
		}
	default:
		switch {
		case value >= t.Good:
			score = 100
		case value <= t.Bad:
			score = 0
		default:
			score = 100 * (value - t.Bad) / (t.Good - t.Bad)
		}
	}
	return clamp(score, 0, 100)
}

// Score computes the aggregate score of ms for lang. Only metrics that are
// present and carry a positive weight contribute. When nothing contributes,
// or the language has no rubric, the result has Scored=false and no details.
func (s *Scorer) Score(ms schema.MetricSet, lang schema.Language) schema.ScoreResult {
	result := schema.ScoreResult{
		Language: lang,
		Details:  map[schema.MetricKey]schema.MetricScore{},
	}

	lr, ok := s.rubric.For(lang)
	if !ok {
		return result
	}

	var weighted, totalWeight float64
	for _, key := range lr.Keys() {
		t := lr[key]
		value, present := ms.Get(key)
		if !present || t.Weight <= 0 {
			continue
		}
		score := Normalize(value, t)
		result.Details[key] = schema.MetricScore{
			Value:  value,
			Score:  score,
			Weight: t.Weight,
		}
		weighted += score * t.Weight
		totalWeight += t.Weight
	}

	if totalWeight == 0 {
		return result
	}

	result.Score = clamp(roundTo(weighted/totalWeight, 1), 0, 100)
	result.Scored = true
	return result
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
