package core

import "github.com/greenbyte/sustain/schema"

// densityPlaces is the rounding applied to density metrics.
const densityPlaces = 4

// DeriveMetrics adds the complexity density flavor that lr asks for.
// The logical-LOC flavor wins when the rubric defines it and a logical
// line count (lloc, else nloc_total) is available; otherwise the cloc
// code-line flavor is used. Nothing is written unless the denominator is positive.
func DeriveMetrics(ms schema.MetricSet, lr schema.LanguageRubric) {
	avg, ok := ms.Get(schema.CyclomaticComplexityAvg)
	if !ok {
		return
	}

	if lr.Defines(schema.ComplexityDensity) {
		if denom, ok := logicalLOC(ms); ok {
			ms.Set(schema.ComplexityDensity, roundTo(avg/denom, densityPlaces))
			return
		}
	}

	if lr.Defines(schema.ComplexityDensityCLOC) {
		if code, ok := ms.Get(schema.LOCCode); ok && code > 0 {
			ms.Set(schema.ComplexityDensityCLOC, roundTo(avg/code, densityPlaces))
		}
	}
}

func logicalLOC(ms schema.MetricSet) (float64, bool) {
	for _, key := range []schema.MetricKey{schema.LLOC, schema.NLOCTotal} {
		if v, ok := ms.Get(key); ok && v > 0 {
			return v, true
		}
	}
	return 0, false
}
