package parse

import (
	"regexp"
	"strconv"

	"github.com/greenbyte/sustain/schema"
)

var llocRe = regexp.MustCompile(`(?m)^\s*LLOC:\s*(\d+)\s*$`)

// ParseRadonRaw extracts the logical line count from `radon raw -s` output.
// With several files the last match, the summary block, wins.
func ParseRadonRaw(report string) (schema.MetricSet, error) {
	ms := schema.NewMetricSet()

	matches := llocRe.FindAllStringSubmatch(report, -1)
	if len(matches) == 0 {
		return ms, ErrNoLLOC
	}
	v, err := strconv.ParseFloat(matches[len(matches)-1][1], 64)
	if err != nil {
		return ms, ErrNoLLOC
	}
	ms.Set(schema.LLOC, v)
	return ms, nil
}
