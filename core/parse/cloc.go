package parse

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/greenbyte/sustain/schema"
)

// clocCounts is one entry of a cloc JSON report.
type clocCounts struct {
	Blank   *float64 `json:"blank"`
	Comment *float64 `json:"comment"`
	Code    *float64 `json:"code"`
}

// ParseCloc extracts blank, comment and code line counts from a cloc JSON report.
// The SUM entry is preferred; otherwise the first entry other than "header" that
// carries a code count is used, in key order.
func ParseCloc(report []byte) (schema.MetricSet, error) {
	ms := schema.NewMetricSet()

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(report, &doc); err != nil {
		return ms, fmt.Errorf("invalid cloc JSON: %w", err)
	}

	counts, ok := pickClocEntry(doc)
	if !ok {
		return ms, ErrNoCounts
	}

	var total float64
	complete := true
	for key, v := range map[schema.MetricKey]*float64{
		schema.LOCBlank:   counts.Blank,
		schema.LOCComment: counts.Comment,
		schema.LOCCode:    counts.Code,
	} {
		if v == nil || !ms.Set(key, *v) {
			complete = false
			continue
		}
		total += *v
	}
	if complete {
		ms.Set(schema.LOCTotal, total)
	}
	return ms, nil
}

func pickClocEntry(doc map[string]json.RawMessage) (clocCounts, bool) {
	if raw, ok := doc["SUM"]; ok {
		var c clocCounts
		if err := json.Unmarshal(raw, &c); err == nil && c.Code != nil {
			return c, true
		}
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if k != "header" && k != "SUM" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		var c clocCounts
		if err := json.Unmarshal(doc[k], &c); err == nil && c.Code != nil {
			return c, true
		}
	}
	return clocCounts{}, false
}
