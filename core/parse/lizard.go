package parse

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/greenbyte/sustain/schema"
)

// functionRowRe matches a lizard function row: NLOC CCN token PARAM [length] location.
// The location always contains '@' (name@start-end@file).
var functionRowRe = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+(\d+)\s+(\d+)(?:\s+(\d+))?\s+(\S.*@.*)$`)

// leadingIntRe captures the first integer of a numeric row.
var leadingIntRe = regexp.MustCompile(`^\s*(\d+)\s`)

// ParseLizard extracts per-function complexity and length metrics and the total
// NLOC from a lizard text report. Function rows in the warnings section repeat rows
// already seen, so collection stops there.
func ParseLizard(report string) (schema.MetricSet, error) {
	ms := schema.NewMetricSet()

	var (
		count     int
		ccnSum    float64
		ccnMax    float64
		nlocMax   float64
		inSummary bool
		inWarns   bool
	)

	scanner := bufio.NewScanner(strings.NewReader(report))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.Contains(line, "Total nloc"):
			inSummary = true
			continue
		case strings.Contains(line, "!!!! Warnings"):
			inWarns = true
			continue
		}

		if inSummary {
			if m := leadingIntRe.FindStringSubmatch(line + " "); m != nil {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					ms.Set(schema.NLOCTotal, v)
				}
				inSummary = false
			}
			continue
		}
		if inWarns {
			continue
		}

		m := functionRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		nloc, errN := strconv.ParseFloat(m[1], 64)
		ccn, errC := strconv.ParseFloat(m[2], 64)
		if errN != nil || errC != nil {
			continue
		}
		count++
		ccnSum += ccn
		if ccn > ccnMax {
			ccnMax = ccn
		}
		if nloc > nlocMax {
			nlocMax = nloc
		}
	}

	if count == 0 {
		return ms, ErrNoFunctions
	}

	ms.Set(schema.CyclomaticComplexityMax, ccnMax)
	ms.Set(schema.CyclomaticComplexityAvg, ccnSum/float64(count))
	ms.Set(schema.FunctionNLOCMax, nlocMax)
	return ms, nil
}
