// Package parse turns the raw reports of the external analyzers into metric fragments.
// Parsers never fail hard: they always return a non-nil (possibly empty or partial)
// MetricSet, and the error is only a diagnostic for the caller to log.
package parse

import "errors"

// Diagnostics returned alongside partial fragments.
var (
	ErrNoFunctions = errors.New("no function rows in lizard report")
	ErrNoLLOC      = errors.New("no LLOC line in radon report")
	ErrNoCounts    = errors.New("no line counts in cloc report")
)
