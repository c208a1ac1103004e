// Package outwriter renders scores, gate decisions, optimizer results and
// rubrics as tables, JSON or CSV.
package outwriter

import (
	"time"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteScores prints batch scoring results using the configured output format.
func (ow *OutWriter) WriteScores(reports []schema.FileReport, cfg *contract.Config, duration time.Duration) error {
	return WriteScoreResults(reports, cfg, duration)
}

// WriteGate prints a gate report using the configured output format.
func (ow *OutWriter) WriteGate(report schema.GateReport, cfg *contract.Config) error {
	return WriteGateReport(report, cfg)
}

// WriteOptimize prints an optimizer result using the configured output format.
func (ow *OutWriter) WriteOptimize(result schema.OptimizeResult, cfg *contract.Config) error {
	return WriteOptimizeResult(result, cfg)
}

// WriteRubric prints the rubric of langs using the configured output format.
func (ow *OutWriter) WriteRubric(rubric *schema.Rubric, langs []schema.Language, cfg *contract.Config) error {
	return WriteRubricTable(rubric, langs, cfg)
}
