// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/greenbyte/sustain/schema"
)

// Sentinel errors reported by ToolRunner implementations.
var (
	ErrToolNotFound = errors.New("tool not found")
	ErrToolTimeout  = errors.New("tool timed out")
	ErrToolExit     = errors.New("tool exited with non-zero status")
)

// ToolRunner runs the external analyzers.
// This allows parsers and the collector to be tested with canned tool output.
type ToolRunner interface {
	// LookPath resolves a tool binary on the search path.
	LookPath(name string) (string, error)

	// Run executes the tool and returns its standard output. On ErrToolExit the
	// output is still returned so callers can parse partial reports.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// GitClient defines the git operations used to retrieve file content.
// This allows the optimizer to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its output.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetStagedContent returns the content of relPath in the index.
	GetStagedContent(ctx context.Context, repoPath string, relPath string) ([]byte, error)

	// GetHeadContent returns the content of relPath at HEAD.
	GetHeadContent(ctx context.Context, repoPath string, relPath string) ([]byte, error)

	// ExistsInHead reports whether relPath is tracked at HEAD.
	ExistsInHead(ctx context.Context, repoPath string, relPath string) (bool, error)
}

// HistoryManager gives access to the history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking runs and storing file scores.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(command string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalFiles int) error

	// RecordFileScore stores the score of one file version under runID
	RecordFileScore(runID int64, record schema.FileScoreRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllFileScores returns every recorded file score ordered by run and path
	GetAllFileScores() ([]schema.FileScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
