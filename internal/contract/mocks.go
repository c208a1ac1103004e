package contract

import (
	"context"
	"time"

	"github.com/greenbyte/sustain/schema"
	"github.com/stretchr/testify/mock"
)

// MockToolRunner is a mock implementation of ToolRunner for testing.
type MockToolRunner struct {
	mock.Mock
}

var _ ToolRunner = &MockToolRunner{} // Compile-time check

// LookPath implements the ToolRunner interface.
func (m *MockToolRunner) LookPath(name string) (string, error) {
	ret := m.Called(name)
	return ret.String(0), ret.Error(1)
}

// Run implements the ToolRunner interface. The tool arguments are passed to
// m.Called after ctx and name, one per mock argument.
func (m *MockToolRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, name}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetStagedContent implements the GitClient interface.
func (m *MockGitClient) GetStagedContent(ctx context.Context, repoPath string, relPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, relPath)
	content, _ := ret.Get(0).([]byte)
	return content, ret.Error(1)
}

// GetHeadContent implements the GitClient interface.
func (m *MockGitClient) GetHeadContent(ctx context.Context, repoPath string, relPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, relPath)
	content, _ := ret.Get(0).([]byte)
	return content, ret.Error(1)
}

// ExistsInHead implements the GitClient interface.
func (m *MockGitClient) ExistsInHead(ctx context.Context, repoPath string, relPath string) (bool, error) {
	ret := m.Called(ctx, repoPath, relPath)
	return ret.Bool(0), ret.Error(1)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(command string, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(command, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, totalFiles int) error {
	args := m.Called(runID, endTime, totalFiles)
	return args.Error(0)
}

// RecordFileScore implements the HistoryStore interface.
func (m *MockHistoryStore) RecordFileScore(runID int64, record schema.FileScoreRecord) error {
	args := m.Called(runID, record)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllFileScores implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllFileScores() ([]schema.FileScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.FileScoreRecord)
	return scores, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
