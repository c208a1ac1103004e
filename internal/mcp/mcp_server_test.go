package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/greenbyte/sustain/internal/contract"
	mcp_internal "github.com/greenbyte/sustain/internal/mcp"
	"github.com/greenbyte/sustain/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	lizardReport = "       4      2     20      1       5 main@1-5@app.py\n"
	clocReport   = `{"SUM":{"blank":1,"comment":0,"code":4}}`
	radonReport  = "** Total **\n    LLOC: 4\n"
)

type historyManager struct {
	store contract.HistoryStore
}

func (m historyManager) GetHistoryStore() contract.HistoryStore { return m.store }

func newRunner() *contract.MockToolRunner {
	runner := &contract.MockToolRunner{}
	runner.On("LookPath", mock.Anything).Return("/usr/local/bin/tool", nil)
	runner.On("Run", mock.Anything, "lizard", mock.Anything, mock.Anything, mock.Anything).Return([]byte(lizardReport), nil)
	runner.On("Run", mock.Anything, "cloc", mock.Anything, mock.Anything, mock.Anything).Return([]byte(clocReport), nil)
	runner.On("Run", mock.Anything, "radon", mock.Anything, mock.Anything, mock.Anything).Return([]byte(radonReport), nil)
	return runner
}

func baseConfig() *contract.Config {
	return &contract.Config{
		Rubric:         schema.DefaultRubric(),
		ScoreThreshold: contract.DefaultScoreThreshold,
		MaxCodeLines:   contract.DefaultMaxCodeLines,
		Tools:          contract.DefaultToolNames(),
		ToolTimeout:    contract.DefaultToolTimeout,
	}
}

func callTool(t *testing.T, tool string, args map[string]any, mgr contract.HistoryManager) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), mgr, mcp_internal.WithToolRunner(newRunner()))
	serverTool := s.GetTool(tool)
	require.NotNil(t, serverTool, "Tool %s should exist", tool)

	res, err := serverTool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: tool, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestScoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\n\ndef main():\n    return os.sep\n"), 0o644))

	t.Run("scores and gates", func(t *testing.T) {
		res := callTool(t, "score_file", map[string]any{"path": path}, nil)
		require.False(t, res.IsError, resultText(t, res))

		var out struct {
			Rank     int                 `json:"rank"`
			Label    string              `json:"label"`
			Path     string              `json:"path"`
			Language schema.Language     `json:"language"`
			CodeLOC  int                 `json:"code_loc"`
			Result   schema.ScoreResult  `json:"result"`
			Gate     schema.GateDecision `json:"gate"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Equal(t, 1, out.Rank)
		assert.Equal(t, path, out.Path)
		assert.Equal(t, schema.Python, out.Language)
		assert.Equal(t, 4, out.CodeLOC)
		assert.True(t, out.Result.Scored)
		assert.Equal(t, schema.LabelFor(out.Result), out.Label)
		assert.Equal(t, out.Result.Score >= contract.DefaultScoreThreshold, out.Gate.Skip)
	})

	t.Run("records history", func(t *testing.T) {
		store := &contract.MockHistoryStore{}
		store.On("BeginRun", "mcp:score_file", mock.Anything, mock.Anything).Return(int64(9), nil)
		store.On("RecordFileScore", int64(9), mock.Anything).Return(nil)
		store.On("EndRun", int64(9), mock.Anything, 1).Return(nil)

		res := callTool(t, "score_file", map[string]any{"path": path, "language": "py"}, historyManager{store: store})
		require.False(t, res.IsError, resultText(t, res))
		store.AssertExpectations(t)
	})

	t.Run("validation errors", func(t *testing.T) {
		tests := []struct {
			name string
			args map[string]any
			want string
		}{
			{"missing path", map[string]any{}, "path is required"},
			{"missing file", map[string]any{"path": filepath.Join(t.TempDir(), "gone.py")}, "cannot access"},
			{"directory", map[string]any{"path": t.TempDir()}, "is a directory"},
			{"bad language", map[string]any{"path": path, "language": "cobol"}, "invalid language"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res := callTool(t, "score_file", tt.args, nil)
				assert.True(t, res.IsError, "The response should indicate an error state")
				assert.Contains(t, resultText(t, res), tt.want)
			})
		}
	})
}

func TestGetRubric(t *testing.T) {
	t.Run("all languages", func(t *testing.T) {
		res := callTool(t, "get_rubric", map[string]any{}, nil)
		require.False(t, res.IsError)

		var out map[schema.Language]schema.LanguageRubric
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Len(t, out, len(schema.DefaultRubric().Languages()))
		assert.Contains(t, out, schema.Python)
	})

	t.Run("single language alias", func(t *testing.T) {
		res := callTool(t, "get_rubric", map[string]any{"language": "golang"}, nil)
		require.False(t, res.IsError)

		var out map[schema.Language]schema.LanguageRubric
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		require.Len(t, out, 1)
		assert.Equal(t, 30.0, out[schema.Go][schema.CyclomaticComplexityMax].Weight)
	})

	t.Run("no rubric", func(t *testing.T) {
		res := callTool(t, "get_rubric", map[string]any{"language": "bash"}, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "no rubric defined for Shell")
	})
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		expected schema.GateDecision
	}{
		{"runs", map[string]any{"score": 42.0, "code_loc": 120.0, "language": "python"}, schema.GateDecision{}},
		{"forced", map[string]any{"score": 42.0, "code_loc": 120.0, "language": "python", "force": true}, schema.GateDecision{Skip: true, Reason: schema.SkipForced}},
		{"threshold", map[string]any{"score": 99.9, "code_loc": 120.0, "language": "python"}, schema.GateDecision{Skip: true, Reason: schema.SkipScoreThreshold}},
		{"too long", map[string]any{"score": 10.0, "code_loc": 1001.0, "language": "python"}, schema.GateDecision{Skip: true, Reason: schema.SkipLOCLimit}},
		{"unknown language", map[string]any{"score": 10.0, "code_loc": 10.0, "language": ""}, schema.GateDecision{Skip: true, Reason: schema.SkipUnknownLanguage}},
		{"unsupported language", map[string]any{"score": 10.0, "code_loc": 10.0, "language": "cobol"}, schema.GateDecision{Skip: true, Reason: schema.SkipUnknownLanguage}},
		{"blank", map[string]any{"score": 0.0, "code_loc": 0.0, "language": "js", "blank": true}, schema.GateDecision{Skip: true, Reason: schema.SkipBlankContent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, "should_skip", tt.args, nil)
			require.False(t, res.IsError, resultText(t, res))

			var decision schema.GateDecision
			require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &decision))
			assert.Equal(t, tt.expected, decision)
		})
	}

	t.Run("validation errors", func(t *testing.T) {
		res := callTool(t, "should_skip", map[string]any{"score": 120.0, "code_loc": 1.0, "language": "go"}, nil)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "score must be between 0 and 100")

		res = callTool(t, "should_skip", map[string]any{"score": 10.0, "language": "go"}, nil)
		assert.True(t, res.IsError)
	})
}
