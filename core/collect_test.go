package core

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCollector_CollectContent(t *testing.T) {
	runner := newMockRunner(sampleLizard, sampleCloc, sampleRadon)
	var warns []string
	collector := newTestCollector(runner, &warns)

	ms, err := collector.CollectContent(context.Background(), []byte(sampleSource), "src/sample.py", schema.Python)
	require.NoError(t, err)

	assert.Equal(t, schema.MetricSet{
		schema.CyclomaticComplexityMax: 6,
		schema.CyclomaticComplexityAvg: 4,
		schema.FunctionNLOCMax:         12,
		schema.NLOCTotal:               18,
		schema.LOCBlank:                2,
		schema.LOCComment:              3,
		schema.LOCCode:                 10,
		schema.LOCTotal:                15,
		schema.LLOC:                    15,
		schema.DependencyCount:         2,
	}, ms)
	assert.Empty(t, warns)

	runner.AssertCalled(t, "Run", mock.Anything, "lizard", "-l", "python", mock.Anything)
	runner.AssertCalled(t, "Run", mock.Anything, "cloc", "--json", "--quiet", mock.Anything)
	runner.AssertCalled(t, "Run", mock.Anything, "radon", "raw", "-s", mock.Anything)
}

func TestCollector_RadonOnlyForPython(t *testing.T) {
	runner := newMockRunner(sampleLizard, sampleCloc, sampleRadon)
	collector := newTestCollector(runner, nil)

	content := "const fs = require('fs')\nimport x from \"lodash\"\n"
	ms, err := collector.CollectContent(context.Background(), []byte(content), "index.js", schema.JavaScript)
	require.NoError(t, err)

	assert.False(t, ms.Has(schema.LLOC))
	assert.Equal(t, 2.0, ms[schema.DependencyCount])
	runner.AssertCalled(t, "Run", mock.Anything, "lizard", "-l", "javascript", mock.Anything)
	runner.AssertNotCalled(t, "Run", mock.Anything, "radon", "raw", "-s", mock.Anything)
}

func TestCollector_NoDependencyCounterForGo(t *testing.T) {
	runner := newMockRunner(sampleLizard, sampleCloc, sampleRadon)
	collector := newTestCollector(runner, nil)

	ms, err := collector.CollectContent(context.Background(), []byte("package main\n"), "main.go", schema.Go)
	require.NoError(t, err)
	assert.False(t, ms.Has(schema.DependencyCount))
}

func TestCollector_MissingTool(t *testing.T) {
	runner := newMockRunner(sampleLizard, sampleCloc, sampleRadon, "radon")
	var warns []string
	collector := newTestCollector(runner, &warns)

	ms, err := collector.CollectContent(context.Background(), []byte(sampleSource), "sample.py", schema.Python)
	require.NoError(t, err)

	assert.False(t, ms.Has(schema.LLOC))
	assert.True(t, ms.Has(schema.CyclomaticComplexityMax))
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "radon not found, missing lloc")
	assert.Contains(t, warns[0], contract.ErrToolNotFound.Error())
	runner.AssertNotCalled(t, "Run", mock.Anything, "radon", "raw", "-s", mock.Anything)
}

func TestCollector_ToolErrors(t *testing.T) {
	tests := []struct {
		name       string
		lizardErr  error
		lizardOut  string
		wantMetric bool
		wantWarn   bool
	}{
		{"non-zero exit keeps output", fmt.Errorf("%w: exit status 1", contract.ErrToolExit), sampleLizard, true, false},
		{"non-zero exit without output", fmt.Errorf("%w: exit status 2", contract.ErrToolExit), "", false, false},
		{"timeout", contract.ErrToolTimeout, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &contract.MockToolRunner{}
			runner.On("LookPath", mock.Anything).Return("/usr/local/bin/tool", nil)
			runner.On("Run", mock.Anything, "lizard", mock.Anything, mock.Anything, mock.Anything).Return([]byte(tt.lizardOut), tt.lizardErr)
			runner.On("Run", mock.Anything, "cloc", mock.Anything, mock.Anything, mock.Anything).Return([]byte(sampleCloc), nil)
			runner.On("Run", mock.Anything, "radon", mock.Anything, mock.Anything, mock.Anything).Return([]byte(sampleRadon), nil)

			var warns []string
			collector := newTestCollector(runner, &warns)
			ms, err := collector.CollectContent(context.Background(), []byte(sampleSource), "sample.py", schema.Python)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMetric, ms.Has(schema.CyclomaticComplexityMax))
			assert.True(t, ms.Has(schema.LOCCode), "other tools still contribute")
			if tt.wantWarn {
				require.Len(t, warns, 1)
				assert.Contains(t, warns[0], "lizard failed")
			} else {
				assert.Empty(t, warns)
			}
		})
	}
}

func TestCollector_UnusableReportWarns(t *testing.T) {
	runner := newMockRunner(sampleLizard, "not json", sampleRadon)
	var warns []string
	collector := newTestCollector(runner, &warns)

	ms, err := collector.CollectContent(context.Background(), []byte(sampleSource), "sample.py", schema.Python)
	require.NoError(t, err)
	assert.False(t, ms.Has(schema.LOCCode))
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "cloc output unusable")
}

func TestCollector_Cache(t *testing.T) {
	ctx := context.Background()

	t.Run("memoizes by content and language", func(t *testing.T) {
		runner := newMockRunner(sampleLizard, sampleCloc, sampleRadon)
		collector := newTestCollector(runner, nil)

		first, err := collector.CollectContent(ctx, []byte(sampleSource), "a.py", schema.Python)
		require.NoError(t, err)
		first[schema.LOCCode] = 999 // callers may mutate their copy

		second, err := collector.CollectContent(ctx, []byte(sampleSource), "b.py", schema.Python)
		require.NoError(t, err)
		assert.Equal(t, 10.0, second[schema.LOCCode])
		runner.AssertNumberOfCalls(t, "Run", 3)

		_, err = collector.CollectContent(ctx, []byte(sampleSource), "b.py", schema.Go)
		require.NoError(t, err)
		runner.AssertNumberOfCalls(t, "Run", 5)
	})

	t.Run("disabled", func(t *testing.T) {
		runner := newMockRunner(sampleLizard, sampleCloc, sampleRadon)
		collector := NewCollector(runner, WithCacheSize(0), WithWarn(func(string, error) {}))

		for range 2 {
			_, err := collector.CollectContent(ctx, []byte(sampleSource), "a.py", schema.Python)
			require.NoError(t, err)
		}
		runner.AssertNumberOfCalls(t, "Run", 6)
	})
}

func TestCollector_CanceledContext(t *testing.T) {
	runner := newMockRunner(sampleLizard, sampleCloc, sampleRadon)
	collector := newTestCollector(runner, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := collector.CollectContent(ctx, []byte(sampleSource), "a.py", schema.Python)
	assert.ErrorIs(t, err, context.Canceled)

	// Results of a canceled collection are not memoized.
	_, err = collector.CollectContent(context.Background(), []byte(sampleSource), "a.py", schema.Python)
	require.NoError(t, err)
	runner.AssertNumberOfCalls(t, "Run", 6)
}

func TestCollector_Collect(t *testing.T) {
	runner := newMockRunner(sampleLizard, sampleCloc, sampleRadon)
	collector := newTestCollector(runner, nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "sample.py")
	writeFile(t, path, sampleSource)
	ms, err := collector.Collect(context.Background(), path, schema.Python)
	require.NoError(t, err)
	assert.Equal(t, 2.0, ms[schema.DependencyCount])

	_, err = collector.Collect(context.Background(), filepath.Join(dir, "missing.py"), schema.Python)
	assert.ErrorContains(t, err, "failed to read")
}

func TestNewCollectorFromConfig(t *testing.T) {
	cfg := &contract.Config{
		Tools:       contract.ToolNames{Lizard: "lizard-3", Cloc: "", Radon: "radon"},
		ToolTimeout: 5 * time.Second,
	}
	collector := NewCollectorFromConfig(cfg, &contract.MockToolRunner{})
	assert.Equal(t, "lizard-3", collector.tools.Lizard)
	assert.Equal(t, "cloc", collector.tools.Cloc)
	assert.Equal(t, 5*time.Second, collector.timeout)
}

func TestTempFileName(t *testing.T) {
	tests := []struct {
		name     string
		lang     schema.Language
		expected string
	}{
		{"src/app/main.py", schema.Python, "main.py"},
		{"bin/tool", schema.Python, "tool.py"},
		{"bin/tool", schema.Unknown, "tool"},
		{"", schema.Go, "source.go"},
		{"Makefile", schema.Shell, "Makefile.sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tempFileName(tt.name, tt.lang))
		})
	}
}
