//go:build basic || database || integration

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedSustainPath holds the path to a shared sustain binary built once for all tests.
	sharedSustainPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getSustainBinary returns the path to the sustain binary, building it once if needed.
func getSustainBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "sustain-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		sustainPath := filepath.Join(tempDir, "sustain")
		buildCmd := exec.Command("go", "build", "-o", sustainPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build sustain: %v", err))
		}

		sharedSustainPath = sustainPath
	})

	return sharedSustainPath
}

// runSustain runs the binary in dir and returns its stdout.
func runSustain(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getSustainBinary(), args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			t.Logf("Command failed: %s\nStderr: %s", cmd.String(), string(exitErr.Stderr))
		}
		return string(output), err
	}
	return string(output), nil
}

// writeSources creates a small mixed-language tree and returns its root.
func writeSources(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"app.py":      "import os\nimport sys\n\n\ndef main():\n    # entry\n    return os.sep + sys.platform\n",
		"lib/util.js": "const fs = require('fs')\n\nfunction read(p) {\n  return fs.readFileSync(p)\n}\n",
		"cmd/main.go": "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}
