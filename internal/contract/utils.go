package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/greenbyte/sustain/schema"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold)
	GoodColor      = color.New(color.FgCyan)
	FairColor      = color.New(color.FgYellow)
	PoorColor      = color.New(color.FgRed, color.Bold)
	UnscoredColor  = color.New(color.FgHiBlack)
)

// verbose gates LogInfo output.
var verbose atomic.Bool

// SetVerbose enables or disables informational logging.
func SetVerbose(on bool) {
	verbose.Store(on)
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(result schema.ScoreResult) string {
	text := schema.LabelFor(result)

	switch text {
	case "Excellent":
		return ExcellentColor.Sprint(text)
	case "Good":
		return GoodColor.Sprint(text)
	case "Fair":
		return FairColor.Sprint(text)
	case schema.UnscoredLabel:
		return UnscoredColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given slash-separated path matches any of the
// exclude patterns. Glob patterns use doublestar syntax and are tried against the
// full path and the base name. Patterns ending with '/' match a directory at any
// depth. Patterns starting with '.' are suffix (extension) matches. Anything
// else is a substring match.
// A user can provide patterns like "vendor/", "**/testdata/**", "*.min.js".
func ShouldIgnore(path string, excludes []string) bool {
	path = filepath.ToSlash(path)
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[{") {
			if ok, err := doublestar.Match(ex, path); err == nil && ok {
				return true
			}
			if ok, err := doublestar.Match(ex, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) || strings.Contains(path, "/"+ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err == nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s\n", msg)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr when verbose output is on.
func LogInfo(format string, args ...any) {
	if !verbose.Load() {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Info "+format+"\n", args...)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sustain_history.db"
	}
	return filepath.Join(homeDir, ".sustain_history.db")
}

// RelativeToRepo normalizes a user-provided path relative to the repo root
// and ensures it's within the repository boundaries. The result uses forward slashes.
func RelativeToRepo(repoPath, userPath string) (string, error) {
	if filepath.IsAbs(userPath) {
		relPath, err := filepath.Rel(repoPath, userPath)
		if err != nil {
			return "", fmt.Errorf("path is outside repository: %s", userPath)
		}
		userPath = relPath
	}

	cleanPath := filepath.Clean(userPath)
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside repository: %s", userPath)
	}

	normalized := strings.ReplaceAll(cleanPath, string(filepath.Separator), "/")
	return strings.TrimPrefix(normalized, "./"), nil
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave space for the "..." prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
