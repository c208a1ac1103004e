package contract

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzShouldIgnore checks exclude matching on source paths and the path
// truncation used by the score table.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		excludes string // comma-separated
		width    uint8
	}{
		{"app/slow.py", ".py", 15},
		{"vendor/github.com/pkg/errors/errors.go", "vendor/", 20},
		{"web/static/bundle.min.js", "*.min.js", 10},
		{"web/node_modules/react/index.js", "node_modules/,dist/", 30},
		{"src/app.test.ts", "*.{spec,test}.ts", 4},
		{"cmd/main.go", "**/testdata/**", 0},
		{"lib/ünïcode/módulo.py", "ünïcode", 8},
		{"", "", 0},
		{"bad/[pattern.c", "[unclosed", 5},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.excludes, seed.width)
	}

	f.Fuzz(func(t *testing.T, path string, excludesStr string, width uint8) {
		var excludes []string
		for ex := range strings.SplitSeq(excludesStr, ",") {
			if trimmed := strings.TrimSpace(ex); trimmed != "" {
				excludes = append(excludes, trimmed)
			}
		}
		_ = ShouldIgnore(path, excludes)

		if ShouldIgnore(path, nil) {
			t.Fatalf("%q ignored without excludes", path)
		}
		if ext := filepath.Ext(path); len(ext) > 1 && ext == strings.TrimSpace(ext) && !strings.ContainsAny(ext, "*?[{") {
			if !ShouldIgnore(path, []string{ext}) {
				t.Fatalf("%q not ignored by its own extension %q", path, ext)
			}
		}

		maxWidth := int(width)
		truncated := TruncatePath(path, maxWidth)
		if maxWidth <= 3 || utf8.RuneCountInString(path) <= maxWidth {
			if truncated != path {
				t.Fatalf("TruncatePath(%q, %d) = %q, want unchanged", path, maxWidth, truncated)
			}
			return
		}
		if n := utf8.RuneCountInString(truncated); n != maxWidth {
			t.Fatalf("TruncatePath(%q, %d) has %d runes", path, maxWidth, n)
		}
		if !strings.HasPrefix(truncated, "...") {
			t.Fatalf("TruncatePath(%q, %d) = %q, want ellipsis prefix", path, maxWidth, truncated)
		}
		if utf8.ValidString(path) && !strings.HasSuffix(path, strings.TrimPrefix(truncated, "...")) {
			t.Fatalf("TruncatePath(%q, %d) = %q, want a suffix of the path", path, maxWidth, truncated)
		}
	})
}
