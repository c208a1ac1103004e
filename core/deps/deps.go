// Package deps counts distinct external dependencies of a source file with
// per-family text heuristics.
package deps

import (
	"bufio"
	"bytes"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/greenbyte/sustain/schema"
)

var (
	pyImportRe = regexp.MustCompile(`^\s*import\s+(.+)$`)
	pyFromRe   = regexp.MustCompile(`^\s*from\s+(\S+)\s+import\b`)

	jsRequireRe    = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	jsImportFromRe = regexp.MustCompile(`\bimport\b[^'";]*?\bfrom\s*['"]([^'"]+)['"]`)
	jsBareImportRe = regexp.MustCompile(`(?m)^\s*import\s*['"]([^'"]+)['"]`)

	cIncludeRe = regexp.MustCompile(`^\s*#\s*include\s*<([^>]+)>`)
)

// Count returns the number of distinct modules or headers referenced by content.
// Families without a counter return 0.
func Count(content []byte, family schema.LanguageFamily) int {
	switch family {
	case schema.FamilyImport:
		return len(importRoots(content))
	case schema.FamilyModule:
		return len(moduleSpecifiers(content))
	case schema.FamilyHeader:
		return len(systemHeaders(content))
	default:
		return 0
	}
}

// CountFile reads path and counts its dependencies. Any I/O or decoding
// error yields 0.
func CountFile(path string, family schema.LanguageFamily) int {
	content, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(content) {
		return 0
	}
	return Count(content, family)
}

// importRoots collects top-level packages from import and from-import
// statements. It is a line-based text heuristic: statements joined with ';'
// are split, but imports inside string literals or docstrings also count.
func importRoots(content []byte) map[string]struct{} {
	roots := make(map[string]struct{})
	scanLines(content, func(line string) {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		for _, stmt := range strings.Split(line, ";") {
			if m := pyFromRe.FindStringSubmatch(stmt); m != nil {
				addRoot(roots, m[1])
				continue
			}
			m := pyImportRe.FindStringSubmatch(stmt)
			if m == nil {
				continue
			}
			for _, part := range strings.Split(m[1], ",") {
				fields := strings.Fields(part)
				if len(fields) > 0 {
					addRoot(roots, fields[0])
				}
			}
		}
	})
	return roots
}

// addRoot records the top-level package of a dotted path. Relative imports are ignored.
func addRoot(roots map[string]struct{}, dotted string) {
	if dotted == "" || strings.HasPrefix(dotted, ".") {
		return
	}
	root, _, _ := strings.Cut(dotted, ".")
	root = strings.Trim(root, "();")
	if root != "" {
		roots[root] = struct{}{}
	}
}

func moduleSpecifiers(content []byte) map[string]struct{} {
	specs := make(map[string]struct{})
	text := string(content)
	for _, re := range []*regexp.Regexp{jsRequireRe, jsImportFromRe, jsBareImportRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			spec := m[1]
			if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
				continue
			}
			specs[spec] = struct{}{}
		}
	}
	return specs
}

func systemHeaders(content []byte) map[string]struct{} {
	headers := make(map[string]struct{})
	scanLines(content, func(line string) {
		if m := cIncludeRe.FindStringSubmatch(line); m != nil {
			headers[strings.TrimSpace(m[1])] = struct{}{}
		}
	})
	return headers
}

func scanLines(content []byte, fn func(line string)) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(scanner.Text())
	}
}
