package llm

import (
	"regexp"
	"strings"
)

var (
	openFenceRe  = regexp.MustCompile("(?m)^```[\\w+#-]*[ \\t]*\\n?")
	closeFenceRe = regexp.MustCompile("(?m)\\n?```[ \\t]*$")
)

// StripCodeFences removes markdown code fences and surrounding whitespace
// from a model answer. A trailing newline is restored when the original
// content ended with one.
func StripCodeFences(answer string, original []byte) string {
	out := openFenceRe.ReplaceAllString(answer, "")
	out = closeFenceRe.ReplaceAllString(out, "")
	out = strings.TrimSpace(out)
	if out != "" && len(original) > 0 && original[len(original)-1] == '\n' {
		out += "\n"
	}
	return out
}
