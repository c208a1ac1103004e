package core

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"

	"github.com/greenbyte/sustain/schema"
)

// shebangLines is how many leading lines are searched for an interpreter line.
const shebangLines = 5

var extensionLanguages = map[string]schema.Language{
	".py":   schema.Python,
	".pyw":  schema.Python,
	".js":   schema.JavaScript,
	".jsx":  schema.JavaScript,
	".mjs":  schema.JavaScript,
	".cjs":  schema.JavaScript,
	".ts":   schema.TypeScript,
	".tsx":  schema.TypeScript,
	".java": schema.Java,
	".c":    schema.C,
	".h":    schema.C,
	".cpp":  schema.CPP,
	".cc":   schema.CPP,
	".cxx":  schema.CPP,
	".hpp":  schema.CPP,
	".hh":   schema.CPP,
	".cs":   schema.CSharp,
	".go":   schema.Go,
	".rb":   schema.Ruby,
	".rs":   schema.Rust,
	".php":  schema.PHP,
	".sh":   schema.Shell,
	".bash": schema.Shell,
	".zsh":  schema.Shell,
}

// interpreterLanguages is checked in order, so "python" wins over "sh" in "/bin/sh python".
var interpreterLanguages = []struct {
	needle string
	lang   schema.Language
}{
	{"python", schema.Python},
	{"node", schema.JavaScript},
	{"deno", schema.TypeScript},
	{"ruby", schema.Ruby},
	{"php", schema.PHP},
	{"bash", schema.Shell},
	{"zsh", schema.Shell},
	{"sh", schema.Shell},
}

var primaryExtensions = map[schema.Language]string{
	schema.Python:     ".py",
	schema.JavaScript: ".js",
	schema.TypeScript: ".ts",
	schema.Java:       ".java",
	schema.C:          ".c",
	schema.CPP:        ".cpp",
	schema.CSharp:     ".cs",
	schema.Go:         ".go",
	schema.Ruby:       ".rb",
	schema.Rust:       ".rs",
	schema.PHP:        ".php",
	schema.Shell:      ".sh",
}

// DetectLanguage guesses the language of path from its extension, then from a
// shebang in the first lines of content. It returns schema.Unknown otherwise.
func DetectLanguage(path string, content []byte) schema.Language {
	if lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return detectShebang(content)
}

// ResolveLanguage returns forced when set, else the detected language.
func ResolveLanguage(forced schema.Language, path string, content []byte) schema.Language {
	if forced != schema.Unknown {
		return forced
	}
	return DetectLanguage(path, content)
}

// LanguageExtension returns the canonical file extension of lang, or "".
func LanguageExtension(lang schema.Language) string {
	return primaryExtensions[lang]
}

func detectShebang(content []byte) schema.Language {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for i := 0; i < shebangLines && scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#!") {
			continue
		}
		interp := strings.ToLower(line[2:])
		for _, il := range interpreterLanguages {
			for _, field := range strings.Fields(interp) {
				if filepath.Base(field) == il.needle || strings.HasPrefix(filepath.Base(field), il.needle) {
					return il.lang
				}
			}
		}
		return schema.Unknown
	}
	return schema.Unknown
}
