package schema

import (
	"fmt"
	"strings"
)

// languageAliases maps user-facing names onto language keys.
var languageAliases = map[string]Language{
	"python":     Python,
	"py":         Python,
	"javascript": JavaScript,
	"js":         JavaScript,
	"node":       JavaScript,
	"typescript": TypeScript,
	"ts":         TypeScript,
	"java":       Java,
	"c":          C,
	"cpp":        CPP,
	"c++":        CPP,
	"csharp":     CSharp,
	"c#":         CSharp,
	"go":         Go,
	"golang":     Go,
	"ruby":       Ruby,
	"rust":       Rust,
	"php":        PHP,
	"shell":      Shell,
	"bash":       Shell,
	"sh":         Shell,
	"zsh":        Shell,
}

// ParseLanguage resolves a language name or alias. The empty string maps to Unknown.
func ParseLanguage(name string) (Language, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return Unknown, nil
	}
	if lang, ok := languageAliases[n]; ok {
		return lang, nil
	}
	return Unknown, fmt.Errorf("unsupported language %q", name)
}

// Family returns the dependency-counting family for the language.
func (l Language) Family() LanguageFamily {
	switch l {
	case Python:
		return FamilyImport
	case JavaScript, TypeScript:
		return FamilyModule
	case C, CPP:
		return FamilyHeader
	default:
		return FamilyNone
	}
}

// LizardName returns the value for lizard's -l flag, or "" to let lizard
// detect the language from the file extension.
func (l Language) LizardName() string {
	switch l {
	case Python, JavaScript, TypeScript, Java, Go, Ruby, Rust, PHP, CSharp:
		return string(l)
	case C, CPP:
		return "cpp"
	default:
		return ""
	}
}

// DisplayName is the human-readable language name.
func (l Language) DisplayName() string {
	switch l {
	case Python:
		return "Python"
	case JavaScript:
		return "JavaScript"
	case TypeScript:
		return "TypeScript"
	case Java:
		return "Java"
	case C:
		return "C"
	case CPP:
		return "C++"
	case CSharp:
		return "C#"
	case Go:
		return "Go"
	case Ruby:
		return "Ruby"
	case Rust:
		return "Rust"
	case PHP:
		return "PHP"
	case Shell:
		return "Shell"
	default:
		return "Code"
	}
}
