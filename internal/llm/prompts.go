package llm

import (
	"fmt"
	"strings"

	"github.com/greenbyte/sustain/schema"
)

const answerRule = "Only return the optimized code without any explanations, comments about changes, or markdown formatting."

var focusAreas = map[schema.Language][]string{
	schema.Python: {
		"Efficient data structures and containers",
		"Lower memory usage (generators, no needless copies)",
		"Better algorithmic complexity",
		"Fewer I/O operations (buffering, batching)",
		"Built-in functions and the standard library",
		"Memoization and lazy evaluation",
	},
	schema.JavaScript: {
		"Fewer DOM manipulations and reflows",
		"Event delegation, debouncing and throttling",
		"Concurrent async work (Promise.all, no needless awaits)",
		"Leak-free closures and memory management",
		"Map, Set and algorithms better than O(n^2)",
		"Fewer unnecessary re-renders",
	},
	schema.TypeScript: {
		"Precise types and interfaces instead of any",
		"Generics for reuse",
		"Concurrent async work (Promise.all, no needless awaits)",
		"Leak-free closures and memory management",
		"Map, Set and algorithms better than O(n^2)",
		"Compile-time checks that remove runtime overhead",
	},
	schema.Java: {
		"Less object churn and GC pressure",
		"try-with-resources for every resource",
		"The right collection implementations and efficient streams",
		"Cheap synchronization and concurrent structures",
		"Buffered and NIO-based I/O",
		"StringBuilder over repeated concatenation",
		"Primitives instead of wrappers where possible",
	},
	schema.CPP: {
		"RAII and smart pointers",
		"Move semantics and copy elision",
		"Const references instead of copies",
		"Cache-friendly loops",
		"Fewer allocations",
		"constexpr computation",
		"STL containers and algorithms",
	},
	schema.CSharp: {
		"LINQ without repeated enumeration",
		"async/await with ConfigureAwait(false)",
		"IDisposable, structs and Span<T>",
		"The right collection implementations",
		"Fewer allocations (StringBuilder, interpolation)",
		"Cheap exception handling",
	},
	schema.Go: {
		"Goroutines and channels without leaks or deadlocks",
		"Errors instead of panics",
		"Struct layout and fewer allocations",
		"sync.Pool and pointer vs value choices",
		"Buffered I/O with bufio",
		"The standard library (strings, bytes, sort)",
	},
	schema.Ruby: {
		"Less object creation and GC pressure",
		"Iterators without intermediate arrays",
		"Symbols and lazy enumerators",
		"Buffered I/O",
		"Built-in methods over reimplementations",
		"No N+1 queries",
	},
	schema.Rust: {
		"Borrowing instead of cloning",
		"Correct lifetimes",
		"Standard library data structures",
		"Stack over heap (Box, Rc, Arc only when needed)",
		"Zero-cost abstractions",
		"Result instead of panic",
	},
	schema.Shell: {
		"Builtins instead of spawning processes",
		"Streaming file handling with awk and sed",
		"Fewer pipes",
		"No shell loops for text processing",
		"Cheap variable and string handling",
		"Sparing command substitution",
	},
}

var defaultFocusAreas = []string{
	"Less CPU work (fewer operations)",
	"Lower memory consumption",
	"Better time and space complexity",
	"Efficient data structures",
	"Fewer disk and network operations",
	"Energy-efficient coding patterns",
}

// SystemPrompt returns the system prompt for lang. C shares the C++ prompt.
func SystemPrompt(lang schema.Language) string {
	if lang == schema.C {
		lang = schema.CPP
	}
	areas, ok := focusAreas[lang]
	if !ok {
		return buildSystemPrompt("You are a sustainable coding expert that optimizes code to reduce environmental impact.", defaultFocusAreas)
	}
	return buildSystemPrompt(fmt.Sprintf("You are a sustainable coding expert for %s.", lang.DisplayName()), areas)
}

// HasSpecificPrompt reports whether lang has its own system prompt.
func HasSpecificPrompt(lang schema.Language) bool {
	if lang == schema.C {
		return true
	}
	_, ok := focusAreas[lang]
	return ok
}

func buildSystemPrompt(intro string, areas []string) string {
	var sb strings.Builder
	sb.WriteString(intro)
	sb.WriteString("\nFocus on these optimization areas:\n")
	for i, area := range areas {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, area)
	}
	sb.WriteString(answerRule)
	return sb.String()
}

// UserPrompt asks for an optimized version of modified. When head is not nil
// the committed version is included so the model sees what changed.
func UserPrompt(lang schema.Language, modified, head []byte) string {
	name := lang.DisplayName()
	fence := lang.LizardName()
	if fence == "" {
		fence = string(lang)
	}

	var sb strings.Builder
	if head != nil {
		fmt.Fprintf(&sb, "You are given an original and a modified version of a %s file. Optimize the MODIFIED version for sustainability and efficiency, considering the changes made.\n", name)
		sb.WriteString("Focus on CPU, memory, and energy reduction. Return ONLY the fully optimized MODIFIED code, nothing else. Preserve the core functionality.\n\n")
		fmt.Fprintf(&sb, "ORIGINAL CODE:\n```\n%s\n```\n\nMODIFIED CODE:\n```%s\n%s\n```\n", head, fence, modified)
		return sb.String()
	}

	fmt.Fprintf(&sb, "Optimize the following %s code for sustainability and efficiency.\n", name)
	sb.WriteString("Focus on CPU, memory, and energy reduction. Return ONLY the fully optimized code, nothing else. Preserve the core functionality.\n\n")
	fmt.Fprintf(&sb, "```%s\n%s\n```\n", fence, modified)
	return sb.String()
}
