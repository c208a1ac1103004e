package llm

import (
	"testing"

	"github.com/greenbyte/sustain/schema"
	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt(t *testing.T) {
	py := SystemPrompt(schema.Python)
	assert.Contains(t, py, "expert for Python")
	assert.Contains(t, py, "1. Efficient data structures")
	assert.Contains(t, py, answerRule)

	assert.Equal(t, SystemPrompt(schema.CPP), SystemPrompt(schema.C))
	assert.True(t, HasSpecificPrompt(schema.C))
	assert.False(t, HasSpecificPrompt(schema.PHP))

	php := SystemPrompt(schema.PHP)
	assert.Contains(t, php, "reduce environmental impact")
	assert.Contains(t, php, answerRule)
}

func TestUserPrompt(t *testing.T) {
	whole := UserPrompt(schema.Python, []byte("x = 1"), nil)
	assert.Contains(t, whole, "Optimize the following Python code")
	assert.Contains(t, whole, "```python\nx = 1\n```")
	assert.NotContains(t, whole, "ORIGINAL CODE")

	withHead := UserPrompt(schema.Go, []byte("new"), []byte("old"))
	assert.Contains(t, withHead, "ORIGINAL CODE:\n```\nold\n```")
	assert.Contains(t, withHead, "MODIFIED CODE:\n```go\nnew\n```")
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		original string
		expected string
	}{
		{"fenced", "```python\nprint(1)\n```", "print(0)", "print(1)"},
		{"fenced keeps newline", "```python\nprint(1)\n```\n", "print(0)\n", "print(1)\n"},
		{"plain", "  x := 1  \n", "", "x := 1"},
		{"cpp fence", "```c++\nint main() {}\n```", "int main(){}\n", "int main() {}\n"},
		{"only fences", "```\n```", "a\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFences(tt.answer, []byte(tt.original)))
		})
	}
}
