package parse

import (
	"testing"

	"github.com/greenbyte/sustain/schema"
	"github.com/stretchr/testify/assert"
)

func TestParseRadonRaw(t *testing.T) {
	report := `sample.py
    LOC: 25
    LLOC: 14
    SLOC: 18
    Comments: 2
** Total **
    LOC: 25
    LLOC: 15
    SLOC: 18
`
	ms, err := ParseRadonRaw(report)
	assert.NoError(t, err)
	assert.Equal(t, schema.MetricSet{schema.LLOC: 15}, ms)
}

func TestParseRadonRaw_NoMatch(t *testing.T) {
	ms, err := ParseRadonRaw("sample.py\n    ERROR: invalid syntax\n")
	assert.ErrorIs(t, err, ErrNoLLOC)
	assert.Empty(t, ms)
}
