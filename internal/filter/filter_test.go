package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoRulesKeepsEverything(t *testing.T) {
	s, err := Parse(strings.NewReader("# nothing here\n\n"))
	require.NoError(t, err)
	assert.True(t, s.Matches("com.example.AnyTest"))
}

func TestParseIncludeExclude(t *testing.T) {
	s, err := Parse(strings.NewReader(`
INCLUDE CLASS_NAME com\.example\..*
EXCLUDE CLASS_NAME com\.example\.Skip.*
`))
	require.NoError(t, err)

	assert.True(t, s.Matches("com.example.FooTest"))
	assert.False(t, s.Matches("com.example.SkipTest"))
	assert.False(t, s.Matches("org.other.BarTest"))
}

func TestParseRejectsMalformedLine(t *testing.T) {
	_, err := Parse(strings.NewReader("INCLUDE com.example.Foo"))
	assert.Error(t, err)
}

func TestParseRejectsUnknownDirective(t *testing.T) {
	_, err := Parse(strings.NewReader("MAYBE CLASS_NAME com.example.Foo"))
	assert.Error(t, err)
}

func TestParseYAMLForm(t *testing.T) {
	s, err := parseYAML([]byte(`
include:
  - "com\\.example\\..*"
exclude:
  - "com\\.example\\.Skip.*"
`))
	require.NoError(t, err)

	assert.True(t, s.Matches("com.example.FooTest"))
	assert.False(t, s.Matches("com.example.SkipTest"))
}
