package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTTY_WithBuffer_ReturnsFalse(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
}

func TestIsTTY_WithNil_ReturnsFalse(t *testing.T) {
	assert.False(t, IsTTY(nil))
}

func TestNewConfig_Options(t *testing.T) {
	// Given: a config with options
	buf := &bytes.Buffer{}
	in := strings.NewReader("")
	cfg := NewConfig(buf, WithNoColor(true), WithForcePlain(true), WithInput(in))

	// Then: options are applied
	assert.Same(t, buf, cfg.Output)
	assert.Equal(t, in, cfg.Input)
	assert.True(t, cfg.NoColor)
	assert.True(t, cfg.ForcePlain)
}

func TestConfig_NonTTYIsPlain(t *testing.T) {
	// Given: output that is not a terminal
	cfg := NewConfig(&bytes.Buffer{})

	// Then: no interactive view and no color
	assert.False(t, cfg.Interactive())
	assert.False(t, cfg.Styles().Header.GetBold())
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, DetectNoColor())
}

func TestDetectCI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.True(t, DetectCI())
}

func TestHighlight(t *testing.T) {
	// A visible marker style makes the highlighted span easy to assert on.
	s := NoColorStyles()
	s.Match = s.Match.Transform(func(v string) string { return "[" + v + "]" })

	tests := []struct {
		name     string
		text     string
		prefixes []string
		want     string
	}{
		{"single prefix", "Anna Berg", []string{"an"}, "[An]na Berg"},
		{"every word", "Anna Anne", []string{"ann"}, "[Ann]a [Ann]e"},
		{"longest wins", "Annabelle", []string{"an", "anna"}, "[Anna]belle"},
		{"no match", "Bob", []string{"an"}, "Bob"},
		{"prefix longer than word", "An", []string{"anna"}, "An"},
		{"keeps separators", "  Oslo\tOdda ", []string{"o"}, "  [O]slo\t[O]dda "},
		{"multibyte", "Ødegård", []string{"ød"}, "[Ød]egård"},
		{"no prefixes", "Anna", nil, "Anna"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.prefixes, s))
		})
	}
}
