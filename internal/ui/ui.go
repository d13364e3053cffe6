// Package ui provides terminal styling and the interactive search view.
package ui

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

// Config configures terminal output.
type Config struct {
	Output     io.Writer
	Input      io.Reader
	ForcePlain bool
	NoColor    bool
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithForcePlain disables the interactive view.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithInput sets the reader keystrokes come from.
func WithInput(r io.Reader) ConfigOption {
	return func(c *Config) {
		c.Input = r
	}
}

// NewConfig creates a new Config with the given output and options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Styles returns the styles for this configuration. Color is used only for
// terminals when neither --no-color nor NO_COLOR is set.
func (c Config) Styles() Styles {
	return GetStyles(c.NoColor || DetectNoColor() || !IsTTY(c.Output))
}

// Interactive reports whether the interactive view can run.
func (c Config) Interactive() bool {
	return !c.ForcePlain && IsTTY(c.Output) && !DetectCI()
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// Highlight renders text with the leading part of every word that starts
// with one of prefixes in the Match style. Matching ignores case and the
// longest prefix wins.
func Highlight(text string, prefixes []string, s Styles) string {
	if len(prefixes) == 0 || text == "" {
		return text
	}

	var b strings.Builder
	for len(text) > 0 {
		// copy separators through
		i := strings.IndexFunc(text, func(r rune) bool { return !isSpace(r) })
		if i < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:i])
		text = text[i:]

		end := strings.IndexFunc(text, isSpace)
		if end < 0 {
			end = len(text)
		}
		word := text[:end]
		text = text[end:]

		n := matchedPrefix(word, prefixes)
		if n == 0 {
			b.WriteString(word)
			continue
		}
		b.WriteString(s.Match.Render(word[:n]))
		b.WriteString(word[n:])
	}
	return b.String()
}

// matchedPrefix returns the byte length of the longest prefix of word that
// equals one of prefixes ignoring case.
func matchedPrefix(word string, prefixes []string) int {
	best := 0
	for _, p := range prefixes {
		runes := utf8.RuneCountInString(p)
		if runes == 0 {
			continue
		}
		n := byteOffset(word, runes)
		if n < 0 || n <= best {
			continue
		}
		if strings.EqualFold(word[:n], p) {
			best = n
		}
	}
	return best
}

// byteOffset returns the byte index after the first n runes of s, or -1 when
// s is shorter.
func byteOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	if n == 0 {
		return len(s)
	}
	return -1
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
