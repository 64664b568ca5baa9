package detect

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanTerminalText strips terminal control sequences (CSI, OSC and
// single-character escapes) from raw terminal output and collapses carriage
// returns into newlines. Already-clean text passes through unchanged.
func CleanTerminalText(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.ReplaceAll(ansi.Strip(raw), "\r", "\n")
}

// NormalizeForMatch lowercases text, collapses whitespace runs to a single
// space and trims the ends. The result is what token matching operates on.
func NormalizeForMatch(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.ToLower(text), " "))
}
