// Package detect scans terminal text for signals that a command failed.
package detect

import (
	"slices"
	"strings"
)

// Token is a substring whose presence in normalized terminal text indicates
// a likely failure.
type Token string

// TokenDirectoryChangeFailed is synthesized when a directory-change command
// exits non-zero without printing a recognizable token of its own.
const TokenDirectoryChangeFailed Token = "directory change failed"

// catalog is the fixed trigger-token set. Order does not rank tokens: the
// match with the smallest offset in the scanned text wins, and catalog order
// only breaks ties at the same offset.
var catalog = []Token{
	"error:",
	"fail:",
	"failed",
	"fatal:",
	"exception",
	"traceback",
	"command not found",
	"no such file or directory",
	"is not recognized as",
	TokenDirectoryChangeFailed,
}

// Catalog returns a copy of the trigger-token catalog.
func Catalog() []Token {
	return slices.Clone(catalog)
}

// FindToken returns the catalog token occurring earliest in the normalized
// text. Ties at the same offset go to the token listed first in the catalog.
func FindToken(text string) (Token, bool) {
	normalized := NormalizeForMatch(text)
	if normalized == "" {
		return "", false
	}

	var best Token
	bestIdx := -1
	for _, tok := range catalog {
		needle := NormalizeForMatch(string(tok))
		if needle == "" {
			continue
		}
		idx := strings.Index(normalized, needle)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best, bestIdx = tok, idx
		}
	}
	if bestIdx < 0 {
		return "", false
	}
	return best, true
}

var directoryChangeCommands = []string{"cd", "chdir", "set-location"}

// IsDirectoryChangeCommand reports whether the command line invokes a
// directory-change builtin, alone or with arguments.
func IsDirectoryChangeCommand(commandLine string) bool {
	normalized := NormalizeForMatch(commandLine)
	for _, name := range directoryChangeCommands {
		if normalized == name || strings.HasPrefix(normalized, name+" ") {
			return true
		}
	}
	return false
}
