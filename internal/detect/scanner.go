package detect

import (
	"context"
	"iter"

	"github.com/rs/zerolog/log"
)

// OutputWindowSize is the maximum number of characters of output retained
// for token matching. Anything older falls off the front of the window.
const OutputWindowSize = 1024

// tailOf returns the trailing max characters of s.
func tailOf(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[len(runes)-max:])
}

// ScanOutput watches a live, chunked output sequence for a trigger token
// without buffering the whole stream. The trailing window is seeded from the
// command line and each incoming chunk is cleaned, appended and tested; the
// scan stops at the first match without draining the rest of the sequence.
//
// A token split apart by window truncation before it was tested is a miss.
// That is the accepted cost of the bounded window.
//
// A nil output sequence is not an error: the command line alone is tested.
// Read failures are logged and reported as no-match; they must never
// propagate to the caller's event loop.
func ScanOutput(ctx context.Context, commandLine string, output iter.Seq2[string, error]) (Token, bool) {
	window := tailOf(CleanTerminalText(commandLine), OutputWindowSize)
	if tok, ok := FindToken(window); ok {
		return tok, true
	}
	if output == nil {
		return "", false
	}

	for chunk, err := range output {
		if err != nil {
			log.Debug().Err(err).Msg("Output read failed, stopping scan")
			return "", false
		}
		if ctx.Err() != nil {
			return "", false
		}
		window += CleanTerminalText(chunk)
		if tok, ok := FindToken(window); ok {
			return tok, true
		}
		window = tailOf(window, OutputWindowSize)
	}
	return "", false
}
