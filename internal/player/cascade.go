// Package player launches external audio players, falling through an
// ordered candidate list until one succeeds.
package player

import (
	"errors"
	"os/exec"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/termbell/termbell/internal/notify"
)

// CaptureLimit caps the captured stdout/stderr per spawned player. Once a
// stream hits the cap, further data is dropped; already-captured text is
// never truncated.
const CaptureLimit = 8192

// capWriter collects up to limit bytes and silently drops the rest. The cut
// at the cap lands on a rune boundary so the captured text stays valid UTF-8.
type capWriter struct {
	buf   strings.Builder
	limit int
}

func (w *capWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining > 0 {
		if len(p) > remaining {
			cut := remaining
			for cut > 0 && !utf8.RuneStart(p[cut]) {
				cut--
			}
			w.buf.Write(p[:cut])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}

func (w *capWriter) String() string {
	return w.buf.String()
}

// outcome is the settled result of one playback attempt. os/exec collapses
// the launch-error and exit events into Start/Wait, so a single outcome per
// candidate is guaranteed.
type outcome struct {
	launchErr error
	exitCode  int
	detail    string // process state description, includes a signal if any
	stdout    string
	stderr    string
}

type runFunc func(c Candidate) outcome

// Cascade plays a sound through the first working candidate. Exhausting all
// candidates warns the user once per process lifetime.
type Cascade struct {
	sink notify.Sink
	run  runFunc

	mu            sync.Mutex
	warnedMissing bool
}

// NewCascade creates a Cascade reporting through the given sink.
func NewCascade(sink notify.Sink) *Cascade {
	return &Cascade{sink: sink, run: runCandidate}
}

// Play tries each candidate in order, stopping at the first zero exit.
// Spawn failures and non-zero exits are logged and the cascade advances.
func (c *Cascade) Play(candidates []Candidate, failureMessage string) {
	for _, cand := range candidates {
		out := c.run(cand)
		switch {
		case out.launchErr != nil:
			c.sink.Logf("player %s failed to launch: %v", cand.Label, out.launchErr)
		case out.exitCode == 0:
			c.sink.Logf("player %s played the bell%s", cand.Label, captureSummary(out))
			return
		default:
			c.sink.Logf("player %s exited with code %d (%s)%s", cand.Label, out.exitCode, out.detail, captureSummary(out))
		}
	}

	c.sink.Logf("all %d playback candidates failed", len(candidates))
	c.mu.Lock()
	warned := c.warnedMissing
	c.warnedMissing = true
	c.mu.Unlock()
	if !warned {
		c.sink.Warn(failureMessage, true)
		c.sink.ShowLog()
	}
}

func captureSummary(out outcome) string {
	var parts []string
	if s := strings.TrimSpace(out.stdout); s != "" {
		parts = append(parts, "stdout: "+s)
	}
	if s := strings.TrimSpace(out.stderr); s != "" {
		parts = append(parts, "stderr: "+s)
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, "; ") + "]"
}

// runCandidate spawns one player with stdin closed and both output streams
// captured up to CaptureLimit.
func runCandidate(cand Candidate) outcome {
	cmd := exec.Command(cand.Command, cand.Args...)
	stdout := &capWriter{limit: CaptureLimit}
	stderr := &capWriter{limit: CaptureLimit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Stdin = nil
	hideWindow(cmd)

	if err := cmd.Start(); err != nil {
		return outcome{launchErr: err}
	}
	log.Debug().Str("player", cand.Label).Msg("Playback candidate started")

	err := cmd.Wait()
	out := outcome{stdout: stdout.String(), stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.exitCode = exitErr.ExitCode()
			out.detail = exitErr.ProcessState.String()
		} else {
			out.exitCode = -1
			out.detail = err.Error()
		}
	}
	return out
}
