// Package runner hosts executions for the bell: it wraps child processes
// and piped input, emitting the start and end events the detector consumes.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/termbell/termbell/internal/bell"
)

// execution adapts a command run or an input stream to bell.Execution.
type execution struct {
	id          string
	commandLine string
	output      io.Reader // nil when output cannot be read
	exitCode    *int
}

func (e *execution) ID() string          { return e.id }
func (e *execution) CommandLine() string { return e.commandLine }

func (e *execution) ExitCode() (int, bool) {
	if e.exitCode == nil {
		return 0, false
	}
	return *e.exitCode, true
}

// Output yields raw chunks as they arrive. Stopping early leaves the rest
// of the stream unread; the host keeps it flowing.
func (e *execution) Output() iter.Seq2[string, error] {
	if e.output == nil {
		return nil
	}
	r := e.output
	return func(yield func(string, error) bool) {
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				if !yield(string(buf[:n]), nil) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield("", err)
				}
				return
			}
		}
	}
}

// Run executes argv as a child process, teeing its output to this process's
// stdout/stderr while the bell scans it live. Returns the child's exit code.
func Run(ctx context.Context, b *bell.Bell, terminal string, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("no command given")
	}

	pr, pw := io.Pipe()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = io.MultiWriter(os.Stdout, pw)
	cmd.Stderr = io.MultiWriter(os.Stderr, pw)

	exe := &execution{
		id:          uuid.NewString(),
		commandLine: strings.Join(argv, " "),
		output:      pr,
	}

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return -1, fmt.Errorf("failed to start %q: %w", argv[0], err)
	}
	log.Debug().Str("execution", exe.id).Str("command", exe.commandLine).Msg("Execution started")

	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		b.HandleStart(ctx, terminal, exe)
		// The scan can settle without touching the pipe (the seed window
		// already matched) or mid-stream (token found in an early chunk).
		// Keep draining either way so the child's writes never block on an
		// abandoned reader.
		_, _ = io.Copy(io.Discard, pr)
	}()

	waitErr := cmd.Wait()
	_ = pw.Close()
	// The start-path scan settles before the end event is raised, matching
	// the ordering a terminal host guarantees.
	<-scanDone

	code := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			return -1, fmt.Errorf("failed to run %q: %w", argv[0], waitErr)
		}
	}
	exe.exitCode = &code

	b.HandleEnd(ctx, terminal, exe)
	log.Debug().Str("execution", exe.id).Int("exit_code", code).Msg("Execution ended")
	return code, nil
}

// Scan feeds an already-flowing output stream (typically a pipe from another
// process) through the live-output detection path. commandLine labels the
// stream and is matched first, the way a terminal seed window would be.
func Scan(ctx context.Context, b *bell.Bell, terminal, commandLine string, input io.Reader) {
	exe := &execution{
		id:          uuid.NewString(),
		commandLine: commandLine,
		output:      input,
	}
	b.HandleStart(ctx, terminal, exe)
	// Keep the stream flowing for downstream consumers after the scan
	// settles early.
	_, _ = io.Copy(io.Discard, input)
}
