package bell

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termbell/termbell/internal/detect"
	"github.com/termbell/termbell/internal/player"
	"github.com/termbell/termbell/internal/sound"
)

type stubStore struct {
	enabled  bool
	cooldown time.Duration
	custom   string
}

func (s *stubStore) Enabled() bool                     { return s.enabled }
func (s *stubStore) Cooldown() time.Duration           { return s.cooldown }
func (s *stubStore) CustomSoundPath() string           { return s.custom }
func (s *stubStore) SetCustomSoundPath(p string) error { s.custom = p; return nil }

type stubSink struct {
	warns []string
	logs  []string
}

func (s *stubSink) Info(string)                 {}
func (s *stubSink) Warn(message string, _ bool) { s.warns = append(s.warns, message) }
func (s *stubSink) Error(string)                {}
func (s *stubSink) Logf(format string, args ...any) {
	s.logs = append(s.logs, fmt.Sprintf(format, args...))
}
func (s *stubSink) ShowLog() {}

type fakeExec struct {
	id          string
	commandLine string
	chunks      []string
	exitCode    *int
}

func (e *fakeExec) ID() string          { return e.id }
func (e *fakeExec) CommandLine() string { return e.commandLine }

func (e *fakeExec) Output() iter.Seq2[string, error] {
	if e.chunks == nil {
		return nil
	}
	return func(yield func(string, error) bool) {
		for _, c := range e.chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func (e *fakeExec) ExitCode() (int, bool) {
	if e.exitCode == nil {
		return 0, false
	}
	return *e.exitCode, true
}

func exited(code int) *int { return &code }

// newTestBell wires a Bell with a real resolver pointing at an existing
// sound file and a counting dispatch, so no audio process is ever spawned.
func newTestBell(t *testing.T, store *stubStore) (*Bell, *stubSink, *int) {
	t.Helper()

	if store.custom == "" {
		soundFile := filepath.Join(t.TempDir(), "bell.wav")
		require.NoError(t, os.WriteFile(soundFile, []byte("RIFF"), 0644))
		store.custom = soundFile
	}

	sink := &stubSink{}
	resolver := sound.NewResolver(store, sink, "")
	b := New(store, sink, resolver, player.NewCascade(sink))

	dispatched := 0
	b.dispatch = func(string) { dispatched++ }
	return b, sink, &dispatched
}

func TestFire_Disabled(t *testing.T) {
	b, _, dispatched := newTestBell(t, &stubStore{enabled: false})

	b.Fire(Trigger{Token: "error:", Source: SourceOutput})

	assert.Zero(t, *dispatched)
}

func TestFire_CooldownSuppresses(t *testing.T) {
	b, sink, dispatched := newTestBell(t, &stubStore{enabled: true, cooldown: 1200 * time.Millisecond})

	now := time.Now()
	b.now = func() time.Time { return now }
	b.Fire(Trigger{Token: "error:", Source: SourceOutput})

	b.now = func() time.Time { return now.Add(500 * time.Millisecond) }
	b.Fire(Trigger{Token: "failed", Source: SourceCommandLine})

	assert.Equal(t, 1, *dispatched)
	assert.Contains(t, sink.logs[len(sink.logs)-1], "suppressed by cooldown")

	b.now = func() time.Time { return now.Add(1500 * time.Millisecond) }
	b.Fire(Trigger{Token: "failed", Source: SourceCommandLine})

	assert.Equal(t, 2, *dispatched)
}

func TestFire_NegativeCooldownClampsToZero(t *testing.T) {
	b, _, dispatched := newTestBell(t, &stubStore{enabled: true, cooldown: -time.Second})

	b.Fire(Trigger{Token: "error:", Source: SourceOutput})
	b.Fire(Trigger{Token: "error:", Source: SourceOutput})

	assert.Equal(t, 2, *dispatched)
}

func TestHandleStart_MatchesLiveOutput(t *testing.T) {
	b, sink, dispatched := newTestBell(t, &stubStore{enabled: true})

	exe := &fakeExec{
		id:          "exec-1",
		commandLine: "npm run build",
		chunks:      []string{"Compiling...\n", "Error: Cannot find module 'x'\n"},
	}
	b.HandleStart(context.Background(), "term-1", exe)

	assert.Equal(t, 1, *dispatched)
	assert.Contains(t, sink.logs[len(sink.logs)-1], SourceOutput)
}

func TestHandleEnd_CommandLineToken(t *testing.T) {
	b, sink, dispatched := newTestBell(t, &stubStore{enabled: true})

	exe := &fakeExec{id: "exec-1", commandLine: "echo deploy failed", exitCode: exited(0)}
	b.HandleEnd(context.Background(), "term-1", exe)

	assert.Equal(t, 1, *dispatched)
	assert.Contains(t, sink.logs[len(sink.logs)-1], SourceCommandLine)
}

func TestHandleEnd_DirectoryChangeFallback(t *testing.T) {
	b, sink, dispatched := newTestBell(t, &stubStore{enabled: true})

	exe := &fakeExec{id: "exec-1", commandLine: "cd /nonexistent", exitCode: exited(1)}
	b.HandleEnd(context.Background(), "term-1", exe)

	assert.Equal(t, 1, *dispatched)
	assert.Contains(t, sink.logs[len(sink.logs)-1], string(detect.TokenDirectoryChangeFailed))
}

func TestHandleEnd_DirectoryChangeCleanExit(t *testing.T) {
	b, _, dispatched := newTestBell(t, &stubStore{enabled: true})

	exe := &fakeExec{id: "exec-1", commandLine: "cd /tmp", exitCode: exited(0)}
	b.HandleEnd(context.Background(), "term-1", exe)

	assert.Zero(t, *dispatched)
}

func TestHandleEnd_NonDirectoryCommandNoFallback(t *testing.T) {
	b, _, dispatched := newTestBell(t, &stubStore{enabled: true})

	exe := &fakeExec{id: "exec-1", commandLine: "npm run build", exitCode: exited(1)}
	b.HandleEnd(context.Background(), "term-1", exe)

	assert.Zero(t, *dispatched)
}

func TestDedup_StartThenEndFiresOnce(t *testing.T) {
	b, _, dispatched := newTestBell(t, &stubStore{enabled: true})

	exe := &fakeExec{
		id:          "exec-1",
		commandLine: "cd /missing",
		chunks:      []string{"bash: cd: /missing: No such file or directory\n"},
		exitCode:    exited(1),
	}

	// Start path rings on the output token; the end path's directory-change
	// fallback must then stay silent for the same execution.
	b.HandleStart(context.Background(), "term-1", exe)
	b.HandleEnd(context.Background(), "term-1", exe)

	assert.Equal(t, 1, *dispatched)
}

func TestDedup_RetiredAfterEnd(t *testing.T) {
	b, _, _ := newTestBell(t, &stubStore{enabled: true})

	exe := &fakeExec{id: "exec-1", commandLine: "echo failed", exitCode: exited(0)}
	b.HandleEnd(context.Background(), "term-1", exe)

	assert.False(t, b.rang.seen("exec-1"), "dedup entries are forgotten once the execution ends")
}

func TestHandleStart_NilExecution(t *testing.T) {
	b, _, dispatched := newTestBell(t, &stubStore{enabled: true})

	b.HandleStart(context.Background(), "term-1", nil)
	b.HandleEnd(context.Background(), "term-1", nil)

	assert.Zero(t, *dispatched)
}
