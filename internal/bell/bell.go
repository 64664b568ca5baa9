// Package bell decides when a failed command should ring and dispatches
// playback.
package bell

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/termbell/termbell/internal/config"
	"github.com/termbell/termbell/internal/detect"
	"github.com/termbell/termbell/internal/notify"
	"github.com/termbell/termbell/internal/player"
	"github.com/termbell/termbell/internal/sound"
)

// Trigger sources, recorded in the diagnostic log.
const (
	SourceOutput       = "terminal output"
	SourceCommandLine  = "command line"
	SourceExitFallback = "failed command fallback"
	SourceManual       = "manual"
)

const missingPlayerMessage = "termbell could not find a working audio player on this system"

// Trigger carries one detected failure signal into Fire.
type Trigger struct {
	Token     detect.Token
	Source    string
	Terminal  string
	Execution Execution // nil for manual triggers
}

// Bell owns the process-wide trigger state: the cooldown timestamp and the
// set of executions that already rang. Playback is dispatched fire-and-forget.
type Bell struct {
	cfg     config.Store
	sink    notify.Sink
	sounds  *sound.Resolver
	cascade *player.Cascade
	goos    string

	now      func() time.Time
	dispatch func(soundPath string)

	mu        sync.Mutex
	lastFired time.Time
	rang      *dedupSet
}

// New creates a Bell.
func New(cfg config.Store, sink notify.Sink, sounds *sound.Resolver, cascade *player.Cascade) *Bell {
	b := &Bell{
		cfg:     cfg,
		sink:    sink,
		sounds:  sounds,
		cascade: cascade,
		goos:    runtime.GOOS,
		now:     time.Now,
		rang:    newDedupSet(),
	}
	b.dispatch = b.playAsync
	return b
}

func (b *Bell) playAsync(soundPath string) {
	candidates := player.Candidates(b.goos, soundPath)
	go b.cascade.Play(candidates, missingPlayerMessage)
}

// HandleStart watches the live output of a freshly started execution and
// rings on the first trigger token. It blocks until a token is found, the
// output ends or ctx is cancelled, so hosts run it on its own goroutine.
func (b *Bell) HandleStart(ctx context.Context, terminal string, exec Execution) {
	defer b.recoverHandler("start")
	if exec == nil || b.rang.seen(exec.ID()) {
		return
	}
	tok, ok := detect.ScanOutput(ctx, exec.CommandLine(), exec.Output())
	if !ok {
		return
	}
	b.Fire(Trigger{Token: tok, Source: SourceOutput, Terminal: terminal, Execution: exec})
}

// HandleEnd inspects a finished execution: first the full command-line text,
// then the non-zero-exit fallback for directory-change commands. The
// execution's dedup entry is retired afterwards; no further events can
// arrive for it.
func (b *Bell) HandleEnd(ctx context.Context, terminal string, exec Execution) {
	defer b.recoverHandler("end")
	if exec == nil {
		return
	}
	defer b.rang.forget(exec.ID())
	if b.rang.seen(exec.ID()) {
		return
	}

	commandLine := detect.CleanTerminalText(exec.CommandLine())
	if tok, ok := detect.FindToken(commandLine); ok {
		b.Fire(Trigger{Token: tok, Source: SourceCommandLine, Terminal: terminal, Execution: exec})
		return
	}
	if code, ok := exec.ExitCode(); ok && code != 0 && detect.IsDirectoryChangeCommand(commandLine) {
		b.Fire(Trigger{Token: detect.TokenDirectoryChangeFailed, Source: SourceExitFallback, Terminal: terminal, Execution: exec})
	}
}

// Fire gates a detected trigger through the enabled flag and the cooldown,
// resolves the sound and dispatches playback without waiting for it. The
// cooldown timestamp only advances on a successful dispatch.
func (b *Bell) Fire(t Trigger) {
	if !b.cfg.Enabled() {
		log.Debug().Str("source", t.Source).Msg("Bell disabled, ignoring trigger")
		return
	}

	cooldown := b.cfg.Cooldown()
	if cooldown < 0 {
		cooldown = 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if !b.lastFired.IsZero() && now.Sub(b.lastFired) < cooldown {
		b.sink.Logf("bell suppressed by cooldown: token %q via %s", t.Token, t.Source)
		return
	}

	soundPath, ok := b.sounds.Resolve()
	if !ok {
		return
	}

	b.dispatch(soundPath)
	b.lastFired = now
	if t.Execution != nil {
		b.rang.mark(t.Execution.ID())
	}
	b.sink.Logf("bell fired: token %q via %s (terminal %q)", t.Token, t.Source, t.Terminal)
}

// Ring plays the current sound immediately, bypassing detection, cooldown
// and dedup. Used by the manual test command; blocks until the cascade
// settles.
func (b *Bell) Ring() bool {
	soundPath, ok := b.sounds.Resolve()
	if !ok {
		return false
	}
	b.cascade.Play(player.Candidates(b.goos, soundPath), missingPlayerMessage)
	return true
}

// recoverHandler keeps a panic inside detection from destabilizing the host
// event loop.
func (b *Bell) recoverHandler(path string) {
	if r := recover(); r != nil {
		log.Error().Interface("panic", r).Str("path", path).Msg("Recovered from detection failure")
	}
}
