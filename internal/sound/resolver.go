// Package sound decides which audio file the bell plays.
package sound

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/termbell/termbell/internal/config"
	"github.com/termbell/termbell/internal/notify"
)

// Resolver picks the sound asset to play: a validated user-configured path,
// or the bundled default bell materialized to a temp file.
type Resolver struct {
	cfg     config.Store
	sink    notify.Sink
	workDir string // base for relative custom paths; "" means current directory
	tempDir string

	mu            sync.Mutex
	warnedInvalid bool
	cachedDefault string
}

// NewResolver creates a Resolver. workDir anchors relative custom sound
// paths and may be empty.
func NewResolver(cfg config.Store, sink notify.Sink, workDir string) *Resolver {
	return &Resolver{
		cfg:     cfg,
		sink:    sink,
		workDir: workDir,
		tempDir: os.TempDir(),
	}
}

// Resolve returns the path of the sound to play. An invalid custom path
// warns once per session and falls back to the bundled default; a missing
// default is reported as an error and resolution fails.
func (r *Resolver) Resolve() (string, bool) {
	custom := strings.TrimSpace(r.cfg.CustomSoundPath())
	if custom != "" {
		resolved := r.resolveCustom(custom)
		if fileExists(resolved) {
			r.mu.Lock()
			r.warnedInvalid = false
			r.mu.Unlock()
			log.Debug().Str("path", resolved).Msg("Using custom sound")
			return resolved, true
		}

		r.mu.Lock()
		warned := r.warnedInvalid
		r.warnedInvalid = true
		r.mu.Unlock()
		if !warned {
			r.sink.Warn(fmt.Sprintf("Custom sound %q was not found, falling back to the default bell", custom), false)
		}
	}

	path, err := r.defaultAssetPath()
	if err != nil {
		r.sink.Error(fmt.Sprintf("Default bell sound is unavailable: %v", err))
		return "", false
	}
	return path, true
}

// ResetWarning clears the invalid-custom-path warning. Called when the user
// selects or clears the custom sound.
func (r *Resolver) ResetWarning() {
	r.mu.Lock()
	r.warnedInvalid = false
	r.mu.Unlock()
}

// resolveCustom expands a leading ~ and anchors relative paths at the
// workspace directory, or the current directory when none is set.
func (r *Resolver) resolveCustom(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	base := r.workDir
	if base == "" {
		base, _ = os.Getwd()
	}
	return filepath.Join(base, path)
}

// defaultAssetPath materializes the embedded bell to a temp file once per
// process and returns its location.
func (r *Resolver) defaultAssetPath() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cachedDefault != "" && fileExists(r.cachedDefault) {
		return r.cachedDefault, nil
	}

	dir := filepath.Join(r.tempDir, "termbell")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	path := filepath.Join(dir, "bell.wav")

	if data, err := os.ReadFile(path); err == nil && bytes.Equal(data, defaultBell) {
		r.cachedDefault = path
		return path, nil
	}
	if err := os.WriteFile(path, defaultBell, 0644); err != nil {
		return "", fmt.Errorf("failed to write default sound: %w", err)
	}
	log.Debug().Str("path", path).Msg("Materialized default bell sound")
	r.cachedDefault = path
	return path, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
