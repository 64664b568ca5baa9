// Package config holds termbell's persisted settings.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	ConfigFileName = "config.json"
	ConfigDirName  = "termbell"

	// File permissions
	DirPermission  = 0755
	FilePermission = 0644
)

// DefaultCooldown is the minimum pause between two bell dispatches unless
// configured otherwise.
const DefaultCooldown = 1200 * time.Millisecond

// Store provides termbell's settings. The bell core only reads settings;
// the sound commands additionally persist the custom sound path.
type Store interface {
	Enabled() bool
	Cooldown() time.Duration
	CustomSoundPath() string
	SetCustomSoundPath(path string) error
}

// fileConfig is the on-disk JSON shape. Pointers distinguish "absent" from
// a configured zero value.
type fileConfig struct {
	Enabled         *bool    `json:"enabled,omitempty"`
	CooldownMs      *float64 `json:"cooldownMs,omitempty"`
	CustomSoundPath string   `json:"customSoundPath,omitempty"`
}

// FileStore reads and writes settings as a JSON file. A missing or
// unreadable file behaves as the default configuration.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// DefaultPath returns the default config file location under the user
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, ConfigDirName, ConfigFileName), nil
}

// NewFileStore creates a store backed by the given config file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the config file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() fileConfig {
	var cfg fileConfig
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug().Err(err).Str("path", s.path).Msg("Failed to read config file")
		}
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Failed to parse config file, using defaults")
		return fileConfig{}
	}
	return cfg
}

// Enabled reports whether the bell fires at all. Defaults to true.
func (s *FileStore) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.load()
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}

// Cooldown returns the configured cooldown duration. Unset values default
// to DefaultCooldown; negative or NaN values clamp to zero.
func (s *FileStore) Cooldown() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.load()
	if cfg.CooldownMs == nil {
		return DefaultCooldown
	}
	ms := *cfg.CooldownMs
	if math.IsNaN(ms) || ms < 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// CustomSoundPath returns the configured custom sound path, or "" when the
// bundled default should be used.
func (s *FileStore) CustomSoundPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().CustomSoundPath
}

// SetCustomSoundPath persists the custom sound path. An empty path clears
// the setting back to the bundled default.
func (s *FileStore) SetCustomSoundPath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.load()
	cfg.CustomSoundPath = path

	if err := os.MkdirAll(filepath.Dir(s.path), DirPermission); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(s.path, data, FilePermission); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	log.Debug().Str("path", s.path).Str("customSoundPath", path).Msg("Saved config")
	return nil
}
