package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeAt(t *testing.T, content string) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), FilePermission))
	}
	return NewFileStore(path)
}

func TestFileStore_Defaults(t *testing.T) {
	s := storeAt(t, "")

	assert.True(t, s.Enabled())
	assert.Equal(t, DefaultCooldown, s.Cooldown())
	assert.Empty(t, s.CustomSoundPath())
}

func TestFileStore_CorruptFileFallsBackToDefaults(t *testing.T) {
	s := storeAt(t, "{not json")

	assert.True(t, s.Enabled())
	assert.Equal(t, DefaultCooldown, s.Cooldown())
}

func TestFileStore_Enabled(t *testing.T) {
	assert.False(t, storeAt(t, `{"enabled": false}`).Enabled())
	assert.True(t, storeAt(t, `{"enabled": true}`).Enabled())
}

func TestFileStore_Cooldown(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected time.Duration
	}{
		{"configured value", `{"cooldownMs": 500}`, 500 * time.Millisecond},
		{"explicit zero", `{"cooldownMs": 0}`, 0},
		{"negative clamps to zero", `{"cooldownMs": -50}`, 0},
		{"fractional milliseconds", `{"cooldownMs": 1.5}`, 1500 * time.Microsecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, storeAt(t, tt.content).Cooldown())
		})
	}
}

func TestFileStore_SetCustomSoundPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)
	s := NewFileStore(path)

	require.NoError(t, s.SetCustomSoundPath("/sounds/ding.wav"))
	assert.Equal(t, "/sounds/ding.wav", s.CustomSoundPath())

	// A fresh store reading the same file sees the persisted value.
	assert.Equal(t, "/sounds/ding.wav", NewFileStore(path).CustomSoundPath())

	require.NoError(t, s.SetCustomSoundPath(""))
	assert.Empty(t, s.CustomSoundPath())
}

func TestFileStore_SetPreservesOtherSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `{"enabled": false, "cooldownMs": 300}`
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermission))
	s := NewFileStore(path)

	require.NoError(t, s.SetCustomSoundPath("/x.wav"))

	assert.False(t, s.Enabled())
	assert.Equal(t, 300*time.Millisecond, s.Cooldown())
	assert.Equal(t, "/x.wav", s.CustomSoundPath())
}
