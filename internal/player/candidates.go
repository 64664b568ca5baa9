package player

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Candidate describes one external playback invocation. Candidate lists are
// built per trigger and consumed once.
type Candidate struct {
	Label   string
	Command string
	Args    []string
}

// Candidates returns the ordered playback attempts for the given platform
// and sound file.
func Candidates(goos, soundPath string) []Candidate {
	switch goos {
	case "windows":
		return windowsCandidates(soundPath)
	case "darwin":
		return []Candidate{
			{Label: "afplay", Command: "afplay", Args: []string{soundPath}},
		}
	default:
		return []Candidate{
			{Label: "paplay", Command: "paplay", Args: []string{soundPath}},
			{Label: "aplay", Command: "aplay", Args: []string{"-q", soundPath}},
			{Label: "ffplay", Command: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "error", soundPath}},
			{Label: "mpv", Command: "mpv", Args: []string{"--no-video", "--really-quiet", soundPath}},
			{Label: "play", Command: "play", Args: []string{"-q", soundPath}},
		}
	}
}

// windowsCandidates tries the WPF media backend first, then the COM player,
// once per shell binary. A raw SoundPlayer attempt is appended for .wav
// files only; it cannot decode anything else.
func windowsCandidates(soundPath string) []Candidate {
	shells := []string{"powershell", "pwsh"}
	common := []string{"-NoProfile", "-NonInteractive", "-Command"}

	var out []Candidate
	for _, shell := range shells {
		out = append(out,
			Candidate{
				Label:   shell + " mediaplayer",
				Command: shell,
				Args:    append(append([]string{}, common...), wpfScript(soundPath)),
			},
			Candidate{
				Label:   shell + " wmplayer",
				Command: shell,
				Args:    append(append([]string{}, common...), comScript(soundPath)),
			},
		)
	}
	if strings.EqualFold(filepath.Ext(soundPath), ".wav") {
		out = append(out, Candidate{
			Label:   "powershell soundplayer",
			Command: "powershell",
			Args:    append(append([]string{}, common...), soundPlayerScript(soundPath)),
		})
	}
	return out
}

// The sleeps below keep the shell alive while playback runs inside it; they
// are invisible to the cascade itself.

func wpfScript(soundPath string) string {
	return fmt.Sprintf(
		`Add-Type -AssemblyName PresentationCore; $p = New-Object System.Windows.Media.MediaPlayer; $p.Open([Uri]::new(%q)); $p.Play(); Start-Sleep -Seconds 3`,
		soundPath,
	)
}

func comScript(soundPath string) string {
	return fmt.Sprintf(
		`$p = New-Object -ComObject WMPlayer.OCX; $p.URL = %q; $p.controls.play(); Start-Sleep -Milliseconds 2500`,
		soundPath,
	)
}

func soundPlayerScript(soundPath string) string {
	return fmt.Sprintf(`(New-Object System.Media.SoundPlayer(%q)).PlaySync()`, soundPath)
}
