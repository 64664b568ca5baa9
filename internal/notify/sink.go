// Package notify delivers user-facing messages and keeps the diagnostic log.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog/log"
)

// Sink receives transient user-facing messages and diagnostic log lines.
// Warnings may offer the diagnostic log as a follow-up.
type Sink interface {
	Info(message string)
	Warn(message string, offerLogs bool)
	Error(message string)
	Logf(format string, args ...any)
	ShowLog()
}

// Desktop shows transient messages as desktop notifications and appends
// diagnostic lines to a log file.
type Desktop struct {
	appName string
	logPath string

	// send is swapped out in tests so they do not pop real notifications.
	send func(title, message string, alert bool) error

	mu sync.Mutex
}

// NewDesktop creates a Desktop sink logging to the given file path.
func NewDesktop(logPath string) *Desktop {
	return &Desktop{
		appName: "termbell",
		logPath: logPath,
		send:    sendDesktopNotification,
	}
}

func sendDesktopNotification(title, message string, alert bool) error {
	if alert {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}

// LogPath returns the diagnostic log file location.
func (d *Desktop) LogPath() string {
	return d.logPath
}

// Info shows a transient informational message.
func (d *Desktop) Info(message string) {
	log.Info().Msg(message)
	if err := d.send(d.appName, message, false); err != nil {
		log.Debug().Err(err).Msg("Desktop notification failed")
	}
	d.Logf("info: %s", message)
}

// Warn shows a transient warning. With offerLogs set, the message points the
// user at the diagnostic log.
func (d *Desktop) Warn(message string, offerLogs bool) {
	log.Warn().Msg(message)
	shown := message
	if offerLogs {
		shown = fmt.Sprintf("%s (logs: %s)", message, d.logPath)
	}
	if err := d.send(d.appName, shown, true); err != nil {
		log.Debug().Err(err).Msg("Desktop notification failed")
	}
	d.Logf("warn: %s", message)
}

// Error shows a transient error message.
func (d *Desktop) Error(message string) {
	log.Error().Msg(message)
	if err := d.send(d.appName, message, true); err != nil {
		log.Debug().Err(err).Msg("Desktop notification failed")
	}
	d.Logf("error: %s", message)
}

// Logf appends a timestamped line to the diagnostic log file.
func (d *Desktop) Logf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	line := fmt.Sprintf("%s %s\n", time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, args...))
	if err := os.MkdirAll(filepath.Dir(d.logPath), 0755); err != nil {
		log.Debug().Err(err).Msg("Failed to create log directory")
		return
	}
	f, err := os.OpenFile(d.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to open log file")
		return
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := f.WriteString(line); err != nil {
		log.Debug().Err(err).Msg("Failed to append log line")
	}
}

// ShowLog surfaces the diagnostic log location to the user.
func (d *Desktop) ShowLog() {
	fmt.Fprintf(os.Stderr, "termbell log: %s\n", d.logPath)
}
