// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/regraft/regraft/internal/logger"
	"github.com/regraft/regraft/internal/op"
)

// notify is the notification backend, swapped out in tests.
var notify = beeep.Notify

// SetNotifier replaces the notification backend
func SetNotifier(fn func(title, message string, icon any) error) {
	notify = fn
}

// ResetNotifier restores the beeep backend
func ResetNotifier() {
	notify = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	logger.Log("Notification: Sending notification - title=%q, message=%q", title, message)
	// Use empty string for icon - beeep handles platform defaults
	err := notify(title, message, "")
	if err != nil {
		logger.Log("Notification: Failed to send notification: %v", err)
	}
	return err
}

// Desktop forwards operation milestones to the system notifier. Enabled is
// read per call, so toggling notifications in settings applies immediately.
type Desktop struct {
	Enabled func() bool
}

// Notify implements op.Notifier.
func (d *Desktop) Notify(kind op.Kind, status op.Status, message string) {
	if d.Enabled != nil && !d.Enabled() {
		return
	}
	body := message
	if body == "" {
		body = fmt.Sprintf("%s %s", kind, status)
	}
	// Errors are already logged by Send; a failed desktop notification
	// never blocks the operation flow.
	_ = Send("Regraft", body)
}
