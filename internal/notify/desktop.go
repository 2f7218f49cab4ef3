package notify

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
)

// DesktopNotifier sends desktop notifications
type DesktopNotifier struct {
	enabled bool
	goos    string
	run     func(ctx context.Context, name string, args ...string) error
}

// NewDesktopNotifier creates a new desktop notifier
func NewDesktopNotifier(enabled bool) *DesktopNotifier {
	return &DesktopNotifier{enabled: enabled, goos: runtime.GOOS, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Send sends a desktop notification. Unsupported platforms are ignored.
func (d *DesktopNotifier) Send(ctx context.Context, n Notification) error {
	if !d.enabled {
		return nil
	}

	switch d.goos {
	case "darwin":
		script := `display notification "` + appleScriptEscape(n.Message) + `" with title "` + appleScriptEscape(n.Title) + `"`
		return d.run(ctx, "osascript", "-e", script)
	case "linux":
		// Try notify-send (most common)
		return d.run(ctx, "notify-send", "-i", IconForType(n.Type), n.Title, n.Message)
	default:
		return nil // Unsupported
	}
}

func appleScriptEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// IconForType returns an icon name for the notification type
func IconForType(t NotificationType) string {
	switch t {
	case NotifySuccess:
		return "dialog-positive"
	case NotifyWarning:
		return "dialog-warning"
	case NotifyError:
		return "dialog-error"
	default:
		return "dialog-information"
	}
}
