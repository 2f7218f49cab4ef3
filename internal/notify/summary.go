package notify

import (
	"fmt"
	"time"

	"github.com/hochfrequenz/acc/internal/domain"
)

// ForRun builds the notification for a finished run
func ForRun(run *domain.Run) Notification {
	n := Notification{RunID: run.ID}

	switch run.Outcome {
	case domain.RunClean:
		n.Type = NotifySuccess
		n.Title = "Lint clean"
		n.Message = "No lint issues found for " + run.LintCommand
	case domain.RunResolved:
		n.Type = NotifySuccess
		n.Title = "Lint issues resolved"
		n.Message = fmt.Sprintf("All %d lint issue(s) resolved", run.IssueCount)
	case domain.RunUnresolved:
		n.Type = NotifyWarning
		n.Title = "Lint issues remain"
		n.Message = fmt.Sprintf("%d of %d lint issue(s) remain", run.UnresolvedCount, run.IssueCount)
	case domain.RunFailed:
		n.Type = NotifyError
		n.Title = "Lint fix failed"
		n.Message = run.ErrorMessage
	default:
		n.Type = NotifyInfo
		n.Title = "Lint fix " + string(run.Outcome)
		n.Message = run.LintCommand
	}

	if d := run.Duration(); d > 0 {
		n.Message += fmt.Sprintf(" (%s)", d.Round(100*time.Millisecond))
	}
	return n
}

// FromConfig assembles the notifiers enabled by the given settings. force
// enables desktop notifications regardless of desktop.
func FromConfig(desktop bool, slackWebhook string, force bool) Notifier {
	var notifiers []Notifier
	if desktop || force {
		notifiers = append(notifiers, NewDesktopNotifier(true))
	}
	if slackWebhook != "" {
		notifiers = append(notifiers, NewSlackNotifier(slackWebhook))
	}
	if len(notifiers) == 0 {
		return NoopNotifier{}
	}
	return NewMultiNotifier(notifiers...)
}
