package report

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hochfrequenz/acc/internal/domain"
)

// History prints recent runs, newest first, with ages relative to now
func (p *Printer) History(runs []*domain.Run, now time.Time) {
	if len(runs) == 0 {
		p.println(p.dimmed.Render("No runs recorded yet."))
		return
	}

	p.println(p.title.Render("Recent lint-fix runs"))
	p.rule()
	for _, run := range runs {
		p.println(fmt.Sprintf("%s %s  %s",
			p.outcomeStyle(run.Outcome).Render(fmt.Sprintf("%-10s", run.Outcome)),
			p.bold.Render(shortID(run.ID)),
			run.LintCommand))

		detail := humanize.RelTime(run.StartedAt, now, "ago", "from now")
		if run.FinishedAt != nil {
			detail += ", took " + run.Duration().Round(time.Second).String()
		}
		if run.IssueCount > 0 {
			detail += fmt.Sprintf(", %d/%d unresolved", run.UnresolvedCount, run.IssueCount)
		}
		p.println(p.dimmed.Render("  " + detail))
		if run.ErrorMessage != "" {
			p.println(p.failed.Render("  " + run.ErrorMessage))
		}
	}
}

func (p *Printer) outcomeStyle(outcome domain.RunOutcome) lipgloss.Style {
	switch outcome {
	case domain.RunClean, domain.RunResolved:
		return p.resolved
	case domain.RunFailed:
		return p.failed
	default:
		return p.warning
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
