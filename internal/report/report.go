// Package report renders lint-fix results, run history and system
// information for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hochfrequenz/acc/internal/domain"
)

// Printer writes styled output. Colors are dropped automatically when the
// writer is not a terminal.
type Printer struct {
	w io.Writer

	title    lipgloss.Style
	resolved lipgloss.Style
	warning  lipgloss.Style
	failed   lipgloss.Style
	bold     lipgloss.Style
	dimmed   lipgloss.Style
	label    lipgloss.Style
}

// NewPrinter creates a Printer for w
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:        w,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		resolved: r.NewStyle().Foreground(lipgloss.Color("42")),
		warning:  r.NewStyle().Foreground(lipgloss.Color("214")),
		failed:   r.NewStyle().Foreground(lipgloss.Color("196")),
		bold:     r.NewStyle().Bold(true),
		dimmed:   r.NewStyle().Foreground(lipgloss.Color("244")),
		label:    r.NewStyle().Foreground(lipgloss.Color("220")),
	}
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// Banner prints the heading shown before a run starts
func (p *Printer) Banner() {
	p.println(p.title.Render("Running lint fixes..."))
}

// Result prints every issue with its fix status and summary, followed by
// the overall verdict.
func (p *Printer) Result(result domain.RunResult) {
	if len(result.Issues) == 0 {
		p.println(p.resolved.Render("No lint issues found. Nothing to fix."))
		return
	}

	p.println(p.dimmed.Render(fmt.Sprintf("Processed %d lint %s.", len(result.Issues), plural(len(result.Issues), "issue", "issues"))))

	for i, issue := range result.Issues {
		fix, ok := result.ResultFor(i)
		status := fix.Status
		if !ok || status == "" {
			status = "unknown"
		}

		style := p.warning
		if fix.Resolved() {
			style = p.resolved
		}
		p.println(fmt.Sprintf("%s %s:%d:%d – %s",
			style.Render("["+status+"]"),
			p.bold.Render(issue.FilePath), issue.Loc, issue.Column,
			issue.LintMessage))
		if fix.Summary != "" {
			p.println(p.dimmed.Render("  • " + fix.Summary))
		}
	}

	unresolved := result.Unresolved()
	if unresolved == 0 {
		p.println(p.resolved.Bold(true).Render("All lint findings resolved."))
		return
	}
	p.println(p.warning.Bold(true).Render(fmt.Sprintf("%d lint %s. Check logs for details.", unresolved, plural(unresolved, "issue remains", "issues remain"))))
}

// Failure prints a fatal pipeline error
func (p *Printer) Failure(err error) {
	p.println(p.failed.Render("Failed to run lint fixes:") + " " + err.Error())
}

// Models prints the model catalog
func (p *Printer) Models(models []string) {
	p.println(p.title.Render("Known models"))
	for _, m := range models {
		p.println("  " + m)
	}
}

func (p *Printer) rule() {
	p.println(p.dimmed.Render(strings.Repeat("─", 40)))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
