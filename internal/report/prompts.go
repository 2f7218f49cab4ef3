package report

import (
	"github.com/hochfrequenz/acc/internal/prompts"
)

// Prompts prints the prompt templates and where each one is loaded from
func (p *Printer) Prompts(listings []prompts.Listing) {
	p.println(p.title.Render("Prompt templates"))
	p.rule()
	for _, l := range listings {
		id, name, desc := l.Path, "", ""
		if l.Meta != nil {
			id, name, desc = l.Meta.ID, l.Meta.Name, l.Meta.Description
		}
		p.println(p.bold.Render(id) + "  " + name)
		if desc != "" {
			p.println(p.dimmed.Render("  " + desc))
		}
		p.println(p.dimmed.Render("  " + l.Path + " (" + l.Source + ")"))
	}
}
