// Package prompts provides the lint fix prompt templates with override support.
package prompts

import "embed"

//go:embed lintfix/*.md
var embeddedFS embed.FS
