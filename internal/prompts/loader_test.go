package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hochfrequenz/acc/internal/domain"
)

func TestLoaderLoadEmbedded(t *testing.T) {
	loader := NewLoader() // No override dirs

	tmpl, meta, err := loader.LoadTemplate(FixTemplate)
	if err != nil {
		t.Fatalf("failed to load fix template: %v", err)
	}
	if tmpl == nil {
		t.Fatal("template should not be nil")
	}
	if meta == nil {
		t.Fatal("fix template should have frontmatter metadata")
	}
	if meta.ID != "fix" {
		t.Errorf("expected ID 'fix', got '%s'", meta.ID)
	}
}

func TestBuildParsePrompt(t *testing.T) {
	loader := NewLoader()

	result, err := loader.BuildParsePrompt(ParseData{
		Schema:     `{"type":"array"}`,
		LintOutput: "a.ts:10:3 unused var",
	})
	if err != nil {
		t.Fatalf("failed to build parse prompt: %v", err)
	}

	want := "convert the following linting output to JSON matching this schema: {\"type\":\"array\"}\n\nLint output:\na.ts:10:3 unused var"
	if result != want {
		t.Errorf("parse prompt mismatch\ngot:  %q\nwant: %q", result, want)
	}
}

func TestBuildFixPrompt(t *testing.T) {
	loader := NewLoader()
	issue := domain.LintIssue{
		LintMessage: "'x' is assigned a value but never used",
		Loc:         10,
		Column:      3,
		FilePath:    "src/a.ts",
	}

	result, err := loader.BuildFixPrompt(FixData{Issue: issue, Schema: `{"type":"object"}`})
	if err != nil {
		t.Fatalf("failed to build fix prompt: %v", err)
	}

	for _, want := range []string{
		"- File: src/a.ts",
		"- Location: line 10, column 3",
		"- Message: 'x' is assigned a value but never used\nRespond with JSON matching this schema: {\"type\":\"object\"}",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("fix prompt missing %q, got:\n%s", want, result)
		}
	}
	if strings.Contains(result, "Suggestions:") {
		t.Error("fix prompt should omit the suggestions block when there are none")
	}
	if strings.Contains(result, "&#39;") {
		t.Error("fix prompt must not be HTML escaped")
	}
}

func TestBuildFixPrompt_WithSuggestions(t *testing.T) {
	loader := NewLoader()
	issue := domain.LintIssue{LintMessage: "m", SuggestionsText: "Remove the variable", Loc: 1, Column: 1, FilePath: "a.go"}

	result, err := loader.BuildFixPrompt(FixData{Issue: issue, Schema: "{}"})
	if err != nil {
		t.Fatalf("failed to build fix prompt: %v", err)
	}

	if !strings.Contains(result, "- Message: m\nSuggestions:\nRemove the variable\nRespond with JSON") {
		t.Errorf("suggestions block not rendered as expected, got:\n%s", result)
	}
}

func TestLoaderOverride(t *testing.T) {
	tmpDir := t.TempDir()

	lintDir := filepath.Join(tmpDir, "lintfix")
	if err := os.MkdirAll(lintDir, 0755); err != nil {
		t.Fatalf("failed to create lintfix dir: %v", err)
	}

	customContent := `---
id: fix
name: Custom Fix
description: Team specific fix prompt
---
CUSTOM FIX for {{.Issue.FilePath}}:{{.Issue.Loc}}
Schema: {{.Schema}}
`
	if err := os.WriteFile(filepath.Join(lintDir, "fix.md"), []byte(customContent), 0644); err != nil {
		t.Fatalf("failed to write override file: %v", err)
	}

	loader := NewLoader(tmpDir)

	result, err := loader.BuildFixPrompt(FixData{Issue: domain.LintIssue{FilePath: "b.ts", Loc: 4}, Schema: "{}"})
	if err != nil {
		t.Fatalf("failed to build fix prompt: %v", err)
	}
	if !strings.HasPrefix(result, "CUSTOM FIX for b.ts:4") {
		t.Errorf("override was not used, got: %s", result)
	}
	if got := loader.Source(FixTemplate); got != tmpDir {
		t.Errorf("Source = %q, want %q", got, tmpDir)
	}
	if got := loader.Source(ParseTemplate); got != SourceEmbedded {
		t.Errorf("Source = %q, want embedded", got)
	}
}

func TestLoaderOverridePrecedence(t *testing.T) {
	projectDir := t.TempDir()
	userDir := t.TempDir()

	for _, dir := range []string{projectDir, userDir} {
		if err := os.MkdirAll(filepath.Join(dir, "lintfix"), 0755); err != nil {
			t.Fatalf("failed to create lintfix dir: %v", err)
		}
	}

	if err := os.WriteFile(filepath.Join(projectDir, "lintfix", "parse.md"), []byte(`PROJECT OVERRIDE: {{.LintOutput}}`), 0644); err != nil {
		t.Fatalf("failed to write project override: %v", err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "lintfix", "parse.md"), []byte(`USER OVERRIDE: {{.LintOutput}}`), 0644); err != nil {
		t.Fatalf("failed to write user override: %v", err)
	}

	loader := NewLoader(projectDir, userDir)

	result, err := loader.BuildParsePrompt(ParseData{LintOutput: "x"})
	if err != nil {
		t.Fatalf("failed to build prompt: %v", err)
	}
	if result != "PROJECT OVERRIDE: x" {
		t.Errorf("project override should take precedence, got: %s", result)
	}
}

func TestLoaderList(t *testing.T) {
	loader := NewLoader(t.TempDir())

	listings, err := loader.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(listings))
	}

	ids := map[string]bool{}
	for _, l := range listings {
		if l.Meta == nil {
			t.Fatalf("template %s has no metadata", l.Path)
		}
		if l.Source != SourceEmbedded {
			t.Errorf("template %s source = %q, want embedded", l.Path, l.Source)
		}
		ids[l.Meta.ID] = true
	}
	if !ids["parse"] || !ids["fix"] {
		t.Errorf("expected parse and fix templates, got %v", ids)
	}
}

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantMeta bool
		wantBody string
	}{
		{"no frontmatter", "hello", false, "hello"},
		{"unterminated", "---\nid: x\nhello", false, "---\nid: x\nhello"},
		{"with frontmatter", "---\nid: x\n---\nbody", true, "body"},
		{"windows line endings", "---\r\nid: x\r\n---\r\nbody", true, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := parseFrontmatter([]byte(tt.content))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (meta != nil) != tt.wantMeta {
				t.Errorf("meta present = %v, want %v", meta != nil, tt.wantMeta)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestLoaderClearCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lintfix"), 0755); err != nil {
		t.Fatal(err)
	}
	override := filepath.Join(dir, "lintfix", "parse.md")
	if err := os.WriteFile(override, []byte("first"), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(dir)
	if got, _ := loader.BuildParsePrompt(ParseData{}); got != "first" {
		t.Fatalf("got %q, want first", got)
	}

	if err := os.WriteFile(override, []byte("second"), 0644); err != nil {
		t.Fatal(err)
	}
	if got, _ := loader.BuildParsePrompt(ParseData{}); got != "first" {
		t.Errorf("cached template should still be used, got %q", got)
	}

	loader.ClearCache()
	if got, _ := loader.BuildParsePrompt(ParseData{}); got != "second" {
		t.Errorf("after ClearCache got %q, want second", got)
	}
}
