package prompts

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/hochfrequenz/acc/internal/domain"
)

const (
	ParseTemplate = "lintfix/parse.md"
	FixTemplate   = "lintfix/fix.md"

	// SourceEmbedded is reported by Source for templates compiled into the binary
	SourceEmbedded = "embedded"
)

// Loader manages prompt templates with override support.
type Loader struct {
	overrideDirs []string // Directories to check for overrides (in priority order)
	cache        map[string]*template.Template
	metaCache    map[string]*TemplateMeta
	mu           sync.RWMutex
}

// TemplateMeta holds frontmatter metadata of a template.
type TemplateMeta struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// NewLoader creates a loader with the given override directories.
// Directories are checked in order; first match wins.
func NewLoader(overrideDirs ...string) *Loader {
	dirs := make([]string, 0, len(overrideDirs))
	for _, dir := range overrideDirs {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return &Loader{
		overrideDirs: dirs,
		cache:        make(map[string]*template.Template),
		metaCache:    make(map[string]*TemplateMeta),
	}
}

// DefaultLoader creates a loader with the standard override paths:
// 1. configured directory (if any)
// 2. Project-local: .acc/prompts/
// 3. User config: ~/.config/acc/prompts/
func DefaultLoader(projectRoot, configured string) *Loader {
	home, _ := os.UserHomeDir()
	dirs := []string{configured}

	if projectRoot != "" {
		dirs = append(dirs, filepath.Join(projectRoot, ".acc", "prompts"))
	}
	dirs = append(dirs, filepath.Join(home, ".config", "acc", "prompts"))

	return NewLoader(dirs...)
}

// Source returns the override directory a template is read from, or
// SourceEmbedded.
func (l *Loader) Source(name string) string {
	for _, dir := range l.overrideDirs {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err == nil {
			return dir
		}
	}
	return SourceEmbedded
}

// loadContent loads raw content from override dirs or embedded FS.
func (l *Loader) loadContent(name string) ([]byte, error) {
	for _, dir := range l.overrideDirs {
		if data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name))); err == nil {
			return data, nil
		}
	}
	return fs.ReadFile(embeddedFS, name)
}

// parseFrontmatter splits content into frontmatter and body.
func parseFrontmatter(content []byte) (*TemplateMeta, string, error) {
	str := strings.ReplaceAll(string(content), "\r\n", "\n")

	if !strings.HasPrefix(str, "---\n") {
		return nil, str, nil
	}

	end := strings.Index(str[4:], "\n---\n")
	if end == -1 {
		return nil, str, nil // Malformed, treat as no frontmatter
	}

	frontmatter := str[4 : 4+end]
	body := str[4+end+5:]

	var meta TemplateMeta
	if err := yaml.Unmarshal([]byte(frontmatter), &meta); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	return &meta, body, nil
}

// LoadTemplate loads and parses a template by path (e.g., "lintfix/fix.md").
func (l *Loader) LoadTemplate(name string) (*template.Template, *TemplateMeta, error) {
	l.mu.RLock()
	if tmpl, ok := l.cache[name]; ok {
		meta := l.metaCache[name]
		l.mu.RUnlock()
		return tmpl, meta, nil
	}
	l.mu.RUnlock()

	content, err := l.loadContent(name)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", name, err)
	}

	meta, body, err := parseFrontmatter(content)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", name, err)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, nil, fmt.Errorf("compile template %s: %w", name, err)
	}

	l.mu.Lock()
	l.cache[name] = tmpl
	l.metaCache[name] = meta
	l.mu.Unlock()

	return tmpl, meta, nil
}

// Execute loads and executes a template with the given data. Surrounding
// whitespace of the result is trimmed.
func (l *Loader) Execute(name string, data any) (string, error) {
	tmpl, _, err := l.LoadTemplate(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// Listing describes one template for display
type Listing struct {
	Path   string
	Meta   *TemplateMeta
	Source string
}

// List returns every embedded template with its effective metadata and source.
func (l *Loader) List() ([]Listing, error) {
	entries, err := fs.ReadDir(embeddedFS, "lintfix")
	if err != nil {
		return nil, err
	}

	var result []Listing
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := path.Join("lintfix", entry.Name())
		_, meta, err := l.LoadTemplate(name)
		if err != nil {
			return nil, err
		}
		result = append(result, Listing{Path: name, Meta: meta, Source: l.Source(name)})
	}
	return result, nil
}

// ParseData holds template variables for the lint normalization prompt.
type ParseData struct {
	Schema     string
	LintOutput string
}

// FixData holds template variables for the single-issue fix prompt.
type FixData struct {
	Issue  domain.LintIssue
	Schema string
}

// BuildParsePrompt renders the lint normalization prompt.
func (l *Loader) BuildParsePrompt(data ParseData) (string, error) {
	return l.Execute(ParseTemplate, data)
}

// BuildFixPrompt renders the fix prompt for one issue.
func (l *Loader) BuildFixPrompt(data FixData) (string, error) {
	return l.Execute(FixTemplate, data)
}

// ClearCache clears the template cache (useful for development/testing).
func (l *Loader) ClearCache() {
	l.mu.Lock()
	l.cache = make(map[string]*template.Template)
	l.metaCache = make(map[string]*TemplateMeta)
	l.mu.Unlock()
}
