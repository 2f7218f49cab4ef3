// Package lintfix runs a lint command, has opencode normalize its output into
// lint issues and then fixes every issue through opencode.
package lintfix

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hochfrequenz/acc/internal/command"
	"github.com/hochfrequenz/acc/internal/domain"
	"github.com/hochfrequenz/acc/internal/jsonextract"
	"github.com/hochfrequenz/acc/internal/opencode"
	"github.com/hochfrequenz/acc/internal/process"
	"github.com/hochfrequenz/acc/internal/prompts"
	"github.com/hochfrequenz/acc/internal/schema"
	"github.com/hochfrequenz/acc/internal/workpool"
)

const (
	// DefaultConcurrency is used when Options.Concurrency is zero
	DefaultConcurrency = 1

	messageLogLimit = 80
	summaryLogLimit = 120
)

// Options configures a lint-fix run
type Options struct {
	// LintCommand overrides the resolver's environment and fallback lookup
	LintCommand *domain.CommandSpec
	Shell       string
	Dir         string
	Env         map[string]string

	// Parser and Fixer configure the two opencode phases. An empty Dir or
	// Env inherits the run's.
	Parser opencode.Options
	Fixer  opencode.Options

	// Concurrency bounds the number of fixes in flight; zero means
	// DefaultConcurrency.
	Concurrency int
}

// Runner executes the lint-fix pipeline
type Runner struct {
	opts     Options
	proc     process.Runner
	resolver *command.Resolver
	loader   *prompts.Loader
	parser   *opencode.Invoker
	fixer    *opencode.Invoker
	logger   *zap.Logger
}

// New creates a Runner. A nil resolver reads ACC_LINT_COMMAND without a
// fallback, a nil loader uses the embedded prompts only.
func New(proc process.Runner, resolver *command.Resolver, loader *prompts.Loader, opts Options, logger *zap.Logger) (*Runner, error) {
	if opts.Concurrency < 0 {
		return nil, &domain.ConfigurationError{Message: fmt.Sprintf("concurrency must be greater than 0, got %d", opts.Concurrency)}
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if resolver == nil {
		resolver = command.NewResolver("")
	}
	if loader == nil {
		loader = prompts.NewLoader()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		opts:     opts,
		proc:     proc,
		resolver: resolver,
		loader:   loader,
		parser:   opencode.NewInvoker(proc, inherit(opts.Parser, opts), logger.With(zap.String("phase", string(domain.PhaseParse)))),
		fixer:    opencode.NewInvoker(proc, inherit(opts.Fixer, opts), logger.With(zap.String("phase", string(domain.PhaseFix)))),
		logger:   logger,
	}, nil
}

func inherit(phase opencode.Options, run Options) opencode.Options {
	if phase.Dir == "" {
		phase.Dir = run.Dir
	}
	if phase.Env == nil {
		phase.Env = run.Env
	}
	return phase
}

// Concurrency returns the effective fix concurrency
func (r *Runner) Concurrency() int {
	return r.opts.Concurrency
}

// ResolveCommand returns the lint command the run will execute
func (r *Runner) ResolveCommand() (domain.CommandSpec, error) {
	return r.resolver.Resolve(r.opts.LintCommand)
}

// Run executes the full pipeline. On error no partial result is returned.
func (r *Runner) Run(ctx context.Context) (domain.RunResult, error) {
	r.logger.Info("Starting lint-fix run", zap.Int("concurrency", r.opts.Concurrency))

	issues, err := r.GenerateIssues(ctx)
	if err != nil {
		return domain.RunResult{}, err
	}
	if len(issues) == 0 {
		r.logger.Info("No lint issues found")
		return domain.RunResult{Issues: []domain.LintIssue{}, Results: []domain.FixResult{}}, nil
	}

	results, err := r.FixIssues(ctx, issues)
	if err != nil {
		return domain.RunResult{}, err
	}

	result := domain.RunResult{Issues: issues, Results: results}
	r.logger.Info("Lint-fix run finished", zap.String("statuses", Summarize(result)), zap.Int("unresolved", result.Unresolved()))
	return result, nil
}

// RunLint executes the lint command and returns its combined output:
// stdout then stderr, joined by a newline, empty parts omitted.
func (r *Runner) RunLint(ctx context.Context) (string, error) {
	spec, err := r.ResolveCommand()
	if err != nil {
		return "", err
	}
	args, err := command.ToArgs(spec, r.opts.Shell)
	if err != nil {
		return "", err
	}

	r.logger.Info("Running lint command", zap.String("command", spec.String()))
	res, err := r.proc.Run(ctx, args, process.Options{Dir: r.opts.Dir, Env: r.opts.Env})
	if err != nil {
		return "", fmt.Errorf("run lint command: %w", err)
	}
	if res.ExitCode != 0 {
		r.logger.Warn("Lint command failed", zap.Int("exit_code", res.ExitCode))
		detail := res.Stderr
		if detail == "" {
			detail = res.Stdout
		}
		return "", &domain.LintCommandError{ExitCode: res.ExitCode, Detail: detail}
	}

	output := joinOutput(res.Stdout, res.Stderr)
	r.logger.Debug("Lint command finished", zap.Int("output_bytes", len(output)))
	return output, nil
}

// GenerateIssues runs the lint command and has the parser model normalize
// its output. Empty lint output yields no issues without invoking the model.
func (r *Runner) GenerateIssues(ctx context.Context) ([]domain.LintIssue, error) {
	output, err := r.RunLint(ctx)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []domain.LintIssue{}, nil
	}

	issues, err := r.ParseIssues(ctx, output)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Parsed lint issues", zap.Int("count", len(issues)))
	return issues, nil
}

// ParseIssues asks the parser model to convert raw lint output into issues
func (r *Runner) ParseIssues(ctx context.Context, lintOutput string) ([]domain.LintIssue, error) {
	issueSchema, err := schema.IssueArraySchema()
	if err != nil {
		return nil, err
	}
	prompt, err := r.loader.BuildParsePrompt(prompts.ParseData{Schema: issueSchema, LintOutput: lintOutput})
	if err != nil {
		return nil, fmt.Errorf("build parse prompt: %w", err)
	}

	r.logger.Info("Normalizing lint output with parser model", zap.String("model", modelName(r.parser.Options().Model)))
	answer, err := r.parser.Invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}

	payload, err := jsonextract.Extract(answer)
	if err != nil {
		return nil, &domain.LintParsingError{Err: err}
	}
	issues, err := schema.ParseIssues([]byte(payload))
	if err != nil {
		return nil, &domain.LintParsingError{Err: err}
	}
	return issues, nil
}

// FixIssues fixes every issue with at most Concurrency fixes in flight.
// results[i] belongs to issues[i]. The first failure cancels the rest.
func (r *Runner) FixIssues(ctx context.Context, issues []domain.LintIssue) ([]domain.FixResult, error) {
	return workpool.Map(ctx, issues, r.opts.Concurrency, func(ctx context.Context, issue domain.LintIssue, index int) (domain.FixResult, error) {
		result, err := r.FixIssue(ctx, issue)
		if err != nil {
			return domain.FixResult{}, fmt.Errorf("fix issue %d (%s): %w", index, issue.Location(), err)
		}
		return result, nil
	})
}

// FixIssue asks the fixer model to resolve a single issue
func (r *Runner) FixIssue(ctx context.Context, issue domain.LintIssue) (domain.FixResult, error) {
	fixSchema, err := schema.FixResultSchema()
	if err != nil {
		return domain.FixResult{}, err
	}
	prompt, err := r.loader.BuildFixPrompt(prompts.FixData{Issue: issue, Schema: fixSchema})
	if err != nil {
		return domain.FixResult{}, fmt.Errorf("build fix prompt: %w", err)
	}

	r.logger.Info("Fixing lint issue", zap.String("location", issue.Location()), zap.String("message", truncate(issue.LintMessage, messageLogLimit)))
	answer, err := r.fixer.Invoke(ctx, prompt)
	if err != nil {
		return domain.FixResult{}, err
	}

	payload, err := jsonextract.Extract(answer)
	if err != nil {
		return domain.FixResult{}, &domain.SchemaValidationError{Shape: schema.ShapeFixResult, Reason: err.Error(), Err: err}
	}
	result, err := schema.ParseFixResult([]byte(payload))
	if err != nil {
		return domain.FixResult{}, err
	}

	r.logger.Info("Fix attempt finished",
		zap.String("location", issue.Location()),
		zap.String("status", result.Status),
		zap.String("summary", truncate(result.Summary, summaryLogLimit)))
	return result, nil
}

// Summarize renders the status breakdown of a run as "status: count, ..."
// sorted by status, or "no results".
func Summarize(result domain.RunResult) string {
	counts := result.StatusCounts()
	if len(counts) == 0 {
		return "no results"
	}

	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		label := status
		if label == "" {
			label = "(none)"
		}
		parts = append(parts, fmt.Sprintf("%s: %d", label, counts[status]))
	}
	return strings.Join(parts, ", ")
}

func joinOutput(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func modelName(model string) string {
	if model == "" {
		return "default"
	}
	return model
}
