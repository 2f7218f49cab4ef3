package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hochfrequenz/acc/internal/command"
	"github.com/hochfrequenz/acc/internal/config"
	"github.com/hochfrequenz/acc/internal/domain"
	"github.com/hochfrequenz/acc/internal/lintfix"
	"github.com/hochfrequenz/acc/internal/notify"
	"github.com/hochfrequenz/acc/internal/opencode"
	"github.com/hochfrequenz/acc/internal/process"
	"github.com/hochfrequenz/acc/internal/prompts"
	"github.com/hochfrequenz/acc/internal/report"
	"github.com/hochfrequenz/acc/internal/runstore"
)

func newLintfixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lintfix [lintCommand]",
		Short: "Run a lint command and fix every finding with opencode",
		Long: `Runs the lint command, asks opencode to convert its output into structured
issues and then asks opencode to fix each issue. Without an argument the lint
command is taken from ` + command.EnvLintCommand + ` or lint.command in the config file.

Exits non-zero when any issue remains unresolved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLintfix,
	}

	f := cmd.Flags()
	f.StringP("parallel", "p", "1", "number of issues to fix concurrently")
	f.String("opencode-bin", opencode.DefaultBin, "opencode binary")
	f.String("parser-model", "", "model used to parse lint output")
	f.String("fix-model", "", "model used to fix issues")
	f.StringArray("parser-extra", nil, "extra argument for the parse invocation (repeatable)")
	f.StringArray("fix-extra", nil, "extra argument for fix invocations (repeatable)")
	f.String("cwd", "", "working directory for the lint command and opencode")
	f.String("shell", "", "shell used to run a lint command string (default: bash)")
	f.Bool("no-history", false, "do not record this run in the history database")
	f.Bool("notify", false, "send a desktop notification when the run finishes")
	return cmd
}

// parseParallel validates the --parallel value
func parseParallel(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, &domain.ConfigurationError{Message: fmt.Sprintf("Invalid parallel value '%s'. Use a positive number.", value)}
	}
	return n, nil
}

// buildOptions merges flags over the config file. Flags only win when set
// explicitly on the command line.
func buildOptions(cmd *cobra.Command, c *config.Config, args []string) (lintfix.Options, error) {
	f := cmd.Flags()

	concurrency := c.Fixer.Concurrency
	if f.Changed("parallel") {
		value, _ := f.GetString("parallel")
		n, err := parseParallel(value)
		if err != nil {
			return lintfix.Options{}, err
		}
		concurrency = n
	}

	pick := func(name, configValue string) string {
		if f.Changed(name) {
			value, _ := f.GetString(name)
			return value
		}
		return configValue
	}
	pickArgs := func(name string, configValue []string) []string {
		if f.Changed(name) {
			value, _ := f.GetStringArray(name)
			return value
		}
		return configValue
	}

	bin := pick("opencode-bin", c.Opencode.Bin)
	opts := lintfix.Options{
		Shell: pick("shell", c.Lint.Shell),
		Dir:   config.ExpandPath(pick("cwd", c.Lint.Cwd)),
		Parser: opencode.Options{
			Bin:       bin,
			Args:      c.Opencode.Args,
			Model:     pick("parser-model", c.Parser.Model),
			ExtraArgs: pickArgs("parser-extra", c.Parser.ExtraArgs),
		},
		Fixer: opencode.Options{
			Bin:       bin,
			Args:      c.Opencode.Args,
			Model:     pick("fix-model", c.Fixer.Model),
			ExtraArgs: pickArgs("fix-extra", c.Fixer.ExtraArgs),
		},
		Concurrency: concurrency,
	}
	if len(args) == 1 {
		spec := domain.ShellCommand(args[0])
		opts.LintCommand = &spec
	}
	return opts, nil
}

func runLintfix(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd, cfg, args)
	if err != nil {
		return err
	}

	projectRoot := opts.Dir
	if projectRoot == "" {
		projectRoot, _ = os.Getwd()
	}
	loader := prompts.DefaultLoader(projectRoot, cfg.Prompts.OverrideDir)

	runner, err := lintfix.New(process.NewExecutor(), command.NewResolver(cfg.Lint.Command), loader, opts, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := &domain.Run{
		WorkDir:     projectRoot,
		ParserModel: opts.Parser.Model,
		FixModel:    opts.Fixer.Model,
		Concurrency: runner.Concurrency(),
		StartedAt:   time.Now(),
	}
	if spec, err := runner.ResolveCommand(); err == nil {
		run.LintCommand = spec.String()
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	forceNotify, _ := cmd.Flags().GetBool("notify")

	store := openHistory(noHistory)
	if store != nil {
		if err := store.StartRun(run); err != nil {
			logger.Warn("Failed to record run start", zap.Error(err))
			store.Close()
			store = nil
		} else {
			defer store.Close()
		}
	}

	out := report.NewPrinter(cmd.OutOrStdout())
	out.Banner()

	result, runErr := runner.Run(ctx)

	if store != nil {
		if err := store.Complete(run, result, runErr); err != nil {
			logger.Warn("Failed to record run result", zap.Error(err))
		}
	} else {
		run.Finish(result, runErr, time.Now())
	}
	sendNotification(ctx, run, forceNotify)

	if runErr != nil {
		report.NewPrinter(cmd.ErrOrStderr()).Failure(runErr)
		return errReported
	}

	out.Result(result)
	if result.Unresolved() > 0 {
		return errReported
	}
	return nil
}

// openHistory opens the run history, or returns nil when it is disabled or
// cannot be opened. History never decides the outcome of a run.
func openHistory(disabled bool) *runstore.Store {
	if disabled || !cfg.History.Enabled {
		return nil
	}
	store, err := runstore.New(cfg.History.DatabasePath)
	if err != nil {
		logger.Warn("Run history unavailable", zap.String("path", cfg.History.DatabasePath), zap.Error(err))
		return nil
	}
	return store
}

func sendNotification(ctx context.Context, run *domain.Run, force bool) {
	notifier := notify.FromConfig(cfg.Notifications.Desktop, cfg.Notifications.SlackWebhook, force)
	if _, ok := notifier.(notify.NoopNotifier); ok {
		return
	}

	// The run context may already be cancelled; notifications get their own budget.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	if err := notifier.Send(sendCtx, notify.ForRun(run)); err != nil {
		logger.Warn("Failed to send notification", zap.Error(err))
	}
}
