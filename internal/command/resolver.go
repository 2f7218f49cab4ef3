// Package command turns lint command specifications into executable argument lists.
package command

import (
	"os"
	"strings"

	"github.com/hochfrequenz/acc/internal/domain"
)

// EnvLintCommand names the environment variable holding the default lint command
const EnvLintCommand = "ACC_LINT_COMMAND"

// DefaultShell runs string commands when no shell is configured
const DefaultShell = "bash"

// Resolver picks the lint command to run. An explicit command wins, then the
// environment variable, then Fallback (usually from the config file).
type Resolver struct {
	Getenv   func(string) string
	Fallback string
}

// NewResolver creates a Resolver reading the process environment
func NewResolver(fallback string) *Resolver {
	return &Resolver{Getenv: os.Getenv, Fallback: fallback}
}

// Resolve returns the command to execute, failing with a ConfigurationError
// when nothing usable is configured.
func (r *Resolver) Resolve(explicit *domain.CommandSpec) (domain.CommandSpec, error) {
	if explicit != nil {
		if !explicit.IsArgv() && strings.TrimSpace(explicit.Line) == "" {
			return domain.CommandSpec{}, missingCommand()
		}
		return *explicit, nil
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, candidate := range []string{getenv(EnvLintCommand), r.Fallback} {
		if strings.TrimSpace(candidate) != "" {
			return domain.ShellCommand(candidate), nil
		}
	}
	return domain.CommandSpec{}, missingCommand()
}

func missingCommand() error {
	return &domain.ConfigurationError{
		Message: "no lint command provided: pass one as an argument, set " + EnvLintCommand + ", or configure lint.command",
	}
}

// ToArgs converts a spec into an argument vector. Shell lines run through
// shell -lc; argument vectors pass through unchanged.
func ToArgs(spec domain.CommandSpec, shell string) ([]string, error) {
	if spec.IsArgv() {
		return spec.Args, nil
	}

	trimmed := strings.TrimSpace(spec.Line)
	if trimmed == "" {
		return nil, &domain.InvalidCommandError{Command: spec.Line}
	}
	if shell == "" {
		shell = DefaultShell
	}
	return []string{shell, "-lc", trimmed}, nil
}
