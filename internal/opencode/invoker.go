// Package opencode invokes the opencode CLI with a single prompt and returns
// its raw answer.
package opencode

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/hochfrequenz/acc/internal/domain"
	"github.com/hochfrequenz/acc/internal/process"
)

const (
	DefaultBin = "opencode"
	unknownErr = "unknown error"
)

// DefaultArgs are the base arguments used when Options.Args is nil
var DefaultArgs = []string{"run"}

// Options configures one phase's opencode invocations. Args nil means
// DefaultArgs; an empty non-nil slice means no base arguments.
type Options struct {
	Bin       string
	Args      []string
	Model     string
	ExtraArgs []string
	Dir       string
	Env       map[string]string
}

// Invoker runs opencode for a fixed set of options
type Invoker struct {
	opts   Options
	runner process.Runner
	logger *zap.Logger
}

// NewInvoker creates an Invoker. The options are copied.
func NewInvoker(runner process.Runner, opts Options, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{opts: opts.clone(), runner: runner, logger: logger}
}

// Options returns a copy of the invoker's options
func (i *Invoker) Options() Options {
	return i.opts.clone()
}

func (o Options) clone() Options {
	out := o
	if o.Args != nil {
		out.Args = append([]string{}, o.Args...)
	}
	if o.ExtraArgs != nil {
		out.ExtraArgs = append([]string{}, o.ExtraArgs...)
	}
	if o.Env != nil {
		out.Env = make(map[string]string, len(o.Env))
		for k, v := range o.Env {
			out.Env[k] = v
		}
	}
	return out
}

// BuildArgs returns [bin, base..., --model m, extra..., prompt]
func BuildArgs(opts Options, prompt string) []string {
	args := displayArgs(opts)
	return append(args, prompt)
}

// displayArgs is BuildArgs without the prompt, for logging
func displayArgs(opts Options) []string {
	bin := opts.Bin
	if bin == "" {
		bin = DefaultBin
	}
	base := opts.Args
	if base == nil {
		base = DefaultArgs
	}

	args := make([]string, 0, 1+len(base)+2+len(opts.ExtraArgs)+1)
	args = append(args, bin)
	args = append(args, base...)
	if opts.Model != "" {
		args = append(args, "--model", opts.Model)
	}
	args = append(args, opts.ExtraArgs...)
	return args
}

// Invoke sends prompt to opencode and returns its trimmed stdout. A non-zero
// exit yields a ModelInvocationError; the output is not parsed here.
func (i *Invoker) Invoke(ctx context.Context, prompt string) (string, error) {
	i.logger.Debug("Invoking opencode", zap.String("command", strings.Join(displayArgs(i.opts), " ")))

	res, err := i.runner.Run(ctx, BuildArgs(i.opts, prompt), process.Options{Dir: i.opts.Dir, Env: i.opts.Env})
	if err != nil {
		return "", err
	}

	if res.ExitCode != 0 {
		invErr := &domain.ModelInvocationError{
			ExitCode: res.ExitCode,
			Detail:   firstNonEmpty(res.Stderr, res.Stdout, unknownErr),
			Hint:     extractErrorHint(res.Stdout + "\n" + res.Stderr),
		}
		i.logger.Error("Model invocation failed", zap.Int("exit_code", res.ExitCode), zap.String("detail", invErr.Detail))
		return "", invErr
	}

	i.logger.Debug("Model invocation completed successfully")
	return res.Stdout, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// extractErrorHint scans the last lines of output for opencode's JSON error
// events and returns a readable message.
func extractErrorHint(output string) string {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0 && i >= len(lines)-20; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}

		var event struct {
			Type  string `json:"type"`
			Error struct {
				Name string `json:"name"`
				Data struct {
					Message string `json:"message"`
				} `json:"data"`
			} `json:"error"`
		}
		if err := json.Unmarshal([]byte(line), &event); err != nil || event.Type != "error" {
			continue
		}

		msg := event.Error.Data.Message
		if msg == "" {
			msg = event.Error.Name
		}
		switch {
		case strings.Contains(msg, "CreditsError") || strings.Contains(msg, "No payment method"):
			return "OpenCode billing error: No payment method configured"
		case strings.Contains(msg, "Unauthorized"):
			return "OpenCode authentication error: " + msg
		case msg != "":
			return msg
		}
	}
	return ""
}
