// Package process runs external commands and captures their output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Options configures a single command invocation
type Options struct {
	Dir string            // working directory; empty inherits the caller's
	Env map[string]string // appended to the parent environment
}

// Result holds the trimmed output and exit code of a finished command
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes commands. A non-zero exit code is reported in Result,
// never as an error; errors mean the command could not be run at all.
type Runner interface {
	Run(ctx context.Context, args []string, opts Options) (Result, error)
}

// Executor runs commands as child processes. Standard input is inherited
// so the child may prompt the user; stdout and stderr are captured.
type Executor struct {
	stdin io.Reader
}

// NewExecutor creates an Executor that shares the caller's standard input
func NewExecutor() *Executor {
	return &Executor{stdin: os.Stdin}
}

// NewExecutorWithStdin creates an Executor reading standard input from r.
// A nil reader connects the child to the null device.
func NewExecutorWithStdin(r io.Reader) *Executor {
	return &Executor{stdin: r}
}

// Run starts args[0] with the remaining arguments and waits for it to exit.
// Both output streams are read until every writer, grandchildren included,
// has closed them. Once ctx is done the streams are abandoned instead.
func (e *Executor) Run(ctx context.Context, args []string, opts Options) (Result, error) {
	if len(args) == 0 {
		return Result{}, fmt.Errorf("command args required")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), envSlice(opts.Env)...)
	}
	cmd.Stdin = e.stdin

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return Result{}, fmt.Errorf("creating stdout pipe: %w", err)
	}
	defer stdoutR.Close()
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutW.Close()
		return Result{}, fmt.Errorf("creating stderr pipe: %w", err)
	}
	defer stderrR.Close()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	startErr := cmd.Start()
	// The child holds its own copies of the write ends.
	stdoutW.Close()
	stderrW.Close()
	if startErr != nil {
		return Result{}, fmt.Errorf("starting %s: %w", args[0], startErr)
	}

	var stdout, stderr bytes.Buffer
	var drain errgroup.Group
	drain.Go(func() error {
		_, err := io.Copy(&stdout, stdoutR)
		return err
	})
	drain.Go(func() error {
		_, err := io.Copy(&stderr, stderrR)
		return err
	})

	waitErr := cmd.Wait()
	drained := make(chan error, 1)
	go func() { drained <- drain.Wait() }()

	var readErr error
	select {
	case readErr = <-drained:
	case <-ctx.Done():
		stdoutR.Close()
		stderrR.Close()
		<-drained
	}

	result := Result{
		Stdout: decode(stdout.Bytes()),
		Stderr: decode(stderr.Bytes()),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s: %w", args[0], ctxErr)
	}
	if readErr != nil {
		return result, fmt.Errorf("reading output of %s: %w", args[0], readErr)
	}

	code, err := exitCode(waitErr)
	if err != nil {
		return result, fmt.Errorf("waiting for %s: %w", args[0], err)
	}
	result.ExitCode = code
	return result, nil
}

func decode(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "�"))
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

func envSlice(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(env))
	for _, key := range keys {
		out = append(out, fmt.Sprintf("%s=%s", key, env[key]))
	}
	return out
}
