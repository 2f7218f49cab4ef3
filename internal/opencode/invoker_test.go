package opencode

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hochfrequenz/acc/internal/domain"
	"github.com/hochfrequenz/acc/internal/process"
)

type recordingRunner struct {
	args   [][]string
	opts   []process.Options
	result process.Result
	err    error
}

func (r *recordingRunner) Run(_ context.Context, args []string, opts process.Options) (process.Result, error) {
	r.args = append(r.args, args)
	r.opts = append(r.opts, opts)
	return r.result, r.err
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"defaults", Options{}, []string{"opencode", "run", "PROMPT"}},
		{"model after base args", Options{Model: "opencode/gpt-5"}, []string{"opencode", "run", "--model", "opencode/gpt-5", "PROMPT"}},
		{
			"model before extra args",
			Options{Bin: "/usr/local/bin/opencode", Model: "m", ExtraArgs: []string{"--print-logs", "--agent", "build"}},
			[]string{"/usr/local/bin/opencode", "run", "--model", "m", "--print-logs", "--agent", "build", "PROMPT"},
		},
		{"custom base args", Options{Args: []string{"run", "--continue"}}, []string{"opencode", "run", "--continue", "PROMPT"}},
		{"explicitly empty base args", Options{Args: []string{}, Model: "m"}, []string{"opencode", "--model", "m", "PROMPT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildArgs(tt.opts, "PROMPT"))
		})
	}
}

func TestInvoke_ReturnsStdout(t *testing.T) {
	runner := &recordingRunner{result: process.Result{Stdout: `{"status":"resolved"}`, Stderr: "noise"}}
	inv := NewInvoker(runner, Options{Model: "m", Dir: "/repo", Env: map[string]string{"K": "V"}}, nil)

	out, err := inv.Invoke(context.Background(), "fix it")

	require.NoError(t, err)
	assert.Equal(t, `{"status":"resolved"}`, out)
	require.Len(t, runner.args, 1)
	assert.Equal(t, []string{"opencode", "run", "--model", "m", "fix it"}, runner.args[0])
	assert.Equal(t, "/repo", runner.opts[0].Dir)
	assert.Equal(t, "V", runner.opts[0].Env["K"])
}

func TestInvoke_NonZeroExit(t *testing.T) {
	tests := []struct {
		name       string
		result     process.Result
		wantDetail string
	}{
		{"stderr preferred", process.Result{ExitCode: 3, Stdout: "out", Stderr: "rate limited"}, "rate limited"},
		{"stdout fallback", process.Result{ExitCode: 1, Stdout: "only stdout"}, "only stdout"},
		{"sentinel", process.Result{ExitCode: 7}, "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewInvoker(&recordingRunner{result: tt.result}, Options{}, nil)

			_, err := inv.Invoke(context.Background(), "p")

			var invErr *domain.ModelInvocationError
			require.ErrorAs(t, err, &invErr)
			assert.Equal(t, tt.result.ExitCode, invErr.ExitCode)
			assert.Equal(t, tt.wantDetail, invErr.Detail)
			assert.Contains(t, err.Error(), tt.wantDetail)
		})
	}
}

func TestInvoke_RunnerError(t *testing.T) {
	boom := errors.New("starting opencode: executable file not found")
	inv := NewInvoker(&recordingRunner{err: boom}, Options{}, nil)

	_, err := inv.Invoke(context.Background(), "p")

	assert.ErrorIs(t, err, boom)
}

func TestInvoke_LogsCommandWithoutPrompt(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	inv := NewInvoker(&recordingRunner{}, Options{Model: "m", ExtraArgs: []string{"--x"}}, zap.New(core))

	_, err := inv.Invoke(context.Background(), "secret prompt text")
	require.NoError(t, err)

	entries := logs.FilterMessage("Invoking opencode").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "opencode run --model m --x", entries[0].ContextMap()["command"])
}

func TestNewInvoker_CopiesOptions(t *testing.T) {
	extra := []string{"--a"}
	inv := NewInvoker(&recordingRunner{}, Options{ExtraArgs: extra}, nil)
	extra[0] = "--mutated"

	assert.Equal(t, []string{"--a"}, inv.Options().ExtraArgs)
}

func TestExtractErrorHint(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"billing", `{"type":"error","error":{"name":"APIError","data":{"message":"CreditsError: No payment method"}}}`, "OpenCode billing error: No payment method configured"},
		{"auth", `{"type":"error","error":{"name":"APIError","data":{"message":"Unauthorized: bad key"}}}`, "OpenCode authentication error: Unauthorized: bad key"},
		{"name only", "some text\n" + `{"type":"error","error":{"name":"ProviderModelNotFoundError"}}`, "ProviderModelNotFoundError"},
		{"non error event", `{"type":"text","text":"hi"}`, ""},
		{"plain text", "boom", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractErrorHint(tt.output))
		})
	}
}
