package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestFixResult_Resolved(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"resolved", true},
		{"RESOLVED", true},
		{"Resolved", true},
		{"open", false},
		{"unresolved", false},
		{"", false},
		{" resolved", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := FixResult{Status: tt.status}.Resolved()
			if got != tt.want {
				t.Errorf("Resolved(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestRunResult_Unresolved(t *testing.T) {
	issues := []LintIssue{{FilePath: "a.ts"}, {FilePath: "b.ts"}, {FilePath: "c.ts"}}

	tests := []struct {
		name    string
		result  RunResult
		want    int
		outcome RunOutcome
	}{
		{"empty", RunResult{}, 0, RunClean},
		{"all resolved", RunResult{Issues: issues[:2], Results: []FixResult{{Status: "resolved"}, {Status: "Resolved"}}}, 0, RunResolved},
		{"one open", RunResult{Issues: issues[:2], Results: []FixResult{{Status: "resolved"}, {Status: "open"}}}, 1, RunUnresolved},
		{"missing result", RunResult{Issues: issues, Results: []FixResult{{Status: "resolved"}}}, 2, RunUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Unresolved(); got != tt.want {
				t.Errorf("Unresolved() = %d, want %d", got, tt.want)
			}
			if got := tt.result.Outcome(); got != tt.outcome {
				t.Errorf("Outcome() = %s, want %s", got, tt.outcome)
			}
		})
	}
}

func TestRunResult_StatusCounts(t *testing.T) {
	result := RunResult{
		Results: []FixResult{{Status: "resolved"}, {Status: "open"}, {Status: "resolved"}},
	}

	counts := result.StatusCounts()
	if counts["resolved"] != 2 {
		t.Errorf("resolved = %d, want 2", counts["resolved"])
	}
	if counts["open"] != 1 {
		t.Errorf("open = %d, want 1", counts["open"])
	}
}

func TestCommandSpec_String(t *testing.T) {
	if got := ShellCommand("pnpm lint").String(); got != "pnpm lint" {
		t.Errorf("String() = %q, want %q", got, "pnpm lint")
	}
	if got := ArgvCommand("eslint", "--format", "unix").String(); got != "eslint --format unix" {
		t.Errorf("String() = %q", got)
	}
	if !ArgvCommand().IsArgv() {
		t.Error("empty argv command should still be an argv command")
	}
	if ShellCommand("x").IsArgv() {
		t.Error("shell command should not be an argv command")
	}
}

func TestErrors_Messages(t *testing.T) {
	lintErr := &LintCommandError{ExitCode: 2, Detail: "parse error"}
	if got := lintErr.Error(); got != "lint command failed with code 2: parse error" {
		t.Errorf("LintCommandError = %q", got)
	}

	modelErr := &ModelInvocationError{ExitCode: 1, Detail: "boom", Hint: "OpenCode billing error"}
	if got := modelErr.Error(); got != "model invocation failed with code 1: boom (OpenCode billing error)" {
		t.Errorf("ModelInvocationError = %q", got)
	}

	schemaErr := &SchemaValidationError{Shape: "fix result", Field: "status", Expected: "string", Reason: "field is required"}
	parsing := fmt.Errorf("wrapped: %w", &LintParsingError{Err: schemaErr})

	var target *SchemaValidationError
	if !errors.As(parsing, &target) {
		t.Fatal("LintParsingError should unwrap to SchemaValidationError")
	}
	if target.Field != "status" {
		t.Errorf("Field = %q, want status", target.Field)
	}
}

func TestKnownModels_ReturnsCopy(t *testing.T) {
	models := KnownModels()
	if len(models) == 0 {
		t.Fatal("catalog should not be empty")
	}
	models[0] = "mutated"
	if KnownModels()[0] == "mutated" {
		t.Error("KnownModels must not expose the backing array")
	}
}

func TestRun_Finish(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)

	run := &Run{StartedAt: start}
	run.Finish(RunResult{
		Issues:  []LintIssue{{FilePath: "a"}, {FilePath: "b"}},
		Results: []FixResult{{Status: "resolved"}, {Status: "open"}},
	}, nil, end)

	if run.Outcome != RunUnresolved || run.IssueCount != 2 || run.UnresolvedCount != 1 {
		t.Errorf("run = %+v", run)
	}
	if run.Duration() != time.Minute {
		t.Errorf("Duration() = %v, want 1m", run.Duration())
	}

	failed := &Run{StartedAt: start}
	failed.Finish(RunResult{}, &LintCommandError{ExitCode: 2, Detail: "x"}, end)
	if failed.Outcome != RunFailed || failed.ErrorMessage != "lint command failed with code 2: x" {
		t.Errorf("failed run = %+v", failed)
	}
}
