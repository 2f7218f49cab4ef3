//go:build integration

package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// fakeOpencode answers the parse prompt with FAKE_ISSUES wrapped in prose and
// fix prompts with a resolved status for a.ts and an open status otherwise.
const fakeOpencode = `#!/bin/sh
for last; do :; done
case "$last" in
  *"Lint finding details"*)
    case "$last" in
      *"- File: a.ts"*) echo '{"status":"resolved","summary":"removed x"}' ;;
      *) echo '{"status":"open","summary":"left as is"}' ;;
    esac
    ;;
  *)
    echo 'Here you go:'
    echo "$FAKE_ISSUES"
    echo 'Thanks!'
    ;;
esac
`

// TempDBPath creates a temporary database path for testing
func TempDBPath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "test.db")
}

// TempConfigPath creates a temporary config file path for testing
func TempConfigPath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "config.toml")
}

// WriteFakeOpencode writes the fake opencode script and returns its path
func WriteFakeOpencode(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "opencode")
	if err := os.WriteFile(path, []byte(fakeOpencode), 0755); err != nil {
		t.Fatalf("Failed to write fake opencode: %v", err)
	}
	return path
}

// createTestConfig creates a temporary config file for testing
func createTestConfig(t *testing.T, opencodeBin, dbPath string) string {
	t.Helper()
	configPath := TempConfigPath(t)

	config := `[lint]
shell = "sh"

[opencode]
bin = "` + opencodeBin + `"
args = ["run"]

[history]
enabled = true
database_path = "` + dbPath + `"

[notifications]
desktop = false
`

	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	return configPath
}

// runAcc runs the binary with a clean lint command environment and the
// given fake issues. It returns the combined output and the exit code.
func runAcc(t *testing.T, issues string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath(t), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(),
		"ACC_LINT_COMMAND=",
		"FAKE_ISSUES="+issues,
	)
	out, err := cmd.CombinedOutput()

	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("Failed to run acc: %v", err)
	}
	return string(out), code
}
