package domain

import "fmt"

// ConfigurationError reports invalid or missing configuration, such as a
// non-positive concurrency or no lint command at all.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// InvalidCommandError reports a command string that is empty after trimming
type InvalidCommandError struct {
	Command string
}

func (e *InvalidCommandError) Error() string {
	return "command string cannot be empty"
}

// LintCommandError reports a lint command that exited non-zero
type LintCommandError struct {
	ExitCode int
	Detail   string
}

func (e *LintCommandError) Error() string {
	return fmt.Sprintf("lint command failed with code %d: %s", e.ExitCode, e.Detail)
}

// ModelInvocationError reports an opencode invocation that exited non-zero.
// Hint carries a message extracted from opencode's JSON error output, if any.
type ModelInvocationError struct {
	ExitCode int
	Detail   string
	Hint     string
}

func (e *ModelInvocationError) Error() string {
	msg := fmt.Sprintf("model invocation failed with code %d: %s", e.ExitCode, e.Detail)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// SchemaValidationError reports JSON that does not match an expected shape
type SchemaValidationError struct {
	Shape    string // "lint issue array" or "fix result"
	Field    string // e.g. "[0].loc"; empty for the document root
	Expected string // e.g. "integer"
	Reason   string
	Err      error // underlying decode error, if any
}

func (e *SchemaValidationError) Error() string {
	where := e.Shape
	if e.Field != "" {
		where += " field " + e.Field
	}
	if e.Expected != "" {
		return fmt.Sprintf("%s: expected %s: %s", where, e.Expected, e.Reason)
	}
	return fmt.Sprintf("%s: %s", where, e.Reason)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// LintParsingError reports that the parser model's answer could not be turned
// into lint issues. It wraps the extraction or schema error.
type LintParsingError struct {
	Err error
}

func (e *LintParsingError) Error() string {
	return fmt.Sprintf("failed to parse lint task items: %v", e.Err)
}

func (e *LintParsingError) Unwrap() error {
	return e.Err
}
