package domain

import "strings"

// CommandSpec describes a command either as a single shell-executed line or as
// an explicit argument vector. Args takes precedence when non-nil.
type CommandSpec struct {
	Line string
	Args []string
}

// ShellCommand returns a CommandSpec executed through a shell
func ShellCommand(line string) CommandSpec {
	return CommandSpec{Line: line}
}

// ArgvCommand returns a CommandSpec executed without a shell
func ArgvCommand(args ...string) CommandSpec {
	if args == nil {
		args = []string{}
	}
	return CommandSpec{Args: args}
}

// IsArgv reports whether the spec is an explicit argument vector
func (c CommandSpec) IsArgv() bool {
	return c.Args != nil
}

// String returns a human-readable form of the command
func (c CommandSpec) String() string {
	if c.IsArgv() {
		return strings.Join(c.Args, " ")
	}
	return c.Line
}
