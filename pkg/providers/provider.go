// Package providers defines the CommandExecutor interface used to run
// external tools (the synthesis engine, tar, …) and its real and dry-run
// implementations.
package providers

import (
	"context"
	"time"
)

// CommandResult holds the output of a single command execution.
type CommandResult struct {
	Stdout   []byte        `json:"stdout"`
	Stderr   []byte        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Lines returns stdout split into lines for diagnostics.
func (r *CommandResult) Lines() []string {
	return splitLines(r.Stdout)
}

// ExecSpec describes one command invocation.
type ExecSpec struct {
	Command string   // binary name or path
	Args    []string
	Dir     string   // working directory ("" = inherit)
	Env     []string // full environment ("" slice = inherit)
}

// CommandExecutor abstracts real vs dry-run command execution.
// Implementations: RealExecutor, DryRunExecutor.
type CommandExecutor interface {
	Execute(ctx context.Context, spec ExecSpec) (*CommandResult, error)
}

func splitLines(b []byte) []string {
	var lines []string
	start := 0
	for i, c := range b {
		if c == '\n' {
			lines = append(lines, string(b[start:i]))
			start = i + 1
		}
	}
	if start < len(b) {
		lines = append(lines, string(b[start:]))
	}
	return lines
}
