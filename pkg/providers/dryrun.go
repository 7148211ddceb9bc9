package providers

import (
	"context"
	"strings"
)

// DryRunExecutor reports commands without executing them. Every invocation
// succeeds with placeholder output; the recorded command lines let callers
// and tests inspect what would have run.
type DryRunExecutor struct {
	Commands []string
}

func (d *DryRunExecutor) Execute(ctx context.Context, spec ExecSpec) (*CommandResult, error) {
	d.Commands = append(d.Commands, strings.Join(append([]string{spec.Command}, spec.Args...), " "))
	return &CommandResult{
		Stdout:   []byte("<dry-run>"),
		ExitCode: 0,
	}, nil
}
