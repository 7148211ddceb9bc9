package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// RealExecutor runs commands via os/exec. Output is captured for
// diagnostics and mirrored to the process's stdout/stderr so long
// engine compiles remain observable while they run.
type RealExecutor struct {
	// Quiet suppresses mirroring to the parent's stdio.
	Quiet bool
}

// Execute runs a command and returns its captured output and exit code.
// A non-zero exit is reported in the result, not as an error; errors are
// reserved for failures to start the process at all.
func (r *RealExecutor) Execute(ctx context.Context, spec ExecSpec) (*CommandResult, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = spec.Env
	}

	var stdout, stderr bytes.Buffer
	if r.Quiet {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	}

	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("execute command %q: %w", spec.Command, err)
		}
	}

	return &CommandResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode,
		Duration: duration,
	}, nil
}
