package synth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ormasoftchile/synthrun/pkg/console"
	"github.com/ormasoftchile/synthrun/pkg/providers"
)

// failingExecutor simulates an engine run that exits non-zero.
type failingExecutor struct {
	spec providers.ExecSpec
}

func (f *failingExecutor) Execute(ctx context.Context, spec providers.ExecSpec) (*providers.CommandResult, error) {
	f.spec = spec
	return &providers.CommandResult{Stderr: []byte("Error: licence not found"), ExitCode: 1}, nil
}

func fakeEngineBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dc_shell")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("write fake engine: %v", err)
	}
	return path
}

// TestRunSynthesisInvocation verifies the script is written to disk, the
// argv carries the 64-bit and read-script flags, the working directory is
// the run dir, and PATH is augmented with the engine's directory.
func TestRunSynthesisInvocation(t *testing.T) {
	job, run := stagedJob(t)
	job.Synthesis.EngineBin = fakeEngineBinary(t)
	run.Script.Append("compile_ultra")

	if err := runSynthesis(context.Background(), run); err != nil {
		t.Fatalf("runSynthesis: %v", err)
	}

	exec := run.Executor.(*providers.DryRunExecutor)
	if len(exec.Commands) != 1 {
		t.Fatalf("Commands = %v, want one engine invocation", exec.Commands)
	}
	want := job.Synthesis.EngineBin + " -64bit -f " + run.Layout.ScriptPath()
	if exec.Commands[0] != want {
		t.Errorf("invocation = %q, want %q", exec.Commands[0], want)
	}

	data, err := os.ReadFile(run.Layout.ScriptPath())
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if got := string(data); got != "compile_ultra\nexit\n" {
		t.Errorf("script = %q", got)
	}
}

// TestRunSynthesisEngineFailure verifies a non-zero engine exit surfaces
// as an EngineExecutionError and the console presentation is restored
// even on the failure path.
func TestRunSynthesisEngineFailure(t *testing.T) {
	job, run := stagedJob(t)
	job.Synthesis.EngineBin = fakeEngineBinary(t)
	fe := &failingExecutor{}
	run.Executor = fe

	stylingBefore := console.Enabled()
	err := runSynthesis(context.Background(), run)

	var engErr *EngineExecutionError
	if !errors.As(err, &engErr) {
		t.Fatalf("error = %v, want *EngineExecutionError", err)
	}
	if engErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", engErr.ExitCode)
	}
	if console.Enabled() != stylingBefore {
		t.Error("console presentation not restored after engine failure")
	}

	if fe.spec.Dir != run.Layout.RunDir {
		t.Errorf("working dir = %q, want run dir %q", fe.spec.Dir, run.Layout.RunDir)
	}
	engineDir := filepath.Dir(job.Synthesis.EngineBin)
	pathOK := false
	for _, kv := range fe.spec.Env {
		if strings.HasPrefix(kv, "PATH="+engineDir+string(os.PathListSeparator)) {
			pathOK = true
		}
	}
	if !pathOK {
		t.Errorf("PATH not augmented with engine dir %q", engineDir)
	}
}

func TestResolveEngineBinaryMissingPath(t *testing.T) {
	_, err := resolveEngineBinary(filepath.Join(t.TempDir(), "no_such_engine"))
	var missing *MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingInputError", err)
	}
}
