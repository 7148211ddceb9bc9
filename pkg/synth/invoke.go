package synth

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ormasoftchile/synthrun/pkg/console"
	"github.com/ormasoftchile/synthrun/pkg/providers"
)

// runSynthesis writes the assembled script and hands it to the external
// engine. This is the long stage: the engine compile can take minutes to
// hours and no timeout is imposed here — cancellation belongs to the
// caller's context.
func runSynthesis(ctx context.Context, r *Run) error {
	// Resolve the engine binary strictly before building the argv; the
	// binary's directory also feeds the child PATH below.
	enginePath, err := resolveEngineBinary(r.Job.Synthesis.EngineBin)
	if err != nil {
		return err
	}

	scriptPath := r.Layout.ScriptPath()
	if err := r.Script.WriteFile(scriptPath); err != nil {
		return err
	}

	// The engine's co-located tools must be reachable from the child
	// process, so its own directory is prepended to PATH.
	env := childEnv(filepath.Dir(enginePath))

	// Engine output is interleaved with ours for the whole compile;
	// styled prefixes would corrupt the operator's log.
	defer console.Suspend()()

	res, err := r.Executor.Execute(ctx, providers.ExecSpec{
		Command: enginePath,
		Args:    []string{"-64bit", "-f", scriptPath},
		Dir:     r.Layout.RunDir,
		Env:     env,
	})
	if err != nil {
		return fmt.Errorf("invoke engine: %w", err)
	}
	if res.ExitCode != 0 {
		return &EngineExecutionError{Binary: enginePath, Script: scriptPath, ExitCode: res.ExitCode}
	}
	return nil
}

// resolveEngineBinary turns the configured engine binary into an
// absolute path. A bare name is resolved on PATH; an explicit path must
// exist.
func resolveEngineBinary(bin string) (string, error) {
	if strings.ContainsRune(bin, os.PathSeparator) {
		if _, err := os.Stat(bin); err != nil {
			return "", &MissingInputError{Path: bin, Role: "engine binary"}
		}
		return filepath.Abs(bin)
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", &MissingInputError{Path: bin, Role: "engine binary"}
	}
	return path, nil
}

// childEnv returns the inherited environment with engineDir prepended to
// PATH.
func childEnv(engineDir string) []string {
	env := os.Environ()
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = "PATH=" + engineDir + string(os.PathListSeparator) + kv[len("PATH="):]
			return env
		}
	}
	return append(env, "PATH="+engineDir)
}
