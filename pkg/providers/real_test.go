package providers

import (
	"context"
	"runtime"
	"strings"
	"testing"
)

// TestRealExecutorCapturesOutput runs a trivial command and checks stdout
// and exit code are captured.
func TestRealExecutorCapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX echo binary")
	}
	r := &RealExecutor{Quiet: true}
	res, err := r.Execute(context.Background(), ExecSpec{Command: "echo", Args: []string{"hello"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if got := strings.TrimSpace(string(res.Stdout)); got != "hello" {
		t.Errorf("Stdout = %q, want %q", got, "hello")
	}
}

// TestRealExecutorNonZeroExit verifies a failing command reports its exit
// code in the result instead of an error.
func TestRealExecutorNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX false binary")
	}
	r := &RealExecutor{Quiet: true}
	res, err := r.Execute(context.Background(), ExecSpec{Command: "false"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.ExitCode == 0 {
		t.Error("ExitCode = 0, want non-zero")
	}
}

func TestDryRunExecutorRecords(t *testing.T) {
	d := &DryRunExecutor{}
	_, err := d.Execute(context.Background(), ExecSpec{Command: "dc_shell", Args: []string{"-64bit", "-f", "dc.tcl"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(d.Commands) != 1 || d.Commands[0] != "dc_shell -64bit -f dc.tcl" {
		t.Errorf("Commands = %v", d.Commands)
	}
}

func TestCommandResultLines(t *testing.T) {
	r := &CommandResult{Stdout: []byte("a\nb\nc")}
	lines := r.Lines()
	if len(lines) != 3 || lines[2] != "c" {
		t.Errorf("Lines() = %v", lines)
	}
}
