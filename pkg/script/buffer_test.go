package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestRenderAppendsSingleExit verifies the rendered script always ends with
// exactly one exit directive, in insertion order.
func TestRenderAppendsSingleExit(t *testing.T) {
	var b Buffer
	b.Append("set A 1")
	b.Append("analyze core")

	got := b.Render()
	want := "set A 1\nanalyze core\nexit"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if strings.Count(got, "exit") != 1 {
		t.Errorf("Render() contains %d exit directives, want 1", strings.Count(got, "exit"))
	}
}

// TestRenderEmptyBuffer verifies an empty buffer still renders a terminated script.
func TestRenderEmptyBuffer(t *testing.T) {
	var b Buffer
	if got := b.Render(); got != "exit" {
		t.Errorf("Render() on empty buffer = %q, want %q", got, "exit")
	}
}

func TestAppendfFormats(t *testing.T) {
	var b Buffer
	b.Appendf("set_app_var target_library \"%s\"", "fast.db slow.db")
	want := `set_app_var target_library "fast.db slow.db"`
	if got := b.Lines()[0]; got != want {
		t.Errorf("Appendf line = %q, want %q", got, want)
	}
}

// TestWriteFileOverwrites verifies re-rendering overwrites the script file
// rather than appending to it.
func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dc.tcl")

	var b Buffer
	b.Append("read_verilog core.v")
	if err := b.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b.Append("link")
	if err := b.WriteFile(path); err != nil {
		t.Fatalf("WriteFile (second): %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	want := "read_verilog core.v\nlink\nexit\n"
	if string(data) != want {
		t.Errorf("script file = %q, want %q", string(data), want)
	}
}
