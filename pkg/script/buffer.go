// Package script assembles and edits the TCL command script consumed by
// the external synthesis engine. The script is treated as opaque text:
// lines are appended in caller order and the only structural guarantee is
// the terminating exit directive.
package script

import (
	"fmt"
	"os"
	"strings"
)

// Buffer is an ordered, append-only collection of engine commands.
// The zero value is ready to use.
type Buffer struct {
	lines []string
}

// Append adds one command line to the buffer, preserving order.
func (b *Buffer) Append(line string) {
	b.lines = append(b.lines, line)
}

// Appendf formats and appends one command line.
func (b *Buffer) Appendf(format string, args ...interface{}) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// Len returns the number of appended lines (the exit directive excluded).
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Lines returns a copy of the appended lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Render joins all lines with newlines and terminates the script with a
// single exit directive. An empty buffer renders to just "exit".
func (b *Buffer) Render() string {
	if len(b.lines) == 0 {
		return "exit"
	}
	return strings.Join(b.lines, "\n") + "\nexit"
}

// WriteFile renders the buffer to path, overwriting any previous script.
// The in-memory buffer is not consumed; re-rendering overwrites the file.
func (b *Buffer) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(b.Render()+"\n"), 0644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}
