// Package console is the presentation layer for run output: styled step
// banners and warnings, plus a process-wide suspension switch used while
// the external engine owns the terminal.
package console

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	styleStep = lipgloss.NewStyle().Bold(true)
	styleOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleFail = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleDim  = lipgloss.NewStyle().Faint(true)
)

// styling is process-wide mutable state. It is flipped only through
// Suspend, whose restore func must be deferred by the caller.
var styling = true

// Suspend turns off colour and tag rendering and returns the restore
// func. Engine output is interleaved with ours for the whole compile, so
// styled prefixes would corrupt the operator's log. Deferred restoration
// guarantees the flags never leak past the invocation, even on failure.
func Suspend() (restore func()) {
	prev := styling
	styling = false
	return func() { styling = prev }
}

// Enabled reports whether styled output is currently active.
func Enabled() bool {
	return styling
}

func render(style lipgloss.Style, s string) string {
	if !styling {
		return s
	}
	return style.Render(s)
}

// stepNameWidth aligns step banners; the longest stage name wins.
const stepNameWidth = 20

// Stepf prints a step banner: index, total, padded stage name.
func Stepf(index, total int, name string) {
	padded := name + strings.Repeat(" ", max(0, stepNameWidth-runewidth.StringWidth(name)))
	fmt.Printf("\n%s %d/%d: %s\n", render(styleStep, "▶ Step"), index, total, padded)
}

// Donef reports a passed step.
func Donef(name string) {
	fmt.Printf("  %s step %q\n", render(styleOK, "✓"), name)
}

// Skipf reports a skipped optional step.
func Skipf(name string, reason string) {
	fmt.Printf("  %s step %q skipped: %s\n", render(styleDim, "⊘"), name, reason)
}

// Warnf reports a non-fatal condition.
func Warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", render(styleWarn, "warning:"), fmt.Sprintf(format, args...))
}

// Failf reports a fatal step failure.
func Failf(name string, err error) {
	fmt.Fprintf(os.Stderr, "  %s step %q: %v\n", render(styleFail, "✗"), name, err)
}

// Infof prints an informational line indented under the current step.
func Infof(format string, args ...interface{}) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
