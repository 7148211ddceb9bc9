package synth

import "fmt"

// MissingInputError reports a required input file that does not exist.
// Every stage that consumes files checks them up front so the operator
// gets the exact path instead of an engine parse error hours later.
type MissingInputError struct {
	Path string
	Role string // what the file was needed as: "timing library", "source", …
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required %s not found: %s", e.Role, e.Path)
}

// MissingPortError reports a design without the clock or reset port a
// stage requires. The stage never defaults to an arbitrary port.
type MissingPortError struct {
	Top  string
	Kind string // "clock" or "reset"
}

func (e *MissingPortError) Error() string {
	return fmt.Sprintf("design %s has no %s port available", e.Top, e.Kind)
}

// EngineExecutionError reports a non-zero exit from the external engine.
// The engine's own diagnostics have already been streamed to the
// operator; this error carries the invocation facts.
type EngineExecutionError struct {
	Binary   string
	Script   string
	ExitCode int
}

func (e *EngineExecutionError) Error() string {
	return fmt.Sprintf("synthesis engine %s exited with code %d (script: %s)", e.Binary, e.ExitCode, e.Script)
}
