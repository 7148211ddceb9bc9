package console

import "testing"

// TestSuspendRestores verifies the restore func returns styling to its
// pre-suspension value, including under nested suspension.
func TestSuspendRestores(t *testing.T) {
	if !Enabled() {
		t.Fatal("styling disabled at test start")
	}

	restore := Suspend()
	if Enabled() {
		t.Error("styling still enabled after Suspend")
	}

	// Nested suspension keeps the inner pre-state (already suspended).
	inner := Suspend()
	inner()
	if Enabled() {
		t.Error("inner restore re-enabled styling suspended by the outer guard")
	}

	restore()
	if !Enabled() {
		t.Error("styling not restored after outer restore")
	}
}

// TestSuspendRestoresOnFailurePath simulates the invoker's deferred
// restore around a failing invocation.
func TestSuspendRestoresOnFailurePath(t *testing.T) {
	before := Enabled()
	func() {
		defer Suspend()()
		// invocation fails here; the deferred restore must still run
	}()
	if Enabled() != before {
		t.Errorf("Enabled() = %v after failed invocation, want %v", Enabled(), before)
	}
}
