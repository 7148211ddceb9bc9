package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "find_regs_paths.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestProcessRegisterPaths(t *testing.T) {
	path := writeJSON(t, `["core/dp/state_reg", "core/ctrl/fsm/cnt_reg"]`)
	regs, err := ProcessRegisterPaths(path, "core")
	if err != nil {
		t.Fatalf("ProcessRegisterPaths: %v", err)
	}
	want := []RegisterPath{
		{Module: "core/dp", Register: "state_reg"},
		{Module: "core/ctrl/fsm", Register: "cnt_reg"},
	}
	if len(regs) != len(want) {
		t.Fatalf("got %d registers, want %d", len(regs), len(want))
	}
	for i := range want {
		if regs[i] != want[i] {
			t.Errorf("regs[%d] = %+v, want %+v", i, regs[i], want[i])
		}
	}
}

func TestProcessRegisterPathsWrongRoot(t *testing.T) {
	path := writeJSON(t, `["other/dp/state_reg"]`)
	_, err := ProcessRegisterPaths(path, "core")
	var perr *RegisterPathProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *RegisterPathProcessingError", err)
	}
}

func TestProcessRegisterPathsMalformedJSON(t *testing.T) {
	path := writeJSON(t, `{"not": "a list"}`)
	var perr *RegisterPathProcessingError
	if _, err := ProcessRegisterPaths(path, "core"); !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *RegisterPathProcessingError", err)
	}
}

func TestProcessRegisterPathsMissingFile(t *testing.T) {
	var perr *RegisterPathProcessingError
	if _, err := ProcessRegisterPaths(filepath.Join(t.TempDir(), "nope.json"), "core"); !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *RegisterPathProcessingError", err)
	}
}

func TestReadSequentialCells(t *testing.T) {
	path := writeJSON(t, `["core/dp/state_reg/DFF_X1"]`)
	cells, err := ReadSequentialCells(path)
	if err != nil {
		t.Fatalf("ReadSequentialCells: %v", err)
	}
	if len(cells) != 1 {
		t.Errorf("cells = %v", cells)
	}
}
