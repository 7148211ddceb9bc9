package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// RegisterPathProcessingError reports a register metadata file that could
// not be parsed or normalized.
type RegisterPathProcessingError struct {
	Path   string
	Reason string
}

func (e *RegisterPathProcessingError) Error() string {
	return fmt.Sprintf("process register paths %s: %s", e.Path, e.Reason)
}

// RegisterPath is one normalized register: the instance path of its
// enclosing module and the register name itself.
type RegisterPath struct {
	Module   string `yaml:"module" json:"module"`
	Register string `yaml:"register" json:"register"`
}

// ProcessRegisterPaths reads the engine's register path dump (a JSON
// array of hierarchical names rooted at the top module) and derives the
// normalized module/register mapping. Every entry must be rooted at the
// top module; anything else means the dump came from the wrong design
// and the run must fail rather than export bogus metadata.
func ProcessRegisterPaths(path string, topModule string) ([]RegisterPath, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RegisterPathProcessingError{Path: path, Reason: err.Error()}
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &RegisterPathProcessingError{Path: path, Reason: fmt.Sprintf("parse: %v", err)}
	}

	regs := make([]RegisterPath, 0, len(raw))
	for _, entry := range raw {
		if entry == "" {
			return nil, &RegisterPathProcessingError{Path: path, Reason: "empty register path entry"}
		}
		if entry != topModule && !strings.HasPrefix(entry, topModule+"/") {
			return nil, &RegisterPathProcessingError{
				Path:   path,
				Reason: fmt.Sprintf("entry %q not rooted at top module %q", entry, topModule),
			}
		}
		i := strings.LastIndex(entry, "/")
		if i < 0 {
			// A bare top-module entry carries no register name.
			return nil, &RegisterPathProcessingError{Path: path, Reason: fmt.Sprintf("entry %q has no register component", entry)}
		}
		regs = append(regs, RegisterPath{Module: entry[:i], Register: entry[i+1:]})
	}
	return regs, nil
}

// ReadSequentialCells reads the engine's sequential cell dump (a JSON
// array of cell names).
func ReadSequentialCells(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RegisterPathProcessingError{Path: path, Reason: err.Error()}
	}
	var cells []string
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, &RegisterPathProcessingError{Path: path, Reason: fmt.Sprintf("parse: %v", err)}
	}
	return cells, nil
}
