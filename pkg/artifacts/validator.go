package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ormasoftchile/synthrun/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Status is the tagged per-stage result consumed by validation. Gating is
// expressed directly as "did the producing stage run", not through
// separate boolean flags.
type Status int

const (
	StatusSkipped Status = iota
	StatusRan
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRan:
		return "ran"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ExpectedArtifact is one output the run may produce.
type ExpectedArtifact struct {
	Key       string // logical export key
	Path      string
	Mandatory bool
	// GatedBy names the stage that produces this artifact. When that
	// stage did not run the artifact is reported as skipped, never as
	// missing.
	GatedBy string
}

// MissingOutputError reports a mandatory artifact absent after a run that
// was otherwise deemed successful.
type MissingOutputError struct {
	Key  string
	Path string
}

func (e *MissingOutputError) Error() string {
	return fmt.Sprintf("mandatory output %s not found: %s", e.Key, e.Path)
}

// Expected returns the full artifact table for a layout, in export order.
func Expected(l *Layout) []ExpectedArtifact {
	return []ExpectedArtifact{
		{Key: "synthesis.outputs.netlist", Path: l.MappedNetlist(), Mandatory: true, GatedBy: schema.StageWriteOutputs},
		{Key: "synthesis.outputs.sdc", Path: l.MappedSDC(), Mandatory: true, GatedBy: schema.StageWriteOutputs},
		{Key: "synthesis.outputs.sdf", Path: l.MappedSDF(), Mandatory: false, GatedBy: schema.StageWriteOutputs},
		{Key: "synthesis.outputs.seq_cells", Path: l.RegCells(), Mandatory: true, GatedBy: schema.StageWriteRegs},
		{Key: "synthesis.outputs.all_regs", Path: l.RegPaths(), Mandatory: true, GatedBy: schema.StageWriteRegs},
		{Key: "synthesis.outputs.scan_config", Path: l.ScanConfigReport(), Mandatory: false, GatedBy: schema.StageInsertDFT},
		{Key: "synthesis.outputs.scan_chain", Path: l.ScanChainReport(), Mandatory: false, GatedBy: schema.StageInsertDFT},
	}
}

// Report is the validator's verdict plus the exported output map.
type Report struct {
	// Outputs maps logical keys to resolved paths for artifacts that
	// exist on disk.
	Outputs map[string]string `yaml:"outputs"`
	// Warnings lists optional artifacts that should exist but do not.
	Warnings []string `yaml:"warnings,omitempty"`
	// Skipped lists artifacts whose producing stage did not run.
	Skipped []string `yaml:"skipped,omitempty"`
	// Registers is the normalized register mapping, present when the
	// register-metadata stage ran.
	Registers []RegisterPath `yaml:"registers,omitempty"`
}

// Validate checks the filesystem state of every expected artifact against
// the per-stage records. Mandatory artifacts of a stage that ran must
// exist; optional ones produce warnings. The check is read-only, so
// validating the same state twice yields the same report.
func Validate(l *Layout, records map[string]Status) (*Report, error) {
	report := &Report{Outputs: make(map[string]string)}

	for _, art := range Expected(l) {
		if records[art.GatedBy] != StatusRan {
			report.Skipped = append(report.Skipped, art.Key)
			continue
		}
		if _, err := os.Stat(art.Path); err != nil {
			if art.Mandatory {
				return nil, &MissingOutputError{Key: art.Key, Path: art.Path}
			}
			report.Warnings = append(report.Warnings, fmt.Sprintf("optional output %s not found: %s", art.Key, art.Path))
			continue
		}
		report.Outputs[art.Key] = art.Path
	}

	if records[schema.StageWriteRegs] == StatusRan {
		regs, err := ProcessRegisterPaths(l.RegPaths(), l.TopModule)
		if err != nil {
			return nil, err
		}
		report.Registers = regs
	}

	return report, nil
}

// WriteOutputs writes the exported map (and register mapping) as
// outputs.yaml into the run directory for downstream consumers.
func (r *Report) WriteOutputs(runDir string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal outputs: %w", err)
	}
	path := filepath.Join(runDir, "outputs.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	return nil
}
