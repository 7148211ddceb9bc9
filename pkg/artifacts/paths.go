// Package artifacts resolves, validates and exports the output-file set
// of a synthesis run.
package artifacts

import (
	"fmt"
	"path/filepath"
	"strings"
)

// InvalidConfigurationError reports a layout that cannot resolve paths.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Layout resolves the canonical artifact paths of one run. All methods
// are pure; construction validates the inputs once.
type Layout struct {
	RunDir    string
	ResultDir string
	ReportDir string
	TopModule string
}

// NewLayout builds a Layout rooted at runDir with the conventional
// results/ and reports/ subdirectories.
func NewLayout(runDir, topModule string) (*Layout, error) {
	if strings.TrimSpace(topModule) == "" {
		return nil, &InvalidConfigurationError{Field: "top_module", Reason: "empty design name"}
	}
	if runDir == "" {
		return nil, &InvalidConfigurationError{Field: "run_dir", Reason: "empty run directory"}
	}
	return &Layout{
		RunDir:    runDir,
		ResultDir: filepath.Join(runDir, "results"),
		ReportDir: filepath.Join(runDir, "reports"),
		TopModule: topModule,
	}, nil
}

// MappedNetlist is the mapped Verilog netlist.
func (l *Layout) MappedNetlist() string {
	return filepath.Join(l.ResultDir, l.TopModule+".mapped.v")
}

// MappedSDC is the post-synthesis constraints file.
func (l *Layout) MappedSDC() string {
	return filepath.Join(l.ResultDir, l.TopModule+".mapped.sdc")
}

// MappedSDF is the timing-annotation file.
func (l *Layout) MappedSDF() string {
	return filepath.Join(l.ResultDir, l.TopModule+".mapped.sdf")
}

// MappedSVF is the verification guidance file named in the engine setup.
func (l *Layout) MappedSVF() string {
	return filepath.Join(l.ResultDir, l.TopModule+".mapped.svf")
}

// ScanConfigReport is the scan-insertion configuration report.
func (l *Layout) ScanConfigReport() string {
	return filepath.Join(l.ReportDir, l.TopModule+".scan_config.rpt")
}

// ScanChainReport is the stitched scan-chain report.
func (l *Layout) ScanChainReport() string {
	return filepath.Join(l.ReportDir, l.TopModule+".scan_chain.rpt")
}

// RegCells is the sequential-cell list dumped by the register fragment.
func (l *Layout) RegCells() string {
	return filepath.Join(l.RunDir, "find_regs_cells.json")
}

// RegPaths is the register hierarchical-path list.
func (l *Layout) RegPaths() string {
	return filepath.Join(l.RunDir, "find_regs_paths.json")
}

// ScriptPath is the assembled engine script.
func (l *Layout) ScriptPath() string {
	return filepath.Join(l.RunDir, "dc.tcl")
}

// RMScript is the vendor reference-methodology main script, present after
// tarball extraction.
func (l *Layout) RMScript() string {
	return filepath.Join(l.RunDir, "rm_dc_scripts", "dc.tcl")
}
