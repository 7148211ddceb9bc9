// Package schema defines the Go struct types for the synthesis job YAML
// schema and provides strict YAML parsing.
package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Job is the top-level document describing one synthesis run: the design
// under synthesis, the technology libraries it links against, and the
// engine settings.
type Job struct {
	APIVersion string    `yaml:"apiVersion" json:"apiVersion" jsonschema:"required,enum=synthrun/v1"`
	Design     Design    `yaml:"design"     json:"design"     jsonschema:"required"`
	Libraries  Libraries `yaml:"libraries"  json:"libraries"  jsonschema:"required"`
	Synthesis  Synthesis `yaml:"synthesis"  json:"synthesis"  jsonschema:"required"`
}

// Design describes the RTL under synthesis.
type Design struct {
	TopModule string   `yaml:"top_module"           json:"top_module" jsonschema:"required"`
	Sources   []string `yaml:"sources"              json:"sources"    jsonschema:"required"`
	Clocks    []Clock  `yaml:"clocks,omitempty"     json:"clocks,omitempty"`
	Resets    []Reset  `yaml:"resets,omitempty"     json:"resets,omitempty"`
	// SubBlocks lists child modules synthesized separately. A design with
	// sub-blocks is hierarchical and gets the extra enumeration fragment
	// before register metadata is written.
	SubBlocks []string `yaml:"sub_blocks,omitempty" json:"sub_blocks,omitempty"`
}

// Hierarchical reports whether the design has separately synthesized
// child modules.
func (d *Design) Hierarchical() bool {
	return len(d.SubBlocks) > 0
}

// Clock is one clock port with its target constraint.
type Clock struct {
	Name          string  `yaml:"name"                     json:"name"   jsonschema:"required"`
	Port          string  `yaml:"port,omitempty"           json:"port,omitempty"`
	PeriodNS      float64 `yaml:"period_ns"                json:"period_ns" jsonschema:"required"`
	UncertaintyNS float64 `yaml:"uncertainty_ns,omitempty" json:"uncertainty_ns,omitempty"`
}

// PortName returns the constrained port, defaulting to the clock name.
func (c *Clock) PortName() string {
	if c.Port != "" {
		return c.Port
	}
	return c.Name
}

// Reset is one reset port.
type Reset struct {
	Port      string `yaml:"port"                 json:"port" jsonschema:"required"`
	ActiveLow bool   `yaml:"active_low,omitempty" json:"active_low,omitempty"`
}

// Libraries names the technology collateral consumed by the run.
type Libraries struct {
	// TimingDBs are the compiled .db timing libraries; they become the
	// engine's target library set and must exist on disk.
	TimingDBs []string `yaml:"timing_dbs" json:"timing_dbs" jsonschema:"required"`
	// SynthVerilog are technology wrapper sources (e.g. SRAM wrappers)
	// that must be read alongside the design RTL.
	SynthVerilog []string `yaml:"synth_verilog,omitempty" json:"synth_verilog,omitempty"`
	// RMTarball is the vendor reference-methodology archive extracted
	// into the run directory before invocation.
	RMTarball string `yaml:"rm_tarball" json:"rm_tarball" jsonschema:"required"`
}

// Synthesis holds per-tool settings.
type Synthesis struct {
	// EngineBin is the synthesis engine binary (absolute path or a name
	// resolvable on PATH).
	EngineBin  string `yaml:"engine_bin"            json:"engine_bin" jsonschema:"required"`
	MaxThreads int    `yaml:"max_threads,omitempty" json:"max_threads,omitempty"`
	// CompileArgs are free-form extra arguments for the mapping command.
	CompileArgs []string `yaml:"compile_args,omitempty" json:"compile_args,omitempty"`
	// DontFlatten lists modules excluded from hierarchy flattening.
	DontFlatten []string `yaml:"dont_flatten,omitempty" json:"dont_flatten,omitempty"`
	// Retime lists modules whose registers the engine may retime.
	Retime []RetimeSpec `yaml:"retime,omitempty" json:"retime,omitempty"`
	// EnableCongestionMap keeps the RM congestion-map fragment active.
	// It needs a GUI session and licences, so it defaults to off and the
	// fragment is patched out of the vendor script.
	EnableCongestionMap bool `yaml:"enable_congestion_map,omitempty" json:"enable_congestion_map,omitempty"`
	// WriteRegs controls the optional register-metadata stage. Defaults
	// to on; downstream flows that don't consume register metadata can
	// disable it.
	WriteRegs *bool `yaml:"write_regs,omitempty" json:"write_regs,omitempty"`
	// DFT enables the optional scan-insertion stages.
	DFT *DFTConfig `yaml:"dft,omitempty" json:"dft,omitempty"`
	// Hooks inject extra engine commands around named stages.
	Hooks []Hook `yaml:"hooks,omitempty" json:"hooks,omitempty"`
}

// ThreadCount returns the configured thread count with its default.
func (s *Synthesis) ThreadCount() int {
	if s.MaxThreads > 0 {
		return s.MaxThreads
	}
	return 1
}

// WriteRegsEnabled reports whether the register-metadata stage should run.
func (s *Synthesis) WriteRegsEnabled() bool {
	return s.WriteRegs == nil || *s.WriteRegs
}

// RetimeSpec names one module to retime, with extra arguments for the
// retiming command.
type RetimeSpec struct {
	Module    string   `yaml:"module"               json:"module" jsonschema:"required"`
	ExtraArgs []string `yaml:"extra_args,omitempty" json:"extra_args,omitempty"`
}

// DFTConfig configures the optional test-logic insertion stages.
type DFTConfig struct {
	Enable bool `yaml:"enable" json:"enable"`
	// ChainCount is the number of scan chains to configure (0 = engine default).
	ChainCount int `yaml:"chain_count,omitempty" json:"chain_count,omitempty"`
}

// Hook injects literal engine commands before or after a named stage.
// When is an optional expr condition evaluated against the design
// metadata (top, clocks, resets, hierarchical, sub_blocks).
type Hook struct {
	Stage     string   `yaml:"stage"               json:"stage"     jsonschema:"required"`
	Placement string   `yaml:"placement,omitempty" json:"placement,omitempty" jsonschema:"enum=pre,enum=post"`
	When      string   `yaml:"when,omitempty"      json:"when,omitempty"`
	Commands  []string `yaml:"commands"            json:"commands"  jsonschema:"required"`
}

// LoadFile reads and strictly parses a job document from path.
func LoadFile(path string) (*Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open job: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a job from an io.Reader with strict unknown-field rejection.
func Load(r io.Reader) (*Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown fields

	var job Job
	if err := dec.Decode(&job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}
