package synth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ormasoftchile/synthrun/pkg/artifacts"
	"github.com/ormasoftchile/synthrun/pkg/providers"
	"github.com/ormasoftchile/synthrun/pkg/schema"
	"github.com/ormasoftchile/synthrun/pkg/script"
)

// Step is one named unit of the pipeline, executed in fixed order. An
// optional step declares Enabled; when it reports false the step is
// recorded as skipped without running.
type Step struct {
	Name    string
	Enabled func(r *Run) (bool, string)
	Run     func(ctx context.Context, r *Run) error
}

// Steps returns the pipeline in execution order.
func Steps() []Step {
	return []Step{
		{Name: schema.StageInitEnvironment, Run: initEnvironment},
		{Name: schema.StageElaborateDesign, Run: elaborateDesign},
		{Name: schema.StageApplyConstraints, Run: applyConstraints},
		{Name: schema.StageInsertDFT, Enabled: dftEnabled, Run: insertDFT},
		{Name: schema.StageOptimizeDesign, Run: optimizeDesign},
		{Name: schema.StageGenerateReports, Run: generateReports},
		{Name: schema.StageGenerateDFTReports, Enabled: dftRan, Run: generateDFTReports},
		{Name: schema.StageWriteOutputs, Run: writeOutputs},
		{Name: schema.StageWriteRegs, Enabled: writeRegsEnabled, Run: writeRegs},
		{Name: schema.StageRunSynthesis, Run: runSynthesis},
	}
}

func dftEnabled(r *Run) (bool, string) {
	if r.Job.Synthesis.DFT == nil || !r.Job.Synthesis.DFT.Enable {
		return false, "dft disabled"
	}
	return true, ""
}

func dftRan(r *Run) (bool, string) {
	if r.Records[schema.StageInsertDFT] != artifacts.StatusRan {
		return false, "test logic was not inserted"
	}
	return true, ""
}

func writeRegsEnabled(r *Run) (bool, string) {
	if !r.Job.Synthesis.WriteRegsEnabled() {
		return false, "register metadata disabled"
	}
	return true, ""
}

// initEnvironment validates the timing libraries and appends the engine
// configuration preamble.
func initEnvironment(ctx context.Context, r *Run) error {
	for _, db := range r.Job.Libraries.TimingDBs {
		if _, err := os.Stat(db); err != nil {
			return &MissingInputError{Path: db, Role: "timing library"}
		}
	}

	r.Script.Appendf("set_host_options -max_cores %d", r.Job.Synthesis.ThreadCount())
	r.Script.Appendf("set_app_var target_library \"%s\"", strings.Join(r.Job.Libraries.TimingDBs, " "))
	r.Script.Append("set_app_var synthetic_library dw_foundation.sldb")
	r.Script.Append(`set_app_var link_library "* $target_library $synthetic_library"`)
	// Single-pass flow with verification-friendly optimizations; must be
	// set before reading the RTL.
	r.Script.Append("set_app_var simplified_verification_mode false")
	r.Script.Appendf("set_svf results/%s.mapped.svf", r.Job.Design.TopModule)
	return nil
}

// elaborateDesign validates the sources, stages the fragment files and
// reference-methodology assets, and appends the read/elaborate/link
// commands.
func elaborateDesign(ctx context.Context, r *Run) error {
	// Technology wrapper sources are synthesized together with the RTL.
	sources := append([]string{}, r.Job.Design.Sources...)
	sources = append(sources, r.Job.Libraries.SynthVerilog...)
	for _, src := range sources {
		if _, err := os.Stat(src); err != nil {
			return &MissingInputError{Path: src, Role: "source"}
		}
	}

	if err := r.stageFragment(clockConstraintsFragment, clockConstraintsTCL(&r.Job.Design)); err != nil {
		return err
	}
	if err := r.stageFragment(routingDirectionsFragment, routingDirectionsTCL()); err != nil {
		return err
	}
	if err := r.stageFragment(findRegsFragment, findRegsTCL); err != nil {
		return err
	}

	if err := r.extractRM(ctx); err != nil {
		return err
	}
	// The RM congestion map needs a GUI session and licences; patch the
	// vendor script unless it was explicitly requested. On a dry run the
	// tarball was never actually unpacked, so there is no script to patch.
	if !r.Job.Synthesis.EnableCongestionMap && !r.DryRun {
		if err := script.Patch(r.Layout.RMScript(), congestionMapBlock, congestionMapCondition, "false"); err != nil {
			return err
		}
	}

	for _, src := range sources {
		r.Script.Appendf("analyze -format verilog {%s}", src)
	}
	r.Script.Appendf("elaborate %s", r.Job.Design.TopModule)
	r.Script.Appendf("current_design %s", r.Job.Design.TopModule)
	r.Script.Append("link")
	return nil
}

// stageFragment writes one generated side file into the run directory.
func (r *Run) stageFragment(name, content string) error {
	path := filepath.Join(r.Layout.RunDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("stage fragment %s: %w", name, err)
	}
	return nil
}

// extractRM unpacks the vendor reference-methodology tarball into the run
// directory so its scripts can be patched before invocation.
func (r *Run) extractRM(ctx context.Context) error {
	tarball := r.Job.Libraries.RMTarball
	if _, err := os.Stat(tarball); err != nil {
		return &MissingInputError{Path: tarball, Role: "reference methodology tarball"}
	}
	res, err := r.Executor.Execute(ctx, providers.ExecSpec{
		Command: "tar",
		Args:    []string{"-xf", tarball, "-C", r.Layout.RunDir, "--strip-components=1"},
	})
	if err != nil {
		return fmt.Errorf("extract reference methodology: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("extract reference methodology %s: tar exited with code %d", tarball, res.ExitCode)
	}
	return nil
}

// applyConstraints appends the clock, retiming and path-grouping
// commands. Purely additive.
func applyConstraints(ctx context.Context, r *Run) error {
	r.Script.Appendf("source -echo -verbose %s", clockConstraintsFragment)
	r.Script.Appendf("source -echo -verbose %s", routingDirectionsFragment)

	for _, rt := range r.Job.Synthesis.Retime {
		cmd := fmt.Sprintf("set_optimize_registers true -design %s", rt.Module)
		if len(rt.ExtraArgs) > 0 {
			cmd += " " + strings.Join(rt.ExtraArgs, " ")
		}
		r.Script.Append(cmd)
	}
	for _, mod := range r.Job.Synthesis.DontFlatten {
		r.Script.Appendf("set_ungroup [get_designs %s] false", mod)
	}
	for _, clk := range r.Job.Design.Clocks {
		r.Script.Appendf("group_path -name %s -weight 1", clk.Name)
	}
	if len(r.Job.Design.Clocks) > 0 {
		r.Script.Append("group_path -name INPUTS -from [all_inputs]")
		r.Script.Append("group_path -name OUTPUTS -to [all_outputs]")
	}
	return nil
}

// insertDFT appends the scan configuration and DFT signal commands. The
// design must expose at least one clock and one reset; there is no sane
// arbitrary default for either.
func insertDFT(ctx context.Context, r *Run) error {
	if len(r.Job.Design.Clocks) == 0 {
		return &MissingPortError{Top: r.Job.Design.TopModule, Kind: "clock"}
	}
	if len(r.Job.Design.Resets) == 0 {
		return &MissingPortError{Top: r.Job.Design.TopModule, Kind: "reset"}
	}

	cfg := "set_scan_configuration -style multiplexed_flip_flop"
	if r.Job.Synthesis.DFT.ChainCount > 0 {
		cfg += fmt.Sprintf(" -chain_count %d", r.Job.Synthesis.DFT.ChainCount)
	}
	r.Script.Append(cfg)

	for _, clk := range r.Job.Design.Clocks {
		r.Script.Appendf("set_dft_signal -view existing_dft -type ScanClock -port %s -timing [list 45 55]", clk.PortName())
	}
	for _, rst := range r.Job.Design.Resets {
		active := 1
		if rst.ActiveLow {
			active = 0
		}
		r.Script.Appendf("set_dft_signal -view existing_dft -type Reset -port %s -active_state %d", rst.Port, active)
	}
	r.Script.Append("create_test_protocol")
	r.Script.Append("insert_dft")
	return nil
}

// optimizeDesign appends the single mapping command with the free-form
// extra arguments from settings.
func optimizeDesign(ctx context.Context, r *Run) error {
	cmd := "compile_ultra"
	if args := r.Job.Synthesis.CompileArgs; len(args) > 0 {
		cmd += " " + strings.Join(args, " ")
	}
	r.Script.Append(cmd)
	return nil
}

// generateReports appends the report commands. Report absence is only
// checked post-hoc by the validator, never here.
func generateReports(ctx context.Context, r *Run) error {
	top := r.Job.Design.TopModule
	r.Script.Appendf("report_qor > reports/%s.qor.rpt", top)
	r.Script.Appendf("report_timing -nosplit -max_paths 10 > reports/%s.timing.rpt", top)
	r.Script.Appendf("report_area -hierarchy -nosplit > reports/%s.area.rpt", top)
	r.Script.Appendf("report_power -nosplit > reports/%s.power.rpt", top)
	return nil
}

// generateDFTReports appends the scan reports; only reached when test
// logic was inserted.
func generateDFTReports(ctx context.Context, r *Run) error {
	top := r.Job.Design.TopModule
	r.Script.Appendf("report_scan_configuration > reports/%s.scan_config.rpt", top)
	r.Script.Appendf("report_scan_chain > reports/%s.scan_chain.rpt", top)
	return nil
}

// writeOutputs appends the netlist/constraints/timing-annotation write
// commands.
func writeOutputs(ctx context.Context, r *Run) error {
	top := r.Job.Design.TopModule
	r.Script.Append("change_names -rules verilog -hierarchy")
	r.Script.Appendf("write -format verilog -hierarchy -output results/%s.mapped.v", top)
	r.Script.Appendf("write_sdc -nosplit results/%s.mapped.sdc", top)
	r.Script.Appendf("write_sdf results/%s.mapped.sdf", top)
	return nil
}

// writeRegs appends the register-dump fragment; hierarchical designs
// first get the child-module enumeration so the dump descends into
// separately synthesized sub-blocks.
func writeRegs(ctx context.Context, r *Run) error {
	if r.Job.Design.Hierarchical() {
		if err := r.stageFragment(childModulesFragment, childModulesTCL(r.Job.Design.SubBlocks)); err != nil {
			return err
		}
		r.Script.Appendf("source -echo -verbose %s", childModulesFragment)
	}
	r.Script.Appendf("source -echo -verbose %s", findRegsFragment)
	return nil
}
