package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Stage names, in pipeline order. Hooks attach to these.
const (
	StageInitEnvironment    = "init_environment"
	StageElaborateDesign    = "elaborate_design"
	StageApplyConstraints   = "apply_constraints"
	StageInsertDFT          = "insert_dft"
	StageOptimizeDesign     = "optimize_design"
	StageGenerateReports    = "generate_reports"
	StageGenerateDFTReports = "generate_dft_reports"
	StageWriteOutputs       = "write_outputs"
	StageWriteRegs          = "write_regs"
	StageRunSynthesis       = "run_synthesis"
)

// StageNames lists every pipeline stage in execution order.
var StageNames = []string{
	StageInitEnvironment,
	StageElaborateDesign,
	StageApplyConstraints,
	StageInsertDFT,
	StageOptimizeDesign,
	StageGenerateReports,
	StageGenerateDFTReports,
	StageWriteOutputs,
	StageWriteRegs,
	StageRunSynthesis,
}

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // JSON-path-like location (e.g., "synthesis.hooks[0].stage")
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// ValidateFile performs the full 3-phase validation pipeline on a job file.
// Phase 1: Structural (strict YAML decode)
// Phase 2: Semantic (JSON Schema validation)
// Phase 3: Domain (custom Go rules)
func ValidateFile(path string) (*Job, []*ValidationError) {
	job, err := LoadFile(path)
	if err != nil {
		return nil, []*ValidationError{{
			Phase:    "structural",
			Message:  err.Error(),
			Severity: "error",
		}}
	}
	return job, Validate(job)
}

// Validate runs the semantic and domain phases on an in-memory job.
func Validate(job *Job) []*ValidationError {
	var allErrors []*ValidationError
	allErrors = append(allErrors, validateSemantic(job)...)
	allErrors = append(allErrors, ValidateDomain(job)...)
	return allErrors
}

// validateSemantic validates the job against the generated JSON Schema.
func validateSemantic(job *Job) []*ValidationError {
	data, err := json.Marshal(job)
	if err != nil {
		return semanticFailure("marshal for schema validation: %v", err)
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return semanticFailure("generate schema: %v", err)
	}

	var schemaDoc interface{}
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return semanticFailure("unmarshal schema: %v", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("job-v1.json", schemaDoc); err != nil {
		return semanticFailure("add schema resource: %v", err)
	}
	sch, err := c.Compile("job-v1.json")
	if err != nil {
		return semanticFailure("compile schema: %v", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return semanticFailure("unmarshal document: %v", err)
	}

	if err := sch.Validate(doc); err != nil {
		var errs []*ValidationError
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			for _, cause := range flattenValidationErrors(ve) {
				errs = append(errs, &ValidationError{
					Phase:    "semantic",
					Path:     strings.Join(cause.InstanceLocation, "/"),
					Message:  fmt.Sprintf("%v", cause.ErrorKind),
					Severity: "error",
				})
			}
		} else {
			errs = append(errs, &ValidationError{
				Phase:    "semantic",
				Message:  err.Error(),
				Severity: "error",
			})
		}
		return errs
	}
	return nil
}

func semanticFailure(format string, args ...interface{}) []*ValidationError {
	return []*ValidationError{{
		Phase:    "semantic",
		Message:  fmt.Sprintf(format, args...),
		Severity: "error",
	}}
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// ValidateDomain performs Phase 3 domain-level validation.
// Returns a slice of errors; empty means valid.
func ValidateDomain(job *Job) []*ValidationError {
	var errs []*ValidationError
	addErr := func(path, format string, args ...interface{}) {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     path,
			Message:  fmt.Sprintf(format, args...),
			Severity: "error",
		})
	}

	if job.APIVersion != "synthrun/v1" {
		addErr("apiVersion", "unrecognized apiVersion %q, expected %q", job.APIVersion, "synthrun/v1")
	}

	if strings.TrimSpace(job.Design.TopModule) == "" {
		addErr("design.top_module", "top module name must not be empty")
	}
	if len(job.Design.Sources) == 0 {
		addErr("design.sources", "at least one source file is required")
	}

	seenClocks := map[string]bool{}
	for i, clk := range job.Design.Clocks {
		if clk.Name == "" {
			addErr(fmt.Sprintf("design.clocks[%d].name", i), "clock name must not be empty")
		}
		if clk.PeriodNS <= 0 {
			addErr(fmt.Sprintf("design.clocks[%d].period_ns", i), "clock period must be positive, got %v", clk.PeriodNS)
		}
		if seenClocks[clk.Name] {
			addErr(fmt.Sprintf("design.clocks[%d].name", i), "duplicate clock %q", clk.Name)
		}
		seenClocks[clk.Name] = true
	}
	for i, rst := range job.Design.Resets {
		if rst.Port == "" {
			addErr(fmt.Sprintf("design.resets[%d].port", i), "reset port must not be empty")
		}
	}

	if len(job.Libraries.TimingDBs) == 0 {
		addErr("libraries.timing_dbs", "at least one timing library is required")
	}
	if job.Libraries.RMTarball == "" {
		addErr("libraries.rm_tarball", "reference methodology tarball path is required")
	}

	if job.Synthesis.EngineBin == "" {
		addErr("synthesis.engine_bin", "engine binary is required")
	}
	if job.Synthesis.MaxThreads < 0 {
		addErr("synthesis.max_threads", "max_threads must not be negative")
	}
	for i, rt := range job.Synthesis.Retime {
		if rt.Module == "" {
			addErr(fmt.Sprintf("synthesis.retime[%d].module", i), "retime module must not be empty")
		}
	}
	if job.Synthesis.DFT != nil && job.Synthesis.DFT.ChainCount < 0 {
		addErr("synthesis.dft.chain_count", "chain_count must not be negative")
	}

	for i, hook := range job.Synthesis.Hooks {
		if !slices.Contains(StageNames, hook.Stage) {
			addErr(fmt.Sprintf("synthesis.hooks[%d].stage", i),
				"unknown stage %q (valid: %s)", hook.Stage, strings.Join(StageNames, ", "))
		}
		switch hook.Placement {
		case "", "pre", "post":
		default:
			addErr(fmt.Sprintf("synthesis.hooks[%d].placement", i),
				"placement must be \"pre\" or \"post\", got %q", hook.Placement)
		}
		if len(hook.Commands) == 0 {
			addErr(fmt.Sprintf("synthesis.hooks[%d].commands", i), "hook has no commands")
		}
		if hook.When != "" {
			// Compile against a representative env so bad expressions fail
			// at validation time, not mid-run.
			if _, err := expr.Compile(hook.When, expr.Env(HookEnv(&job.Design)), expr.AsBool()); err != nil {
				addErr(fmt.Sprintf("synthesis.hooks[%d].when", i), "invalid condition: %v", err)
			}
		}
	}

	return errs
}

// HookEnv builds the expr environment hook conditions are evaluated in.
func HookEnv(d *Design) map[string]interface{} {
	clocks := make([]string, len(d.Clocks))
	for i, c := range d.Clocks {
		clocks[i] = c.Name
	}
	resets := make([]string, len(d.Resets))
	for i, r := range d.Resets {
		resets[i] = r.Port
	}
	return map[string]interface{}{
		"top":          d.TopModule,
		"clocks":       clocks,
		"resets":       resets,
		"hierarchical": d.Hierarchical(),
		"sub_blocks":   d.SubBlocks,
	}
}
