package schema

import (
	"strings"
	"testing"
)

func validJob() *Job {
	return &Job{
		APIVersion: "synthrun/v1",
		Design: Design{
			TopModule: "core",
			Sources:   []string{"src/core.v"},
			Clocks:    []Clock{{Name: "clk", PeriodNS: 1.0}},
			Resets:    []Reset{{Port: "rst_n", ActiveLow: true}},
		},
		Libraries: Libraries{
			TimingDBs: []string{"tech/fast.db"},
			RMTarball: "tech/DC-RM.tar.gz",
		},
		Synthesis: Synthesis{EngineBin: "dc_shell"},
	}
}

func TestValidateDomainAcceptsValidJob(t *testing.T) {
	if errs := ValidateDomain(validJob()); len(errs) != 0 {
		t.Fatalf("ValidateDomain returned errors for valid job: %v", errs[0])
	}
}

func TestValidateDomainRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Job)
		wantErr string // substring expected in the error path
	}{
		{"empty top module", func(j *Job) { j.Design.TopModule = " " }, "design.top_module"},
		{"no sources", func(j *Job) { j.Design.Sources = nil }, "design.sources"},
		{"zero clock period", func(j *Job) { j.Design.Clocks[0].PeriodNS = 0 }, "period_ns"},
		{"duplicate clock", func(j *Job) {
			j.Design.Clocks = append(j.Design.Clocks, Clock{Name: "clk", PeriodNS: 2})
		}, "design.clocks[1].name"},
		{"empty reset port", func(j *Job) { j.Design.Resets[0].Port = "" }, "design.resets[0].port"},
		{"no timing dbs", func(j *Job) { j.Libraries.TimingDBs = nil }, "libraries.timing_dbs"},
		{"no rm tarball", func(j *Job) { j.Libraries.RMTarball = "" }, "libraries.rm_tarball"},
		{"no engine bin", func(j *Job) { j.Synthesis.EngineBin = "" }, "synthesis.engine_bin"},
		{"negative threads", func(j *Job) { j.Synthesis.MaxThreads = -2 }, "synthesis.max_threads"},
		{"bad apiVersion", func(j *Job) { j.APIVersion = "synthrun/v0" }, "apiVersion"},
		{"empty retime module", func(j *Job) {
			j.Synthesis.Retime = []RetimeSpec{{Module: ""}}
		}, "synthesis.retime[0].module"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			tt.mutate(job)
			errs := ValidateDomain(job)
			if len(errs) == 0 {
				t.Fatal("ValidateDomain returned no errors")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e.Path, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error at path containing %q; got %v", tt.wantErr, errs)
			}
		})
	}
}

func TestValidateDomainHooks(t *testing.T) {
	job := validJob()
	job.Synthesis.Hooks = []Hook{
		{Stage: "optimize_design", Placement: "pre", Commands: []string{"set_max_area 0"}},
		{Stage: "no_such_stage", Commands: []string{"puts hi"}},
		{Stage: "write_regs", When: "hierarchical &&", Commands: []string{"puts hi"}},
		{Stage: "write_outputs", Placement: "before", Commands: []string{"puts hi"}},
		{Stage: "generate_reports"},
	}
	errs := ValidateDomain(job)
	if len(errs) != 4 {
		t.Fatalf("ValidateDomain returned %d errors, want 4: %v", len(errs), errs)
	}
}

func TestHookEnv(t *testing.T) {
	job := validJob()
	job.Design.SubBlocks = []string{"alu", "fpu"}
	env := HookEnv(&job.Design)
	if env["hierarchical"] != true {
		t.Error("hierarchical = false for design with sub-blocks")
	}
	if clocks := env["clocks"].([]string); len(clocks) != 1 || clocks[0] != "clk" {
		t.Errorf("clocks = %v", clocks)
	}
}

func TestValidateFileFullDocument(t *testing.T) {
	job, errs := ValidateFile("testdata/job.yaml")
	if len(errs) > 0 {
		t.Fatalf("ValidateFile: %v", errs[0])
	}
	if job.Design.TopModule != "core" || !job.Design.Hierarchical() {
		t.Errorf("unexpected design: %+v", job.Design)
	}
	if job.Synthesis.DFT == nil || !job.Synthesis.DFT.Enable {
		t.Error("dft config not decoded")
	}
	if len(job.Synthesis.Hooks) != 1 || job.Synthesis.Hooks[0].Stage != StageOptimizeDesign {
		t.Errorf("hooks = %+v", job.Synthesis.Hooks)
	}
}

func TestValidateSemanticCatchesMissingRequired(t *testing.T) {
	job := validJob()
	job.Design.TopModule = ""
	errs := Validate(job)
	if len(errs) == 0 {
		t.Fatal("Validate returned no errors for missing top module")
	}
}
