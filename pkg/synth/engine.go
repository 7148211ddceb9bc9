package synth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ormasoftchile/synthrun/pkg/artifacts"
	"github.com/ormasoftchile/synthrun/pkg/console"
	"github.com/ormasoftchile/synthrun/pkg/providers"
	"github.com/ormasoftchile/synthrun/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Engine executes the synthesis pipeline for one run.
type Engine struct {
	Run   *Run
	Trace *TraceWriter

	steps     []Step
	startedAt time.Time
}

// NewEngine creates an engine for one synthesis run rooted at runDir.
func NewEngine(job *schema.Job, runDir string, executor providers.CommandExecutor) (*Engine, error) {
	run, err := NewRun(job, runDir, executor)
	if err != nil {
		return nil, err
	}
	trace, err := NewTraceWriter(filepath.Join(run.Layout.RunDir, "trace.jsonl"))
	if err != nil {
		return nil, err
	}
	return &Engine{Run: run, Trace: trace, steps: Steps()}, nil
}

// Execute runs every stage in order, fail-fast, then validates the
// produced artifacts and exports the output map. The returned report is
// nil when any stage or mandatory artifact failed.
func (e *Engine) Execute(ctx context.Context) (*artifacts.Report, error) {
	defer e.Trace.Close()
	e.startedAt = time.Now()

	for i, step := range e.steps {
		if err := e.executeStep(ctx, i, len(e.steps), step); err != nil {
			e.writeManifest("failed")
			return nil, err
		}
	}

	// A dry run's engine never produced anything to check.
	if e.Run.DryRun {
		e.writeManifest("passed")
		return &artifacts.Report{Outputs: map[string]string{}}, nil
	}

	report, err := artifacts.Validate(e.Run.Layout, e.Run.Records)
	if err != nil {
		e.writeManifest("failed")
		return nil, err
	}
	for _, w := range report.Warnings {
		console.Warnf("%s", w)
	}
	if err := report.WriteOutputs(e.Run.Layout.RunDir); err != nil {
		e.writeManifest("failed")
		return nil, err
	}
	e.writeManifest("passed")
	return report, nil
}

// executeStep runs one stage, records its tagged result and traces it.
func (e *Engine) executeStep(ctx context.Context, index, total int, step Step) error {
	result := &StepResult{
		RunID:     e.Run.ID,
		Step:      step.Name,
		StepIndex: index,
		StartedAt: time.Now(),
	}
	record := func(status artifacts.Status, runErr error) error {
		e.Run.Records[step.Name] = status
		result.Status = status.String()
		result.EndedAt = time.Now()
		if runErr != nil {
			result.Error = runErr.Error()
		}
		e.Run.Results = append(e.Run.Results, result)
		if err := e.Trace.Write(result); err != nil {
			return fmt.Errorf("write trace for step %q: %w", step.Name, err)
		}
		return nil
	}

	if step.Enabled != nil {
		if ok, reason := step.Enabled(e.Run); !ok {
			console.Skipf(step.Name, reason)
			return record(artifacts.StatusSkipped, nil)
		}
	}

	console.Stepf(index+1, total, step.Name)

	runStage := func() error {
		if err := e.Run.applyHooks(step.Name, "pre"); err != nil {
			return err
		}
		if err := step.Run(ctx, e.Run); err != nil {
			return err
		}
		return e.Run.applyHooks(step.Name, "post")
	}
	if err := runStage(); err != nil {
		console.Failf(step.Name, err)
		if traceErr := record(artifacts.StatusFailed, err); traceErr != nil {
			return traceErr
		}
		return fmt.Errorf("step %q: %w", step.Name, err)
	}

	console.Donef(step.Name)
	return record(artifacts.StatusRan, nil)
}

// Manifest is the run.yaml summary written at run end.
type Manifest struct {
	RunID     string            `yaml:"run_id"`
	TopModule string            `yaml:"top_module"`
	Status    string            `yaml:"status"`
	StartedAt string            `yaml:"started_at"`
	EndedAt   string            `yaml:"ended_at"`
	Stages    map[string]string `yaml:"stages"`
}

// writeManifest writes run.yaml; manifest failures are reported as
// warnings, never override the run verdict.
func (e *Engine) writeManifest(status string) {
	stages := make(map[string]string, len(e.Run.Records))
	for name, st := range e.Run.Records {
		stages[name] = st.String()
	}
	m := Manifest{
		RunID:     e.Run.ID,
		TopModule: e.Run.Job.Design.TopModule,
		Status:    status,
		StartedAt: e.startedAt.UTC().Format(time.RFC3339),
		EndedAt:   time.Now().UTC().Format(time.RFC3339),
		Stages:    stages,
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		console.Warnf("marshal manifest: %v", err)
		return
	}
	if err := os.WriteFile(filepath.Join(e.Run.Layout.RunDir, "run.yaml"), data, 0644); err != nil {
		console.Warnf("write manifest: %v", err)
	}
}
