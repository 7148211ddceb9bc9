// Package synth drives one synthesis run: an ordered pipeline of stages
// that assemble the engine script, an invoker that hands the script to
// the external engine, and post-run artifact validation.
package synth

import (
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/ormasoftchile/synthrun/pkg/artifacts"
	"github.com/ormasoftchile/synthrun/pkg/providers"
	"github.com/ormasoftchile/synthrun/pkg/schema"
	"github.com/ormasoftchile/synthrun/pkg/script"
)

// GenerateRunID creates a run ID in format YYYYMMDDTHHmmss-xxxx.
func GenerateRunID() string {
	ts := time.Now().Format("20060102T150405")
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return fmt.Sprintf("%s-%x", ts, suffix)
}

// Run is the shared state of one synthesis run. It is created at run
// start, mutated by the stages in order, read-only during validation,
// and discarded at run end. A Run is never shared across concurrent
// synthesis runs.
type Run struct {
	ID       string
	Job      *schema.Job
	Layout   *artifacts.Layout
	Script   script.Buffer
	Executor providers.CommandExecutor

	// DryRun marks a run whose executor records commands without running
	// them: the stages still assemble the full script, but nothing that
	// depends on a command's side effects (unpacked files, engine
	// outputs) can be touched.
	DryRun bool

	// Records holds the tagged result of every executed stage, consumed
	// directly by artifact validation.
	Records map[string]artifacts.Status

	// Results accumulates per-stage trace entries.
	Results []*StepResult
}

// NewRun builds the run context and its directory skeleton.
func NewRun(job *schema.Job, runDir string, executor providers.CommandExecutor) (*Run, error) {
	layout, err := artifacts.NewLayout(runDir, job.Design.TopModule)
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{layout.RunDir, layout.ResultDir, layout.ReportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create run directory: %w", err)
		}
	}
	return &Run{
		ID:       GenerateRunID(),
		Job:      job,
		Layout:   layout,
		Executor: executor,
		Records:  make(map[string]artifacts.Status),
	}, nil
}

// StepResult is the trace record of one executed stage.
type StepResult struct {
	RunID     string    `json:"run_id"`
	Step      string    `json:"step"`
	StepIndex int       `json:"step_index"`
	Status    string    `json:"status"` // ran, skipped, failed
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Error     string    `json:"error,omitempty"`
}
