package main

import (
	"fmt"
	"os"

	"github.com/ormasoftchile/synthrun/pkg/console"
	"github.com/ormasoftchile/synthrun/pkg/providers"
	"github.com/ormasoftchile/synthrun/pkg/schema"
	"github.com/ormasoftchile/synthrun/pkg/synth"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "synthrun",
	Short: "Synthesis run orchestrator",
	Long:  "synthrun — assembles the engine script for a chip-synthesis run, drives the external engine, and validates the produced artifacts.",
}

// --- run ---

var (
	runDir    string
	dryRun    bool
	quietFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run <job.yaml>",
	Short: "Execute a synthesis run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, errs := schema.ValidateFile(args[0])
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "  %v\n", e)
			}
			return fmt.Errorf("job validation failed with %d error(s)", len(errs))
		}

		dir := runDir
		if dir == "" {
			dir = "syn-rundir"
		}

		var executor providers.CommandExecutor
		if dryRun {
			executor = &providers.DryRunExecutor{}
		} else {
			executor = &providers.RealExecutor{Quiet: quietFlag}
		}

		engine, err := synth.NewEngine(job, dir, executor)
		if err != nil {
			return err
		}
		engine.Run.DryRun = dryRun
		console.Infof("run %s: synthesizing %s in %s", engine.Run.ID, job.Design.TopModule, dir)

		report, err := engine.Execute(cmd.Context())
		if err != nil {
			return err
		}
		if dryRun {
			console.Infof("dry-run complete; script assembled at %s", engine.Run.Layout.ScriptPath())
			return nil
		}
		console.Infof("run complete; %d outputs exported to outputs.yaml", len(report.Outputs))
		return nil
	},
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate <job.yaml>",
	Short: "Validate a job document without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, errs := schema.ValidateFile(args[0])
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "  %v\n", e)
			}
			return fmt.Errorf("%d validation error(s)", len(errs))
		}
		fmt.Println("job is valid")
		return nil
	},
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the job JSON Schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := schema.GenerateJSONSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("synthrun %s (%s)\n", version, commit)
	},
}

func init() {
	runCmd.Flags().StringVar(&runDir, "run-dir", "", "run directory (default \"syn-rundir\")")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "assemble the script without invoking the engine")
	runCmd.Flags().BoolVar(&quietFlag, "quiet", false, "do not mirror engine output to the terminal")
	rootCmd.AddCommand(runCmd, validateCmd, schemaCmd, versionCmd)
}
