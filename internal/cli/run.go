/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes a full sweep.

REQUIREMENTS:
  User-specified:
  - Mode, tool, CSV path, clock period and sample size can override the YAML.
  - Unknown mode/tool, or a missing CSV in synth mode, fails before any
    combination runs.

  Implementation-discovered:
  - A seed makes derived values and sampling reproducible.
  - Exit status is non-zero when any combination failed.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Sweep.Run()
  - Uses: internal/config, internal/sweep, internal/output, internal/store

ERROR HANDLING:
  - Returns error if config load fails, the sweep definition is invalid, or
    any combination failed.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Build sweep -> Engine.Run.

USAGE:
  flexsweep run fifo.yaml -m synth -t vivado -c fifo.csv

RELATED FILES:
  - internal/cli/root.go
*/

package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daryltucker/flexsweep/internal/config"
	"github.com/daryltucker/flexsweep/internal/engine"
	"github.com/daryltucker/flexsweep/internal/model"
	"github.com/daryltucker/flexsweep/internal/output"
	"github.com/daryltucker/flexsweep/internal/store"
)

var (
	modeOverride   string
	toolOverride   string
	csvOverride    string
	clkPeriod      float64
	sampleOverride int
	seed           uint64
	journalPath    string
	quietTools     bool
)

var runCmd = &cobra.Command{
	Use:   "run [config]",
	Short: "Run a parameter sweep",
	Long: `Builds every parameter combination described by the config file.

For each combination flexsweep writes the tool's input files into the build
directory, runs the tool once, and appends the measured results to the CSV
table. A failed combination is reported by name and does not stop the sweep.

Without a config argument, flexsweep.yaml (or flexsweep.yml, flex.yaml) in
the current directory is used.`,
	Example: `  # Simulate every combination with Questa
  flexsweep run fifo.yaml -m sim -t questa

  # Synthesize 20 random combinations with Vivado at 250 MHz
  flexsweep run fifo.yaml -m synth -t vivado -c fifo.csv -p 4 -s 20 --seed 7

  # Keep a history of every sweep
  flexsweep run fifo.yaml --history sweeps.db --journal fifo.jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		// 2. Overrides
		applyOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		// 3. Execution
		return runSweep(cmd, cfg)
	},
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if modeOverride != "" {
		cfg.Mode = modeOverride
	}
	if toolOverride != "" {
		cfg.Tool = toolOverride
	}
	if csvOverride != "" {
		cfg.CSV = csvOverride
	}
	if cmd.Flags().Changed("clk-period") {
		cfg.ClockPeriod = clkPeriod
	}
	if cmd.Flags().Changed("sample") {
		cfg.Sample = sampleOverride
	}
}

// sweepRNG returns the generator behind derived values and sampling.
func sweepRNG(cmd *cobra.Command) (*rand.Rand, uint64) {
	s := seed
	if !cmd.Flags().Changed("seed") {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s>>1|1)), s
}

func runSweep(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Mode == engine.ModeSynth && cfg.CSV == "" {
		return model.ConfigError("missing CSV filename for synthesis results")
	}

	exec := &engine.ProcessExecutor{}
	if !quietTools {
		exec.Echo = cmd.OutOrStdout()
	}
	backend, err := engine.NewBackend(cfg.Mode, cfg.Tool, engine.Options{
		Top:         cfg.Top,
		Device:      cfg.Device,
		Clock:       cfg.Clock,
		Reset:       cfg.Reset,
		Files:       cfg.Files,
		ClockPeriod: cfg.ClockPeriod,
		Exec:        exec,
	})
	if err != nil {
		return err
	}

	rng, usedSeed := sweepRNG(cmd)
	combos, err := cfg.Plan().Build(rng)
	if err != nil {
		return err
	}
	output.Logger.Info("Sweep planned",
		"config", cfg.Path,
		"backend", backend.Name(),
		"combinations", len(combos),
		"seed", usedSeed,
	)

	ws, err := engine.OpenWorkspace(filepath.Join(cfg.BuildDir, engine.WorkDir(backend)))
	if err != nil {
		return err
	}

	s := &engine.Sweep{
		Backend:   backend,
		Workspace: ws,
		Top:       cfg.Top,
		RunID:     uuid.NewString(),
	}
	if cfg.CSV != "" {
		s.Table = output.NewTable(cfg.CSV)
	}
	if journalPath != "" {
		j, err := output.NewJournal(journalPath)
		if err != nil {
			return fmt.Errorf("failed to open journal %s: %w", journalPath, err)
		}
		defer j.Close()
		s.Journal = j
	}

	var history *store.Store
	if historyPath != "" {
		history, err = store.Open(historyPath)
		if err != nil {
			return err
		}
		defer history.Close()
		if err := history.BeginRun(ctx, store.Run{
			ID:        s.RunID,
			StartedAt: time.Now(),
			Mode:      cfg.Mode,
			Tool:      cfg.Tool,
			Top:       cfg.Top,
			Config:    cfg.Path,
		}); err != nil {
			return err
		}
		s.History = history
	}

	summary, runErr := s.Run(ctx, combos)

	if history != nil {
		if err := history.FinishRun(context.WithoutCancel(ctx), summary); err != nil {
			output.Logger.Error("Failed to finish run in history", "error", err)
		}
	}
	if err := output.RenderSummary(os.Stderr, summary); err != nil {
		output.Logger.Error("Failed to print summary", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("sweep interrupted after %d of %d combinations: %w", summary.Total, len(combos), runErr)
	}
	if !summary.OK() {
		return fmt.Errorf("%d of %d combinations failed", len(summary.Failures), summary.Total)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&modeOverride, "mode", "m", "", "sim or synth (overrides config)")
	runCmd.Flags().StringVarP(&toolOverride, "tool", "t", "", "questa, vivado or quartus (overrides config)")
	runCmd.Flags().StringVarP(&csvOverride, "csv", "c", "", "results CSV file, required for synthesis (overrides config)")
	runCmd.Flags().Float64VarP(&clkPeriod, "clk-period", "p", 1.0, "clock period in ns (overrides config)")
	runCmd.Flags().IntVarP(&sampleOverride, "sample", "s", 0, "randomly sample this many combinations")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for derived parameters and sampling (default: time based)")
	runCmd.Flags().StringVar(&journalPath, "journal", "", "append every combination outcome to this JSON Lines file")
	runCmd.Flags().BoolVarP(&quietTools, "quiet", "q", false, "do not echo tool output (it is still logged in the build directory)")
}
