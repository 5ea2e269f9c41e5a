/*
PURPOSE:
  Defines the 'combinations' subcommand.
  Prints the combinations a config would run, without running any tool.

REQUIREMENTS:
  User-specified:
  - Preview the sweep.

  Implementation-discovered:
  - Useful validation step before a long synthesis run.
  - Sampling and derivation apply, so --seed reproduces what 'run' would do.

ARCHITECTURE INTEGRATION:
  - Calls: internal/sweep.Plan.Build() (via internal/config)

ERROR HANDLING:
  - Prints the configuration error if the sweep is invalid.

IMPLEMENTATION RULES:
  - Simple output to stdout, one combination per line.

USAGE:
  flexsweep combinations fifo.yaml --run-names

RELATED FILES:
  - internal/sweep/plan.go
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/flexsweep/internal/config"
)

var runNames bool

var combinationsCmd = &cobra.Command{
	Use:     "combinations [config]",
	Aliases: []string{"ls"},
	Short:   "List the combinations a sweep would run",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("sample") {
			cfg.Sample = sampleOverride
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		rng, _ := sweepRNG(cmd)
		combos, err := cfg.Plan().Build(rng)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, c := range combos {
			if runNames {
				fmt.Fprintln(out, c.RunName(cfg.Top))
				continue
			}
			fmt.Fprintf(out, "%4d  %s\n", i+1, c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(combinationsCmd)

	combinationsCmd.Flags().BoolVar(&runNames, "run-names", false, "print build directory run names instead of parameters")
	combinationsCmd.Flags().IntVarP(&sampleOverride, "sample", "s", 0, "randomly sample this many combinations")
	combinationsCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for derived parameters and sampling")
}
