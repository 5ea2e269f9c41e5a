/*
PURPOSE:
  Defines the root Cobra command for the flexsweep CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.

  Implementation-discovered:
  - Needs to expose ExecuteContext for main.go.
  - Logger verbosity is a global concern, so --verbose lives here.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/flexsweep/main.go
  - Calls: Child commands (run, combinations, scripts, history)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

USAGE:
  Called by main.go.

RELATED FILES:
  - cmd/flexsweep/main.go
*/

package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/flexsweep/internal/output"
)

var (
	// verbose enables debug logging
	verbose bool
	// historyPath is the optional sweep history database
	historyPath string

	rootCmd = &cobra.Command{
		Use:   "flexsweep",
		Short: "Design-space exploration for HDL designs",
		Long: `Sweeps the parameter space of an HDL design: builds every parameter
combination with a simulator or synthesis tool and collects the results
into a CSV table. Use 'run --help' for sweep options.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.Configure(os.Stderr, verbose)
		},
	}
)

// ExecuteContext executes the root command with ctx, which is cancelled on
// interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging, including tool command lines")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "SQLite database recording every sweep and outcome")
}
