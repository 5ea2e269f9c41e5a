/*
PURPOSE:
  Entry point for the flexsweep application.
  Initializes the CLI root command and executes it.

REQUIREMENTS:
  User-specified:
  - Must serve as the single binary entry point.
  - Must exit non-zero on configuration errors or failed combinations.

  Implementation-discovered:
  - Uses cobra for CLI command management.
  - An interrupt cancels the context so the running tool is killed and the
    sweep stops after the current combination.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.ExecuteContext()
  - Depends on: internal/cli package

ERROR HANDLING:
  - Explicit error check on ExecuteContext(); exit code 1 on failure.

IMPLEMENTATION RULES:
  - Critical: Keep main() minimal. All logic belongs in internal/ packages.
  - Do not use global variables for state here.

USAGE:
  go build -o flexsweep ./cmd/flexsweep
  ./flexsweep [command] [flags]

RELATED FILES:
  - internal/cli/root.go - The actual root command definition.

MAINTENANCE:
  - Update when changing the CLI framework or high-level signal handling.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/daryltucker/flexsweep/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
