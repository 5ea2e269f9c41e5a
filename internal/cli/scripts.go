package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/flexsweep/internal/assets"
	"github.com/daryltucker/flexsweep/internal/output"
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Manage the TCL flow scripts run by the synthesis tools",
}

var scriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the embedded flow scripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := assets.Names()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var scriptsInstallCmd = &cobra.Command{
	Use:   "install [dir]",
	Short: "Write the flow scripts to dir for editing or manual runs",
	Long: `Writes the embedded TCL flow scripts to dir (default: current directory).

Each sweep writes its own copy into the build directory, so installing is
only needed to inspect the flows or run a tool by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetDir := "."
		if len(args) == 1 {
			targetDir = args[0]
		}

		names, err := assets.Names()
		if err != nil {
			return fmt.Errorf("failed to read embedded scripts: %w", err)
		}

		output.Logger.Info("Installing flow scripts...", "target", targetDir)
		count := 0
		for _, name := range names {
			path, err := assets.Install(targetDir, name)
			if err != nil {
				output.Logger.Error("Failed to install script", "name", name, "error", err)
				continue
			}
			output.Logger.Info("Installed script", "path", path)
			count++
		}

		if count != len(names) {
			return fmt.Errorf("installed %d of %d scripts", count, len(names))
		}
		output.Logger.Info("Installation Complete", "total_files", count)
		return nil
	},
}

func init() {
	scriptsCmd.AddCommand(scriptsListCmd, scriptsInstallCmd)
	rootCmd.AddCommand(scriptsCmd)
}
