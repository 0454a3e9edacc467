package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marathon-tools/runorder/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize runorder storage",
		Long:  "Create the configuration directory, a default config.yaml, and the database.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	// openApp creates the config dir, writes config.yaml if missing, and
	// attaches the backend, which creates the database file and schema.
	_, cleanup, err := openApp()
	if err != nil {
		return err
	}
	cleanup()

	fmt.Fprintf(cmd.OutOrStdout(), "runorder initialized (config: %s)\n", configDir)
	return nil
}
