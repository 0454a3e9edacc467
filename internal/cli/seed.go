package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marathon-tools/runorder/internal/paths"
	"github.com/marathon-tools/runorder/internal/sqlite"
	"github.com/marathon-tools/runorder/pkg/types"
)

func newSeedCmd() *cobra.Command {
	var seedDir string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load registry fixtures from JSONL files",
		Long: "Load runs.jsonl, runners.jsonl, and schedules.jsonl from the given\n" +
			"directory into the registries. Re-seeding replaces records by ID.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}
			v, err := loadConfig(configDir)
			if err != nil {
				return err
			}
			dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
			if err != nil {
				return fmt.Errorf("resolve data dir: %w", err)
			}

			backend := sqlite.NewBackend()
			backend.SetLogger(newLogger())
			if err := backend.Attach(types.Config{
				DataDir:      dataDir,
				DatabaseFile: v.GetString(cfgKeyDatabaseFile),
				SeedDir:      seedDir,
			}); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			defer backend.Detach()

			fmt.Fprintf(cmd.OutOrStdout(), "seeded registries from %s\n", seedDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&seedDir, "dir", "", "directory containing JSONL fixtures")
	cmd.MarkFlagRequired("dir")

	return cmd
}
