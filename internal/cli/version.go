package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the runorder release version, overridable at build time with
// -ldflags "-X .../internal/cli.Version=...".
var Version = "0.1.0"

const modulePath = "github.com/marathon-tools/runorder"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the runorder version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "runorder v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
