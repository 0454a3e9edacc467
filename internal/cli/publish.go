// Publication commands: publish, show, export.
package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/marathon-tools/runorder/internal/publication"
	"github.com/marathon-tools/runorder/pkg/types"
)

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <event-slug> <schedule-slug>",
		Short: "Freeze the current order into a new published revision",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			ps, err := a.publisher.Publish(args[0], args[1], time.Now())
			if err != nil {
				return err
			}

			if flags.jsonMode {
				return printJSON(cmd, ps)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "published %s revision %s (%d rows)\n",
				args[1], color.GreenString("%d", ps.Meta.Revision), len(ps.Rows))
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	var revision int

	cmd := &cobra.Command{
		Use:   "show <event-slug> <schedule-slug>",
		Short: "Show a published revision (latest by default)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			ps, err := a.publisher.Get(args[0], args[1], revision)
			if err != nil {
				return err
			}

			if flags.jsonMode {
				return printJSON(cmd, ps)
			}

			displayPublicSchedule(cmd, ps)
			return nil
		},
	}

	cmd.Flags().IntVar(&revision, "revision", 0, "revision number (0 = latest)")

	return cmd
}

func newExportCmd() *cobra.Command {
	var revision int

	cmd := &cobra.Command{
		Use:   "export <event-slug> <schedule-slug>",
		Short: "Export a published revision as a Horaro import document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			ps, err := a.publisher.Get(args[0], args[1], revision)
			if err != nil {
				return err
			}

			return printJSON(cmd, publication.ConvertToHoraro(ps))
		},
	}

	cmd.Flags().IntVar(&revision, "revision", 0, "revision number (0 = latest)")

	return cmd
}

// displayPublicSchedule renders a snapshot as a table.
func displayPublicSchedule(cmd *cobra.Command, ps *types.PublicSchedule) {
	fmt.Fprintf(cmd.OutOrStdout(), "revision %d, published %s\n",
		ps.Meta.Revision, ps.Meta.PublishedAt.Format(time.RFC3339))

	if len(ps.Rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no rows")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSETUP\tGAME\tCATEGORY\tESTIMATE\tRUNNERS")
	for i, row := range ps.Rows {
		names := make([]string, 0, len(row.Run.Runners))
		for _, r := range row.Run.Runners {
			names = append(names, r.Name)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, row.Setup, row.Run.Game, row.Run.Category,
			row.Run.Estimate, strings.Join(names, ", "))
	}
	w.Flush()
}
