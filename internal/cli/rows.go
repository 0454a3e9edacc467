// Run order commands: add-first, add-after, remove, list.
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/marathon-tools/runorder/internal/ordering"
	"github.com/marathon-tools/runorder/pkg/types"
)

func newAddFirstCmd() *cobra.Command {
	var setup string

	cmd := &cobra.Command{
		Use:   "add-first <event-slug> <schedule-slug> <run-id>",
		Short: "Place a run at the front of the schedule",
		Long: "Place a run at the front of the schedule. A run that already has a\n" +
			"slot is moved to the front, keeping its row ID.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupTime, err := parseSetup(setup)
			if err != nil {
				return err
			}

			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			schedule, err := a.resolveSchedule(args[0], args[1])
			if err != nil {
				return err
			}

			result, err := a.ordering.AddFirstRun(schedule.ScheduleID, args[2], setupTime)
			if err != nil {
				return err
			}

			return printRowResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&setup, "setup", "00:00", "setup time before the run (H:MM:SS or MM:SS)")

	return cmd
}

func newAddAfterCmd() *cobra.Command {
	var setup string

	cmd := &cobra.Command{
		Use:   "add-after <event-slug> <schedule-slug> <run-id> <prev-row-id>",
		Short: "Place a run immediately after an existing row",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupTime, err := parseSetup(setup)
			if err != nil {
				return err
			}

			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			schedule, err := a.resolveSchedule(args[0], args[1])
			if err != nil {
				return err
			}

			result, err := a.ordering.AssignRunAfter(schedule.ScheduleID, args[2], setupTime, args[3])
			if err != nil {
				return err
			}

			return printRowResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&setup, "setup", "00:00", "setup time before the run (H:MM:SS or MM:SS)")

	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <row-id>",
		Short: "Remove a row from its schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.ordering.RemoveRow(args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed row %s\n", args[0])
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <event-slug> <schedule-slug>",
		Short: "Show the live run order, head to tail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			schedule, err := a.resolveSchedule(args[0], args[1])
			if err != nil {
				return err
			}

			rows, err := a.ordering.ListRows(schedule.ScheduleID)
			if err != nil {
				return err
			}

			if flags.jsonMode {
				return printJSON(cmd, rows)
			}

			displayRows(cmd, rows)
			return nil
		},
	}
}

// printRowResult renders a saved row plus its inserted/moved outcome.
func printRowResult(cmd *cobra.Command, result *ordering.Result) error {
	if flags.jsonMode {
		return printJSON(cmd, map[string]any{
			"outcome": result.Outcome,
			"row":     result.Row,
		})
	}

	verb := color.GreenString("inserted")
	if result.Outcome == ordering.OutcomeMoved {
		verb = color.YellowString("moved")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s row %s (run %s)\n", verb, result.Row.RowID, result.Row.RunID)
	return nil
}

// displayRows renders the order as a table.
func displayRows(cmd *cobra.Command, rows []*types.ScheduleRow) {
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "schedule is empty")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tROW\tRUN\tSETUP")
	for i, row := range rows {
		marker := ""
		if row.IsHead {
			marker = color.CyanString(" (head)")
		}
		fmt.Fprintf(w, "%d\t%s%s\t%s\t%s\n", i+1, row.RowID, marker, row.RunID, row.SetupTime.Formatted)
	}
	w.Flush()
}
