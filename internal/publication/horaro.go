// This file implements the Horaro import transform: a published snapshot
// mapped into Horaro's fixed column layout.
package publication

import (
	"fmt"
	"strings"

	"github.com/marathon-tools/runorder/pkg/types"
)

// HoraroImport is the document shape Horaro's schedule import accepts.
type HoraroImport struct {
	Schedule HoraroSchedule `json:"schedule"`
}

// HoraroSchedule is the column layout plus one item per run slot.
type HoraroSchedule struct {
	Columns []string     `json:"columns"`
	Items   []HoraroItem `json:"items"`
}

// HoraroItem is one slot: the run length as an ISO-8601 duration plus one
// data cell per column.
type HoraroItem struct {
	Length string   `json:"length"`
	Data   []string `json:"data"`
}

// horaroColumns is the fixed layout: setup, game, category, run type,
// console, runners.
var horaroColumns = []string{"setup", "ゲーム", "カテゴリ", "種類", "機種", "走者"}

// ConvertToHoraro maps a snapshot into the Horaro import document. Pure and
// total: defined for every valid snapshot, including the empty one.
func ConvertToHoraro(schedule *types.PublicSchedule) *HoraroImport {
	items := make([]HoraroItem, 0, len(schedule.Rows))
	for _, row := range schedule.Rows {
		names := make([]string, 0, len(row.Run.Runners))
		for _, runner := range row.Run.Runners {
			names = append(names, runner.Name)
		}

		items = append(items, HoraroItem{
			Length: toISODuration(row.Run.Estimate),
			Data: []string{
				row.Setup,
				row.Run.Game,
				row.Run.Category,
				row.Run.Type,
				row.Run.Console,
				strings.Join(names, ", "),
			},
		})
	}

	return &HoraroImport{
		Schedule: HoraroSchedule{
			Columns: horaroColumns,
			Items:   items,
		},
	}
}

// toISODuration renders an H:MM:SS duration as PT#H#M#S, omitting zero
// components. An unparseable input yields an empty string.
func toISODuration(formatted string) string {
	d, err := types.ParseDuration(formatted)
	if err != nil {
		return ""
	}

	hours := d.Seconds / 3600
	minutes := (d.Seconds / 60) % 60
	seconds := d.Seconds % 60

	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if seconds > 0 {
		fmt.Fprintf(&b, "%dS", seconds)
	}
	return b.String()
}
