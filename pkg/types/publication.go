package types

import "time"

// PublicationMeta carries the revision bookkeeping of a snapshot.
type PublicationMeta struct {
	PublishedAt time.Time `json:"published_at"`
	Revision    int       `json:"revision"`
}

// PublicRunner is a runner as captured into a snapshot.
type PublicRunner struct {
	RunnerID string `json:"runner_id"`
	Name     string `json:"name"`
	Discord  string `json:"discord"`
	Twitch   string `json:"twitch,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	YouTube  string `json:"youtube,omitempty"`
}

// PublicRun is a run as captured into a snapshot. Estimate is the formatted
// HH:MM:SS form; the live Run's Duration is flattened at publish time.
type PublicRun struct {
	RunID    string         `json:"run_id"`
	Game     string         `json:"game"`
	Category string         `json:"category"`
	Type     string         `json:"type"`
	Console  string         `json:"console"`
	Estimate string         `json:"estimate"`
	Runners  []PublicRunner `json:"runners"`
}

// PublicScheduleRow is one denormalized slot of a published order.
type PublicScheduleRow struct {
	RowID string    `json:"row_id"`
	Setup string    `json:"setup"`
	Run   PublicRun `json:"run"`
}

// PublicSchedule is an immutable, monotonically numbered snapshot of a
// schedule's order. Rows are captured by value at publish time; later edits
// to the live order never change an existing revision.
type PublicSchedule struct {
	ScheduleID string              `json:"schedule_id"`
	Meta       PublicationMeta     `json:"meta"`
	Rows       []PublicScheduleRow `json:"rows"`
}
