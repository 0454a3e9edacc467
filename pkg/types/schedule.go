package types

import "time"

// Schedule is the metadata record a run order belongs to. Schedules are
// resolved by (event slug, schedule slug) through the ScheduleRegistry;
// their CRUD lives outside the scheduling core.
type Schedule struct {
	ScheduleID  string    `json:"schedule_id"`
	EventSlug   string    `json:"event_slug"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	BeginAt     time.Time `json:"begin_at"`
}

// ScheduleRow is one scheduled run slot within one schedule. Rows form a
// singly linked chain through Next; the first row of the chain is recorded
// in a separate head table, surfaced here as IsHead.
//
// A row is created when its run first enters the schedule and keeps its ID
// across moves. At most one row exists per (schedule, run) pair.
type ScheduleRow struct {
	// RowID is a UUID v7, generated on first insertion, stable across moves.
	RowID string

	// ScheduleID is the owning schedule.
	ScheduleID string

	// RunID is the run occupying this slot.
	RunID string

	// Next is the following row's ID, or empty for the tail.
	Next string

	// IsHead reports whether this row is the first element of the chain.
	IsHead bool

	// SetupTime is the transition time preceding this run.
	SetupTime Duration
}
