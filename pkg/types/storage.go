package types

// RowStore is durable storage for schedule rows and the per-schedule head
// pointer. Save and Delete keep the chain consistent on every write; both run
// their read-then-write steps inside a single transaction, so a partial link
// state is never observable.
type RowStore interface {
	// Find returns the row with the given ID in the given schedule.
	// Returns ErrRowNotFound if absent.
	Find(scheduleID, rowID string) (*ScheduleRow, error)

	// FindHead returns the schedule's current first row.
	// Returns ErrRowNotFound if the schedule has no head.
	FindHead(scheduleID string) (*ScheduleRow, error)

	// FindByRun returns the row occupied by the given run, if any.
	// Returns ErrRowNotFound if the run has no slot in this schedule.
	FindByRun(scheduleID, runID string) (*ScheduleRow, error)

	// List returns all rows of a schedule in no particular order.
	List(scheduleID string) ([]*ScheduleRow, error)

	// Save upserts a row by its ID. An existing row is first detached from
	// its current position (its predecessor and the head pointer bridged
	// over it), then attached at the position described by row.Next, with
	// whichever row previously pointed at row.Next repointed to it. If
	// row.IsHead is set the head pointer is moved to the row.
	Save(row *ScheduleRow) (*ScheduleRow, error)

	// Delete removes a row, repairing the head pointer and bridging the
	// predecessor over the gap. Returns false if the row does not exist.
	Delete(rowID string) (bool, error)
}

// PublicationStore is append-only storage for published snapshots.
type PublicationStore interface {
	// Find returns the snapshot with the given revision, or the
	// highest-numbered one when revision is 0. Returns
	// ErrScheduleNotPublished when nothing has been published, and
	// ErrRevisionNotFound when an explicit revision is absent.
	Find(scheduleID string, revision int) (*PublicSchedule, error)

	// Save persists a new snapshot. Revisions are write-once: saving an
	// existing (schedule, revision) pair returns ErrRevisionExists.
	Save(ps *PublicSchedule) (*PublicSchedule, error)
}

// Backend is the storage backend lifecycle plus its store accessors.
// Accessors return ErrBackendDetached once the backend is detached.
type Backend interface {
	// Attach opens the database described by config and initializes the
	// schema. Returns ErrAlreadyAttached if called twice.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	Rows() (RowStore, error)
	Publications() (PublicationStore, error)
	Runs() (RunRegistry, error)
	Runners() (RunnerRegistry, error)
	Schedules() (ScheduleRegistry, error)
}
