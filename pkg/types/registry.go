package types

// RunRegistry is the read-only run lookup the scheduling core consumes.
type RunRegistry interface {
	// Exists reports whether a run with the given ID is registered.
	Exists(runID string) (bool, error)

	// Get returns the run with the given ID.
	// Returns ErrRunNotFound if it is not registered.
	Get(runID string) (*Run, error)
}

// RunnerRegistry is the read-only runner lookup the scheduling core consumes.
type RunnerRegistry interface {
	// ListParticipants returns the runners participating in a run,
	// in their registered order. Unknown runs yield an empty list.
	ListParticipants(runID string) ([]*Runner, error)
}

// ScheduleRegistry resolves schedule metadata by slugs.
type ScheduleRegistry interface {
	// Find returns the schedule for the given event and schedule slugs.
	// Returns ErrScheduleNotFound if either slug does not resolve.
	Find(eventSlug, scheduleSlug string) (*Schedule, error)
}
