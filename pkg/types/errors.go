package types

import "errors"

// Domain errors. These are expected conditions returned to callers as typed
// results; anything else coming out of the storage layer is fatal.
var (
	ErrRunNotFound          = errors.New("run not found")
	ErrPrevRowNotFound      = errors.New("previous row not found")
	ErrRunConflict          = errors.New("run conflicts with its own position")
	ErrRowNotFound          = errors.New("schedule row not found")
	ErrRunnerNotFound       = errors.New("runner not found")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrScheduleNotPublished = errors.New("schedule has not been published")
	ErrRevisionNotFound     = errors.New("revision not found")
)

// ErrCorruptChain reports a schedule row chain that revisits a row or runs
// past the total row count during traversal. It is an invariant violation,
// never a user-facing condition.
var ErrCorruptChain = errors.New("corrupt schedule row chain")

// ErrRevisionExists reports an attempt to overwrite a published revision.
// Revisions are write-once; a concurrent publish race surfaces as this error.
var ErrRevisionExists = errors.New("public schedule revision already exists")

// Backend lifecycle errors.
var (
	ErrBackendDetached = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// ErrInvalidDuration reports a duration string that does not match the
// accepted H:MM:SS or MM:SS forms.
var ErrInvalidDuration = errors.New("invalid duration format")
