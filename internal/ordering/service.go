// Package ordering implements the run order operations over the schedule row
// store: inserting a run at the front, inserting after an existing row,
// removing a row, and reconstructing the full order head to tail.
package ordering

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/marathon-tools/runorder/pkg/types"
)

// Outcome tags whether an operation created a new row or moved an existing
// one. Both behaviors return the same row shape; the tag keeps the implicit
// insert-vs-move duality visible.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeMoved    Outcome = "moved"
)

// Result is a saved row together with its insert-vs-move outcome.
type Result struct {
	Row     *types.ScheduleRow
	Outcome Outcome
}

// Service owns the run order invariants. It validates against the run
// registry and expresses every mutation in terms of RowStore primitives.
type Service struct {
	rows   types.RowStore
	runs   types.RunRegistry
	logger *slog.Logger
}

// NewService creates an ordering service. A nil logger means slog.Default.
func NewService(rows types.RowStore, runs types.RunRegistry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{rows: rows, runs: runs, logger: logger}
}

// AddFirstRun places a run at the front of the schedule. A run that already
// has a slot is moved, keeping its row ID; otherwise a new row is created.
// Returns ErrRunNotFound if the run is not registered.
func (s *Service) AddFirstRun(scheduleID, runID string, setup types.Duration) (*Result, error) {
	if err := s.requireRun(runID); err != nil {
		return nil, err
	}

	head, err := s.findOptional(func() (*types.ScheduleRow, error) {
		return s.rows.FindHead(scheduleID)
	})
	if err != nil {
		return nil, err
	}
	existing, err := s.findOptional(func() (*types.ScheduleRow, error) {
		return s.rows.FindByRun(scheduleID, runID)
	})
	if err != nil {
		return nil, err
	}

	// The new head points at the old head, except when the run already is
	// the head: re-affirming the front is a linkage no-op.
	var next string
	switch {
	case head == nil:
		next = ""
	case existing != nil && head.RowID == existing.RowID:
		next = existing.Next
	default:
		next = head.RowID
	}

	row := &types.ScheduleRow{
		RowID:      rowID(existing),
		ScheduleID: scheduleID,
		RunID:      runID,
		Next:       next,
		IsHead:     true,
		SetupTime:  setup,
	}

	saved, err := s.rows.Save(row)
	if err != nil {
		return nil, fmt.Errorf("saving head row: %w", err)
	}

	outcome := OutcomeInserted
	if existing != nil {
		outcome = OutcomeMoved
	}
	s.logger.Debug("run placed first", "schedule", scheduleID, "run", runID, "outcome", outcome)

	return &Result{Row: saved, Outcome: outcome}, nil
}

// AssignRunAfter places a run immediately after the row identified by
// prevRowID. The predecessor keeps its identity and position; the run becomes
// its immediate successor, moved or created as needed.
// Returns ErrRunNotFound, ErrPrevRowNotFound, or ErrRunConflict when the
// caller asks to place a run after its own current slot.
func (s *Service) AssignRunAfter(scheduleID, runID string, setup types.Duration, prevRowID string) (*Result, error) {
	if err := s.requireRun(runID); err != nil {
		return nil, err
	}

	existing, err := s.findOptional(func() (*types.ScheduleRow, error) {
		return s.rows.FindByRun(scheduleID, runID)
	})
	if err != nil {
		return nil, err
	}

	prev, err := s.rows.Find(scheduleID, prevRowID)
	if err != nil {
		if errors.Is(err, types.ErrRowNotFound) {
			return nil, types.ErrPrevRowNotFound
		}
		return nil, err
	}

	if existing != nil && prev.RowID == existing.RowID {
		return nil, types.ErrRunConflict
	}

	row := &types.ScheduleRow{
		RowID:      rowID(existing),
		ScheduleID: scheduleID,
		RunID:      runID,
		Next:       prev.Next,
		IsHead:     false,
		SetupTime:  setup,
	}

	saved, err := s.rows.Save(row)
	if err != nil {
		return nil, fmt.Errorf("saving row after %s: %w", prevRowID, err)
	}

	outcome := OutcomeInserted
	if existing != nil {
		outcome = OutcomeMoved
	}
	s.logger.Debug("run placed after row",
		"schedule", scheduleID, "run", runID, "prev", prevRowID, "outcome", outcome)

	return &Result{Row: saved, Outcome: outcome}, nil
}

// RemoveRow deletes a row from its schedule, repairing the neighboring links.
// Returns ErrRowNotFound if the row does not exist.
func (s *Service) RemoveRow(rowID string) error {
	deleted, err := s.rows.Delete(rowID)
	if err != nil {
		return err
	}
	if !deleted {
		return types.ErrRowNotFound
	}
	return nil
}

// ListRows reconstructs the full order head to tail. A schedule without a
// head pointer yields an empty order, whatever rows exist; the head pointer
// is trusted, not audited. A chain that revisits a row or outruns the row
// count returns ErrCorruptChain instead of looping.
func (s *Service) ListRows(scheduleID string) ([]*types.ScheduleRow, error) {
	rows, err := s.rows.List(scheduleID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*types.ScheduleRow, len(rows))
	var head *types.ScheduleRow
	for _, r := range rows {
		byID[r.RowID] = r
		if r.IsHead {
			head = r
		}
	}

	if head == nil {
		return []*types.ScheduleRow{}, nil
	}

	ordered := make([]*types.ScheduleRow, 0, len(rows))
	visited := make(map[string]bool, len(rows))
	for current := head; current != nil; {
		if visited[current.RowID] {
			return nil, fmt.Errorf("%w: schedule %s revisits row %s",
				types.ErrCorruptChain, scheduleID, current.RowID)
		}
		visited[current.RowID] = true
		ordered = append(ordered, current)

		if current.Next == "" {
			break
		}
		next, ok := byID[current.Next]
		if !ok {
			// Successor outside the schedule's rows ends the walk.
			break
		}
		current = next
	}

	return ordered, nil
}

// requireRun maps an unregistered run to ErrRunNotFound.
func (s *Service) requireRun(runID string) error {
	exists, err := s.runs.Exists(runID)
	if err != nil {
		return fmt.Errorf("checking run registry: %w", err)
	}
	if !exists {
		return types.ErrRunNotFound
	}
	return nil
}

// findOptional maps ErrRowNotFound to a nil row, leaving other errors fatal.
func (s *Service) findOptional(find func() (*types.ScheduleRow, error)) (*types.ScheduleRow, error) {
	row, err := find()
	if err != nil {
		if errors.Is(err, types.ErrRowNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

// rowID returns the existing row's ID, or a fresh one for a new row. Row IDs
// are UUID v7, so creation order is recoverable from the ID itself.
func rowID(existing *types.ScheduleRow) string {
	if existing != nil {
		return existing.RowID
	}
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}
