// Package publication builds and serves immutable, revision-numbered
// snapshots of a schedule's run order, joined with run and runner details.
package publication

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marathon-tools/runorder/pkg/types"
)

// RowLister reconstructs the live order of a schedule, head to tail.
// Satisfied by the ordering service.
type RowLister interface {
	ListRows(scheduleID string) ([]*types.ScheduleRow, error)
}

// Service publishes and serves schedule snapshots.
type Service struct {
	publications types.PublicationStore
	schedules    types.ScheduleRegistry
	runs         types.RunRegistry
	runners      types.RunnerRegistry
	lister       RowLister
	logger       *slog.Logger
}

// NewService creates a publication service. A nil logger means slog.Default.
func NewService(
	publications types.PublicationStore,
	schedules types.ScheduleRegistry,
	runs types.RunRegistry,
	runners types.RunnerRegistry,
	lister RowLister,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		publications: publications,
		schedules:    schedules,
		runs:         runs,
		runners:      runners,
		lister:       lister,
		logger:       logger,
	}
}

// Publish freezes the schedule's current order into a new snapshot with the
// next revision number. Every row is joined with its run and participant
// runners and captured by value; a row whose run is missing from the registry
// is an inconsistency and fails the publish.
// Returns ErrScheduleNotFound if the slugs do not resolve.
func (s *Service) Publish(eventSlug, scheduleSlug string, now time.Time) (*types.PublicSchedule, error) {
	schedule, err := s.schedules.Find(eventSlug, scheduleSlug)
	if err != nil {
		return nil, err
	}

	revision, err := s.nextRevision(schedule.ScheduleID)
	if err != nil {
		return nil, err
	}

	rows, err := s.lister.ListRows(schedule.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing live order: %w", err)
	}

	publicRows := make([]types.PublicScheduleRow, 0, len(rows))
	for _, row := range rows {
		publicRow, err := s.materializeRow(row)
		if err != nil {
			return nil, err
		}
		publicRows = append(publicRows, *publicRow)
	}

	saved, err := s.publications.Save(&types.PublicSchedule{
		ScheduleID: schedule.ScheduleID,
		Meta: types.PublicationMeta{
			PublishedAt: now.UTC(),
			Revision:    revision,
		},
		Rows: publicRows,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("published schedule",
		"event", eventSlug, "schedule", scheduleSlug,
		"revision", saved.Meta.Revision, "rows", len(saved.Rows))

	return saved, nil
}

// Get returns a published snapshot: the given revision, or the latest when
// revision is 0. Returns ErrScheduleNotFound, ErrScheduleNotPublished, or
// ErrRevisionNotFound.
func (s *Service) Get(eventSlug, scheduleSlug string, revision int) (*types.PublicSchedule, error) {
	schedule, err := s.schedules.Find(eventSlug, scheduleSlug)
	if err != nil {
		return nil, err
	}
	return s.publications.Find(schedule.ScheduleID, revision)
}

// nextRevision computes the revision a fresh publish should carry:
// max existing + 1, starting at 1. The compute-then-insert pair is not
// atomic; a concurrent publish race loses on the revision uniqueness
// constraint at save time.
func (s *Service) nextRevision(scheduleID string) (int, error) {
	latest, err := s.publications.Find(scheduleID, 0)
	if err != nil {
		if errors.Is(err, types.ErrScheduleNotPublished) {
			return 1, nil
		}
		return 0, fmt.Errorf("finding latest revision: %w", err)
	}
	return latest.Meta.Revision + 1, nil
}

// materializeRow joins one live row with its run and participant runners,
// flattening durations to their formatted form.
func (s *Service) materializeRow(row *types.ScheduleRow) (*types.PublicScheduleRow, error) {
	run, err := s.runs.Get(row.RunID)
	if err != nil {
		// A scheduled run missing from the registry is an invariant
		// violation, not a recoverable per-row condition.
		return nil, fmt.Errorf("resolving run %s for row %s: %w", row.RunID, row.RowID, err)
	}

	participants, err := s.runners.ListParticipants(run.RunID)
	if err != nil {
		return nil, fmt.Errorf("resolving runners for run %s: %w", run.RunID, err)
	}

	publicRunners := make([]types.PublicRunner, 0, len(participants))
	for _, runner := range participants {
		publicRunners = append(publicRunners, types.PublicRunner{
			RunnerID: runner.RunnerID,
			Name:     runner.Name,
			Discord:  runner.Connections.Discord,
			Twitch:   runner.Connections.Twitch,
			Twitter:  runner.Connections.Twitter,
			YouTube:  runner.Connections.YouTube,
		})
	}

	return &types.PublicScheduleRow{
		RowID: row.RowID,
		Setup: row.SetupTime.Formatted,
		Run: types.PublicRun{
			RunID:    run.RunID,
			Game:     run.Game,
			Category: run.Category,
			Type:     run.Type,
			Console:  run.Console,
			Estimate: run.Estimate.Formatted,
			Runners:  publicRunners,
		},
	}, nil
}
