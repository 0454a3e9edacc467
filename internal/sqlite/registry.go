// This file implements the run, runner, and schedule registries as
// read-mostly lookups over the seeded tables. The scheduling core consumes
// them only through the pkg/types collaborator interfaces; their CRUD lives
// outside this system.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marathon-tools/runorder/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.RunRegistry      = (*runRegistry)(nil)
	_ types.RunnerRegistry   = (*runnerRegistry)(nil)
	_ types.ScheduleRegistry = (*scheduleRegistry)(nil)
)

type runRegistry struct {
	backend *Backend
}

// Exists reports whether a run with the given ID is registered.
func (rr *runRegistry) Exists(runID string) (bool, error) {
	var one int
	err := rr.backend.db.QueryRow(
		"SELECT 1 FROM runs WHERE run_id = ?", runID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking run existence: %w", err)
	}
	return true, nil
}

// Get returns the run with the given ID.
func (rr *runRegistry) Get(runID string) (*types.Run, error) {
	var r types.Run
	var estimateSec int
	err := rr.backend.db.QueryRow(
		"SELECT run_id, game, category, run_type, console, estimate_sec FROM runs WHERE run_id = ?",
		runID,
	).Scan(&r.RunID, &r.Game, &r.Category, &r.Type, &r.Console, &estimateSec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrRunNotFound
		}
		return nil, fmt.Errorf("getting run %s: %w", runID, err)
	}
	r.Estimate = types.DurationFromSeconds(estimateSec)

	rows, err := rr.backend.db.Query(
		"SELECT runner_id FROM run_runners WHERE run_id = ? ORDER BY position",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing run participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var runnerID string
		if err := rows.Scan(&runnerID); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		r.RunnerIDs = append(r.RunnerIDs, runnerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participants: %w", err)
	}

	return &r, nil
}

type runnerRegistry struct {
	backend *Backend
}

// ListParticipants returns the runners participating in a run, in their
// registered order.
func (rr *runnerRegistry) ListParticipants(runID string) ([]*types.Runner, error) {
	rows, err := rr.backend.db.Query(
		`SELECT p.runner_id, p.name, p.discord, p.twitch, p.twitter, p.youtube
         FROM run_runners rr
         INNER JOIN runners p ON p.runner_id = rr.runner_id
         WHERE rr.run_id = ?
         ORDER BY rr.position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing participant runners: %w", err)
	}
	defer rows.Close()

	var result []*types.Runner
	for rows.Next() {
		var r types.Runner
		var twitch, twitter, youtube sql.NullString
		if err := rows.Scan(&r.RunnerID, &r.Name, &r.Connections.Discord, &twitch, &twitter, &youtube); err != nil {
			return nil, fmt.Errorf("scanning runner: %w", err)
		}
		r.Connections.Twitch = twitch.String
		r.Connections.Twitter = twitter.String
		r.Connections.YouTube = youtube.String
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runners: %w", err)
	}

	return result, nil
}

type scheduleRegistry struct {
	backend *Backend
}

// Find returns the schedule for the given event and schedule slugs.
func (sr *scheduleRegistry) Find(eventSlug, scheduleSlug string) (*types.Schedule, error) {
	var s types.Schedule
	var beginAt string
	err := sr.backend.db.QueryRow(
		"SELECT schedule_id, event_slug, slug, description, begin_at FROM schedules WHERE event_slug = ? AND slug = ?",
		eventSlug, scheduleSlug,
	).Scan(&s.ScheduleID, &s.EventSlug, &s.Slug, &s.Description, &beginAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("finding schedule %s/%s: %w", eventSlug, scheduleSlug, err)
	}

	s.BeginAt, err = time.Parse(time.RFC3339, beginAt)
	if err != nil {
		return nil, fmt.Errorf("parsing begin_at: %w", err)
	}

	return &s, nil
}
