// This file implements the append-only store for published schedule
// snapshots. Revisions are write-once; rows are kept as a serialized JSON
// document so a snapshot never references live schedule state.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marathon-tools/runorder/pkg/types"
)

// Compile-time interface check.
var _ types.PublicationStore = (*publicationsTable)(nil)

type publicationsTable struct {
	backend *Backend
}

// Find returns the snapshot with the given revision, or the highest-numbered
// one when revision is 0.
func (pt *publicationsTable) Find(scheduleID string, revision int) (*types.PublicSchedule, error) {
	var maxRevision sql.NullInt64
	err := pt.backend.db.QueryRow(
		"SELECT MAX(revision) FROM public_schedules WHERE schedule_id = ?",
		scheduleID,
	).Scan(&maxRevision)
	if err != nil {
		return nil, fmt.Errorf("finding latest revision: %w", err)
	}
	if !maxRevision.Valid {
		if revision > 0 {
			return nil, types.ErrRevisionNotFound
		}
		return nil, types.ErrScheduleNotPublished
	}

	wanted := revision
	if wanted == 0 {
		wanted = int(maxRevision.Int64)
	}

	var publishedAt, rowsJSON string
	err = pt.backend.db.QueryRow(
		"SELECT published_at, rows FROM public_schedules WHERE schedule_id = ? AND revision = ?",
		scheduleID, wanted,
	).Scan(&publishedAt, &rowsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrRevisionNotFound
		}
		return nil, fmt.Errorf("finding revision %d: %w", wanted, err)
	}

	return hydratePublicSchedule(scheduleID, wanted, publishedAt, rowsJSON)
}

// Save persists a new snapshot. The primary key on (schedule_id, revision)
// rejects a duplicate revision, which surfaces as ErrRevisionExists; a
// concurrent publish race must lose loudly, not overwrite.
func (pt *publicationsTable) Save(ps *types.PublicSchedule) (*types.PublicSchedule, error) {
	rows := ps.Rows
	if rows == nil {
		rows = []types.PublicScheduleRow{}
	}
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot rows: %w", err)
	}

	_, err = pt.backend.db.Exec(
		"INSERT INTO public_schedules (schedule_id, revision, published_at, rows) VALUES (?, ?, ?, ?)",
		ps.ScheduleID, ps.Meta.Revision,
		ps.Meta.PublishedAt.UTC().Format(time.RFC3339),
		string(rowsJSON),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: schedule %s revision %d",
				types.ErrRevisionExists, ps.ScheduleID, ps.Meta.Revision)
		}
		return nil, fmt.Errorf("persisting snapshot: %w", err)
	}

	pt.backend.logger.Info("schedule published",
		"schedule", ps.ScheduleID, "revision", ps.Meta.Revision, "rows", len(rows))

	return pt.Find(ps.ScheduleID, ps.Meta.Revision)
}

// hydratePublicSchedule rebuilds a snapshot from its stored columns. Rows are
// unmarshaled fresh on every read, so callers never share state.
func hydratePublicSchedule(scheduleID string, revision int, publishedAt, rowsJSON string) (*types.PublicSchedule, error) {
	ts, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing published_at: %w", err)
	}

	rows := []types.PublicScheduleRow{}
	if err := json.Unmarshal([]byte(rowsJSON), &rows); err != nil {
		return nil, fmt.Errorf("parsing snapshot rows: %w", err)
	}

	return &types.PublicSchedule{
		ScheduleID: scheduleID,
		Meta: types.PublicationMeta{
			PublishedAt: ts,
			Revision:    revision,
		},
		Rows: rows,
	}, nil
}

// isUniqueViolation reports whether err is a SQLite unique or primary key
// constraint failure.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: public_schedules")
}
