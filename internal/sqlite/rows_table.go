// This file implements the schedule row store: persistence of individual
// rows, the per-schedule head pointer, and the link-repair logic that keeps
// the chain consistent on every write.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/marathon-tools/runorder/pkg/types"
)

// Compile-time interface check.
var _ types.RowStore = (*rowsTable)(nil)

// rowsTable implements types.RowStore over the schedule_rows and
// schedule_beginnings tables.
type rowsTable struct {
	backend *Backend
}

const rowSelect = `SELECT r.row_id, r.schedule_id, r.run_id, r.next, r.setup_sec,
    b.row_id IS NOT NULL
FROM schedule_rows r
LEFT JOIN schedule_beginnings b ON b.schedule_id = r.schedule_id AND b.row_id = r.row_id`

// Find returns the row with the given ID in the given schedule.
func (rt *rowsTable) Find(scheduleID, rowID string) (*types.ScheduleRow, error) {
	row := rt.backend.db.QueryRow(
		rowSelect+" WHERE r.schedule_id = ? AND r.row_id = ?",
		scheduleID, rowID,
	)
	return hydrateRow(row)
}

// FindHead returns the schedule's current first row, per the head table.
func (rt *rowsTable) FindHead(scheduleID string) (*types.ScheduleRow, error) {
	row := rt.backend.db.QueryRow(
		rowSelect+" WHERE r.schedule_id = ? AND b.row_id IS NOT NULL",
		scheduleID,
	)
	return hydrateRow(row)
}

// FindByRun returns the row occupied by the given run, if any.
func (rt *rowsTable) FindByRun(scheduleID, runID string) (*types.ScheduleRow, error) {
	row := rt.backend.db.QueryRow(
		rowSelect+" WHERE r.schedule_id = ? AND r.run_id = ?",
		scheduleID, runID,
	)
	return hydrateRow(row)
}

// List returns all rows of a schedule in no particular order. Ordering is
// the ordering service's job.
func (rt *rowsTable) List(scheduleID string) ([]*types.ScheduleRow, error) {
	rows, err := rt.backend.db.Query(
		rowSelect+" WHERE r.schedule_id = ?",
		scheduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing schedule rows: %w", err)
	}
	defer rows.Close()

	var result []*types.ScheduleRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning schedule row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule rows: %w", err)
	}
	return result, nil
}

// Save upserts a row by ID and repairs the chain around it. The whole
// sequence runs in one transaction:
//
//  1. If the row already exists, detach it: bridge its predecessor over the
//     old position and repair the head pointer if it referenced the row.
//  2. Write the row with next temporarily NULL, so no two rows share a
//     successor mid-transaction.
//  3. Attach at the new position: whichever row currently points at the
//     requested successor is repointed at this row. A NULL successor matches
//     the current tail, which makes the predecessor hand-off work for
//     inserts after the last row.
//  4. Set the row's own next.
//  5. If the row is marked head, upsert the head pointer.
func (rt *rowsTable) Save(row *types.ScheduleRow) (*types.ScheduleRow, error) {
	tx, err := rt.backend.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	var existingNext sql.NullString
	exists := true
	err = tx.QueryRow(
		"SELECT next FROM schedule_rows WHERE row_id = ?", row.RowID,
	).Scan(&existingNext)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("checking row existence: %w", err)
		}
		exists = false
	}

	if exists {
		_, err = tx.Exec(
			"UPDATE schedule_rows SET setup_sec = ?, next = NULL WHERE row_id = ?",
			row.SetupTime.Seconds, row.RowID,
		)
	} else {
		_, err = tx.Exec(
			"INSERT INTO schedule_rows (row_id, schedule_id, run_id, next, setup_sec) VALUES (?, ?, ?, NULL, ?)",
			row.RowID, row.ScheduleID, row.RunID, row.SetupTime.Seconds,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("persisting row: %w", err)
	}

	if exists {
		// Bridge the old predecessor over the row's previous position.
		if _, err := tx.Exec(
			"UPDATE schedule_rows SET next = ? WHERE schedule_id = ? AND next = ?",
			existingNext, row.ScheduleID, row.RowID,
		); err != nil {
			return nil, fmt.Errorf("detaching row: %w", err)
		}

		// Repair the head pointer if it referenced the old position.
		if existingNext.Valid {
			_, err = tx.Exec(
				"UPDATE schedule_beginnings SET row_id = ? WHERE schedule_id = ? AND row_id = ?",
				existingNext.String, row.ScheduleID, row.RowID,
			)
		} else {
			_, err = tx.Exec(
				"DELETE FROM schedule_beginnings WHERE schedule_id = ? AND row_id = ?",
				row.ScheduleID, row.RowID,
			)
		}
		if err != nil {
			return nil, fmt.Errorf("repairing head pointer: %w", err)
		}
	}

	// Attach: the row currently pointing at the requested successor now
	// points at this row instead. IS matches a NULL successor too.
	if _, err := tx.Exec(
		"UPDATE schedule_rows SET next = ? WHERE schedule_id = ? AND row_id <> ? AND next IS ?",
		row.RowID, row.ScheduleID, row.RowID, nullable(row.Next),
	); err != nil {
		return nil, fmt.Errorf("attaching row: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE schedule_rows SET next = ? WHERE row_id = ?",
		nullable(row.Next), row.RowID,
	); err != nil {
		return nil, fmt.Errorf("setting row successor: %w", err)
	}

	if row.IsHead {
		if _, err := tx.Exec(
			`INSERT INTO schedule_beginnings (schedule_id, row_id) VALUES (?, ?)
             ON CONFLICT(schedule_id) DO UPDATE SET row_id = excluded.row_id`,
			row.ScheduleID, row.RowID,
		); err != nil {
			return nil, fmt.Errorf("setting head pointer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing row save: %w", err)
	}

	rt.backend.logger.Debug("schedule row saved",
		"schedule", row.ScheduleID, "row", row.RowID, "run", row.RunID,
		"next", row.Next, "head", row.IsHead)

	return rt.Find(row.ScheduleID, row.RowID)
}

// Delete removes a row and repairs the neighboring links. Returns false when
// the row does not exist; that is a no-op, not an error.
func (rt *rowsTable) Delete(rowID string) (bool, error) {
	tx, err := rt.backend.db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	var scheduleID string
	var next sql.NullString
	err = tx.QueryRow(
		"SELECT schedule_id, next FROM schedule_rows WHERE row_id = ?", rowID,
	).Scan(&scheduleID, &next)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking row existence: %w", err)
	}

	var isHead bool
	err = tx.QueryRow(
		"SELECT 1 FROM schedule_beginnings WHERE schedule_id = ? AND row_id = ?",
		scheduleID, rowID,
	).Scan(&isHead)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("checking head pointer: %w", err)
	}

	if isHead {
		if next.Valid {
			_, err = tx.Exec(
				"UPDATE schedule_beginnings SET row_id = ? WHERE schedule_id = ?",
				next.String, scheduleID,
			)
		} else {
			// Deleting the only row leaves an empty schedule.
			_, err = tx.Exec(
				"DELETE FROM schedule_beginnings WHERE schedule_id = ?",
				scheduleID,
			)
		}
		if err != nil {
			return false, fmt.Errorf("repairing head pointer: %w", err)
		}
	}

	// Bridge the predecessor over the gap.
	if _, err := tx.Exec(
		"UPDATE schedule_rows SET next = ? WHERE schedule_id = ? AND next = ?",
		next, scheduleID, rowID,
	); err != nil {
		return false, fmt.Errorf("bridging predecessor: %w", err)
	}

	if _, err := tx.Exec(
		"DELETE FROM schedule_rows WHERE row_id = ?", rowID,
	); err != nil {
		return false, fmt.Errorf("deleting row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing row delete: %w", err)
	}

	rt.backend.logger.Debug("schedule row deleted", "schedule", scheduleID, "row", rowID)

	return true, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(s rowScanner) (*types.ScheduleRow, error) {
	var r types.ScheduleRow
	var next sql.NullString
	var setupSec int
	if err := s.Scan(&r.RowID, &r.ScheduleID, &r.RunID, &next, &setupSec, &r.IsHead); err != nil {
		return nil, err
	}
	if next.Valid {
		r.Next = next.String
	}
	r.SetupTime = types.DurationFromSeconds(setupSec)
	return &r, nil
}

// hydrateRow converts a single row lookup, mapping sql.ErrNoRows to
// types.ErrRowNotFound.
func hydrateRow(row *sql.Row) (*types.ScheduleRow, error) {
	r, err := scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrRowNotFound
		}
		return nil, fmt.Errorf("hydrating schedule row: %w", err)
	}
	return r, nil
}
