// This file implements JSONL seed loading. Registry data (runs, runners,
// schedule metadata) enters the system as fixtures; the scheduling core never
// owns their CRUD.
package sqlite

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marathon-tools/runorder/pkg/types"
)

// Seed fixture file names inside Config.SeedDir.
const (
	runnersSeedFile   = "runners.jsonl"
	runsSeedFile      = "runs.jsonl"
	schedulesSeedFile = "schedules.jsonl"
)

// seedRunner is one line of runners.jsonl.
type seedRunner struct {
	RunnerID    string            `json:"runner_id"`
	Name        string            `json:"name"`
	Connections types.Connections `json:"connections"`
}

// seedRun is one line of runs.jsonl. Estimate is the H:MM:SS form; runners
// lists participant runner IDs in presentation order.
type seedRun struct {
	RunID    string   `json:"run_id"`
	Game     string   `json:"game"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Console  string   `json:"console"`
	Estimate string   `json:"estimate"`
	Runners  []string `json:"runners"`
}

// seedSchedule is one line of schedules.jsonl. BeginAt is RFC 3339.
type seedSchedule struct {
	ScheduleID  string `json:"schedule_id"`
	EventSlug   string `json:"event_slug"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	BeginAt     string `json:"begin_at"`
}

// loadSeedJSONL loads all fixture files from seedDir in one transaction.
// Missing files are skipped; malformed lines are skipped. Records replace
// earlier ones with the same ID, so re-seeding is idempotent.
func loadSeedJSONL(db *sql.DB, seedDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	runnerRecords, err := readJSONL(filepath.Join(seedDir, runnersSeedFile))
	if err != nil {
		return err
	}
	for _, rec := range runnerRecords {
		var r seedRunner
		if err := json.Unmarshal(rec, &r); err != nil || r.RunnerID == "" {
			continue
		}
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO runners (runner_id, name, discord, twitch, twitter, youtube) VALUES (?, ?, ?, ?, ?, ?)",
			r.RunnerID, r.Name, r.Connections.Discord,
			nullable(r.Connections.Twitch), nullable(r.Connections.Twitter), nullable(r.Connections.YouTube),
		); err != nil {
			return fmt.Errorf("seeding runner %s: %w", r.RunnerID, err)
		}
	}

	runRecords, err := readJSONL(filepath.Join(seedDir, runsSeedFile))
	if err != nil {
		return err
	}
	for _, rec := range runRecords {
		var r seedRun
		if err := json.Unmarshal(rec, &r); err != nil || r.RunID == "" {
			continue
		}
		estimate, err := types.ParseDuration(r.Estimate)
		if err != nil {
			return fmt.Errorf("seeding run %s: %w", r.RunID, err)
		}
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO runs (run_id, game, category, run_type, console, estimate_sec) VALUES (?, ?, ?, ?, ?, ?)",
			r.RunID, r.Game, r.Category, r.Type, r.Console, estimate.Seconds,
		); err != nil {
			return fmt.Errorf("seeding run %s: %w", r.RunID, err)
		}
		if _, err := tx.Exec("DELETE FROM run_runners WHERE run_id = ?", r.RunID); err != nil {
			return fmt.Errorf("clearing run participants: %w", err)
		}
		for i, runnerID := range r.Runners {
			if _, err := tx.Exec(
				"INSERT INTO run_runners (run_id, runner_id, position) VALUES (?, ?, ?)",
				r.RunID, runnerID, i+1,
			); err != nil {
				return fmt.Errorf("seeding run %s participant %s: %w", r.RunID, runnerID, err)
			}
		}
	}

	scheduleRecords, err := readJSONL(filepath.Join(seedDir, schedulesSeedFile))
	if err != nil {
		return err
	}
	for _, rec := range scheduleRecords {
		var s seedSchedule
		if err := json.Unmarshal(rec, &s); err != nil || s.ScheduleID == "" {
			continue
		}
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO schedules (schedule_id, event_slug, slug, description, begin_at) VALUES (?, ?, ?, ?, ?)",
			s.ScheduleID, s.EventSlug, s.Slug, s.Description, s.BeginAt,
		); err != nil {
			return fmt.Errorf("seeding schedule %s: %w", s.ScheduleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}

	return nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line.
// A missing file yields no records; malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}
