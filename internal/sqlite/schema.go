// Package sqlite implements the SQLite storage backend for runorder:
// the schedule row store with its link-repair logic, the append-only
// publication store, and the run/runner/schedule registries.
package sqlite

// Schema DDL for all tables.
const (
	createSchedules = `CREATE TABLE IF NOT EXISTS schedules (
    schedule_id TEXT PRIMARY KEY,
    event_slug TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    begin_at TEXT NOT NULL,
    UNIQUE (event_slug, slug)
);`

	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    game TEXT NOT NULL,
    category TEXT NOT NULL,
    run_type TEXT NOT NULL,
    console TEXT NOT NULL,
    estimate_sec INTEGER NOT NULL
);`

	createRunners = `CREATE TABLE IF NOT EXISTS runners (
    runner_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    discord TEXT NOT NULL,
    twitch TEXT,
    twitter TEXT,
    youtube TEXT
);`

	createRunRunners = `CREATE TABLE IF NOT EXISTS run_runners (
    run_id TEXT NOT NULL,
    runner_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (run_id, runner_id),
    FOREIGN KEY (run_id) REFERENCES runs(run_id),
    FOREIGN KEY (runner_id) REFERENCES runners(runner_id)
);`

	createScheduleRows = `CREATE TABLE IF NOT EXISTS schedule_rows (
    row_id TEXT PRIMARY KEY,
    schedule_id TEXT NOT NULL,
    run_id TEXT NOT NULL,
    next TEXT,
    setup_sec INTEGER NOT NULL,
    UNIQUE (schedule_id, run_id),
    FOREIGN KEY (schedule_id) REFERENCES schedules(schedule_id)
);`

	createScheduleBeginnings = `CREATE TABLE IF NOT EXISTS schedule_beginnings (
    schedule_id TEXT PRIMARY KEY,
    row_id TEXT NOT NULL,
    FOREIGN KEY (row_id) REFERENCES schedule_rows(row_id)
);`

	createPublicSchedules = `CREATE TABLE IF NOT EXISTS public_schedules (
    schedule_id TEXT NOT NULL,
    revision INTEGER NOT NULL,
    published_at TEXT NOT NULL,
    rows TEXT NOT NULL,
    PRIMARY KEY (schedule_id, revision),
    FOREIGN KEY (schedule_id) REFERENCES schedules(schedule_id)
);`
)

// Index DDL for common queries.
const (
	idxRowsSchedule   = `CREATE INDEX IF NOT EXISTS idx_schedule_rows_schedule ON schedule_rows(schedule_id);`
	idxRowsNext       = `CREATE INDEX IF NOT EXISTS idx_schedule_rows_next ON schedule_rows(schedule_id, next);`
	idxRunRunnersRun  = `CREATE INDEX IF NOT EXISTS idx_run_runners_run ON run_runners(run_id, position);`
	idxPublicSchedule = `CREATE INDEX IF NOT EXISTS idx_public_schedules_schedule ON public_schedules(schedule_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createSchedules,
	createRuns,
	createRunners,
	createRunRunners,
	createScheduleRows,
	createScheduleBeginnings,
	createPublicSchedules,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRowsSchedule,
	idxRowsNext,
	idxRunRunnersRun,
	idxPublicSchedule,
}
