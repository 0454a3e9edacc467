package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/marathon-tools/runorder/pkg/types"
)

// defaultDatabaseFile is used when Config.DatabaseFile is empty.
const defaultDatabaseFile = "runorder.db"

// Backend implements types.Backend over a single SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger

	rows         *rowsTable
	publications *publicationsTable
	runs         *runRegistry
	runners      *runnerRegistry
	schedules    *scheduleRegistry
}

// Compile-time interface check.
var _ types.Backend = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to open the database.
func NewBackend() *Backend {
	return &Backend{logger: slog.Default()}
}

// SetLogger replaces the backend's logger. A nil logger restores the default.
func (b *Backend) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	b.logger = logger
}

// Attach opens the database described by config, executes the schema, and
// loads seed fixtures when config.SeedDir is set.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbFile := config.DatabaseFile
	if dbFile == "" {
		dbFile = defaultDatabaseFile
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFile))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("executing schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("executing indexes: %w", err)
		}
	}

	if config.SeedDir != "" {
		if err := loadSeedJSONL(db, config.SeedDir); err != nil {
			db.Close()
			return fmt.Errorf("loading seed fixtures: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true

	b.rows = &rowsTable{backend: b}
	b.publications = &publicationsTable{backend: b}
	b.runs = &runRegistry{backend: b}
	b.runners = &runnerRegistry{backend: b}
	b.schedules = &scheduleRegistry{backend: b}

	b.logger.Debug("backend attached", "data_dir", dataDir, "database", dbFile)

	return nil
}

// Detach closes the database. Idempotent; after Detach all accessors return
// ErrBackendDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.rows = nil
	b.publications = nil
	b.runs = nil
	b.runners = nil
	b.schedules = nil

	return nil
}

// Rows returns the schedule row store.
func (b *Backend) Rows() (types.RowStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.rows, nil
}

// Publications returns the published snapshot store.
func (b *Backend) Publications() (types.PublicationStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.publications, nil
}

// Runs returns the run registry.
func (b *Backend) Runs() (types.RunRegistry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.runs, nil
}

// Runners returns the runner registry.
func (b *Backend) Runners() (types.RunnerRegistry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.runners, nil
}

// Schedules returns the schedule metadata registry.
func (b *Backend) Schedules() (types.ScheduleRegistry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.schedules, nil
}

// NewID generates a UUID v7 entity ID. UUID v7 is time-ordered, which keeps
// row IDs creation-ordered.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}
