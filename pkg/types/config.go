package types

import (
	"errors"
	"strings"
)

// Config holds the parameters for Backend.Attach.
type Config struct {
	// DataDir is the directory holding the database file. Created if
	// missing; defaults to the current directory when empty.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DatabaseFile is the SQLite file name inside DataDir.
	// Defaults to "runorder.db" when empty.
	DatabaseFile string `json:"database_file" yaml:"database_file"`

	// SeedDir optionally points at a directory of JSONL fixtures
	// (runs.jsonl, runners.jsonl, schedules.jsonl) loaded on attach.
	SeedDir string `json:"seed_dir" yaml:"seed_dir"`
}

// Config validation errors.
var (
	ErrDatabaseFileInvalid = errors.New("database file must be a bare file name")
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if strings.ContainsAny(c.DatabaseFile, `/\`) {
		return ErrDatabaseFileInvalid
	}
	return nil
}
