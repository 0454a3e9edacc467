// Package sqlite provides the public API for the SQLite runorder backend.
// It exposes the factory function while keeping the implementation internal.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{DataDir: ".runorder"})
//	defer backend.Detach()
package sqlite

import (
	"github.com/marathon-tools/runorder/internal/sqlite"
	"github.com/marathon-tools/runorder/pkg/types"
)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to open the database.
func NewBackend() types.Backend {
	return sqlite.NewBackend()
}
