// Shared wiring for the runorder subcommands: backend setup, service
// construction, and output helpers.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/marathon-tools/runorder/internal/ordering"
	"github.com/marathon-tools/runorder/internal/paths"
	"github.com/marathon-tools/runorder/internal/publication"
	"github.com/marathon-tools/runorder/internal/sqlite"
	"github.com/marathon-tools/runorder/pkg/types"
)

// app bundles the attached backend and the services built on it.
type app struct {
	backend   *sqlite.Backend
	ordering  *ordering.Service
	publisher *publication.Service
	schedules types.ScheduleRegistry
}

// openApp resolves directories, loads config.yaml, attaches the backend, and
// wires the services. The caller must invoke the returned cleanup when done.
func openApp() (*app, func(), error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return nil, nil, err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data dir: %w", err)
	}

	logger := newLogger()

	backend := sqlite.NewBackend()
	backend.SetLogger(logger)
	if err := backend.Attach(types.Config{
		DataDir:      dataDir,
		DatabaseFile: v.GetString(cfgKeyDatabaseFile),
		SeedDir:      v.GetString(cfgKeySeedDir),
	}); err != nil {
		return nil, nil, fmt.Errorf("attach backend: %w", err)
	}
	cleanup := func() { backend.Detach() }

	rows, err := backend.Rows()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	publications, err := backend.Publications()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	runs, err := backend.Runs()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	runners, err := backend.Runners()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	schedules, err := backend.Schedules()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	orderingSvc := ordering.NewService(rows, runs, logger)
	publisherSvc := publication.NewService(publications, schedules, runs, runners, orderingSvc, logger)

	return &app{
		backend:   backend,
		ordering:  orderingSvc,
		publisher: publisherSvc,
		schedules: schedules,
	}, cleanup, nil
}

// newLogger builds the CLI logger: text to stderr, debug level with -v.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolveSchedule maps slugs to schedule metadata.
func (a *app) resolveSchedule(eventSlug, scheduleSlug string) (*types.Schedule, error) {
	return a.schedules.Find(eventSlug, scheduleSlug)
}

// parseSetup parses the --setup flag value.
func parseSetup(value string) (types.Duration, error) {
	d, err := types.ParseDuration(value)
	if err != nil {
		return types.Duration{}, fmt.Errorf("--setup must be H:MM:SS or MM:SS: %w", err)
	}
	return d, nil
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
