package publication

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marathon-tools/runorder/internal/ordering"
	"github.com/marathon-tools/runorder/internal/sqlite"
	"github.com/marathon-tools/runorder/pkg/types"
)

const (
	testEvent    = "rta2026"
	testSchedule = "main"
)

var (
	noSetup     = types.DurationFromSeconds(0)
	publishTime = time.Date(2026, 8, 11, 12, 0, 0, 0, time.UTC)
)

// fixture wires a seeded backend, an ordering service to stage the live
// order, and the publication service under test.
type fixture struct {
	pub   *Service
	order *ordering.Service
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	seedDir := t.TempDir()
	writeFixture(t, seedDir, "runners.jsonl",
		`{"runner_id":"rn-hikari","name":"Hikari","connections":{"discord":"hikari#0001","twitch":"hikari_runs"}}`,
		`{"runner_id":"rn-jun","name":"Jun","connections":{"discord":"jun#0002"}}`,
	)
	writeFixture(t, seedDir, "runs.jsonl",
		`{"run_id":"run-mother2","game":"Mother 2","category":"any%","type":"single","console":"SFC","estimate":"4:30:00","runners":["rn-hikari"]}`,
		`{"run_id":"run-ikaruga","game":"Ikaruga","category":"2-player","type":"coop","console":"GC","estimate":"45:00","runners":["rn-hikari","rn-jun"]}`,
		`{"run_id":"run-smb1","game":"Super Mario Bros.","category":"warpless","type":"race","console":"FC","estimate":"20:30","runners":["rn-jun"]}`,
	)
	writeFixture(t, seedDir, "schedules.jsonl",
		`{"schedule_id":"sched-main","event_slug":"rta2026","slug":"main","description":"Main stream","begin_at":"2026-08-11T09:00:00Z"}`,
	)

	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{DataDir: t.TempDir(), SeedDir: seedDir}))
	t.Cleanup(func() { backend.Detach() })

	rows, err := backend.Rows()
	require.NoError(t, err)
	publications, err := backend.Publications()
	require.NoError(t, err)
	runs, err := backend.Runs()
	require.NoError(t, err)
	runners, err := backend.Runners()
	require.NoError(t, err)
	schedules, err := backend.Schedules()
	require.NoError(t, err)

	order := ordering.NewService(rows, runs, nil)
	return &fixture{
		pub:   NewService(publications, schedules, runs, runners, order, nil),
		order: order,
	}
}

func writeFixture(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// stageOrder places the given runs head to tail on the live schedule.
func (f *fixture) stageOrder(t *testing.T, runIDs ...string) {
	t.Helper()
	prev := ""
	for _, runID := range runIDs {
		if prev == "" {
			res, err := f.order.AddFirstRun("sched-main", runID, noSetup)
			require.NoError(t, err)
			prev = res.Row.RowID
			continue
		}
		res, err := f.order.AssignRunAfter("sched-main", runID, noSetup, prev)
		require.NoError(t, err)
		prev = res.Row.RowID
	}
}

func TestPublish_FirstRevision(t *testing.T) {
	f := setupFixture(t)
	f.stageOrder(t, "run-mother2", "run-ikaruga")

	ps, err := f.pub.Publish(testEvent, testSchedule, publishTime)
	require.NoError(t, err)

	assert.Equal(t, 1, ps.Meta.Revision)
	assert.Equal(t, publishTime, ps.Meta.PublishedAt)
	require.Len(t, ps.Rows, 2)

	first := ps.Rows[0]
	assert.Equal(t, "Mother 2", first.Run.Game)
	assert.Equal(t, "04:30:00", first.Run.Estimate)
	assert.Equal(t, "00:00:00", first.Setup)
	require.Len(t, first.Run.Runners, 1)
	assert.Equal(t, "Hikari", first.Run.Runners[0].Name)
	assert.Equal(t, "hikari_runs", first.Run.Runners[0].Twitch)

	second := ps.Rows[1]
	assert.Equal(t, "Ikaruga", second.Run.Game)
	require.Len(t, second.Run.Runners, 2)
	assert.Equal(t, "Jun", second.Run.Runners[1].Name)
}

func TestPublish_RevisionsAreMonotonic(t *testing.T) {
	f := setupFixture(t)
	f.stageOrder(t, "run-mother2")

	first, err := f.pub.Publish(testEvent, testSchedule, publishTime)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Meta.Revision)

	second, err := f.pub.Publish(testEvent, testSchedule, publishTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Meta.Revision)
}

func TestPublish_SnapshotsAreImmutable(t *testing.T) {
	f := setupFixture(t)
	f.stageOrder(t, "run-mother2", "run-ikaruga", "run-smb1")

	first, err := f.pub.Publish(testEvent, testSchedule, publishTime)
	require.NoError(t, err)
	require.Len(t, first.Rows, 3)

	// Rework the live order after publishing.
	require.NoError(t, f.order.RemoveRow(first.Rows[0].RowID))
	_, err = f.pub.Publish(testEvent, testSchedule, publishTime.Add(time.Hour))
	require.NoError(t, err)

	// Revision 1 still serves the order as it was.
	archived, err := f.pub.Get(testEvent, testSchedule, 1)
	require.NoError(t, err)
	require.Len(t, archived.Rows, 3)
	assert.Equal(t, "Mother 2", archived.Rows[0].Run.Game)

	latest, err := f.pub.Get(testEvent, testSchedule, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Meta.Revision)
	assert.Len(t, latest.Rows, 2)
}

func TestPublish_EmptySchedule(t *testing.T) {
	f := setupFixture(t)

	ps, err := f.pub.Publish(testEvent, testSchedule, publishTime)
	require.NoError(t, err)
	assert.Equal(t, 1, ps.Meta.Revision)
	assert.Empty(t, ps.Rows)
}

func TestPublish_UnknownSchedule(t *testing.T) {
	f := setupFixture(t)

	_, err := f.pub.Publish(testEvent, "side", publishTime)
	assert.ErrorIs(t, err, types.ErrScheduleNotFound)
}

func TestGet_Errors(t *testing.T) {
	f := setupFixture(t)

	t.Run("unknown schedule", func(t *testing.T) {
		_, err := f.pub.Get("no-such-event", testSchedule, 0)
		assert.ErrorIs(t, err, types.ErrScheduleNotFound)
	})

	t.Run("never published", func(t *testing.T) {
		_, err := f.pub.Get(testEvent, testSchedule, 0)
		assert.ErrorIs(t, err, types.ErrScheduleNotPublished)
	})

	t.Run("missing revision", func(t *testing.T) {
		f.stageOrder(t, "run-mother2")
		_, err := f.pub.Publish(testEvent, testSchedule, publishTime)
		require.NoError(t, err)

		_, err = f.pub.Get(testEvent, testSchedule, 7)
		assert.ErrorIs(t, err, types.ErrRevisionNotFound)
	})
}
