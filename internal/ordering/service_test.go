package ordering

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marathon-tools/runorder/internal/sqlite"
	"github.com/marathon-tools/runorder/pkg/types"
)

const testSchedule = "sched-main"

var noSetup = types.DurationFromSeconds(0)

// setupService attaches a seeded backend and returns the service plus the
// underlying row store for structural assertions.
func setupService(t *testing.T) (*Service, types.RowStore) {
	t.Helper()

	seedDir := t.TempDir()
	lines := ""
	for _, id := range []string{"run-a", "run-b", "run-c", "run-d"} {
		lines += fmt.Sprintf(
			`{"run_id":%q,"game":"Game %s","category":"any%%","type":"single","console":"PC","estimate":"1:00:00","runners":[]}`+"\n",
			id, id,
		)
	}
	require.NoError(t, os.WriteFile(filepath.Join(seedDir, "runs.jsonl"), []byte(lines), 0o644))

	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{DataDir: t.TempDir(), SeedDir: seedDir}))
	t.Cleanup(func() { backend.Detach() })

	rows, err := backend.Rows()
	require.NoError(t, err)
	runs, err := backend.Runs()
	require.NoError(t, err)

	return NewService(rows, runs, nil), rows
}

// runOrder flattens the listed order into run IDs.
func runOrder(t *testing.T, s *Service) []string {
	t.Helper()
	rows, err := s.ListRows(testSchedule)
	require.NoError(t, err)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.RunID
	}
	return ids
}

func TestAddFirstRun_EmptySchedule(t *testing.T) {
	s, _ := setupService(t)

	res, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)

	assert.Equal(t, OutcomeInserted, res.Outcome)
	assert.True(t, res.Row.IsHead)
	assert.Empty(t, res.Row.Next)
	assert.Equal(t, []string{"run-a"}, runOrder(t, s))
}

func TestAddFirstRun_DisplacesHead(t *testing.T) {
	s, _ := setupService(t)

	first, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)

	res, err := s.AddFirstRun(testSchedule, "run-b", noSetup)
	require.NoError(t, err)

	assert.Equal(t, OutcomeInserted, res.Outcome)
	assert.Equal(t, first.Row.RowID, res.Row.Next)
	assert.Equal(t, []string{"run-b", "run-a"}, runOrder(t, s))
}

func TestAddFirstRun_MovesExistingRun(t *testing.T) {
	s, _ := setupService(t)

	// Order: a, b, c.
	a, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)
	b, err := s.AssignRunAfter(testSchedule, "run-b", noSetup, a.Row.RowID)
	require.NoError(t, err)
	c, err := s.AssignRunAfter(testSchedule, "run-c", noSetup, b.Row.RowID)
	require.NoError(t, err)

	// Pull c to the front; its row ID survives the move.
	res, err := s.AddFirstRun(testSchedule, "run-c", noSetup)
	require.NoError(t, err)

	assert.Equal(t, OutcomeMoved, res.Outcome)
	assert.Equal(t, c.Row.RowID, res.Row.RowID)
	assert.Equal(t, []string{"run-c", "run-a", "run-b"}, runOrder(t, s))
}

func TestAddFirstRun_ReaffirmCurrentHead(t *testing.T) {
	s, _ := setupService(t)

	a, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)
	_, err = s.AssignRunAfter(testSchedule, "run-b", noSetup, a.Row.RowID)
	require.NoError(t, err)

	res, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)

	assert.Equal(t, OutcomeMoved, res.Outcome)
	assert.Equal(t, a.Row.RowID, res.Row.RowID)
	assert.Equal(t, []string{"run-a", "run-b"}, runOrder(t, s))
}

func TestAddFirstRun_UnknownRun(t *testing.T) {
	s, _ := setupService(t)

	_, err := s.AddFirstRun(testSchedule, "run-zzz", noSetup)
	assert.ErrorIs(t, err, types.ErrRunNotFound)
}

func TestAssignRunAfter_InsertsBetween(t *testing.T) {
	s, _ := setupService(t)

	a, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)
	_, err = s.AssignRunAfter(testSchedule, "run-b", noSetup, a.Row.RowID)
	require.NoError(t, err)

	// Insert c between a and b.
	res, err := s.AssignRunAfter(testSchedule, "run-c", noSetup, a.Row.RowID)
	require.NoError(t, err)

	assert.Equal(t, OutcomeInserted, res.Outcome)
	assert.False(t, res.Row.IsHead)
	assert.Equal(t, []string{"run-a", "run-c", "run-b"}, runOrder(t, s))
}

func TestAssignRunAfter_ExtendsTail(t *testing.T) {
	s, _ := setupService(t)

	a, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)

	res, err := s.AssignRunAfter(testSchedule, "run-b", noSetup, a.Row.RowID)
	require.NoError(t, err)

	assert.Empty(t, res.Row.Next)
	assert.Equal(t, []string{"run-a", "run-b"}, runOrder(t, s))
}

func TestAssignRunAfter_MovesExistingRun(t *testing.T) {
	s, _ := setupService(t)

	// Order: a, b, c.
	a, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)
	b, err := s.AssignRunAfter(testSchedule, "run-b", noSetup, a.Row.RowID)
	require.NoError(t, err)
	c, err := s.AssignRunAfter(testSchedule, "run-c", noSetup, b.Row.RowID)
	require.NoError(t, err)

	// Move a after c: b, c, a.
	res, err := s.AssignRunAfter(testSchedule, "run-a", noSetup, c.Row.RowID)
	require.NoError(t, err)

	assert.Equal(t, OutcomeMoved, res.Outcome)
	assert.Equal(t, a.Row.RowID, res.Row.RowID)
	assert.Equal(t, []string{"run-b", "run-c", "run-a"}, runOrder(t, s))
}

func TestAssignRunAfter_Errors(t *testing.T) {
	s, _ := setupService(t)

	a, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)

	t.Run("unknown run", func(t *testing.T) {
		_, err := s.AssignRunAfter(testSchedule, "run-zzz", noSetup, a.Row.RowID)
		assert.ErrorIs(t, err, types.ErrRunNotFound)
	})

	t.Run("unknown predecessor", func(t *testing.T) {
		_, err := s.AssignRunAfter(testSchedule, "run-b", noSetup, "no-such-row")
		assert.ErrorIs(t, err, types.ErrPrevRowNotFound)
	})

	t.Run("run after its own row", func(t *testing.T) {
		_, err := s.AssignRunAfter(testSchedule, "run-a", noSetup, a.Row.RowID)
		assert.ErrorIs(t, err, types.ErrRunConflict)
	})
}

func TestRemoveRow(t *testing.T) {
	s, _ := setupService(t)

	// Order: a, b, c.
	a, err := s.AddFirstRun(testSchedule, "run-a", noSetup)
	require.NoError(t, err)
	b, err := s.AssignRunAfter(testSchedule, "run-b", noSetup, a.Row.RowID)
	require.NoError(t, err)
	_, err = s.AssignRunAfter(testSchedule, "run-c", noSetup, b.Row.RowID)
	require.NoError(t, err)

	require.NoError(t, s.RemoveRow(b.Row.RowID))
	assert.Equal(t, []string{"run-a", "run-c"}, runOrder(t, s))

	require.NoError(t, s.RemoveRow(a.Row.RowID))
	assert.Equal(t, []string{"run-c"}, runOrder(t, s))

	assert.ErrorIs(t, s.RemoveRow(a.Row.RowID), types.ErrRowNotFound)
}

func TestListRows_EmptySchedule(t *testing.T) {
	s, _ := setupService(t)

	rows, err := s.ListRows(testSchedule)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestListRows_SetupTimesSurvive(t *testing.T) {
	s, _ := setupService(t)

	res, err := s.AddFirstRun(testSchedule, "run-a", types.DurationFromSeconds(600))
	require.NoError(t, err)
	assert.Equal(t, "00:10:00", res.Row.SetupTime.Formatted)

	rows, err := s.ListRows(testSchedule)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 600, rows[0].SetupTime.Seconds)
}

// corruptStore serves a fixed row set so chain defects can be staged directly.
type corruptStore struct {
	types.RowStore
	rows []*types.ScheduleRow
}

func (c *corruptStore) List(string) ([]*types.ScheduleRow, error) {
	return c.rows, nil
}

func TestListRows_ChainDefects(t *testing.T) {
	t.Run("cycle is detected", func(t *testing.T) {
		store := &corruptStore{rows: []*types.ScheduleRow{
			{RowID: "r1", ScheduleID: testSchedule, RunID: "run-a", Next: "r2", IsHead: true},
			{RowID: "r2", ScheduleID: testSchedule, RunID: "run-b", Next: "r1"},
		}}
		s := NewService(store, nil, nil)

		_, err := s.ListRows(testSchedule)
		assert.ErrorIs(t, err, types.ErrCorruptChain)
	})

	t.Run("rows without a head yield an empty order", func(t *testing.T) {
		store := &corruptStore{rows: []*types.ScheduleRow{
			{RowID: "r1", ScheduleID: testSchedule, RunID: "run-a", Next: ""},
		}}
		s := NewService(store, nil, nil)

		rows, err := s.ListRows(testSchedule)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("dangling successor ends the walk", func(t *testing.T) {
		store := &corruptStore{rows: []*types.ScheduleRow{
			{RowID: "r1", ScheduleID: testSchedule, RunID: "run-a", Next: "gone", IsHead: true},
		}}
		s := NewService(store, nil, nil)

		rows, err := s.ListRows(testSchedule)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "r1", rows[0].RowID)
	})
}
