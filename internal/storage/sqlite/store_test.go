package sqlite

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/egamma.report/internal/event"
	"github.com/banshee-data/egamma.report/internal/output"
	"github.com/banshee-data/egamma.report/internal/timeutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "electrons.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// testOutputEvent returns an event with two superclusters and two electrons;
// the second electron has no photon isolation.
func testOutputEvent() *output.Event {
	ev := &output.Event{Run: 1, Lumi: 2, Number: 3}
	ev.SuperClusters.CreateBack(output.SuperCluster{RawPt: 40, Eta: 0.5, Phi: 0.1})
	ev.SuperClusters.CreateBack(output.SuperCluster{RawPt: 30, Eta: -1.1, Phi: 2.0})
	sc0, sc1 := ev.SuperClusters.At(0), ev.SuperClusters.At(1)

	e := ev.Electrons.CreateBack(output.NewElectron())
	e.Pt, e.Eta, e.Phi = 45, 0.5, 0.1
	e.Veto, e.Loose = true, true
	e.IsoPUOffset = 2
	e.EcalIso = 4.5
	e.ChIsoPh = 1.25
	e.MatchHLT[output.HLTEl27Loose] = true
	e.MatchHLT[output.HLTPh175] = true
	e.SuperCluster = output.ClusterRef{Input: event.Ref{Collection: event.SuperClustersCollection, Index: 0}, Output: sc0}

	e = ev.Electrons.CreateBack(output.NewElectron())
	e.Pt, e.Eta, e.Phi = 31, -1.1, 2.0
	e.Veto = true
	e.SuperCluster = output.ClusterRef{Input: event.Ref{Collection: event.SuperClustersCollection, Index: 1}, Output: sc1}
	return ev
}

func TestOpen_MigratesToLatest(t *testing.T) {
	s := openTestStore(t)
	version, dirty, err := s.MigrateVersion(MigrationsFS())
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	var journal string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&journal))
	assert.Equal(t, "wal", journal)
}

func TestOpen_ExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "electrons.db")
	s, err := Open(path)
	require.NoError(t, err)
	runID, err := s.BeginRun(context.Background(), RunInfo{InputPath: "a.jsonl"}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	run, err := s.GetRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, "a.jsonl", run.InputPath)
}

func TestMigrateDown(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.MigrateDown(MigrationsFS()))
	version, _, err := s.MigrateVersion(MigrationsFS())
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	_, err = s.DB().Exec(`SELECT COUNT(*) FROM hlt_categories`)
	assert.Error(t, err)
}

func TestWriteEvent_RequiresRun(t *testing.T) {
	s := openTestStore(t)
	err := s.WriteEvent(context.Background(), testOutputEvent())
	assert.ErrorIs(t, err, ErrNoRun)
	assert.ErrorIs(t, s.EndRun(context.Background(), 0, 0), ErrNoRun)
}

func TestWriteEvent_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	filters := []string{"f0", "f1", "f2", "f3", "f4", "f5"}
	runID, err := s.BeginRun(ctx, RunInfo{ConfigPath: "c.json", Version: "test", UseTrigger: true, HLTFilters: filters}, nil)
	require.NoError(t, err)
	assert.Len(t, runID, 36)
	assert.Equal(t, runID, s.RunID())

	require.NoError(t, s.WriteEvent(ctx, testOutputEvent()))
	require.NoError(t, s.EndRun(ctx, 1, 0))
	assert.Empty(t, s.RunID())

	run, err := s.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.True(t, run.UseTrigger)
	assert.Equal(t, 1, run.EventsProcessed)
	assert.True(t, run.FinishedAt.Valid)

	labels, err := s.HLTCategories(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, filters, labels)

	n, err := s.CountEvents(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := s.ListElectrons(ctx, runID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, int64(3), first.Event)
	assert.Equal(t, 0, first.Idx)
	assert.Equal(t, 45.0, first.Pt.Float64)
	assert.Equal(t, 2.0, first.IsoPUOffset.Float64)
	assert.Equal(t, 4.5, first.EcalIso.Float64)
	assert.True(t, first.ChIsoPh.Valid)
	assert.Equal(t, 1.25, first.ChIsoPh.Float64)
	assert.Equal(t, int64(1<<1|1<<5), first.MatchHLT.Int64)
	assert.Equal(t, int64(0), first.SuperClusterIdx.Int64)

	second := rows[1]
	assert.False(t, second.ChIsoPh.Valid, "NaN photon isolation must be stored as NULL")
	assert.Equal(t, int64(1), second.SuperClusterIdx.Int64)

	var rawPt float64
	require.NoError(t, s.DB().QueryRow(`SELECT raw_pt FROM superclusters WHERE idx = 1`).Scan(&rawPt))
	assert.Equal(t, 30.0, rawPt)
}

func TestWriteEvent_DisabledBranchesAreNull(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	branches := output.BranchList{"!electrons.matchHLT", "!electrons.ecalIso", "!superClusters.phi"}
	runID, err := s.BeginRun(ctx, RunInfo{}, branches)
	require.NoError(t, err)
	require.NoError(t, s.WriteEvent(ctx, testOutputEvent()))

	rows, err := s.ListElectrons(ctx, runID)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.False(t, rows[0].MatchHLT.Valid)
	assert.False(t, rows[0].EcalIso.Valid)
	assert.True(t, rows[0].Pt.Valid)

	var phi, eta *float64
	require.NoError(t, s.DB().QueryRow(`SELECT phi, eta FROM superclusters WHERE idx = 0`).Scan(&phi, &eta))
	assert.Nil(t, phi)
	require.NotNil(t, eta)
	assert.Equal(t, 0.5, *eta)
}

func TestWriteEvent_UnresolvedSuperCluster(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	runID, err := s.BeginRun(ctx, RunInfo{}, nil)
	require.NoError(t, err)

	ev := testOutputEvent()
	ev.Electrons.At(0).SuperCluster.Output = nil
	require.NoError(t, s.WriteEvent(ctx, ev))

	rows, err := s.ListElectrons(ctx, runID)
	require.NoError(t, err)
	assert.False(t, rows[0].SuperClusterIdx.Valid)
}

func TestMatchHLTBits(t *testing.T) {
	var m [output.NElectronHLTObjects]bool
	assert.Equal(t, int64(0), MatchHLTBits(m))
	m[0], m[3] = true, true
	assert.Equal(t, int64(9), MatchHLTBits(m))
}

func TestNullFloat(t *testing.T) {
	assert.False(t, nullFloat(math.NaN()).Valid)
	v := nullFloat(-1.5)
	assert.True(t, v.Valid)
	assert.Equal(t, -1.5, v.Float64)
}

func TestRunTimestampsUseClock(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	start := time.Date(2016, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)
	s.SetClock(clock)

	runID, err := s.BeginRun(ctx, RunInfo{}, nil)
	require.NoError(t, err)
	clock.Advance(90 * time.Second)
	require.NoError(t, s.EndRun(ctx, 0, 0))

	run, err := s.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, start.UnixNano(), run.StartedAt)
	assert.Equal(t, start.Add(90*time.Second).UnixNano(), run.FinishedAt.Int64)
}

func TestRetryOnBusy(t *testing.T) {
	clock := timeutil.NewMockClock(time.Time{})
	calls := 0
	err := retryOnBusy(clock, func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, clock.Sleeps())

	other := errors.New("constraint failed")
	calls = 0
	err = retryOnBusy(clock, func() error { calls++; return other })
	assert.ErrorIs(t, err, other)
	assert.Equal(t, 1, calls)

	calls = 0
	err = retryOnBusy(timeutil.NewMockClock(time.Time{}), func() error { calls++; return errors.New("SQLITE_BUSY") })
	assert.Error(t, err)
	assert.Equal(t, 5, calls)
}
