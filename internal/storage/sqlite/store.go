package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/egamma.report/internal/monitoring"
	"github.com/banshee-data/egamma.report/internal/output"
	"github.com/banshee-data/egamma.report/internal/timeutil"
)

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// ErrNoRun is returned when events are written before BeginRun.
var ErrNoRun = errors.New("no run in progress")

// RunInfo describes a processing run.
type RunInfo struct {
	ConfigPath string
	InputPath  string
	Version    string
	UseTrigger bool
	// HLTFilters holds the filter label of every trigger category, in
	// output.ElectronHLTObject order. Empty when trigger matching is off.
	HLTFilters []string
}

// Store writes produced events to a SQLite database.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock

	runID    string
	branches output.BranchList

	insertElectron string
	insertSC       string
}

// Open opens or creates the database at path and migrates it to the latest
// schema version.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, clock: timeutil.RealClock{}}
	if err := s.MigrateUp(MigrationsFS()); err != nil {
		db.Close()
		return nil, err
	}
	s.insertElectron = insertStatement("electrons", electronColumnNames())
	s.insertSC = insertStatement("superclusters", superClusterColumnNames())
	return s, nil
}

// SetClock replaces the clock used for run timestamps and retry backoff.
func (s *Store) SetClock(c timeutil.Clock) { s.clock = c }

// DB exposes the underlying connection for read-only queries.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// RunID returns the ID of the run in progress, or "" between runs.
func (s *Store) RunID() string { return s.runID }

// BeginRun records a new run and makes it current. Events written until
// EndRun belong to it. Branches disabled in branches are stored as NULL.
func (s *Store) BeginRun(ctx context.Context, info RunInfo, branches output.BranchList) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, config_path, input_path, version, use_trigger, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, info.ConfigPath, info.InputPath, info.Version, info.UseTrigger, s.clock.Now().UnixNano(),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for bit, label := range info.HLTFilters {
		name := output.ElectronHLTObject(bit).String()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hlt_categories (run_id, bit, name, filter_label)
			VALUES (?, ?, ?, ?)`,
			runID, bit, name, label,
		); err != nil {
			return "", fmt.Errorf("insert hlt category %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}

	s.runID = runID
	s.branches = append(output.BranchList(nil), branches...)
	monitoring.Logf("started run %s (input %s)", runID, info.InputPath)
	return runID, nil
}

// EndRun records the run's final counters and clears the current run.
func (s *Store) EndRun(ctx context.Context, processed, aborted int) error {
	if s.runID == "" {
		return ErrNoRun
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, events_processed = ?, events_aborted = ?
		WHERE run_id = ?`,
		s.clock.Now().UnixNano(), processed, aborted, s.runID,
	)
	if err != nil {
		return fmt.Errorf("end run %s: %w", s.runID, err)
	}
	monitoring.Logf("finished run %s: %d processed, %d aborted", s.runID, processed, aborted)
	s.runID = ""
	s.branches = nil
	return nil
}

// WriteEvent persists one produced event and its collections in a single
// transaction.
func (s *Store) WriteEvent(ctx context.Context, ev *output.Event) error {
	if s.runID == "" {
		return ErrNoRun
	}
	return retryOnBusy(s.clock, func() error { return s.writeEvent(ctx, ev) })
}

func (s *Store) writeEvent(ctx context.Context, ev *output.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO events (run_id, run, lumi, event, is_real_data, n_electrons, n_superclusters)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.runID, ev.Run, ev.Lumi, ev.Number, ev.IsRealData, ev.Electrons.Len(), ev.SuperClusters.Len(),
	)
	if err != nil {
		return fmt.Errorf("insert event %d:%d:%d: %w", ev.Run, ev.Lumi, ev.Number, err)
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("event id: %w", err)
	}

	scStmt, err := tx.PrepareContext(ctx, s.insertSC)
	if err != nil {
		return fmt.Errorf("prepare superclusters: %w", err)
	}
	defer scStmt.Close()

	scIndex := make(map[*output.SuperCluster]int, ev.SuperClusters.Len())
	for i := 0; i < ev.SuperClusters.Len(); i++ {
		sc := ev.SuperClusters.At(i)
		scIndex[sc] = i
		args := append([]interface{}{eventID, i}, s.superClusterValues(sc)...)
		if _, err := scStmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert supercluster %d: %w", i, err)
		}
	}

	elStmt, err := tx.PrepareContext(ctx, s.insertElectron)
	if err != nil {
		return fmt.Errorf("prepare electrons: %w", err)
	}
	defer elStmt.Close()

	for i := 0; i < ev.Electrons.Len(); i++ {
		args := append([]interface{}{eventID, i}, s.electronValues(ev.Electrons.At(i), scIndex)...)
		if _, err := elStmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert electron %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func insertStatement(table string, columns []string) string {
	all := append([]string{"event_id", "idx"}, columns...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(all)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(all, ", "), marks)
}

// nullFloat maps NaN to NULL.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// retryOnBusy retries fn while SQLite reports the database as locked.
func retryOnBusy(clock timeutil.Clock, fn func() error) error {
	const attempts = 5
	backoff := 10 * time.Millisecond
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !isBusy(err) {
			return err
		}
		clock.Sleep(backoff)
		backoff *= 2
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
