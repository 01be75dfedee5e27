package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Run is a persisted processing run.
type Run struct {
	RunID           string
	ConfigPath      string
	InputPath       string
	Version         string
	UseTrigger      bool
	StartedAt       int64
	FinishedAt      sql.NullInt64
	EventsProcessed int
	EventsAborted   int
}

// ElectronRow is the subset of a persisted electron used by reports.
// Null columns read back as invalid.
type ElectronRow struct {
	Run, Lumi       int64
	Event           int64
	Idx             int
	Pt              sql.NullFloat64
	Eta             sql.NullFloat64
	Phi             sql.NullFloat64
	IsoPUOffset     sql.NullFloat64
	EcalIso         sql.NullFloat64
	HcalIso         sql.NullFloat64
	ChIsoPh         sql.NullFloat64
	MatchHLT        sql.NullInt64
	SuperClusterIdx sql.NullInt64
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	var r Run
	var configPath, inputPath, version sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, config_path, input_path, version, use_trigger,
		       started_at, finished_at, events_processed, events_aborted
		FROM runs
		WHERE run_id = ?`, runID).Scan(
		&r.RunID, &configPath, &inputPath, &version, &r.UseTrigger,
		&r.StartedAt, &r.FinishedAt, &r.EventsProcessed, &r.EventsAborted,
	)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	r.ConfigPath = configPath.String
	r.InputPath = inputPath.String
	r.Version = version.String
	return &r, nil
}

// HLTCategories returns the filter label of every trigger category of a
// run, indexed by bit.
func (s *Store) HLTCategories(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filter_label FROM hlt_categories
		WHERE run_id = ?
		ORDER BY bit`, runID)
	if err != nil {
		return nil, fmt.Errorf("query hlt categories: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// ListElectrons returns every electron written under runID, in event order
// and pt rank within each event.
func (s *Store) ListElectrons(ctx context.Context, runID string) ([]ElectronRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ev.run, ev.lumi, ev.event, el.idx, el.pt, el.eta, el.phi,
		       el.iso_pu_offset, el.ecal_iso, el.hcal_iso, el.ch_iso_ph,
		       el.match_hlt, el.supercluster_idx
		FROM electrons el
		JOIN events ev ON ev.event_id = el.event_id
		WHERE ev.run_id = ?
		ORDER BY ev.event_id, el.idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("query electrons: %w", err)
	}
	defer rows.Close()

	var out []ElectronRow
	for rows.Next() {
		var r ElectronRow
		if err := rows.Scan(
			&r.Run, &r.Lumi, &r.Event, &r.Idx, &r.Pt, &r.Eta, &r.Phi,
			&r.IsoPUOffset, &r.EcalIso, &r.HcalIso, &r.ChIsoPh,
			&r.MatchHLT, &r.SuperClusterIdx,
		); err != nil {
			return nil, fmt.Errorf("scan electron: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountEvents returns the number of events written under runID.
func (s *Store) CountEvents(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}
