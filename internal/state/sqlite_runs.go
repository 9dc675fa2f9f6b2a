package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// BeginRun records the start of a lint run.
func (s *Store) BeginRun(ctx context.Context, version, fingerprint string) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	run := &Run{
		ID:          generateID(),
		Version:     version,
		Fingerprint: fingerprint,
		Status:      RunStatusRunning,
		StartedAt:   time.Now().UTC(),
	}

	s.logger.Debug("creating run", slog.String("id", run.ID))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lint_runs (id, version, fingerprint, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Version, run.Fingerprint, string(run.Status), run.StartedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	return run, nil
}

// FinishRun marks a run as completed, or failed when stats.Err is set.
func (s *Store) FinishRun(ctx context.Context, id string, stats RunStats) error {
	if s.db == nil {
		return errNotOpened
	}

	status := RunStatusCompleted
	var errMsg *string
	if stats.Err != nil {
		status = RunStatusFailed
		msg := stats.Err.Error()
		errMsg = &msg
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE lint_runs
		 SET status = ?, finished_at = ?, files = ?, cached = ?, diagnostics = ?, error = ?
		 WHERE id = ?`,
		string(status), time.Now().UTC().UnixMilli(), stats.Files, stats.Cached, stats.Diagnostics, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, version, fingerprint, status, started_at, finished_at, files, cached, diagnostics, error
		 FROM lint_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs up to the given limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, version, fingerprint, status, started_at, finished_at, files, cached, diagnostics, error
		 FROM lint_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run        Run
		status     string
		startedAt  int64
		finishedAt sql.NullInt64
		errMsg     sql.NullString
	)
	if err := sc.Scan(&run.ID, &run.Version, &run.Fingerprint, &status, &startedAt,
		&finishedAt, &run.Files, &run.Cached, &run.Diagnostics, &errMsg); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	run.StartedAt = time.UnixMilli(startedAt).UTC()
	if finishedAt.Valid {
		t := time.UnixMilli(finishedAt.Int64).UTC()
		run.FinishedAt = &t
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return &run, nil
}
