package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/jqlint/pkg/lint"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Store is the SQLite-backed lint cache. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the cache database at path and applies
// pending migrations. Use ":memory:" for an in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dsn := "file::memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		// Ensure cache directory exists
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create cache directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("opened lint cache", slog.String("path", path))
	return s, nil
}

// Close closes the SQLite database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// Lookup returns the cached diagnostics for key. The second result is false
// when there is no entry or the entry was produced from other content or
// configuration.
func (s *Store) Lookup(ctx context.Context, key Key) ([]lint.Diagnostic, bool, error) {
	if s.db == nil {
		return nil, false, errNotOpened
	}

	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT diagnostics FROM lint_results WHERE path = ? AND content_hash = ? AND fingerprint = ?`,
		key.Path, key.ContentHash, key.Fingerprint,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up %s: %w", key.Path, err)
	}

	var diags []lint.Diagnostic
	if err := msgpack.Unmarshal(blob, &diags); err != nil {
		// A blob written by an incompatible build is a miss, not a failure.
		s.logger.Debug("discarding undecodable cache entry",
			slog.String("path", key.Path), slog.String("error", err.Error()))
		return nil, false, nil
	}
	return diags, true, nil
}

// Save stores the diagnostics of key, replacing any previous entry for the
// same path. runID may be empty.
func (s *Store) Save(ctx context.Context, key Key, runID string, diags []lint.Diagnostic) error {
	if s.db == nil {
		return errNotOpened
	}
	if diags == nil {
		diags = []lint.Diagnostic{}
	}

	blob, err := msgpack.Marshal(diags)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics for %s: %w", key.Path, err)
	}

	var run any
	if runID != "" {
		run = runID
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lint_results (path, content_hash, fingerprint, diagnostics, run_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   content_hash = excluded.content_hash,
		   fingerprint = excluded.fingerprint,
		   diagnostics = excluded.diagnostics,
		   run_id = excluded.run_id,
		   updated_at = excluded.updated_at`,
		key.Path, key.ContentHash, key.Fingerprint, blob, run, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key.Path, err)
	}
	return nil
}

// Prune removes cached results and runs older than maxAge, and results
// whose file no longer exists. It returns the number of results removed.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	if s.db == nil {
		return 0, errNotOpened
	}

	cutoff := time.Now().UTC().Add(-maxAge).UnixMilli()
	res, err := s.db.ExecContext(ctx, `DELETE FROM lint_results WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune results: %w", err)
	}
	removed, _ := res.RowsAffected()

	gone, err := s.missingPaths(ctx)
	if err != nil {
		return removed, err
	}
	for _, path := range gone {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM lint_results WHERE path = ?`, path); err != nil {
			return removed, fmt.Errorf("failed to prune %s: %w", path, err)
		}
		removed++
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM lint_runs WHERE started_at < ?`, cutoff); err != nil {
		return removed, fmt.Errorf("failed to prune runs: %w", err)
	}

	s.logger.Debug("pruned lint cache", slog.Int64("removed", removed))
	return removed, nil
}

func (s *Store) missingPaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM lint_results`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached paths: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var gone []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan cached path: %w", err)
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			gone = append(gone, path)
		}
	}
	return gone, rows.Err()
}

// Count returns the number of cached results.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, errNotOpened
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lint_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}
