package state

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var errNotOpened = errors.New("database not opened")

// schema returns a goose provider for the cache schema.
func (s *Store) schema() (*goose.Provider, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(goose.DialectSQLite3, s.db, sub)
}

// Migrate brings the cache schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	p, err := s.schema()
	if err != nil {
		return err
	}
	applied, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate lint cache: %w", err)
	}
	for _, r := range applied {
		s.logger.Debug("applied cache migration",
			slog.Int64("version", r.Source.Version),
			slog.Duration("took", r.Duration))
	}
	return nil
}

// GetMigrationVersion reports the schema version recorded in the cache.
func (s *Store) GetMigrationVersion(ctx context.Context) (int64, error) {
	p, err := s.schema()
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}
