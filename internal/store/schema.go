package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion changes whenever schema.sql does. There are no migrations:
// the code index is rebuilt from the documents and the event log is kept in
// the old file.
const schemaVersion = 1

// ErrSchemaMismatch means the database was created for another schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// initSchema creates a fresh database or checks that an existing one matches.
func (s *Store) initSchema(ctx context.Context) error {
	version, err := s.storedSchemaVersion(ctx)
	if err != nil {
		return err
	}
	switch {
	case version == 0:
		return s.createSchema(ctx)
	case version > schemaVersion:
		return fmt.Errorf("%w: %s has version %d but this pagecheck understands %d; upgrade pagecheck",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	case version < schemaVersion:
		return fmt.Errorf("%w: %s has version %d, expected %d; move it aside and run `pagecheck index` to rebuild the code index (scan history stays in the old file)",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
	return nil
}

// storedSchemaVersion returns 0 for a database that has never been initialised.
func (s *Store) storedSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE((SELECT version FROM schema_version LIMIT 1), 0)
		WHERE EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_version')`,
	).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	return s.Update(ctx, func(tx *Tx) error {
		if _, err := tx.tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.tx.ExecContext(ctx,
			"INSERT INTO schema_version (version) SELECT ? WHERE NOT EXISTS (SELECT 1 FROM schema_version)",
			schemaVersion,
		); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	})
}
