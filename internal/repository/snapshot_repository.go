package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/signup-sheets-api/pkg/storage"
)

// Dialect selects DDL and placeholder style for the snapshot table.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const snapshotRowID = 1

var snapshotSchema = map[Dialect]string{
	DialectPostgres: `CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY,
    document JSONB NOT NULL,
    revision BIGINT NOT NULL DEFAULT 1,
    updated_at TIMESTAMPTZ NOT NULL
)`,
	DialectSQLite: `CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY,
    document TEXT NOT NULL,
    revision INTEGER NOT NULL DEFAULT 1,
    updated_at TIMESTAMP NOT NULL
)`,
}

// SnapshotRepository stores the scheduling document as a single SQL row.
type SnapshotRepository struct {
	db      *sqlx.DB
	dialect Dialect
}

// NewSnapshotRepository builds the repository for the given dialect.
func NewSnapshotRepository(db *sqlx.DB, dialect Dialect) *SnapshotRepository {
	return &SnapshotRepository{db: db, dialect: dialect}
}

var _ storage.Blob = (*SnapshotRepository)(nil)

func (r *SnapshotRepository) rebind(query string) string {
	if r.dialect == DialectPostgres {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return sqlx.Rebind(sqlx.QUESTION, query)
}

// Migrate creates the snapshot table when missing.
func (r *SnapshotRepository) Migrate(ctx context.Context) error {
	ddl, ok := snapshotSchema[r.dialect]
	if !ok {
		return fmt.Errorf("unsupported snapshot dialect %q", r.dialect)
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create snapshots table: %w", err)
	}
	return nil
}

// Read returns the stored document or storage.ErrNotExist.
func (r *SnapshotRepository) Read(ctx context.Context) ([]byte, error) {
	query := r.rebind(`SELECT document FROM snapshots WHERE id = ?`)
	var document []byte
	if err := r.db.GetContext(ctx, &document, query, snapshotRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotExist
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return document, nil
}

// Write upserts the document and bumps its revision.
func (r *SnapshotRepository) Write(ctx context.Context, data []byte) error {
	query := r.rebind(`INSERT INTO snapshots (id, document, revision, updated_at)
VALUES (?, ?, 1, ?)
ON CONFLICT (id) DO UPDATE
SET document = EXCLUDED.document,
    revision = snapshots.revision + 1,
    updated_at = EXCLUDED.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, snapshotRowID, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Revision reports how many times the document has been written.
func (r *SnapshotRepository) Revision(ctx context.Context) (int64, error) {
	query := r.rebind(`SELECT revision FROM snapshots WHERE id = ?`)
	var revision int64
	if err := r.db.GetContext(ctx, &revision, query, snapshotRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read snapshot revision: %w", err)
	}
	return revision, nil
}

// Close releases the database handle.
func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}
