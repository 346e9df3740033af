// Package sqlite provides a SQLite-backed BlobStore that keeps a revision
// history of every saved blob in a single-file database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/parley-dev/parley/pkg/ports"
	_ "modernc.org/sqlite"
)

// Store implements ports.BlobStore and ports.Revisioned.
//
// Every Write appends a row to blob_revisions and updates the single current
// row inside one transaction, so Read always observes a complete blob and the
// full save history stays queryable.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path. ":memory:" works for tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS blob_current (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data BLOB NOT NULL,
			saved_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		)`,
		`CREATE TABLE IF NOT EXISTS blob_revisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			data BLOB NOT NULL,
			saved_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_revisions_saved_at ON blob_revisions(saved_at)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Read returns the current blob.
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM blob_current WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ports.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read current blob: %w", err)
	}
	return data, nil
}

// Write replaces the current blob and appends a revision, transactionally.
func (s *Store) Write(ctx context.Context, data []byte) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT INTO blob_revisions (data) VALUES (?)`, data); err != nil {
		return fmt.Errorf("failed to append revision: %w", err)
	}

	upsert := `
		INSERT INTO blob_current (id, data, saved_at)
		VALUES (1, ?, strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			saved_at = excluded.saved_at
	`
	if _, err = tx.ExecContext(ctx, upsert, data); err != nil {
		return fmt.Errorf("failed to update current blob: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit blob write: %w", err)
	}
	return nil
}

// Revisions lists the stored revisions, oldest first.
func (s *Store) Revisions(ctx context.Context) ([]ports.Revision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, saved_at, length(data) FROM blob_revisions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var revs []ports.Revision
	for rows.Next() {
		var r ports.Revision
		if err := rows.Scan(&r.ID, &r.SavedAt, &r.Size); err != nil {
			return nil, fmt.Errorf("failed to scan revision row: %w", err)
		}
		revs = append(revs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revision rows: %w", err)
	}
	return revs, nil
}

// ReadRevision returns the blob saved under a specific revision id.
func (s *Store) ReadRevision(ctx context.Context, id int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM blob_revisions WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ports.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read revision %d: %w", id, err)
	}
	return data, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
