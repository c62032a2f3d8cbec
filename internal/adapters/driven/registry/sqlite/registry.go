// Package sqlite provides a SQLite-backed ingestion registry.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The schema is managed
// through versioned migrations embedded in the migrations/ directory.
//
// By default, the database is stored at ~/.korpus/data/registry.db. All
// operations are thread-safe through database-level locking in WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/korpus-dev/korpus/internal/adapters/driven/registry/sqlite/migrations"
	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driven"
)

// Registry is a SQLite-backed implementation of driven.Registry.
type Registry struct {
	db   *sql.DB
	path string
}

var _ driven.Registry = (*Registry)(nil)

// New creates a registry at the specified data directory.
// If dataDir is empty, defaults to ~/.korpus/data/registry.db.
func New(dataDir string) (*Registry, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".korpus", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "registry.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	r := &Registry{db: db, path: dbPath}

	if err := r.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return r, nil
}

// Close closes the database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Registry) Path() string {
	return r.path
}

func (r *Registry) migrate(fsys embed.FS) error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := r.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := r.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := r.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Get retrieves the record for a document.
func (r *Registry) Get(ctx context.Context, documentID string) (*driven.IngestRecord, error) {
	var rec driven.IngestRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT document_id, content_hash, chunk_count, last_modified, ingested_at
		FROM ingested_documents
		WHERE document_id = ?
	`, documentID).Scan(&rec.DocumentID, &rec.ContentHash, &rec.ChunkCount, &rec.LastModified, &rec.IngestedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, documentID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting ingest record: %w", err)
	}
	return &rec, nil
}

// Save stores or replaces a record.
func (r *Registry) Save(ctx context.Context, rec driven.IngestRecord) error {
	if rec.DocumentID == "" {
		return fmt.Errorf("%w: document id is empty", domain.ErrInvalidInput)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingested_documents (document_id, content_hash, chunk_count, last_modified, ingested_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			chunk_count = excluded.chunk_count,
			last_modified = excluded.last_modified,
			ingested_at = excluded.ingested_at
	`, rec.DocumentID, rec.ContentHash, rec.ChunkCount, rec.LastModified.UTC(), rec.IngestedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving ingest record: %w", err)
	}
	return nil
}

// Delete removes a record. Missing ids are not an error.
func (r *Registry) Delete(ctx context.Context, documentID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM ingested_documents WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting ingest record: %w", err)
	}
	return nil
}

// List returns all records ordered by document id.
func (r *Registry) List(ctx context.Context) ([]driven.IngestRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT document_id, content_hash, chunk_count, last_modified, ingested_at
		FROM ingested_documents
		ORDER BY document_id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing ingest records: %w", err)
	}
	defer rows.Close()

	var records []driven.IngestRecord
	for rows.Next() {
		var rec driven.IngestRecord
		if err := rows.Scan(&rec.DocumentID, &rec.ContentHash, &rec.ChunkCount, &rec.LastModified, &rec.IngestedAt); err != nil {
			return nil, fmt.Errorf("scanning ingest record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingest records: %w", err)
	}
	return records, nil
}
