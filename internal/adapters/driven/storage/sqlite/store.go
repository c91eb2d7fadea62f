// Package sqlite provides SQLite-backed implementations of the storage
// ports. Metadata lives in a single database file; binary payloads stay in
// blob storage.
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
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pagevault/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pagevault/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pagevault", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
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
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveFolder stores or updates a folder.
func (s *documentStore) SaveFolder(ctx context.Context, folder *domain.Folder) error {
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO folders (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name
	`, folder.ID, folder.Name, folder.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving folder: %w", err)
	}
	return nil
}

// GetFolder retrieves a folder by ID.
func (s *documentStore) GetFolder(ctx context.Context, id string) (*domain.Folder, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM folders WHERE id = ?
	`, id)

	var folder domain.Folder
	if err := row.Scan(&folder.ID, &folder.Name, &folder.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning folder: %w", err)
	}
	return &folder, nil
}

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, folder_id, title, lang, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			folder_id = excluded.folder_id,
			title = excluded.title,
			lang = excluded.lang,
			updated_at = excluded.updated_at
	`, doc.ID, doc.FolderID, doc.Title, doc.Lang, doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, folder_id, title, lang, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns documents in a folder, ordered by title.
func (s *documentStore) ListDocuments(ctx context.Context, folderID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, folder_id, title, lang, created_at, updated_at
		FROM documents WHERE folder_id = ?
		ORDER BY title
	`, folderID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// CreateVersion stores a new version together with its pages. The version
// is created non-current; SetCurrentVersion commits it.
func (s *documentStore) CreateVersion(ctx context.Context, version *domain.DocumentVersion, pages []domain.Page) error {
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO document_versions (id, document_id, number, page_count, payload_path, text, is_current, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
	`, version.ID, version.DocumentID, version.Number, version.PageCount,
		version.PayloadPath, version.Text, version.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving version: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (id, version_id, number, text, lang)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, page := range pages {
		if _, err := stmt.ExecContext(ctx, page.ID, page.VersionID, page.Number, page.Text, page.Lang); err != nil {
			return fmt.Errorf("saving page %d: %w", page.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetVersion retrieves a version by ID.
func (s *documentStore) GetVersion(ctx context.Context, id string) (*domain.DocumentVersion, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, number, page_count, payload_path, text, is_current, created_at
		FROM document_versions WHERE id = ?
	`, id)

	version, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning version: %w", err)
	}
	return version, nil
}

// CurrentVersion returns the document's current version.
func (s *documentStore) CurrentVersion(ctx context.Context, documentID string) (*domain.DocumentVersion, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, number, page_count, payload_path, text, is_current, created_at
		FROM document_versions WHERE document_id = ? AND is_current = 1
	`, documentID)

	version, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning version: %w", err)
	}
	return version, nil
}

// ListVersions returns all versions of a document, oldest first.
func (s *documentStore) ListVersions(ctx context.Context, documentID string) ([]domain.DocumentVersion, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, number, page_count, payload_path, text, is_current, created_at
		FROM document_versions WHERE document_id = ?
		ORDER BY number
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.DocumentVersion //nolint:prealloc // size unknown from query
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		versions = append(versions, *version)
	}
	return versions, rows.Err()
}

// SetCurrentVersion flips the current pointer from expectedCurrentID to
// versionID in a single transaction. The conditional update doubles as an
// optimistic concurrency check: if another edit committed first, the
// expected version is no longer current and no rows change.
func (s *documentStore) SetCurrentVersion(ctx context.Context, documentID, versionID, expectedCurrentID string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	row := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM document_versions WHERE id = ? AND document_id = ?",
		versionID, documentID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("checking version: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}

	var currentID string
	row = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(id), '') FROM document_versions WHERE document_id = ? AND is_current = 1",
		documentID)
	if err := row.Scan(&currentID); err != nil {
		return fmt.Errorf("checking current version: %w", err)
	}
	if currentID != expectedCurrentID {
		return domain.ErrVersionConflict
	}

	if expectedCurrentID != "" {
		if _, err := tx.ExecContext(ctx,
			"UPDATE document_versions SET is_current = 0 WHERE id = ?", expectedCurrentID); err != nil {
			return fmt.Errorf("archiving version: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE document_versions SET is_current = 1 WHERE id = ?", versionID); err != nil {
		return fmt.Errorf("promoting version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListPages returns a version's pages ordered by page number.
func (s *documentStore) ListPages(ctx context.Context, versionID string) ([]domain.Page, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, version_id, number, text, lang
		FROM pages WHERE version_id = ?
		ORDER BY number
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var pages []domain.Page //nolint:prealloc // size unknown from query
	for rows.Next() {
		var page domain.Page
		if err := rows.Scan(&page.ID, &page.VersionID, &page.Number, &page.Text, &page.Lang); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// GetPage retrieves a page by ID.
func (s *documentStore) GetPage(ctx context.Context, id string) (*domain.Page, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, version_id, number, text, lang FROM pages WHERE id = ?
	`, id)

	var page domain.Page
	if err := row.Scan(&page.ID, &page.VersionID, &page.Number, &page.Text, &page.Lang); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning page: %w", err)
	}
	return &page, nil
}

// GetPages retrieves several pages by ID, in the order requested. Returns
// domain.ErrNotFound if any of them is missing.
func (s *documentStore) GetPages(ctx context.Context, ids []string) ([]domain.Page, error) {
	pages := make([]domain.Page, 0, len(ids))
	for _, id := range ids {
		page, err := s.GetPage(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
			}
			return nil, err
		}
		pages = append(pages, *page)
	}
	return pages, nil
}

// UpdateVersionText stores per-page texts (keyed by page number) and the
// version's aggregate text in one transaction.
func (s *documentStore) UpdateVersionText(ctx context.Context, versionID string, pageTexts map[int]string, aggregate string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		"UPDATE document_versions SET text = ? WHERE id = ?", aggregate, versionID)
	if err != nil {
		return fmt.Errorf("updating version text: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking version update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	stmt, err := tx.PrepareContext(ctx,
		"UPDATE pages SET text = ? WHERE version_id = ? AND number = ?")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for number, text := range pageTexts {
		if _, err := stmt.ExecContext(ctx, text, versionID, number); err != nil {
			return fmt.Errorf("updating page %d text: %w", number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.FolderID, &doc.Title, &doc.Lang,
		&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

func scanVersion(row scanner) (*domain.DocumentVersion, error) {
	var version domain.DocumentVersion
	if err := row.Scan(&version.ID, &version.DocumentID, &version.Number,
		&version.PageCount, &version.PayloadPath, &version.Text,
		&version.IsCurrent, &version.CreatedAt); err != nil {
		return nil, err
	}
	return &version, nil
}
