// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Entities are JSON documents kept in insertion order, with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS apps (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS secrets (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS files (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size INTEGER NOT NULL,
			path TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// docTable stores one entity type as JSON documents. name is always one of
// the constant table names below.
type docTable[T any] struct {
	name string
	id   func(T) string
}

var (
	appsTable    = docTable[model.AppShortcut]{name: "apps", id: func(a model.AppShortcut) string { return a.ID }}
	booksTable   = docTable[model.BookEntry]{name: "books", id: func(b model.BookEntry) string { return b.ID }}
	secretsTable = docTable[model.SecretEntry]{name: "secrets", id: func(e model.SecretEntry) string { return e.ID }}
	notesTable   = docTable[model.Note]{name: "notes", id: func(n model.Note) string { return n.ID }}
)

func (t docTable[T]) list(ctx context.Context, q querier) ([]T, error) {
	rows, err := q.QueryContext(ctx, `SELECT data FROM `+t.name+` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.name, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.name, err)
		}
		var v T
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, fmt.Errorf("decoding %s row: %w", t.name, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", t.name, err)
	}
	return out, nil
}

func (t docTable[T]) get(ctx context.Context, q querier, id string) (T, error) {
	var v T
	var data string
	err := q.QueryRowContext(ctx, `SELECT data FROM `+t.name+` WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	if err != nil {
		return v, fmt.Errorf("querying %s: %w", t.name, err)
	}
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return v, fmt.Errorf("decoding %s row: %w", t.name, err)
	}
	return v, nil
}

func (t docTable[T]) insert(ctx context.Context, q querier, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s row: %w", t.name, err)
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO `+t.name+` (id, data, created_at) VALUES (?, ?, ?)`,
		t.id(v), string(data), time.Now().UTC())
	if isConstraintViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", t.name, err)
	}
	return nil
}

func (t docTable[T]) update(ctx context.Context, q querier, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s row: %w", t.name, err)
	}
	result, err := q.ExecContext(ctx, `UPDATE `+t.name+` SET data = ? WHERE id = ?`, string(data), t.id(v))
	if err != nil {
		return fmt.Errorf("updating %s: %w", t.name, err)
	}
	return requireRow(result)
}

func (t docTable[T]) delete(ctx context.Context, q querier, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM `+t.name+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.name, err)
	}
	return requireRow(result)
}

func (t docTable[T]) replace(ctx context.Context, q querier, items []T) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM `+t.name); err != nil {
		return fmt.Errorf("clearing %s: %w", t.name, err)
	}
	for _, v := range items {
		if err := t.insert(ctx, q, v); err != nil {
			return err
		}
	}
	return nil
}

// patch reads, transforms and writes back one row inside a transaction.
func patch[T any](ctx context.Context, s *SQLiteStore, t docTable[T], id string, apply func(T) T) (T, error) {
	var out T
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		current, err := t.get(ctx, tx, id)
		if err != nil {
			return err
		}
		out = apply(current)
		return t.update(ctx, tx, out)
	})
	return out, err
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetState returns every collection in one read transaction.
func (s *SQLiteStore) GetState(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if snap.Apps, err = appsTable.list(ctx, tx); err != nil {
			return err
		}
		if snap.Books, err = booksTable.list(ctx, tx); err != nil {
			return err
		}
		if snap.Secrets, err = secretsTable.list(ctx, tx); err != nil {
			return err
		}
		if snap.Notes, err = notesTable.list(ctx, tx); err != nil {
			return err
		}
		snap.Settings, err = getSettings(ctx, tx)
		return err
	})
	return snap, err
}

// ReplaceState overwrites every collection in one transaction.
func (s *SQLiteStore) ReplaceState(ctx context.Context, snap model.Snapshot) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := appsTable.replace(ctx, tx, snap.Apps); err != nil {
			return err
		}
		if err := booksTable.replace(ctx, tx, snap.Books); err != nil {
			return err
		}
		if err := secretsTable.replace(ctx, tx, snap.Secrets); err != nil {
			return err
		}
		if err := notesTable.replace(ctx, tx, snap.Notes); err != nil {
			return err
		}
		return putSettings(ctx, tx, snap.Settings.Normalize())
	})
	if err != nil {
		return err
	}
	s.logger.Debug("replaced state", "apps", len(snap.Apps), "books", len(snap.Books), "secrets", len(snap.Secrets), "notes", len(snap.Notes))
	return nil
}

// ListApps returns the apps in insertion order.
func (s *SQLiteStore) ListApps(ctx context.Context) ([]model.AppShortcut, error) {
	return appsTable.list(ctx, s.db)
}

// GetApp returns one app or ErrNotFound.
func (s *SQLiteStore) GetApp(ctx context.Context, id string) (model.AppShortcut, error) {
	return appsTable.get(ctx, s.db, id)
}

// CreateApp stores a new app. The id must already be assigned.
func (s *SQLiteStore) CreateApp(ctx context.Context, a model.AppShortcut) error {
	return appsTable.insert(ctx, s.db, a)
}

// UpdateApp applies p to an app and returns the result.
func (s *SQLiteStore) UpdateApp(ctx context.Context, id string, p model.AppPatch) (model.AppShortcut, error) {
	return patch(ctx, s, appsTable, id, p.Apply)
}

// DeleteApp removes an app.
func (s *SQLiteStore) DeleteApp(ctx context.Context, id string) error {
	return appsTable.delete(ctx, s.db, id)
}

// ListBooks returns the books in insertion order.
func (s *SQLiteStore) ListBooks(ctx context.Context) ([]model.BookEntry, error) {
	return booksTable.list(ctx, s.db)
}

// GetBook returns one book or ErrNotFound.
func (s *SQLiteStore) GetBook(ctx context.Context, id string) (model.BookEntry, error) {
	return booksTable.get(ctx, s.db, id)
}

// CreateBook stores a new book.
func (s *SQLiteStore) CreateBook(ctx context.Context, b model.BookEntry) error {
	return booksTable.insert(ctx, s.db, b)
}

// UpdateBook applies p to a book and returns the result.
func (s *SQLiteStore) UpdateBook(ctx context.Context, id string, p model.BookPatch) (model.BookEntry, error) {
	return patch(ctx, s, booksTable, id, p.Apply)
}

// DeleteBook removes a book.
func (s *SQLiteStore) DeleteBook(ctx context.Context, id string) error {
	return booksTable.delete(ctx, s.db, id)
}

// ListSecrets returns the vault entries in insertion order.
func (s *SQLiteStore) ListSecrets(ctx context.Context) ([]model.SecretEntry, error) {
	return secretsTable.list(ctx, s.db)
}

// GetSecret returns one vault entry or ErrNotFound.
func (s *SQLiteStore) GetSecret(ctx context.Context, id string) (model.SecretEntry, error) {
	return secretsTable.get(ctx, s.db, id)
}

// CreateSecret stores a new vault entry.
func (s *SQLiteStore) CreateSecret(ctx context.Context, e model.SecretEntry) error {
	return secretsTable.insert(ctx, s.db, e)
}

// UpdateSecret applies p to a vault entry and returns the result.
func (s *SQLiteStore) UpdateSecret(ctx context.Context, id string, p model.SecretPatch) (model.SecretEntry, error) {
	return patch(ctx, s, secretsTable, id, p.Apply)
}

// DeleteSecret removes a vault entry.
func (s *SQLiteStore) DeleteSecret(ctx context.Context, id string) error {
	return secretsTable.delete(ctx, s.db, id)
}

// ListNotes returns the notes in insertion order.
func (s *SQLiteStore) ListNotes(ctx context.Context) ([]model.Note, error) {
	return notesTable.list(ctx, s.db)
}

// GetNote returns one note or ErrNotFound.
func (s *SQLiteStore) GetNote(ctx context.Context, id string) (model.Note, error) {
	return notesTable.get(ctx, s.db, id)
}

// CreateNote stores a new note.
func (s *SQLiteStore) CreateNote(ctx context.Context, n model.Note) error {
	return notesTable.insert(ctx, s.db, n)
}

// UpdateNote applies p to a note and returns the result.
func (s *SQLiteStore) UpdateNote(ctx context.Context, id string, p model.NotePatch) (model.Note, error) {
	return patch(ctx, s, notesTable, id, p.Apply)
}

// DeleteNote removes a note.
func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	return notesTable.delete(ctx, s.db, id)
}

// GetSettings returns the saved settings, or the defaults.
func (s *SQLiteStore) GetSettings(ctx context.Context) (model.Settings, error) {
	return getSettings(ctx, s.db)
}

// UpdateSettings applies p to the settings and returns the normalized result.
func (s *SQLiteStore) UpdateSettings(ctx context.Context, p model.SettingsPatch) (model.Settings, error) {
	var out model.Settings
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		current, err := getSettings(ctx, tx)
		if err != nil {
			return err
		}
		out = p.Apply(current)
		return putSettings(ctx, tx, out)
	})
	return out, err
}

func getSettings(ctx context.Context, q querier) (model.Settings, error) {
	var data string
	err := q.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("querying settings: %w", err)
	}
	var settings model.Settings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return model.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return settings, nil
}

func putSettings(ctx context.Context, q querier, settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// SaveFile records file metadata.
func (s *SQLiteStore) SaveFile(ctx context.Context, f *File) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (id, name, content_type, size, path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, f.ID, f.Name, f.ContentType, f.Size, f.Path, f.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	s.logger.Debug("saved file", "id", f.ID, "name", f.Name, "size", f.Size)
	return nil
}

// GetFile returns file metadata or ErrNotFound.
func (s *SQLiteStore) GetFile(ctx context.Context, id string) (*File, error) {
	var f File
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, content_type, size, path, created_at FROM files WHERE id = ?
	`, id).Scan(&f.ID, &f.Name, &f.ContentType, &f.Size, &f.Path, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying file: %w", err)
	}
	return &f, nil
}
