// ABOUTME: Store interface and file metadata for the reference server
// ABOUTME: Shared by the SQLite implementation and the in-memory mock

package store

import (
	"context"
	"errors"
	"time"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = model.ErrNotFound

// ErrDuplicate is returned when creating an entity whose id already exists
var ErrDuplicate = errors.New("already exists")

// File describes an uploaded file. Its bytes live at Path.
type File struct {
	ID          string
	Name        string
	ContentType string
	Size        int64
	Path        string
	CreatedAt   time.Time
}

// Store is the persistence used by the HTTP handlers.
type Store interface {
	// GetState returns every collection. Settings default when never saved.
	GetState(ctx context.Context) (model.Snapshot, error)
	// ReplaceState overwrites every collection atomically.
	ReplaceState(ctx context.Context, snap model.Snapshot) error

	ListApps(ctx context.Context) ([]model.AppShortcut, error)
	GetApp(ctx context.Context, id string) (model.AppShortcut, error)
	CreateApp(ctx context.Context, a model.AppShortcut) error
	UpdateApp(ctx context.Context, id string, p model.AppPatch) (model.AppShortcut, error)
	DeleteApp(ctx context.Context, id string) error

	ListBooks(ctx context.Context) ([]model.BookEntry, error)
	GetBook(ctx context.Context, id string) (model.BookEntry, error)
	CreateBook(ctx context.Context, b model.BookEntry) error
	UpdateBook(ctx context.Context, id string, p model.BookPatch) (model.BookEntry, error)
	DeleteBook(ctx context.Context, id string) error

	ListSecrets(ctx context.Context) ([]model.SecretEntry, error)
	GetSecret(ctx context.Context, id string) (model.SecretEntry, error)
	CreateSecret(ctx context.Context, e model.SecretEntry) error
	UpdateSecret(ctx context.Context, id string, p model.SecretPatch) (model.SecretEntry, error)
	DeleteSecret(ctx context.Context, id string) error

	ListNotes(ctx context.Context) ([]model.Note, error)
	GetNote(ctx context.Context, id string) (model.Note, error)
	CreateNote(ctx context.Context, n model.Note) error
	UpdateNote(ctx context.Context, id string, p model.NotePatch) (model.Note, error)
	DeleteNote(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (model.Settings, error)
	UpdateSettings(ctx context.Context, p model.SettingsPatch) (model.Settings, error)

	// SaveFile records file metadata. Saving an existing id keeps the first record.
	SaveFile(ctx context.Context, f *File) error
	GetFile(ctx context.Context, id string) (*File, error)

	Close() error
}
