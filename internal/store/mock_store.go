// ABOUTME: Mock Store implementation for testing
// ABOUTME: Backed by the client entity store so handler tests run without SQLite

package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/moullakill/bookos-dream-launcher/internal/entity"
	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu    sync.Mutex // serializes check-then-write sequences
	state *entity.Store
	files map[string]*File

	// Err, when set, is returned by every call.
	Err error
}

var _ Store = (*MockStore)(nil)

// NewMockStore creates a new MockStore holding default settings.
func NewMockStore() *MockStore {
	return &MockStore{
		state: entity.New(slog.New(slog.DiscardHandler)),
		files: make(map[string]*File),
	}
}

// GetState returns every collection.
func (m *MockStore) GetState(context.Context) (model.Snapshot, error) {
	if m.Err != nil {
		return model.Snapshot{}, m.Err
	}
	snap := m.state.Snapshot()
	if snap.Secrets == nil {
		snap.Secrets = []model.SecretEntry{}
	}
	if snap.Notes == nil {
		snap.Notes = []model.Note{}
	}
	return snap, nil
}

// ReplaceState overwrites every collection.
func (m *MockStore) ReplaceState(_ context.Context, snap model.Snapshot) error {
	if m.Err != nil {
		return m.Err
	}
	m.state.ReplaceAll(snap)
	return nil
}

// ListApps returns the apps in insertion order.
func (m *MockStore) ListApps(context.Context) ([]model.AppShortcut, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.state.Apps(), nil
}

// GetApp returns one app or ErrNotFound.
func (m *MockStore) GetApp(_ context.Context, id string) (model.AppShortcut, error) {
	if m.Err != nil {
		return model.AppShortcut{}, m.Err
	}
	return found(m.state.App(id))
}

// CreateApp stores a new app.
func (m *MockStore) CreateApp(_ context.Context, a model.AppShortcut) error {
	return m.create(func() bool { _, ok := m.state.App(a.ID); return ok }, func() { m.state.PutApp(a) })
}

// UpdateApp applies p to an app.
func (m *MockStore) UpdateApp(_ context.Context, id string, p model.AppPatch) (model.AppShortcut, error) {
	if err := m.update(func() bool { return m.state.UpdateApp(id, p) }); err != nil {
		return model.AppShortcut{}, err
	}
	return found(m.state.App(id))
}

// DeleteApp removes an app.
func (m *MockStore) DeleteApp(_ context.Context, id string) error {
	return m.delete(func() bool { _, ok := m.state.App(id); return ok }, func() { m.state.DeleteApp(id) })
}

// ListBooks returns the books in insertion order.
func (m *MockStore) ListBooks(context.Context) ([]model.BookEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.state.Books(), nil
}

// GetBook returns one book or ErrNotFound.
func (m *MockStore) GetBook(_ context.Context, id string) (model.BookEntry, error) {
	if m.Err != nil {
		return model.BookEntry{}, m.Err
	}
	return found(m.state.Book(id))
}

// CreateBook stores a new book.
func (m *MockStore) CreateBook(_ context.Context, b model.BookEntry) error {
	return m.create(func() bool { _, ok := m.state.Book(b.ID); return ok }, func() { m.state.PutBook(b) })
}

// UpdateBook applies p to a book.
func (m *MockStore) UpdateBook(_ context.Context, id string, p model.BookPatch) (model.BookEntry, error) {
	if err := m.update(func() bool { return m.state.UpdateBook(id, p) }); err != nil {
		return model.BookEntry{}, err
	}
	return found(m.state.Book(id))
}

// DeleteBook removes a book.
func (m *MockStore) DeleteBook(_ context.Context, id string) error {
	return m.delete(func() bool { _, ok := m.state.Book(id); return ok }, func() { m.state.DeleteBook(id) })
}

// ListSecrets returns the vault entries in insertion order.
func (m *MockStore) ListSecrets(context.Context) ([]model.SecretEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.state.Secrets(), nil
}

// GetSecret returns one vault entry or ErrNotFound.
func (m *MockStore) GetSecret(_ context.Context, id string) (model.SecretEntry, error) {
	if m.Err != nil {
		return model.SecretEntry{}, m.Err
	}
	return found(m.state.Secret(id))
}

// CreateSecret stores a new vault entry.
func (m *MockStore) CreateSecret(_ context.Context, e model.SecretEntry) error {
	return m.create(func() bool { _, ok := m.state.Secret(e.ID); return ok }, func() { m.state.PutSecret(e) })
}

// UpdateSecret applies p to a vault entry.
func (m *MockStore) UpdateSecret(_ context.Context, id string, p model.SecretPatch) (model.SecretEntry, error) {
	if err := m.update(func() bool { return m.state.UpdateSecret(id, p) }); err != nil {
		return model.SecretEntry{}, err
	}
	return found(m.state.Secret(id))
}

// DeleteSecret removes a vault entry.
func (m *MockStore) DeleteSecret(_ context.Context, id string) error {
	return m.delete(func() bool { _, ok := m.state.Secret(id); return ok }, func() { m.state.DeleteSecret(id) })
}

// ListNotes returns the notes in insertion order.
func (m *MockStore) ListNotes(context.Context) ([]model.Note, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	notes := m.state.Notes()
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

// GetNote returns one note or ErrNotFound.
func (m *MockStore) GetNote(_ context.Context, id string) (model.Note, error) {
	if m.Err != nil {
		return model.Note{}, m.Err
	}
	return found(m.state.Note(id))
}

// CreateNote stores a new note.
func (m *MockStore) CreateNote(_ context.Context, n model.Note) error {
	return m.create(func() bool { _, ok := m.state.Note(n.ID); return ok }, func() { m.state.PutNote(n) })
}

// UpdateNote applies p to a note.
func (m *MockStore) UpdateNote(_ context.Context, id string, p model.NotePatch) (model.Note, error) {
	if err := m.update(func() bool { return m.state.UpdateNote(id, p) }); err != nil {
		return model.Note{}, err
	}
	return found(m.state.Note(id))
}

// DeleteNote removes a note.
func (m *MockStore) DeleteNote(_ context.Context, id string) error {
	return m.delete(func() bool { _, ok := m.state.Note(id); return ok }, func() { m.state.DeleteNote(id) })
}

// GetSettings returns the settings.
func (m *MockStore) GetSettings(context.Context) (model.Settings, error) {
	if m.Err != nil {
		return model.Settings{}, m.Err
	}
	return m.state.Settings(), nil
}

// UpdateSettings applies p to the settings.
func (m *MockStore) UpdateSettings(_ context.Context, p model.SettingsPatch) (model.Settings, error) {
	if m.Err != nil {
		return model.Settings{}, m.Err
	}
	return m.state.UpdateSettings(p), nil
}

// SaveFile records file metadata, keeping the first record for an id.
func (m *MockStore) SaveFile(_ context.Context, f *File) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[f.ID]; !ok {
		cp := *f
		m.files[f.ID] = &cp
	}
	return nil
}

// GetFile returns file metadata or ErrNotFound.
func (m *MockStore) GetFile(_ context.Context, id string) (*File, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

// Close does nothing.
func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) create(exists func() bool, put func()) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if exists() {
		return ErrDuplicate
	}
	put()
	return nil
}

func (m *MockStore) update(apply func() bool) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !apply() {
		return ErrNotFound
	}
	return nil
}

func (m *MockStore) delete(exists func() bool, remove func()) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !exists() {
		return ErrNotFound
	}
	remove()
	return nil
}

func found[T any](v T, ok bool) (T, error) {
	if !ok {
		return v, ErrNotFound
	}
	return v, nil
}
