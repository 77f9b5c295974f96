// ABOUTME: Store is the single in-memory source of truth for apps, books, secrets, notes and settings
// ABOUTME: Copies in and out, emits change events without blocking, never surfaces update misses

package entity

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// EventKind describes what happened to an entity.
type EventKind string

// Event kinds
const (
	EventCreate  EventKind = "create"
	EventUpdate  EventKind = "update"
	EventDelete  EventKind = "delete"
	EventReplace EventKind = "replace"
)

// Event is emitted after every mutation. ID is empty for replace events and
// for settings updates.
type Event struct {
	Kind       EventKind
	Collection model.Collection
	ID         string
}

const eventBufferSize = 64

// Store holds the launcher state. The zero value is not usable; call New.
type Store struct {
	mu       sync.RWMutex
	apps     *table[model.AppShortcut]
	books    *table[model.BookEntry]
	secrets  *table[model.SecretEntry]
	notes    *table[model.Note]
	settings model.Settings

	events chan Event
	newID  func() string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the id source used for entities created without one.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the clock used to stamp new books and notes.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// New creates an empty store holding default settings.
func New(logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		apps:     newTable(func(a model.AppShortcut) string { return a.ID }),
		books:    newTable(func(b model.BookEntry) string { return b.ID }),
		secrets:  newTable(func(e model.SecretEntry) string { return e.ID }),
		notes:    newTable(func(n model.Note) string { return n.ID }),
		settings: model.DefaultSettings(),
		events:   make(chan Event, eventBufferSize),
		newID:    NewLocalID,
		now:      time.Now,
		logger:   logger.With("component", "entity"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewLocalID returns a time-ordered identifier for entities created without
// the remote service.
func NewLocalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Events returns the change notification channel.
func (s *Store) Events() <-chan Event {
	return s.events
}

func (s *Store) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Debug("event buffer full, dropping event",
			"kind", ev.Kind, "collection", ev.Collection, "id", ev.ID)
	}
}

// Apps returns a copy of the app collection in insertion order.
func (s *Store) Apps() []model.AppShortcut {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apps.list(identity[model.AppShortcut])
}

// App returns the app with the given id.
func (s *Store) App(id string) (model.AppShortcut, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apps.get(id)
}

// CreateApp inserts a new app, assigning an id when absent.
func (s *Store) CreateApp(a model.AppShortcut) model.AppShortcut {
	s.mu.Lock()
	if a.ID == "" {
		a.ID = s.newID()
	}
	s.apps.put(a)
	s.mu.Unlock()

	s.emit(Event{Kind: EventCreate, Collection: model.CollectionApps, ID: a.ID})
	return a
}

// PutApp inserts or replaces an app by id.
func (s *Store) PutApp(a model.AppShortcut) {
	s.mu.Lock()
	replaced := s.apps.put(a)
	s.mu.Unlock()

	s.emit(Event{Kind: putKind(replaced), Collection: model.CollectionApps, ID: a.ID})
}

// UpdateApp applies a patch. It returns false, after logging, when id is absent.
func (s *Store) UpdateApp(id string, p model.AppPatch) bool {
	s.mu.Lock()
	cur, ok := s.apps.get(id)
	if ok {
		s.apps.put(p.Apply(cur))
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("update of unknown app ignored", "id", id)
		return false
	}
	s.emit(Event{Kind: EventUpdate, Collection: model.CollectionApps, ID: id})
	return true
}

// DeleteApp removes an app. Deleting a missing id is a no-op.
func (s *Store) DeleteApp(id string) {
	s.mu.Lock()
	removed := s.apps.remove(id)
	s.mu.Unlock()

	if removed {
		s.emit(Event{Kind: EventDelete, Collection: model.CollectionApps, ID: id})
	}
}

// Books returns a deep copy of the book collection in insertion order.
func (s *Store) Books() []model.BookEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.books.list(model.BookEntry.Clone)
}

// Book returns a copy of the book with the given id.
func (s *Store) Book(id string) (model.BookEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books.get(id)
	if !ok {
		return model.BookEntry{}, false
	}
	return b.Clone(), true
}

// CreateBook inserts a new book, assigning an id and addedAt when absent.
func (s *Store) CreateBook(b model.BookEntry) model.BookEntry {
	b = b.Clone()
	s.mu.Lock()
	if b.ID == "" {
		b.ID = s.newID()
	}
	if b.AddedAt.IsZero() {
		b.AddedAt = s.now().UTC()
	}
	s.books.put(b)
	s.mu.Unlock()

	s.emit(Event{Kind: EventCreate, Collection: model.CollectionBooks, ID: b.ID})
	return b.Clone()
}

// PutBook inserts or replaces a book by id. The stored addedAt is kept when
// the incoming book has none.
func (s *Store) PutBook(b model.BookEntry) {
	b = b.Clone()
	s.mu.Lock()
	if cur, ok := s.books.get(b.ID); ok && b.AddedAt.IsZero() {
		b.AddedAt = cur.AddedAt
	}
	replaced := s.books.put(b)
	s.mu.Unlock()

	s.emit(Event{Kind: putKind(replaced), Collection: model.CollectionBooks, ID: b.ID})
}

// UpdateBook applies a patch. It returns false, after logging, when id is absent.
func (s *Store) UpdateBook(id string, p model.BookPatch) bool {
	s.mu.Lock()
	cur, ok := s.books.get(id)
	if ok {
		s.books.put(p.Apply(cur))
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("update of unknown book ignored", "id", id)
		return false
	}
	s.emit(Event{Kind: EventUpdate, Collection: model.CollectionBooks, ID: id})
	return true
}

// DeleteBook removes a book. Deleting a missing id is a no-op.
func (s *Store) DeleteBook(id string) {
	s.mu.Lock()
	removed := s.books.remove(id)
	s.mu.Unlock()

	if removed {
		s.emit(Event{Kind: EventDelete, Collection: model.CollectionBooks, ID: id})
	}
}

// Secrets returns a copy of the vault in insertion order.
func (s *Store) Secrets() []model.SecretEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secrets.list(identity[model.SecretEntry])
}

// Secret returns the vault entry with the given id.
func (s *Store) Secret(id string) (model.SecretEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secrets.get(id)
}

// CreateSecret inserts a new vault entry, assigning an id when absent.
func (s *Store) CreateSecret(e model.SecretEntry) model.SecretEntry {
	s.mu.Lock()
	if e.ID == "" {
		e.ID = s.newID()
	}
	s.secrets.put(e)
	s.mu.Unlock()

	s.emit(Event{Kind: EventCreate, Collection: model.CollectionSecrets, ID: e.ID})
	return e
}

// PutSecret inserts or replaces a vault entry by id.
func (s *Store) PutSecret(e model.SecretEntry) {
	s.mu.Lock()
	replaced := s.secrets.put(e)
	s.mu.Unlock()

	s.emit(Event{Kind: putKind(replaced), Collection: model.CollectionSecrets, ID: e.ID})
}

// UpdateSecret applies a patch. It returns false, after logging, when id is absent.
func (s *Store) UpdateSecret(id string, p model.SecretPatch) bool {
	s.mu.Lock()
	cur, ok := s.secrets.get(id)
	if ok {
		s.secrets.put(p.Apply(cur))
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("update of unknown secret ignored", "id", id)
		return false
	}
	s.emit(Event{Kind: EventUpdate, Collection: model.CollectionSecrets, ID: id})
	return true
}

// DeleteSecret removes a vault entry. Deleting a missing id is a no-op.
func (s *Store) DeleteSecret(id string) {
	s.mu.Lock()
	removed := s.secrets.remove(id)
	s.mu.Unlock()

	if removed {
		s.emit(Event{Kind: EventDelete, Collection: model.CollectionSecrets, ID: id})
	}
}

// Settings returns the current settings.
func (s *Store) Settings() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings applies a patch and returns the resulting settings.
func (s *Store) UpdateSettings(p model.SettingsPatch) model.Settings {
	s.mu.Lock()
	s.settings = p.Apply(s.settings)
	out := s.settings
	s.mu.Unlock()

	s.emit(Event{Kind: EventUpdate, Collection: model.CollectionSettings})
	return out
}

// SetSettings replaces the settings wholesale.
func (s *Store) SetSettings(v model.Settings) {
	s.mu.Lock()
	s.settings = v.Normalize()
	s.mu.Unlock()

	s.emit(Event{Kind: EventUpdate, Collection: model.CollectionSettings})
}

// ReplaceAll swaps every collection for the contents of snap.
func (s *Store) ReplaceAll(snap model.Snapshot) {
	snap = snap.Clone()
	s.mu.Lock()
	s.apps.reset(snap.Apps)
	s.books.reset(snap.Books)
	s.secrets.reset(snap.Secrets)
	s.notes.reset(snap.Notes)
	s.settings = snap.Settings.Normalize()
	s.mu.Unlock()

	s.logger.Debug("state replaced",
		"apps", len(snap.Apps), "books", len(snap.Books), "secrets", len(snap.Secrets), "notes", len(snap.Notes))
	s.emit(Event{Kind: EventReplace})
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Snapshot{
		Apps:     s.apps.list(identity[model.AppShortcut]),
		Books:    s.books.list(model.BookEntry.Clone),
		Settings: s.settings,
		Secrets:  s.secrets.list(identity[model.SecretEntry]),
		Notes:    s.notes.list(identity[model.Note]),
	}
}

// Counts returns the number of apps, books and secrets.
func (s *Store) Counts() (apps, books, secrets int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apps.len(), s.books.len(), s.secrets.len()
}

func putKind(replaced bool) EventKind {
	if replaced {
		return EventUpdate
	}
	return EventCreate
}

func identity[T any](v T) T { return v }
