// ABOUTME: Note collection accessors on the Store, mirroring the app and secret ones
// ABOUTME: New notes get both timestamps from the store clock when they carry none

package entity

import "github.com/moullakill/bookos-dream-launcher/internal/model"

// Notes returns a copy of the notes in insertion order.
func (s *Store) Notes() []model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.list(identity[model.Note])
}

// Note returns the note with the given id.
func (s *Store) Note(id string) (model.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notes.get(id)
}

// CreateNote inserts a new note, assigning an id and timestamps when absent.
func (s *Store) CreateNote(n model.Note) model.Note {
	s.mu.Lock()
	if n.ID == "" {
		n.ID = s.newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.CreatedAt
	}
	s.notes.put(n)
	s.mu.Unlock()

	s.emit(Event{Kind: EventCreate, Collection: model.CollectionNotes, ID: n.ID})
	return n
}

// PutNote inserts or replaces a note by id.
func (s *Store) PutNote(n model.Note) {
	s.mu.Lock()
	replaced := s.notes.put(n)
	s.mu.Unlock()

	s.emit(Event{Kind: putKind(replaced), Collection: model.CollectionNotes, ID: n.ID})
}

// UpdateNote applies a patch. It returns false, after logging, when id is absent.
func (s *Store) UpdateNote(id string, p model.NotePatch) bool {
	s.mu.Lock()
	cur, ok := s.notes.get(id)
	if ok {
		s.notes.put(p.Apply(cur))
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("update of unknown note ignored", "id", id)
		return false
	}
	s.emit(Event{Kind: EventUpdate, Collection: model.CollectionNotes, ID: id})
	return true
}

// DeleteNote removes a note. Deleting a missing id is a no-op.
func (s *Store) DeleteNote(id string) {
	s.mu.Lock()
	removed := s.notes.remove(id)
	s.mu.Unlock()

	if removed {
		s.emit(Event{Kind: EventDelete, Collection: model.CollectionNotes, ID: id})
	}
}
