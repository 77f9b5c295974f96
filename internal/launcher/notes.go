// ABOUTME: Notes on the controller: create, edit, delete and the most-recent-first listing
// ABOUTME: Timestamps come from the controller clock so offline edits order correctly

package launcher

import (
	"cmp"
	"context"
	"slices"

	"github.com/moullakill/bookos-dream-launcher/internal/entity"
	"github.com/moullakill/bookos-dream-launcher/internal/model"
	"github.com/moullakill/bookos-dream-launcher/internal/remote"
)

// Notes returns the notes, most recently updated first.
func (c *Controller) Notes() []model.Note {
	notes := c.store.Notes()
	slices.SortStableFunc(notes, func(a, b model.Note) int {
		return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano())
	})
	return notes
}

// Note returns the note with the given id.
func (c *Controller) Note(id string) (model.Note, bool) {
	return c.store.Note(id)
}

// AddNote creates a note. A blank title becomes model.DefaultNoteTitle.
func (c *Controller) AddNote(ctx context.Context, n model.Note) (model.Note, error) {
	n = n.WithDefaults()
	if err := n.Validate(); err != nil {
		return model.Note{}, err
	}
	now := c.now().UTC()
	n.CreatedAt, n.UpdatedAt = now, now
	defer c.persist()

	if c.gateway.IsOnline() {
		res := c.gateway.CreateNote(ctx, n)
		if res.OK() {
			c.store.PutNote(res.Data)
			return res.Data, nil
		}
		c.fallback("create note", res.Err)
	}

	n.ID = entity.NewLocalID()
	return c.store.CreateNote(n), nil
}

// UpdateNote edits a note and stamps its update time. An unknown id is
// logged, not returned.
func (c *Controller) UpdateNote(ctx context.Context, id string, p model.NotePatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	now := c.now().UTC()
	p.UpdatedAt = &now

	applyUpdate(ctx, c, entityKey(model.CollectionNotes, id), "update note",
		func(ctx context.Context) remote.Result[model.Note] { return c.gateway.UpdateNote(ctx, id, p) },
		c.store.PutNote,
		func() { c.store.UpdateNote(id, p) })
	return nil
}

// DeleteNote removes a note.
func (c *Controller) DeleteNote(ctx context.Context, id string) {
	c.begin(entityKey(model.CollectionNotes, id))
	defer c.persist()

	if c.gateway.IsOnline() {
		if res := c.gateway.DeleteNote(ctx, id); !res.OK() {
			c.fallback("delete note", res.Err)
		}
	}
	c.store.DeleteNote(id)
}
