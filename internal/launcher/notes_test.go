// ABOUTME: Tests for notes on the controller, online and offline
// ABOUTME: Covers default titles, timestamps and most-recent-first ordering

package launcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func TestNotes_OfflineLifecycle(t *testing.T) {
	clock := fixedNow
	h := newHarness(t, offline(), nil, Options{Clock: func() time.Time { return clock }})
	ctx := context.Background()

	first, err := h.ctl.AddNote(ctx, model.Note{Title: "  ", Content: "<p>milk</p>"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultNoteTitle, first.Title)
	assert.Equal(t, fixedNow, first.CreatedAt)
	assert.NotEmpty(t, first.ID)

	clock = clock.Add(time.Minute)
	second, err := h.ctl.AddNote(ctx, model.Note{Title: "Quotes"})
	require.NoError(t, err)

	notes := h.ctl.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID, "newest first")

	clock = clock.Add(time.Minute)
	require.NoError(t, h.ctl.UpdateNote(ctx, first.ID, model.NotePatch{Content: model.Ptr("<p>eggs</p>")}))
	notes = h.ctl.Notes()
	assert.Equal(t, first.ID, notes[0].ID, "an edit moves the note to the top")
	assert.Equal(t, clock, notes[0].UpdatedAt)
	assert.Equal(t, fixedNow, notes[0].CreatedAt)

	h.ctl.DeleteNote(ctx, second.ID)
	assert.Len(t, h.ctl.Notes(), 1)
	assert.Len(t, h.cache.Load().Notes, 1)
}

func TestNotes_OnlineUsesServerIDs(t *testing.T) {
	gw := online()
	h := newHarness(t, gw, nil, Options{})
	ctx := context.Background()

	n, err := h.ctl.AddNote(ctx, model.Note{Title: "Plan"})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", n.ID)

	require.NoError(t, h.ctl.UpdateNote(ctx, n.ID, model.NotePatch{Title: model.Ptr("Plan B")}))
	got, ok := h.ctl.Note(n.ID)
	require.True(t, ok)
	assert.Equal(t, "Plan B", got.Title)

	h.ctl.DeleteNote(ctx, n.ID)
	assert.Equal(t, []string{"FetchState", "CreateNote", "UpdateNote", "DeleteNote"}, gw.Calls())
}
