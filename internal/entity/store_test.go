// ABOUTME: Tests for the in-memory entity store
// ABOUTME: Covers id assignment, silent update misses, idempotent deletes, replace and events

package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	n := 0
	return New(nil,
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		WithClock(func() time.Time {
			return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		}),
	)
}

func TestStore_CreateAssignsIdentity(t *testing.T) {
	s := newTestStore(t)

	app := s.CreateApp(model.AppShortcut{Name: "Kindle", Target: "https://read.amazon.com"})
	assert.Equal(t, "id-1", app.ID)

	kept := s.CreateApp(model.AppShortcut{ID: "server-7", Name: "Pocket", Target: "https://getpocket.com"})
	assert.Equal(t, "server-7", kept.ID)

	book := s.CreateBook(model.BookEntry{Title: "Dune", Author: "Herbert"})
	assert.Equal(t, "id-2", book.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), book.AddedAt)

	secret := s.CreateSecret(model.SecretEntry{Name: "Bank", Target: "https://bank"})
	assert.Equal(t, "id-3", secret.ID)

	apps, books, secrets := s.Counts()
	assert.Equal(t, 2, apps)
	assert.Equal(t, 1, books)
	assert.Equal(t, 1, secrets)
}

func TestStore_DefaultIDsAreUnique(t *testing.T) {
	s := New(nil)
	a := s.CreateApp(model.AppShortcut{Name: "a", Target: "x"})
	b := s.CreateApp(model.AppShortcut{Name: "b", Target: "y"})
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestStore_UpdateMissingIsSilent(t *testing.T) {
	s := newTestStore(t)

	assert.False(t, s.UpdateApp("nope", model.AppPatch{Name: model.Ptr("x")}))
	assert.False(t, s.UpdateBook("nope", model.BookPatch{Title: model.Ptr("x")}))
	assert.False(t, s.UpdateSecret("nope", model.SecretPatch{Name: model.Ptr("x")}))

	apps, books, secrets := s.Counts()
	assert.Zero(t, apps+books+secrets)
}

func TestStore_UpdateBookKeepsAddedAt(t *testing.T) {
	s := newTestStore(t)
	b := s.CreateBook(model.BookEntry{Title: "Dune", Author: "Herbert"})

	require.True(t, s.UpdateBook(b.ID, model.BookPatch{Progress: model.Ptr(60)}))

	got, ok := s.Book(b.ID)
	require.True(t, ok)
	assert.Equal(t, 60, got.ProgressOrZero())
	assert.Equal(t, b.AddedAt, got.AddedAt)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	a := s.CreateApp(model.AppShortcut{Name: "a", Target: "x"})
	b := s.CreateApp(model.AppShortcut{Name: "b", Target: "y"})
	c := s.CreateApp(model.AppShortcut{Name: "c", Target: "z"})

	s.DeleteApp(b.ID)
	s.DeleteApp(b.ID)
	s.DeleteApp("missing")

	apps := s.Apps()
	require.Len(t, apps, 2)
	assert.Equal(t, a.ID, apps[0].ID)
	assert.Equal(t, c.ID, apps[1].ID)

	got, ok := s.App(c.ID)
	require.True(t, ok, "index must survive removal of an earlier entry")
	assert.Equal(t, "c", got.Name)
}

func TestStore_DanglingReferenceAllowed(t *testing.T) {
	s := newTestStore(t)
	app := s.CreateApp(model.AppShortcut{Name: "Reader", Target: "/reader", IsLocalPath: true})
	book := s.CreateBook(model.BookEntry{
		Title:      "Dune",
		Author:     "Herbert",
		OpenTarget: model.OpenTarget{Mode: model.OpenWithApp, AppID: app.ID},
	})

	s.DeleteApp(app.ID)

	got, ok := s.Book(book.ID)
	require.True(t, ok)
	assert.Equal(t, app.ID, got.AppID)
}

func TestStore_PutUpserts(t *testing.T) {
	s := newTestStore(t)
	b := s.CreateBook(model.BookEntry{Title: "Dune", Author: "Herbert"})

	s.PutBook(model.BookEntry{ID: b.ID, Title: "Dune Messiah", Author: "Herbert"})
	got, _ := s.Book(b.ID)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Equal(t, b.AddedAt, got.AddedAt)

	s.PutSecret(model.SecretEntry{ID: "s1", Name: "n", Target: "t"})
	_, ok := s.Secret("s1")
	assert.True(t, ok)
}

func TestStore_ReadsAreCopies(t *testing.T) {
	s := newTestStore(t)
	b := s.CreateBook(model.BookEntry{Title: "Dune", Author: "Herbert", Progress: model.Ptr(10)})

	books := s.Books()
	*books[0].Progress = 99
	books[0].Title = "mutated"

	got, _ := s.Book(b.ID)
	assert.Equal(t, 10, got.ProgressOrZero())
	assert.Equal(t, "Dune", got.Title)
}

func TestStore_ReplaceAllAndSnapshot(t *testing.T) {
	s := newTestStore(t)
	s.CreateApp(model.AppShortcut{Name: "old", Target: "x"})

	seed := model.DefaultSnapshot(time.Now())
	seed.Settings.BookCardSize = 1000
	s.ReplaceAll(seed)

	snap := s.Snapshot()
	assert.Len(t, snap.Apps, 3)
	assert.Len(t, snap.Books, 1)
	assert.Equal(t, model.MaxBookCardSize, snap.Settings.BookCardSize)

	_, ok := s.App("1")
	assert.True(t, ok)
}

func TestStore_Settings(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, model.DefaultSettings(), s.Settings())

	got := s.UpdateSettings(model.SettingsPatch{ThemeID: model.Ptr("ocean"), LockCode: model.Ptr("1234")})
	assert.Equal(t, "ocean", got.ThemeID)
	assert.True(t, got.HasLockCode())
	assert.Equal(t, got, s.Settings())
}

func TestStore_EventsDoNotBlock(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < eventBufferSize+10; i++ {
		s.CreateApp(model.AppShortcut{Name: "a", Target: "x"})
	}

	first := <-s.Events()
	assert.Equal(t, EventCreate, first.Kind)
	assert.Equal(t, model.CollectionApps, first.Collection)
	assert.Equal(t, "id-1", first.ID)
	assert.Len(t, s.Events(), eventBufferSize-1)
}
