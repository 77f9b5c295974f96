// ABOUTME: Behavioural tests shared by the SQLite store and the mock store
// ABOUTME: Both implementations must agree on ordering, patching and not-found handling

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// forEachStore runs fn against a fresh instance of every implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newTestStore(t)) })
	t.Run("mock", func(t *testing.T) { fn(t, NewMockStore()) })
}

func TestStore_AppsCRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		require.NoError(t, s.CreateApp(ctx, model.AppShortcut{ID: "b", Name: "Kindle", Target: "kindle://", IconRef: "📚"}))
		require.NoError(t, s.CreateApp(ctx, model.AppShortcut{ID: "a", Name: "Calibre", Target: "/calibre", IsLocalPath: true}))

		apps, err := s.ListApps(ctx)
		require.NoError(t, err)
		require.Len(t, apps, 2)
		assert.Equal(t, "b", apps[0].ID, "insertion order, not id order")
		assert.Equal(t, "a", apps[1].ID)
		assert.True(t, apps[1].IsLocalPath)

		err = s.CreateApp(ctx, model.AppShortcut{ID: "a", Name: "dup", Target: "x"})
		assert.ErrorIs(t, err, ErrDuplicate)

		updated, err := s.UpdateApp(ctx, "b", model.AppPatch{Name: model.Ptr("Kindle Cloud")})
		require.NoError(t, err)
		assert.Equal(t, "Kindle Cloud", updated.Name)
		assert.Equal(t, "kindle://", updated.Target)

		got, err := s.GetApp(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		apps, err = s.ListApps(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b", apps[0].ID, "update keeps position")

		require.NoError(t, s.DeleteApp(ctx, "a"))
		_, err = s.GetApp(ctx, "a")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteApp(ctx, "a"), ErrNotFound)

		_, err = s.UpdateApp(ctx, "missing", model.AppPatch{Name: model.Ptr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_BooksRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		added := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
		book := model.BookEntry{
			ID:         "1",
			Title:      "Dune",
			Author:     "Frank Herbert",
			OpenTarget: model.OpenTarget{Mode: model.OpenWithApp, AppID: "app-1"},
			Progress:   model.Ptr(30),
			AddedAt:    added,
			Genre:      "SF",
			Tags:       []string{"classic"},
			Rating:     model.Ptr(5),
		}
		require.NoError(t, s.CreateBook(ctx, book))

		got, err := s.GetBook(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, book, got)

		opened := added.Add(time.Hour)
		updated, err := s.UpdateBook(ctx, "1", model.BookPatch{LastOpenedAt: &opened, Rating: model.Ptr(0)})
		require.NoError(t, err)
		require.NotNil(t, updated.LastOpenedAt)
		assert.True(t, opened.Equal(*updated.LastOpenedAt))
		assert.Nil(t, updated.Rating, "rating 0 clears it")
		assert.Equal(t, added, updated.AddedAt)

		books, err := s.ListBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Nil(t, books[0].Rating)

		require.NoError(t, s.DeleteBook(ctx, "1"))
		_, err = s.GetBook(ctx, "1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Secrets(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		entry := model.SecretEntry{ID: "s1", Name: "Diary", Target: "/diary", Kind: model.SecretApp, IconRef: model.DefaultSecretIcon}
		require.NoError(t, s.CreateSecret(ctx, entry))

		updated, err := s.UpdateSecret(ctx, "s1", model.SecretPatch{Name: model.Ptr("Journal")})
		require.NoError(t, err)
		assert.Equal(t, "Journal", updated.Name)
		assert.Equal(t, model.SecretApp, updated.Kind)

		secrets, err := s.ListSecrets(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.SecretEntry{updated}, secrets)

		require.NoError(t, s.DeleteSecret(ctx, "s1"))
		_, err = s.GetSecret(ctx, "s1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Settings(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		settings, err := s.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultSettings(), settings)

		settings, err = s.UpdateSettings(ctx, model.SettingsPatch{
			ThemeID:     model.Ptr("ocean"),
			AppIconSize: model.Ptr(500),
			LockCode:    model.Ptr("1234"),
			IsLocked:    model.Ptr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "ocean", settings.ThemeID)
		assert.Equal(t, model.MaxAppIconSize, settings.AppIconSize, "clamped")
		assert.Equal(t, "1234", settings.LockCode)

		again, err := s.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, settings, again)

		settings, err = s.UpdateSettings(ctx, model.SettingsPatch{LockCode: model.Ptr("")})
		require.NoError(t, err)
		assert.False(t, settings.HasLockCode())
		assert.False(t, settings.IsLocked, "no code means not locked")
	})
}

func TestStore_ReplaceState(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.CreateApp(ctx, model.AppShortcut{ID: "old", Name: "Old", Target: "x"}))

		seed := model.DefaultSnapshot(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		seed.Secrets = []model.SecretEntry{{ID: "s", Name: "Hidden", Target: "https://h", Kind: model.SecretLink, IconRef: "🔒"}}
		seed.Notes = []model.Note{{ID: "n", Title: "Reading list", CreatedAt: seed.Books[0].AddedAt, UpdatedAt: seed.Books[0].AddedAt}}
		require.NoError(t, s.ReplaceState(ctx, seed))

		snap, err := s.GetState(ctx)
		require.NoError(t, err)
		assert.Equal(t, seed.Apps, snap.Apps)
		assert.Equal(t, seed.Books, snap.Books)
		assert.Equal(t, seed.Secrets, snap.Secrets)
		assert.Equal(t, seed.Notes, snap.Notes)
		assert.Equal(t, seed.Settings, snap.Settings)

		_, err = s.GetApp(ctx, "old")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.ReplaceState(ctx, model.Snapshot{Settings: model.DefaultSettings()}))
		snap, err = s.GetState(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Apps)
		assert.Empty(t, snap.Books)
		assert.NotNil(t, snap.Apps)
	})
}

func TestStore_Notes(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

		notes, err := s.ListNotes(ctx)
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)

		require.NoError(t, s.CreateNote(ctx, model.Note{ID: "n2", Title: "Later", CreatedAt: at, UpdatedAt: at}))
		require.NoError(t, s.CreateNote(ctx, model.Note{ID: "n1", Title: "Sooner", Content: "<p>hi</p>", CreatedAt: at, UpdatedAt: at}))
		assert.ErrorIs(t, s.CreateNote(ctx, model.Note{ID: "n1", Title: "dup"}), ErrDuplicate)

		later := at.Add(time.Hour)
		updated, err := s.UpdateNote(ctx, "n1", model.NotePatch{Content: model.Ptr("<p>bye</p>"), UpdatedAt: &later})
		require.NoError(t, err)
		assert.Equal(t, "Sooner", updated.Title)
		assert.Equal(t, "<p>bye</p>", updated.Content)
		assert.True(t, later.Equal(updated.UpdatedAt))

		got, err := s.GetNote(ctx, "n1")
		require.NoError(t, err)
		assert.Equal(t, "<p>bye</p>", got.Content)
		assert.True(t, at.Equal(got.CreatedAt))

		notes, err = s.ListNotes(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "n2", notes[0].ID, "insertion order")

		require.NoError(t, s.DeleteNote(ctx, "n2"))
		assert.ErrorIs(t, s.DeleteNote(ctx, "n2"), ErrNotFound)
		_, err = s.UpdateNote(ctx, "n2", model.NotePatch{Title: model.Ptr("x")})
		assert.ErrorIs(t, err, ErrNotFound)

		snap, err := s.GetState(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Notes, 1)
		assert.Equal(t, "n1", snap.Notes[0].ID)
	})
}

func TestStore_Files(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		created := time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)
		f := &File{ID: "abc", Name: "cover.png", ContentType: "image/png", Size: 42, Path: "/files/abc", CreatedAt: created}
		require.NoError(t, s.SaveFile(ctx, f))
		require.NoError(t, s.SaveFile(ctx, &File{ID: "abc", Name: "renamed.png", ContentType: "image/png", Size: 42, Path: "/files/abc", CreatedAt: created}))

		got, err := s.GetFile(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "cover.png", got.Name, "first record wins")
		assert.Equal(t, int64(42), got.Size)
		assert.True(t, created.Equal(got.CreatedAt))

		_, err = s.GetFile(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMockStore_Err(t *testing.T) {
	s := NewMockStore()
	boom := errors.New("disk on fire")
	s.Err = boom

	_, err := s.GetState(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.CreateApp(context.Background(), model.AppShortcut{ID: "x"}), boom)
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	assert.FileExists(t, dbPath)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.CreateBook(ctx, model.BookEntry{ID: "1", Title: "1984", Author: "George Orwell"}))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer second.Close()

	book, err := second.GetBook(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1984", book.Title)
}
