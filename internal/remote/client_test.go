// ABOUTME: Tests for the remote service client against httptest servers
// ABOUTME: Covers result normalization, the online flag asymmetry, tokens and uploads

package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetchState_SetsOnline(t *testing.T) {
	snap := model.DefaultSnapshot(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/state", r.URL.Path)
		writeJSON(t, w, http.StatusOK, snap)
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/api/")
	assert.False(t, c.IsOnline(), "starts offline")

	res := c.FetchState(context.Background())
	require.True(t, res.OK(), "error: %v", res.Err)
	assert.Equal(t, snap, res.Data)
	assert.True(t, c.IsOnline())
}

func TestFetchState_UnreachableGoesOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, model.Snapshot{})
	}))
	c := NewClient(srv.URL)
	require.True(t, c.FetchState(context.Background()).OK())
	srv.Close()

	res := c.FetchState(context.Background())
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Err, model.ErrNetworkUnavailable)
	assert.False(t, c.IsOnline())
}

func TestMutationFailureKeepsOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/state" {
			writeJSON(t, w, http.StatusOK, model.Snapshot{})
			return
		}
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"error": "disk full"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.True(t, c.FetchState(context.Background()).OK())

	res := c.CreateBook(context.Background(), model.BookEntry{Title: "Dune", Author: "Herbert"})
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, model.ErrRemoteRejected)
	assert.Contains(t, res.Err.Error(), "disk full")
	assert.True(t, c.IsOnline(), "only FetchState flips the flag")
}

func TestMalformedPayloadIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 12`))
	}))
	defer srv.Close()

	res := NewClient(srv.URL).CreateApp(context.Background(), model.AppShortcut{Name: "a", Target: "b"})
	assert.ErrorIs(t, res.Err, model.ErrRemoteRejected)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer empty.Close()

	res = NewClient(empty.URL).CreateApp(context.Background(), model.AppShortcut{Name: "a", Target: "b"})
	assert.ErrorIs(t, res.Err, model.ErrRemoteRejected)
}

func TestSuccessBodyMustCarryAnEntity(t *testing.T) {
	tests := []struct {
		name string
		body string
		call func(c *Client) error
	}{
		{"create app null", `null`, func(c *Client) error {
			return c.CreateApp(context.Background(), model.AppShortcut{Name: "a", Target: "b"}).Err
		}},
		{"create app empty object", `{}`, func(c *Client) error {
			return c.CreateApp(context.Background(), model.AppShortcut{Name: "a", Target: "b"}).Err
		}},
		{"update book null", "null\n", func(c *Client) error {
			return c.UpdateBook(context.Background(), "b1", model.BookPatch{Progress: model.Ptr(5)}).Err
		}},
		{"update book without title", `{"id":"b1","author":"x"}`, func(c *Client) error {
			return c.UpdateBook(context.Background(), "b1", model.BookPatch{Progress: model.Ptr(5)}).Err
		}},
		{"create note empty object", `{}`, func(c *Client) error {
			return c.CreateNote(context.Background(), model.Note{Title: "t"}).Err
		}},
		{"state with id-less app", `{"apps":[{"name":"a","url":"b"}],"books":[],"settings":{}}`, func(c *Client) error {
			return c.FetchState(context.Background()).Err
		}},
		{"state null", `null`, func(c *Client) error {
			return c.FetchState(context.Background()).Err
		}},
		{"list secrets with blank name", `[{"id":"s1","name":"","url":"x"}]`, func(c *Client) error {
			return c.ListSecrets(context.Background()).Err
		}},
		{"upload without id", `{"url":"/files/x"}`, func(c *Client) error {
			return c.Upload(context.Background(), "a.png", strings.NewReader("x")).Err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			err := tt.call(c)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrRemoteRejected)
			assert.False(t, c.IsOnline())
		})
	}
}

func TestSettingsAcceptEmptyObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	res := NewClient(srv.URL).GetSettings(context.Background())
	require.True(t, res.OK(), "error: %v", res.Err)
	assert.Equal(t, model.Settings{}, res.Data)
}

func TestNoteRequests(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, []model.Note{{ID: "n1", Title: "A", CreatedAt: at, UpdatedAt: at}})
		default:
			writeJSON(t, w, http.StatusOK, model.Note{ID: "n1", Title: "A", Content: "<p>x</p>", CreatedAt: at, UpdatedAt: at})
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL)

	list := c.ListNotes(ctx)
	require.True(t, list.OK(), "error: %v", list.Err)
	assert.Len(t, list.Data, 1)

	created := c.CreateNote(ctx, model.Note{Title: "A"})
	require.True(t, created.OK())
	assert.Equal(t, "n1", created.Data.ID)

	require.True(t, c.UpdateNote(ctx, "n1", model.NotePatch{Content: model.Ptr("<p>x</p>")}).OK())
	require.True(t, c.DeleteNote(ctx, "n1").OK())

	assert.Equal(t, []string{"GET /notes", "POST /notes", "PUT /notes/n1", "DELETE /notes/n1"}, paths)
}

func TestCancelledContextIsNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, model.Settings{})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewClient(srv.URL).GetSettings(ctx)
	assert.ErrorIs(t, res.Err, model.ErrNetworkUnavailable)
}

func TestCRUDRequests(t *testing.T) {
	type seen struct {
		method, path, body string
	}
	var (
		mu    sync.Mutex
		calls []seen
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, seen{r.Method, r.URL.Path, strings.TrimSpace(string(body))})
		mu.Unlock()

		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case strings.HasPrefix(r.URL.Path, "/apps"):
			writeJSON(t, w, http.StatusOK, model.AppShortcut{ID: "srv-1", Name: "Kindle", Target: "https://read.amazon.com"})
		case strings.HasPrefix(r.URL.Path, "/secrets"):
			writeJSON(t, w, http.StatusOK, model.SecretEntry{ID: "srv-3", Name: "n", Target: "t"})
		case r.URL.Path == "/settings":
			writeJSON(t, w, http.StatusOK, model.DefaultSettings())
		default:
			writeJSON(t, w, http.StatusOK, model.BookEntry{ID: "srv-2", Title: "Dune", Author: "Herbert"})
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL)

	created := c.CreateApp(ctx, model.AppShortcut{Name: "Kindle", Target: "https://read.amazon.com"})
	require.True(t, created.OK())
	assert.Equal(t, "srv-1", created.Data.ID)

	updated := c.UpdateBook(ctx, "b 1", model.BookPatch{Progress: model.Ptr(10)})
	require.True(t, updated.OK())
	assert.Equal(t, "srv-2", updated.Data.ID)

	require.True(t, c.UpdateSecret(ctx, "s1", model.SecretPatch{Name: model.Ptr("x")}).OK())
	require.True(t, c.DeleteSecret(ctx, "s1").OK())
	require.True(t, c.UpdateSettings(ctx, model.SettingsPatch{ThemeID: model.Ptr("dark")}).OK())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 5)
	assert.Equal(t, seen{"POST", "/apps", `{"id":"","name":"Kindle","url":"https://read.amazon.com","icon":"","isPath":false}`}, calls[0])
	assert.Equal(t, seen{"PUT", "/books/b 1", `{"progress":10}`}, calls[1])
	assert.Equal(t, seen{"PUT", "/secrets/s1", `{"name":"x"}`}, calls[2])
	assert.Equal(t, "DELETE", calls[3].method)
	assert.Empty(t, calls[3].body)
	assert.Equal(t, seen{"PUT", "/settings", `{"theme":"dark"}`}, calls[4])
}

func TestVerifyLockCode_StoresToken(t *testing.T) {
	var (
		mu          sync.Mutex
		authHeaders []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		mu.Unlock()
		switch r.URL.Path {
		case "/settings/lock":
			var req model.LockRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Code == "1234" {
				writeJSON(t, w, http.StatusOK, model.LockResponse{Valid: true, Token: "tok"})
				return
			}
			writeJSON(t, w, http.StatusOK, model.LockResponse{Valid: false})
		case "/open":
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := NewClient(srv.URL)

	bad := c.VerifyLockCode(ctx, "0000")
	require.True(t, bad.OK())
	assert.False(t, bad.Data.Valid)
	assert.Empty(t, c.Token())

	good := c.VerifyLockCode(ctx, "1234")
	require.True(t, good.OK())
	assert.True(t, good.Data.Valid)
	assert.Equal(t, "tok", c.Token())

	require.True(t, c.Open(ctx, model.OpenRequest{Type: model.OpenURL, URL: "https://x"}).OK())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"", "", "Bearer tok"}, authHeaders)
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cover.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(data))
		writeJSON(t, w, http.StatusOK, model.UploadResponse{ID: "abc", URL: "/api/files/abc"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res := c.Upload(context.Background(), "cover.png", strings.NewReader("PNGDATA"))
	require.True(t, res.OK(), "error: %v", res.Err)
	assert.Equal(t, "abc", res.Data.ID)
	assert.Equal(t, srv.URL+"/files/abc", c.FileURL("abc"))
}
