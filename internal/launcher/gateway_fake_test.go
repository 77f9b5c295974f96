// ABOUTME: In-memory Gateway used by the controller tests
// ABOUTME: Scripts online/offline behaviour, failures and in-flight hooks

package launcher

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
	"github.com/moullakill/bookos-dream-launcher/internal/remote"
)

type fakeGateway struct {
	mu       sync.Mutex
	online   bool
	reach    bool  // FetchState succeeds
	writeErr error // returned by every write when set
	state    model.Snapshot
	lockCode string
	nextID   int
	calls    []string
	opened   []model.OpenRequest

	// onUpdateBook runs while an UpdateBook call is in flight.
	onUpdateBook func()
}

var _ Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *fakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGateway) id() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	return fmt.Sprintf("srv-%d", g.nextID)
}

func (g *fakeGateway) err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writeErr
}

func (g *fakeGateway) IsOnline() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.online
}

func (g *fakeGateway) FetchState(context.Context) remote.Result[model.Snapshot] {
	g.record("FetchState")
	g.mu.Lock()
	defer g.mu.Unlock()
	g.online = g.reach
	if !g.reach {
		return remote.Result[model.Snapshot]{Err: fmt.Errorf("%w: refused", model.ErrNetworkUnavailable)}
	}
	return remote.Result[model.Snapshot]{Data: g.state.Clone()}
}

func (g *fakeGateway) SaveFullState(_ context.Context, snap model.Snapshot) remote.Result[remote.Empty] {
	g.record("SaveFullState")
	if err := g.err(); err != nil {
		return remote.Result[remote.Empty]{Err: err}
	}
	g.mu.Lock()
	g.state = snap.Clone()
	g.mu.Unlock()
	return remote.Result[remote.Empty]{}
}

func (g *fakeGateway) CreateApp(_ context.Context, a model.AppShortcut) remote.Result[model.AppShortcut] {
	g.record("CreateApp")
	if err := g.err(); err != nil {
		return remote.Result[model.AppShortcut]{Err: err}
	}
	a.ID = g.id()
	return remote.Result[model.AppShortcut]{Data: a}
}

func (g *fakeGateway) UpdateApp(_ context.Context, id string, p model.AppPatch) remote.Result[model.AppShortcut] {
	g.record("UpdateApp")
	if err := g.err(); err != nil {
		return remote.Result[model.AppShortcut]{Err: err}
	}
	return remote.Result[model.AppShortcut]{Data: p.Apply(model.AppShortcut{ID: id, Name: "remote", Target: "remote"})}
}

func (g *fakeGateway) DeleteApp(context.Context, string) remote.Result[remote.Empty] {
	g.record("DeleteApp")
	return remote.Result[remote.Empty]{Err: g.err()}
}

func (g *fakeGateway) CreateBook(_ context.Context, b model.BookEntry) remote.Result[model.BookEntry] {
	g.record("CreateBook")
	if err := g.err(); err != nil {
		return remote.Result[model.BookEntry]{Err: err}
	}
	b.ID = g.id()
	return remote.Result[model.BookEntry]{Data: b}
}

func (g *fakeGateway) UpdateBook(_ context.Context, id string, p model.BookPatch) remote.Result[model.BookEntry] {
	g.record("UpdateBook")
	g.mu.Lock()
	hook := g.onUpdateBook
	g.onUpdateBook = nil
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err := g.err(); err != nil {
		return remote.Result[model.BookEntry]{Err: err}
	}
	return remote.Result[model.BookEntry]{Data: p.Apply(model.BookEntry{ID: id, Title: "remote", Author: "remote"})}
}

func (g *fakeGateway) DeleteBook(context.Context, string) remote.Result[remote.Empty] {
	g.record("DeleteBook")
	return remote.Result[remote.Empty]{Err: g.err()}
}

func (g *fakeGateway) CreateSecret(_ context.Context, e model.SecretEntry) remote.Result[model.SecretEntry] {
	g.record("CreateSecret")
	if err := g.err(); err != nil {
		return remote.Result[model.SecretEntry]{Err: err}
	}
	e.ID = g.id()
	return remote.Result[model.SecretEntry]{Data: e}
}

func (g *fakeGateway) UpdateSecret(_ context.Context, id string, p model.SecretPatch) remote.Result[model.SecretEntry] {
	g.record("UpdateSecret")
	if err := g.err(); err != nil {
		return remote.Result[model.SecretEntry]{Err: err}
	}
	return remote.Result[model.SecretEntry]{Data: p.Apply(model.SecretEntry{ID: id})}
}

func (g *fakeGateway) DeleteSecret(context.Context, string) remote.Result[remote.Empty] {
	g.record("DeleteSecret")
	return remote.Result[remote.Empty]{Err: g.err()}
}

func (g *fakeGateway) CreateNote(_ context.Context, n model.Note) remote.Result[model.Note] {
	g.record("CreateNote")
	if err := g.err(); err != nil {
		return remote.Result[model.Note]{Err: err}
	}
	n.ID = g.id()
	return remote.Result[model.Note]{Data: n}
}

func (g *fakeGateway) UpdateNote(_ context.Context, id string, p model.NotePatch) remote.Result[model.Note] {
	g.record("UpdateNote")
	if err := g.err(); err != nil {
		return remote.Result[model.Note]{Err: err}
	}
	return remote.Result[model.Note]{Data: p.Apply(model.Note{ID: id, Title: "remote"})}
}

func (g *fakeGateway) DeleteNote(context.Context, string) remote.Result[remote.Empty] {
	g.record("DeleteNote")
	return remote.Result[remote.Empty]{Err: g.err()}
}

func (g *fakeGateway) UpdateSettings(_ context.Context, p model.SettingsPatch) remote.Result[model.Settings] {
	g.record("UpdateSettings")
	if err := g.err(); err != nil {
		return remote.Result[model.Settings]{Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Settings = p.Apply(g.state.Settings)
	g.lockCode = g.state.Settings.LockCode
	return remote.Result[model.Settings]{Data: g.state.Settings}
}

func (g *fakeGateway) VerifyLockCode(_ context.Context, code string) remote.Result[model.LockResponse] {
	g.record("VerifyLockCode")
	if err := g.err(); err != nil {
		return remote.Result[model.LockResponse]{Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return remote.Result[model.LockResponse]{Data: model.LockResponse{Valid: code == g.lockCode}}
}

func (g *fakeGateway) Open(_ context.Context, req model.OpenRequest) remote.Result[remote.Empty] {
	g.record("Open")
	if err := g.err(); err != nil {
		return remote.Result[remote.Empty]{Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.opened = append(g.opened, req)
	return remote.Result[remote.Empty]{}
}

func (g *fakeGateway) Upload(_ context.Context, _ string, r io.Reader) remote.Result[model.UploadResponse] {
	g.record("Upload")
	if _, err := io.Copy(io.Discard, r); err != nil {
		return remote.Result[model.UploadResponse]{Err: err}
	}
	return remote.Result[model.UploadResponse]{Data: model.UploadResponse{ID: "file-1", URL: "/api/files/file-1"}}
}

func (g *fakeGateway) FileURL(id string) string {
	return "http://remote/api/files/" + id
}
