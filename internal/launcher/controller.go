// ABOUTME: Controller wires store, cache, gateway and access gates into one session object
// ABOUTME: Handles initial load, wholesale refresh and the collaborator-facing read surface

package launcher

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"

	"github.com/moullakill/bookos-dream-launcher/internal/access"
	"github.com/moullakill/bookos-dream-launcher/internal/cache"
	"github.com/moullakill/bookos-dream-launcher/internal/entity"
	"github.com/moullakill/bookos-dream-launcher/internal/library"
	"github.com/moullakill/bookos-dream-launcher/internal/model"
	"github.com/moullakill/bookos-dream-launcher/internal/opener"
	"github.com/moullakill/bookos-dream-launcher/internal/remote"
)

// Gateway is the remote service as the controller sees it. *remote.Client
// implements it.
type Gateway interface {
	IsOnline() bool
	FetchState(ctx context.Context) remote.Result[model.Snapshot]
	SaveFullState(ctx context.Context, snap model.Snapshot) remote.Result[remote.Empty]

	CreateApp(ctx context.Context, a model.AppShortcut) remote.Result[model.AppShortcut]
	UpdateApp(ctx context.Context, id string, p model.AppPatch) remote.Result[model.AppShortcut]
	DeleteApp(ctx context.Context, id string) remote.Result[remote.Empty]

	CreateBook(ctx context.Context, b model.BookEntry) remote.Result[model.BookEntry]
	UpdateBook(ctx context.Context, id string, p model.BookPatch) remote.Result[model.BookEntry]
	DeleteBook(ctx context.Context, id string) remote.Result[remote.Empty]

	CreateSecret(ctx context.Context, e model.SecretEntry) remote.Result[model.SecretEntry]
	UpdateSecret(ctx context.Context, id string, p model.SecretPatch) remote.Result[model.SecretEntry]
	DeleteSecret(ctx context.Context, id string) remote.Result[remote.Empty]

	CreateNote(ctx context.Context, n model.Note) remote.Result[model.Note]
	UpdateNote(ctx context.Context, id string, p model.NotePatch) remote.Result[model.Note]
	DeleteNote(ctx context.Context, id string) remote.Result[remote.Empty]

	UpdateSettings(ctx context.Context, p model.SettingsPatch) remote.Result[model.Settings]
	VerifyLockCode(ctx context.Context, code string) remote.Result[model.LockResponse]

	Open(ctx context.Context, req model.OpenRequest) remote.Result[remote.Empty]
	Upload(ctx context.Context, filename string, r io.Reader) remote.Result[model.UploadResponse]
	FileURL(id string) string
}

var _ Gateway = (*remote.Client)(nil)

// Controller is the session object UI collaborators call into.
type Controller struct {
	store   *entity.Store
	cache   cache.Cache
	gateway Gateway
	opener  opener.Opener
	logger  *slog.Logger
	now     func() time.Time
	locale  language.Tag

	lock  *access.LockGate
	vault *access.RevealGesture

	loading atomic.Bool

	seqMu sync.Mutex
	seq   map[string]uint64
}

// Options configures a Controller. Zero values pick the defaults.
type Options struct {
	// Opener launches targets locally when the gateway is offline. Nil means
	// opening requires the remote service.
	Opener       opener.Opener
	RevealTaps   int
	RevealWindow time.Duration
	Locale       language.Tag
	Clock        func() time.Time
	Logger       *slog.Logger
}

// New creates a controller. It reports IsLoading until Load returns.
func New(store *entity.Store, c cache.Cache, gw Gateway, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	revealOpts := []access.RevealOption{access.WithClock(now)}
	ctl := &Controller{
		store:   store,
		cache:   c,
		gateway: gw,
		opener:  opts.Opener,
		logger:  logger.With("component", "launcher"),
		now:     now,
		locale:  opts.Locale,
		lock:    access.NewLockGate(false),
		vault:   access.NewRevealGesture(opts.RevealTaps, opts.RevealWindow, revealOpts...),
		seq:     make(map[string]uint64),
	}
	ctl.loading.Store(true)
	return ctl
}

// Load restores the cached snapshot (or the seed state when there is none),
// tries a remote refresh, then arms the lock gate from the resulting lock
// code.
func (c *Controller) Load(ctx context.Context) {
	defer c.loading.Store(false)

	if cached := c.cache.Load(); cached != nil {
		c.store.ReplaceAll(*cached)
		c.logger.Debug("restored cached state")
	} else {
		c.store.ReplaceAll(model.DefaultSnapshot(c.now()))
		c.logger.Info("no cached state, starting from defaults")
	}

	if !c.Refresh(ctx) {
		c.persist()
	}

	c.lock.Reset(c.store.Settings().HasLockCode())
}

// Refresh fetches the whole state from the remote service. On success the
// local state is replaced wholesale and persisted. It reports whether the
// gateway is online afterwards.
func (c *Controller) Refresh(ctx context.Context) bool {
	res := c.gateway.FetchState(ctx)
	if !res.OK() {
		c.logger.Warn("remote unavailable, working locally", "error", res.Err)
		return false
	}

	c.store.ReplaceAll(res.Data)
	c.lock.CodeChanged(c.store.Settings().HasLockCode())
	c.persist()
	c.logger.Debug("state refreshed from remote")
	return true
}

// PushState overwrites the remote state with the local snapshot.
func (c *Controller) PushState(ctx context.Context) error {
	res := c.gateway.SaveFullState(ctx, c.store.Snapshot())
	return res.Err
}

// State returns a copy of the full state.
func (c *Controller) State() model.Snapshot {
	return c.store.Snapshot()
}

// Apps returns the app collection.
func (c *Controller) Apps() []model.AppShortcut {
	return c.store.Apps()
}

// Books returns the library.
func (c *Controller) Books() []model.BookEntry {
	return c.store.Books()
}

// Settings returns the settings.
func (c *Controller) Settings() model.Settings {
	return c.store.Settings()
}

// Library runs a library view over the current books. A query without a
// locale uses the controller's.
func (c *Controller) Library(q library.Query) []library.Group {
	if q.Locale == language.Und {
		q.Locale = c.locale
	}
	return library.Run(c.store.Books(), q)
}

// Authors returns the distinct authors of the library.
func (c *Controller) Authors() []string {
	return library.Authors(c.store.Books(), c.locale)
}

// Genres returns the distinct genres of the library.
func (c *Controller) Genres() []string {
	return library.Genres(c.store.Books(), c.locale)
}

// IsLoading reports whether Load has not finished yet.
func (c *Controller) IsLoading() bool {
	return c.loading.Load()
}

// IsOnline reports whether the last state fetch succeeded.
func (c *Controller) IsOnline() bool {
	return c.gateway.IsOnline()
}

// Events returns the store's change notifications.
func (c *Controller) Events() <-chan entity.Event {
	return c.store.Events()
}

func (c *Controller) persist() {
	c.cache.Save(c.store.Snapshot())
}

// begin starts a mutation of key and returns its sequence number.
func (c *Controller) begin(key string) uint64 {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	c.seq[key]++
	return c.seq[key]
}

// current reports whether n is still the latest mutation of key.
func (c *Controller) current(key string, n uint64) bool {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	return c.seq[key] == n
}

func entityKey(col model.Collection, id string) string {
	return string(col) + "/" + id
}
