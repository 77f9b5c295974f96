// ABOUTME: Add, update and delete for apps, books, secrets, notes and settings
// ABOUTME: Remote first when online, local fallback otherwise, always persisted afterwards

package launcher

import (
	"context"

	"github.com/moullakill/bookos-dream-launcher/internal/entity"
	"github.com/moullakill/bookos-dream-launcher/internal/model"
	"github.com/moullakill/bookos-dream-launcher/internal/remote"
)

// AddApp creates an app. Only validation failures are returned.
func (c *Controller) AddApp(ctx context.Context, a model.AppShortcut) (model.AppShortcut, error) {
	if err := a.Validate(); err != nil {
		return model.AppShortcut{}, err
	}
	defer c.persist()

	if c.gateway.IsOnline() {
		res := c.gateway.CreateApp(ctx, a)
		if res.OK() {
			c.store.PutApp(res.Data)
			return res.Data, nil
		}
		c.fallback("create app", res.Err)
	}

	a.ID = entity.NewLocalID()
	return c.store.CreateApp(a), nil
}

// UpdateApp patches an app. An unknown id is logged, not returned.
func (c *Controller) UpdateApp(ctx context.Context, id string, p model.AppPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	applyUpdate(ctx, c, entityKey(model.CollectionApps, id), "update app",
		func(ctx context.Context) remote.Result[model.AppShortcut] { return c.gateway.UpdateApp(ctx, id, p) },
		c.store.PutApp,
		func() { c.store.UpdateApp(id, p) })
	return nil
}

// DeleteApp removes an app. Books pointing at it are left as they are.
func (c *Controller) DeleteApp(ctx context.Context, id string) {
	c.begin(entityKey(model.CollectionApps, id))
	defer c.persist()

	if c.gateway.IsOnline() {
		if res := c.gateway.DeleteApp(ctx, id); !res.OK() {
			c.fallback("delete app", res.Err)
		}
	}
	c.store.DeleteApp(id)
}

// AddBook creates a book. Title and author are required.
func (c *Controller) AddBook(ctx context.Context, b model.BookEntry) (model.BookEntry, error) {
	if err := b.Validate(); err != nil {
		return model.BookEntry{}, err
	}
	b = b.WithDefaults()
	if b.AddedAt.IsZero() {
		b.AddedAt = c.now().UTC()
	}
	defer c.persist()

	if c.gateway.IsOnline() {
		res := c.gateway.CreateBook(ctx, b)
		if res.OK() {
			c.store.PutBook(res.Data)
			return res.Data, nil
		}
		c.fallback("create book", res.Err)
	}

	b.ID = entity.NewLocalID()
	return c.store.CreateBook(b), nil
}

// UpdateBook patches a book. An unknown id is logged, not returned.
func (c *Controller) UpdateBook(ctx context.Context, id string, p model.BookPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	applyUpdate(ctx, c, entityKey(model.CollectionBooks, id), "update book",
		func(ctx context.Context) remote.Result[model.BookEntry] { return c.gateway.UpdateBook(ctx, id, p) },
		c.store.PutBook,
		func() { c.store.UpdateBook(id, p) })
	return nil
}

// DeleteBook removes a book.
func (c *Controller) DeleteBook(ctx context.Context, id string) {
	c.begin(entityKey(model.CollectionBooks, id))
	defer c.persist()

	if c.gateway.IsOnline() {
		if res := c.gateway.DeleteBook(ctx, id); !res.OK() {
			c.fallback("delete book", res.Err)
		}
	}
	c.store.DeleteBook(id)
}

// AddSecret creates a vault entry, defaulting its icon to the lock glyph.
func (c *Controller) AddSecret(ctx context.Context, e model.SecretEntry) (model.SecretEntry, error) {
	if err := e.Validate(); err != nil {
		return model.SecretEntry{}, err
	}
	e = e.WithDefaults()
	defer c.persist()

	if c.gateway.IsOnline() {
		res := c.gateway.CreateSecret(ctx, e)
		if res.OK() {
			c.store.PutSecret(res.Data)
			return res.Data, nil
		}
		c.fallback("create secret", res.Err)
	}

	e.ID = entity.NewLocalID()
	return c.store.CreateSecret(e), nil
}

// UpdateSecret patches a vault entry. An unknown id is logged, not returned.
func (c *Controller) UpdateSecret(ctx context.Context, id string, p model.SecretPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	applyUpdate(ctx, c, entityKey(model.CollectionSecrets, id), "update secret",
		func(ctx context.Context) remote.Result[model.SecretEntry] { return c.gateway.UpdateSecret(ctx, id, p) },
		c.store.PutSecret,
		func() { c.store.UpdateSecret(id, p) })
	return nil
}

// DeleteSecret removes a vault entry.
func (c *Controller) DeleteSecret(ctx context.Context, id string) {
	c.begin(entityKey(model.CollectionSecrets, id))
	defer c.persist()

	if c.gateway.IsOnline() {
		if res := c.gateway.DeleteSecret(ctx, id); !res.OK() {
			c.fallback("delete secret", res.Err)
		}
	}
	c.store.DeleteSecret(id)
}

// UpdateSettings patches the settings and returns the result. Sizes are
// clamped; a malformed lock code is rejected.
func (c *Controller) UpdateSettings(ctx context.Context, p model.SettingsPatch) (model.Settings, error) {
	if err := p.Validate(); err != nil {
		return model.Settings{}, err
	}
	applyUpdate(ctx, c, string(model.CollectionSettings), "update settings",
		func(ctx context.Context) remote.Result[model.Settings] { return c.gateway.UpdateSettings(ctx, p) },
		c.store.SetSettings,
		func() { c.store.UpdateSettings(p) })

	s := c.store.Settings()
	if p.LockCode != nil {
		c.lock.CodeChanged(s.HasLockCode())
	}
	return s, nil
}

// applyUpdate runs one remote-first patch of the entity at key. Whichever
// result arrives, remote answer or local fallback, it is dropped once a newer
// mutation of the same entity has begun.
func applyUpdate[T any](ctx context.Context, c *Controller, key, op string,
	send func(context.Context) remote.Result[T], put func(T), local func()) {
	seq := c.begin(key)
	defer c.persist()

	if c.gateway.IsOnline() {
		res := send(ctx)
		if res.OK() {
			if c.current(key, seq) {
				put(res.Data)
			} else {
				c.stale(key)
			}
			return
		}
		c.fallback(op, res.Err)
	}

	if !c.current(key, seq) {
		c.stale(key)
		return
	}
	local()
}

func (c *Controller) fallback(op string, err error) {
	c.logger.Warn("remote write failed, applying locally", "op", op, "error", err)
}

func (c *Controller) stale(key string) {
	c.logger.Debug("dropping stale remote result", "entity", key)
}
