// ABOUTME: Resolving and launching apps, books and vault entries
// ABOUTME: The only controller operations that surface failures to the caller

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// OpenApp launches an app shortcut.
func (c *Controller) OpenApp(ctx context.Context, a model.AppShortcut) error {
	return c.launch(ctx, model.OpenRequest{Type: model.OpenApp, URL: a.Target, IsPath: a.IsLocalPath})
}

// OpenBook resolves a book's target, records it as last opened and launches
// it. A book pointing at a missing app fails with ErrDanglingReference.
func (c *Controller) OpenBook(ctx context.Context, b model.BookEntry) error {
	req, err := c.ResolveBook(b)
	if err != nil {
		return err
	}

	now := c.now().UTC()
	if err := c.UpdateBook(ctx, b.ID, model.BookPatch{LastOpenedAt: &now}); err != nil {
		return err
	}
	return c.launch(ctx, req)
}

// ResolveBook returns the open request for a book without launching it.
func (c *Controller) ResolveBook(b model.BookEntry) (model.OpenRequest, error) {
	switch {
	case b.Mode == model.OpenWithApp && b.AppID != "":
		app, ok := c.store.App(b.AppID)
		if !ok {
			return model.OpenRequest{}, fmt.Errorf("%w: book %q uses app %q", model.ErrDanglingReference, b.Title, b.AppID)
		}
		return model.OpenRequest{Type: model.OpenApp, URL: app.Target, IsPath: app.IsLocalPath}, nil
	case b.Mode != model.OpenWithApp && strings.TrimSpace(b.URL) != "":
		return model.OpenRequest{Type: model.OpenBook, URL: b.URL}, nil
	default:
		return model.OpenRequest{}, fmt.Errorf("%w: book %q has no usable target", model.ErrValidation, b.Title)
	}
}

// OpenSecret launches a vault entry. Entries of kind app open as local paths.
func (c *Controller) OpenSecret(ctx context.Context, e model.SecretEntry) error {
	return c.launch(ctx, model.OpenRequest{Type: model.OpenSecret, URL: e.Target, IsPath: e.Kind == model.SecretApp})
}

// launch sends req to the remote service, or to the local opener when the
// service is unreachable.
func (c *Controller) launch(ctx context.Context, req model.OpenRequest) error {
	if strings.TrimSpace(req.URL) == "" {
		return fmt.Errorf("%w: nothing to open", model.ErrValidation)
	}

	if c.gateway.IsOnline() {
		res := c.gateway.Open(ctx, req)
		if res.OK() {
			return nil
		}
		if c.opener == nil || !errors.Is(res.Err, model.ErrNetworkUnavailable) {
			return res.Err
		}
		c.logger.Warn("remote open failed, opening locally", "error", res.Err)
	}

	if c.opener == nil {
		return fmt.Errorf("%w: cannot open %q while offline", model.ErrNetworkUnavailable, req.URL)
	}
	return c.opener.Open(ctx, req)
}

// Upload sends a file to the remote service and returns its absolute URL,
// usable as an icon, cover or background reference.
func (c *Controller) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !c.gateway.IsOnline() {
		return "", fmt.Errorf("%w: uploads need the remote service", model.ErrNetworkUnavailable)
	}
	res := c.gateway.Upload(ctx, filename, r)
	if !res.OK() {
		return "", res.Err
	}
	return c.gateway.FileURL(res.Data.ID), nil
}
