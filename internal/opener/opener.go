// ABOUTME: Opener turns an open request into an OS-level launch
// ABOUTME: SystemOpener wraps pkg/browser; Recorder captures requests for tests and dry runs

package opener

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/pkg/browser"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// Opener launches a target.
type Opener interface {
	Open(ctx context.Context, req model.OpenRequest) error
}

// SystemOpener launches targets with the platform's default handlers.
type SystemOpener struct {
	logger   *slog.Logger
	openURL  func(string) error
	openFile func(string) error
}

// NewSystemOpener creates an opener backed by pkg/browser. Output of the
// spawned helper is discarded.
func NewSystemOpener(logger *slog.Logger) *SystemOpener {
	if logger == nil {
		logger = slog.Default()
	}
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &SystemOpener{
		logger:   logger.With("component", "opener"),
		openURL:  browser.OpenURL,
		openFile: browser.OpenFile,
	}
}

// Open implements Opener.
func (o *SystemOpener) Open(ctx context.Context, req model.OpenRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := strings.TrimSpace(req.URL)
	if target == "" {
		return fmt.Errorf("%w: empty target", model.ErrValidation)
	}

	o.logger.Info("opening target", "type", req.Type, "target", target, "is_path", req.IsPath)
	if req.IsPath {
		if err := o.openFile(target); err != nil {
			return fmt.Errorf("opening path %q: %w", target, err)
		}
		return nil
	}
	if err := o.openURL(target); err != nil {
		return fmt.Errorf("opening url %q: %w", target, err)
	}
	return nil
}

// Recorder is an Opener that only remembers what it was asked to open.
type Recorder struct {
	mu       sync.Mutex
	requests []model.OpenRequest
	Err      error // returned by every Open when set
}

// Open implements Opener.
func (r *Recorder) Open(_ context.Context, req model.OpenRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.requests = append(r.requests, req)
	return nil
}

// Requests returns the recorded requests.
func (r *Recorder) Requests() []model.OpenRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.OpenRequest, len(r.requests))
	copy(out, r.requests)
	return out
}
