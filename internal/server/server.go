// ABOUTME: Reference remote service lifecycle: construction, listening and graceful shutdown
// ABOUTME: Owns the store, opener, unlock token issuer and launch dedupe window

package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"tailscale.com/tsnet"

	"github.com/moullakill/bookos-dream-launcher/internal/auth"
	"github.com/moullakill/bookos-dream-launcher/internal/config"
	"github.com/moullakill/bookos-dream-launcher/internal/dedupe"
	"github.com/moullakill/bookos-dream-launcher/internal/opener"
	"github.com/moullakill/bookos-dream-launcher/internal/store"
)

// dedupeMaxKeys bounds the launch dedupe window.
const dedupeMaxKeys = 1024

// Server serves the launcher API over HTTP.
type Server struct {
	cfg        config.ServerConfig
	store      store.Store
	opener     opener.Opener
	tokens     *auth.TokenIssuer
	launches   *dedupe.Window
	httpServer *http.Server
	tsnet      *tsnet.Server // set while serving on a tailnet
	logger     *slog.Logger

	newID func() string
	now   func() time.Time
}

// New creates a server over st that launches through op. The upload
// directory is created if needed. Without a jwt_secret a random one is
// generated, so unlock tokens do not survive a restart.
func New(cfg config.ServerConfig, st store.Store, op opener.Opener, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating token secret: %w", err)
		}
		logger.Warn("server.jwt_secret not set, unlock tokens will not survive a restart")
	}

	s := &Server{
		cfg:      cfg,
		store:    st,
		opener:   op,
		tokens:   auth.NewTokenIssuer(secret),
		launches: dedupe.New(cfg.OpenDedupeWindow, dedupeMaxKeys),
		logger:   logger,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Run listens on the configured address, or on the tailnet when tailscale is
// enabled, and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Tailscale.Enabled {
		if s.cfg.HTTPAddr != "" {
			s.logger.Warn("server.http_addr is ignored when tailscale is enabled", "http_addr", s.cfg.HTTPAddr)
		}
		ln, err := s.tailscaleListen(ctx)
		if err != nil {
			return err
		}
		return s.Serve(ctx, ln)
	}

	ln, err := net.Listen("tcp", s.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.HTTPAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	// The original context is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownErr := s.Shutdown(shutdownCtx)

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// Shutdown stops the HTTP server and releases the store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	s.launches.Close()
	if s.tsnet != nil {
		if err := s.tsnet.Close(); err != nil {
			errs = append(errs, fmt.Errorf("tailscale close: %w", err))
		}
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}
	return errors.Join(errs...)
}
