// ABOUTME: Snapshot, settings and lock code handlers
// ABOUTME: Lock verification issues an unlock token on success

package server

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/moullakill/bookos-dream-launcher/internal/auth"
	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.GetState(r.Context())
	if err != nil {
		s.sendStoreError(w, "get state", err)
		return
	}
	sendJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReplaceState(w http.ResponseWriter, r *http.Request) {
	var snap model.Snapshot
	if !decodeJSON(w, r, &snap) {
		return
	}
	if err := validateSnapshot(snap); err != nil {
		s.sendStoreError(w, "replace state", err)
		return
	}
	if err := s.store.ReplaceState(r.Context(), snap); err != nil {
		s.sendStoreError(w, "replace state", err)
		return
	}
	s.logger.Info("state replaced", "apps", len(snap.Apps), "books", len(snap.Books), "secrets", len(snap.Secrets), "notes", len(snap.Notes))
	w.WriteHeader(http.StatusNoContent)
}

// validateSnapshot rejects snapshots with invalid entities or repeated ids.
func validateSnapshot(snap model.Snapshot) error {
	if err := validateAll(snap.Apps, model.AppShortcut.Validate, func(a model.AppShortcut) string { return a.ID }); err != nil {
		return fmt.Errorf("apps: %w", err)
	}
	if err := validateAll(snap.Books, model.BookEntry.Validate, func(b model.BookEntry) string { return b.ID }); err != nil {
		return fmt.Errorf("books: %w", err)
	}
	if err := validateAll(snap.Secrets, model.SecretEntry.Validate, func(e model.SecretEntry) string { return e.ID }); err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	if err := validateAll(snap.Notes, model.Note.Validate, func(n model.Note) string { return n.ID }); err != nil {
		return fmt.Errorf("notes: %w", err)
	}
	if snap.Settings.HasLockCode() {
		if err := model.ValidateLockCode(snap.Settings.LockCode); err != nil {
			return fmt.Errorf("settings: %w", err)
		}
	}
	return nil
}

func validateAll[T any](items []T, validate func(T) error, id func(T) string) error {
	seen := make(map[string]bool, len(items))
	for _, v := range items {
		if err := validate(v); err != nil {
			return err
		}
		key := id(v)
		if key == "" {
			return fmt.Errorf("%w: missing id", model.ErrValidation)
		}
		if seen[key] {
			return fmt.Errorf("%w: duplicate id %q", model.ErrValidation, key)
		}
		seen[key] = true
	}
	return nil
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.sendStoreError(w, "get settings", err)
		return
	}
	sendJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var p model.SettingsPatch
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		s.sendStoreError(w, "update settings", err)
		return
	}
	settings, err := s.store.UpdateSettings(r.Context(), p)
	if err != nil {
		s.sendStoreError(w, "update settings", err)
		return
	}
	if p.LockCode != nil {
		s.logger.Info("lock code changed", "enabled", settings.HasLockCode())
	}
	sendJSON(w, http.StatusOK, settings)
}

// handleVerifyLock checks a lock code. Without a configured code every code
// is valid. A valid code yields an unlock token.
func (s *Server) handleVerifyLock(w http.ResponseWriter, r *http.Request) {
	var req model.LockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.sendStoreError(w, "verify lock", err)
		return
	}

	valid := !settings.HasLockCode() ||
		subtle.ConstantTimeCompare([]byte(req.Code), []byte(settings.LockCode)) == 1
	if !valid {
		s.logger.Info("lock code rejected")
		sendJSON(w, http.StatusOK, model.LockResponse{Valid: false})
		return
	}

	token, err := s.tokens.Generate(auth.DefaultSubject, auth.UnlockScopes, s.cfg.TokenTTL)
	if err != nil {
		s.logger.Error("failed to issue unlock token", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	sendJSON(w, http.StatusOK, model.LockResponse{Valid: true, Token: token})
}
