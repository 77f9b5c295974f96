// ABOUTME: Launch handler: validates the request, suppresses repeats and hands off to the opener
// ABOUTME: Fire-and-forget from the client's point of view; 204 means accepted

package server

import (
	"net/http"
	"strings"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func validOpenKind(k model.OpenKind) bool {
	switch k {
	case model.OpenApp, model.OpenBook, model.OpenSecret, model.OpenURL:
		return true
	}
	return false
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req model.OpenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if !validOpenKind(req.Type) {
		sendJSONError(w, http.StatusBadRequest, "type must be one of app, book, secret, url")
		return
	}
	if req.URL == "" {
		sendJSONError(w, http.StatusBadRequest, "url is required")
		return
	}

	if s.launches.Suppress(req.Key()) {
		s.logger.Debug("repeated launch suppressed", "type", req.Type, "target", req.URL)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := s.opener.Open(r.Context(), req); err != nil {
		s.launches.Forget(req.Key())
		s.logger.Error("launch failed", "type", req.Type, "target", req.URL, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "failed to open target")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
