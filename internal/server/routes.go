// ABOUTME: Route table for the launcher API on gorilla/mux
// ABOUTME: JSON error helpers, request logging and method/404 handling

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/moullakill/bookos-dream-launcher/internal/auth"
	"github.com/moullakill/bookos-dream-launcher/internal/model"
	"github.com/moullakill/bookos-dream-launcher/internal/store"
)

// maxJSONBody bounds request bodies other than uploads.
const maxJSONBody = 4 << 20

// apiPrefix roots every API route. Routes are registered on the root router
// with the prefix spelled out so that a method mismatch anywhere reaches the
// root MethodNotAllowedHandler.
const apiPrefix = "/api"

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		sendJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		sendJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc(apiPrefix+"/state", s.handleGetState).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/state", s.handleReplaceState).Methods(http.MethodPost)

	collection(r, apiPrefix+"/apps", s.apps())
	collection(r, apiPrefix+"/books", s.books())
	collection(r, apiPrefix+"/secrets", s.secrets())
	collection(r, apiPrefix+"/notes", s.notes())

	r.HandleFunc(apiPrefix+"/settings", s.handleGetSettings).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/settings", s.handleUpdateSettings).Methods(http.MethodPut)
	r.HandleFunc(apiPrefix+"/settings/lock", s.handleVerifyLock).Methods(http.MethodPost)

	var open http.Handler = http.HandlerFunc(s.handleOpen)
	if s.cfg.RequireUnlockForOpen {
		open = auth.RequireUnlock(s.tokens, auth.ScopeOpen)(open)
	}
	r.Handle(apiPrefix+"/open", open).Methods(http.MethodPost)

	r.HandleFunc(apiPrefix+"/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/files/{id}", s.handleGetFile).Methods(http.MethodGet)

	return r
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// sendJSON writes v as a JSON response with the given status.
func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sendJSONError writes a JSON error response.
func sendJSONError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body into v. An empty body is an error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "empty body"
		}
		sendJSONError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// sendStoreError maps store and validation errors to status codes.
func (s *Server) sendStoreError(w http.ResponseWriter, op string, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		sendJSONError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, model.ErrValidation):
		sendJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		sendJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicate):
		sendJSONError(w, http.StatusConflict, "already exists")
	default:
		s.logger.Error("store operation failed", "op", op, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
