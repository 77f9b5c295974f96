// ABOUTME: Upload and file download handlers
// ABOUTME: Files are stored under the upload directory named by their BLAKE2b-256 digest

package server

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/blake2b"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
	"github.com/moullakill/bookos-dream-launcher/internal/store"
)

// maxUploadSize bounds a single uploaded file.
const maxUploadSize = 32 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			sendJSONError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		sendJSONError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	f, err := s.saveUpload(file)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			sendJSONError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.logger.Error("failed to store upload", "name", header.Filename, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	f.Name = filepath.Base(header.Filename)
	f.ContentType = header.Header.Get("Content-Type")
	if f.ContentType == "" || f.ContentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(f.Name)); byExt != "" {
			f.ContentType = byExt
		} else {
			f.ContentType = "application/octet-stream"
		}
	}
	f.CreatedAt = s.now().UTC()

	if err := s.store.SaveFile(r.Context(), f); err != nil {
		s.sendStoreError(w, "save file", err)
		return
	}

	s.logger.Info("file uploaded", "id", f.ID, "name", f.Name, "size", f.Size)
	sendJSON(w, http.StatusCreated, model.UploadResponse{ID: f.ID, URL: "/api/files/" + f.ID})
}

// saveUpload streams src into the upload directory, hashing as it goes, and
// renames the result to its digest.
func (s *Server) saveUpload(src io.Reader) (*store.File, error) {
	tmp, err := os.CreateTemp(s.cfg.UploadDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	h, err := blake2b.New256(nil)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("creating hash: %w", err)
	}
	size, err := io.Copy(io.MultiWriter(tmp, h), io.LimitReader(src, maxUploadSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("writing upload: %w", err)
	}
	if size > maxUploadSize {
		return nil, &http.MaxBytesError{Limit: maxUploadSize}
	}

	id := hex.EncodeToString(h.Sum(nil))
	path := filepath.Join(s.cfg.UploadDir, id)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("moving upload into place: %w", err)
	}
	return &store.File{ID: id, Size: size, Path: path}, nil
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	meta, err := s.store.GetFile(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.sendStoreError(w, "get file", err)
		return
	}

	f, err := os.Open(meta.Path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("file record without data", "id", meta.ID, "path", meta.Path)
		sendJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to open file", "id", meta.ID, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, meta.Name, meta.CreatedAt, f)
}
