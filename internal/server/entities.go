// ABOUTME: Collection handlers shared by apps, books, vault secrets and notes
// ABOUTME: Create assigns server ids; update takes a partial patch and returns the entity

package server

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// resource describes one entity collection. T is the entity, P its patch.
type resource[T any, P any] struct {
	name    string
	list    func(ctx context.Context) ([]T, error)
	get     func(ctx context.Context, id string) (T, error)
	create  func(ctx context.Context, v T) error
	update  func(ctx context.Context, id string, p P) (T, error)
	delete  func(ctx context.Context, id string) error
	prepare func(v T) (T, error) // validates and fills defaults and the id
	check   func(p P) error
	srv     *Server
}

func collection[T any, P any](r *mux.Router, path string, res resource[T, P]) {
	r.HandleFunc(path, res.handleList).Methods(http.MethodGet)
	r.HandleFunc(path, res.handleCreate).Methods(http.MethodPost)
	r.HandleFunc(path+"/{id}", res.handleGet).Methods(http.MethodGet)
	r.HandleFunc(path+"/{id}", res.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc(path+"/{id}", res.handleDelete).Methods(http.MethodDelete)
}

func (s *Server) apps() resource[model.AppShortcut, model.AppPatch] {
	return resource[model.AppShortcut, model.AppPatch]{
		name:   "app",
		list:   s.store.ListApps,
		get:    s.store.GetApp,
		create: s.store.CreateApp,
		update: s.store.UpdateApp,
		delete: s.store.DeleteApp,
		prepare: func(a model.AppShortcut) (model.AppShortcut, error) {
			if err := a.Validate(); err != nil {
				return a, err
			}
			a.ID = s.newID()
			return a, nil
		},
		check: model.AppPatch.Validate,
		srv:   s,
	}
}

func (s *Server) books() resource[model.BookEntry, model.BookPatch] {
	return resource[model.BookEntry, model.BookPatch]{
		name:   "book",
		list:   s.store.ListBooks,
		get:    s.store.GetBook,
		create: s.store.CreateBook,
		update: s.store.UpdateBook,
		delete: s.store.DeleteBook,
		prepare: func(b model.BookEntry) (model.BookEntry, error) {
			if err := b.Validate(); err != nil {
				return b, err
			}
			b = b.WithDefaults()
			b.ID = s.newID()
			if b.AddedAt.IsZero() {
				b.AddedAt = s.now().UTC()
			}
			return b, nil
		},
		check: model.BookPatch.Validate,
		srv:   s,
	}
}

func (s *Server) secrets() resource[model.SecretEntry, model.SecretPatch] {
	return resource[model.SecretEntry, model.SecretPatch]{
		name:   "secret",
		list:   s.store.ListSecrets,
		get:    s.store.GetSecret,
		create: s.store.CreateSecret,
		update: s.store.UpdateSecret,
		delete: s.store.DeleteSecret,
		prepare: func(e model.SecretEntry) (model.SecretEntry, error) {
			if err := e.Validate(); err != nil {
				return e, err
			}
			e = e.WithDefaults()
			e.ID = s.newID()
			return e, nil
		},
		check: model.SecretPatch.Validate,
		srv:   s,
	}
}

func (s *Server) notes() resource[model.Note, model.NotePatch] {
	return resource[model.Note, model.NotePatch]{
		name:   "note",
		list:   s.store.ListNotes,
		get:    s.store.GetNote,
		create: s.store.CreateNote,
		update: func(ctx context.Context, id string, p model.NotePatch) (model.Note, error) {
			if p.UpdatedAt == nil {
				now := s.now().UTC()
				p.UpdatedAt = &now
			}
			return s.store.UpdateNote(ctx, id, p)
		},
		delete: s.store.DeleteNote,
		prepare: func(n model.Note) (model.Note, error) {
			n = n.WithDefaults()
			n.ID = s.newID()
			now := s.now().UTC()
			if n.CreatedAt.IsZero() {
				n.CreatedAt = now
			}
			if n.UpdatedAt.IsZero() {
				n.UpdatedAt = n.CreatedAt
			}
			return n, nil
		},
		check: model.NotePatch.Validate,
		srv:   s,
	}
}

func (res resource[T, P]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := res.list(r.Context())
	if err != nil {
		res.srv.sendStoreError(w, "list "+res.name, err)
		return
	}
	sendJSON(w, http.StatusOK, items)
}

func (res resource[T, P]) handleGet(w http.ResponseWriter, r *http.Request) {
	v, err := res.get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		res.srv.sendStoreError(w, "get "+res.name, err)
		return
	}
	sendJSON(w, http.StatusOK, v)
}

func (res resource[T, P]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var v T
	if !decodeJSON(w, r, &v) {
		return
	}
	v, err := res.prepare(v)
	if err != nil {
		res.srv.sendStoreError(w, "create "+res.name, err)
		return
	}
	if err := res.create(r.Context(), v); err != nil {
		res.srv.sendStoreError(w, "create "+res.name, err)
		return
	}
	sendJSON(w, http.StatusCreated, v)
}

func (res resource[T, P]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var p P
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := res.check(p); err != nil {
		res.srv.sendStoreError(w, "update "+res.name, err)
		return
	}
	v, err := res.update(r.Context(), mux.Vars(r)["id"], p)
	if err != nil {
		res.srv.sendStoreError(w, "update "+res.name, err)
		return
	}
	sendJSON(w, http.StatusOK, v)
}

func (res resource[T, P]) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := res.delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		res.srv.sendStoreError(w, "delete "+res.name, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
