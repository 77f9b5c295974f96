// Package store provides persistent storage for the reference server.
//
// # Architecture
//
// Store is the single interface the HTTP handlers depend on. SQLiteStore
// implements it on modernc.org/sqlite (no CGO); MockStore implements it in
// memory for handler tests.
//
// # Data Model
//
// Apps, books, secrets and notes are kept one row per entity. The row holds the
// entity's JSON document (the same encoding the client and the wire use)
// and rows are listed in insertion order, which is the order the launcher
// displays them in. Settings is a single row. Uploaded files are tracked by
// metadata only; their bytes live in the upload directory.
//
// # Errors
//
// Lookups, updates and deletes of an unknown id return ErrNotFound. Creating
// an entity whose id is taken returns ErrDuplicate.
package store
