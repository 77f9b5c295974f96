// Package entity holds the authoritative in-memory collections the launcher
// renders from.
//
// # Architecture
//
// A Store owns one ordered table per collection (apps, books, secrets) and
// the settings singleton. Every read returns a copy, so callers can never
// mutate stored entities behind the store's back.
//
//	Controller ──► Store ──► Events() ──► UI collaborators
//	                 │
//	                 └──► Snapshot() ──► cache.Save
//
// # Semantics
//
//   - Create assigns a time-ordered UUID when the entity has no id
//   - Update of a missing id is logged and reported as false, never an error
//   - Delete is idempotent
//   - Put inserts or replaces by id (used to apply server-confirmed entities)
//   - ReplaceAll swaps every collection at once (initial load, full fetch)
//
// There is no cross-collection validation: a book may keep pointing at an
// app that has been deleted. Consumers resolve references defensively.
//
// # Events
//
// Each mutation emits an Event on a buffered channel. Emission never blocks;
// when the buffer is full the event is dropped and a debug line is logged.
package entity
