// Package cache persists the launcher snapshot on the local machine so the
// last known state survives restarts, whether or not the remote service is
// reachable.
//
// The whole snapshot is serialized as one JSON blob under a single fixed key
// (StateKey). Save is best-effort: a failure is logged and swallowed so the
// caller's mutation is never undone by a disk problem. Load returns nil when
// nothing usable is stored.
//
// Two implementations are provided:
//
//   - DiskCache: a diskv store rooted at a directory, with an in-memory read
//     cache in front of the file
//   - MemoryCache: keeps the blob in memory, for tests and ephemeral sessions
package cache
