// Package launcher is the composition root the UI collaborators talk to.
//
// A Controller owns one entity.Store, one cache.Cache and one Gateway for
// the lifetime of a session. Tests build a fresh Controller per case; there
// are no package-level singletons.
//
// # Mutations
//
// Every add, update and delete follows the same path:
//
//	ATTEMPT_REMOTE ─┬─ ok ─────────► COMMIT_REMOTE_ENTITY ─┐
//	                └─ fail/offline ► COMMIT_LOCAL_ENTITY ──┴─► PERSIST ─► DONE
//
// When the gateway is online the matching remote call is tried first and the
// entity it returns (possibly with a server-assigned id) is committed. When
// it fails, or the gateway is offline, the mutation is applied locally, with
// a time-ordered local id for creates. The snapshot is persisted to the
// cache after every mutation regardless of connectivity. Network failures
// are logged and never returned; only validation errors are.
//
// There are no retries and no replay queue. The next successful Refresh
// replaces local state with the server's wholesale.
//
// # Stale responses
//
// Each mutation of an entity takes a sequence number. A remote result is
// committed only if no later mutation of the same entity started while it
// was in flight; otherwise it is dropped and logged.
//
// # Access
//
// IsUnlocked and the vault gesture are backed by the access package. The
// lock is pass/fail with no attempt counter.
//
// # Opening
//
// OpenApp, OpenBook and OpenSecret are the only operations that surface
// failures (dangling app references, invalid book targets, an unreachable
// service with no local opener), since there is nothing to fall back to.
package launcher
