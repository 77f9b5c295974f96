// Package remote is the only code that talks to the remote launcher service.
//
// # Results
//
// Every call returns a Result[T] instead of a bare error. A failed call is a
// normal outcome, not an exceptional one: the controller inspects Result.OK
// and falls back to a local commit. A failed round trip wraps one of:
//
//   - model.ErrNetworkUnavailable: the round trip could not complete
//     (connection refused, timeout, cancelled context)
//   - model.ErrRemoteRejected: the service answered with a non-2xx status or
//     a body that could not be decoded
//
// # Online flag
//
// IsOnline reflects the outcome of the most recent FetchState and nothing
// else. A failed create, update or delete leaves it untouched; only the next
// full fetch can flip it.
//
// # Unlock tokens
//
// A successful VerifyLockCode may carry a token. The client keeps the latest
// one and sends it as a Bearer token on every request, which is what the
// reference server requires on /open when configured to.
package remote
