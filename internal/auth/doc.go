// Package auth issues and checks unlock tokens for the reference server.
//
// A successful lock-code verification returns an HS256 JWT signed with the
// configured jwt_secret. When require_unlock_for_open is set, the /open
// endpoint sits behind RequireUnlock, which accepts only requests carrying
// that token as "Authorization: Bearer <token>".
//
// Tokens carry iss, sub (the unlocked device, "launcher" unless the caller
// chooses otherwise), iat, exp and scope. RequireUnlock is given the scope an
// endpoint needs; a valid token without it is refused like a forged one.
// A correct lock code grants UnlockScopes. Expired tokens fail with
// ErrExpiredToken so callers can tell "verify again" from "forged".
package auth
