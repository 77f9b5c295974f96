// Package model defines the launcher's entities and the rules that apply to
// them before any component stores or transmits them.
//
// # Entities
//
//   - AppShortcut: a launchable URL or local path shown on the home grid
//   - BookEntry: an item of the reading library, opened through a URL or
//     through one of the AppShortcuts
//   - SecretEntry: a shortcut kept in the hidden vault
//   - Note: a free-form note with HTML content
//   - Settings: the singleton holding theme, layout sizes and the lock code
//   - Snapshot: all of the above at one instant; the unit that is cached
//     locally and exchanged with the remote service
//
// # Optional fields
//
// Optional values are pointers (Progress, Rating, LastOpenedAt). Defaults are
// applied where the value is read, through ProgressOrZero, RatingOrZero and
// LastOpenedOrEpoch, never when it is stored.
//
// # Partial updates
//
// AppPatch, BookPatch, SecretPatch, NotePatch and SettingsPatch carry only the fields
// being changed. A nil field means "leave as is". They serialize to the PUT
// bodies the remote service expects and apply locally with Apply.
//
// # Wire format
//
// JSON field names follow the remote service contract (url, icon, isPath,
// openWith, lastRead, ...), so the same structs are used for the local cache
// blob, the HTTP client and the reference server.
//
// # Errors
//
// errors.go holds the error taxonomy shared by every layer:
// ErrNetworkUnavailable, ErrRemoteRejected, ErrValidation, ErrAuthFailure,
// ErrDanglingReference and ErrNotFound.
package model
