// ABOUTME: Entity types for the launcher: app shortcuts, books, vault secrets and settings
// ABOUTME: JSON tags follow the remote service contract so one set of structs serves cache, client and server

package model

import (
	"slices"
	"strings"
	"time"
)

// Collection names one of the entity collections.
type Collection string

// Collections known to the store and the remote service.
const (
	CollectionApps     Collection = "apps"
	CollectionBooks    Collection = "books"
	CollectionSecrets  Collection = "secrets"
	CollectionNotes    Collection = "notes"
	CollectionSettings Collection = "settings"
)

// AppShortcut is a launchable URL or local path.
type AppShortcut struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Target      string `json:"url"`
	IconRef     string `json:"icon"`
	IsLocalPath bool   `json:"isPath"`
	IsImageIcon bool   `json:"isImageIcon,omitempty"` // IconRef is an image reference, not a glyph
	Category    string `json:"category,omitempty"`
}

// OpenMode selects how a book is opened.
type OpenMode string

// Open modes
const (
	OpenWithURL OpenMode = "url"
	OpenWithApp OpenMode = "app"
)

// OpenTarget tells how a book is launched. Its fields are flattened into the
// book's JSON object (openWith, url, appId).
type OpenTarget struct {
	Mode  OpenMode `json:"openWith"`
	URL   string   `json:"url,omitempty"`
	AppID string   `json:"appId,omitempty"` // must name an AppShortcut when Mode is OpenWithApp
}

// ReadingStatus is derived from a book's progress.
type ReadingStatus string

// Reading statuses in their canonical display order.
const (
	StatusReading  ReadingStatus = "reading"
	StatusToRead   ReadingStatus = "toRead"
	StatusFinished ReadingStatus = "finished"
)

// Progress and rating bounds
const (
	MinProgress = 0
	MaxProgress = 100
	MinRating   = 1
	MaxRating   = 5
)

// BookEntry is an item of the reading library.
type BookEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverRef string `json:"cover,omitempty"`
	OpenTarget
	Progress     *int       `json:"progress,omitempty"` // 0-100
	LastOpenedAt *time.Time `json:"lastRead,omitempty"`
	AddedAt      time.Time  `json:"addedAt"` // set once at creation
	Genre        string     `json:"genre,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Rating       *int       `json:"rating,omitempty"` // 1-5
	IsFavorite   bool       `json:"isFavorite,omitempty"`
}

// ProgressOrZero returns the progress, treating an absent value as 0.
func (b BookEntry) ProgressOrZero() int {
	if b.Progress == nil {
		return 0
	}
	return *b.Progress
}

// RatingOrZero returns the rating, treating an absent value as 0 (not rated).
func (b BookEntry) RatingOrZero() int {
	if b.Rating == nil {
		return 0
	}
	return *b.Rating
}

// LastOpenedOrEpoch returns the last open time, treating an absent value as
// the Unix epoch so unopened books sort as the oldest.
func (b BookEntry) LastOpenedOrEpoch() time.Time {
	if b.LastOpenedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	return *b.LastOpenedAt
}

// Status derives the reading status from progress.
func (b BookEntry) Status() ReadingStatus {
	p := b.ProgressOrZero()
	switch {
	case p >= MaxProgress:
		return StatusFinished
	case p > MinProgress:
		return StatusReading
	default:
		return StatusToRead
	}
}

// Clone returns a deep copy of the book.
func (b BookEntry) Clone() BookEntry {
	out := b
	if b.Progress != nil {
		p := *b.Progress
		out.Progress = &p
	}
	if b.Rating != nil {
		r := *b.Rating
		out.Rating = &r
	}
	if b.LastOpenedAt != nil {
		t := *b.LastOpenedAt
		out.LastOpenedAt = &t
	}
	out.Tags = slices.Clone(b.Tags)
	return out
}

// SecretKind tells whether a vault entry is a link or a local app.
type SecretKind string

// Secret kinds
const (
	SecretLink SecretKind = "link"
	SecretApp  SecretKind = "app"
)

// IconKind tells how IconRef should be interpreted.
type IconKind string

// Icon kinds
const (
	IconEmoji IconKind = "emoji"
	IconImage IconKind = "image"
)

// DefaultSecretIcon is used when a vault entry is created without an icon.
const DefaultSecretIcon = "🔒"

// SecretEntry is a shortcut kept in the hidden vault.
type SecretEntry struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Target   string     `json:"url"`
	Kind     SecretKind `json:"type"`
	IconKind IconKind   `json:"iconType,omitempty"`
	IconRef  string     `json:"icon"`
}

// Settings is the singleton holding presentation preferences and the lock code.
type Settings struct {
	ThemeID              string `json:"theme"`
	BackgroundImageRef   string `json:"backgroundImage,omitempty"`
	BackgroundBlurRadius int    `json:"backgroundBlur"`
	AppIconSize          int    `json:"appIconSize"`
	BookCardSize         int    `json:"bookCardSize"`
	LockCode             string `json:"lockCode,omitempty"` // empty means no gate
	IsLocked             bool   `json:"isLocked"`
}

// HasLockCode reports whether a lock code gates the UI.
func (s Settings) HasLockCode() bool {
	return strings.TrimSpace(s.LockCode) != ""
}

// Snapshot is the full state of every collection at one instant.
type Snapshot struct {
	Apps     []AppShortcut `json:"apps"`
	Books    []BookEntry   `json:"books"`
	Settings Settings      `json:"settings"`
	Secrets  []SecretEntry `json:"secrets,omitempty"`
	Notes    []Note        `json:"notes,omitempty"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Apps:     slices.Clone(s.Apps),
		Settings: s.Settings,
		Secrets:  slices.Clone(s.Secrets),
		Notes:    slices.Clone(s.Notes),
	}
	if s.Books != nil {
		out.Books = make([]BookEntry, len(s.Books))
		for i, b := range s.Books {
			out.Books[i] = b.Clone()
		}
	}
	return out
}

// FindApp returns the app with the given id.
func (s Snapshot) FindApp(id string) (AppShortcut, bool) {
	for _, a := range s.Apps {
		if a.ID == id {
			return a, true
		}
	}
	return AppShortcut{}, false
}
