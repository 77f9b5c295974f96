// ABOUTME: Input-side validation for new entities, settings ranges and lock codes
// ABOUTME: Runs before any mutation is attempted; failures wrap ErrValidation

package model

import (
	"strings"
)

// Settings bounds
const (
	MinBackgroundBlur = 0
	MaxBackgroundBlur = 20
	MinAppIconSize    = 48
	MaxAppIconSize    = 96
	MinBookCardSize   = 60
	MaxBookCardSize   = 120

	LockCodeLength = 4
)

// Themes lists the known theme ids. The first is the default.
var Themes = []string{"paper", "dark", "sepia", "ocean"}

// Validate checks a new or replacement app.
func (a AppShortcut) Validate() error {
	if isBlank(a.Name) {
		return invalid("name", "required")
	}
	if isBlank(a.Target) {
		return invalid("url", "required")
	}
	return nil
}

// Validate checks a new or replacement book. Title and author are required.
func (b BookEntry) Validate() error {
	if isBlank(b.Title) {
		return invalid("title", "required")
	}
	if isBlank(b.Author) {
		return invalid("author", "required")
	}
	if b.Mode != "" && !validMode(b.Mode) {
		return invalid("openWith", "must be url or app")
	}
	if b.Progress != nil && !progressInRange(*b.Progress) {
		return invalid("progress", "must be between 0 and 100")
	}
	if b.Rating != nil && !ratingInRange(*b.Rating) {
		return invalid("rating", "must be between 1 and 5")
	}
	return nil
}

// Validate checks a new or replacement vault entry.
func (s SecretEntry) Validate() error {
	if isBlank(s.Name) {
		return invalid("name", "required")
	}
	if isBlank(s.Target) {
		return invalid("url", "required")
	}
	if s.Kind != "" && s.Kind != SecretLink && s.Kind != SecretApp {
		return invalid("type", "must be link or app")
	}
	return nil
}

// WithDefaults fills the optional fields a new vault entry may omit.
func (s SecretEntry) WithDefaults() SecretEntry {
	if s.Kind == "" {
		s.Kind = SecretLink
	}
	if strings.TrimSpace(s.IconRef) == "" {
		s.IconRef = DefaultSecretIcon
		s.IconKind = IconEmoji
	}
	if s.IconKind == "" {
		s.IconKind = IconEmoji
	}
	return s
}

// WithDefaults fills the optional fields a new book may omit.
func (b BookEntry) WithDefaults() BookEntry {
	if b.Mode == "" {
		b.Mode = OpenWithURL
	}
	return b
}

// ValidateLockCode accepts exactly four decimal digits.
func ValidateLockCode(code string) error {
	if len(code) != LockCodeLength {
		return invalid("lockCode", "must be 4 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return invalid("lockCode", "must be 4 digits")
		}
	}
	return nil
}

// Normalize clamps sizes into their ranges, replaces an unknown theme with
// the default and keeps IsLocked consistent with the lock code.
func (s Settings) Normalize() Settings {
	if !isKnownTheme(s.ThemeID) {
		s.ThemeID = Themes[0]
	}
	s.BackgroundBlurRadius = clamp(s.BackgroundBlurRadius, MinBackgroundBlur, MaxBackgroundBlur)
	s.AppIconSize = clamp(s.AppIconSize, MinAppIconSize, MaxAppIconSize)
	s.BookCardSize = clamp(s.BookCardSize, MinBookCardSize, MaxBookCardSize)
	if !s.HasLockCode() {
		s.LockCode = ""
		s.IsLocked = false
	}
	return s
}

func isKnownTheme(id string) bool {
	for _, t := range Themes {
		if t == id {
			return true
		}
	}
	return false
}

func validMode(m OpenMode) bool {
	return m == OpenWithURL || m == OpenWithApp
}

func progressInRange(p int) bool {
	return p >= MinProgress && p <= MaxProgress
}

func ratingInRange(r int) bool {
	return r >= MinRating && r <= MaxRating
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
