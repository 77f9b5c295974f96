// ABOUTME: Partial update types for every collection and the settings singleton
// ABOUTME: Nil fields are left untouched; Apply returns the updated copy

package model

import (
	"slices"
	"time"
)

// AppPatch is a partial update of an AppShortcut.
type AppPatch struct {
	Name        *string `json:"name,omitempty"`
	Target      *string `json:"url,omitempty"`
	IconRef     *string `json:"icon,omitempty"`
	IsLocalPath *bool   `json:"isPath,omitempty"`
	IsImageIcon *bool   `json:"isImageIcon,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// Apply returns a copy of a with the patch applied. The id never changes.
func (p AppPatch) Apply(a AppShortcut) AppShortcut {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Target != nil {
		a.Target = *p.Target
	}
	if p.IconRef != nil {
		a.IconRef = *p.IconRef
	}
	if p.IsLocalPath != nil {
		a.IsLocalPath = *p.IsLocalPath
	}
	if p.IsImageIcon != nil {
		a.IsImageIcon = *p.IsImageIcon
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	return a
}

// Validate rejects patches that would blank a required field.
func (p AppPatch) Validate() error {
	if p.Name != nil && isBlank(*p.Name) {
		return invalid("name", "required")
	}
	if p.Target != nil && isBlank(*p.Target) {
		return invalid("url", "required")
	}
	return nil
}

// BookPatch is a partial update of a BookEntry. AddedAt is not patchable.
// A Rating of 0 clears the rating.
type BookPatch struct {
	Title        *string    `json:"title,omitempty"`
	Author       *string    `json:"author,omitempty"`
	CoverRef     *string    `json:"cover,omitempty"`
	Mode         *OpenMode  `json:"openWith,omitempty"`
	URL          *string    `json:"url,omitempty"`
	AppID        *string    `json:"appId,omitempty"`
	Progress     *int       `json:"progress,omitempty"`
	LastOpenedAt *time.Time `json:"lastRead,omitempty"`
	Genre        *string    `json:"genre,omitempty"`
	Tags         *[]string  `json:"tags,omitempty"`
	Rating       *int       `json:"rating,omitempty"`
	IsFavorite   *bool      `json:"isFavorite,omitempty"`
}

// Apply returns a copy of b with the patch applied.
func (p BookPatch) Apply(b BookEntry) BookEntry {
	b = b.Clone()
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.CoverRef != nil {
		b.CoverRef = *p.CoverRef
	}
	if p.Mode != nil {
		b.Mode = *p.Mode
	}
	if p.URL != nil {
		b.URL = *p.URL
	}
	if p.AppID != nil {
		b.AppID = *p.AppID
	}
	if p.Progress != nil {
		v := *p.Progress
		b.Progress = &v
	}
	if p.LastOpenedAt != nil {
		t := *p.LastOpenedAt
		b.LastOpenedAt = &t
	}
	if p.Genre != nil {
		b.Genre = *p.Genre
	}
	if p.Tags != nil {
		b.Tags = slices.Clone(*p.Tags)
	}
	if p.Rating != nil {
		if *p.Rating == 0 {
			b.Rating = nil
		} else {
			v := *p.Rating
			b.Rating = &v
		}
	}
	if p.IsFavorite != nil {
		b.IsFavorite = *p.IsFavorite
	}
	return b
}

// Validate rejects blanked required fields and out-of-range values.
func (p BookPatch) Validate() error {
	if p.Title != nil && isBlank(*p.Title) {
		return invalid("title", "required")
	}
	if p.Author != nil && isBlank(*p.Author) {
		return invalid("author", "required")
	}
	if p.Mode != nil && !validMode(*p.Mode) {
		return invalid("openWith", "must be url or app")
	}
	if p.Progress != nil && !progressInRange(*p.Progress) {
		return invalid("progress", "must be between 0 and 100")
	}
	if p.Rating != nil && *p.Rating != 0 && !ratingInRange(*p.Rating) {
		return invalid("rating", "must be between 1 and 5")
	}
	return nil
}

// SecretPatch is a partial update of a SecretEntry.
type SecretPatch struct {
	Name     *string     `json:"name,omitempty"`
	Target   *string     `json:"url,omitempty"`
	Kind     *SecretKind `json:"type,omitempty"`
	IconKind *IconKind   `json:"iconType,omitempty"`
	IconRef  *string     `json:"icon,omitempty"`
}

// Apply returns a copy of s with the patch applied.
func (p SecretPatch) Apply(s SecretEntry) SecretEntry {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Target != nil {
		s.Target = *p.Target
	}
	if p.Kind != nil {
		s.Kind = *p.Kind
	}
	if p.IconKind != nil {
		s.IconKind = *p.IconKind
	}
	if p.IconRef != nil {
		s.IconRef = *p.IconRef
	}
	return s
}

// Validate rejects blanked required fields and unknown kinds.
func (p SecretPatch) Validate() error {
	if p.Name != nil && isBlank(*p.Name) {
		return invalid("name", "required")
	}
	if p.Target != nil && isBlank(*p.Target) {
		return invalid("url", "required")
	}
	if p.Kind != nil && *p.Kind != SecretLink && *p.Kind != SecretApp {
		return invalid("type", "must be link or app")
	}
	return nil
}

// SettingsPatch is a partial update of Settings. A LockCode pointing at an
// empty string removes the code.
type SettingsPatch struct {
	ThemeID              *string `json:"theme,omitempty"`
	BackgroundImageRef   *string `json:"backgroundImage,omitempty"`
	BackgroundBlurRadius *int    `json:"backgroundBlur,omitempty"`
	AppIconSize          *int    `json:"appIconSize,omitempty"`
	BookCardSize         *int    `json:"bookCardSize,omitempty"`
	LockCode             *string `json:"lockCode,omitempty"`
	IsLocked             *bool   `json:"isLocked,omitempty"`
}

// Apply returns a normalized copy of s with the patch applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.ThemeID != nil {
		s.ThemeID = *p.ThemeID
	}
	if p.BackgroundImageRef != nil {
		s.BackgroundImageRef = *p.BackgroundImageRef
	}
	if p.BackgroundBlurRadius != nil {
		s.BackgroundBlurRadius = *p.BackgroundBlurRadius
	}
	if p.AppIconSize != nil {
		s.AppIconSize = *p.AppIconSize
	}
	if p.BookCardSize != nil {
		s.BookCardSize = *p.BookCardSize
	}
	if p.LockCode != nil {
		s.LockCode = *p.LockCode
	}
	if p.IsLocked != nil {
		s.IsLocked = *p.IsLocked
	}
	return s.Normalize()
}

// Validate checks the lock code format. Sizes are clamped, not rejected.
func (p SettingsPatch) Validate() error {
	if p.LockCode != nil && *p.LockCode != "" {
		return ValidateLockCode(*p.LockCode)
	}
	return nil
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
