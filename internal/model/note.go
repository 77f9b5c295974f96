// ABOUTME: Free-form notes kept alongside the launcher: title, HTML content and timestamps
// ABOUTME: A blank title is replaced with DefaultNoteTitle instead of being rejected

package model

import (
	"strings"
	"time"
)

// DefaultNoteTitle names a note whose title was left blank.
const DefaultNoteTitle = "Untitled"

// Note is a free-form note. Content is an HTML fragment.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WithDefaults replaces a blank title.
func (n Note) WithDefaults() Note {
	if isBlank(n.Title) {
		n.Title = DefaultNoteTitle
	}
	return n
}

// Validate checks a stored note. New notes go through WithDefaults first.
func (n Note) Validate() error {
	if isBlank(n.Title) {
		return invalid("title", "required")
	}
	return nil
}

// Excerpt returns the content with tags stripped, cut to at most limit runes.
func (n Note) Excerpt(limit int) string {
	var b strings.Builder
	inTag := false
	for _, r := range n.Content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	text := strings.Join(strings.Fields(b.String()), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}

// NotePatch is a partial update of a Note. UpdatedAt is stamped by the
// caller making the change.
type NotePatch struct {
	Title     *string    `json:"title,omitempty"`
	Content   *string    `json:"content,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Apply returns a copy of n with the patch applied.
func (p NotePatch) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.UpdatedAt != nil {
		n.UpdatedAt = *p.UpdatedAt
	}
	return n.WithDefaults()
}

// Validate accepts every note patch; a blanked title falls back to the default.
func (p NotePatch) Validate() error {
	return nil
}
