// ABOUTME: Seed state used when neither the local cache nor the remote service has any
// ABOUTME: Default settings plus a few starter shortcuts and one library book

package model

import "time"

// DefaultSettings returns the settings of a fresh install: paper theme, no lock.
func DefaultSettings() Settings {
	return Settings{
		ThemeID:              "paper",
		BackgroundBlurRadius: 8,
		AppIconSize:          64,
		BookCardSize:         80,
		IsLocked:             false,
	}
}

// DefaultSnapshot returns the seed state. addedAt of the seed book is now.
func DefaultSnapshot(now time.Time) Snapshot {
	progress := 45
	return Snapshot{
		Apps: []AppShortcut{
			{ID: "1", Name: "Kindle", Target: "https://read.amazon.com", IconRef: "📚"},
			{ID: "2", Name: "Calibre", Target: "/calibre", IconRef: "📖", IsLocalPath: true},
			{ID: "3", Name: "Pocket", Target: "https://getpocket.com", IconRef: "📌"},
		},
		Books: []BookEntry{
			{
				ID:         "1",
				Title:      "1984",
				Author:     "George Orwell",
				OpenTarget: OpenTarget{Mode: OpenWithURL, URL: "https://example.com/1984"},
				Progress:   &progress,
				AddedAt:    now.UTC(),
			},
		},
		Settings: DefaultSettings(),
	}
}
