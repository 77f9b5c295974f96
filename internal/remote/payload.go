// ABOUTME: Shape checks for decoded success payloads before they reach the entity store
// ABOUTME: An entity without an id or with a blanked required field is treated as a rejection

package remote

import (
	"errors"
	"fmt"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

var errMissingID = errors.New("missing id")

type validator interface {
	Validate() error
}

func validEntity(id string, v validator) error {
	if id == "" {
		return errMissingID
	}
	return v.Validate()
}

func validApp(a model.AppShortcut) error    { return validEntity(a.ID, a) }
func validBook(b model.BookEntry) error     { return validEntity(b.ID, b) }
func validSecret(s model.SecretEntry) error { return validEntity(s.ID, s) }
func validNote(n model.Note) error          { return validEntity(n.ID, n) }

func validList[T any](check func(T) error) func([]T) error {
	return func(items []T) error {
		for i, item := range items {
			if err := check(item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	}
}

func validSnapshot(s model.Snapshot) error {
	if err := validList(validApp)(s.Apps); err != nil {
		return fmt.Errorf("apps: %w", err)
	}
	if err := validList(validBook)(s.Books); err != nil {
		return fmt.Errorf("books: %w", err)
	}
	if err := validList(validSecret)(s.Secrets); err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	if err := validList(validNote)(s.Notes); err != nil {
		return fmt.Errorf("notes: %w", err)
	}
	return nil
}

func validUpload(u model.UploadResponse) error {
	if u.ID == "" {
		return errMissingID
	}
	return nil
}
