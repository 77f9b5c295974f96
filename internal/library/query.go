// ABOUTME: Filter and sort stages of the library view pipeline
// ABOUTME: Locale-aware title/author ordering via x/text collate; search uses Unicode case folding

package library

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// SortField names the key books are ordered by.
type SortField string

// Sort fields
const (
	SortTitle    SortField = "title"
	SortAuthor   SortField = "author"
	SortAddedAt  SortField = "addedAt"
	SortLastRead SortField = "lastRead"
	SortProgress SortField = "progress"
	SortRating   SortField = "rating"
)

// SortOrder is ascending or descending.
type SortOrder string

// Sort orders
const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// StatusFilter restricts books by reading status. StatusAll keeps every book.
type StatusFilter string

// Status filters
const (
	StatusAll      StatusFilter = "all"
	StatusReading  StatusFilter = "reading"
	StatusToRead   StatusFilter = "toRead"
	StatusFinished StatusFilter = "finished"
)

// Query holds every parameter of a library view. The zero value keeps all
// books in title order, ungrouped, using the root collation.
type Query struct {
	Search  string
	Status  StatusFilter
	Authors []string // empty means every author
	Sort    SortField
	Order   SortOrder
	GroupBy GroupBy
	Locale  language.Tag
}

// Validate rejects unknown enum values.
func (q Query) Validate() error {
	switch q.Status {
	case "", StatusAll, StatusReading, StatusToRead, StatusFinished:
	default:
		return fmt.Errorf("unknown status filter %q", q.Status)
	}
	switch q.Sort {
	case "", SortTitle, SortAuthor, SortAddedAt, SortLastRead, SortProgress, SortRating:
	default:
		return fmt.Errorf("unknown sort field %q", q.Sort)
	}
	switch q.Order {
	case "", Ascending, Descending:
	default:
		return fmt.Errorf("unknown sort order %q", q.Order)
	}
	switch q.GroupBy {
	case "", GroupNone, GroupStatus, GroupGenre, GroupAuthor, GroupRating:
	default:
		return fmt.Errorf("unknown grouping %q", q.GroupBy)
	}
	return nil
}

// Filter returns the books matching the search text, status and author set,
// in their original order.
func Filter(books []model.BookEntry, q Query) []model.BookEntry {
	fold := cases.Fold()
	needle := fold.String(q.Search)

	var authors map[string]struct{}
	if len(q.Authors) > 0 {
		authors = make(map[string]struct{}, len(q.Authors))
		for _, a := range q.Authors {
			authors[a] = struct{}{}
		}
	}

	out := make([]model.BookEntry, 0, len(books))
	for _, b := range books {
		if needle != "" &&
			!strings.Contains(fold.String(b.Title), needle) &&
			!strings.Contains(fold.String(b.Author), needle) {
			continue
		}
		if q.Status != "" && q.Status != StatusAll && StatusFilter(b.Status()) != q.Status {
			continue
		}
		if authors != nil {
			if _, ok := authors[b.Author]; !ok {
				continue
			}
		}
		out = append(out, b.Clone())
	}
	return out
}

// Sort orders books in place by field. Equal keys keep their relative order.
func Sort(books []model.BookEntry, field SortField, order SortOrder, locale language.Tag) {
	col := collate.New(locale)
	compare := comparator(field, col)
	slices.SortStableFunc(books, func(a, b model.BookEntry) int {
		if order == Descending {
			return -compare(a, b)
		}
		return compare(a, b)
	})
}

func comparator(field SortField, col *collate.Collator) func(a, b model.BookEntry) int {
	switch field {
	case SortAuthor:
		return func(a, b model.BookEntry) int { return col.CompareString(a.Author, b.Author) }
	case SortAddedAt:
		return func(a, b model.BookEntry) int { return a.AddedAt.Compare(b.AddedAt) }
	case SortLastRead:
		return func(a, b model.BookEntry) int { return a.LastOpenedOrEpoch().Compare(b.LastOpenedOrEpoch()) }
	case SortProgress:
		return func(a, b model.BookEntry) int { return cmp.Compare(a.ProgressOrZero(), b.ProgressOrZero()) }
	case SortRating:
		return func(a, b model.BookEntry) int { return cmp.Compare(a.RatingOrZero(), b.RatingOrZero()) }
	default:
		return func(a, b model.BookEntry) int { return col.CompareString(a.Title, b.Title) }
	}
}

// Authors returns the distinct authors of books in collation order.
func Authors(books []model.BookEntry, locale language.Tag) []string {
	return distinct(books, locale, func(b model.BookEntry) string { return b.Author })
}

// Genres returns the distinct non-empty genres of books in collation order.
func Genres(books []model.BookEntry, locale language.Tag) []string {
	return distinct(books, locale, func(b model.BookEntry) string { return b.Genre })
}

func distinct(books []model.BookEntry, locale language.Tag, key func(model.BookEntry) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range books {
		k := strings.TrimSpace(key(b))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	collate.New(locale).SortStrings(out)
	return out
}
