// ABOUTME: Grouping stage and the Run entry point of the library view pipeline
// ABOUTME: Groups come back in a fixed canonical order with empty groups dropped

package library

import (
	"strconv"
	"strings"

	"golang.org/x/text/collate"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// GroupBy names the derived key books are partitioned by.
type GroupBy string

// Groupings
const (
	GroupNone   GroupBy = "none"
	GroupStatus GroupBy = "status"
	GroupGenre  GroupBy = "genre"
	GroupAuthor GroupBy = "author"
	GroupRating GroupBy = "rating"
)

// Keys of the catch-all buckets.
const (
	KeyAll      = "all"
	KeyNoGenre  = "noGenre"
	KeyNotRated = "notRated"
)

// Group is one section of a library view. Books keep the sorted order.
type Group struct {
	Key   string
	Label string
	Books []model.BookEntry
}

var statusLabels = map[model.ReadingStatus]string{
	model.StatusReading:  "Reading",
	model.StatusToRead:   "To read",
	model.StatusFinished: "Finished",
}

// Run filters, sorts and groups books. The input slice is left untouched.
func Run(books []model.BookEntry, q Query) []Group {
	filtered := Filter(books, q)
	Sort(filtered, q.Sort, q.Order, q.Locale)

	switch q.GroupBy {
	case GroupStatus:
		return byStatus(filtered)
	case GroupGenre:
		return byName(filtered, q, KeyNoGenre, "No genre", func(b model.BookEntry) string { return b.Genre })
	case GroupAuthor:
		return byName(filtered, q, "", "", func(b model.BookEntry) string { return b.Author })
	case GroupRating:
		return byRating(filtered)
	default:
		if len(filtered) == 0 {
			return nil
		}
		return []Group{{Key: KeyAll, Label: "All books", Books: filtered}}
	}
}

func byStatus(books []model.BookEntry) []Group {
	order := []model.ReadingStatus{model.StatusReading, model.StatusToRead, model.StatusFinished}
	buckets := make(map[model.ReadingStatus][]model.BookEntry, len(order))
	for _, b := range books {
		buckets[b.Status()] = append(buckets[b.Status()], b)
	}

	var out []Group
	for _, s := range order {
		if len(buckets[s]) == 0 {
			continue
		}
		out = append(out, Group{Key: string(s), Label: statusLabels[s], Books: buckets[s]})
	}
	return out
}

// byName groups by a free-text key in collation order. Books with an empty
// key go to a trailing bucket when emptyKey is set, and are otherwise grouped
// under their (blank) name like any other.
func byName(books []model.BookEntry, q Query, emptyKey, emptyLabel string, key func(model.BookEntry) string) []Group {
	buckets := make(map[string][]model.BookEntry)
	var names []string
	var rest []model.BookEntry
	for _, b := range books {
		k := strings.TrimSpace(key(b))
		if k == "" && emptyKey != "" {
			rest = append(rest, b)
			continue
		}
		if _, ok := buckets[k]; !ok {
			names = append(names, k)
		}
		buckets[k] = append(buckets[k], b)
	}

	collate.New(q.Locale).SortStrings(names)

	out := make([]Group, 0, len(names)+1)
	for _, n := range names {
		out = append(out, Group{Key: n, Label: n, Books: buckets[n]})
	}
	if len(rest) > 0 {
		out = append(out, Group{Key: emptyKey, Label: emptyLabel, Books: rest})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func byRating(books []model.BookEntry) []Group {
	buckets := make(map[int][]model.BookEntry)
	for _, b := range books {
		r := b.RatingOrZero()
		// Out-of-range ratings (legacy data, hand-edited caches) read as unrated.
		if r < model.MinRating || r > model.MaxRating {
			r = 0
		}
		buckets[r] = append(buckets[r], b)
	}

	var out []Group
	for r := model.MaxRating; r >= model.MinRating; r-- {
		if len(buckets[r]) == 0 {
			continue
		}
		out = append(out, Group{
			Key:   strconv.Itoa(r),
			Label: strings.Repeat("★", r) + strings.Repeat("☆", model.MaxRating-r),
			Books: buckets[r],
		})
	}
	if len(buckets[0]) > 0 {
		out = append(out, Group{Key: KeyNotRated, Label: "Not rated", Books: buckets[0]})
	}
	return out
}

// Flatten concatenates the books of every group in order.
func Flatten(groups []Group) []model.BookEntry {
	var out []model.BookEntry
	for _, g := range groups {
		out = append(out, g.Books...)
	}
	return out
}
