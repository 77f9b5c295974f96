// ABOUTME: Tests for the library filter, sort and group pipeline
// ABOUTME: Covers permutation and idempotence over every parameter combination plus ordering rules

package library

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func at(day int) *time.Time {
	t := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func fixture() []model.BookEntry {
	return []model.BookEntry{
		{ID: "1", Title: "Zazie dans le métro", Author: "Queneau", Progress: model.Ptr(50), Genre: "Novel", Rating: model.Ptr(4), AddedAt: *at(3), LastOpenedAt: at(10)},
		{ID: "2", Title: "émile", Author: "Rousseau", Progress: model.Ptr(0), Genre: "Essay", AddedAt: *at(1)},
		{ID: "3", Title: "Dune", Author: "Herbert", Progress: model.Ptr(100), Genre: "SF", Rating: model.Ptr(5), AddedAt: *at(5), LastOpenedAt: at(2)},
		{ID: "4", Title: "alpha", Author: "Herbert", AddedAt: *at(4)},
		{ID: "5", Title: "Berlin", Author: "Döblin", Progress: model.Ptr(20), Rating: model.Ptr(4), AddedAt: *at(2), LastOpenedAt: at(7)},
	}
}

func ids(books []model.BookEntry) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestRun_PermutationAndIdempotence(t *testing.T) {
	books := fixture()
	before := fixture()

	sorts := []SortField{SortTitle, SortAuthor, SortAddedAt, SortLastRead, SortProgress, SortRating}
	orders := []SortOrder{Ascending, Descending}
	groups := []GroupBy{GroupNone, GroupStatus, GroupGenre, GroupAuthor, GroupRating}

	want := ids(books)
	sort.Strings(want)

	for _, sf := range sorts {
		for _, o := range orders {
			for _, g := range groups {
				q := Query{Sort: sf, Order: o, GroupBy: g, Locale: language.French}
				require.NoError(t, q.Validate())

				first := Run(books, q)
				got := ids(Flatten(first))
				sort.Strings(got)
				assert.Equal(t, want, got, "sort=%s order=%s group=%s", sf, o, g)

				for _, grp := range first {
					assert.NotEmpty(t, grp.Books, "empty group %q", grp.Key)
				}

				second := Run(books, q)
				assert.Equal(t, first, second, "sort=%s order=%s group=%s", sf, o, g)
			}
		}
	}

	assert.Equal(t, before, books, "input must not be mutated")
}

func TestRun_GroupByStatusOrder(t *testing.T) {
	books := []model.BookEntry{
		{ID: "done", Title: "c", Author: "x", Progress: model.Ptr(100)},
		{ID: "new", Title: "b", Author: "x", Progress: model.Ptr(0)},
		{ID: "mid", Title: "a", Author: "x", Progress: model.Ptr(50)},
	}

	groups := Run(books, Query{GroupBy: GroupStatus})
	require.Len(t, groups, 3)
	assert.Equal(t, "reading", groups[0].Key)
	assert.Equal(t, "toRead", groups[1].Key)
	assert.Equal(t, "finished", groups[2].Key)
	assert.Equal(t, []string{"mid"}, ids(groups[0].Books))
	assert.Equal(t, []string{"new"}, ids(groups[1].Books))
	assert.Equal(t, []string{"done"}, ids(groups[2].Books))
}

func TestSort_LastReadDescendingPutsUnreadLast(t *testing.T) {
	groups := Run(fixture(), Query{Sort: SortLastRead, Order: Descending})
	require.Len(t, groups, 1)

	got := ids(groups[0].Books)
	assert.Equal(t, []string{"1", "5", "3"}, got[:3])
	assert.ElementsMatch(t, []string{"2", "4"}, got[3:])
}

func TestSort_CollatedTitles(t *testing.T) {
	books := fixture()
	Sort(books, SortTitle, Ascending, language.French)
	assert.Equal(t, []string{"4", "5", "3", "2", "1"}, ids(books), "alpha, Berlin, Dune, émile, Zazie")

	Sort(books, SortTitle, Descending, language.French)
	assert.Equal(t, []string{"1", "2", "3", "5", "4"}, ids(books))
}

func TestSort_NumericTreatsAbsentAsZero(t *testing.T) {
	books := fixture()
	Sort(books, SortProgress, Ascending, language.Und)
	got := ids(books)
	assert.ElementsMatch(t, []string{"2", "4"}, got[:2])
	assert.Equal(t, []string{"5", "1", "3"}, got[2:])

	Sort(books, SortRating, Descending, language.Und)
	got = ids(books)
	assert.Equal(t, "3", got[0])
	assert.ElementsMatch(t, []string{"1", "5"}, got[1:3])
}

func TestFilter_Stages(t *testing.T) {
	books := fixture()

	assert.Equal(t, []string{"3", "4"}, ids(Filter(books, Query{Search: "HERB"})))
	assert.Equal(t, []string{"1"}, ids(Filter(books, Query{Search: "MÉTRO"})))
	assert.Equal(t, []string{"2", "4"}, ids(Filter(books, Query{Status: StatusToRead})))
	assert.Equal(t, []string{"1", "5"}, ids(Filter(books, Query{Status: StatusReading})))
	assert.Equal(t, []string{"3"}, ids(Filter(books, Query{Status: StatusFinished})))
	assert.Len(t, Filter(books, Query{Status: StatusAll}), 5)
	assert.Equal(t, []string{"2", "5"}, ids(Filter(books, Query{Authors: []string{"Rousseau", "Döblin"}})))
	assert.Equal(t, []string{"4"}, ids(Filter(books, Query{Search: "herbert", Status: StatusToRead})))
	assert.Empty(t, Filter(books, Query{Search: "nothing matches"}))
}

func TestRun_GroupByGenreAndRating(t *testing.T) {
	genres := Run(fixture(), Query{GroupBy: GroupGenre, Locale: language.English})
	keys := make([]string, len(genres))
	for i, g := range genres {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"Essay", "Novel", "SF", KeyNoGenre}, keys)
	assert.Equal(t, []string{"4", "5"}, ids(genres[3].Books))

	ratings := Run(fixture(), Query{GroupBy: GroupRating})
	keys = keys[:0]
	for _, g := range ratings {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"5", "4", KeyNotRated}, keys)
	assert.Equal(t, "★★★★☆", ratings[1].Label)
}

func TestRun_GroupByRatingKeepsOutOfRangeBooks(t *testing.T) {
	books := []model.BookEntry{
		{ID: "a", Title: "Seven", Rating: model.Ptr(7)},
		{ID: "b", Title: "Minus", Rating: model.Ptr(-1)},
		{ID: "c", Title: "Three", Rating: model.Ptr(3)},
	}

	groups := Run(books, Query{GroupBy: GroupRating})
	require.Len(t, groups, 2)
	assert.Equal(t, "3", groups[0].Key)
	assert.Equal(t, KeyNotRated, groups[1].Key)
	assert.ElementsMatch(t, []string{"a", "b"}, ids(groups[1].Books))
	assert.Len(t, Flatten(groups), len(books), "grouping never drops a book")
}

func TestRun_GroupByAuthor(t *testing.T) {
	groups := Run(fixture(), Query{GroupBy: GroupAuthor, Locale: language.German})
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"Döblin", "Herbert", "Queneau", "Rousseau"}, keys)
	assert.Equal(t, []string{"4", "3"}, ids(groups[1].Books), "sorted by title within the group")
}

func TestRun_EmptyInput(t *testing.T) {
	assert.Empty(t, Run(nil, Query{}))
	assert.Empty(t, Run(fixture(), Query{Search: "zzz", GroupBy: GroupStatus}))
}

func TestAuthorsAndGenres(t *testing.T) {
	assert.Equal(t, []string{"Döblin", "Herbert", "Queneau", "Rousseau"}, Authors(fixture(), language.German))
	assert.Equal(t, []string{"Essay", "Novel", "SF"}, Genres(fixture(), language.English))
}

func TestQuery_Validate(t *testing.T) {
	assert.NoError(t, Query{}.Validate())
	assert.Error(t, Query{Sort: "pages"}.Validate())
	assert.Error(t, Query{Order: "up"}.Validate())
	assert.Error(t, Query{Status: "abandoned"}.Validate())
	assert.Error(t, Query{GroupBy: "year"}.Validate())
}
