// Package library derives the views of the reading library: filtered,
// sorted and grouped lists of books.
//
// Everything here is a pure function of its input. Run never mutates the
// slice it is given and has no dependency on the store, the cache or the
// network, so the same books and Query always produce the same groups.
//
// # Pipeline
//
//	books ──► Filter ──► Sort ──► group ──► []Group
//
// Filter stages apply in order: free-text search over title and author
// (Unicode case folding), reading status derived from progress, then the
// author inclusion set. Titles and authors compare with a locale-aware
// collator; absent progress and rating count as 0 and an absent last-read
// time counts as the Unix epoch.
//
// Groups come back in a fixed order (reading, to read, finished for status;
// five stars down to "not rated" for rating; collated names with "no genre"
// last for genre) and empty groups are dropped.
package library
