// ABOUTME: Library subcommands: filtered and grouped listing, add, edit, rm and open
// ABOUTME: Listing runs the library query engine with the configured collation locale

package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moullakill/bookos-dream-launcher/internal/library"
	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// bookFlags holds the editable fields of a book as command-line flags.
type bookFlags struct {
	title, author, cover string
	url, app             string
	genre                string
	tags                 []string
	progress, rating     int
	favorite             bool
}

func (b *bookFlags) register(cmd *cobra.Command, withNames bool) {
	f := cmd.Flags()
	if withNames {
		f.StringVar(&b.title, "title", "", "title")
		f.StringVar(&b.author, "author", "", "author")
	}
	f.StringVar(&b.cover, "cover", "", "cover image reference")
	f.StringVar(&b.url, "url", "", "open the book at this URL")
	f.StringVar(&b.app, "app", "", "open the book with this app id")
	f.StringVar(&b.genre, "genre", "", "genre")
	f.StringSliceVar(&b.tags, "tags", nil, "comma-separated tags")
	f.IntVar(&b.progress, "progress", 0, "reading progress, 0-100")
	f.IntVar(&b.rating, "rating", 0, "rating, 1-5 (0 clears)")
	f.BoolVar(&b.favorite, "favorite", false, "mark as favorite")
}

// patch builds a BookPatch from the flags the user actually set.
func (b *bookFlags) patch(cmd *cobra.Command) model.BookPatch {
	f := cmd.Flags()
	var p model.BookPatch
	if f.Changed("title") {
		p.Title = &b.title
	}
	if f.Changed("author") {
		p.Author = &b.author
	}
	if f.Changed("cover") {
		p.CoverRef = &b.cover
	}
	if f.Changed("url") {
		p.Mode = model.Ptr(model.OpenWithURL)
		p.URL = &b.url
	}
	if f.Changed("app") {
		p.Mode = model.Ptr(model.OpenWithApp)
		p.AppID = &b.app
	}
	if f.Changed("genre") {
		p.Genre = &b.genre
	}
	if f.Changed("tags") {
		p.Tags = &b.tags
	}
	if f.Changed("progress") {
		p.Progress = &b.progress
	}
	if f.Changed("rating") {
		p.Rating = &b.rating
	}
	if f.Changed("favorite") {
		p.IsFavorite = &b.favorite
	}
	return p
}

func (c *cli) booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"book", "library"},
		Short:   "Browse and manage the library",
	}

	var q library.Query
	var status, sortField, order, group string
	list := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered, sorted and grouped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Status = library.StatusFilter(status)
			q.Sort = library.SortField(sortField)
			q.Order = library.SortOrder(order)
			q.GroupBy = library.GroupBy(group)
			if err := q.Validate(); err != nil {
				return err
			}
			c.printLibrary(c.ctl.Library(q), q.GroupBy)
			return nil
		},
	}
	list.Flags().StringVar(&q.Search, "search", "", "match title or author")
	list.Flags().StringVar(&status, "status", "", "all, reading, toRead or finished")
	list.Flags().StringSliceVar(&q.Authors, "author", nil, "only these authors (repeatable)")
	list.Flags().StringVar(&sortField, "sort", "", "title, author, addedAt, lastRead, progress or rating")
	list.Flags().StringVar(&order, "order", "", "asc or desc")
	list.Flags().StringVar(&group, "group", "", "none, status, genre, author or rating")

	var addFlags bookFlags
	add := &cobra.Command{
		Use:   "add TITLE AUTHOR",
		Short: "Add a book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := model.BookEntry{Title: args[0], Author: args[1]}
			draft = addFlags.patch(cmd).Apply(draft)
			book, err := c.ctl.AddBook(cmd.Context(), draft)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(c.out, "✓ Added %q by %s (%s)\n", book.Title, book.Author, book.ID)
			return nil
		},
	}
	addFlags.register(add, false)

	var editFlags bookFlags
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.book(args[0]); err != nil {
				return err
			}
			if err := c.ctl.UpdateBook(cmd.Context(), args[0], editFlags.patch(cmd)); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(c.out, "✓ Updated %s\n", args[0])
			return nil
		},
	}
	editFlags.register(edit, true)

	cmd.AddCommand(
		list,
		add,
		edit,
		&cobra.Command{
			Use:   "rm ID",
			Short: "Remove a book",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				book, err := c.book(args[0])
				if err != nil {
					return err
				}
				c.ctl.DeleteBook(cmd.Context(), book.ID)
				color.New(color.FgGreen).Fprintf(c.out, "✓ Removed %q\n", book.Title)
				return nil
			},
		},
		&cobra.Command{
			Use:   "open ID",
			Short: "Open a book and mark it as last read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				book, err := c.book(args[0])
				if err != nil {
					return err
				}
				return c.ctl.OpenBook(cmd.Context(), book)
			},
		},
		&cobra.Command{
			Use:   "progress ID PERCENT",
			Short: "Record reading progress",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := c.book(args[0]); err != nil {
					return err
				}
				p, err := parseProgress(args[1])
				if err != nil {
					return err
				}
				return c.ctl.UpdateBook(cmd.Context(), args[0], model.BookPatch{Progress: &p})
			},
		},
		&cobra.Command{
			Use:   "authors",
			Short: "List distinct authors",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, a := range c.ctl.Authors() {
					fmt.Fprintln(c.out, a)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "genres",
			Short: "List distinct genres",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, g := range c.ctl.Genres() {
					fmt.Fprintln(c.out, g)
				}
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) book(id string) (model.BookEntry, error) {
	books := c.ctl.Books()
	i := slices.IndexFunc(books, func(b model.BookEntry) bool { return b.ID == id })
	if i < 0 {
		return model.BookEntry{}, fmt.Errorf("no book with id %q", id)
	}
	return books[i], nil
}

func (c *cli) printLibrary(groups []library.Group, by library.GroupBy) {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	fmt.Fprintln(c.out)
	cyan.Fprintln(c.out, "  Library")
	cyan.Fprintln(c.out, "  -------")

	if len(groups) == 0 {
		fmt.Fprintln(c.out, "  (no books)")
		fmt.Fprintln(c.out)
		return
	}

	for _, g := range groups {
		if by != "" && by != library.GroupNone {
			yellow.Fprintf(c.out, "\n  %s (%d)\n", g.Label, len(g.Books))
		}
		w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tTITLE\tAUTHOR\tPROGRESS\tRATING\tLAST READ")
		for _, b := range g.Books {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%d%%\t%s\t%s\n",
				b.ID, truncate(favoriteMark(b)+b.Title, 40), truncate(b.Author, 24),
				b.ProgressOrZero(), stars(b.RatingOrZero()), lastRead(b))
		}
		w.Flush()
	}
	fmt.Fprintln(c.out)
}

func favoriteMark(b model.BookEntry) string {
	if b.IsFavorite {
		return "♥ "
	}
	return ""
}

func stars(rating int) string {
	if rating == 0 {
		return "-"
	}
	return strings.Repeat("★", rating)
}

func lastRead(b model.BookEntry) string {
	if b.LastOpenedAt == nil {
		return "never"
	}
	return b.LastOpenedAt.Local().Format("Jan 02 15:04")
}

// parseProgress accepts "42" or "42%".
func parseProgress(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, fmt.Errorf("invalid progress %q", s)
	}
	return v, nil
}
