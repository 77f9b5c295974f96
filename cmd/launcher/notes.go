// ABOUTME: Notes subcommands: list, add, show, edit and rm
// ABOUTME: Content is stored as HTML (--markdown renders it); listings show a plain-text excerpt

package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

const noteTimeLayout = "2006-01-02 15:04"

func (c *cli) notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
	}

	var content string
	var addMarkdown bool
	add := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "Add a note",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := noteBody(content, addMarkdown)
			if err != nil {
				return err
			}
			draft := model.Note{Content: body}
			if len(args) == 1 {
				draft.Title = args[0]
			}
			note, err := c.ctl.AddNote(cmd.Context(), draft)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(c.out, "✓ Added %s (%s)\n", note.Title, note.ID)
			return nil
		},
	}
	add.Flags().StringVar(&content, "content", "", "note body (HTML)")
	add.Flags().BoolVar(&addMarkdown, "markdown", false, "treat --content as markdown and render it to HTML")

	var title, body string
	var editMarkdown bool
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := c.note(args[0])
			if err != nil {
				return err
			}
			var p model.NotePatch
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			if cmd.Flags().Changed("content") {
				rendered, err := noteBody(body, editMarkdown)
				if err != nil {
					return err
				}
				p.Content = &rendered
			}
			if p.Title == nil && p.Content == nil {
				return fmt.Errorf("nothing to change: pass --title or --content")
			}
			if err := c.ctl.UpdateNote(cmd.Context(), note.ID, p); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(c.out, "✓ Updated %s\n", note.ID)
			return nil
		},
	}
	edit.Flags().StringVar(&title, "title", "", "new title")
	edit.Flags().StringVar(&body, "content", "", "new body (HTML)")
	edit.Flags().BoolVar(&editMarkdown, "markdown", false, "treat --content as markdown and render it to HTML")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List notes, most recently edited first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c.printNotes(c.ctl.Notes())
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:   "show ID",
			Short: "Print a note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				note, err := c.note(args[0])
				if err != nil {
					return err
				}
				color.New(color.FgCyan, color.Bold).Fprintln(c.out, note.Title)
				color.New(color.FgHiBlack).Fprintf(c.out, "created %s · edited %s\n\n",
					note.CreatedAt.Local().Format(noteTimeLayout), note.UpdatedAt.Local().Format(noteTimeLayout))
				fmt.Fprintln(c.out, note.Excerpt(len(note.Content)))
				return nil
			},
		},
		edit,
		&cobra.Command{
			Use:   "rm ID",
			Short: "Remove a note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				note, err := c.note(args[0])
				if err != nil {
					return err
				}
				c.ctl.DeleteNote(cmd.Context(), note.ID)
				color.New(color.FgGreen).Fprintf(c.out, "✓ Removed %s\n", note.Title)
				return nil
			},
		},
	)
	return cmd
}

// noteBody returns content as stored: HTML as given, or markdown rendered.
func noteBody(content string, markdown bool) (string, error) {
	if !markdown || content == "" {
		return content, nil
	}
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(content), &html); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.TrimSpace(html.String()), nil
}

func (c *cli) note(id string) (model.Note, error) {
	note, ok := c.ctl.Note(id)
	if !ok {
		return model.Note{}, fmt.Errorf("no note with id %q", id)
	}
	return note, nil
}

func (c *cli) printNotes(notes []model.Note) {
	fmt.Fprintln(c.out)
	if len(notes) == 0 {
		fmt.Fprintln(c.out, "  (no notes)")
		fmt.Fprintln(c.out)
		return
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tTITLE\tEDITED\tEXCERPT")
	for _, n := range notes {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", n.ID, truncate(n.Title, 30),
			n.UpdatedAt.Local().Format(noteTimeLayout), n.Excerpt(40))
	}
	w.Flush()
	fmt.Fprintln(c.out)
}
