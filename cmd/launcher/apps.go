// ABOUTME: App shortcut subcommands: list, add, edit, rm and open
// ABOUTME: Writes go through the controller, which falls back to local state when offline

package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func (c *cli) appsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apps",
		Aliases: []string{"app"},
		Short:   "Manage app shortcuts",
	}

	var draft model.AppShortcut
	add := &cobra.Command{
		Use:   "add NAME TARGET",
		Short: "Add an app shortcut",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft.Name, draft.Target = args[0], args[1]
			app, err := c.ctl.AddApp(cmd.Context(), draft)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(c.out, "✓ Added %s (%s)\n", app.Name, app.ID)
			return nil
		},
	}
	add.Flags().StringVar(&draft.IconRef, "icon", "", "emoji or image reference")
	add.Flags().BoolVar(&draft.IsImageIcon, "image-icon", false, "icon is an image reference")
	add.Flags().BoolVar(&draft.IsLocalPath, "path", false, "target is a local path")
	add.Flags().StringVar(&draft.Category, "category", "", "category")

	var name, target, icon, category string
	var isPath bool
	edit := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of an app shortcut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.app(args[0]); err != nil {
				return err
			}
			f := cmd.Flags()
			var p model.AppPatch
			if f.Changed("name") {
				p.Name = &name
			}
			if f.Changed("target") {
				p.Target = &target
			}
			if f.Changed("icon") {
				p.IconRef = &icon
			}
			if f.Changed("category") {
				p.Category = &category
			}
			if f.Changed("path") {
				p.IsLocalPath = &isPath
			}
			if err := c.ctl.UpdateApp(cmd.Context(), args[0], p); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(c.out, "✓ Updated %s\n", args[0])
			return nil
		},
	}
	edit.Flags().StringVar(&name, "name", "", "new name")
	edit.Flags().StringVar(&target, "target", "", "new URL or path")
	edit.Flags().StringVar(&icon, "icon", "", "new icon")
	edit.Flags().StringVar(&category, "category", "", "new category")
	edit.Flags().BoolVar(&isPath, "path", false, "target is a local path")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List app shortcuts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c.printApps(c.ctl.Apps())
				return nil
			},
		},
		add,
		edit,
		&cobra.Command{
			Use:   "rm ID",
			Short: "Remove an app shortcut",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.app(args[0])
				if err != nil {
					return err
				}
				c.ctl.DeleteApp(cmd.Context(), app.ID)
				color.New(color.FgGreen).Fprintf(c.out, "✓ Removed %s\n", app.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "open ID",
			Short: "Open an app shortcut",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := c.app(args[0])
				if err != nil {
					return err
				}
				return c.ctl.OpenApp(cmd.Context(), app)
			},
		},
	)
	return cmd
}

func (c *cli) app(id string) (model.AppShortcut, error) {
	apps := c.ctl.Apps()
	i := slices.IndexFunc(apps, func(a model.AppShortcut) bool { return a.ID == id })
	if i < 0 {
		return model.AppShortcut{}, fmt.Errorf("no app with id %q", id)
	}
	return apps[i], nil
}

func (c *cli) printApps(apps []model.AppShortcut) {
	cyan := color.New(color.FgCyan)
	fmt.Fprintln(c.out)
	cyan.Fprintln(c.out, "  Apps")
	cyan.Fprintln(c.out, "  ----")

	if len(apps) == 0 {
		fmt.Fprintln(c.out, "  (no apps)")
		fmt.Fprintln(c.out)
		return
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tICON\tNAME\tTARGET\tCATEGORY")
	for _, a := range apps {
		target := a.Target
		if a.IsLocalPath {
			target += " (path)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", a.ID, a.IconRef, a.Name, truncate(target, 40), a.Category)
	}
	w.Flush()
	fmt.Fprintln(c.out)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
