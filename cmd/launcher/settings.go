// ABOUTME: State overview, settings, lock code and upload subcommands
// ABOUTME: Settings writes are partial; the lock code is managed through the lock subcommands

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func (c *cli) stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show connection, lock and library overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			green := color.New(color.FgGreen)
			yellow := color.New(color.FgYellow)
			s := c.ctl.Settings()

			fmt.Fprint(c.out, "Remote:   ")
			if c.ctl.IsOnline() {
				green.Fprintln(c.out, "online")
			} else {
				yellow.Fprintln(c.out, "offline (local changes only)")
			}
			fmt.Fprint(c.out, "Lock:     ")
			switch {
			case !s.HasLockCode():
				fmt.Fprintln(c.out, "no code")
			case c.ctl.IsUnlocked():
				green.Fprintln(c.out, "unlocked")
			default:
				yellow.Fprintln(c.out, "locked")
			}
			fmt.Fprintf(c.out, "Apps:     %d\n", len(c.ctl.Apps()))
			fmt.Fprintf(c.out, "Books:    %d\n", len(c.ctl.Books()))
			fmt.Fprintf(c.out, "Theme:    %s\n", s.ThemeID)
			return nil
		},
	}
}

func (c *cli) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change presentation settings",
	}

	var theme, background string
	var blur, iconSize, cardSize int
	set := &cobra.Command{
		Use:   "set",
		Short: "Change settings; sizes are clamped to their ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var p model.SettingsPatch
			if f.Changed("theme") {
				p.ThemeID = &theme
			}
			if f.Changed("background") {
				p.BackgroundImageRef = &background
			}
			if f.Changed("blur") {
				p.BackgroundBlurRadius = &blur
			}
			if f.Changed("icon-size") {
				p.AppIconSize = &iconSize
			}
			if f.Changed("card-size") {
				p.BookCardSize = &cardSize
			}
			s, err := c.ctl.UpdateSettings(cmd.Context(), p)
			if err != nil {
				return err
			}
			c.printSettings(s)
			return nil
		},
	}
	set.Flags().StringVar(&theme, "theme", "", "paper, dark, sepia or ocean")
	set.Flags().StringVar(&background, "background", "", "background image reference")
	set.Flags().IntVar(&blur, "blur", 0, "background blur radius, 0-20")
	set.Flags().IntVar(&iconSize, "icon-size", 0, "app icon size, 48-96")
	set.Flags().IntVar(&cardSize, "card-size", 0, "book card size, 60-120")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c.printSettings(c.ctl.Settings())
				return nil
			},
		},
		set,
	)
	return cmd
}

func (c *cli) printSettings(s model.Settings) {
	fmt.Fprintf(c.out, "theme:           %s\n", s.ThemeID)
	fmt.Fprintf(c.out, "background:      %s\n", s.BackgroundImageRef)
	fmt.Fprintf(c.out, "background blur: %d\n", s.BackgroundBlurRadius)
	fmt.Fprintf(c.out, "app icon size:   %d\n", s.AppIconSize)
	fmt.Fprintf(c.out, "book card size:  %d\n", s.BookCardSize)
	fmt.Fprintf(c.out, "lock code:       %t\n", s.HasLockCode())
}

func (c *cli) lockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Manage the lock code",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set CODE",
			Short: "Set a 4-digit lock code",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.ctl.SetLockCode(cmd.Context(), args[0]); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintln(c.out, "✓ Lock code set")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the lock code",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.ctl.SetLockCode(cmd.Context(), ""); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintln(c.out, "✓ Lock code removed")
				return nil
			},
		},
		&cobra.Command{
			Use:         "now",
			Short:       "Lock the launcher",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{skipUnlock: "true"},
			RunE: func(cmd *cobra.Command, args []string) error {
				if !c.ctl.Lock() {
					return errors.New("no lock code set")
				}
				color.New(color.FgYellow).Fprintln(c.out, "Locked")
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) uploadCmd() *cobra.Command {
	var asBackground bool
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			url, err := c.ctl.Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, url)

			if asBackground {
				if _, err := c.ctl.UpdateSettings(cmd.Context(), model.SettingsPatch{BackgroundImageRef: &url}); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintln(c.out, "✓ Background updated")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asBackground, "background", false, "use the upload as the background image")
	return cmd
}
