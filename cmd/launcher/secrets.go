// ABOUTME: Vault subcommands: list, add, rm and open hidden shortcuts
// ABOUTME: Each one needs the vault revealed, by the tap gesture in the shell or --vault

package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

func (c *cli) secretsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "secrets",
		Aliases: []string{"vault"},
		Short:   "Manage the hidden vault",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Cobra runs only the nearest persistent pre-run.
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return c.revealVault()
		},
	}

	var asApp bool
	var icon string
	add := &cobra.Command{
		Use:   "add NAME TARGET",
		Short: "Add a vault entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := model.SecretEntry{Name: args[0], Target: args[1], Kind: model.SecretLink, IconRef: icon}
			if asApp {
				draft.Kind = model.SecretApp
			}
			entry, err := c.ctl.AddSecret(cmd.Context(), draft)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(c.out, "✓ Added %s (%s)\n", entry.Name, entry.ID)
			return nil
		},
	}
	add.Flags().BoolVar(&asApp, "app", false, "target is a local app path")
	add.Flags().StringVar(&icon, "icon", "", "emoji or image reference")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List vault entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c.printSecrets(c.ctl.Secrets())
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:   "rm ID",
			Short: "Remove a vault entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				entry, err := c.secret(args[0])
				if err != nil {
					return err
				}
				c.ctl.DeleteSecret(cmd.Context(), entry.ID)
				color.New(color.FgGreen).Fprintf(c.out, "✓ Removed %s\n", entry.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "open ID",
			Short: "Open a vault entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				entry, err := c.secret(args[0])
				if err != nil {
					return err
				}
				return c.ctl.OpenSecret(cmd.Context(), entry)
			},
		},
	)
	return cmd
}

func (c *cli) secret(id string) (model.SecretEntry, error) {
	secrets := c.ctl.Secrets()
	i := slices.IndexFunc(secrets, func(e model.SecretEntry) bool { return e.ID == id })
	if i < 0 {
		return model.SecretEntry{}, fmt.Errorf("no vault entry with id %q", id)
	}
	return secrets[i], nil
}

func (c *cli) printSecrets(secrets []model.SecretEntry) {
	magenta := color.New(color.FgMagenta)
	fmt.Fprintln(c.out)
	magenta.Fprintln(c.out, "  Vault")
	magenta.Fprintln(c.out, "  -----")

	if len(secrets) == 0 {
		fmt.Fprintln(c.out, "  (empty)")
		fmt.Fprintln(c.out)
		return
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tICON\tNAME\tTYPE\tTARGET")
	for _, e := range secrets {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", e.ID, e.IconRef, e.Name, e.Kind, truncate(e.Target, 40))
	}
	w.Flush()
	fmt.Fprintln(c.out)
}
