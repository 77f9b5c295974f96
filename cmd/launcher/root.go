// ABOUTME: Root cobra command and the shared client state every subcommand uses
// ABOUTME: Builds the controller from config, loads state and enforces the lock code

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/moullakill/bookos-dream-launcher/internal/cache"
	"github.com/moullakill/bookos-dream-launcher/internal/config"
	"github.com/moullakill/bookos-dream-launcher/internal/entity"
	"github.com/moullakill/bookos-dream-launcher/internal/launcher"
	"github.com/moullakill/bookos-dream-launcher/internal/logging"
	"github.com/moullakill/bookos-dream-launcher/internal/opener"
	"github.com/moullakill/bookos-dream-launcher/internal/remote"
)

// skipUnlock marks commands that run without entering the lock code.
const skipUnlock = "skip-unlock"

type cli struct {
	ctl        *launcher.Controller
	revealTaps int
	out        io.Writer
	readPIN    func() (string, error)

	// flags
	configPath string
	pin        string
	vault      bool
}

func newCLI() *cli {
	c := &cli{out: os.Stdout}
	c.readPIN = c.promptPIN
	return c
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "launcher",
		Short:         "A reading-first launcher for your books, apps and hidden shortcuts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			if c.ctl == nil {
				if err := c.connect(cmd.Context()); err != nil {
					return err
				}
			}
			if cmd.Annotations[skipUnlock] == "true" {
				return nil
			}
			return c.ensureUnlocked(cmd.Context())
		},
	}
	root.SetOut(c.out)
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath(), "config file (yaml or toml)")
	root.PersistentFlags().StringVar(&c.pin, "pin", "", "lock code, instead of prompting")
	root.PersistentFlags().BoolVar(&c.vault, "vault", false, "reveal the vault for this command")

	root.AddCommand(
		c.stateCmd(),
		c.appsCmd(),
		c.booksCmd(),
		c.secretsCmd(),
		c.notesCmd(),
		c.settingsCmd(),
		c.lockCmd(),
		c.uploadCmd(),
		c.shellCmd(),
	)
	return root
}

// connect builds the controller from the config file and loads state.
func (c *cli) connect(ctx context.Context) error {
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.Setup(cfg.Logging, os.Stderr)

	diskCache, err := cache.NewDiskCache(cfg.Cache.Dir, logger)
	if err != nil {
		return err
	}

	locale, err := language.Parse(cfg.Library.Locale)
	if err != nil {
		logger.Warn("unknown library locale, using root collation", "locale", cfg.Library.Locale, "error", err)
		locale = language.Und
	}

	client := remote.NewClient(cfg.Remote.BaseURL,
		remote.WithTimeout(cfg.Remote.Timeout),
		remote.WithLogger(logger),
	)
	c.ctl = launcher.New(entity.New(logger), diskCache, client, launcher.Options{
		Opener:       opener.NewSystemOpener(logger),
		RevealTaps:   cfg.Vault.RevealTaps,
		RevealWindow: cfg.Vault.RevealWindow,
		Locale:       locale,
		Logger:       logger,
	})
	c.revealTaps = cfg.Vault.RevealTaps
	c.ctl.Load(ctx)

	logger.Debug("launcher ready", "online", c.ctl.IsOnline(), "remote", cfg.Remote.BaseURL)
	return nil
}

// ensureUnlocked asks for the lock code while the launcher is locked.
func (c *cli) ensureUnlocked(ctx context.Context) error {
	if c.ctl.IsUnlocked() {
		return nil
	}

	code := c.pin
	if code == "" {
		var err error
		if code, err = c.readPIN(); err != nil {
			return err
		}
	}
	if err := c.ctl.Unlock(ctx, code); err != nil {
		return errors.New("wrong lock code")
	}
	return nil
}

func (c *cli) promptPIN() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("launcher is locked: pass --pin")
	}

	fmt.Fprint(c.out, "Lock code: ")
	code, err := term.ReadPassword(fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("failed to read lock code: %w", err)
	}
	return string(code), nil
}

// revealVault reveals the vault for a one-shot command when --vault is set.
func (c *cli) revealVault() error {
	if c.ctl.VaultRevealed() {
		return nil
	}
	if !c.vault {
		return errors.New("the vault is hidden")
	}
	taps := c.revealTaps
	if taps < 1 {
		taps = config.Default().Vault.RevealTaps
	}
	for i := 0; i < taps && !c.ctl.VaultRevealed(); i++ {
		c.ctl.TapTitle()
	}
	if !c.ctl.VaultRevealed() {
		return errors.New("the vault did not open")
	}
	return nil
}
