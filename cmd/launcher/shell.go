// ABOUTME: Interactive shell over the launcher commands
// ABOUTME: "/title" taps the vault affordance; any other input counts as activity elsewhere

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShell(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// runShell reads commands line by line until EOF or "exit". Each line runs
// as a fresh command tree sharing this session's controller, so lock and
// vault state carry over between lines.
func (c *cli) runShell(ctx context.Context, in io.Reader) error {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)
	red := color.New(color.FgRed)

	cyan.Fprintf(c.out, "Launcher shell (Ctrl+D to exit)\n\n")

	scanner := bufio.NewScanner(in)
	for {
		green.Fprint(c.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "/title":
			if c.ctl.TapTitle() {
				color.New(color.FgMagenta).Fprintln(c.out, "vault revealed")
			}
			continue
		case "/close":
			c.ctl.CloseVault()
			continue
		}
		c.ctl.TapElsewhere()

		args, err := splitArgs(line)
		if err != nil {
			red.Fprintf(c.out, "Error: %v\n", err)
			continue
		}
		if args[0] == "shell" {
			red.Fprintln(c.out, "Error: already in a shell")
			continue
		}

		root := newRootCmd(c)
		root.SetArgs(args)
		if err := root.ExecuteContext(ctx); err != nil {
			red.Fprintf(c.out, "Error: %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// splitArgs splits a line with POSIX shell quoting rules: single and double
// quotes, backslash escapes and trailing # comments.
func splitArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parsing command: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}
