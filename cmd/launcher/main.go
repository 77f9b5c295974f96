// ABOUTME: Entry point for the launcher command-line client
// ABOUTME: A terminal front end over the launcher controller: library, apps, vault and lock

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(newCLI()).ExecuteContext(ctx); err != nil {
		color.Red("Error: %v", err)
		cancel()
		os.Exit(1)
	}
}
