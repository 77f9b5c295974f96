// ABOUTME: Entry point for the launcher reference server
// ABOUTME: Serves the launcher's remote API over SQLite and opens targets on this machine

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/moullakill/bookos-dream-launcher/internal/config"
	"github.com/moullakill/bookos-dream-launcher/internal/logging"
	"github.com/moullakill/bookos-dream-launcher/internal/model"
	"github.com/moullakill/bookos-dream-launcher/internal/opener"
	"github.com/moullakill/bookos-dream-launcher/internal/server"
	"github.com/moullakill/bookos-dream-launcher/internal/store"
)

// version is set at build time.
var version = "dev"

const banner = `
  _                 _                                _
 | |__   ___   ___ | | _____  ___       ___  ___ _ __| |_   _____ _ __
 | '_ \ / _ \ / _ \| |/ / _ \/ __|_____/ __|/ _ \ '__\ \ / / _ \ '__|
 | |_) | (_) | (_) |   < (_) \__ \_____\__ \  __/ |   \ V /  __/ |
 |_.__/ \___/ \___/|_|\_\___/|___/     |___/\___|_|    \_/ \___|_|
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: launcher-server <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve    Start the server")
		fmt.Println("  init     Write a config file and seed the database")
		fmt.Println("  health   Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit(ctx)
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, string, error) {
	configPath := config.DefaultPath()
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, configPath, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		return nil, configPath, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, configPath, nil
}

func runServe(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, configPath, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Logging, os.Stdout)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	if ts := cfg.Server.Tailscale; ts.Enabled {
		fmt.Printf("Tailnet:   %s\n", ts.Hostname)
	} else {
		fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	}
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Server.DatabasePath)
	green.Print("    ▶ ")
	fmt.Printf("Uploads:   %s\n", cfg.Server.UploadDir)
	if cfg.Server.RequireUnlockForOpen {
		yellow.Println("    ▶ /open requires an unlock token")
	}
	fmt.Println()

	st, err := store.NewSQLiteStore(cfg.Server.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	srv, err := server.New(cfg.Server, st, opener.NewSystemOpener(logger), logger)
	if err != nil {
		st.Close()
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info("starting launcher-server",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"version", version,
	)
	return srv.Run(ctx)
}

// runInit writes a config file with a fresh jwt secret when none exists,
// then seeds an empty database with the starter apps and book.
func runInit(ctx context.Context) error {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	configPath := config.DefaultPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			return fmt.Errorf("generating JWT secret: %w", err)
		}
		if err := writeConfig(configPath, base64.StdEncoding.EncodeToString(secretBytes)); err != nil {
			return err
		}
		green.Printf("  ✓ Created config: %s\n", configPath)
	} else {
		cyan.Printf("  Using existing config: %s\n", configPath)
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.NewSQLiteStore(cfg.Server.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()
	green.Printf("  ✓ Database: %s\n", cfg.Server.DatabasePath)

	snap, err := st.GetState(ctx)
	if err != nil {
		return fmt.Errorf("reading state: %w", err)
	}
	if len(snap.Apps) > 0 || len(snap.Books) > 0 {
		cyan.Printf("  Database already holds %d app(s) and %d book(s), not seeding\n", len(snap.Apps), len(snap.Books))
		return nil
	}

	if err := st.ReplaceState(ctx, model.DefaultSnapshot(time.Now())); err != nil {
		return fmt.Errorf("seeding state: %w", err)
	}
	green.Println("  ✓ Seeded starter apps and book")
	return nil
}

func writeConfig(path, jwtSecret string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data := config.DataDir()
	content := fmt.Sprintf(`# launcher configuration
# Generated by launcher-server init

remote:
  base_url: "http://localhost:8080/api"
  timeout: "10s"

cache:
  dir: "%s"

vault:
  reveal_taps: 5
  reveal_window: "2s"

logging:
  level: "info"
  format: "text"

server:
  http_addr: "localhost:8080"
  database_path: "%s"
  upload_dir: "%s"
  jwt_secret: "%s"
  require_unlock_for_open: false
  token_ttl: "12h"
  open_dedupe_window: "1s"
`, filepath.Join(data, "cache"), filepath.Join(data, "launcher.db"), filepath.Join(data, "files"), jwtSecret)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}
