// ABOUTME: Configuration loading and parsing for the launcher and its reference server
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides the config location.
const EnvConfigPath = "LAUNCHER_CONFIG"

// MinJWTSecretLength is the shortest jwt_secret accepted when unlock tokens are required.
const MinJWTSecretLength = 32

// Config represents the complete launcher configuration
type Config struct {
	Remote  RemoteConfig  `yaml:"remote" toml:"remote"`
	Cache   CacheConfig   `yaml:"cache" toml:"cache"`
	Library LibraryConfig `yaml:"library" toml:"library"`
	Vault   VaultConfig   `yaml:"vault" toml:"vault"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
}

// RemoteConfig holds the remote service location used by the client
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" toml:"base_url"`
	Timeout time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	TimeoutRaw string `yaml:"timeout" toml:"timeout"`
}

// CacheConfig holds the local snapshot cache location
type CacheConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// LibraryConfig holds library view preferences
type LibraryConfig struct {
	// Locale is a BCP 47 tag used for sorting titles and authors
	Locale string `yaml:"locale" toml:"locale"`
}

// VaultConfig holds the hidden vault gesture parameters
type VaultConfig struct {
	RevealTaps   int           `yaml:"reveal_taps" toml:"reveal_taps"`
	RevealWindow time.Duration `yaml:"-" toml:"-"`

	RevealWindowRaw string `yaml:"reveal_window" toml:"reveal_window"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// ServerConfig holds the reference server configuration
type ServerConfig struct {
	HTTPAddr             string        `yaml:"http_addr" toml:"http_addr"`
	DatabasePath         string        `yaml:"database_path" toml:"database_path"`
	UploadDir            string        `yaml:"upload_dir" toml:"upload_dir"`
	JWTSecret            string        `yaml:"jwt_secret" toml:"jwt_secret"`
	RequireUnlockForOpen bool          `yaml:"require_unlock_for_open" toml:"require_unlock_for_open"`
	TokenTTL             time.Duration `yaml:"-" toml:"-"`
	OpenDedupeWindow     time.Duration `yaml:"-" toml:"-"`

	TokenTTLRaw         string `yaml:"token_ttl" toml:"token_ttl"`
	OpenDedupeWindowRaw string `yaml:"open_dedupe_window" toml:"open_dedupe_window"`

	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
}

// TailscaleConfig puts the reference server on a tailnet through tsnet
// instead of a local TCP listener.
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Hostname  string `yaml:"hostname" toml:"hostname"`
	AuthKey   string `yaml:"auth_key" toml:"auth_key"` // falls back to $TS_AUTHKEY
	StateDir  string `yaml:"state_dir" toml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral" toml:"ephemeral"`
	HTTPS     bool   `yaml:"https" toml:"https"` // serve :443 with tailnet certificates
}

// Default returns a configuration that works without any file: a server on
// localhost:8080 and data under DataDir.
func Default() *Config {
	data := DataDir()
	return &Config{
		Remote: RemoteConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 10 * time.Second,
		},
		Cache:   CacheConfig{Dir: filepath.Join(data, "cache")},
		Library: LibraryConfig{Locale: "en"},
		Vault: VaultConfig{
			RevealTaps:   5,
			RevealWindow: 2 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			HTTPAddr:         "localhost:8080",
			DatabasePath:     filepath.Join(data, "launcher.db"),
			UploadDir:        filepath.Join(data, "files"),
			TokenTTL:         12 * time.Hour,
			OpenDedupeWindow: time.Second,
		},
	}
}

// Load reads a configuration file from the given path and overlays it on
// Default. Environment variables in the format ${VAR_NAME} are expanded.
// Files ending in .toml are decoded as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks the fields the client needs.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Remote.BaseURL) == "" {
		return fmt.Errorf("remote.base_url is required")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be positive")
	}
	if c.Vault.RevealTaps < 1 {
		return fmt.Errorf("vault.reveal_taps must be at least 1")
	}
	if c.Vault.RevealWindow <= 0 {
		return fmt.Errorf("vault.reveal_window must be positive")
	}
	if c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required")
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// ValidateServer checks the fields the reference server needs, on top of Validate.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	if c.Server.DatabasePath == "" {
		return fmt.Errorf("server.database_path is required")
	}
	if c.Server.UploadDir == "" {
		return fmt.Errorf("server.upload_dir is required")
	}
	if c.Server.RequireUnlockForOpen && len(c.Server.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("server.jwt_secret must be at least %d bytes when require_unlock_for_open is set", MinJWTSecretLength)
	}
	if c.Server.TokenTTL <= 0 {
		return fmt.Errorf("server.token_ttl must be positive")
	}
	if c.Server.OpenDedupeWindow < 0 {
		return fmt.Errorf("server.open_dedupe_window must not be negative")
	}
	if c.Server.Tailscale.Enabled && c.Server.Tailscale.Hostname == "" {
		return fmt.Errorf("server.tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"remote.timeout", cfg.Remote.TimeoutRaw, &cfg.Remote.Timeout},
		{"vault.reveal_window", cfg.Vault.RevealWindowRaw, &cfg.Vault.RevealWindow},
		{"server.token_ttl", cfg.Server.TokenTTLRaw, &cfg.Server.TokenTTL},
		{"server.open_dedupe_window", cfg.Server.OpenDedupeWindowRaw, &cfg.Server.OpenDedupeWindow},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}
	return nil
}

// DefaultPath returns the config file location: $LAUNCHER_CONFIG, then
// $XDG_CONFIG_HOME/bookos/config.yaml, then ~/.config/bookos/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml"
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "bookos", "config.yaml")
}

// DataDir returns the directory for local data: $XDG_DATA_HOME/bookos, or
// ~/.local/share/bookos.
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "bookos-data"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "bookos")
}
