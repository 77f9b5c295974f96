// Package config handles configuration loading for the launcher and the
// reference server.
//
// # Configuration File
//
// Default location (first match):
//
//  1. Path from the LAUNCHER_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/bookos/config.yaml
//  3. ~/.config/bookos/config.yaml
//
// Files ending in .toml are read as TOML; everything else as YAML. Values in
// the file overlay Default(), so a partial file is fine. The CLI treats a
// missing file as "use the defaults" (LoadOrDefault).
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	server:
//	  jwt_secret: "${BOOKOS_JWT_SECRET}"
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	remote:
//	  timeout: "10s"
//	vault:
//	  reveal_window: "2s"
//
// # Configuration Sections
//
//	remote:
//	  base_url: "http://localhost:8080/api"
//	  timeout: "10s"
//	cache:
//	  dir: "~/.local/share/bookos/cache"
//	library:
//	  locale: "fr"            # collation for title/author sorting
//	vault:
//	  reveal_taps: 5
//	  reveal_window: "2s"
//	logging:
//	  level: "info"           # debug, info, warn, error
//	  format: "text"          # text, json
//	server:
//	  http_addr: "localhost:8080"
//	  database_path: "~/.local/share/bookos/launcher.db"
//	  upload_dir: "~/.local/share/bookos/files"
//	  jwt_secret: "${BOOKOS_JWT_SECRET}"
//	  require_unlock_for_open: false
//	  token_ttl: "12h"
//	  open_dedupe_window: "1s"
//
// # Validation
//
// Validate covers the client sections. ValidateServer adds the server
// section and requires a jwt_secret of at least 32 bytes when
// require_unlock_for_open is set.
package config
