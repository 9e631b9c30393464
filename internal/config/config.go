// Package config loads todosync settings.
//
// Sources, lowest priority first:
//  1. Defaults
//  2. TOML file (~/.todosync/config.toml, or the path given with --config)
//  3. Environment variables (TODOSYNC_*)
//  4. CLI flags, applied by the caller
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const (
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "TODOSYNC_"

	dirName        = ".todosync"
	configFileName = "config.toml"
)

// Store backends.
const (
	BackendHTTP   = "http"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config is the full set of settings.
type Config struct {
	Store  StoreConfig  `toml:"store" envPrefix:"STORE_"`
	Log    LogConfig    `toml:"log" envPrefix:"LOG_"`
	UI     UIConfig     `toml:"ui" envPrefix:"UI_"`
	Server ServerConfig `toml:"server" envPrefix:"SERVER_"`
}

// StoreConfig selects the item store the client talks to.
type StoreConfig struct {
	Backend string `toml:"backend" env:"BACKEND"`
	URL     string `toml:"url" env:"URL"`
	Path    string `toml:"path" env:"PATH"`
}

// LogConfig configures the operator log.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL"`
	// File receives the log while the TUI owns the terminal.
	File string `toml:"file" env:"FILE"`
}

// UIConfig tunes presentation.
type UIConfig struct {
	Theme string `toml:"theme" env:"THEME"`
	Group bool   `toml:"group" env:"GROUP"`
}

// ServerConfig configures `todosync serve`.
type ServerConfig struct {
	Addr    string `toml:"addr" env:"ADDR"`
	Backend string `toml:"backend" env:"BACKEND"`
	Path    string `toml:"path" env:"PATH"`
	// Token, when set, is required as a bearer credential from clients.
	Token string `toml:"token" env:"TOKEN"`
}

// Dir is the per-user state directory (~/.todosync).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultFile is the config file read when no explicit path is given.
func DefaultFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Defaults returns the built-in settings.
func Defaults() *Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return &Config{
		Store: StoreConfig{
			Backend: BackendJSON,
			Path:    filepath.Join(dir, "todos.json"),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "todosync.log"),
		},
		UI: UIConfig{Theme: "classic"},
		Server: ServerConfig{
			Addr:    "127.0.0.1:8080",
			Backend: BackendSQLite,
			Path:    filepath.Join(dir, "server.db"),
		},
	}
}

// Load merges defaults, the TOML file and the environment. An empty path
// means the default file, which may be absent; an explicit path must exist.
// The result is not validated: callers overlay flags first, then call Validate.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		p, err := DefaultFile()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case BackendHTTP:
		if strings.TrimSpace(c.Store.URL) == "" {
			return fmt.Errorf("store.url is required for the http backend")
		}
	case BackendJSON, BackendSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	default:
		return fmt.Errorf("store.backend %q: want http, json or sqlite", c.Store.Backend)
	}

	return c.Server.Validate()
}

// Validate checks the server settings. Only file-backed stores can be served.
func (s *ServerConfig) Validate() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("server.backend %q: want json or sqlite", s.Backend)
	}
	if strings.TrimSpace(s.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
