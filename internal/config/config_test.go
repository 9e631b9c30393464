package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME at a temp dir so the user's real config is never read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != BackendJSON {
		t.Errorf("backend = %q, want json", cfg.Store.Backend)
	}
	if want := filepath.Join(home, ".todosync", "todos.json"); cfg.Store.Path != want {
		t.Errorf("path = %q, want %q", cfg.Store.Path, want)
	}
	if cfg.Log.Level != "info" || cfg.UI.Theme != "classic" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_DefaultFileOverridesDefaults(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".todosync", "config.toml"), `
[store]
backend = "http"
url = "http://todo.internal/api"

[ui]
theme = "neon"
group = true
`)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != BackendHTTP || cfg.Store.URL != "http://todo.internal/api" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.UI.Theme != "neon" || !cfg.UI.Group {
		t.Errorf("ui = %+v", cfg.UI)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, `
[store]
backend = "sqlite"
path = "/tmp/from-file.db"
`)
	t.Setenv("TODOSYNC_STORE_PATH", "/tmp/from-env.db")
	t.Setenv("TODOSYNC_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != BackendSQLite {
		t.Errorf("backend = %q, want sqlite", cfg.Store.Backend)
	}
	if cfg.Store.Path != "/tmp/from-env.db" {
		t.Errorf("path = %q, want env value", cfg.Store.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[store]\nbackend = \"json\"\ncolour = \"red\"\n", "unknown keys"},
		{"syntax", "[store\n", "loading config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "c.toml")
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad backend", "[store]\nbackend = \"redis\"\n", "store.backend"},
		{"http without url", "[store]\nbackend = \"http\"\n", "store.url"},
		{"bad server backend", "[server]\nbackend = \"http\"\n", "server.backend"},
		{"empty server addr", "[server]\naddr = \"\"\n", "server.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "c.toml")
			writeFile(t, path, tt.content)
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

// An invalid env value must survive Load so a later overlay can replace it.
func TestLoad_LeavesValidationToCaller(t *testing.T) {
	isolate(t)
	t.Setenv("TODOSYNC_STORE_BACKEND", "http")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("http backend without url should not validate")
	}
	cfg.Store.Backend = BackendJSON
	if err := cfg.Validate(); err != nil {
		t.Fatalf("overlaid config: %v", err)
	}
}
