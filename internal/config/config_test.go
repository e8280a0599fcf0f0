package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromMissingReturnsDefaults(t *testing.T) {
	t.Setenv(EnvDataFile, "")
	t.Setenv(EnvBackend, "")
	t.Setenv(EnvLoadPolicy, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.Backend != "csv" || cfg.General.LoadPolicy != "partial" {
		t.Errorf("defaults = %+v", cfg.General)
	}
	if want := filepath.Join("/data", "spent", "expenses.csv"); cfg.General.DataFile != want {
		t.Errorf("DataFile = %q, want %q", cfg.General.DataFile, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvDataFile, "")
	t.Setenv(EnvBackend, "")
	t.Setenv(EnvLoadPolicy, "")
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.General.DataFile = "/tmp/ledger.db"
	cfg.General.Backend = "sqlite"
	cfg.General.LoadPolicy = "strict"
	cfg.Appearance.Theme = "tokyo-night"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config permissions = %o, want 600", perm)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[general]\ndata_file = \"/from/file.csv\"\nbackend = \"csv\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDataFile, "/from/env.db")
	t.Setenv(EnvBackend, "sqlite")
	t.Setenv(EnvLoadPolicy, "skip")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DataFile != "/from/env.db" || cfg.General.Backend != "sqlite" ||
		cfg.General.LoadPolicy != "skip" || cfg.Log.Level != "debug" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("LoadFrom error = %v, want parsing error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty data file", func(c *Config) { c.General.DataFile = " " }, "data_file cannot be empty"},
		{"bad backend", func(c *Config) { c.General.Backend = "postgres" }, `invalid backend "postgres"`},
		{"bad policy", func(c *Config) { c.General.LoadPolicy = "lenient" }, `invalid load_policy "lenient"`},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, `invalid log level "trace"`},
		{"case insensitive", func(c *Config) { c.General.Backend = "SQLite" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.Backend = "x"
	cfg.Log.Level = "y"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "backend") || !strings.Contains(err.Error(), "log level") {
		t.Errorf("error = %v, want both problems reported", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x.csv"); got != filepath.Join(home, "x.csv") {
		t.Errorf("ExpandPath(~/x.csv) = %q", got)
	}
	if got := ExpandPath("/abs/x.csv"); got != "/abs/x.csv" {
		t.Errorf("ExpandPath(/abs/x.csv) = %q", got)
	}
}

func TestLoadFromMalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SPENT_BACKEND=\"csv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(filepath.Join(dir, "config.toml")); err == nil || !strings.Contains(err.Error(), "loading .env") {
		t.Errorf("LoadFrom error = %v, want .env error", err)
	}
}

func TestLoadFromAppliesDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	t.Setenv(EnvBackend, "")
	if err := os.Unsetenv(EnvBackend); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SPENT_BACKEND=sqlite\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite from .env", cfg.General.Backend)
	}
}
