// Package config loads and saves spent's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDataFile   = "SPENT_DATA_FILE"
	EnvBackend    = "SPENT_BACKEND"
	EnvLoadPolicy = "SPENT_LOAD_POLICY"
	EnvLogLevel   = "SPENT_LOG_LEVEL"
)

// Config holds all spent configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig selects where and how the ledger is stored.
type GeneralConfig struct {
	DataFile   string `toml:"data_file"`
	Backend    string `toml:"backend"`
	LoadPolicy string `toml:"load_policy"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

var (
	validBackends = []string{"csv", "sqlite"}
	validPolicies = []string{"partial", "skip", "strict"}
	validLevels   = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DataFile:   filepath.Join(DataDir(), "expenses.csv"),
			Backend:    "csv",
			LoadPolicy: "partial",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spent")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spent")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "spent")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "spent")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied on top, including any set by a .env file
// in the working directory.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load for an explicit config path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	// A missing .env is the common case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	cfg.applyEnv()
	cfg.General.DataFile = ExpandPath(cfg.General.DataFile)
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataFile); v != "" {
		c.General.DataFile = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		c.General.Backend = v
	}
	if v := os.Getenv(EnvLoadPolicy); v != "" {
		c.General.LoadPolicy = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.General.DataFile) == "" {
		errs = append(errs, errors.New("data_file cannot be empty"))
	}
	if !oneOf(c.General.Backend, validBackends) {
		errs = append(errs, fmt.Errorf("invalid backend %q: must be one of %v", c.General.Backend, validBackends))
	}
	if !oneOf(c.General.LoadPolicy, validPolicies) {
		errs = append(errs, fmt.Errorf("invalid load_policy %q: must be one of %v", c.General.LoadPolicy, validPolicies))
	}
	if !oneOf(c.Log.Level, validLevels) {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of %v", c.Log.Level, validLevels))
	}

	return errors.Join(errs...)
}

// Save writes the config to path, creating its directory.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo is Save for an explicit config path.
func SaveTo(path string, cfg Config) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing config file: %w", cerr)
		}
	}()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func oneOf(v string, options []string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
