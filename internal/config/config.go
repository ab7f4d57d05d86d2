// Package config loads the selfmenu configuration: a TOML file overridden
// by SELFMENU_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/hammamikhairi/selfmenu/internal/logger"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SELFMENU_"

// Config is the resolved configuration.
type Config struct {
	// DataDir holds the database and the live-status directory unless
	// they are set explicitly.
	DataDir string `toml:"data_dir" env:"DATA_DIR"`
	// Database is the SQLite file. Relative paths are under DataDir.
	Database string `toml:"database" env:"DATABASE"`
	// ActivityDir is where live-status activities are written.
	// Relative paths are under DataDir.
	ActivityDir string `toml:"activity_dir" env:"ACTIVITY_DIR"`

	LiveStatus bool    `toml:"live_status" env:"LIVE_STATUS"`
	Chime      bool    `toml:"chime" env:"CHIME"`
	Volume     float64 `toml:"volume" env:"VOLUME"`

	LogLevel string   `toml:"log_level" env:"LOG_LEVEL"`
	Tick     Duration `toml:"tick" env:"TICK"`
}

// Duration is a time.Duration spelled like "1s" in TOML and the environment.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Defaults returns the configuration used when nothing is set.
func Defaults() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}
	return &Config{
		DataDir:     filepath.Join(home, ".local", "share", "selfmenu"),
		Database:    "selfmenu.db",
		ActivityDir: "activities",
		LiveStatus:  true,
		Chime:       true,
		Volume:      0.4,
		LogLevel:    "normal",
		Tick:        Duration(time.Second),
	}, nil
}

// DefaultPath returns ~/.config/selfmenu/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "selfmenu", "config.toml"), nil
}

// Load reads the file at path (DefaultPath when empty), applies
// environment overrides and resolves relative paths. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) resolve() {
	c.DataDir = expandHome(strings.TrimSpace(c.DataDir))
	c.Database = underDir(c.DataDir, c.Database)
	c.ActivityDir = underDir(c.DataDir, c.ActivityDir)
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %s", c.Tick.Std())
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume must be within [0, 1], got %g", c.Volume)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() logger.Level {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelNormal
	}
	return level
}

func underDir(dir, p string) string {
	p = expandHome(strings.TrimSpace(p))
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
