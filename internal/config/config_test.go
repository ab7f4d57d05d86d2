package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/selfmenu/internal/logger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wantDir := filepath.Join(home, ".local", "share", "selfmenu")
	if cfg.DataDir != wantDir {
		t.Fatalf("data dir = %q, want %q", cfg.DataDir, wantDir)
	}
	if cfg.Database != filepath.Join(wantDir, "selfmenu.db") {
		t.Fatalf("unexpected database %q", cfg.Database)
	}
	if cfg.ActivityDir != filepath.Join(wantDir, "activities") {
		t.Fatalf("unexpected activity dir %q", cfg.ActivityDir)
	}
	if !cfg.LiveStatus || !cfg.Chime {
		t.Fatal("live status and chime should default on")
	}
	if cfg.Tick.Std() != time.Second {
		t.Fatalf("tick = %s", cfg.Tick.Std())
	}
	if cfg.Level() != logger.LevelNormal {
		t.Fatalf("level = %s", cfg.Level())
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := writeConfig(t, `
data_dir = "`+filepath.ToSlash(dir)+`"
database = "deck.db"
activity_dir = "/tmp/selfmenu-activities"
live_status = false
chime = false
log_level = "verbose"
tick = "250ms"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database != filepath.Join(dir, "deck.db") {
		t.Fatalf("relative database should resolve under data_dir, got %q", cfg.Database)
	}
	if cfg.ActivityDir != "/tmp/selfmenu-activities" {
		t.Fatalf("absolute activity dir changed: %q", cfg.ActivityDir)
	}
	if cfg.LiveStatus || cfg.Chime {
		t.Fatal("expected live status and chime off")
	}
	if cfg.Level() != logger.LevelVerbose {
		t.Fatalf("level = %s", cfg.Level())
	}
	if cfg.Tick.Std() != 250*time.Millisecond {
		t.Fatalf("tick = %s", cfg.Tick.Std())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, "log_level = \"verbose\"\nchime = true\ntick = \"5s\"\n")

	t.Setenv("SELFMENU_LOG_LEVEL", "off")
	t.Setenv("SELFMENU_CHIME", "false")
	t.Setenv("SELFMENU_TICK", "2s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Level() != logger.LevelOff {
		t.Fatalf("env should win, level = %s", cfg.Level())
	}
	if cfg.Chime {
		t.Fatal("env should turn the chime off")
	}
	if cfg.Tick.Std() != 2*time.Second {
		t.Fatalf("tick = %s", cfg.Tick.Std())
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "colour = \"orange\"\n", "unknown keys colour"},
		{"bad tick", "tick = \"soon\"\n", "parse config file"},
		{"zero tick", "tick = \"0s\"\n", "tick must be positive"},
		{"bad level", "log_level = \"loud\"\n", "unknown log level"},
		{"bad volume", "volume = 3.0\n", "volume must be within"},
		{"bad toml", "data_dir = \n", "parse config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SELFMENU_DATA_DIR", "~/cards")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != filepath.Join(home, "cards") {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
}
