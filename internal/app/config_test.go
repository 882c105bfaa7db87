package app

import (
	"path/filepath"
	"strings"
	"testing"

	"folioterm/internal/maze"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Server.DBPath != filepath.Join(cfg.DataDir, "folioterm.db") {
		t.Fatalf("unexpected db path %q", cfg.Server.DBPath)
	}
	if cfg.DownloadDir == "" {
		t.Fatalf("expected download dir default")
	}
	if cfg.ReducedMotion() {
		t.Fatalf("expected full motion by default")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "lang", mutate: func(c *Config) { c.Lang = "de" }, want: "unsupported language"},
		{name: "theme", mutate: func(c *Config) { c.UI.Theme = "neon" }, want: "invalid ui theme"},
		{name: "motion", mutate: func(c *Config) { c.UI.MotionLevel = "wild" }, want: "invalid ui motion level"},
		{name: "fog", mutate: func(c *Config) { c.Maze.FogRadius = -1 }, want: "invalid maze fog radius"},
		{name: "api scheme", mutate: func(c *Config) { c.APIURL = "ftp://example.com" }, want: "invalid api url"},
		{name: "api host", mutate: func(c *Config) { c.APIURL = "https://" }, want: "invalid api url"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.DataDir = t.TempDir()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestValidateNormalizesLangAndMaze(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Lang = "fr_CA"
	cfg.Maze.Width = 1000
	cfg.Maze.Height = 0
	cfg.UI.MotionLevel = "reduced"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Lang != "fr" {
		t.Fatalf("expected fr, got %q", cfg.Lang)
	}
	if cfg.Maze.Width != maze.MaxSize || cfg.Maze.Height != maze.ClampSize(maze.DefaultHeight) {
		t.Fatalf("unexpected maze size %dx%d", cfg.Maze.Width, cfg.Maze.Height)
	}
	if !cfg.ReducedMotion() {
		t.Fatalf("expected reduced motion")
	}
}

func TestLoadEnvOverlaysPrefixedVariables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FOLIOTERM_LANG", "fr")
	t.Setenv("FOLIOTERM_UI_THEME", "paper")
	t.Setenv("FOLIOTERM_UI_MOUSE", "false")
	t.Setenv("FOLIOTERM_MAZE_WIDTH", "31")
	t.Setenv("FOLIOTERM_SERVER_ADDR", ":9999")
	t.Setenv("FOLIOTERM_SEED", "42")

	cfg := DefaultConfig()
	if err := LoadEnv(&cfg); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.Lang != "fr" || cfg.UI.Theme != "paper" || cfg.UI.Mouse {
		t.Fatalf("unexpected ui config %+v lang=%q", cfg.UI, cfg.Lang)
	}
	if cfg.Maze.Width != 31 || cfg.Maze.Height != maze.DefaultHeight {
		t.Fatalf("unexpected maze config %+v", cfg.Maze)
	}
	if cfg.Server.Addr != ":9999" || cfg.Seed != 42 {
		t.Fatalf("unexpected server/seed %+v %d", cfg.Server, cfg.Seed)
	}
	if cfg.UI.MotionLevel != "full" {
		t.Fatalf("expected untouched default motion, got %q", cfg.UI.MotionLevel)
	}
}
