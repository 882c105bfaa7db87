package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"folioterm/internal/i18n"
	"folioterm/internal/maze"
	"folioterm/internal/ui"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment variable read by LoadEnv.
const EnvPrefix = "FOLIOTERM_"

// Config controls runtime behavior for the terminal and the dev API server.
type Config struct {
	Lang         string `env:"LANG"`
	SnapshotPath string `env:"SNAPSHOT"`
	APIURL       string `env:"API_URL"`
	AnonKey      string `env:"ANON_KEY"`
	LogPath      string `env:"LOG"`
	DataDir      string `env:"DATA_DIR"`
	DownloadDir  string `env:"DOWNLOAD_DIR"`
	Seed         uint64 `env:"SEED"`
	Debug        bool   `env:"DEBUG"`
	Dev          bool   `env:"DEV"`
	DevHTTP      string `env:"DEV_HTTP"`
	DemoScenario string `env:"DEMO"`

	UI     UIConfig     `envPrefix:"UI_"`
	Maze   MazeConfig   `envPrefix:"MAZE_"`
	Server ServerConfig `envPrefix:"SERVER_"`
}

type UIConfig struct {
	Theme       string `env:"THEME"`
	MotionLevel string `env:"MOTION"`
	Mouse       bool   `env:"MOUSE"`
}

type MazeConfig struct {
	Width     int `env:"WIDTH"`
	Height    int `env:"HEIGHT"`
	FogRadius int `env:"FOG_RADIUS"`
}

type ServerConfig struct {
	Addr   string `env:"ADDR"`
	DBPath string `env:"DB"`
	APIKey string `env:"API_KEY"`
}

func DefaultConfig() Config {
	return Config{
		Lang:    string(i18n.BaseLang),
		DevHTTP: "127.0.0.1:17321",
		UI: UIConfig{
			Theme:       ui.ThemeVariants[0],
			MotionLevel: "full",
			Mouse:       true,
		},
		Maze: MazeConfig{
			Width:     maze.DefaultWidth,
			Height:    maze.DefaultHeight,
			FogRadius: maze.DefaultFogRadius,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// LoadEnv overlays FOLIOTERM_* variables, including any found in a .env
// file in the working directory, onto c. Unset variables leave fields alone.
func LoadEnv(c *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	lang, err := i18n.ParseLang(c.Lang)
	if err != nil {
		return err
	}
	c.Lang = string(lang)

	if c.UI.Theme == "" {
		c.UI.Theme = ui.ThemeVariants[0]
	}
	if !slices.Contains(ui.ThemeVariants, c.UI.Theme) {
		return fmt.Errorf("invalid ui theme %q", c.UI.Theme)
	}
	switch c.UI.MotionLevel {
	case "", "off", "reduced", "full":
	default:
		return fmt.Errorf("invalid ui motion level %q", c.UI.MotionLevel)
	}
	if c.UI.MotionLevel == "" {
		c.UI.MotionLevel = "full"
	}

	if c.Maze.Width == 0 {
		c.Maze.Width = maze.DefaultWidth
	}
	if c.Maze.Height == 0 {
		c.Maze.Height = maze.DefaultHeight
	}
	c.Maze.Width = maze.ClampSize(c.Maze.Width)
	c.Maze.Height = maze.ClampSize(c.Maze.Height)
	if c.Maze.FogRadius < 0 {
		return fmt.Errorf("invalid maze fog radius %d", c.Maze.FogRadius)
	}

	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid api url %q", c.APIURL)
		}
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "folioterm")
	}
	if c.DownloadDir == "" {
		c.DownloadDir = defaultDownloadDir(c.DataDir)
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = filepath.Join(c.DataDir, "folioterm.db")
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8787"
	}
	return nil
}

// ReducedMotion reports whether boot pacing and slide-ins are skipped.
func (c Config) ReducedMotion() bool {
	return c.UI.MotionLevel == "off" || c.UI.MotionLevel == "reduced"
}

func defaultDownloadDir(dataDir string) string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return filepath.Join(dataDir, "downloads")
}
