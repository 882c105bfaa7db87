// Package app wires configuration, the backend client, the session
// controller and the terminal UI into runnable entry points.
package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"sync"
	"time"

	"folioterm/internal/backend"
	"folioterm/internal/devtools"
	"folioterm/internal/i18n"
	"folioterm/internal/maze"
	"folioterm/internal/portfolio"
	"folioterm/internal/session"
	"folioterm/internal/telemetry"
	"folioterm/internal/ui"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type App struct {
	cfg  Config
	lang i18n.Lang

	logger *telemetry.JSONLogger
	log    *clog.Logger
	store  *backend.SQLiteStore
	client backend.Client

	snapshot portfolio.Snapshot
	view     *ui.Root
	ctrl     *session.Controller
	demo     *devtools.Manager

	sessionID string

	devMu     sync.Mutex
	devServer *http.Server
	devState  struct {
		State    string
		Rendered bool
		Error    string
	}
}

// New prepares a terminal session. cfg must already be validated.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	sessionID := uuid.NewString()
	logger, err := telemetry.NewJSONLogger(cfg.LogPath, sessionID)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:       cfg,
		lang:      i18n.Lang(cfg.Lang),
		logger:    logger,
		log:       newConsoleLogger("folioterm", cfg.Debug),
		demo:      devtools.NewManager(),
		sessionID: sessionID,
	}
	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}

	var afterBoot []session.Event
	if cfg.DemoScenario != "" {
		afterBoot = a.demo.Events(a.demo.Resolve(cfg.DemoScenario))
	}
	a.view = ui.New(ui.Options{
		Lang:          a.lang,
		Theme:         cfg.UI.Theme,
		ReducedMotion: cfg.ReducedMotion(),
		Mouse:         cfg.UI.Mouse,
		Debug:         cfg.Debug,
		Admin:         a.client,
		Logger:        newConsoleLogger("folioterm-ui", cfg.Debug),
		AfterBoot:     afterBoot,
	})
	a.ctrl = session.New(session.NewState(a.lang), a.sessionOptions(a.view))
	a.view.SetController(a.ctrl)
	return a, nil
}

// connect picks the backend: the remote API when one is configured,
// otherwise a local SQLite store. The snapshot comes from the remote API
// when reachable and falls back to the local file or built-in sample.
func (a *App) connect(ctx context.Context) error {
	snap, err := loadSnapshot(a.cfg.SnapshotPath)
	if err != nil {
		return err
	}

	if a.cfg.APIURL != "" {
		client := backend.NewHTTPClient(a.cfg.APIURL, a.cfg.AnonKey)
		a.client = client
		fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		remote, err := client.Snapshot(fetchCtx)
		if err != nil {
			a.log.Warn("snapshot fetch failed, using local content", "api", a.cfg.APIURL, "err", err)
			a.logger.Error("snapshot.fetch_failed", map[string]any{"api": a.cfg.APIURL, "error": err.Error()})
		} else {
			snap = remote
		}
		a.snapshot = snap
		return nil
	}

	store, err := openStore(ctx, a.cfg.Server.DBPath)
	if err != nil {
		return err
	}
	a.store = store
	a.client = &backend.LocalClient{Store: store, Snap: snap}
	a.snapshot = snap.Public()
	return nil
}

func (a *App) sessionOptions(host session.Host) session.Options {
	opts := session.Options{
		Snapshot:   a.snapshot,
		Client:     a.client,
		Host:       host,
		Downloader: &backend.FileDownloader{Dir: a.cfg.DownloadDir},
		Recorder:   a.logger,
		MazeWidth:  a.cfg.Maze.Width,
		MazeHeight: a.cfg.Maze.Height,
		MazeOpts:   []maze.Option{maze.WithFogRadius(a.cfg.Maze.FogRadius)},
	}
	if a.cfg.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(a.cfg.Seed, a.cfg.Seed^0x9e3779b97f4a7c15))
	}
	return opts
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{
		"lang":    a.cfg.Lang,
		"remote":  a.cfg.APIURL != "",
		"theme":   a.cfg.UI.Theme,
		"motion":  a.cfg.UI.MotionLevel,
		"version": Version,
	})
	if a.cfg.Dev {
		if err := a.startDevHTTP(); err != nil {
			return err
		}
		a.setDevState(a.demo.Resolve(a.cfg.DemoScenario).Name, "")
		_ = a.demo.SetState(ctx, "", a.devStateName(), true)
	}
	err := a.view.Run(ctx)
	a.logger.Info("app.stop", map[string]any{"closed": a.ctrl.State().Closed})
	return err
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.devMu.Lock()
	if a.devServer != nil {
		_ = a.devServer.Shutdown(ctx)
	}
	a.devMu.Unlock()
	if a.store != nil {
		_ = a.store.Close()
	}
	_ = a.logger.Close()
}

func loadSnapshot(path string) (portfolio.Snapshot, error) {
	if path == "" {
		return portfolio.Sample(), nil
	}
	snap, err := portfolio.Load(path)
	if err != nil {
		return portfolio.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

func openStore(ctx context.Context, path string) (*backend.SQLiteStore, error) {
	store, err := backend.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func newConsoleLogger(prefix string, debug bool) *clog.Logger {
	l := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: prefix, Level: clog.WarnLevel})
	if debug {
		l.SetLevel(clog.DebugLevel)
	}
	return l
}
