package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"folioterm/internal/backend"
	"folioterm/internal/session"

	clog "github.com/charmbracelet/log"
)

// Serve runs the development API backed by SQLite until ctx is cancelled.
func Serve(ctx context.Context, cfg Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	snap, err := loadSnapshot(cfg.SnapshotPath)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := newConsoleLogger("folioterm-api", cfg.Debug)
	if !cfg.Debug {
		logger.SetLevel(clog.InfoLevel)
	}
	srv := backend.NewServer(store, snap, backend.ServerOptions{
		APIKey: cfg.Server.APIKey,
		Logger: logger,
		Debug:  cfg.Debug,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// AddAdmin creates or resets an administrator account.
func AddAdmin(ctx context.Context, cfg Config, email, password string) error {
	if len(password) < 8 {
		return errors.New("admin password must be at least 8 characters")
	}
	if !session.ValidEmail(email) {
		return fmt.Errorf("invalid admin email %q", email)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	store, err := openStore(ctx, cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.CreateAdmin(ctx, email, password)
}
