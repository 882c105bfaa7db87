package session

import (
	"context"

	"folioterm/internal/backend"
	"folioterm/internal/command"
	"folioterm/internal/portfolio"
)

// Host is the surface that opened the terminal.
type Host interface {
	ScrollTo(section command.Section)
	SetFragment(fragment string)
	Close()
	NavigateAdmin(sess backend.Session)
}

// Downloader fetches a resume and reports where it was saved.
type Downloader interface {
	Download(ctx context.Context, r portfolio.Resume) (path string, size int64, err error)
}

// Recorder receives structured session events.
type Recorder interface {
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}
