package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"folioterm/internal/backend"
	"folioterm/internal/command"
	"folioterm/internal/i18n"
	"folioterm/internal/session"
	"folioterm/internal/telemetry"
)

// Version is stamped into the event log and shown by --version.
var Version = "dev"

// scriptHost records host requests for a headless session.
type scriptHost struct {
	fragment string
	closed   bool
	admin    *backend.Session
}

func (h *scriptHost) ScrollTo(command.Section)           {}
func (h *scriptHost) SetFragment(f string)               { h.fragment = f }
func (h *scriptHost) Close()                             { h.closed = true }
func (h *scriptHost) NavigateAdmin(sess backend.Session) { h.admin = &sess }

// RunScript plays commands through a headless session and writes the
// resulting scrollback to w, one line per output line. It stops early when
// the session closes.
func RunScript(ctx context.Context, cfg Config, commands []string, w io.Writer) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	a := &App{
		cfg:    cfg,
		lang:   i18n.Lang(cfg.Lang),
		logger: telemetry.NewWriterLogger(io.Discard, "script"),
		log:    newConsoleLogger("folioterm", cfg.Debug),
	}
	if cfg.LogPath != "" {
		logger, err := telemetry.NewJSONLogger(cfg.LogPath, "script")
		if err != nil {
			return err
		}
		a.logger = logger
	}
	defer a.Close()

	if err := a.connect(ctx); err != nil {
		return err
	}

	host := &scriptHost{}
	ctrl := session.New(session.NewState(a.lang), a.sessionOptions(host))
	boot := make([]session.Event, 0, 8)
	for _, l := range session.BootLines(a.lang, a.snapshot) {
		boot = append(boot, session.BootLine{Text: l})
	}
	ctrl.Feed(ctx, append(boot, session.BootDone{})...)

	for _, raw := range commands {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if ctrl.State().Closed || ctx.Err() != nil {
			break
		}
		ctrl.Feed(ctx, session.Execute{Text: raw})
	}

	for _, l := range ctrl.State().Lines {
		if _, err := fmt.Fprintln(w, l.Text); err != nil {
			return err
		}
	}
	if host.fragment != "" {
		a.log.Debug("script finished", "fragment", host.fragment, "closed", host.closed)
	}
	return ctx.Err()
}

// SplitScript breaks a "cmd; cmd" string into commands.
func SplitScript(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '\n' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
