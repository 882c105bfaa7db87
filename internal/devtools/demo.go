// Package devtools drives a session into known states for screenshots and
// smoke checks.
package devtools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"folioterm/internal/session"
)

type Scenario struct {
	Name     string
	Commands []string
}

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

var scenarios = map[string][]string{
	"home":         nil,
	"help":         {"help"},
	"about":        {"cd about", "cat about"},
	"skills":       {"cd skills", "ls"},
	"projects":     {"ls projects"},
	"experience":   {"cd experience", "ls"},
	"testimonials": {"cd testimonials", "ls"},
	"contact":      {"cd contact", "msg"},
	"maze":         {"labyrinth"},
	"login":        {"login"},
	"not_found":    {"sudo make me a sandwich"},
}

// Resolve maps a demo name to its scripted commands. Unknown names fall
// back to the home screen.
func (m *Manager) Resolve(name string) Scenario {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "labyrinth", "lab":
		key = "maze"
	case "", "boot":
		key = "home"
	case "msg", "message":
		key = "contact"
	}
	cmds, ok := scenarios[key]
	if !ok {
		return Scenario{Name: "home"}
	}
	return Scenario{Name: key, Commands: slices.Clone(cmds)}
}

func (m *Manager) Names() []string {
	out := make([]string, 0, len(scenarios))
	for name := range scenarios {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Events turns a scenario into one Execute per command. Each line runs as
// written, even where autocomplete would offer a different completion.
func (m *Manager) Events(sc Scenario) []session.Event {
	out := make([]session.Event, 0, len(sc.Commands))
	for _, cmd := range sc.Commands {
		out = append(out, session.Execute{Text: cmd})
	}
	return out
}

type devState struct {
	State     string    `json:"state"`
	Rendered  bool      `json:"rendered"`
	UpdatedAt time.Time `json:"ts"`
}

// SetState records the active demo in dev_state.json under cacheDir, or
// ~/.cache/folioterm when cacheDir is empty. Readers never see a partial
// file. A cancelled ctx leaves the previous file in place.
func (m *Manager) SetState(ctx context.Context, cacheDir string, state string, rendered bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		cacheDir = filepath.Join(home, ".cache", "folioterm")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(devState{State: state, Rendered: rendered, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(cacheDir, "dev_state-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(cacheDir, "dev_state.json"))
}

var _ Demo = (*Manager)(nil)
