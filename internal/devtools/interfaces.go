package devtools

import (
	"context"

	"folioterm/internal/session"
)

type Demo interface {
	Resolve(name string) Scenario
	Names() []string
	Events(sc Scenario) []session.Event
	SetState(ctx context.Context, cacheDir string, state string, rendered bool) error
}
