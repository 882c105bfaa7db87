package ui

import (
	"context"

	"folioterm/internal/backend"
	"folioterm/internal/session"
)

// Controller is the session the shell renders and feeds input into.
// *session.Controller satisfies it.
type Controller interface {
	Dispatch(ev session.Event) []session.Job
	State() session.State
	Env() session.Env
}

// AdminSource loads the dashboard shown after a successful login.
type AdminSource interface {
	AdminSummary(ctx context.Context, sess backend.Session) (backend.AdminSummary, error)
}

type Screen int

const (
	ScreenTerminal Screen = iota
	ScreenAdmin
)

var (
	_ Controller   = (*session.Controller)(nil)
	_ session.Host = (*Root)(nil)
	_ AdminSource  = (backend.Client)(nil)
)
