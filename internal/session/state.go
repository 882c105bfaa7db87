// Package session owns one terminal session: scrollback, history,
// suggestions, guided prompts and the labyrinth. State changes go through a
// pure reducer; the Controller performs the side effects it requests.
package session

import (
	"time"

	"folioterm/internal/backend"
	"folioterm/internal/command"
	"folioterm/internal/i18n"
	"folioterm/internal/maze"
	"folioterm/internal/portfolio"
)

// History cursor positions that are not indexes.
const (
	cursorDraft      = -1
	cursorPastOldest = -2
)

// NoHover marks that no suggestion is under the pointer.
const NoHover = -1

// State is the whole mutable session. Treat it as a value: Apply returns a
// new State and never mutates slices or maps reachable from its receiver.
type State struct {
	Lang  i18n.Lang
	Cwd   command.Section
	Lines []command.Line

	History       []string
	HistoryCursor int

	Prompt *PromptState

	Booting    bool
	Submitting bool
	Closed     bool

	Input             string
	Suggestions       []command.Suggestion
	ActiveSuggestion  int
	HoveredSuggestion int

	Maze *maze.State
}

// NewState returns the state of a freshly opened, still booting session.
func NewState(lang i18n.Lang) State {
	if !lang.Valid() {
		lang = i18n.BaseLang
	}
	return State{
		Lang:              lang,
		HistoryCursor:     cursorDraft,
		HoveredSuggestion: NoHover,
		Booting:           true,
	}
}

// AcceptsInput reports whether typed input is currently processed.
func (s State) AcceptsInput() bool {
	return !s.Booting && !s.Submitting && !s.Closed
}

// Env is read-only context for the reducer.
type Env struct {
	Snapshot portfolio.Snapshot
}

// PromptLabel is the shell prompt shown before typed commands.
func (s State) PromptLabel(env Env) string {
	user := env.Snapshot.Setting("prompt_user", "guest")
	return user + "@portfolio:" + s.Cwd.Path() + "$"
}

// Event is anything that can change the session.
type Event interface{ isEvent() }

type (
	// InputChanged carries the new raw text of the input line.
	InputChanged struct{ Text string }
	// Submit is Enter. At stamps typed maze moves.
	Submit struct{ At time.Time }
	// Execute runs Text as a submitted line without consulting
	// suggestions. Scripts and demos use it.
	Execute struct {
		Text string
		At   time.Time
	}
	// ApplySuggestion is Alt+Enter or Tab.
	ApplySuggestion struct{}
	// HoverSuggestion moves the pointer highlight; NoHover clears it.
	HoverSuggestion struct{ Index int }
	HistoryUp       struct{}
	HistoryDown     struct{}
	Escape          struct{}
	MazeMove        struct {
		Dir maze.Direction
		At  time.Time
	}
	MazeReady struct{ State *maze.State }
	BootLine  struct{ Text string }
	BootDone  struct{}
	// SubmissionDone reports the result of a prompt submission.
	SubmissionDone struct {
		Kind    command.PromptKind
		Session backend.Session
		Err     error
	}
	DownloadDone struct {
		Lang i18n.Lang
		Path string
		Size int64
		Err  error
	}
)

func (InputChanged) isEvent()    {}
func (Submit) isEvent()          {}
func (Execute) isEvent()         {}
func (ApplySuggestion) isEvent() {}
func (HoverSuggestion) isEvent() {}
func (HistoryUp) isEvent()       {}
func (HistoryDown) isEvent()     {}
func (Escape) isEvent()          {}
func (MazeMove) isEvent()        {}
func (MazeReady) isEvent()       {}
func (BootLine) isEvent()        {}
func (BootDone) isEvent()        {}
func (SubmissionDone) isEvent()  {}
func (DownloadDone) isEvent()    {}

// RequestKind enumerates side effects the reducer asks for.
type RequestKind int

const (
	RequestScrollTo RequestKind = iota + 1
	RequestSetFragment
	RequestClose
	RequestNavigateAdmin
	RequestStartMaze
	RequestSubmit
	RequestDownload
	RequestRecord
)

// Request is one side effect for the Controller to perform.
type Request struct {
	Kind     RequestKind
	Section  command.Section
	Fragment string
	Prompt   command.PromptKind
	Values   map[string]string
	Lang     i18n.Lang
	Session  backend.Session
	Event    string
	Fields   map[string]any
}
