package session

import (
	"errors"
	"slices"
	"strings"
	"time"

	"folioterm/internal/backend"
	"folioterm/internal/command"
	"folioterm/internal/i18n"
	"folioterm/internal/maze"

	"github.com/dustin/go-humanize"
)

func appendLines(lines []command.Line, more ...command.Line) []command.Line {
	return append(slices.Clip(lines), more...)
}

func (s State) say(tone command.Tone, key string, args ...any) State {
	s.Lines = appendLines(s.Lines, command.Line{Text: i18n.T(s.Lang, key, args...), Tone: tone})
	return s
}

func (s State) ctx(env Env) command.Context {
	return command.Context{Cwd: s.Cwd, Snapshot: env.Snapshot, Lang: s.Lang}
}

// Apply is the session reducer.
func (s State) Apply(ev Event, env Env) (State, []Request) {
	switch ev := ev.(type) {
	case BootLine:
		if s.Closed {
			return s, nil
		}
		s.Lines = appendLines(s.Lines, command.Line{Text: ev.Text, Tone: command.ToneSystem, Preserve: true})
		return s, nil
	case BootDone:
		s.Booting = false
		return s, nil
	case Escape:
		return s.escape()
	case SubmissionDone:
		return s.submissionDone(ev)
	case DownloadDone:
		return s.downloadDone(ev)
	case MazeReady:
		return s.mazeReady(ev)
	}

	if !s.AcceptsInput() {
		return s, nil
	}
	switch ev := ev.(type) {
	case InputChanged:
		return s.inputChanged(ev.Text, env), nil
	case HoverSuggestion:
		s.HoveredSuggestion = NoHover
		if ev.Index >= 0 && ev.Index < len(s.Suggestions) {
			s.HoveredSuggestion = ev.Index
		}
		return s, nil
	case ApplySuggestion:
		idx := s.ActiveSuggestion
		if s.HoveredSuggestion != NoHover {
			idx = s.HoveredSuggestion
		}
		return s.applySuggestion(idx, env), nil
	case HistoryUp:
		return s.historyUp(), nil
	case HistoryDown:
		return s.historyDown(), nil
	case MazeMove:
		return s.mazeMove(ev)
	case Submit:
		return s.submit(ev.At, env)
	case Execute:
		s.Input = ev.Text
		s.Suggestions = nil
		return s.submit(ev.At, env)
	}
	return s, nil
}

func (s State) inputChanged(text string, env Env) State {
	s.Input = text
	s.HistoryCursor = cursorDraft
	return s.refreshSuggestions(env)
}

func (s State) refreshSuggestions(env Env) State {
	s.Suggestions = nil
	s.ActiveSuggestion = 0
	s.HoveredSuggestion = NoHover
	if s.Prompt != nil {
		return s
	}
	s.Suggestions = command.Suggest(s.Input, s.ctx(env))
	return s
}

func (s State) applySuggestion(idx int, env Env) State {
	if idx < 0 || idx >= len(s.Suggestions) {
		return s
	}
	s.Input = s.Suggestions[idx].Value
	s.HistoryCursor = cursorDraft
	return s.refreshSuggestions(env)
}

func (s State) historyUp() State {
	if len(s.Suggestions) > 0 {
		s.ActiveSuggestion = max(0, s.ActiveSuggestion-1)
		return s
	}
	if s.Prompt != nil || len(s.History) == 0 {
		return s
	}
	switch {
	case s.HistoryCursor == cursorDraft:
		s.HistoryCursor = len(s.History) - 1
	case s.HistoryCursor == 0:
		s.HistoryCursor = cursorPastOldest
		s.Input = ""
		return s
	case s.HistoryCursor > 0:
		s.HistoryCursor--
	default:
		return s
	}
	s.Input = s.History[s.HistoryCursor]
	return s
}

func (s State) historyDown() State {
	if len(s.Suggestions) > 0 {
		s.ActiveSuggestion = min(len(s.Suggestions)-1, s.ActiveSuggestion+1)
		return s
	}
	if s.Prompt != nil || len(s.History) == 0 {
		return s
	}
	switch {
	case s.HistoryCursor == cursorPastOldest:
		s.HistoryCursor = 0
	case s.HistoryCursor >= 0 && s.HistoryCursor < len(s.History)-1:
		s.HistoryCursor++
	case s.HistoryCursor == len(s.History)-1:
		s.HistoryCursor = cursorDraft
		s.Input = ""
		return s
	default:
		return s
	}
	s.Input = s.History[s.HistoryCursor]
	return s
}

func (s State) submit(at time.Time, env Env) (State, []Request) {
	if s.Prompt == nil && len(s.Suggestions) > 0 {
		return s.applySuggestion(s.ActiveSuggestion, env), nil
	}
	raw := s.Input
	s.Input = ""
	s.Suggestions = nil
	s.ActiveSuggestion = 0
	s.HoveredSuggestion = NoHover
	s.HistoryCursor = cursorDraft

	if s.Prompt != nil {
		return advancePrompt(s, raw)
	}

	s.Lines = appendLines(s.Lines, command.Line{Text: s.PromptLabel(env) + " " + raw, Tone: command.TonePrompt, Preserve: true})
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return s, nil
	}
	s.History = append(slices.Clip(s.History), trimmed)

	if s.Maze != nil {
		if d, ok := maze.ParseDirection(trimmed); ok {
			return s.mazeMove(MazeMove{Dir: d, At: at})
		}
	}

	res := command.Execute(trimmed, s.ctx(env))
	s.Lines = appendLines(s.Lines, res.Lines...)
	s.Cwd = res.Cwd
	reqs := []Request{{
		Kind:   RequestRecord,
		Event:  "command",
		Fields: map[string]any{"input": trimmed, "cwd": string(s.Cwd)},
	}}
	for _, eff := range res.Effects {
		var more []Request
		s, more = s.effect(eff, env)
		reqs = append(reqs, more...)
	}
	return s, reqs
}

func (s State) effect(eff command.Effect, env Env) (State, []Request) {
	switch eff.Kind {
	case command.EffectScrollTo:
		return s, []Request{
			{Kind: RequestScrollTo, Section: eff.Section},
			{Kind: RequestSetFragment, Fragment: eff.Section.Fragment()},
		}
	case command.EffectClearFragment:
		return s, []Request{{Kind: RequestSetFragment, Fragment: ""}}
	case command.EffectStartPrompt:
		return startPrompt(s, eff.Prompt), nil
	case command.EffectDownloadResume:
		s.Submitting = true
		return s, []Request{{Kind: RequestDownload, Lang: eff.Lang}}
	case command.EffectStartMaze:
		if s.Maze != nil {
			return s.say(command.ToneMuted, "maze.already"), nil
		}
		return s, []Request{{Kind: RequestStartMaze}}
	case command.EffectQuitMaze:
		if s.Maze == nil {
			return s.say(command.ToneMuted, "maze.none"), nil
		}
		s.Maze = nil
		return s.say(command.ToneMuted, "maze.left"), nil
	case command.EffectClear:
		s.Lines = nil
		return s, nil
	case command.EffectClose:
		s.Closed = true
		return s, []Request{{Kind: RequestClose}}
	case command.EffectPrefill:
		s.Input = eff.Text
		return s.refreshSuggestions(env), nil
	}
	return s, nil
}

func (s State) escape() (State, []Request) {
	if s.Closed {
		return s, nil
	}
	if s.Maze != nil {
		s.Maze = nil
		return s.say(command.ToneMuted, "maze.left"), nil
	}
	s.Closed = true
	s.Prompt = nil
	return s, []Request{{Kind: RequestClose}}
}

func (s State) mazeReady(ev MazeReady) (State, []Request) {
	if s.Closed || ev.State == nil {
		return s, nil
	}
	s.Maze = ev.State
	s = s.say(command.ToneSuccess, "maze.started", ev.State.Width, ev.State.Height)
	s = s.say(command.ToneMuted, "maze.help.move")
	return s, []Request{{Kind: RequestRecord, Event: "maze_started", Fields: map[string]any{"width": ev.State.Width, "height": ev.State.Height}}}
}

func (s State) mazeMove(ev MazeMove) (State, []Request) {
	if s.Maze == nil {
		return s, nil
	}
	res := maze.ApplyMove(s.Maze, ev.Dir, ev.At)
	switch {
	case res.HitWall:
		return s.say(command.ToneMuted, "maze.bump"), nil
	case res.Won:
		s.Maze = nil
		elapsed := res.Elapsed.Round(100 * time.Millisecond)
		s = s.say(command.ToneSuccess, "maze.won", res.State.Steps, elapsed.String())
		return s, []Request{{Kind: RequestRecord, Event: "maze_won", Fields: map[string]any{"steps": res.State.Steps, "elapsed_ms": res.Elapsed.Milliseconds()}}}
	}
	s.Maze = res.State
	return s, nil
}

func (s State) submissionDone(ev SubmissionDone) (State, []Request) {
	s.Submitting = false
	if s.Closed {
		return s, nil
	}
	record := Request{Kind: RequestRecord, Event: "prompt_submitted", Fields: map[string]any{"kind": string(ev.Kind), "ok": ev.Err == nil}}
	if ev.Err != nil {
		key := "prompt." + string(ev.Kind) + ".failed"
		if ev.Kind == command.PromptLogin && errors.Is(ev.Err, backend.ErrInvalidCredentials) {
			key = "prompt.login.invalid"
		}
		return s.say(command.ToneError, key), []Request{record}
	}
	if ev.Kind == command.PromptLogin {
		s.Closed = true
		s = s.say(command.ToneSuccess, "prompt.login.done")
		return s, []Request{record, {Kind: RequestClose}, {Kind: RequestNavigateAdmin, Session: ev.Session}}
	}
	return s.say(command.ToneSuccess, "prompt."+string(ev.Kind)+".done"), []Request{record}
}

func (s State) downloadDone(ev DownloadDone) (State, []Request) {
	s.Submitting = false
	if s.Closed {
		return s, nil
	}
	if ev.Err != nil {
		return s.say(command.ToneError, "resume.failed", string(ev.Lang), ev.Err.Error()), nil
	}
	size := humanize.Bytes(uint64(max(0, ev.Size)))
	s = s.say(command.ToneSuccess, "resume.saved", ev.Path, size)
	return s, []Request{{Kind: RequestRecord, Event: "resume_downloaded", Fields: map[string]any{"lang": string(ev.Lang), "bytes": ev.Size}}}
}
