// Package command parses one line of terminal input and describes what
// should happen: lines to print, a new working directory and side effects
// for the session to carry out. Nothing in here performs I/O.
package command

import (
	"fmt"
	"strings"

	"folioterm/internal/i18n"
	"folioterm/internal/portfolio"
)

// Tone is the semantic colour of an output line.
type Tone int

const (
	ToneDefault Tone = iota
	ToneSuccess
	ToneError
	ToneMuted
	TonePrompt
	ToneSystem
)

func (t Tone) String() string {
	switch t {
	case ToneSuccess:
		return "success"
	case ToneError:
		return "error"
	case ToneMuted:
		return "muted"
	case TonePrompt:
		return "prompt"
	case ToneSystem:
		return "system"
	default:
		return "default"
	}
}

// Line is one scrollback entry. Preserve keeps leading whitespace and
// alignment intact when rendered.
type Line struct {
	Text     string
	Tone     Tone
	Preserve bool
}

func line(tone Tone, text string) Line      { return Line{Text: text, Tone: tone} }
func preserved(tone Tone, text string) Line { return Line{Text: text, Tone: tone, Preserve: true} }

// PromptKind names a guided multi-field flow.
type PromptKind string

const (
	PromptMessage     PromptKind = "message"
	PromptTestimonial PromptKind = "testimonial"
	PromptLogin       PromptKind = "login"
)

// EffectKind enumerates the side effects a command can request.
type EffectKind int

const (
	EffectScrollTo EffectKind = iota + 1
	EffectClearFragment
	EffectStartPrompt
	EffectDownloadResume
	EffectStartMaze
	EffectQuitMaze
	EffectClear
	EffectClose
	EffectPrefill
)

// Effect is a side-effect request. Only the field matching Kind is set.
type Effect struct {
	Kind    EffectKind
	Section Section
	Prompt  PromptKind
	Lang    i18n.Lang
	Text    string
}

// Context is everything a command may read.
type Context struct {
	Cwd      Section
	Snapshot portfolio.Snapshot
	Lang     i18n.Lang
}

// Result describes the outcome of one command.
type Result struct {
	Lines      []Line
	Cwd        Section
	CwdChanged bool
	Effects    []Effect
}

// Has reports whether the result carries an effect of kind k.
func (r Result) Has(k EffectKind) bool {
	for _, e := range r.Effects {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Name is a command word.
type Name string

const (
	Help           Name = "help"
	List           Name = "ls"
	ChangeDir      Name = "cd"
	Cat            Name = "cat"
	Msg            Name = "msg"
	Testimonial    Name = "testimonial"
	DownloadResume Name = "download-resume"
	Labyrinth      Name = "labyrinth"
	Lab            Name = "lab"
	Login          Name = "login"
	Clear          Name = "clear"
	Quit           Name = "quit"
)

type handlerFunc func(args []string, ctx Context) Result

type entry struct {
	name     Name
	aliasOf  Name
	usage    string
	hidden   bool
	takesArg bool
	run      handlerFunc
}

// registry is ordered the way help lists commands.
var registry []entry

func init() {
	registry = []entry{
		{name: Help, usage: "help", run: runHelp},
		{name: List, usage: "ls [section]", takesArg: true, run: runList},
		{name: ChangeDir, usage: "cd <section|..>", takesArg: true, run: runChangeDir},
		{name: Cat, usage: "cat [item]", takesArg: true, run: runCat},
		{name: Msg, usage: "msg", run: startPrompt(PromptMessage)},
		{name: Testimonial, usage: "testimonial", run: startPrompt(PromptTestimonial)},
		{name: DownloadResume, usage: "download-resume [en|fr]", takesArg: true, run: runDownloadResume},
		{name: Labyrinth, usage: "labyrinth <start|help|quit>", takesArg: true, run: runLabyrinth},
		{name: Lab, aliasOf: Labyrinth, takesArg: true, run: runLabyrinth},
		{name: Login, usage: "login", hidden: true, run: startPrompt(PromptLogin)},
		{name: Clear, usage: "clear", run: runClear},
		{name: Quit, usage: "quit", run: runQuit},
	}
}

func lookup(token string) (entry, bool) {
	for _, e := range registry {
		if string(e.name) == token {
			return e, true
		}
	}
	return entry{}, false
}

// Resolve maps a typed command word (any case, aliases included) to its
// canonical name.
func Resolve(token string) (Name, bool) {
	e, ok := lookup(strings.ToLower(strings.TrimSpace(token)))
	if !ok {
		return "", false
	}
	if e.aliasOf != "" {
		return e.aliasOf, true
	}
	return e.name, true
}

// Visible returns the discoverable commands in help order.
func Visible() []Name {
	out := make([]Name, 0, len(registry))
	for _, e := range registry {
		if e.hidden || e.aliasOf != "" {
			continue
		}
		out = append(out, e.name)
	}
	return out
}

// Execute runs one line of input. It never panics: a failing handler is
// reported as an error line and the working directory is left alone.
func Execute(raw string, ctx Context) (res Result) {
	if !ctx.Lang.Valid() {
		ctx.Lang = i18n.BaseLang
	}
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Cwd:   ctx.Cwd,
				Lines: []Line{line(ToneError, i18n.T(ctx.Lang, "error.internal", fmt.Sprint(r)))},
			}
		}
	}()

	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Result{Cwd: ctx.Cwd}
	}
	token := strings.ToLower(fields[0])
	e, ok := lookup(token)
	if !ok {
		return notFound(fields[0], ctx)
	}
	res = e.run(fields[1:], ctx)
	if !res.CwdChanged {
		res.Cwd = ctx.Cwd
	}
	return res
}

func notFound(token string, ctx Context) Result {
	res := Result{Cwd: ctx.Cwd}
	res.Lines = append(res.Lines, line(ToneError, i18n.T(ctx.Lang, "error.not_found", token)))
	if guess, ok := closestCommand(strings.ToLower(token)); ok {
		res.Lines = append(res.Lines, line(ToneMuted, i18n.T(ctx.Lang, "error.did_you_mean", string(guess))))
	}
	return res
}
