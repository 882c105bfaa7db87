package command

import (
	"strings"

	"folioterm/internal/format"
	"folioterm/internal/i18n"

	"github.com/agnivade/levenshtein"
)

const listWidth = 72

func usage(ctx Context, name Name) Line {
	e, _ := lookup(string(name))
	return line(ToneError, i18n.T(ctx.Lang, "error.usage", e.usage))
}

func runHelp(_ []string, ctx Context) Result {
	var res Result
	res.Lines = append(res.Lines, line(ToneSystem, i18n.T(ctx.Lang, "help.commands")))
	width := 0
	for _, e := range registry {
		width = max(width, len(e.usage))
	}
	width += 2
	for _, name := range Visible() {
		e, _ := lookup(string(name))
		desc := i18n.T(ctx.Lang, "help.cmd."+string(name))
		res.Lines = append(res.Lines, preserved(ToneDefault, "  "+format.Pad(e.usage, width)+"- "+desc))
	}
	res.Lines = append(res.Lines, Line{}, line(ToneSystem, i18n.T(ctx.Lang, "help.shortcuts")))
	for _, sc := range []struct{ keys, desc string }{
		{"Enter", "help.key.enter"},
		{"Alt+Enter / Tab", "help.key.apply"},
		{"Up / Down", "help.key.updown"},
		{"Esc", "help.key.escape"},
	} {
		res.Lines = append(res.Lines, preserved(ToneDefault, "  "+format.Pad(sc.keys, width)+"- "+i18n.T(ctx.Lang, sc.desc)))
	}
	return res
}

func runList(args []string, ctx Context) Result {
	target := ctx.Cwd
	if len(args) > 1 {
		return Result{Lines: []Line{usage(ctx, List)}}
	}
	if len(args) == 1 && args[0] != "." {
		if args[0] == ".." || args[0] == "~" || args[0] == "/" {
			target = Root
		} else {
			s, ok := ParseSection(args[0])
			if !ok {
				return Result{Lines: []Line{line(ToneError, i18n.T(ctx.Lang, "error.no_section", args[0]))}}
			}
			target = s
		}
	}

	var res Result
	if target == Root {
		dirs := make([]string, 0, len(Sections))
		for _, s := range Sections {
			dirs = append(dirs, string(s)+"/")
		}
		for _, row := range format.Columns(dirs, listWidth) {
			res.Lines = append(res.Lines, preserved(ToneDefault, row))
		}
		return res
	}
	items := Items(target, ctx.Snapshot, ctx.Lang)
	if len(items) == 0 {
		return Result{Lines: []Line{line(ToneMuted, i18n.T(ctx.Lang, "ls.empty"))}}
	}
	for _, it := range items {
		res.Lines = append(res.Lines, preserved(ToneDefault, it.Brief))
	}
	return res
}

func runChangeDir(args []string, ctx Context) Result {
	if len(args) != 1 {
		return Result{Lines: []Line{usage(ctx, ChangeDir)}}
	}
	switch args[0] {
	case "..", "~", "/":
		if ctx.Cwd == Root {
			return Result{Lines: []Line{line(ToneMuted, i18n.T(ctx.Lang, "cd.already_root"))}}
		}
		return Result{
			Lines:      []Line{line(ToneSuccess, i18n.T(ctx.Lang, "cd.root"))},
			Cwd:        Root,
			CwdChanged: true,
			Effects:    []Effect{{Kind: EffectClearFragment}},
		}
	}
	s, ok := ParseSection(args[0])
	if !ok {
		return Result{Lines: []Line{line(ToneError, i18n.T(ctx.Lang, "error.no_section", args[0]))}}
	}
	return Result{
		Lines:      []Line{line(ToneSuccess, i18n.T(ctx.Lang, "cd.entered", string(s)))},
		Cwd:        s,
		CwdChanged: true,
		Effects:    []Effect{{Kind: EffectScrollTo, Section: s}},
	}
}

func runCat(args []string, ctx Context) Result {
	if ctx.Cwd == Root {
		return Result{Lines: []Line{line(ToneError, i18n.T(ctx.Lang, "cat.no_section"))}}
	}
	items := Items(ctx.Cwd, ctx.Snapshot, ctx.Lang)
	if len(args) == 0 {
		switch len(items) {
		case 0:
			return Result{Lines: []Line{line(ToneMuted, i18n.T(ctx.Lang, "ls.empty"))}}
		case 1:
			return detailResult(items[0])
		default:
			return Result{Lines: []Line{
				line(ToneError, i18n.T(ctx.Lang, "error.usage", "cat <item>")),
				line(ToneMuted, i18n.T(ctx.Lang, "cat.hint")),
			}}
		}
	}

	query := strings.Join(args, " ")
	matches := MatchItems(items, query)
	switch len(matches) {
	case 0:
		return Result{Lines: []Line{line(ToneError, i18n.T(ctx.Lang, "cat.not_found", query))}}
	case 1:
		return detailResult(matches[0])
	}
	res := Result{Lines: []Line{line(ToneError, i18n.T(ctx.Lang, "cat.ambiguous", query, len(matches)))}}
	for _, m := range matches {
		res.Lines = append(res.Lines, preserved(ToneMuted, "  "+m.Key+"  "+m.Label))
	}
	return res
}

// MatchItems finds the items whose aliases match query after normalization.
// An exact alias match wins; otherwise every item with an alias containing
// the query is returned in section order.
func MatchItems(items []Item, query string) []Item {
	q := format.Normalize(query)
	if q == "" {
		return nil
	}
	if it, ok := ExactItem(items, q); ok {
		return []Item{it}
	}
	var out []Item
	for _, it := range items {
		for _, a := range it.Aliases {
			if a != "" && strings.Contains(format.Normalize(a), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// ExactItem returns the first item whose key or an alias equals query after
// normalization.
func ExactItem(items []Item, query string) (Item, bool) {
	q := format.Normalize(query)
	if q == "" {
		return Item{}, false
	}
	for _, it := range items {
		if format.Normalize(it.Key) == q {
			return it, true
		}
		for _, a := range it.Aliases {
			if a != "" && format.Normalize(a) == q {
				return it, true
			}
		}
	}
	return Item{}, false
}

func detailResult(it Item) Result {
	res := Result{Lines: make([]Line, 0, len(it.Detail))}
	for _, d := range it.Detail {
		res.Lines = append(res.Lines, preserved(ToneDefault, d))
	}
	return res
}

func startPrompt(kind PromptKind) handlerFunc {
	return func(_ []string, _ Context) Result {
		return Result{Effects: []Effect{{Kind: EffectStartPrompt, Prompt: kind}}}
	}
}

// ParseResumeLang accepts a language code or its English/French name.
func ParseResumeLang(raw string) (i18n.Lang, bool) {
	switch format.Normalize(raw) {
	case "en", "english", "anglais":
		return i18n.EN, true
	case "fr", "french", "francais":
		return i18n.FR, true
	}
	return "", false
}

func runDownloadResume(args []string, ctx Context) Result {
	if len(args) == 0 {
		return Result{
			Lines:   []Line{line(TonePrompt, i18n.T(ctx.Lang, "resume.choose"))},
			Effects: []Effect{{Kind: EffectPrefill, Text: string(DownloadResume) + " "}},
		}
	}
	lang, ok := ParseResumeLang(args[0])
	if len(args) > 1 || !ok {
		return Result{Lines: []Line{usage(ctx, DownloadResume)}}
	}
	if _, ok := ctx.Snapshot.Resume(lang); !ok {
		return Result{Lines: []Line{line(ToneError, i18n.T(ctx.Lang, "resume.unavailable", string(lang)))}}
	}
	return Result{
		Lines:   []Line{line(ToneMuted, i18n.T(ctx.Lang, "resume.downloading", string(lang)))},
		Effects: []Effect{{Kind: EffectDownloadResume, Lang: lang}},
	}
}

// LabyrinthHelp is the static control sheet printed by "labyrinth help".
func LabyrinthHelp(lang i18n.Lang) []Line {
	return []Line{
		line(ToneSystem, i18n.T(lang, "maze.help.title")),
		preserved(ToneDefault, "  "+i18n.T(lang, "maze.help.move")),
		preserved(ToneDefault, "  "+i18n.T(lang, "maze.help.goal")),
		preserved(ToneDefault, "  "+i18n.T(lang, "maze.help.quit")),
	}
}

func runLabyrinth(args []string, ctx Context) Result {
	if len(args) > 1 {
		return Result{Lines: []Line{usage(ctx, Labyrinth)}}
	}
	sub := "start"
	if len(args) == 1 {
		sub = strings.ToLower(args[0])
	}
	switch sub {
	case "start":
		return Result{Effects: []Effect{{Kind: EffectStartMaze}}}
	case "help":
		return Result{Lines: LabyrinthHelp(ctx.Lang)}
	case "quit":
		return Result{Effects: []Effect{{Kind: EffectQuitMaze}}}
	}
	return Result{Lines: []Line{usage(ctx, Labyrinth)}}
}

func runClear(_ []string, _ Context) Result {
	return Result{Effects: []Effect{{Kind: EffectClear}}}
}

func runQuit(_ []string, ctx Context) Result {
	return Result{
		Lines:   []Line{line(ToneSystem, i18n.T(ctx.Lang, "quit.bye"))},
		Effects: []Effect{{Kind: EffectClose}},
	}
}

// closestCommand suggests the visible command nearest to token, if any is
// within two edits.
func closestCommand(token string) (Name, bool) {
	best, bestDist := Name(""), 3
	for _, name := range Visible() {
		d := levenshtein.ComputeDistance(token, string(name))
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	return best, best != ""
}
