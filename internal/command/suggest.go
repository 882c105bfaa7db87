package command

import (
	"strings"

	"folioterm/internal/format"
	"folioterm/internal/i18n"
)

// Suggestion is one autocomplete candidate. Value is the full input line
// the candidate produces when applied.
type Suggestion struct {
	Value       string
	Label       string
	Description string
}

type candidate struct {
	value       string
	label       string
	description string
	terms       []string
	// target is what the command resolves value to.
	target string
}

// Suggest returns candidates for the raw input line: command names while the
// first word is being typed, arguments once a space follows a known command.
func Suggest(input string, ctx Context) []Suggestion {
	if !ctx.Lang.Valid() {
		ctx.Lang = i18n.BaseLang
	}
	trimmed := strings.TrimLeft(input, " ")
	if trimmed == "" {
		return nil
	}
	token, rest, hasSpace := strings.Cut(trimmed, " ")
	if !hasSpace {
		return SuggestCommands(token, ctx.Lang)
	}
	name, ok := Resolve(token)
	if !ok {
		return nil
	}
	return SuggestArguments(strings.ToLower(token), name, rest, ctx)
}

// SuggestCommands completes a partial command word. Hidden commands and
// aliases are never offered, and nothing is offered once the word is already
// a complete command.
func SuggestCommands(prefix string, lang i18n.Lang) []Suggestion {
	p := strings.ToLower(strings.TrimSpace(prefix))
	if p == "" {
		return nil
	}
	if _, ok := lookup(p); ok {
		return nil
	}
	var out []Suggestion
	for _, name := range Visible() {
		if !strings.HasPrefix(string(name), p) {
			continue
		}
		e, _ := lookup(string(name))
		value := string(name)
		if e.takesArg {
			value += " "
		}
		out = append(out, Suggestion{
			Value:       value,
			Label:       string(name),
			Description: i18n.T(lang, "help.cmd."+string(name)),
		})
	}
	return out
}

// SuggestArguments completes the argument of cd, cat, download-resume and
// labyrinth. typed is the command word as entered so applied values keep
// the user's spelling. Once the argument already resolves to a candidate's
// target, in any accepted spelling, nothing is offered so Enter runs the
// command.
func SuggestArguments(typed string, name Name, query string, ctx Context) []Suggestion {
	var cands []candidate
	switch name {
	case ChangeDir:
		cands = sectionCandidates(ctx)
	case Cat:
		cands = itemCandidates(ctx)
	case DownloadResume:
		cands = resumeCandidates(ctx)
	case Labyrinth:
		cands = labyrinthCandidates(ctx)
	default:
		return nil
	}
	if target, ok := resolveArgument(name, query, ctx); ok {
		for _, c := range cands {
			if c.target == target {
				return nil
			}
		}
	}
	ranked := rank(cands, query)
	out := make([]Suggestion, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, Suggestion{Value: typed + " " + c.value, Label: c.label, Description: c.description})
	}
	return out
}

// resolveArgument reports the target the command itself would act on for
// query, using the same parsing the handlers use.
func resolveArgument(name Name, query string, ctx Context) (string, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", false
	}
	switch name {
	case ChangeDir:
		switch q {
		case "..", "~", "/":
			return "..", true
		}
		if s, ok := ParseSection(q); ok {
			return string(s), true
		}
	case Cat:
		if ctx.Cwd == Root {
			return "", false
		}
		if it, ok := ExactItem(Items(ctx.Cwd, ctx.Snapshot, ctx.Lang), q); ok {
			return it.Key, true
		}
	case DownloadResume:
		if lang, ok := ParseResumeLang(q); ok {
			return string(lang), true
		}
	case Labyrinth:
		sub := strings.ToLower(q)
		switch sub {
		case "start", "help", "quit":
			return sub, true
		}
	}
	return "", false
}

// rank orders candidates for query in two tiers: those with a term starting
// with the first query word, then those merely containing every query word.
// Candidates matching neither are dropped; order within a tier is kept.
func rank(cands []candidate, query string) []candidate {
	tokens := strings.Fields(format.Normalize(query))
	if len(tokens) == 0 {
		return cands
	}
	var prefixed, contained []candidate
	for _, c := range cands {
		if !containsAll(c.terms, tokens) {
			continue
		}
		if hasPrefix(c.terms, tokens[0]) {
			prefixed = append(prefixed, c)
		} else {
			contained = append(contained, c)
		}
	}
	return append(prefixed, contained...)
}

func hasPrefix(terms []string, token string) bool {
	for _, t := range terms {
		if strings.HasPrefix(t, token) {
			return true
		}
	}
	return false
}

func containsAll(terms []string, tokens []string) bool {
	for _, tok := range tokens {
		found := false
		for _, t := range terms {
			if strings.Contains(t, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func normalizedTerms(raw ...string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if n := format.Normalize(r); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func sectionCandidates(ctx Context) []candidate {
	out := []candidate{{value: "..", label: "..", description: "~/portfolio", terms: []string{".."}, target: ".."}}
	for _, s := range Sections {
		out = append(out, candidate{
			value:       string(s),
			label:       string(s) + "/",
			description: s.Title(ctx.Lang),
			terms:       normalizedTerms(s.terms()...),
			target:      string(s),
		})
	}
	return out
}

func itemCandidates(ctx Context) []candidate {
	if ctx.Cwd == Root {
		return nil
	}
	items := Items(ctx.Cwd, ctx.Snapshot, ctx.Lang)
	out := make([]candidate, 0, len(items))
	for _, it := range items {
		out = append(out, candidate{
			value:       it.Key,
			label:       it.Key,
			description: it.Label,
			terms:       normalizedTerms(append([]string{it.Key, it.Label}, it.Aliases...)...),
			target:      it.Key,
		})
	}
	return out
}

func resumeCandidates(ctx Context) []candidate {
	return []candidate{
		{value: "en", label: "en", description: i18n.T(ctx.Lang, "lang.en"), terms: []string{"en", "english", "anglais"}, target: "en"},
		{value: "fr", label: "fr", description: i18n.T(ctx.Lang, "lang.fr"), terms: []string{"fr", "french", "francais"}, target: "fr"},
	}
}

func labyrinthCandidates(ctx Context) []candidate {
	out := make([]candidate, 0, 3)
	for _, sub := range []string{"start", "help", "quit"} {
		out = append(out, candidate{
			value:       sub,
			label:       sub,
			description: i18n.T(ctx.Lang, "maze.sub."+sub),
			terms:       []string{sub},
			target:      sub,
		})
	}
	return out
}
