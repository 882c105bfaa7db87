package session

import (
	"maps"
	"strings"
	"unicode/utf8"

	"folioterm/internal/command"
	"folioterm/internal/i18n"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Field is one step of a guided prompt.
type Field struct {
	Key      string
	Required bool
	Masked   bool
	// Validate runs on non-empty input only.
	Validate func(string) bool
	// Invalid is the catalog key printed when Validate fails.
	Invalid string
}

// PromptState tracks an active guided prompt. Step always indexes Fields.
type PromptState struct {
	Kind   command.PromptKind
	Step   int
	Fields []Field
	Values map[string]string
}

// Current returns the field waiting for input.
func (p *PromptState) Current() Field {
	return p.Fields[p.Step]
}

// ValidEmail reports whether v looks like an email address.
func ValidEmail(v string) bool {
	return validate.Var(v, "email") == nil
}

func emailField(key string) Field {
	return Field{Key: key, Required: true, Validate: ValidEmail, Invalid: "prompt.invalid.email"}
}

// Fields returns the ordered fields of kind.
func Fields(kind command.PromptKind) []Field {
	switch kind {
	case command.PromptMessage:
		return []Field{
			{Key: "name", Required: true},
			emailField("email"),
			{Key: "subject"},
			{Key: "message", Required: true},
		}
	case command.PromptTestimonial:
		return []Field{
			{Key: "author_name", Required: true},
			{Key: "author_title"},
			{Key: "author_company"},
			{Key: "content_en", Required: true},
			{Key: "content_fr"},
		}
	case command.PromptLogin:
		return []Field{
			emailField("email"),
			{Key: "password", Required: true, Masked: true},
		}
	}
	return nil
}

func fieldLabel(lang i18n.Lang, kind command.PromptKind, f Field) string {
	label := i18n.T(lang, "prompt."+string(kind)+"."+f.Key)
	if !f.Required {
		label += " " + i18n.T(lang, "prompt.optional")
	}
	return label + ":"
}

func fieldLine(lang i18n.Lang, p *PromptState) command.Line {
	return command.Line{Text: fieldLabel(lang, p.Kind, p.Current()), Tone: command.TonePrompt}
}

func startPrompt(s State, kind command.PromptKind) State {
	fields := Fields(kind)
	if len(fields) == 0 {
		return s
	}
	s.Prompt = &PromptState{Kind: kind, Fields: fields, Values: map[string]string{}}
	s.Suggestions = nil
	s.Lines = appendLines(s.Lines,
		command.Line{Text: i18n.T(s.Lang, "prompt."+string(kind)+".intro"), Tone: command.ToneSystem},
		command.Line{Text: i18n.T(s.Lang, "prompt.cancel_hint"), Tone: command.ToneMuted},
		fieldLine(s.Lang, s.Prompt),
	)
	return s
}

// advancePrompt feeds raw into the active prompt.
func advancePrompt(s State, raw string) (State, []Request) {
	p := s.Prompt
	value := strings.TrimSpace(raw)
	if strings.EqualFold(value, "cancel") {
		s.Prompt = nil
		s.Lines = appendLines(s.Lines, command.Line{Text: i18n.T(s.Lang, "prompt.cancelled"), Tone: command.ToneMuted})
		return s, nil
	}

	f := p.Current()
	if value == "" && f.Required {
		s.Lines = appendLines(s.Lines, command.Line{Text: i18n.T(s.Lang, "prompt.required"), Tone: command.ToneError})
		return s, nil
	}
	if value != "" && f.Validate != nil && !f.Validate(value) {
		s.Lines = appendLines(s.Lines, command.Line{Text: i18n.T(s.Lang, f.Invalid), Tone: command.ToneError})
		return s, nil
	}

	shown := value
	if f.Masked {
		shown = strings.Repeat("*", utf8.RuneCountInString(value))
	}
	if shown == "" {
		shown = "-"
	}
	values := maps.Clone(p.Values)
	values[f.Key] = value
	s.Lines = appendLines(s.Lines, command.Line{Text: "> " + shown, Tone: command.ToneMuted})

	if p.Step+1 >= len(p.Fields) {
		s.Prompt = nil
		s.Submitting = true
		s.Lines = appendLines(s.Lines, command.Line{Text: i18n.T(s.Lang, "prompt.sending"), Tone: command.ToneMuted})
		return s, []Request{{Kind: RequestSubmit, Prompt: p.Kind, Values: values}}
	}
	s.Prompt = &PromptState{Kind: p.Kind, Step: p.Step + 1, Fields: p.Fields, Values: values}
	s.Lines = appendLines(s.Lines, fieldLine(s.Lang, s.Prompt))
	return s, nil
}
