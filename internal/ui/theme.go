package ui

import (
	"folioterm/internal/command"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	Header      lipgloss.Style
	Footer      lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelBorder lipgloss.Style
	Accent      lipgloss.Style

	Text    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Prompt  lipgloss.Style
	System  lipgloss.Style

	Suggestion       lipgloss.Style
	SuggestionActive lipgloss.Style
	SuggestionHover  lipgloss.Style

	MazeWall   lipgloss.Style
	MazeFloor  lipgloss.Style
	MazeFog    lipgloss.Style
	MazePlayer lipgloss.Style
	MazeExit   lipgloss.Style
}

// Tone returns the style for an output line tone.
func (t Theme) Tone(tone command.Tone) lipgloss.Style {
	switch tone {
	case command.ToneSuccess:
		return t.Success
	case command.ToneError:
		return t.Error
	case command.ToneMuted:
		return t.Muted
	case command.TonePrompt:
		return t.Prompt
	case command.ToneSystem:
		return t.System
	default:
		return t.Text
	}
}

func DefaultTheme() Theme {
	return ThemeForVariant("midnight")
}

// ThemeVariants lists the accepted theme names.
var ThemeVariants = []string{"midnight", "paper", "phosphor"}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "paper":
		return paperTheme()
	case "phosphor":
		return phosphorTheme()
	default:
		return midnightTheme()
	}
}

func midnightTheme() Theme {
	amber := lipgloss.Color("#FFC857")
	mint := lipgloss.Color("#67F0A8")
	brick := lipgloss.Color("#FF6F91")
	ink := lipgloss.Color("#0E1420")
	slate := lipgloss.Color("#1B2740")
	powder := lipgloss.Color("#EAF2FF")
	blue := lipgloss.Color("#5EEBFF")
	border := lipgloss.Color("#4B5F8A")
	muted := lipgloss.Color("#9CAAC6")

	return Theme{
		Header:      lipgloss.NewStyle().Background(ink).Foreground(powder).Padding(0, 1),
		Footer:      lipgloss.NewStyle().Background(slate).Foreground(powder).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(blue).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(border),
		Accent:      lipgloss.NewStyle().Foreground(blue).Bold(true),

		Text:    lipgloss.NewStyle().Foreground(powder),
		Success: lipgloss.NewStyle().Foreground(mint),
		Error:   lipgloss.NewStyle().Foreground(brick).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Prompt:  lipgloss.NewStyle().Foreground(amber),
		System:  lipgloss.NewStyle().Foreground(blue),

		Suggestion:       lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		SuggestionActive: lipgloss.NewStyle().Background(slate).Foreground(amber).Bold(true).Padding(0, 1),
		SuggestionHover:  lipgloss.NewStyle().Foreground(powder).Underline(true).Padding(0, 1),

		MazeWall:   lipgloss.NewStyle().Foreground(border),
		MazeFloor:  lipgloss.NewStyle().Foreground(slate),
		MazeFog:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2A3550")),
		MazePlayer: lipgloss.NewStyle().Foreground(amber).Bold(true),
		MazeExit:   lipgloss.NewStyle().Foreground(mint).Bold(true),
	}
}

func paperTheme() Theme {
	honey := lipgloss.Color("#B7791F")
	sage := lipgloss.Color("#2F855A")
	rose := lipgloss.Color("#C53030")
	paper := lipgloss.Color("#F7F5F0")
	ink := lipgloss.Color("#1A202C")
	slate := lipgloss.Color("#4A5568")
	sky := lipgloss.Color("#2B6CB0")

	return Theme{
		Header:      lipgloss.NewStyle().Background(ink).Foreground(paper).Padding(0, 1),
		Footer:      lipgloss.NewStyle().Background(slate).Foreground(paper).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(slate),
		Accent:      lipgloss.NewStyle().Foreground(sky).Bold(true),

		Text:    lipgloss.NewStyle().Foreground(ink),
		Success: lipgloss.NewStyle().Foreground(sage),
		Error:   lipgloss.NewStyle().Foreground(rose).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(slate),
		Prompt:  lipgloss.NewStyle().Foreground(honey),
		System:  lipgloss.NewStyle().Foreground(sky),

		Suggestion:       lipgloss.NewStyle().Foreground(slate).Padding(0, 1),
		SuggestionActive: lipgloss.NewStyle().Background(ink).Foreground(paper).Bold(true).Padding(0, 1),
		SuggestionHover:  lipgloss.NewStyle().Foreground(ink).Underline(true).Padding(0, 1),

		MazeWall:   lipgloss.NewStyle().Foreground(ink),
		MazeFloor:  lipgloss.NewStyle().Foreground(lipgloss.Color("#CBD5E0")),
		MazeFog:    lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0")),
		MazePlayer: lipgloss.NewStyle().Foreground(rose).Bold(true),
		MazeExit:   lipgloss.NewStyle().Foreground(sage).Bold(true),
	}
}

func phosphorTheme() Theme {
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	red := lipgloss.Color("#FF6B6B")
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")
	dim := lipgloss.Color("#73A17A")

	return Theme{
		Header:      lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Footer:      lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(lipgloss.Color("#1F5C2F")),
		Accent:      lipgloss.NewStyle().Foreground(lime).Bold(true),

		Text:    lipgloss.NewStyle().Foreground(glow),
		Success: lipgloss.NewStyle().Foreground(lime).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(red).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(dim),
		Prompt:  lipgloss.NewStyle().Foreground(amber),
		System:  lipgloss.NewStyle().Foreground(lime),

		Suggestion:       lipgloss.NewStyle().Foreground(dim).Padding(0, 1),
		SuggestionActive: lipgloss.NewStyle().Background(forest).Foreground(amber).Bold(true).Padding(0, 1),
		SuggestionHover:  lipgloss.NewStyle().Foreground(glow).Underline(true).Padding(0, 1),

		MazeWall:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1F5C2F")),
		MazeFloor:  lipgloss.NewStyle().Foreground(forest),
		MazeFog:    lipgloss.NewStyle().Foreground(deep),
		MazePlayer: lipgloss.NewStyle().Foreground(amber).Bold(true),
		MazeExit:   lipgloss.NewStyle().Foreground(lime).Bold(true),
	}
}
