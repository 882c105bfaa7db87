package term

import (
	"testing"

	"folioterm/internal/maze"

	tea "charm.land/bubbletea/v2"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyPressMsg
		want Action
	}{
		{name: "enter", key: tea.KeyPressMsg{Code: tea.KeyEnter}, want: ActionSubmit},
		{name: "alt enter", key: tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt}, want: ActionApplySuggestion},
		{name: "tab", key: tea.KeyPressMsg{Code: tea.KeyTab}, want: ActionApplySuggestion},
		{name: "shift tab", key: tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}, want: ActionNone},
		{name: "escape", key: tea.KeyPressMsg{Code: tea.KeyEsc}, want: ActionEscape},
		{name: "up", key: tea.KeyPressMsg{Code: tea.KeyUp}, want: ActionUp},
		{name: "down", key: tea.KeyPressMsg{Code: tea.KeyDown}, want: ActionDown},
		{name: "ctrl left edits", key: tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModCtrl}, want: ActionNone},
		{name: "page up", key: tea.KeyPressMsg{Code: tea.KeyPgUp}, want: ActionPageUp},
		{name: "ctrl c", key: tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}, want: ActionInterrupt},
		{name: "plain rune", key: tea.KeyPressMsg{Code: 'w', Text: "w"}, want: ActionNone},
		{name: "esc fragment down", key: tea.KeyPressMsg{Code: '[', Text: "[B", Mod: tea.ModAlt}, want: ActionDown},
		{name: "ss3 fragment up", key: tea.KeyPressMsg{Code: 'O', Text: "OA"}, want: ActionUp},
		{name: "page down fragment", key: tea.KeyPressMsg{Code: '[', Text: "[6~"}, want: ActionPageDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.key); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMazeDirection(t *testing.T) {
	tests := []struct {
		name       string
		key        tea.KeyPressMsg
		inputEmpty bool
		want       maze.Direction
		ok         bool
	}{
		{name: "arrow always steers", key: tea.KeyPressMsg{Code: tea.KeyLeft}, inputEmpty: false, want: maze.Left, ok: true},
		{name: "wasd on empty input", key: tea.KeyPressMsg{Code: 'd', Text: "d"}, inputEmpty: true, want: maze.Right, ok: true},
		{name: "vi key on empty input", key: tea.KeyPressMsg{Code: 'k', Text: "k"}, inputEmpty: true, want: maze.Up, ok: true},
		{name: "letters type when input has text", key: tea.KeyPressMsg{Code: 's', Text: "s"}, inputEmpty: false},
		{name: "other letters type", key: tea.KeyPressMsg{Code: 'q', Text: "q"}, inputEmpty: true},
		{name: "enter is not a move", key: tea.KeyPressMsg{Code: tea.KeyEnter}, inputEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MazeDirection(tt.key, tt.inputEmpty)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("got %v/%v, want %v/%v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
