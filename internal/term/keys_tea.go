// Package term maps raw Bubble Tea key and paste input onto what the
// portfolio terminal understands.
package term

import (
	"strings"

	"folioterm/internal/maze"

	tea "charm.land/bubbletea/v2"
)

// Action is what a key press means to the session. Keys that only edit the
// input line map to ActionNone and are left to the text input widget.
type Action int

const (
	ActionNone Action = iota
	ActionSubmit
	ActionApplySuggestion
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionEscape
	ActionPageUp
	ActionPageDown
	ActionInterrupt
)

var actionNames = [...]string{
	ActionNone:            "none",
	ActionSubmit:          "submit",
	ActionApplySuggestion: "apply_suggestion",
	ActionUp:              "up",
	ActionDown:            "down",
	ActionLeft:            "left",
	ActionRight:           "right",
	ActionEscape:          "escape",
	ActionPageUp:          "page_up",
	ActionPageDown:        "page_down",
	ActionInterrupt:       "interrupt",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Classify maps a key press to an Action.
func Classify(ev tea.KeyPressMsg) Action {
	key := ev.Key()

	if key.Text != "" {
		// Browser and websocket transports can surface escape fragments as
		// text (e.g. "[B" for arrow-down).
		if a, ok := escFragmentAction(key.Text); ok {
			return a
		}
		if key.Mod&(tea.ModAlt|tea.ModCtrl) == 0 {
			return ActionNone
		}
	}

	switch key.Code {
	case tea.KeyEnter:
		if key.Mod&tea.ModAlt != 0 {
			return ActionApplySuggestion
		}
		return ActionSubmit
	case tea.KeyTab:
		if key.Mod&tea.ModShift != 0 {
			return ActionNone
		}
		return ActionApplySuggestion
	case tea.KeyEsc:
		return ActionEscape
	case tea.KeyUp:
		return ActionUp
	case tea.KeyDown:
		return ActionDown
	case tea.KeyLeft:
		if key.Mod != 0 {
			return ActionNone
		}
		return ActionLeft
	case tea.KeyRight:
		if key.Mod != 0 {
			return ActionNone
		}
		return ActionRight
	case tea.KeyPgUp:
		return ActionPageUp
	case tea.KeyPgDown:
		return ActionPageDown
	}

	if key.Mod&tea.ModCtrl != 0 {
		switch key.Code {
		case 'c', 'd':
			return ActionInterrupt
		}
	}
	return ActionNone
}

// MazeDirection reports the step a key asks for while a labyrinth is on
// screen. Arrows always steer; letter keys (WASD, hjkl) only steer when the
// input line is empty so commands can still be typed.
func MazeDirection(ev tea.KeyPressMsg, inputEmpty bool) (maze.Direction, bool) {
	switch Classify(ev) {
	case ActionUp:
		return maze.Up, true
	case ActionDown:
		return maze.Down, true
	case ActionLeft:
		return maze.Left, true
	case ActionRight:
		return maze.Right, true
	}
	key := ev.Key()
	if !inputEmpty || key.Mod != 0 || len([]rune(key.Text)) != 1 {
		return maze.Direction{}, false
	}
	return maze.ParseDirection(key.Text)
}

func escFragmentAction(s string) (Action, bool) {
	if !looksLikeEscFragment(s) {
		return ActionNone, false
	}
	switch s[len(s)-1] {
	case 'A':
		return ActionUp, true
	case 'B':
		return ActionDown, true
	case 'C':
		return ActionRight, true
	case 'D':
		return ActionLeft, true
	case '~':
		switch strings.SplitN(s[1:len(s)-1], ";", 2)[0] {
		case "5":
			return ActionPageUp, true
		case "6":
			return ActionPageDown, true
		}
	}
	return ActionNone, true
}

func looksLikeEscFragment(s string) bool {
	if len(s) < 2 || len(s) > 16 {
		return false
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}

	if strings.HasPrefix(s, "[") {
		last := s[len(s)-1]
		if !((last >= 'A' && last <= 'Z') || last == '~') {
			return false
		}
		for i := 1; i < len(s)-1; i++ {
			ch := s[i]
			if (ch >= '0' && ch <= '9') || ch == ';' || ch == '?' {
				continue
			}
			return false
		}
		return true
	}

	if strings.HasPrefix(s, "O") && len(s) == 2 {
		switch s[1] {
		case 'A', 'B', 'C', 'D', 'H', 'F':
			return true
		}
	}
	return false
}
