package maze

import (
	"strings"
	"time"
)

// Direction is a unit step.
type Direction struct {
	DX, DY int
}

var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// ParseDirection understands words, WASD and vi keys.
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up", "w", "k", "north", "haut":
		return Up, true
	case "down", "s", "j", "south", "bas":
		return Down, true
	case "left", "a", "h", "west", "gauche":
		return Left, true
	case "right", "d", "l", "east", "droite":
		return Right, true
	}
	return Direction{}, false
}

// MoveResult is the outcome of ApplyMove.
type MoveResult struct {
	State   *State
	Moved   bool
	HitWall bool
	Won     bool
	Elapsed time.Duration
}

// ApplyMove steps the player one cell. Blocked moves return the input state
// untouched; successful moves return a new state and never mutate s.
func ApplyMove(s *State, d Direction, now time.Time) MoveResult {
	target := Point{X: s.Player.X + d.DX, Y: s.Player.Y + d.DY}
	if s.IsWall(target) {
		return MoveResult{State: s, HitWall: true}
	}
	next := *s
	next.Discovered = cloneGrid(s.Discovered)
	RevealAround(next.Discovered, target.X, target.Y, s.FogRadius)
	next.Player = target
	next.Steps = s.Steps + 1

	res := MoveResult{State: &next, Moved: true}
	if target == s.Exit {
		res.Won = true
		res.Elapsed = max(0, now.Sub(s.StartedAt))
	}
	return res
}

// Glyphs used by Render.
const (
	GlyphPlayer = '@'
	GlyphFog    = '·'
	GlyphExit   = 'X'
	GlyphWall   = '#'
	GlyphFloor  = '.'
)

// Render draws the board one string per row. Precedence: player, fog, exit,
// wall, floor.
func Render(s *State) []string {
	rows := make([]string, 0, s.Height)
	for y := 0; y < s.Height; y++ {
		var b strings.Builder
		for x := 0; x < s.Width; x++ {
			b.WriteRune(cellGlyph(s, Point{X: x, Y: y}))
		}
		rows = append(rows, b.String())
	}
	return rows
}

func cellGlyph(s *State, p Point) rune {
	switch {
	case p == s.Player:
		return GlyphPlayer
	case !s.Discovered[p.Y][p.X]:
		return GlyphFog
	case p == s.Exit:
		return GlyphExit
	case s.Walls[p.Y][p.X]:
		return GlyphWall
	default:
		return GlyphFloor
	}
}
