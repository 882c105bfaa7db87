// Package maze generates and plays the labyrinth minigame. Generation is a
// randomized depth-first carve with a sprinkle of extra openings; play is a
// pure move function over immutable states.
package maze

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	MinSize = 9
	MaxSize = 41

	// LoopRatio is the share of cycle-forming walls opened after the
	// spanning tree is carved.
	LoopRatio = 0.12
	// DefaultFogRadius is how far around the player cells get revealed.
	DefaultFogRadius = 1

	DefaultWidth  = 25
	DefaultHeight = 15
)

// Point is a cell coordinate; X grows right, Y grows down.
type Point struct {
	X, Y int
}

// State is one immutable snapshot of a labyrinth run. Walls and Discovered
// are indexed [y][x].
type State struct {
	Width      int
	Height     int
	Walls      [][]bool
	Discovered [][]bool
	Player     Point
	Exit       Point
	Steps      int
	StartedAt  time.Time
	FogRadius  int
}

type options struct {
	loopRatio float64
	fogRadius int
}

// Option tunes generation.
type Option func(*options)

// WithLoopRatio overrides LoopRatio.
func WithLoopRatio(r float64) Option {
	return func(o *options) { o.loopRatio = r }
}

// WithFogRadius overrides DefaultFogRadius.
func WithFogRadius(r int) Option {
	return func(o *options) { o.fogRadius = r }
}

// Entrance is where every run starts.
var Entrance = Point{X: 1, Y: 1}

var carveSteps = [4]Point{{X: 0, Y: -2}, {X: 2, Y: 0}, {X: 0, Y: 2}, {X: -2, Y: 0}}

// ClampSize forces n into [MinSize, MaxSize] and makes it odd.
func ClampSize(n int) int {
	n = min(MaxSize, max(MinSize, n))
	if n%2 == 0 {
		n--
	}
	return n
}

// New builds a fresh run: a carved maze with loops, the player on the
// entrance and the area around it revealed.
func New(rng *rand.Rand, width, height int, now time.Time, opts ...Option) *State {
	o := options{loopRatio: LoopRatio, fogRadius: DefaultFogRadius}
	for _, opt := range opts {
		opt(&o)
	}
	w, h := ClampSize(width), ClampSize(height)
	walls := CarveTree(rng, w, h)
	exit := Point{X: w - 2, Y: h - 2}
	openExit(walls, exit)
	addLoops(rng, walls, o.loopRatio)

	discovered := newGrid(w, h, false)
	RevealAround(discovered, Entrance.X, Entrance.Y, o.fogRadius)
	return &State{
		Width:      w,
		Height:     h,
		Walls:      walls,
		Discovered: discovered,
		Player:     Entrance,
		Exit:       exit,
		StartedAt:  now,
		FogRadius:  max(0, o.fogRadius),
	}
}

// CarveTree returns a perfect maze: every open cell is reachable from the
// entrance through exactly one path. Width and height must be odd.
func CarveTree(rng *rand.Rand, w, h int) [][]bool {
	walls := newGrid(w, h, true)
	walls[Entrance.Y][Entrance.X] = false
	stack := []Point{Entrance}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		dirs := carveSteps
		rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
		advanced := false
		for _, d := range dirs {
			nx, ny := cur.X+d.X, cur.Y+d.Y
			if nx <= 0 || ny <= 0 || nx >= w-1 || ny >= h-1 || !walls[ny][nx] {
				continue
			}
			walls[cur.Y+d.Y/2][cur.X+d.X/2] = false
			walls[ny][nx] = false
			stack = append(stack, Point{X: nx, Y: ny})
			advanced = true
			break
		}
		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}
	return walls
}

func openExit(walls [][]bool, exit Point) {
	walls[exit.Y][exit.X] = false
	for _, n := range neighbors(exit) {
		if !walls[n.Y][n.X] {
			return
		}
	}
	if exit.X-1 > 0 {
		walls[exit.Y][exit.X-1] = false
		return
	}
	walls[exit.Y-1][exit.X] = false
}

// LoopCandidates lists interior walls whose removal would join two open
// cells on the same axis.
func LoopCandidates(walls [][]bool) []Point {
	var out []Point
	h := len(walls)
	for y := 1; y < h-1; y++ {
		w := len(walls[y])
		for x := 1; x < w-1; x++ {
			if !walls[y][x] {
				continue
			}
			horizontal := !walls[y][x-1] && !walls[y][x+1]
			vertical := !walls[y-1][x] && !walls[y+1][x]
			if horizontal || vertical {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

func addLoops(rng *rand.Rand, walls [][]bool, ratio float64) {
	candidates := LoopCandidates(walls)
	if len(candidates) == 0 || ratio <= 0 {
		return
	}
	n := int(math.Round(float64(len(candidates)) * ratio))
	n = min(len(candidates), max(1, n))
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	for _, p := range candidates[:n] {
		walls[p.Y][p.X] = false
	}
}

// RevealAround marks every in-bounds cell within radius (inclusive, square)
// of (x, y) as discovered. Cells are never hidden again.
func RevealAround(grid [][]bool, x, y, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		ny := y + dy
		if ny < 0 || ny >= len(grid) {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			nx := x + dx
			if nx < 0 || nx >= len(grid[ny]) {
				continue
			}
			grid[ny][nx] = true
		}
	}
}

// IsWall reports whether p is a wall or outside the board.
func (s *State) IsWall(p Point) bool {
	if p.Y < 0 || p.Y >= len(s.Walls) || p.X < 0 || p.X >= len(s.Walls[p.Y]) {
		return true
	}
	return s.Walls[p.Y][p.X]
}

func neighbors(p Point) []Point {
	return []Point{{X: p.X, Y: p.Y - 1}, {X: p.X + 1, Y: p.Y}, {X: p.X, Y: p.Y + 1}, {X: p.X - 1, Y: p.Y}}
}

func newGrid(w, h int, fill bool) [][]bool {
	g := make([][]bool, h)
	for y := range g {
		g[y] = make([]bool, w)
		if fill {
			for x := range g[y] {
				g[y][x] = true
			}
		}
	}
	return g
}

func cloneGrid(g [][]bool) [][]bool {
	out := make([][]bool, len(g))
	for y := range g {
		out[y] = append([]bool(nil), g[y]...)
	}
	return out
}
