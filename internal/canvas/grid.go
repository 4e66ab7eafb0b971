package canvas

import (
	"log/slog"
	"strings"
	"time"
)

// DefaultPressure is used when the input device reports none.
const DefaultPressure = 0.5

// inkRamp maps ink levels to glyphs, lightest first.
var inkRamp = []rune{' ', '░', '▒', '▓', '█'}

// Options carries Grid collaborators. Nil fields get defaults.
type Options struct {
	Now    func() time.Time
	Logger *slog.Logger
}

// Grid is a width x height cell canvas. Each cell stores the strongest ink
// level drawn over it.
type Grid struct {
	width, height int
	cells         []uint8

	now    func() time.Time
	logger *slog.Logger

	active    *activeStroke
	listeners []func(Stroke)
}

type activeStroke struct {
	start       time.Time
	lastX       int
	lastY       int
	pressureSum float64
	samples     int
	points      int
}

var _ Canvas = (*Grid)(nil)

// NewGrid returns an empty grid. Dimensions below 1 are raised to 1.
func NewGrid(width, height int, opts Options) *Grid {
	width = max(width, 1)
	height = max(height, 1)
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]uint8, width*height),
		now:    opts.Now,
		logger: opts.Logger,
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Drawing reports whether a stroke is in progress.
func (g *Grid) Drawing() bool { return g.active != nil }

// OnStrokeCommitted registers fn to run after every committed stroke.
func (g *Grid) OnStrokeCommitted(fn func(Stroke)) {
	if fn != nil {
		g.listeners = append(g.listeners, fn)
	}
}

// Press starts a stroke at (x, y). A press during an open stroke commits
// the open one first.
func (g *Grid) Press(x, y int, pressure float64) {
	if g.active != nil {
		g.commit()
	}
	pressure = normalizePressure(pressure)
	g.active = &activeStroke{start: g.now(), lastX: x, lastY: y}
	g.sample(pressure)
	g.ink(x, y, pressure)
}

// Drag extends the open stroke to (x, y). It is ignored without a Press.
func (g *Grid) Drag(x, y int, pressure float64) {
	if g.active == nil {
		return
	}
	pressure = normalizePressure(pressure)
	g.sample(pressure)
	g.line(g.active.lastX, g.active.lastY, x, y, pressure)
	g.active.lastX, g.active.lastY = x, y
}

// Release ends the open stroke at (x, y) and commits it.
func (g *Grid) Release(x, y int) {
	if g.active == nil {
		return
	}
	if x != g.active.lastX || y != g.active.lastY {
		p := DefaultPressure
		if g.active.samples > 0 {
			p = g.active.pressureSum / float64(g.active.samples)
		}
		g.line(g.active.lastX, g.active.lastY, x, y, p)
	}
	g.commit()
}

// Flush commits an open stroke where it currently ends. It is a no-op when
// nothing is being drawn.
func (g *Grid) Flush() {
	if g.active != nil {
		g.commit()
	}
}

// Clear erases the grid and drops any open stroke.
func (g *Grid) Clear() {
	clear(g.cells)
	g.active = nil
}

// Inked returns the number of cells carrying ink.
func (g *Grid) Inked() int {
	n := 0
	for _, c := range g.cells {
		if c > 0 {
			n++
		}
	}
	return n
}

// Level returns the ink level at (x, y) in [0, 1]. Out of range cells are empty.
func (g *Grid) Level(x, y int) float64 {
	if !g.inBounds(x, y) {
		return 0
	}
	return float64(g.cells[y*g.width+x]) / 255
}

// Render draws the grid as height lines of width runes.
func (g *Grid) Render() string {
	var b strings.Builder
	b.Grow(g.height * (g.width*3 + 1))
	for y := range g.height {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := range g.width {
			b.WriteRune(inkGlyph(g.cells[y*g.width+x]))
		}
	}
	return b.String()
}

func (g *Grid) commit() {
	s := g.active
	g.active = nil

	stroke := Stroke{
		At:         s.start,
		Pressure:   DefaultPressure,
		DurationMs: g.now().Sub(s.start).Milliseconds(),
		Points:     s.points,
	}
	if s.samples > 0 {
		stroke.Pressure = s.pressureSum / float64(s.samples)
	}
	for _, fn := range g.listeners {
		fn(stroke)
	}
}

func (g *Grid) sample(p float64) {
	g.active.pressureSum += p
	g.active.samples++
}

// line inks every cell between the endpoints using Bresenham's algorithm.
func (g *Grid) line(x0, y0, x1, y1 int, p float64) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if x0 != g.active.lastX || y0 != g.active.lastY {
			g.ink(x0, y0, p)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (g *Grid) ink(x, y int, p float64) {
	if g.active != nil {
		g.active.points++
	}
	if !g.inBounds(x, y) {
		return
	}
	i := y*g.width + x
	g.cells[i] = max(g.cells[i], uint8(p*255+0.5))
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func normalizePressure(p float64) float64 {
	switch {
	case p <= 0:
		return DefaultPressure
	case p > 1:
		return 1
	}
	return p
}

func inkGlyph(level uint8) rune {
	if level == 0 {
		return inkRamp[0]
	}
	steps := len(inkRamp) - 1
	i := 1 + int(level-1)*steps/255
	return inkRamp[min(i, steps)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
