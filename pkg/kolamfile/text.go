package kolamfile

import (
	"image/color"
	"math"
	"strings"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

// Cell is one character of a text rendering.
type Cell struct {
	Rune rune
	Part Part
	set  bool
	prio int
}

// Empty reports whether nothing was drawn in the cell.
func (c Cell) Empty() bool {
	return !c.set
}

// TextSurface rasterises a pattern into a grid of characters, one cell
// per CellWidth x CellHeight pixels. Markers win over dots, dots over
// lines.
type TextSurface struct {
	CellWidth  float64
	CellHeight float64

	cells  [][]Cell
	dx, dy float64
	part   Part
}

// NewTextSurface returns a surface with 10x20 pixel cells, roughly the
// aspect ratio of a terminal character.
func NewTextSurface() *TextSurface {
	return &TextSurface{CellWidth: 10, CellHeight: 20}
}

func (t *TextSurface) Begin(width, height int, _ color.Color) {
	cols := int(math.Ceil(float64(width) / t.CellWidth))
	rows := int(math.Ceil(float64(height) / t.CellHeight))
	t.cells = make([][]Cell, rows)
	for i := range t.cells {
		t.cells[i] = make([]Cell, cols)
	}
	t.dx, t.dy = 0, 0
}

func (t *TextSurface) Annotate(p Part) {
	t.part = p
}

func (t *TextSurface) Translate(dx, dy float64) {
	t.dx += dx
	t.dy += dy
}

func (t *TextSurface) FillCircle(x, y, r float64, _ color.Color) {
	switch t.part {
	case PartCross:
		t.plot(x, y, 'X', 3)
	default:
		t.plot(x, y, '*', 2)
	}
}

func (t *TextSurface) OutlineCircle(x, y, r float64, _, _ color.Color, _ float64) {
	t.plot(x, y, 'o', 3)
}

func (t *TextSurface) StrokeArc(x, y, r, start, end float64, _ color.Color, _ float64) {
	for end < start {
		end += 2 * math.Pi
	}
	steps := int(math.Ceil((end - start) * r / 2))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		// Tangent of a clockwise arc on screen.
		t.plot(x+r*math.Cos(a), y+r*math.Sin(a), slopeRune(-math.Sin(a), math.Cos(a)), 1)
	}
}

func (t *TextSurface) StrokeLine(x1, y1, x2, y2 float64, _ color.Color, _ float64) {
	n := int(math.Ceil(math.Hypot(x2-x1, y2-y1) / 2))
	if n < 1 {
		n = 1
	}
	r := slopeRune(x2-x1, y2-y1)
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		t.plot(x1+(x2-x1)*f, y1+(y2-y1)*f, r, 1)
	}
}

func (t *TextSurface) plot(x, y float64, r rune, prio int) {
	col := int(math.Floor((x + t.dx) / t.CellWidth))
	row := int(math.Floor((y + t.dy) / t.CellHeight))
	if row < 0 || row >= len(t.cells) || col < 0 || col >= len(t.cells[row]) {
		return
	}
	c := &t.cells[row][col]
	if c.set && c.prio > prio {
		return
	}
	*c = Cell{Rune: r, Part: t.part, set: true, prio: prio}
}

// slopeRune picks the line character closest to direction (dx, dy),
// with y pointing down.
func slopeRune(dx, dy float64) rune {
	a := math.Atan2(dy, dx) * 180 / math.Pi
	if a < 0 {
		a += 180
	}
	switch {
	case a < 22.5 || a >= 157.5:
		return '-'
	case a < 67.5:
		return '\\'
	case a < 112.5:
		return '|'
	default:
		return '/'
	}
}

// Cells returns the character grid, row by row.
func (t *TextSurface) Cells() [][]Cell {
	return t.cells
}

// String returns the rendering with trailing blanks trimmed.
func (t *TextSurface) String() string {
	var sb strings.Builder
	for _, row := range t.cells {
		line := make([]rune, len(row))
		for i, c := range row {
			line[i] = ' '
			if c.set {
				line[i] = c.Rune
			}
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderText renders p as text with the default cell size.
func RenderText(p *kolam.Pattern) string {
	t := NewTextSurface()
	if g := p.Grid(); g != nil {
		RenderPattern(t, p)
	}
	return t.String()
}
