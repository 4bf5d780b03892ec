// Package kolamfile renders kolam patterns and handles their file formats
// (PNG, SVG, terminal text, JSON and code lists).
package kolamfile

import (
	"image/color"
	"math"
	"sort"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

// Surface is a minimal canvas. Coordinates are pixels after the current
// translation; angles are radians, measured clockwise on screen from the
// positive x axis, and arcs sweep from start to end in that direction.
type Surface interface {
	// Begin sizes the surface and clears it. A nil background leaves
	// it transparent.
	Begin(width, height int, background color.Color)
	Translate(dx, dy float64)
	FillCircle(x, y, r float64, fill color.Color)
	OutlineCircle(x, y, r float64, fill, stroke color.Color, width float64)
	StrokeArc(x, y, r, start, end float64, stroke color.Color, width float64)
	StrokeLine(x1, y1, x2, y2 float64, stroke color.Color, width float64)
}

// Part names what is being drawn. Surfaces that implement Annotator are
// told the part before each element; the SVG surface turns it into a
// class, the text surface into a glyph.
type Part int

const (
	PartDot      Part = iota // pulli dot
	PartBoundary             // outer boundary arc
	PartCross                // crossed intersection: marker and X
	PartLoop                 // looped intersection: marker and arcs
)

var partNames = [...]string{"dot", "boundary", "cross", "loop"}

func (p Part) String() string {
	if int(p) < len(partNames) {
		return partNames[p]
	}
	return "unknown"
}

// Annotator is implemented by surfaces that want to know what they draw.
type Annotator interface {
	Annotate(p Part)
}

// Style holds the colours and sizes of a rendering. Sizes ending in
// Units are in grid units, the rest in pixels.
type Style struct {
	Background      color.Color
	Dot             color.Color
	Line            color.Color
	Cross           color.Color
	LoopFill        color.Color
	DotRadius       float64
	MarkerRadius    float64
	LineWidth       float64
	MarkerLineWidth float64
	CrossUnits      float64 // half-length of the X arms
	LoopUnits       float64 // radius of loop and boundary arcs
}

// DefaultStyle matches the designer: red dots, black lines, transparent
// background.
func DefaultStyle() Style {
	return Style{
		Background:      nil,
		Dot:             color.RGBA{255, 0, 0, 255},
		Line:            color.Black,
		Cross:           color.Black,
		LoopFill:        color.White,
		DotRadius:       5,
		MarkerRadius:    6,
		LineWidth:       2,
		MarkerLineWidth: 1,
		CrossUnits:      0.25,
		LoopUnits:       0.35,
	}
}

// loopArc is one half of a loop decoration, placed relative to the
// intersection. Angles in degrees, as in the grid tables.
type loopArc struct {
	dx, dy     float64
	rotation   float64
	start, end float64
}

var (
	verticalLoop = [2]loopArc{
		{dx: 0, dy: -0.5, rotation: 180, start: 225, end: 315},
		{dx: 0, dy: 0.5, rotation: 180, start: 45, end: 135},
	}
	horizontalLoop = [2]loopArc{
		{dx: -0.5, dy: 0, rotation: 0, start: 315, end: 405},
		{dx: 0.5, dy: 0, rotation: 0, start: 135, end: 225},
	}
)

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Render draws the pattern described by states on s using the default
// style.
func Render(s Surface, g *kolam.Grid, states kolam.States) {
	RenderStyled(s, g, states, DefaultStyle())
}

// RenderPattern draws p with the default style.
func RenderPattern(s Surface, p *kolam.Pattern) {
	Render(s, p.Grid(), p.States)
}

// RenderStyled draws a complete pattern: the surface is resized and
// cleared, then dots, boundary arcs and every intersection in states are
// drawn. Intersections missing from states are not drawn; unknown ones
// get a marker without loop arcs.
func RenderStyled(s Surface, g *kolam.Grid, states kolam.States, st Style) {
	scale := float64(g.Scale)
	size := g.PixelSize()

	s.Begin(size, size, st.Background)
	s.Translate(scale/2, scale/2)

	annotate(s, PartDot)
	for _, d := range g.PulliDots() {
		s.FillCircle(float64(d.X)*scale, float64(d.Y)*scale, st.DotRadius, st.Dot)
	}

	annotate(s, PartBoundary)
	for _, a := range g.Arcs {
		r := a.Width / 2 * scale
		s.StrokeArc(float64(a.Center.X)*scale, float64(a.Center.Y)*scale, r,
			radians(a.Start+a.Rotation), radians(a.End+a.Rotation), st.Line, st.LineWidth)
	}

	for _, c := range drawOrder(g, states) {
		x, y := c.X*scale, c.Y*scale
		if states[c] == kolam.Cross {
			annotate(s, PartCross)
			s.FillCircle(x, y, st.MarkerRadius, st.Cross)
			h := st.CrossUnits * scale
			s.StrokeLine(x-h, y-h, x+h, y+h, st.Line, st.LineWidth)
			s.StrokeLine(x+h, y-h, x-h, y+h, st.Line, st.LineWidth)
			continue
		}

		annotate(s, PartLoop)
		s.OutlineCircle(x, y, st.MarkerRadius, st.LoopFill, st.Line, st.MarkerLineWidth)

		var arcs []loopArc
		switch g.ClassOf(c) {
		case kolam.ClassVertical:
			arcs = verticalLoop[:]
		case kolam.ClassHorizontal:
			arcs = horizontalLoop[:]
		}
		r := st.LoopUnits * scale
		for _, a := range arcs {
			s.StrokeArc((c.X+a.dx)*scale, (c.Y+a.dy)*scale, r,
				radians(a.start+a.rotation), radians(a.end+a.rotation), st.Line, st.LineWidth)
		}
	}
}

func annotate(s Surface, p Part) {
	if a, ok := s.(Annotator); ok {
		a.Annotate(p)
	}
}

// drawOrder lists the coordinates of states: the grid's intersections
// first, in bit order, then any others sorted by key.
func drawOrder(g *kolam.Grid, states kolam.States) []kolam.Coord {
	order := make([]kolam.Coord, 0, len(states))
	known := make(map[kolam.Coord]bool, len(g.Order))
	for _, c := range g.Order {
		known[c] = true
		if _, ok := states[c]; ok {
			order = append(order, c)
		}
	}
	var extra []kolam.Coord
	for c := range states {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		return extra[i].String() < extra[j].String()
	})
	return append(order, extra...)
}
