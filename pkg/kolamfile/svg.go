package kolamfile

import (
	"fmt"
	"html"
	"image/color"
	"math"
	"strings"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

// SVGOptions controls SVG output.
type SVGOptions struct {
	Title string // emitted as <title> when set
	Style Style
}

// DefaultSVGOptions returns the default style with no title.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Style: DefaultStyle()}
}

// svgSurface collects SVG elements. Each element carries the class of the
// part being drawn, so the output can be restyled with CSS.
type svgSurface struct {
	sb     strings.Builder
	title  string
	part   Part
	groups int
}

func (s *svgSurface) Begin(width, height int, background color.Color) {
	s.sb.Reset()
	s.groups = 0
	s.sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, width, height, width, height))
	if s.title != "" {
		s.sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(s.title)))
	}
	if fill, _ := svgColor(background); fill != "none" {
		s.sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>
`, width, height, fill))
	}
}

func (s *svgSurface) Annotate(p Part) {
	s.part = p
}

func (s *svgSurface) Translate(dx, dy float64) {
	s.sb.WriteString(fmt.Sprintf(`<g transform="translate(%s,%s)">
`, num(dx), num(dy)))
	s.groups++
}

func (s *svgSurface) FillCircle(x, y, r float64, fill color.Color) {
	s.sb.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" class="%s"%s/>
`, num(x), num(y), num(r), s.part, fillAttr(fill)))
}

func (s *svgSurface) OutlineCircle(x, y, r float64, fill, stroke color.Color, width float64) {
	s.sb.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" class="%s"%s%s/>
`, num(x), num(y), num(r), s.part, fillAttr(fill), strokeAttr(stroke, width)))
}

func (s *svgSurface) StrokeArc(x, y, r, start, end float64, stroke color.Color, width float64) {
	s.sb.WriteString(fmt.Sprintf(`<path d="%s" class="%s" fill="none"%s/>
`, arcPath(x, y, r, start, end), s.part, strokeAttr(stroke, width)))
}

func (s *svgSurface) StrokeLine(x1, y1, x2, y2 float64, stroke color.Color, width float64) {
	s.sb.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" class="%s"%s/>
`, num(x1), num(y1), num(x2), num(y2), s.part, strokeAttr(stroke, width)))
}

// String closes open groups and the document.
func (s *svgSurface) String() string {
	var sb strings.Builder
	sb.WriteString(s.sb.String())
	for i := 0; i < s.groups; i++ {
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// GenerateSVG renders p as a standalone SVG document.
func GenerateSVG(p *kolam.Pattern, opts SVGOptions) string {
	s := &svgSurface{title: opts.Title}
	if g := p.Grid(); g != nil {
		RenderStyled(s, g, p.States, opts.Style)
	}
	return s.String()
}

// arcPath returns path data for an arc drawn clockwise on screen from
// start to end. A full turn is split into two halves, since a single
// SVG arc command cannot end where it starts.
func arcPath(x, y, r, start, end float64) string {
	sweep := end - start
	for sweep < 0 {
		sweep += 2 * math.Pi
	}
	if sweep >= 2*math.Pi-1e-9 {
		mid := start + math.Pi
		return arcPath(x, y, r, start, mid) + " " + arcSegment(x, y, r, mid, start+2*math.Pi, false)
	}
	return arcSegment(x, y, r, start, start+sweep, true)
}

func arcSegment(x, y, r, start, end float64, move bool) string {
	x1, y1 := x+r*math.Cos(start), y+r*math.Sin(start)
	x2, y2 := x+r*math.Cos(end), y+r*math.Sin(end)
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	var sb strings.Builder
	if move {
		sb.WriteString(fmt.Sprintf("M%s,%s ", num(x1), num(y1)))
	}
	sb.WriteString(fmt.Sprintf("A%s,%s 0 %d 1 %s,%s", num(r), num(r), large, num(x2), num(y2)))
	return sb.String()
}

func fillAttr(c color.Color) string {
	fill, opacity := svgColor(c)
	attr := fmt.Sprintf(` fill="%s"`, fill)
	if opacity != "" {
		attr += fmt.Sprintf(` fill-opacity="%s"`, opacity)
	}
	return attr
}

func strokeAttr(c color.Color, width float64) string {
	stroke, opacity := svgColor(c)
	attr := fmt.Sprintf(` stroke="%s" stroke-width="%s"`, stroke, num(width))
	if opacity != "" {
		attr += fmt.Sprintf(` stroke-opacity="%s"`, opacity)
	}
	return attr
}

// svgColor converts c to "#rrggbb" and an opacity, empty when opaque.
// Nil and fully transparent colours are "none".
func svgColor(c color.Color) (string, string) {
	if c == nil {
		return "none", ""
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 {
		return "none", ""
	}
	hex := fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	if n.A == 255 {
		return hex, ""
	}
	return hex, num(float64(n.A) / 255)
}

// num formats coordinates with at most two decimals and no trailing zeros.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
