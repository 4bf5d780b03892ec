package kolamfile

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

type op struct {
	kind       string
	part       Part
	x, y, r    float64
	start, end float64
}

// recorder is a Surface that remembers every call.
type recorder struct {
	width, height int
	dx, dy        float64
	part          Part
	ops           []op
}

func (r *recorder) Begin(w, h int, _ color.Color) { r.width, r.height = w, h }
func (r *recorder) Annotate(p Part)               { r.part = p }
func (r *recorder) Translate(dx, dy float64)      { r.dx += dx; r.dy += dy }

func (r *recorder) FillCircle(x, y, rad float64, _ color.Color) {
	r.ops = append(r.ops, op{kind: "fill", part: r.part, x: x, y: y, r: rad})
}

func (r *recorder) OutlineCircle(x, y, rad float64, _, _ color.Color, _ float64) {
	r.ops = append(r.ops, op{kind: "outline", part: r.part, x: x, y: y, r: rad})
}

func (r *recorder) StrokeArc(x, y, rad, start, end float64, _ color.Color, _ float64) {
	r.ops = append(r.ops, op{kind: "arc", part: r.part, x: x, y: y, r: rad, start: start, end: end})
}

func (r *recorder) StrokeLine(x1, y1, x2, y2 float64, _ color.Color, _ float64) {
	r.ops = append(r.ops, op{kind: "line", part: r.part, x: x1, y: y1})
}

func (r *recorder) count(kind string, part Part) int {
	n := 0
	for _, o := range r.ops {
		if o.kind == kind && o.part == part {
			n++
		}
	}
	return n
}

func record(v kolam.Variant, code string) *recorder {
	r := &recorder{}
	Render(r, kolam.GridFor(v), kolam.Decode(v, code))
	return r
}

func TestRenderSurfaceSize(t *testing.T) {
	r := record(kolam.Small, "")
	assert.Equal(t, 400, r.width)
	assert.Equal(t, 400, r.height)
	assert.Equal(t, 40.0, r.dx)
	assert.Equal(t, 40.0, r.dy)

	r = record(kolam.Large, "")
	assert.Equal(t, 420, r.width)
	assert.Equal(t, 30.0, r.dx)
}

func TestRenderAllLoops(t *testing.T) {
	r := record(kolam.Small, "0000")
	assert.Equal(t, 13, r.count("fill", PartDot))
	assert.Equal(t, 8, r.count("arc", PartBoundary))
	assert.Equal(t, 16, r.count("outline", PartLoop))
	assert.Equal(t, 32, r.count("arc", PartLoop))
	assert.Zero(t, r.count("fill", PartCross))
	assert.Zero(t, r.count("line", PartCross))
}

func TestRenderAllCrossings(t *testing.T) {
	r := record(kolam.Small, "FFFF")
	assert.Equal(t, 13, r.count("fill", PartDot))
	assert.Equal(t, 8, r.count("arc", PartBoundary))
	assert.Equal(t, 16, r.count("fill", PartCross))
	assert.Equal(t, 32, r.count("line", PartCross))
	assert.Zero(t, r.count("outline", PartLoop))
	assert.Zero(t, r.count("arc", PartLoop))
}

func TestRenderLarge(t *testing.T) {
	r := record(kolam.Large, "F00000000")
	assert.Equal(t, 25, r.count("fill", PartDot))
	assert.Equal(t, 12, r.count("arc", PartBoundary))
	assert.Equal(t, 4, r.count("fill", PartCross))
	assert.Equal(t, 32, r.count("outline", PartLoop))
	assert.Equal(t, 64, r.count("arc", PartLoop))
}

func TestRenderDotsAndMarkers(t *testing.T) {
	r := record(kolam.Small, "8000")

	dot := r.ops[0]
	assert.Equal(t, PartDot, dot.part)
	assert.Equal(t, 5.0, dot.r)

	// First intersection in bit order is (2, 0.5), crossed by the 8.
	var first op
	for _, o := range r.ops {
		if o.part == PartCross || o.part == PartLoop {
			first = o
			break
		}
	}
	assert.Equal(t, "fill", first.kind)
	assert.Equal(t, PartCross, first.part)
	assert.Equal(t, 160.0, first.x)
	assert.Equal(t, 40.0, first.y)
	assert.Equal(t, 6.0, first.r)
}

func TestRenderBoundaryArcs(t *testing.T) {
	r := record(kolam.Small, "")
	var arcs []op
	for _, o := range r.ops {
		if o.part == PartBoundary {
			arcs = append(arcs, o)
		}
	}
	require.Len(t, arcs, 8)
	// (2,0), rotation 0, 135..405 degrees.
	assert.Equal(t, 160.0, arcs[0].x)
	assert.Equal(t, 0.0, arcs[0].y)
	assert.InDelta(t, 28.0, arcs[0].r, 1e-9)
	assert.InDelta(t, 135*math.Pi/180, arcs[0].start, 1e-9)
	assert.InDelta(t, 405*math.Pi/180, arcs[0].end, 1e-9)
	// (1,1), rotation -45, 180..360 degrees.
	assert.InDelta(t, 135*math.Pi/180, arcs[1].start, 1e-9)
	assert.InDelta(t, 315*math.Pi/180, arcs[1].end, 1e-9)
}

func TestRenderLoopArcs(t *testing.T) {
	tests := []struct {
		name   string
		at     kolam.Coord
		arcs   [2][4]float64 // centre x, centre y, start, end (degrees)
		radius float64
	}{
		{
			name: "vertical",
			at:   kolam.C(2, 0.5),
			arcs: [2][4]float64{
				{160, 0, 405, 495},
				{160, 80, 225, 315},
			},
			radius: 28,
		},
		{
			name: "horizontal",
			at:   kolam.C(2.5, 1),
			arcs: [2][4]float64{
				{160, 80, 315, 405},
				{240, 80, 135, 225},
			},
			radius: 28,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			Render(r, kolam.GridFor(kolam.Small), kolam.States{tt.at: kolam.Loop})
			var arcs []op
			for _, o := range r.ops {
				if o.kind == "arc" && o.part == PartLoop {
					arcs = append(arcs, o)
				}
			}
			require.Len(t, arcs, 2)
			for i, want := range tt.arcs {
				assert.InDelta(t, want[0], arcs[i].x, 1e-9)
				assert.InDelta(t, want[1], arcs[i].y, 1e-9)
				assert.InDelta(t, want[2]*math.Pi/180, arcs[i].start, 1e-9)
				assert.InDelta(t, want[3]*math.Pi/180, arcs[i].end, 1e-9)
				assert.InDelta(t, tt.radius, arcs[i].r, 1e-9)
			}
		})
	}
}

func TestRenderUnknownIntersection(t *testing.T) {
	r := &recorder{}
	states := kolam.States{kolam.C(0.5, 0.5): kolam.Loop, kolam.C(2, 0.5): kolam.Loop}
	Render(r, kolam.GridFor(kolam.Small), states)

	assert.Equal(t, 2, r.count("outline", PartLoop))
	// Only the known intersection gets loop arcs.
	assert.Equal(t, 2, r.count("arc", PartLoop))
}

func TestRenderSkipsMissingIntersections(t *testing.T) {
	r := &recorder{}
	Render(r, kolam.GridFor(kolam.Small), kolam.States{})
	assert.Zero(t, r.count("outline", PartLoop))
	assert.Zero(t, r.count("fill", PartCross))
	assert.Equal(t, 13, r.count("fill", PartDot))
}

func TestRenderDeterministic(t *testing.T) {
	a := record(kolam.Large, "123456789")
	b := record(kolam.Large, "123456789")
	assert.Equal(t, a.ops, b.ops)
}

func TestPartString(t *testing.T) {
	assert.Equal(t, "dot", PartDot.String())
	assert.Equal(t, "loop", PartLoop.String())
	assert.Equal(t, "unknown", Part(42).String())
}
