package kolamfile

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Supersample int    // render at this multiple, then downscale; <= 1 disables
	Caption     string // drawn in the bottom-left corner when set
	CaptionSize float64
	Style       Style
}

// DefaultPNGOptions returns the options used by the CLI and the site.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Supersample: 4,
		CaptionSize: 12,
		Style:       DefaultStyle(),
	}
}

// GGSurface draws onto a gg context. All coordinates and widths are
// multiplied by Factor, so a pattern can be drawn larger than its
// nominal size without touching the renderer.
type GGSurface struct {
	Factor float64

	dc  *gg.Context
	err error
}

// NewGGSurface returns a surface drawing at factor times the nominal size.
func NewGGSurface(factor float64) *GGSurface {
	if factor <= 0 {
		factor = 1
	}
	return &GGSurface{Factor: factor}
}

func (s *GGSurface) Begin(width, height int, background color.Color) {
	if s.dc != nil {
		_ = s.dc.Close()
	}
	s.err = nil
	s.dc = gg.NewContext(int(float64(width)*s.Factor), int(float64(height)*s.Factor))
	if background == nil {
		s.dc.Clear()
		return
	}
	s.dc.ClearWithColor(gg.FromColor(background))
}

func (s *GGSurface) Translate(dx, dy float64) {
	s.dc.Translate(dx*s.Factor, dy*s.Factor)
}

func (s *GGSurface) FillCircle(x, y, r float64, fill color.Color) {
	k := s.Factor
	s.dc.DrawCircle(x*k, y*k, r*k)
	s.dc.SetColor(fill)
	s.keep(s.dc.Fill())
}

func (s *GGSurface) OutlineCircle(x, y, r float64, fill, stroke color.Color, width float64) {
	k := s.Factor
	s.dc.DrawCircle(x*k, y*k, r*k)
	s.dc.SetColor(fill)
	s.keep(s.dc.FillPreserve())
	s.dc.SetColor(stroke)
	s.dc.SetLineWidth(width * k)
	s.keep(s.dc.Stroke())
}

// StrokeArc strokes each arc as its own path: gg continues an arc from
// the current point when the path is not empty.
func (s *GGSurface) StrokeArc(x, y, r, start, end float64, stroke color.Color, width float64) {
	k := s.Factor
	s.dc.ClearPath()
	s.dc.DrawArc(x*k, y*k, r*k, start, end)
	s.dc.SetColor(stroke)
	s.dc.SetLineWidth(width * k)
	s.keep(s.dc.Stroke())
}

func (s *GGSurface) StrokeLine(x1, y1, x2, y2 float64, stroke color.Color, width float64) {
	k := s.Factor
	s.dc.MoveTo(x1*k, y1*k)
	s.dc.LineTo(x2*k, y2*k)
	s.dc.SetColor(stroke)
	s.dc.SetLineWidth(width * k)
	s.keep(s.dc.Stroke())
}

func (s *GGSurface) keep(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Err returns the first drawing error since Begin.
func (s *GGSurface) Err() error {
	return s.err
}

// Image returns what has been drawn so far, at full (factor) size.
func (s *GGSurface) Image() image.Image {
	if s.dc == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	return s.dc.Image()
}

// Close releases the gg context.
func (s *GGSurface) Close() error {
	if s.dc == nil {
		return nil
	}
	return s.dc.Close()
}

// RenderImage renders p at its nominal pixel size.
func RenderImage(p *kolam.Pattern, opts PNGOptions) (*image.RGBA, error) {
	g := p.Grid()
	if g == nil {
		return nil, kolam.ErrUnknownVariant
	}
	factor := opts.Supersample
	if factor < 1 {
		factor = 1
	}

	s := NewGGSurface(float64(factor))
	defer s.Close()
	RenderStyled(s, g, p.States, opts.Style)
	if err := s.Err(); err != nil {
		return nil, err
	}

	size := g.PixelSize()
	large := s.Image()
	final := image.NewRGBA(image.Rect(0, 0, size, size))
	if factor == 1 {
		draw.Draw(final, final.Bounds(), large, large.Bounds().Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	}

	if opts.Caption != "" {
		if err := drawCaption(final, opts.Caption, opts.CaptionSize, opts.Style.Line); err != nil {
			return nil, err
		}
	}
	return final, nil
}

// RenderPNG renders p and encodes it as PNG.
func RenderPNG(w io.Writer, p *kolam.Pattern, opts PNGOptions) error {
	img, err := RenderImage(p, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawCaption writes text in the bottom-left corner, which the diamond
// of dots leaves empty for both grids.
func drawCaption(img *image.RGBA, text string, size float64, c color.Color) error {
	if size <= 0 {
		size = 12
	}
	if c == nil {
		c = color.Black
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return err
	}
	defer face.Close()

	margin := int(size / 2)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(margin),
			Y: fixed.I(img.Bounds().Dy() - margin),
		},
	}
	d.DrawString(text)
	return nil
}
