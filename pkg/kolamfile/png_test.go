package kolamfile

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

func TestRenderPNGSize(t *testing.T) {
	tests := []struct {
		v    kolam.Variant
		code string
		size int
	}{
		{kolam.Small, "A5C3", 400},
		{kolam.Large, "ABCDEF012", 420},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			var buf bytes.Buffer
			err := RenderPNG(&buf, kolam.MustPattern(tt.v, tt.code), DefaultPNGOptions())
			require.NoError(t, err)

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, tt.size, tt.size), img.Bounds())
		})
	}
}

func TestRenderImagePixels(t *testing.T) {
	for _, ss := range []int{1, 4} {
		opts := DefaultPNGOptions()
		opts.Supersample = ss

		loops, err := RenderImage(kolam.MustPattern(kolam.Small, "0000"), opts)
		require.NoError(t, err)
		crosses, err := RenderImage(kolam.MustPattern(kolam.Small, "FFFF"), opts)
		require.NoError(t, err)

		// Corner outside the diamond stays transparent.
		assert.Zero(t, loops.RGBAAt(2, 2).A, "supersample %d", ss)

		// Pulli dot at (2,0).
		dot := loops.RGBAAt(200, 40)
		assert.Greater(t, dot.R, uint8(200), "supersample %d", ss)
		assert.Less(t, dot.G, uint8(80), "supersample %d", ss)

		// Intersection (2,2.5): white marker for a loop, black for a crossing.
		white := loops.RGBAAt(200, 240)
		assert.Greater(t, white.R, uint8(200), "supersample %d", ss)
		assert.Greater(t, white.G, uint8(200), "supersample %d", ss)
		black := crosses.RGBAAt(200, 240)
		assert.Less(t, black.R, uint8(60), "supersample %d", ss)
		assert.Greater(t, black.A, uint8(200), "supersample %d", ss)
	}
}

func TestRenderImageBackground(t *testing.T) {
	opts := DefaultPNGOptions()
	opts.Supersample = 1
	opts.Style.Background = color.White

	img, err := RenderImage(kolam.MustPattern(kolam.Large, ""), opts)
	require.NoError(t, err)
	c := img.RGBAAt(1, 1)
	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, uint8(255), c.R)
}

func TestRenderImageCaption(t *testing.T) {
	opts := DefaultPNGOptions()
	opts.Supersample = 1
	plain, err := RenderImage(kolam.MustPattern(kolam.Small, ""), opts)
	require.NoError(t, err)

	opts.Caption = "1-5-1:0000"
	captioned, err := RenderImage(kolam.MustPattern(kolam.Small, ""), opts)
	require.NoError(t, err)

	h := plain.Bounds().Dy()
	changed := 0
	for y := h - 20; y < h; y++ {
		for x := 0; x < 80; x++ {
			if plain.RGBAAt(x, y) != captioned.RGBAAt(x, y) {
				changed++
			}
		}
	}
	assert.Positive(t, changed)
}

func TestRenderImageUnknownVariant(t *testing.T) {
	_, err := RenderImage(&kolam.Pattern{Variant: kolam.Variant(3)}, DefaultPNGOptions())
	assert.ErrorIs(t, err, kolam.ErrUnknownVariant)
}

func TestGGSurfaceReuse(t *testing.T) {
	s := NewGGSurface(1)
	defer s.Close()
	RenderPattern(s, kolam.MustPattern(kolam.Small, "FFFF"))
	require.NoError(t, s.Err())
	assert.Equal(t, 400, s.Image().Bounds().Dx())

	RenderPattern(s, kolam.MustPattern(kolam.Large, "0"))
	require.NoError(t, s.Err())
	assert.Equal(t, 420, s.Image().Bounds().Dx())
}
