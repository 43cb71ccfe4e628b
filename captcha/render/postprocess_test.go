package render

import (
	"image"
	"image/color"
	mrand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillGray builds a w x h canvas with every channel set to v.
func fillGray(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestPostProcess_InertWithinZoomRange(t *testing.T) {
	// For zooms 1-4 the pixelation block and blur kernel both collapse to
	// side 1, so the stage must pass pixels through unchanged.
	synth := NewSynthesizer()
	seq := testSequence(t)

	for zoom := MinZoom; zoom <= MaxZoom; zoom++ {
		img, err := synth.Render(seq, zoom, mrand.New(mrand.NewPCG(5, 5)))
		require.NoError(t, err)

		out := PostProcess(img, zoom)
		assert.Equal(t, img.Pix, out.Pix, "zoom %d", zoom)
	}
}

func TestPixelate_SamplesTopLeftOfEachBlock(t *testing.T) {
	// zoom 8 gives block side 2.
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 0, 255})
		}
	}

	out := pixelate(img, 8)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := img.RGBAAt((x/2)*2, (y/2)*2)
			assert.Equal(t, want, out.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestPixelate_IdentityForSmallBlocks(t *testing.T) {
	img := fillGray(4, 4, 50)
	assert.Same(t, img, pixelate(img, 4), "block side 1 is a pass-through")
}

func TestBoxBlur(t *testing.T) {
	t.Run("interior pixels convolved with kernel strength", func(t *testing.T) {
		// zoom 12 gives side 2, weights summing to 1.5; a uniform gray 100
		// canvas convolves to exactly 150 wherever the kernel fits.
		img := fillGray(4, 4, 100)
		out := boxBlur(img, 12)

		c := out.RGBAAt(0, 0)
		assert.Equal(t, uint8(150), c.R)
		assert.Equal(t, uint8(150), c.G)
		assert.Equal(t, uint8(150), c.B)
	})

	t.Run("edge pixels left unmodified", func(t *testing.T) {
		img := fillGray(4, 4, 100)
		out := boxBlur(img, 12)

		// With kernel side 2 the bottom row and right column would read
		// out of bounds and must keep their original value.
		assert.Equal(t, uint8(100), out.RGBAAt(3, 3).R)
		assert.Equal(t, uint8(100), out.RGBAAt(3, 0).R)
		assert.Equal(t, uint8(100), out.RGBAAt(0, 3).R)
	})

	t.Run("kernel side 1 is a pass-through", func(t *testing.T) {
		img := fillGray(4, 4, 100)
		assert.Same(t, img, boxBlur(img, 4))
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		img := fillGray(4, 4, 100)
		_ = boxBlur(img, 12)
		assert.Equal(t, uint8(100), img.RGBAAt(0, 0).R)
	})
}
