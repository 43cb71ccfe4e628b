package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	mrand "math/rand/v2"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/nsoz/arrowcaptcha/captcha/sequence"
)

// Canvas geometry. All dimensions are multiplied by the zoom level.
const (
	BaseWidth  = 180
	BaseHeight = 35

	badgeDiameter = 24
	badgeSpacing  = 2
	arrowSize     = 16
	glyphFontSize = 12
)

// Zoom bounds accepted by the pipeline.
const (
	MinZoom = 1
	MaxZoom = 4
)

// ErrInvalidZoom is returned when the requested zoom level is outside
// [MinZoom, MaxZoom].
var ErrInvalidZoom = errors.New("zoom level must be between 1 and 4")

var backgroundColor = color.RGBA{250, 250, 250, 255}

// arrowPalette holds the saturated hues used for arrow glyph fills.
var arrowPalette = []color.RGBA{
	{255, 0, 0, 255},
	{0, 0, 255, 255},
	{0, 255, 0, 255},
	{255, 0, 255, 255},
	{0, 255, 255, 255},
	{255, 200, 0, 255},
	{255, 105, 180, 255},
	{128, 0, 128, 255},
	{255, 165, 0, 255},
}

// linePalette holds the bold colors used for noise lines.
var linePalette = []color.RGBA{
	{255, 0, 0, 255},
	{0, 0, 0, 255},
	{255, 255, 255, 255},
	{0, 0, 255, 255},
	{0, 255, 0, 255},
	{128, 0, 128, 255},
	{255, 165, 0, 255},
}

const noiseCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()"

var (
	glyphFontOnce sync.Once
	glyphFont     *opentype.Font
	glyphFontErr  error
)

// Synthesizer rasterizes arrow-sequence challenge canvases. It is safe for
// concurrent use; the only shared state is a cache of font faces keyed by
// zoom level.
type Synthesizer struct {
	mu    sync.Mutex
	faces map[int]font.Face
}

// NewSynthesizer creates a synthesizer with an empty face cache.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{faces: make(map[int]font.Face)}
}

// Render produces the challenge canvas for the given answer at the given
// zoom level. The canvas is BaseWidth*zoom by BaseHeight*zoom, 24-bit
// color. A nil rng renders with a fresh non-deterministic source.
func (s *Synthesizer) Render(seq sequence.Sequence, zoom int, rng *mrand.Rand) (*image.RGBA, error) {
	if zoom < MinZoom || zoom > MaxZoom {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidZoom, zoom)
	}
	if rng == nil {
		rng = sequence.NewRand()
	}

	face, err := s.glyphFace(zoom)
	if err != nil {
		return nil, fmt.Errorf("loading glyph face: %w", err)
	}

	w := BaseWidth * zoom
	h := BaseHeight * zoom
	dc := gg.NewContext(w, h)

	s.drawBackground(dc, w, h, zoom, rng)
	s.drawBadges(dc, seq, w, h, zoom, rng)
	s.drawNoiseGlyphs(dc, face, w, h, rng)
	s.drawNoiseLines(dc, w, h, zoom, rng)
	s.drawDistortion(dc, w, h, zoom, rng)

	if rgba, ok := dc.Image().(*image.RGBA); ok {
		return rgba, nil
	}
	// gg backs its context with *image.RGBA; this path is a safety net for
	// future library changes.
	bounds := dc.Image().Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, dc.Image(), bounds.Min, draw.Src)
	return rgba, nil
}

// glyphFace returns the cached bold face for the zoom level, parsing the
// embedded font on first use.
func (s *Synthesizer) glyphFace(zoom int) (font.Face, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if face, ok := s.faces[zoom]; ok {
		return face, nil
	}

	glyphFontOnce.Do(func() {
		glyphFont, glyphFontErr = opentype.Parse(gobold.TTF)
	})
	if glyphFontErr != nil {
		return nil, glyphFontErr
	}

	face, err := opentype.NewFace(glyphFont, &opentype.FaceOptions{
		Size:    float64(glyphFontSize * zoom),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	s.faces[zoom] = face
	return face, nil
}

// drawBackground fills the canvas with the near-white base color and
// scatters light-gray speckles at roughly one per 50 pixels.
func (s *Synthesizer) drawBackground(dc *gg.Context, w, h, zoom int, rng *mrand.Rand) {
	dc.SetColor(backgroundColor)
	dc.Clear()

	for i := 0; i < w*h/50; i++ {
		x := rng.IntN(w)
		y := rng.IntN(h)
		brightness := 220 + rng.IntN(35)
		dc.SetRGB255(brightness, brightness, brightness)
		dc.DrawRectangle(float64(x), float64(y), float64(zoom), float64(zoom))
		dc.Fill()
	}
}

// drawBadges lays out the six answer badges, horizontally centered as a
// group, and draws each answer arrow inside its badge.
func (s *Synthesizer) drawBadges(dc *gg.Context, seq sequence.Sequence, w, h, zoom int, rng *mrand.Rand) {
	size := badgeDiameter * zoom
	spacing := badgeSpacing * zoom
	total := sequence.Length*size + (sequence.Length-1)*spacing
	startX := (w-total)/2 + size/2
	centerY := h / 2

	for i, sym := range seq {
		centerX := startX + i*(size+spacing)
		s.drawBadge(dc, centerX, centerY, size, zoom, rng)
		s.drawArrow(dc, centerX, centerY, sym, zoom, rng)
	}
}

// drawBadge paints one circular badge: drop shadow, gradient fill, border.
func (s *Synthesizer) drawBadge(dc *gg.Context, centerX, centerY, size, zoom int, rng *mrand.Rand) {
	cx := float64(centerX)
	cy := float64(centerY)
	radius := float64(size) / 2

	// Soft shadow offset by half the badge radius.
	offset := radius / 2
	dc.SetRGBA255(180+rng.IntN(50), 180+rng.IntN(50), 180+rng.IntN(50), 60)
	dc.DrawCircle(cx+offset, cy+offset, radius)
	dc.Fill()

	lo := 230 + rng.IntN(25)
	hi := 200 + rng.IntN(55)
	gradient := gg.NewLinearGradient(cx-radius, cy-radius, cx+radius, cy+radius)
	gradient.AddColorStop(0, color.RGBA{uint8(lo), uint8(lo), uint8(lo), 255})
	gradient.AddColorStop(1, color.RGBA{uint8(hi), uint8(hi), uint8(hi), 255})
	dc.SetFillStyle(gradient)
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()

	border := 150 + rng.IntN(80)
	dc.SetRGB255(border, border, border)
	dc.SetLineWidth(math.Max(1, float64(zoom)/2))
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()
}

// drawArrow renders the seven-point directional arrow polygon for one
// answer symbol, filled from the bright palette and outlined with a
// brightened variant of the same color.
func (s *Synthesizer) drawArrow(dc *gg.Context, centerX, centerY int, sym sequence.Symbol, zoom int, rng *mrand.Rand) {
	size := float64(arrowSize * zoom)
	cx := float64(centerX)
	cy := float64(centerY)

	var xs, ys [7]float64
	switch sym {
	case sequence.Up:
		xs = [7]float64{cx, cx - size/2, cx - size/4, cx - size/4, cx + size/4, cx + size/4, cx + size/2}
		ys = [7]float64{cy - size/3, cy + size/6, cy + size/6, cy + size/3, cy + size/3, cy + size/6, cy + size/6}
	case sequence.Left:
		xs = [7]float64{cx - size/3, cx + size/6, cx + size/6, cx + size/3, cx + size/3, cx + size/6, cx + size/6}
		ys = [7]float64{cy, cy - size/2, cy - size/4, cy - size/4, cy + size/4, cy + size/4, cy + size/2}
	case sequence.Right:
		xs = [7]float64{cx + size/3, cx - size/6, cx - size/6, cx - size/3, cx - size/3, cx - size/6, cx - size/6}
		ys = [7]float64{cy, cy - size/2, cy - size/4, cy - size/4, cy + size/4, cy + size/4, cy + size/2}
	default:
		return
	}

	fill := arrowPalette[rng.IntN(len(arrowPalette))]

	dc.MoveTo(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		dc.LineTo(xs[i], ys[i])
	}
	dc.ClosePath()
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(brighten(fill))
	dc.SetLineWidth(math.Max(1, float64(zoom)/2))
	dc.Stroke()
}

// brighten lifts each channel toward white, clamped at 255. Zero channels
// get a small floor so pure hues still brighten.
func brighten(c color.RGBA) color.RGBA {
	lift := func(v uint8) uint8 {
		n := v
		if n == 0 {
			n = 3
		}
		scaled := int(float64(n) / 0.7)
		if scaled > 255 {
			scaled = 255
		}
		return uint8(scaled)
	}
	return color.RGBA{lift(c.R), lift(c.G), lift(c.B), c.A}
}

// drawNoiseGlyphs tiles rows of randomly rotated translucent characters
// across the whole canvas.
func (s *Synthesizer) drawNoiseGlyphs(dc *gg.Context, face font.Face, w, h int, rng *mrand.Rand) {
	dc.SetFontFace(face)

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	if lineHeight <= 0 {
		lineHeight = glyphFontSize
	}
	ascent := metrics.Ascent.Ceil()
	mWidth, _ := dc.MeasureString("M")

	rows := h/lineHeight + 1
	for row := 0; row < rows; row++ {
		y := float64(row*lineHeight + ascent)
		x := 0.0
		for x < float64(w) {
			glyph := string(noiseCharset[rng.IntN(len(noiseCharset))])
			angle := gg.Radians(float64(rng.IntN(31) - 15))

			dc.Push()
			dc.RotateAbout(angle, x, y)
			dc.SetRGBA255(192, 192, 192, 77) // light gray at ~30% opacity
			dc.DrawString(glyph, x, y)
			dc.Pop()

			glyphWidth, _ := dc.MeasureString(glyph)
			advance := math.Max(glyphWidth/2, mWidth/3)
			if advance < 1 {
				advance = 1
			}
			x += advance
		}
	}
}

// drawNoiseLines strokes bold random lines spanning the canvas, uniformly
// chosen among horizontal, vertical, and the two diagonal orientations.
func (s *Synthesizer) drawNoiseLines(dc *gg.Context, w, h, zoom int, rng *mrand.Rand) {
	thickness := 1.0
	if zoom > 2 {
		thickness = 2.0
	}
	dc.SetLineWidth(thickness)

	count := (3 + zoom) + rng.IntN(2+zoom)
	for i := 0; i < count; i++ {
		dc.SetColor(linePalette[rng.IntN(len(linePalette))])
		switch rng.IntN(4) {
		case 0:
			y := float64(rng.IntN(h))
			dc.DrawLine(0, y, float64(w), y)
		case 1:
			x := float64(rng.IntN(w))
			dc.DrawLine(x, 0, x, float64(h))
		case 2:
			dc.DrawLine(0, float64(rng.IntN(h)), float64(w), float64(rng.IntN(h)))
		case 3:
			dc.DrawLine(float64(w), float64(rng.IntN(h)), 0, float64(rng.IntN(h)))
		}
		dc.Stroke()
	}
}

// drawDistortion paints three translucent sinusoidal curves followed by a
// scatter of translucent dots.
func (s *Synthesizer) drawDistortion(dc *gg.Context, w, h, zoom int, rng *mrand.Rand) {
	dc.SetLineWidth(0.8 * float64(zoom))
	for i := 0; i < 3; i++ {
		dc.SetRGBA255(rng.IntN(256), rng.IntN(256), rng.IntN(256), 80)

		baseY := float64(rng.IntN(h))
		amplitude := float64((5 + rng.IntN(10)) * zoom)
		period := float64((20 + rng.IntN(20)) * zoom)

		dc.MoveTo(0, baseY)
		for x := 1; x < w; x++ {
			y := baseY + amplitude*math.Sin(2*math.Pi*float64(x)/period)
			dc.LineTo(float64(x), y)
		}
		dc.Stroke()
	}

	for i := 0; i < 30*zoom; i++ {
		dc.SetRGBA255(rng.IntN(256), rng.IntN(256), rng.IntN(256), 60+rng.IntN(100))
		diameter := float64((1 + rng.IntN(3)) * zoom)
		dc.DrawCircle(float64(rng.IntN(w)), float64(rng.IntN(h)), diameter/2)
		dc.Fill()
	}
}
