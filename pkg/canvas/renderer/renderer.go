// Package renderer holds the drawing parameters shared by every backend:
// per-kind stroke and glow settings, gradients and the HUD layout. Nothing
// here touches a graphics library, so it is tested on its own.
package renderer

import (
	"image"
	"image/color"
	"math"
	"time"

	"collectivecanvas/pkg/canvas/effect"
	"collectivecanvas/pkg/engine/geom"
)

// Stroke describes how the lines of one kind are drawn. Glow is the extra
// width of the translucent under-stroke; Core is the width of a white inner
// line, zero for none.
type Stroke struct {
	Width float64
	Glow  float64
	Core  float64
}

// Fixed drawing parameters of the individual kinds.
const (
	AuroraBand       = 80.0
	AuroraAlpha      = 0.7
	CrystalFillAlpha = float64(0x40) / 255
	SparkleAt        = 0.8
	DripAt           = 0.5
	BeamCore         = 0.3
	RippleWidth      = 3.0
	DripWidth        = 2.0
)

// StrokeFor returns the stroke settings of kind k. Kinds whose line width
// comes from their geometry (fireworks, beam, tree) report zero Width.
func StrokeFor(k effect.Kind) Stroke {
	switch k {
	case effect.KindSpiral:
		return Stroke{Width: 4, Glow: 20}
	case effect.KindBurst:
		return Stroke{Width: 6, Glow: 25}
	case effect.KindBolt:
		return Stroke{Width: 8, Glow: 30, Core: 3}
	case effect.KindSwirl:
		return Stroke{Width: 3, Glow: 15}
	case effect.KindFireworks:
		return Stroke{Glow: 15}
	case effect.KindCrystal:
		return Stroke{Width: 2, Glow: 15}
	case effect.KindVortex:
		return Stroke{Glow: 12}
	case effect.KindBeam:
		return Stroke{Glow: 25}
	case effect.KindRipple:
		return Stroke{Width: RippleWidth}
	case effect.KindAurora, effect.KindPlasma, effect.KindSplash, effect.KindTree:
		return Stroke{}
	}
	panic("renderer: unknown kind " + k.String())
}

// Pass is one under-stroke of a glow.
type Pass struct {
	Width float64
	Alpha float64
}

// GlowPasses returns the translucent under-strokes that stand in for a
// canvas shadow blur, widest first. A line of width w with glow g gets two
// passes; without glow there are none.
func GlowPasses(width, glow float64) []Pass {
	if glow <= 0 {
		return nil
	}
	return []Pass{
		{Width: width + glow, Alpha: 0.12},
		{Width: width + glow/2, Alpha: 0.28},
	}
}

// Stop is one colour stop of a gradient.
type Stop struct {
	At    float64
	Color color.NRGBA
}

// BackgroundStops is the radial gradient painted behind the canvas.
var BackgroundStops = []Stop{
	{0, color.NRGBA{0x0a, 0x0a, 0x0a, 0xff}},
	{0.3, color.NRGBA{0x1a, 0x1a, 0x2e, 0xff}},
	{0.7, color.NRGBA{0x16, 0x21, 0x3e, 0xff}},
	{1, color.NRGBA{0x0f, 0x0f, 0x23, 0xff}},
}

// Gradient samples stops at t, clamping outside [first, last].
func Gradient(stops []Stop, t float64) color.NRGBA {
	if len(stops) == 0 {
		return color.NRGBA{}
	}
	if t <= stops[0].At {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.At {
			f := (t - a.At) / (b.At - a.At)
			return color.NRGBA{
				R: lerp8(a.Color.R, b.Color.R, f),
				G: lerp8(a.Color.G, b.Color.G, f),
				B: lerp8(a.Color.B, b.Color.B, f),
				A: lerp8(a.Color.A, b.Color.A, f),
			}
		}
	}
	return stops[len(stops)-1].Color
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

// Background rasterizes the radial background for a w×h surface. The
// gradient reaches its last stop at half the longer side.
func Background(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	radius := math.Max(float64(w), float64(h)) / 2
	if radius == 0 {
		return img
	}
	for y := range h {
		for x := range w {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			img.SetNRGBA(x, y, Gradient(BackgroundStops, d/radius))
		}
	}
	return img
}

// PlasmaStops is the alpha falloff of a plasma blob from its centre.
var PlasmaStops = []Stop{
	{0, color.NRGBA{0xff, 0xff, 0xff, 0xff}},
	{0.7, color.NRGBA{0xff, 0xff, 0xff, 0x80}},
	{1, color.NRGBA{0xff, 0xff, 0xff, 0x00}},
}

// FalloffSprite renders a white disc of the given diameter whose alpha
// follows PlasmaStops. Backends tint and scale it per blob.
func FalloffSprite(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := range size {
		for x := range size {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r) / r
			if d > 1 {
				continue
			}
			img.SetNRGBA(x, y, Gradient(PlasmaStops, d))
		}
	}
	return img
}

// AuroraAlphaAt is the band opacity at y for a wave starting at startY,
// fading linearly to transparent over AuroraBand.
func AuroraAlphaAt(y, startY float64) float64 {
	return geom.Clamp01(1 - (y-startY)/AuroraBand)
}

// DripLength is the visible drip of a splash drop at element progress ep.
func DripLength(drip, ep float64) float64 {
	if drip <= 0 || ep <= DripAt {
		return 0
	}
	return drip * (ep - DripAt) * 2
}

// Status line timing.
const (
	StatusHold = 3 * time.Second
	StatusFade = time.Second
)

// StatusAlpha is the opacity of a status message shown elapsed ago.
func StatusAlpha(elapsed time.Duration) float64 {
	switch {
	case elapsed < 0:
		return 0
	case elapsed <= StatusHold:
		return 1
	case elapsed >= StatusHold+StatusFade:
		return 0
	}
	return 1 - float64(elapsed-StatusHold)/float64(StatusFade)
}

// Pulse oscillates between lo and hi with the given period.
func Pulse(t time.Time, period time.Duration, lo, hi float64) float64 {
	phase := float64(t.UnixMilli()%period.Milliseconds()) / float64(period.Milliseconds())
	v := (math.Sin(phase*2*math.Pi) + 1) / 2
	return lo + (hi-lo)*v
}

// HUD layout constants.
const (
	HUDMargin  = 24
	HUDPadding = 14
	QRMaxSize  = 180
	QRMinSize  = 96
)

// QRRect places the join QR code in the bottom-right corner, sized to a
// quarter of the shorter side within [QRMinSize, QRMaxSize]. It returns an
// empty rectangle when the surface is too small to hold it.
func QRRect(w, h int) image.Rectangle {
	size := min(w, h) / 4
	size = max(QRMinSize, min(QRMaxSize, size))
	if w < size+2*HUDMargin || h < size+2*HUDMargin {
		return image.Rectangle{}
	}
	x := w - HUDMargin - size
	y := h - HUDMargin - size
	return image.Rect(x, y, x+size, y+size)
}

// UIFontSize scales the HUD text with the surface height.
func UIFontSize(h int) float64 {
	return math.Max(12, math.Min(22, float64(h)/48))
}

// ParticleColor is the tint of an ambient particle at the given brightness.
func ParticleColor(brightness float64) color.NRGBA {
	return color.NRGBA{0xdc, 0xe6, 0xff, uint8(geom.Clamp01(brightness) * 255)}
}
