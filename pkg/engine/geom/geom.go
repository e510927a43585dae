// Package geom holds the small geometric and colour primitives shared by the
// canvas packages.
package geom

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrBadColor is returned when a colour string cannot be parsed.
var ErrBadColor = errors.New("geom: invalid colour")

// Point is a position on the drawing surface in pixels.
type Point struct {
	X, Y float64
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Polar returns the point at the given angle and radius around p.
func (p Point) Polar(angle, radius float64) Point {
	return Point{
		X: p.X + math.Cos(angle)*radius,
		Y: p.Y + math.Sin(angle)*radius,
	}
}

// RGB is an opaque colour.
type RGB struct {
	R, G, B uint8
}

// White is used for the hot cores of bolts and beams.
var White = RGB{255, 255, 255}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// MustParseHex is ParseHex for compile-time constants.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the colour as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// WithAlpha returns the colour as a non-premultiplied colour with the given
// opacity in [0,1].
func (c RGB) WithAlpha(alpha float64) color.NRGBA {
	return color.NRGBA{c.R, c.G, c.B, uint8(Clamp01(alpha) * 255)}
}

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
