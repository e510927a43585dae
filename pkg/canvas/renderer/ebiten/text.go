package ebiten

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// drawText draws str with its top-left corner at (x, y).
// text/v2 positions by the top of the line box, so no baseline offset is
// needed.
func drawText(dst *ebiten.Image, str string, x, y float64, face *text.GoTextFace, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(dst, str, face, op)
}

// textSize returns the width and height of str in face.
func textSize(str string, face *text.GoTextFace) (float64, float64) {
	return text.Measure(str, face, face.Size+lineSpacing)
}

// applyAlpha fades c towards transparent black.
func applyAlpha(c color.Color, alpha float64) color.Color {
	if alpha <= 0 {
		alpha = 0
	}
	if alpha > 1.0 {
		alpha = 1.0
	}

	r, g, b, a := c.RGBA()
	return color.RGBA{
		uint8(float64(r>>8) * alpha),
		uint8(float64(g>>8) * alpha),
		uint8(float64(b>>8) * alpha),
		uint8(float64(a>>8) * alpha),
	}
}
