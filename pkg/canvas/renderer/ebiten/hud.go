package ebiten

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"collectivecanvas/pkg/canvas/i18n"
	"collectivecanvas/pkg/canvas/renderer"
)

// appendRoundedRect adds a rounded rectangle to the path. (x, y) is top-left; w, h are size; r is corner radius.
func appendRoundedRect(p *vector.Path, x, y, w, h, r float32) {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	halfPi := float32(math.Pi / 2)
	pi := float32(math.Pi)
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.Arc(x+w-r, y+r, r, 3*halfPi, 0, vector.Clockwise)
	p.LineTo(x+w, y+h-r)
	p.Arc(x+w-r, y+h-r, r, 0, halfPi, vector.Clockwise)
	p.LineTo(x+r, y+h)
	p.Arc(x+r, y+h-r, r, halfPi, pi, vector.Clockwise)
	p.LineTo(x, y+r)
	p.Arc(x+r, y+r, r, pi, 3*halfPi, vector.Clockwise)
	p.Close()
}

// drawPanel draws a rounded translucent panel with a border.
func drawPanel(dst *ebiten.Image, x, y, w, h float32) {
	var path vector.Path
	appendRoundedRect(&path, x, y, w, h, panelCornerRadius)
	drawOpts := &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(colorPanelBackground)
	vector.FillPath(dst, &path, nil, drawOpts)

	strokeOpts := &vector.StrokeOptions{Width: panelBorderWidth, MiterLimit: 10}
	drawOpts = &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(colorPanelBorder)
	vector.StrokePath(dst, &path, strokeOpts, drawOpts)
}

// decodeQR turns the join QR PNG into an image.
func decodeQR(data []byte) (*ebiten.Image, error) {
	if len(data) == 0 {
		return nil, nil
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding QR code: %w", err)
	}
	return ebiten.NewImageFromImage(img), nil
}

type hudLine struct {
	text string
	col  color.Color
	bold bool
}

// drawHUD draws the info panel in the top-left corner and the join QR code
// in the bottom-right one.
func (g *Game) drawHUD(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	g.fonts.resize(h)
	stats := g.engine.Stats()

	lines := []hudLine{
		{text: i18n.T("HUD_CANVAS", g.opts.CanvasID), col: colorAction, bold: true},
		{text: i18n.T("HUD_JOIN", g.opts.JoinURL), col: colorText},
		{text: i18n.T("HUD_SUBMISSIONS", stats.Submissions), col: colorText},
	}
	if stats.Paused {
		lines = append(lines, hudLine{text: i18n.T("HUD_PAUSED"), col: g.pausedColor(), bold: true})
	}
	if msg, alpha := g.status.current(g.clock.Now()); alpha > 0 {
		lines = append(lines, hudLine{text: msg.text, col: applyAlpha(msg.col, alpha)})
	}
	lines = append(lines, hudLine{text: i18n.T("HUD_HELP"), col: colorSubtle})

	title := i18n.T("HUD_TITLE")
	titleW, titleH := textSize(title, g.fonts.titleFace())
	panelW := titleW
	panelH := titleH + lineSpacing
	lineH := g.fonts.uiSize() + lineSpacing
	for _, l := range lines {
		lw, _ := textSize(l.text, g.lineFace(l))
		panelW = math.Max(panelW, lw)
		panelH += lineH
	}
	panelW += 2 * renderer.HUDPadding
	panelH += 2 * renderer.HUDPadding

	x := float64(renderer.HUDMargin)
	y := float64(renderer.HUDMargin)
	drawPanel(screen, float32(x), float32(y), float32(panelW), float32(panelH))

	x += renderer.HUDPadding
	y += renderer.HUDPadding
	drawText(screen, title, x, y, g.fonts.titleFace(), colorText)
	y += titleH + lineSpacing
	for _, l := range lines {
		drawText(screen, l.text, x, y, g.lineFace(l), l.col)
		y += lineH
	}

	if g.qr == nil {
		return
	}
	rect := renderer.QRRect(w, h)
	if rect.Empty() {
		return
	}
	const border = 8
	vector.DrawFilledRect(screen, float32(rect.Min.X-border), float32(rect.Min.Y-border),
		float32(rect.Dx()+2*border), float32(rect.Dy()+2*border), colorQRBackground, false)
	op := &ebiten.DrawImageOptions{}
	scale := float64(rect.Dx()) / float64(g.qr.Bounds().Dx())
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	screen.DrawImage(g.qr, op)
}

func (g *Game) lineFace(l hudLine) *text.GoTextFace {
	if l.bold {
		return g.fonts.sansBoldFace()
	}
	return g.fonts.sansFace()
}
