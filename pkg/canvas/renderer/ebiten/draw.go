package ebiten

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"collectivecanvas/pkg/canvas/effect"
	"collectivecanvas/pkg/canvas/renderer"
	"collectivecanvas/pkg/engine/geom"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// drawEffect paints fx at its current progress onto dst.
func (p *Painter) drawEffect(dst *ebiten.Image, fx effect.Effect) {
	r := effect.RevealOf(fx)
	col := fx.Color().WithAlpha(1)
	st := renderer.StrokeFor(fx.Kind())

	switch fx := fx.(type) {
	case *effect.Spiral:
		glowLine(dst, r.Polyline(fx.Points), st.Width, st.Glow, col, 1)

	case *effect.Burst:
		for i := range r.Visible() {
			end := fx.Center.Lerp(fx.Rays[i], r.ElementProgress(i))
			glowLine(dst, []geom.Point{fx.Center, end}, st.Width, st.Glow, col, 1)
		}

	case *effect.Bolt:
		pts := r.Polyline(fx.Points)
		glowLine(dst, pts, st.Width, st.Glow, col, 1)
		strokeLine(dst, pts, st.Core, color.White, 1)

	case *effect.Swirl:
		for _, arm := range fx.VisibleArms(r) {
			glowLine(dst, arm, st.Width, st.Glow, col, 1)
		}

	case *effect.Fireworks:
		for i := range r.Visible() {
			spark := fx.Particles[i]
			ep := r.ElementProgress(i)
			end := fx.Center.Lerp(spark.End, ep)
			glowLine(dst, []geom.Point{fx.Center, end}, spark.Width, st.Glow, col, 1)
			if ep >= renderer.SparkleAt {
				glowDot(dst, end, spark.SparkleSize, st.Glow, col, 1)
			}
		}

	case *effect.Aurora:
		for i := range r.Visible() {
			wave := fx.Waves[i]
			wp := r.ElementProgress(i)
			n := int(math.Floor(wp * float64(len(wave.Points))))
			drawAuroraBand(dst, wave.StartY, wave.Points[:n], col, wp*renderer.AuroraAlpha)
		}

	case *effect.Plasma:
		for i := range r.Visible() {
			blob := fx.Blobs[i]
			p.drawFalloff(dst, blob.Pos, blob.Size*r.ElementProgress(i), col)
		}

	case *effect.Crystal:
		for i := range r.Visible() {
			layer := fx.Layers[i]
			lp := r.ElementProgress(i)
			fillPolygon(dst, layer.Points, col, renderer.CrystalFillAlpha*lp)
			glowPolygon(dst, layer.Points, st.Width, st.Glow, col, lp)
		}

	case *effect.Vortex:
		for i := range r.Visible() {
			dot := fx.Particles[i]
			glowDot(dst, dot.Pos, dot.Size, st.Glow, col, r.ElementProgress(i))
		}

	case *effect.Splash:
		for i := range r.Visible() {
			drop := fx.Drops[i]
			dp := r.ElementProgress(i)
			c := applyAlpha(col, dp)
			vector.DrawFilledCircle(dst, float32(drop.Pos.X), float32(drop.Pos.Y), float32(drop.Size*dp), c, true)
			if l := renderer.DripLength(drop.Drip, dp); l > 0 {
				vector.DrawFilledRect(dst, float32(drop.Pos.X-renderer.DripWidth/2), float32(drop.Pos.Y),
					renderer.DripWidth, float32(l), c, true)
			}
		}

	case *effect.Beam:
		ext := fx.Extent(effect.DrawProgress(fx))
		if ext <= 0 {
			return
		}
		pts := []geom.Point{fx.Start, fx.Start.Lerp(fx.End, ext)}
		glowLine(dst, pts, fx.Width, st.Glow, col, 1)
		strokeLine(dst, pts, fx.Width*renderer.BeamCore, color.White, 1)

	case *effect.Tree:
		for i := range r.Visible() {
			b := fx.Branches[i]
			strokeLine(dst, []geom.Point{b.Start, b.Start.Lerp(b.End, r.ElementProgress(i))}, b.Width, col, 1)
		}

	case *effect.Ripple:
		for i := range r.Visible() {
			ring := fx.Rings[i]
			rp := r.ElementProgress(i)
			vector.StrokeCircle(dst, float32(fx.Center.X), float32(fx.Center.Y), float32(ring.Radius*rp),
				float32(st.Width), applyAlpha(col, ring.Alpha*rp), true)
		}

	default:
		panic(fmt.Sprintf("ebiten: no drawing for %T", fx))
	}
}

func polyline(pts []geom.Point, closed bool) *vector.Path {
	var path vector.Path
	for i, pt := range pts {
		if i == 0 {
			path.MoveTo(float32(pt.X), float32(pt.Y))
			continue
		}
		path.LineTo(float32(pt.X), float32(pt.Y))
	}
	if closed {
		path.Close()
	}
	return &path
}

func strokePath(dst *ebiten.Image, path *vector.Path, width float64, col color.Color, alpha float64) {
	if width <= 0 || alpha <= 0 {
		return
	}
	strokeOpts := &vector.StrokeOptions{
		Width:      float32(width),
		LineCap:    vector.LineCapRound,
		LineJoin:   vector.LineJoinRound,
		MiterLimit: 10,
	}
	drawOpts := &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(col)
	drawOpts.ColorScale.ScaleAlpha(float32(alpha))
	vector.StrokePath(dst, path, strokeOpts, drawOpts)
}

func strokeLine(dst *ebiten.Image, pts []geom.Point, width float64, col color.Color, alpha float64) {
	if len(pts) < 2 {
		return
	}
	strokePath(dst, polyline(pts, false), width, col, alpha)
}

// glowLine strokes pts over its translucent glow under-strokes.
func glowLine(dst *ebiten.Image, pts []geom.Point, width, glow float64, col color.Color, alpha float64) {
	if len(pts) < 2 {
		return
	}
	path := polyline(pts, false)
	for _, pass := range renderer.GlowPasses(width, glow) {
		strokePath(dst, path, pass.Width, col, pass.Alpha*alpha)
	}
	strokePath(dst, path, width, col, alpha)
}

func glowPolygon(dst *ebiten.Image, pts []geom.Point, width, glow float64, col color.Color, alpha float64) {
	if len(pts) < 3 {
		return
	}
	path := polyline(pts, true)
	for _, pass := range renderer.GlowPasses(width, glow) {
		strokePath(dst, path, pass.Width, col, pass.Alpha*alpha)
	}
	strokePath(dst, path, width, col, alpha)
}

func fillPolygon(dst *ebiten.Image, pts []geom.Point, col color.Color, alpha float64) {
	if len(pts) < 3 || alpha <= 0 {
		return
	}
	drawOpts := &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(col)
	drawOpts.ColorScale.ScaleAlpha(float32(alpha))
	vector.FillPath(dst, polyline(pts, true), nil, drawOpts)
}

// glowDot fills a disc of radius r over a halo of glow-widened discs.
func glowDot(dst *ebiten.Image, at geom.Point, r, glow float64, col color.Color, alpha float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	x, y := float32(at.X), float32(at.Y)
	for _, pass := range renderer.GlowPasses(2*r, glow) {
		vector.DrawFilledCircle(dst, x, y, float32(pass.Width/2), applyAlpha(col, pass.Alpha*alpha), true)
	}
	vector.DrawFilledCircle(dst, x, y, float32(r), applyAlpha(col, alpha), true)
}

// drawAuroraBand fills the region between the wave and startY+AuroraBand
// with a vertical fade from the wave colour to transparent.
func drawAuroraBand(dst *ebiten.Image, startY float64, pts []geom.Point, col color.NRGBA, alpha float64) {
	if len(pts) == 0 || alpha <= 0 {
		return
	}
	bottom := startY + renderer.AuroraBand
	top := append([]geom.Point{{X: 0, Y: startY}}, pts...)

	cr, cg, cb := float32(col.R)/255, float32(col.G)/255, float32(col.B)/255
	vertex := func(x, y, a float64) ebiten.Vertex {
		return ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb,
			ColorA: float32(a * alpha),
		}
	}

	vs := make([]ebiten.Vertex, 0, 2*len(top))
	is := make([]uint16, 0, 6*len(top))
	for i, pt := range top {
		vs = append(vs,
			vertex(pt.X, pt.Y, renderer.AuroraAlphaAt(pt.Y, startY)),
			vertex(pt.X, bottom, 0),
		)
		if i == 0 {
			continue
		}
		j := uint16(2 * i)
		is = append(is, j-2, j-1, j, j-1, j+1, j)
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(vs, is, whiteSubImage, op)
}

// drawFalloff stamps the tinted plasma sprite with the given radius.
func (p *Painter) drawFalloff(dst *ebiten.Image, at geom.Point, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	scale := 2 * radius / falloffSpriteSize
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-falloffSpriteSize/2, -falloffSpriteSize/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(at.X, at.Y)
	op.ColorScale.ScaleWithColor(col)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(p.falloff, op)
}
