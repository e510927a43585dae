package ebiten

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"collectivecanvas/pkg/canvas/aging"
	"collectivecanvas/pkg/canvas/effect"
	"collectivecanvas/pkg/canvas/particles"
	"collectivecanvas/pkg/canvas/renderer"
)

var errNoSurface = errors.New("ebiten: surface not allocated")

// snapshot is a completed effect rasterized at full surface size.
type snapshot struct {
	img *ebiten.Image
}

func (s *snapshot) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *snapshot) Release() {
	s.img.Deallocate()
}

// Painter keeps the canvas as a stack of full-size layers, bottom to top:
// background, aging, active effects and ambient particles.
type Painter struct {
	width, height int

	background *ebiten.Image
	aging      *ebiten.Image
	effects    *ebiten.Image
	dust       *ebiten.Image

	// Scratch images for blurring one aging group.
	group   *ebiten.Image
	blurTmp *ebiten.Image

	blur    *ebiten.Shader
	falloff *ebiten.Image
}

// NewPainter compiles the blur shader and prepares the sprites. Layers are
// allocated by the first Resize.
func NewPainter() (*Painter, error) {
	shader, err := compileBlur()
	if err != nil {
		return nil, err
	}
	return &Painter{
		blur:    shader,
		falloff: ebiten.NewImageFromImage(renderer.FalloffSprite(falloffSpriteSize)),
	}, nil
}

func (p *Painter) layers() []**ebiten.Image {
	return []**ebiten.Image{&p.background, &p.aging, &p.effects, &p.dust, &p.group, &p.blurTmp}
}

// Resize reallocates every layer at the new size.
func (p *Painter) Resize(width, height int) {
	for _, l := range p.layers() {
		if *l != nil {
			(*l).Deallocate()
		}
		*l = ebiten.NewImage(width, height)
	}
	p.width, p.height = width, height
	p.background.WritePixels(renderer.Background(width, height).Pix)
}

// Clear empties the aging, effect and particle layers. The background is
// regenerated only on Resize.
func (p *Painter) Clear() {
	if p.aging == nil {
		return
	}
	p.aging.Clear()
	p.effects.Clear()
	p.dust.Clear()
}

// DrawParticles redraws the ambient overlay.
func (p *Painter) DrawParticles(ps []particles.Particle) {
	if p.dust == nil {
		return
	}
	p.dust.Clear()
	for _, pt := range ps {
		vector.DrawFilledCircle(p.dust, float32(pt.X), float32(pt.Y), float32(pt.Radius),
			renderer.ParticleColor(pt.Brightness()), true)
	}
}

// Recomposite redraws the aging layer from scratch, one blur pass per
// group, most blurred first.
func (p *Painter) Recomposite(groups []aging.Group) {
	if p.aging == nil {
		return
	}
	p.aging.Clear()
	for _, g := range groups {
		if g.Level <= 0 {
			for _, m := range g.Members {
				p.aging.DrawImage(m.Snapshot.(*snapshot).img, nil)
			}
			continue
		}
		p.group.Clear()
		for _, m := range g.Members {
			p.group.DrawImage(m.Snapshot.(*snapshot).img, nil)
		}
		blur(p.aging, p.blurTmp, p.group, p.blur, float64(g.Level))
	}
}

// BeginEffects empties the active effect layer.
func (p *Painter) BeginEffects() {
	if p.effects != nil {
		p.effects.Clear()
	}
}

// DrawEffect paints fx at its current progress on the effect layer.
func (p *Painter) DrawEffect(fx effect.Effect) {
	if p.effects != nil {
		p.drawEffect(p.effects, fx)
	}
}

// Rasterize renders fx alone onto a new transparent full-size image.
func (p *Painter) Rasterize(fx effect.Effect) (aging.Snapshot, error) {
	if p.width == 0 || p.height == 0 {
		return nil, errNoSurface
	}
	img := ebiten.NewImage(p.width, p.height)
	p.drawEffect(img, fx)
	return &snapshot{img: img}, nil
}

// Present draws the layer stack onto dst.
func (p *Painter) Present(dst *ebiten.Image) {
	if p.background == nil {
		return
	}
	for _, l := range []*ebiten.Image{p.background, p.aging, p.effects, p.dust} {
		dst.DrawImage(l, nil)
	}
}

// Capture returns the composited frame. It must be called from the game
// loop, where pixels can be read back.
func (p *Painter) Capture() (image.Image, error) {
	if p.background == nil {
		return nil, errNoSurface
	}
	frame := ebiten.NewImage(p.width, p.height)
	defer frame.Deallocate()
	p.Present(frame)

	out := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	frame.ReadPixels(out.Pix)
	return out, nil
}
