// Package effect builds the declarative geometry of the thirteen generative
// effects and tracks their animation progress.
//
// An Effect is created once by Generate. Its geometry never changes after
// that; only its progress scalar moves, and only upward.
package effect

import (
	"fmt"
	"math"

	"collectivecanvas/pkg/engine/geom"
)

// Kind identifies one of the thirteen effect variants.
type Kind int

const (
	KindSpiral Kind = iota
	KindBurst
	KindBolt
	KindSwirl
	KindFireworks
	KindAurora
	KindPlasma
	KindCrystal
	KindVortex
	KindSplash
	KindBeam
	KindTree
	KindRipple

	kindCount
)

var kindNames = [kindCount]string{
	KindSpiral:    "neonSpiral",
	KindBurst:     "starBurst",
	KindBolt:      "lightningBolt",
	KindSwirl:     "galaxySwirl",
	KindFireworks: "fireworks",
	KindAurora:    "aurora",
	KindPlasma:    "plasma",
	KindCrystal:   "crystalline",
	KindVortex:    "vortex",
	KindSplash:    "paintSplash",
	KindBeam:      "laserBeam",
	KindTree:      "fractalTree",
	KindRipple:    "waveRipple",
}

// Per-tick progress increments.
var kindSpeeds = [kindCount]float64{
	KindSpiral:    0.02,
	KindBurst:     0.03,
	KindBolt:      0.05,
	KindSwirl:     0.025,
	KindFireworks: 0.04,
	KindAurora:    0.03,
	KindPlasma:    0.035,
	KindCrystal:   0.04,
	KindVortex:    0.03,
	KindSplash:    0.045,
	KindBeam:      0.06,
	KindTree:      0.025,
	KindRipple:    0.04,
}

// String returns the kind's wire name.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Speed returns the per-tick progress increment of the kind.
func (k Kind) Speed() float64 {
	return kindSpeeds[k]
}

// MaxTicks bounds the number of ticks an effect of this kind needs to reach
// full progress. The extra tick absorbs float accumulation error.
func (k Kind) MaxTicks() int {
	return int(math.Ceil(1/k.Speed())) + 1
}

// Kinds returns all kinds in cycling order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves a wire name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Effect is one animated shape triggered by a single submission. The set of
// implementations is closed: one struct per Kind.
type Effect interface {
	Kind() Kind
	Color() geom.RGB
	Progress() float64
	// Elements is the number of sub-elements revealed over the animation.
	Elements() int

	base() *Base
}

// Base carries the fields common to every kind.
type Base struct {
	kind     Kind
	color    geom.RGB
	progress float64
	speed    float64
}

func newBase(kind Kind, c geom.RGB) Base {
	return Base{kind: kind, color: c, speed: kind.Speed()}
}

func (b *Base) Kind() Kind        { return b.kind }
func (b *Base) Color() geom.RGB   { return b.color }
func (b *Base) Progress() float64 { return b.progress }
func (b *Base) Speed() float64    { return b.speed }
func (b *Base) base() *Base       { return b }

// Advance moves the effect forward by one tick and reports whether it has
// reached full progress.
func Advance(e Effect) bool {
	b := e.base()
	b.progress += b.speed
	return b.progress >= 1
}

// Done reports whether the effect has reached full progress.
func Done(e Effect) bool {
	return e.Progress() >= 1
}

// DrawProgress is the progress to render at, clamped to [0,1].
func DrawProgress(e Effect) float64 {
	return geom.Clamp01(e.Progress())
}

// Spiral is a neon spiral: polar points with linearly growing radius.
type Spiral struct {
	Base
	Points []geom.Point
}

func (s *Spiral) Elements() int { return len(s.Points) }

// Burst is a star burst of rays from a common centre.
type Burst struct {
	Base
	Center geom.Point
	Rays   []geom.Point // ray end points
}

func (s *Burst) Elements() int { return len(s.Rays) }

// Bolt is a lightning bolt polyline.
type Bolt struct {
	Base
	Points []geom.Point
}

func (s *Bolt) Elements() int { return len(s.Points) }

// Swirl is a three-armed galaxy spiral.
type Swirl struct {
	Base
	Center geom.Point
	Arms   [][]geom.Point
}

func (s *Swirl) Elements() int {
	n := 0
	for _, arm := range s.Arms {
		n += len(arm)
	}
	return n
}

// Spark is one fireworks streak.
type Spark struct {
	End         geom.Point
	Width       float64
	SparkleSize float64
}

// Fireworks is a burst of streaks ending in sparkles.
type Fireworks struct {
	Base
	Center    geom.Point
	Particles []Spark
}

func (s *Fireworks) Elements() int { return len(s.Particles) }

// Wave is one aurora band.
type Wave struct {
	StartY float64
	Points []geom.Point
}

// Aurora is a stack of sinusoidal bands spanning the surface width.
type Aurora struct {
	Base
	Waves []Wave
}

func (s *Aurora) Elements() int { return len(s.Waves) }

// Blob is a soft plasma disc.
type Blob struct {
	Pos  geom.Point
	Size float64
}

// Plasma is a cluster of radial-gradient blobs.
type Plasma struct {
	Base
	Center geom.Point
	Blobs  []Blob
}

func (s *Plasma) Elements() int { return len(s.Blobs) }

// Layer is one crystal polygon.
type Layer struct {
	Points []geom.Point
	Radius float64
}

// Crystal is a set of concentric polygons.
type Crystal struct {
	Base
	Center geom.Point
	Layers []Layer
}

func (s *Crystal) Elements() int { return len(s.Layers) }

// Dot is one vortex particle.
type Dot struct {
	Pos  geom.Point
	Size float64
}

// Vortex is an inward spiral of shrinking dots.
type Vortex struct {
	Base
	Center    geom.Point
	Particles []Dot
}

func (s *Vortex) Elements() int { return len(s.Particles) }

// Drop is one paint drop; Drip is zero when the drop does not drip.
type Drop struct {
	Pos  geom.Point
	Size float64
	Drip float64
}

// Splash is a scatter of paint drops.
type Splash struct {
	Base
	Center geom.Point
	Drops  []Drop
}

func (s *Splash) Elements() int { return len(s.Drops) }

// Beam is a single laser line.
type Beam struct {
	Base
	Start, End geom.Point
	Width      float64
}

func (s *Beam) Elements() int { return 1 }

// beamDelay is the fraction of the animation before the beam appears.
const beamDelay = 0.1

// Extent returns how far along the beam is drawn at the given progress.
func (s *Beam) Extent(progress float64) float64 {
	if progress < beamDelay {
		return 0
	}
	return geom.Clamp01((progress - beamDelay) / (1 - beamDelay))
}

// Branch is one fractal tree segment.
type Branch struct {
	Start, End geom.Point
	Width      float64
	Depth      int
}

// Tree is a recursively branching fractal tree.
type Tree struct {
	Base
	Branches []Branch
}

func (s *Tree) Elements() int { return len(s.Branches) }

// Ring is one ripple circle.
type Ring struct {
	Radius float64
	Alpha  float64
}

// Ripple is a set of concentric fading rings.
type Ripple struct {
	Base
	Center geom.Point
	Rings  []Ring
}

func (s *Ripple) Elements() int { return len(s.Rings) }
