package effect

import (
	"errors"
	"math"
	"unicode/utf8"

	"collectivecanvas/pkg/engine/geom"
)

var (
	// ErrSurfaceTooSmall means the surface cannot hold the effect inside its
	// margins. The caller skips the submission.
	ErrSurfaceTooSmall = errors.New("effect: surface too small for effect")
	// ErrEmptyToken is returned for a token with no characters.
	ErrEmptyToken = errors.New("effect: empty token")
	// ErrUnknownKind is returned by ParseKind for an unrecognised name.
	ErrUnknownKind = errors.New("effect: unknown kind")
)

// Rand is the random source used for layout. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Tree depth cap; branches at depth < maxTreeDepth spawn children.
const maxTreeDepth = 4

// Insets are the distances from each surface edge that an anchor point must
// keep so the effect is not clipped.
type Insets struct {
	Left, Top, Right, Bottom float64
}

func uniform(m float64) Insets {
	return Insets{m, m, m, m}
}

// Margin returns the placement insets of a kind for a token of n characters.
// Each inset is the farthest the kind's geometry, including dot and drop
// sizes, can reach from its anchor.
func Margin(kind Kind, n int) Insets {
	switch kind {
	case KindSpiral:
		return uniform(spiralRadius(n))
	case KindBurst:
		return uniform(250)
	case KindBolt:
		return uniform(50)
	case KindSwirl:
		return uniform(120)
	case KindFireworks:
		return uniform(154)
	case KindAurora:
		waves := auroraWaves(n)
		return Insets{Top: 30, Bottom: float64(waves-1)*60 + 80}
	case KindPlasma:
		return uniform(100)
	case KindCrystal:
		return uniform(105)
	case KindVortex:
		return uniform(126)
	case KindSplash:
		in := uniform(131)
		in.Bottom = 120 + maxDrip
		return in
	case KindBeam:
		return uniform(beamInset)
	case KindTree:
		return treeInsets(n)
	case KindRipple:
		return uniform(rippleOuterRadius(n))
	}
	panic("effect: unhandled kind " + kind.String())
}

// place draws a uniform point inside the insets.
func place(rng Rand, w, h float64, in Insets) (geom.Point, error) {
	spanX := w - in.Left - in.Right
	spanY := h - in.Top - in.Bottom
	if spanX <= 0 || spanY <= 0 {
		return geom.Point{}, ErrSurfaceTooSmall
	}
	return geom.Point{
		X: in.Left + rng.Float64()*spanX,
		Y: in.Top + rng.Float64()*spanY,
	}, nil
}

// Generate builds an effect of the given kind for token, laid out at random
// on a width×height surface.
func Generate(kind Kind, token string, c geom.RGB, width, height int, rng Rand) (Effect, error) {
	n := utf8.RuneCountInString(token)
	if n == 0 {
		return nil, ErrEmptyToken
	}
	w, h := float64(width), float64(height)
	anchor, err := place(rng, w, h, Margin(kind, n))
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindSpiral:
		return newSpiral(c, anchor, n), nil
	case KindBurst:
		return newBurst(c, anchor, n, rng), nil
	case KindBolt:
		end, err := place(rng, w, h, Margin(kind, n))
		if err != nil {
			return nil, err
		}
		return newBolt(c, anchor, end, n, rng), nil
	case KindSwirl:
		return newSwirl(c, anchor, n), nil
	case KindFireworks:
		return newFireworks(c, anchor, n, rng), nil
	case KindAurora:
		return newAurora(c, anchor.Y, w, n), nil
	case KindPlasma:
		return newPlasma(c, anchor, n, rng), nil
	case KindCrystal:
		return newCrystal(c, anchor), nil
	case KindVortex:
		return newVortex(c, anchor, n), nil
	case KindSplash:
		return newSplash(c, anchor, n, rng), nil
	case KindBeam:
		b, err := newBeam(c, w, h, n, rng)
		if err != nil {
			return nil, err
		}
		return b, nil
	case KindTree:
		return newTree(c, anchor, n, rng), nil
	case KindRipple:
		return newRipple(c, anchor, n), nil
	}
	panic("effect: unhandled kind " + kind.String())
}

func spiralRadius(n int) float64 {
	return float64(n*20-1) * 2
}

func newSpiral(c geom.RGB, center geom.Point, n int) *Spiral {
	count := n * 20
	s := &Spiral{Base: newBase(KindSpiral, c), Points: make([]geom.Point, count)}
	for i := range s.Points {
		s.Points[i] = center.Polar(float64(i)*0.3, float64(i)*2)
	}
	return s
}

func newBurst(c geom.RGB, center geom.Point, n int, rng Rand) *Burst {
	rays := 8 + n
	s := &Burst{Base: newBase(KindBurst, c), Center: center, Rays: make([]geom.Point, rays)}
	for i := range s.Rays {
		angle := 2 * math.Pi * float64(i) / float64(rays)
		length := 100 + rng.Float64()*150
		s.Rays[i] = center.Polar(angle, length)
	}
	return s
}

func newBolt(c geom.RGB, start, end geom.Point, n int, rng Rand) *Bolt {
	segments := 8 + n
	s := &Bolt{Base: newBase(KindBolt, c), Points: make([]geom.Point, segments+1)}
	for i := range s.Points {
		p := start.Lerp(end, float64(i)/float64(segments))
		p.X += (rng.Float64() - 0.5) * 100
		p.Y += (rng.Float64() - 0.5) * 100
		s.Points[i] = p
	}
	return s
}

func newSwirl(c geom.RGB, center geom.Point, n int) *Swirl {
	perArm := n * 15
	s := &Swirl{Base: newBase(KindSwirl, c), Center: center, Arms: make([][]geom.Point, 3)}
	for arm := range s.Arms {
		points := make([]geom.Point, perArm)
		for i := range points {
			t := float64(i) / float64(perArm)
			angle := float64(arm)*(2*math.Pi/3) + t*4*math.Pi
			points[i] = center.Polar(angle, t*120)
		}
		s.Arms[arm] = points
	}
	return s
}

func newFireworks(c geom.RGB, center geom.Point, n int, rng Rand) *Fireworks {
	s := &Fireworks{Base: newBase(KindFireworks, c), Center: center, Particles: make([]Spark, n*15)}
	for i := range s.Particles {
		angle := rng.Float64() * 2 * math.Pi
		length := 50 + rng.Float64()*100
		s.Particles[i] = Spark{
			End:         center.Polar(angle, length),
			Width:       2 + rng.Float64()*3,
			SparkleSize: 2 + rng.Float64()*2,
		}
	}
	return s
}

func auroraWaves(n int) int {
	return 3 + n/3
}

func newAurora(c geom.RGB, startY, width float64, n int) *Aurora {
	s := &Aurora{Base: newBase(KindAurora, c), Waves: make([]Wave, auroraWaves(n))}
	for w := range s.Waves {
		baseY := startY + float64(w)*60
		var points []geom.Point
		for x := 0.0; x <= width; x += 10 {
			points = append(points, geom.Point{X: x, Y: baseY + math.Sin(x*0.01)*30})
		}
		s.Waves[w] = Wave{StartY: baseY, Points: points}
	}
	return s
}

func newPlasma(c geom.RGB, center geom.Point, n int, rng Rand) *Plasma {
	s := &Plasma{Base: newBase(KindPlasma, c), Center: center, Blobs: make([]Blob, n*8)}
	for i := range s.Blobs {
		angle := rng.Float64() * 2 * math.Pi
		distance := rng.Float64() * 80
		s.Blobs[i] = Blob{
			Pos:  center.Polar(angle, distance),
			Size: 5 + rng.Float64()*15,
		}
	}
	return s
}

func newCrystal(c geom.RGB, center geom.Point) *Crystal {
	s := &Crystal{Base: newBase(KindCrystal, c), Center: center, Layers: make([]Layer, 4)}
	for l := range s.Layers {
		sides := 6 + l*2
		radius := 30 + float64(l)*25
		points := make([]geom.Point, sides)
		for i := range points {
			points[i] = center.Polar(2*math.Pi*float64(i)/float64(sides), radius)
		}
		s.Layers[l] = Layer{Points: points, Radius: radius}
	}
	return s
}

func newVortex(c geom.RGB, center geom.Point, n int) *Vortex {
	count := n * 25
	s := &Vortex{Base: newBase(KindVortex, c), Center: center, Particles: make([]Dot, count)}
	for i := range s.Particles {
		t := float64(i) / float64(count)
		s.Particles[i] = Dot{
			Pos:  center.Polar(t*8*math.Pi, (1-t)*120),
			Size: 2 + (1-t)*4,
		}
	}
	return s
}

// maxDrip is the longest drip a splash drop can run below its centre.
const maxDrip = 30

func newSplash(c geom.RGB, center geom.Point, n int, rng Rand) *Splash {
	s := &Splash{Base: newBase(KindSplash, c), Center: center, Drops: make([]Drop, n*12)}
	for i := range s.Drops {
		angle := rng.Float64() * 2 * math.Pi
		distance := rng.Float64() * 120
		d := Drop{
			Pos:  center.Polar(angle, distance),
			Size: 3 + rng.Float64()*8,
		}
		if rng.Float64() < 0.3 {
			d.Drip = 10 + rng.Float64()*(maxDrip-10)
		}
		s.Drops[i] = d
	}
	return s
}

const (
	// beamAttempts is how many anchors are tried before the beam is skipped.
	beamAttempts = 8
	// beamHeadings is how many evenly spaced headings are tried per anchor.
	beamHeadings = 72
	beamInset    = 50
)

func beamLength(n int) float64 {
	return 300 + float64(n)*20
}

// newBeam places the beam so both ends stay inside the beam insets.
func newBeam(c geom.RGB, w, h float64, n int, rng Rand) (*Beam, error) {
	in := uniform(beamInset)
	length := beamLength(n)
	if math.Hypot(w-in.Left-in.Right, h-in.Top-in.Bottom) < length {
		return nil, ErrSurfaceTooSmall
	}
	inside := func(p geom.Point) bool {
		return p.X >= in.Left && p.X <= w-in.Right && p.Y >= in.Top && p.Y <= h-in.Bottom
	}
	for range beamAttempts {
		start, err := place(rng, w, h, in)
		if err != nil {
			return nil, err
		}
		offset := rng.Float64() * 2 * math.Pi
		for i := range beamHeadings {
			end := start.Polar(offset+2*math.Pi*float64(i)/beamHeadings, length)
			if !inside(end) {
				continue
			}
			return &Beam{
				Base:  newBase(KindBeam, c),
				Start: start,
				End:   end,
				Width: 8 + rng.Float64()*6,
			}, nil
		}
	}
	return nil, ErrSurfaceTooSmall
}

// Tree growth bounds.
const (
	treeTrunkJitter = 0.5
	treeMaxDecay    = 0.9
)

func treeTrunk(n int) float64 {
	return 60 + float64(n)*3
}

// treeInsets bounds how far a tree can reach from its root. The trunk leans
// at most treeTrunkJitter off vertical; every later branch may point anywhere.
func treeInsets(n int) Insets {
	trunk := treeTrunk(n)
	var rest float64
	length := trunk
	for range maxTreeDepth {
		length *= treeMaxDecay
		rest += length
	}
	side := trunk*math.Sin(treeTrunkJitter) + rest
	return Insets{
		Left:   side,
		Top:    trunk + rest,
		Right:  side,
		Bottom: math.Max(0, rest-trunk*math.Cos(treeTrunkJitter)),
	}
}

func newTree(c geom.RGB, root geom.Point, n int, rng Rand) *Tree {
	s := &Tree{Base: newBase(KindTree, c)}
	var grow func(from geom.Point, angle, length float64, depth int, width float64)
	grow = func(from geom.Point, angle, length float64, depth int, width float64) {
		if depth > maxTreeDepth {
			return
		}
		to := from.Polar(angle, length)
		s.Branches = append(s.Branches, Branch{Start: from, End: to, Width: width, Depth: depth})
		if depth == maxTreeDepth {
			return
		}
		children := 2 + rng.Intn(2)
		for range children {
			grow(to,
				angle+(rng.Float64()-0.5)*math.Pi/2,
				length*(0.6+rng.Float64()*(treeMaxDecay-0.6)),
				depth+1,
				math.Max(1, width-1))
		}
	}
	grow(root, -math.Pi/2+(rng.Float64()*2-1)*treeTrunkJitter, treeTrunk(n), 0, 5)
	return s
}

func rippleRings(n int) int {
	return 5 + n
}

func rippleOuterRadius(n int) float64 {
	return float64(rippleRings(n)-1)*25 + 15
}

func newRipple(c geom.RGB, center geom.Point, n int) *Ripple {
	count := rippleRings(n)
	s := &Ripple{Base: newBase(KindRipple, c), Center: center, Rings: make([]Ring, count)}
	for r := range s.Rings {
		s.Rings[r] = Ring{
			Radius: float64(r)*25 + 15,
			Alpha:  1 - float64(r)/float64(count),
		}
	}
	return s
}

// Cycler hands out kinds in rotation, starting from a random kind.
type Cycler struct {
	next Kind
}

// NewCycler starts the rotation at a random kind.
func NewCycler(rng Rand) *Cycler {
	return &Cycler{next: Kind(rng.Intn(int(kindCount)))}
}

// Next returns the next kind in the rotation.
func (c *Cycler) Next() Kind {
	k := c.next
	c.next = (c.next + 1) % kindCount
	return k
}
