// Package particles implements the ambient dust drifting above the canvas.
package particles

import (
	"math"
)

// DefaultCount is the number of particles in a host display layer.
const DefaultCount = 90

// Rand is the random source used to scatter particles.
type Rand interface {
	Float64() float64
}

// Particle is one floating dust mote.
type Particle struct {
	X, Y      float64
	VX, VY    float64
	Radius    float64
	Opacity   float64
	Phase     float64
	PhaseStep float64
}

// Brightness is the particle's opacity modulated by its phase.
func (p *Particle) Brightness() float64 {
	return p.Opacity * (0.6 + 0.4*math.Sin(p.Phase))
}

// Layer is a fixed-size set of particles on a width×height surface.
type Layer struct {
	particles []Particle
	width     float64
	height    float64
	host      bool
}

// NewLayer creates a layer of count particles. Call Reset before use.
func NewLayer(count int) *Layer {
	return &Layer{particles: make([]Particle, count), host: true}
}

// Particles exposes the particle slice for drawing.
func (l *Layer) Particles() []Particle {
	return l.particles
}

// Len returns the particle count.
func (l *Layer) Len() int {
	return len(l.particles)
}

// SetHost enables or disables the layer. Outside the host view the layer
// is neither updated nor drawn.
func (l *Layer) SetHost(host bool) {
	l.host = host
}

// Enabled reports whether the layer is active.
func (l *Layer) Enabled() bool {
	return l.host && len(l.particles) > 0
}

// Reset scatters every particle within the given bounds.
func (l *Layer) Reset(width, height int, rng Rand) {
	l.width, l.height = float64(width), float64(height)
	for i := range l.particles {
		p := &l.particles[i]
		p.X = rng.Float64() * l.width
		p.Y = rng.Float64() * l.height
		p.VX = (rng.Float64() - 0.5) * 0.6
		p.VY = (rng.Float64() - 0.5) * 0.6
		p.Radius = 0.6 + rng.Float64()*1.8
		p.Opacity = 0.15 + rng.Float64()*0.35
		p.Phase = rng.Float64() * 2 * math.Pi
		p.PhaseStep = 0.02 + rng.Float64()*0.04
	}
}

// Update drifts every particle one step and wraps it at the surface edges.
func (l *Layer) Update() {
	if !l.Enabled() {
		return
	}
	for i := range l.particles {
		p := &l.particles[i]
		p.X = wrap(p.X+p.VX, p.Radius, l.width)
		p.Y = wrap(p.Y+p.VY, p.Radius, l.height)
		p.Phase = math.Mod(p.Phase+p.PhaseStep, 2*math.Pi)
	}
}

// wrap keeps v inside [-r, dim+r], re-entering from the opposite edge.
func wrap(v, r, dim float64) float64 {
	switch {
	case v < -r:
		return dim + r
	case v > dim+r:
		return -r
	}
	return v
}
