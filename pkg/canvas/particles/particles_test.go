package particles

import (
	"math"
	"math/rand"
	"testing"
)

func inBounds(p Particle, w, h float64) bool {
	return p.X >= -p.Radius && p.X <= w+p.Radius && p.Y >= -p.Radius && p.Y <= h+p.Radius
}

func TestLayer_ResetScattersWithinBounds(t *testing.T) {
	l := NewLayer(DefaultCount)
	l.Reset(640, 480, rand.New(rand.NewSource(1)))
	if l.Len() != DefaultCount {
		t.Fatalf("Len() = %d, want %d", l.Len(), DefaultCount)
	}
	for i, p := range l.Particles() {
		if p.X < 0 || p.X > 640 || p.Y < 0 || p.Y > 480 {
			t.Errorf("particle %d at (%v, %v) outside 640x480", i, p.X, p.Y)
		}
	}
}

func TestLayer_UpdateWraps(t *testing.T) {
	l := NewLayer(DefaultCount)
	l.Reset(200, 100, rand.New(rand.NewSource(2)))
	for step := 0; step < 5000; step++ {
		l.Update()
		for i, p := range l.Particles() {
			if !inBounds(p, 200, 100) {
				t.Fatalf("step %d: particle %d at (%v, %v) escaped", step, i, p.X, p.Y)
			}
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, r, dim, want float64
	}{
		{50, 2, 100, 50},
		{-2, 2, 100, -2},
		{-2.1, 2, 100, 102},
		{102.1, 2, 100, -2},
	}
	for _, tt := range tests {
		if got := wrap(tt.v, tt.r, tt.dim); got != tt.want {
			t.Errorf("wrap(%v, %v, %v) = %v, want %v", tt.v, tt.r, tt.dim, got, tt.want)
		}
	}
}

func TestLayer_ResetToNewBounds(t *testing.T) {
	l := NewLayer(DefaultCount)
	rng := rand.New(rand.NewSource(3))
	l.Reset(1920, 1080, rng)
	l.Reset(300, 200, rng)
	for i, p := range l.Particles() {
		if !inBounds(p, 300, 200) {
			t.Errorf("particle %d at (%v, %v) outside resized bounds", i, p.X, p.Y)
		}
	}
}

func TestParticle_Brightness(t *testing.T) {
	p := Particle{Opacity: 0.5}
	tests := []struct {
		phase, want float64
	}{
		{0, 0.3},
		{math.Pi / 2, 0.5},
		{3 * math.Pi / 2, 0.1},
	}
	for _, tt := range tests {
		p.Phase = tt.phase
		if got := p.Brightness(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Brightness(phase=%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

func TestLayer_SuppressedOutsideHost(t *testing.T) {
	l := NewLayer(10)
	l.Reset(100, 100, rand.New(rand.NewSource(4)))
	before := append([]Particle(nil), l.Particles()...)
	l.SetHost(false)
	l.Update()
	if l.Enabled() {
		t.Error("Enabled() = true after SetHost(false)")
	}
	for i, p := range l.Particles() {
		if p != before[i] {
			t.Fatalf("particle %d moved while suppressed", i)
		}
	}
}
