// Package aging keeps completed effects as rasterized snapshots that slowly
// blur into a background "gas cloud" before they are purged.
//
// Blur state is never accumulated: every evaluation recomputes it from the
// time elapsed since completion, so a late or skipped update cannot drift.
package aging

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrSizeMismatch is returned when a snapshot does not match the surface
// size the pool was created for.
var ErrSizeMismatch = errors.New("aging: snapshot size does not match surface")

// Snapshot is the rasterized image of a completed effect. The pool never
// modifies it; Release is called once when it leaves the pool.
type Snapshot interface {
	Size() (width, height int)
	Release()
}

// Rand supplies the per-member random ramp and blur cap.
type Rand interface {
	Float64() float64
}

// Config holds the fixed tuning of the pool.
type Config struct {
	BlurDelay  time.Duration // time a member stays sharp after completion
	RampMin    time.Duration
	RampMax    time.Duration
	MaxBlurMin float64 // pixels
	MaxBlurMax float64
	MaxMembers int
	Retention  time.Duration // total lifetime regardless of blur state
	Cadence    time.Duration // forced recomposition interval
	Threshold  float64       // blur radius change that forces recomposition
}

// DefaultConfig returns the tuning used by the host display.
func DefaultConfig() Config {
	return Config{
		BlurDelay:  3 * time.Second,
		RampMin:    8 * time.Second,
		RampMax:    14 * time.Second,
		MaxBlurMin: 4,
		MaxBlurMax: 10,
		MaxMembers: 48,
		Retention:  5 * time.Minute,
		Cadence:    2 * time.Second,
		Threshold:  0.5,
	}
}

// Phase is the lifecycle stage of a member.
type Phase int

const (
	PhaseFresh Phase = iota
	PhaseBlurring
	PhaseCapped
	PhasePurged
)

func (p Phase) String() string {
	switch p {
	case PhaseFresh:
		return "fresh"
	case PhaseBlurring:
		return "blurring"
	case PhaseCapped:
		return "capped"
	case PhasePurged:
		return "purged"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// EaseInOutQuad is the quadratic ease used for the blur ramp.
func EaseInOutQuad(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// BlurProgress returns the blur progress in [0,1] of a member that completed
// elapsed ago: 0 during the delay, eased over the ramp, 1 afterwards.
func BlurProgress(elapsed, delay, ramp time.Duration) float64 {
	if elapsed < delay {
		return 0
	}
	if ramp <= 0 || elapsed >= delay+ramp {
		return 1
	}
	return EaseInOutQuad(float64(elapsed-delay) / float64(ramp))
}

// Member is one completed effect in the pool.
type Member struct {
	Snapshot    Snapshot
	CompletedAt time.Time
	MaxBlur     float64
	Ramp        time.Duration

	blur        float64
	drawnRadius float64
}

// Blur returns the blur progress computed at the last update.
func (m *Member) Blur() float64 {
	return m.blur
}

// Radius returns the current blur radius in pixels.
func (m *Member) Radius() float64 {
	return m.blur * m.MaxBlur
}

// Level is the rounded blur radius used to batch filter changes.
func (m *Member) Level() int {
	return int(math.Round(m.Radius()))
}

// Group is a set of members drawn under one blur setting.
type Group struct {
	Level   int
	Members []*Member
}

// Pool is the bounded set of aging members, kept oldest first.
type Pool struct {
	cfg    Config
	rng    Rand
	width  int
	height int

	members       []*Member
	dirty         bool
	lastComposite time.Time
}

// NewPool creates an empty pool for a width×height surface.
func NewPool(cfg Config, width, height int, rng Rand) *Pool {
	return &Pool{cfg: cfg, rng: rng, width: width, height: height}
}

// Config returns the pool's tuning.
func (p *Pool) Config() Config {
	return p.cfg
}

// Len returns the number of members.
func (p *Pool) Len() int {
	return len(p.members)
}

// Members returns the members, oldest first.
func (p *Pool) Members() []*Member {
	out := make([]*Member, len(p.members))
	copy(out, p.members)
	return out
}

// Add inserts a freshly completed snapshot and evicts the oldest members
// while the pool is over its cap.
func (p *Pool) Add(s Snapshot, now time.Time) (*Member, error) {
	if w, h := s.Size(); w != p.width || h != p.height {
		s.Release()
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, w, h, p.width, p.height)
	}
	m := &Member{
		Snapshot:    s,
		CompletedAt: now,
		MaxBlur:     p.cfg.MaxBlurMin + p.rng.Float64()*(p.cfg.MaxBlurMax-p.cfg.MaxBlurMin),
		Ramp:        p.cfg.RampMin + time.Duration(p.rng.Float64()*float64(p.cfg.RampMax-p.cfg.RampMin)),
	}
	p.members = append(p.members, m)
	for p.cfg.MaxMembers > 0 && len(p.members) > p.cfg.MaxMembers {
		p.members[0].Snapshot.Release()
		p.members[0] = nil
		p.members = p.members[1:]
	}
	p.dirty = true
	return m, nil
}

// PhaseOf returns the lifecycle stage of m at now.
func (p *Pool) PhaseOf(m *Member, now time.Time) Phase {
	elapsed := now.Sub(m.CompletedAt)
	switch {
	case elapsed >= p.cfg.Retention:
		return PhasePurged
	case elapsed < p.cfg.BlurDelay:
		return PhaseFresh
	case elapsed < p.cfg.BlurDelay+m.Ramp:
		return PhaseBlurring
	default:
		return PhaseCapped
	}
}

// Update purges expired members, recomputes blur from elapsed time and
// reports whether the pool must be recomposited. A true result marks the
// current state as composited.
func (p *Pool) Update(now time.Time) bool {
	kept := p.members[:0]
	for _, m := range p.members {
		if now.Sub(m.CompletedAt) >= p.cfg.Retention {
			m.Snapshot.Release()
			p.dirty = true
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(p.members); i++ {
		p.members[i] = nil
	}
	p.members = kept

	ramping := false
	for _, m := range p.members {
		m.blur = BlurProgress(now.Sub(m.CompletedAt), p.cfg.BlurDelay, m.Ramp)
		if math.Abs(m.Radius()-m.drawnRadius) > p.cfg.Threshold {
			p.dirty = true
		}
		// A capped member still owes one redraw if its last change was
		// below the threshold.
		if p.PhaseOf(m, now) == PhaseBlurring || m.Radius() != m.drawnRadius {
			ramping = true
		}
	}
	if ramping && p.cfg.Cadence > 0 && now.Sub(p.lastComposite) >= p.cfg.Cadence {
		p.dirty = true
	}
	if !p.dirty {
		return false
	}

	for _, m := range p.members {
		m.drawnRadius = m.Radius()
	}
	p.dirty = false
	p.lastComposite = now
	return true
}

// Groups batches the members by rounded blur level. Groups run from most
// to least blurred; members inside a group stay oldest first.
func (p *Pool) Groups() []Group {
	byLevel := make(map[int][]*Member)
	for _, m := range p.members {
		byLevel[m.Level()] = append(byLevel[m.Level()], m)
	}
	groups := make([]Group, 0, len(byLevel))
	for level, members := range byLevel {
		groups = append(groups, Group{Level: level, Members: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Level > groups[j].Level
	})
	return groups
}

// Clear releases every member.
func (p *Pool) Clear() {
	for _, m := range p.members {
		m.Snapshot.Release()
	}
	p.members = nil
	p.dirty = true
}

// Resize adopts new surface dimensions. Existing snapshots no longer match
// and are cleared; it reports whether anything changed.
func (p *Pool) Resize(width, height int) bool {
	if width == p.width && height == p.height {
		return false
	}
	p.width, p.height = width, height
	p.Clear()
	return true
}
