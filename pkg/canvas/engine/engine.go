// Package engine is the frame driver of the canvas. It owns the active
// effects, the aging pool and the ambient particles, and sequences them
// once per display refresh.
//
// Everything except Submit runs on the display thread. Submit only pushes
// onto a locked queue that the next tick drains.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"time"

	"collectivecanvas/pkg/canvas/aging"
	"collectivecanvas/pkg/canvas/effect"
	"collectivecanvas/pkg/canvas/history"
	"collectivecanvas/pkg/canvas/particles"
	"collectivecanvas/pkg/canvas/submission"
	"collectivecanvas/pkg/engine/clock"
	"collectivecanvas/pkg/engine/geom"
	"collectivecanvas/pkg/engine/terminal"
)

var (
	// ErrNotInitialized is returned by operations that need a surface.
	ErrNotInitialized = errors.New("engine: not initialized")
	// ErrDisposed is returned after Dispose.
	ErrDisposed = errors.New("engine: disposed")
)

// Painter draws onto the layered surface. The engine calls it only from
// Init, Tick and the host controls, always on the display thread.
type Painter interface {
	// Resize reallocates every layer at the new size.
	Resize(width, height int)
	// Clear repaints the background and empties the aging and effect layers.
	Clear()
	// DrawParticles redraws the ambient overlay.
	DrawParticles(ps []particles.Particle)
	// Recomposite redraws the aging layer, one blur setting per group.
	Recomposite(groups []aging.Group)
	// BeginEffects empties the active effect layer.
	BeginEffects()
	// DrawEffect paints e at its current progress on the effect layer.
	DrawEffect(e effect.Effect)
	// Rasterize renders a completed effect alone onto a new full-size image.
	Rasterize(e effect.Effect) (aging.Snapshot, error)
	// Capture returns the composited frame.
	Capture() (image.Image, error)
}

// Stats is a snapshot of the engine counters for the HUD.
type Stats struct {
	Active      int
	Aging       int
	Submissions int
	Queued      int
	Paused      bool
}

// Engine drives one canvas surface.
type Engine struct {
	painter Painter
	opts    Options
	log     *terminal.Logger
	clock   clock.TimeProvider
	rng     *rand.Rand
	cycler  *effect.Cycler

	width, height int
	active        []effect.Effect
	pool          *aging.Pool
	dust          *particles.Layer
	particleTick  *clock.Throttle
	agingTick     *clock.Throttle

	queue    *submission.Queue
	seen     *submission.Deduper
	received int
	paused   bool

	exports  chan Export
	exporter exporter

	initialized bool
	disposed    bool
}

// New creates an engine drawing through painter. Call Init before Tick.
func New(painter Painter, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		painter:      painter,
		opts:         o,
		log:          o.Logger,
		clock:        o.Clock,
		rng:          o.Rand,
		cycler:       effect.NewCycler(o.Rand),
		dust:         particles.NewLayer(o.Particles),
		particleTick: clock.NewThrottle(o.ParticleInterval),
		agingTick:    clock.NewThrottle(o.AgingInterval),
		queue:        submission.NewQueue(),
		seen:         submission.NewDeduper(),
		exports:      make(chan Export, 4),
	}
	e.dust.SetHost(o.Host)
	return e
}

// CanvasID returns the canvas this engine renders.
func (e *Engine) CanvasID() string {
	return e.opts.CanvasID
}

// Size returns the surface dimensions.
func (e *Engine) Size() (int, int) {
	return e.width, e.height
}

// Init allocates the surface and marks every stored submission as already
// drawn so a restart does not replay them.
func (e *Engine) Init(ctx context.Context, width, height int) error {
	if e.disposed {
		return ErrDisposed
	}
	e.width, e.height = width, height
	e.pool = aging.NewPool(e.opts.Aging, width, height, e.rng)
	e.dust.Reset(width, height, e.rng)
	e.painter.Resize(width, height)
	e.painter.Clear()

	if e.opts.History != nil {
		n, err := history.Replay(ctx, e.opts.History, e.opts.CanvasID, e.seen)
		if err != nil {
			return fmt.Errorf("engine: replaying history: %w", err)
		}
		e.received = n
		if n > 0 {
			e.log.Infof("Skipping %d stored submissions for canvas %s", n, e.opts.CanvasID)
		}
	}
	e.initialized = true
	e.log.Debugf("Engine initialized at %dx%d", width, height)
	return nil
}

// Tick runs one frame: particles, aging, pending submissions, then the
// active effects, which are always drawn last.
func (e *Engine) Tick() {
	if !e.initialized || e.disposed {
		return
	}
	now := e.clock.Now()

	if e.dust.Enabled() && e.particleTick.Ready(now) {
		e.dust.Update()
		e.painter.DrawParticles(e.dust.Particles())
	}

	if e.agingTick.Ready(now) && e.pool.Update(now) {
		e.painter.Recomposite(e.pool.Groups())
	}

	for _, s := range e.queue.DrainReady(now, e.opts.Settle) {
		e.accept(s)
	}

	e.painter.BeginEffects()
	kept := e.active[:0]
	for _, fx := range e.active {
		done := effect.Advance(fx)
		e.painter.DrawEffect(fx)
		if done {
			e.complete(fx, now)
			continue
		}
		kept = append(kept, fx)
	}
	for i := len(kept); i < len(e.active); i++ {
		e.active[i] = nil
	}
	e.active = kept
}

// complete moves a finished effect into the aging pool. It was drawn at full
// progress this tick; the next tick's recomposition takes over.
func (e *Engine) complete(fx effect.Effect, now time.Time) {
	snap, err := e.painter.Rasterize(fx)
	if err != nil {
		e.log.Warnf("Could not rasterize %v: %v", fx.Kind(), err)
		return
	}
	if _, err := e.pool.Add(snap, now); err != nil {
		e.log.Warnf("Dropping completed %v: %v", fx.Kind(), err)
		return
	}
	e.agingTick.Reset()
	e.log.Debugf("Completed %v, %d aging", fx.Kind(), e.pool.Len())
}

func (e *Engine) accept(s submission.Submission) {
	if e.seen.Seen(s.ID) {
		e.log.Debugf("Ignoring duplicate submission %s", s.ID)
		return
	}
	e.received++
	if e.paused {
		e.log.Debugf("Paused, not drawing %q", s.Token)
		return
	}
	// Failures are logged by EnqueueKind.
	_ = e.Enqueue(s.Token, s.Color)
}

// Submit hands a submission to the engine. It is safe to call from any
// goroutine; the submission is drawn on the first tick after the settle
// delay.
func (e *Engine) Submit(s submission.Submission) {
	e.queue.Push(s, e.clock.Now())
}

// Enqueue creates an effect of the next kind in rotation.
func (e *Engine) Enqueue(token string, c geom.RGB) error {
	return e.EnqueueKind(e.cycler.Next(), token, c)
}

// EnqueueKind creates an effect of the given kind and starts animating it.
func (e *Engine) EnqueueKind(kind effect.Kind, token string, c geom.RGB) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	fx, err := effect.Generate(kind, token, c, e.width, e.height, e.rng)
	if err != nil {
		e.log.Warnf("Skipping %v for %q on %dx%d: %v", kind, token, e.width, e.height, err)
		return err
	}
	e.active = append(e.active, fx)
	e.log.Debugf("Creating %v for %q", kind, token)
	return nil
}

// Pause stops new submissions from being drawn. Running effects finish.
func (e *Engine) Pause() {
	e.paused = true
}

// Resume undoes Pause.
func (e *Engine) Resume() {
	e.paused = false
}

// TogglePause flips the paused state and returns the new value.
func (e *Engine) TogglePause() bool {
	e.paused = !e.paused
	return e.paused
}

// Paused reports whether new submissions are being dropped.
func (e *Engine) Paused() bool {
	return e.paused
}

// SoftClear discards every active effect and aging member and repaints the
// background. Submission history is kept.
func (e *Engine) SoftClear() {
	e.active = nil
	if e.pool != nil {
		e.pool.Clear()
	}
	e.agingTick.Reset()
	e.painter.Clear()
	e.log.Infof("Canvas cleared")
}

// HardReset clears the canvas and forgets every submission, stored ones
// included.
func (e *Engine) HardReset(ctx context.Context) error {
	e.SoftClear()
	e.queue.Clear()
	e.seen.Reset()
	e.received = 0
	if e.opts.History != nil {
		if err := e.opts.History.Clear(ctx, e.opts.CanvasID); err != nil {
			return fmt.Errorf("engine: clearing history: %w", err)
		}
	}
	e.log.Infof("Canvas %s reset", e.opts.CanvasID)
	return nil
}

// Resize adopts new surface dimensions. Aging snapshots no longer fit and
// are dropped; particles are scattered over the new bounds.
func (e *Engine) Resize(width, height int) {
	if !e.initialized || (width == e.width && height == e.height) {
		return
	}
	e.width, e.height = width, height
	e.painter.Resize(width, height)
	e.pool.Resize(width, height)
	e.dust.Reset(width, height, e.rng)
	e.particleTick.Reset()
	e.agingTick.Reset()
	e.painter.Clear()
	e.log.Debugf("Resized to %dx%d", width, height)
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		Active:      len(e.active),
		Submissions: e.received,
		Queued:      e.queue.Len(),
		Paused:      e.paused,
	}
	if e.pool != nil {
		s.Aging = e.pool.Len()
	}
	return s
}

// Dispose releases every snapshot and waits for pending exports. The
// engine cannot be used afterwards.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.active = nil
	if e.pool != nil {
		e.pool.Clear()
	}
	e.exporter.wait()
	close(e.exports)
}
