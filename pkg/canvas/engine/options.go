package engine

import (
	"math/rand"
	"time"

	"collectivecanvas/pkg/canvas/aging"
	"collectivecanvas/pkg/canvas/history"
	"collectivecanvas/pkg/canvas/particles"
	"collectivecanvas/pkg/engine/clock"
	"collectivecanvas/pkg/engine/terminal"
)

// Defaults for the throttles and the submission settle delay.
const (
	DefaultParticleInterval = 50 * time.Millisecond
	DefaultAgingInterval    = 100 * time.Millisecond
	DefaultSettle           = 100 * time.Millisecond
)

// Options configures an Engine.
type Options struct {
	CanvasID         string
	Clock            clock.TimeProvider
	Rand             *rand.Rand
	Logger           *terminal.Logger
	History          history.Store
	Aging            aging.Config
	Particles        int
	Host             bool
	ParticleInterval time.Duration
	AgingInterval    time.Duration
	Settle           time.Duration
}

func defaultOptions() Options {
	return Options{
		Clock:            clock.System{},
		Rand:             rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:           terminal.Discard(),
		Aging:            aging.DefaultConfig(),
		Particles:        particles.DefaultCount,
		Host:             true,
		ParticleInterval: DefaultParticleInterval,
		AgingInterval:    DefaultAgingInterval,
		Settle:           DefaultSettle,
	}
}

// Option customises New.
type Option func(*Options)

// WithCanvasID names the canvas, used for history and export file names.
func WithCanvasID(id string) Option { return func(o *Options) { o.CanvasID = id } }

// WithClock sets the time source for throttles, blur ramps and settling.
func WithClock(c clock.TimeProvider) Option { return func(o *Options) { o.Clock = c } }

// WithRand sets the random source used for layout.
func WithRand(r *rand.Rand) Option { return func(o *Options) { o.Rand = r } }

// WithLogger sets the logger. Default: discard.
func WithLogger(l *terminal.Logger) Option { return func(o *Options) { o.Logger = l } }

// WithHistory attaches a submission store.
func WithHistory(s history.Store) Option { return func(o *Options) { o.History = s } }

// WithAging overrides the aging pool tuning.
func WithAging(cfg aging.Config) Option { return func(o *Options) { o.Aging = cfg } }

// WithParticles sets the ambient particle count. Zero disables the layer.
func WithParticles(n int) Option { return func(o *Options) { o.Particles = n } }

// WithHost enables the host-only layers. Default: true.
func WithHost(host bool) Option { return func(o *Options) { o.Host = host } }

// WithIntervals sets the particle and aging update throttles.
func WithIntervals(particle, aging time.Duration) Option {
	return func(o *Options) {
		o.ParticleInterval = particle
		o.AgingInterval = aging
	}
}

// WithSettle sets how long a submission waits before it is drawn.
func WithSettle(d time.Duration) Option { return func(o *Options) { o.Settle = d } }
