package engine

import (
	"context"
	"errors"
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"collectivecanvas/pkg/canvas/aging"
	"collectivecanvas/pkg/canvas/effect"
	"collectivecanvas/pkg/canvas/history"
	"collectivecanvas/pkg/canvas/particles"
	"collectivecanvas/pkg/canvas/submission"
	"collectivecanvas/pkg/engine/clock"
	"collectivecanvas/pkg/engine/geom"
)

type fakeSnapshot struct {
	w, h     int
	released bool
}

func (s *fakeSnapshot) Size() (int, int) { return s.w, s.h }
func (s *fakeSnapshot) Release()         { s.released = true }

// recorder is a Painter that logs every call.
type recorder struct {
	w, h  int
	calls []string
	drawn []effect.Effect
	snaps []*fakeSnapshot
}

func (r *recorder) Resize(w, h int) {
	r.w, r.h = w, h
	r.calls = append(r.calls, "resize")
}
func (r *recorder) Clear() { r.calls = append(r.calls, "clear") }
func (r *recorder) DrawParticles(ps []particles.Particle) {
	r.calls = append(r.calls, "particles")
}
func (r *recorder) Recomposite(groups []aging.Group) { r.calls = append(r.calls, "recomposite") }
func (r *recorder) BeginEffects()                    { r.calls = append(r.calls, "begin") }
func (r *recorder) DrawEffect(e effect.Effect) {
	r.calls = append(r.calls, "draw")
	r.drawn = append(r.drawn, e)
}
func (r *recorder) Rasterize(e effect.Effect) (aging.Snapshot, error) {
	r.calls = append(r.calls, "rasterize")
	s := &fakeSnapshot{w: r.w, h: r.h}
	r.snaps = append(r.snaps, s)
	return s, nil
}
func (r *recorder) Capture() (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (r *recorder) reset() {
	r.calls = nil
	r.drawn = nil
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

var (
	t0  = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	red = geom.RGB{R: 0xFF, G: 0x6B, B: 0x6B}
)

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *recorder, *clock.Manual) {
	t.Helper()
	r := &recorder{}
	clk := clock.NewManual(t0)
	opts = append([]Option{
		WithClock(clk),
		WithRand(rand.New(rand.NewSource(42))),
		WithCanvasID("art01"),
	}, opts...)
	e := New(r, opts...)
	if err := e.Init(context.Background(), 1920, 1080); err != nil {
		t.Fatalf("Init: %v", err)
	}
	r.reset()
	return e, r, clk
}

func frame(e *Engine, clk *clock.Manual) {
	clk.Advance(16 * time.Millisecond)
	e.Tick()
}

func sub(id, word string) submission.Submission {
	return submission.Submission{ID: id, CanvasID: "art01", Token: word, Color: red, Timestamp: t0}
}

func TestTick_Order(t *testing.T) {
	e, r, _ := newTestEngine(t)
	if err := e.EnqueueKind(effect.KindSpiral, "order", red); err != nil {
		t.Fatal(err)
	}
	e.Tick()
	// Init cleared the painter and the pool is empty, so nothing recomposites.
	want := "particles,begin,draw"
	if got := strings.Join(r.calls, ","); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
}

func TestTick_CompletionMovesEffectToAgingPool(t *testing.T) {
	e, r, clk := newTestEngine(t)
	e.EnqueueKind(effect.KindBeam, "zap", red)

	ticks := 0
	for e.Stats().Active > 0 {
		frame(e, clk)
		if ticks++; ticks > effect.KindBeam.MaxTicks() {
			t.Fatalf("beam still active after %d ticks", ticks)
		}
	}
	st := e.Stats()
	if st.Active != 0 || st.Aging != 1 {
		t.Fatalf("Stats = %+v, want 0 active and 1 aging", st)
	}
	if r.count("rasterize") != 1 {
		t.Errorf("rasterize called %d times, want 1", r.count("rasterize"))
	}
	last := r.drawn[len(r.drawn)-1]
	if last.Progress() < 1 {
		t.Errorf("final draw at progress %v, want >= 1", last.Progress())
	}

	r.reset()
	frame(e, clk)
	if r.count("recomposite") != 1 {
		t.Errorf("tick after completion recomposited %d times, want 1", r.count("recomposite"))
	}
	if r.count("draw") != 0 {
		t.Errorf("completed effect drawn again on the effect layer")
	}
}

func TestTick_ActiveEffectsAlwaysLast(t *testing.T) {
	e, r, clk := newTestEngine(t)
	e.EnqueueKind(effect.KindSpiral, "layers", red)
	for range 30 {
		r.reset()
		frame(e, clk)
		if r.calls[len(r.calls)-1] != "draw" {
			t.Fatalf("last call = %s, want draw", r.calls[len(r.calls)-1])
		}
	}
}

func TestTick_ParticlesThrottledByWallClock(t *testing.T) {
	e, r, clk := newTestEngine(t)
	for range 60 { // 960ms at 16ms per frame
		frame(e, clk)
	}
	got := r.count("particles")
	if got < 10 || got > 960/50+1 {
		t.Errorf("particle updates over 960ms = %d, want at most one per 50ms", got)
	}
}

func TestSubmit_SettleDelay(t *testing.T) {
	e, _, clk := newTestEngine(t)
	e.Submit(sub("a", "hello"))
	e.Tick()
	if e.Stats().Active != 0 {
		t.Fatal("submission drawn before settle delay")
	}
	clk.Advance(DefaultSettle)
	e.Tick()
	if e.Stats().Active != 1 {
		t.Fatalf("Active = %d after settle, want 1", e.Stats().Active)
	}
}

func TestSubmit_DeduplicatesByID(t *testing.T) {
	e, _, clk := newTestEngine(t)
	e.Submit(sub("a", "hello"))
	e.Submit(sub("a", "hello"))
	e.Submit(sub("b", "world"))
	clk.Advance(time.Second)
	e.Tick()
	st := e.Stats()
	if st.Active != 2 || st.Submissions != 2 {
		t.Errorf("Stats = %+v, want 2 active and 2 submissions", st)
	}
}

func TestSubmit_DroppedButRememberedWhilePaused(t *testing.T) {
	e, _, clk := newTestEngine(t)
	e.Pause()
	e.Submit(sub("a", "hello"))
	clk.Advance(time.Second)
	e.Tick()
	if st := e.Stats(); st.Active != 0 || st.Submissions != 1 || !st.Paused {
		t.Fatalf("paused Stats = %+v", st)
	}

	e.Resume()
	e.Submit(sub("a", "hello"))
	clk.Advance(time.Second)
	e.Tick()
	if e.Stats().Active != 0 {
		t.Error("submission seen while paused was drawn after resume")
	}
	if e.TogglePause() != true || !e.Paused() {
		t.Error("TogglePause did not pause")
	}
}

func TestEnqueue_SurfaceTooSmallIsSkipped(t *testing.T) {
	r := &recorder{}
	e := New(r, WithClock(clock.NewManual(t0)), WithRand(rand.New(rand.NewSource(1))))
	if err := e.Init(context.Background(), 200, 200); err != nil {
		t.Fatal(err)
	}
	if err := e.EnqueueKind(effect.KindBurst, "big", red); !errors.Is(err, effect.ErrSurfaceTooSmall) {
		t.Errorf("EnqueueKind error = %v, want ErrSurfaceTooSmall", err)
	}
	if e.Stats().Active != 0 {
		t.Error("skipped effect was added")
	}
}

func TestEnqueue_BeforeInit(t *testing.T) {
	e := New(&recorder{})
	if err := e.Enqueue("early", red); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Enqueue before Init = %v, want ErrNotInitialized", err)
	}
}

func TestEnqueue_CyclesKinds(t *testing.T) {
	e, _, _ := newTestEngine(t)
	seen := make(map[effect.Kind]bool)
	for range len(effect.Kinds()) {
		if err := e.Enqueue("cycle", red); err != nil {
			t.Fatal(err)
		}
	}
	for _, fx := range e.active {
		seen[fx.Kind()] = true
	}
	if len(seen) != len(effect.Kinds()) {
		t.Errorf("rotation produced %d distinct kinds, want %d", len(seen), len(effect.Kinds()))
	}
}

func TestSoftClear(t *testing.T) {
	e, r, clk := newTestEngine(t)
	e.EnqueueKind(effect.KindBeam, "one", red)
	e.EnqueueKind(effect.KindSpiral, "two", red)
	for range effect.KindBeam.MaxTicks() {
		frame(e, clk)
	}
	if st := e.Stats(); st.Active != 1 || st.Aging != 1 {
		t.Fatalf("before clear Stats = %+v", st)
	}
	r.reset()
	e.SoftClear()
	if st := e.Stats(); st.Active != 0 || st.Aging != 0 {
		t.Errorf("after clear Stats = %+v", st)
	}
	if r.count("clear") != 1 {
		t.Error("SoftClear did not repaint the background")
	}
	if !r.snaps[0].released {
		t.Error("aging snapshot not released")
	}
}

func TestHardReset(t *testing.T) {
	ctx := context.Background()
	store := history.NewMemoryStore()
	store.Append(ctx, sub("a", "hello"))
	e, _, clk := newTestEngine(t, WithHistory(store))
	if e.Stats().Submissions != 1 {
		t.Fatalf("replayed Submissions = %d, want 1", e.Stats().Submissions)
	}

	e.Submit(sub("a", "hello"))
	clk.Advance(time.Second)
	e.Tick()
	if e.Stats().Active != 0 {
		t.Fatal("stored submission was drawn again")
	}

	if err := e.HardReset(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := store.Count(ctx, "art01"); n != 0 {
		t.Errorf("history Count after reset = %d", n)
	}
	if e.Stats().Submissions != 0 {
		t.Errorf("Submissions after reset = %d", e.Stats().Submissions)
	}
	e.Submit(sub("a", "hello"))
	clk.Advance(time.Second)
	e.Tick()
	if e.Stats().Active != 1 {
		t.Error("submission not drawn after reset forgot it")
	}
}

func TestResize(t *testing.T) {
	e, r, clk := newTestEngine(t)
	e.EnqueueKind(effect.KindBeam, "one", red)
	for range effect.KindBeam.MaxTicks() {
		frame(e, clk)
	}
	r.reset()

	e.Resize(1920, 1080)
	if len(r.calls) != 0 {
		t.Errorf("same-size Resize made calls %v", r.calls)
	}
	e.Resize(800, 600)
	if e.Stats().Aging != 0 {
		t.Error("aging pool not cleared on resize")
	}
	if r.w != 800 || r.h != 600 {
		t.Errorf("painter size = %dx%d", r.w, r.h)
	}
	for i, p := range e.dust.Particles() {
		if p.X < -p.Radius || p.X > 800+p.Radius || p.Y < -p.Radius || p.Y > 600+p.Radius {
			t.Fatalf("particle %d at (%v, %v) outside resized surface", i, p.X, p.Y)
		}
	}
	if w, h := e.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %dx%d", w, h)
	}
}

func TestHostOff_SuppressesParticles(t *testing.T) {
	e, r, clk := newTestEngine(t, WithHost(false))
	for range 10 {
		frame(e, clk)
	}
	if r.count("particles") != 0 {
		t.Error("particles drawn outside host mode")
	}
}

func TestExportSnapshot(t *testing.T) {
	e, _, _ := newTestEngine(t)
	dir := t.TempDir()
	path, err := e.ExportSnapshot(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, ExportName("art01", t0.UnixMilli()))
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	select {
	case res := <-e.Exports():
		if res.Err != nil || res.Path != want {
			t.Fatalf("export = %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("export result not delivered")
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("snapshot file: %v", err)
	}

	e.Dispose()
	if _, ok := <-e.Exports(); ok {
		t.Error("Exports not closed by Dispose")
	}
	if _, err := e.ExportSnapshot(dir); !errors.Is(err, ErrDisposed) {
		t.Errorf("ExportSnapshot after Dispose = %v", err)
	}
}
