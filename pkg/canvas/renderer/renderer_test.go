package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"collectivecanvas/pkg/canvas/effect"
)

func TestStrokeFor_EveryKind(t *testing.T) {
	for _, k := range effect.Kinds() {
		s := StrokeFor(k)
		if s.Width < 0 || s.Glow < 0 || s.Core < 0 {
			t.Errorf("StrokeFor(%v) = %+v, want non-negative", k, s)
		}
	}
}

func TestStrokeFor_Values(t *testing.T) {
	tests := []struct {
		kind effect.Kind
		want Stroke
	}{
		{effect.KindSpiral, Stroke{Width: 4, Glow: 20}},
		{effect.KindBurst, Stroke{Width: 6, Glow: 25}},
		{effect.KindBolt, Stroke{Width: 8, Glow: 30, Core: 3}},
		{effect.KindSwirl, Stroke{Width: 3, Glow: 15}},
		{effect.KindRipple, Stroke{Width: 3}},
		{effect.KindSplash, Stroke{}},
	}
	for _, tt := range tests {
		if got := StrokeFor(tt.kind); got != tt.want {
			t.Errorf("StrokeFor(%v) = %+v, want %+v", tt.kind, got, tt.want)
		}
	}
}

func TestStrokeFor_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("StrokeFor(Kind(99)) did not panic")
		}
	}()
	StrokeFor(effect.Kind(99))
}

func TestGlowPasses(t *testing.T) {
	if got := GlowPasses(4, 0); got != nil {
		t.Errorf("GlowPasses(4, 0) = %v, want nil", got)
	}
	passes := GlowPasses(4, 20)
	if len(passes) != 2 {
		t.Fatalf("GlowPasses(4, 20) = %v", passes)
	}
	if passes[0].Width != 24 || passes[1].Width != 14 {
		t.Errorf("widths = %v, %v, want 24, 14", passes[0].Width, passes[1].Width)
	}
	for _, p := range passes {
		if p.Alpha <= 0 || p.Alpha >= 1 {
			t.Errorf("pass alpha %v not translucent", p.Alpha)
		}
	}
}

func TestGradient(t *testing.T) {
	stops := []Stop{
		{0, color.NRGBA{0, 0, 0, 255}},
		{1, color.NRGBA{200, 100, 50, 255}},
	}
	tests := []struct {
		t    float64
		want color.NRGBA
	}{
		{-1, color.NRGBA{0, 0, 0, 255}},
		{0, color.NRGBA{0, 0, 0, 255}},
		{0.5, color.NRGBA{100, 50, 25, 255}},
		{1, color.NRGBA{200, 100, 50, 255}},
		{3, color.NRGBA{200, 100, 50, 255}},
	}
	for _, tt := range tests {
		if got := Gradient(stops, tt.t); got != tt.want {
			t.Errorf("Gradient(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
	if got := Gradient(nil, 0.5); got != (color.NRGBA{}) {
		t.Errorf("Gradient(nil) = %v, want zero", got)
	}
}

func TestBackground(t *testing.T) {
	img := Background(40, 20)
	if img.Bounds() != image.Rect(0, 0, 40, 20) {
		t.Fatalf("Bounds = %v", img.Bounds())
	}
	centre := img.NRGBAAt(20, 10)
	if centre.R > 0x0c || centre.A != 0xff {
		t.Errorf("centre = %v, want near #0a0a0a", centre)
	}
	corner := img.NRGBAAt(0, 0)
	if corner != BackgroundStops[len(BackgroundStops)-1].Color {
		t.Errorf("corner = %v, want last stop", corner)
	}
}

func TestFalloffSprite(t *testing.T) {
	img := FalloffSprite(64)
	if a := img.NRGBAAt(32, 32).A; a < 0xf0 {
		t.Errorf("centre alpha = %#x, want near opaque", a)
	}
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %#x, want 0", a)
	}
	// Alpha falls off monotonically along a radius.
	prev := uint8(255)
	for x := 32; x < 64; x++ {
		a := img.NRGBAAt(x, 32).A
		if a > prev {
			t.Fatalf("alpha rises at x=%d: %d > %d", x, a, prev)
		}
		prev = a
	}
}

func TestAuroraAlphaAt(t *testing.T) {
	tests := []struct {
		y, start, want float64
	}{
		{100, 100, 1},
		{140, 100, 0.5},
		{180, 100, 0},
		{300, 100, 0},
		{50, 100, 1},
	}
	for _, tt := range tests {
		if got := AuroraAlphaAt(tt.y, tt.start); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AuroraAlphaAt(%v, %v) = %v, want %v", tt.y, tt.start, got, tt.want)
		}
	}
}

func TestDripLength(t *testing.T) {
	tests := []struct {
		drip, ep, want float64
	}{
		{20, 0.3, 0},
		{20, 0.5, 0},
		{20, 0.75, 10},
		{20, 1, 20},
		{0, 1, 0},
	}
	for _, tt := range tests {
		if got := DripLength(tt.drip, tt.ep); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DripLength(%v, %v) = %v, want %v", tt.drip, tt.ep, got, tt.want)
		}
	}
}

func TestStatusAlpha(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{-time.Second, 0},
		{0, 1},
		{StatusHold, 1},
		{StatusHold + StatusFade/2, 0.5},
		{StatusHold + StatusFade, 0},
		{time.Minute, 0},
	}
	for _, tt := range tests {
		if got := StatusAlpha(tt.elapsed); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("StatusAlpha(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}

func TestPulse(t *testing.T) {
	base := time.UnixMilli(1_700_000_000_000)
	for i := range 40 {
		v := Pulse(base.Add(time.Duration(i)*50*time.Millisecond), 2*time.Second, 0.5, 1)
		if v < 0.5-1e-9 || v > 1+1e-9 {
			t.Fatalf("Pulse = %v, outside [0.5, 1]", v)
		}
	}
}

func TestQRRect(t *testing.T) {
	tests := []struct {
		w, h int
		want image.Rectangle
	}{
		{1920, 1080, image.Rect(1920-24-180, 1080-24-180, 1920-24, 1080-24)},
		{800, 600, image.Rect(800-24-150, 600-24-150, 800-24, 600-24)},
		{300, 300, image.Rect(300-24-96, 300-24-96, 300-24, 300-24)},
		{100, 100, image.Rectangle{}},
	}
	for _, tt := range tests {
		if got := QRRect(tt.w, tt.h); got != tt.want {
			t.Errorf("QRRect(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestUIFontSize(t *testing.T) {
	tests := []struct {
		h    int
		want float64
	}{
		{200, 12},
		{960, 20},
		{2160, 22},
	}
	for _, tt := range tests {
		if got := UIFontSize(tt.h); got != tt.want {
			t.Errorf("UIFontSize(%d) = %v, want %v", tt.h, got, tt.want)
		}
	}
}

func TestParticleColor(t *testing.T) {
	if got := ParticleColor(0.5).A; got != 127 {
		t.Errorf("ParticleColor(0.5).A = %d, want 127", got)
	}
	if got := ParticleColor(2).A; got != 255 {
		t.Errorf("ParticleColor(2).A = %d, want 255", got)
	}
}
