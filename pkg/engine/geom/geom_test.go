package geom

import (
	"errors"
	"math"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#FF6B6B", RGB{0xFF, 0x6B, 0x6B}},
		{"4ECDC4", RGB{0x4E, 0xCD, 0xC4}},
		{" #000000 ", RGB{}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Fatalf("ParseHex(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "#FFF", "#GGGGGG", "#1234567"} {
		if _, err := ParseHex(in); !errors.Is(err, ErrBadColor) {
			t.Errorf("ParseHex(%q) error = %v, want ErrBadColor", in, err)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := RGB{0x85, 0xC1, 0xE9}
	if got := c.Hex(); got != "#85C1E9" {
		t.Errorf("Hex() = %q, want #85C1E9", got)
	}
}

func TestPointLerpAndPolar(t *testing.T) {
	p := Point{0, 0}
	q := Point{10, 20}
	if got := p.Lerp(q, 0.5); got != (Point{5, 10}) {
		t.Errorf("Lerp = %v, want {5 10}", got)
	}
	r := p.Polar(math.Pi/2, 10)
	if math.Abs(r.X) > 1e-9 || math.Abs(r.Y-10) > 1e-9 {
		t.Errorf("Polar(pi/2, 10) = %v, want {0 10}", r)
	}
}

func TestWithAlphaClamps(t *testing.T) {
	c := RGB{1, 2, 3}
	if got := c.WithAlpha(2).A; got != 255 {
		t.Errorf("WithAlpha(2).A = %d, want 255", got)
	}
	if got := c.WithAlpha(-1).A; got != 0 {
		t.Errorf("WithAlpha(-1).A = %d, want 0", got)
	}
}
