package terminal

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(verbose bool) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(&buf, verbose)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, &buf
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newTestLogger(false)
	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warnf("careful")
	l.Errorf("broken")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written without verbose: %q", out)
	}
	for _, want := range []string{"INFO  | shown 2", "WARN  | careful", "ERROR | broken", "2026-01-02T03:04:05.000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("non-terminal output contains colour escapes")
	}
}

func TestLogger_Verbose(t *testing.T) {
	l, buf := newTestLogger(true)
	l.Debugf("tick %s", "ok")
	if !strings.Contains(buf.String(), "DEBUG | tick ok") {
		t.Errorf("verbose debug missing: %q", buf.String())
	}
}

func TestLogger_Banner(t *testing.T) {
	l, buf := newTestLogger(false)
	l.Banner("Collective Canvas", "join: http://localhost:8080/join/art01")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("banner has %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if lines[1] != "Collective Canvas" || !strings.HasPrefix(lines[2], "  join:") {
		t.Errorf("unexpected banner:\n%s", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Infof("nothing")
	if l.Verbose() {
		t.Error("Discard logger is verbose")
	}
}
