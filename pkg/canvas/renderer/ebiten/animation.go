package ebiten

import (
	"image/color"
	"time"

	"collectivecanvas/pkg/canvas/renderer"
)

// statusMessage is a transient HUD line that fades out.
type statusMessage struct {
	text string
	col  color.Color
	at   time.Time
}

type statusLine struct {
	msg statusMessage
}

func (s *statusLine) set(text string, col color.Color, now time.Time) {
	s.msg = statusMessage{text: text, col: col, at: now}
}

// current returns the message and its opacity, zero once it has faded.
func (s *statusLine) current(now time.Time) (statusMessage, float64) {
	if s.msg.text == "" {
		return statusMessage{}, 0
	}
	return s.msg, renderer.StatusAlpha(now.Sub(s.msg.at))
}

// pausedColor pulses the paused indicator between half and full brightness
// over two seconds.
func (g *Game) pausedColor() color.Color {
	brightness := renderer.Pulse(g.clock.Now(), 2*time.Second, 0.5, 1.0)
	return color.RGBA{
		uint8(float64(colorPaused.R) * brightness),
		uint8(float64(colorPaused.G) * brightness),
		uint8(float64(colorPaused.B) * brightness),
		colorPaused.A,
	}
}
