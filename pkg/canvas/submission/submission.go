// Package submission defines the participant contribution that triggers an
// effect, together with its validation and the hand-off between the intake
// server and the frame driver.
package submission

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"collectivecanvas/pkg/engine/geom"
)

// MaxTokenLength is the longest accepted word, in characters.
const MaxTokenLength = 18

// CooldownPeriod is the minimum time between two submissions of one
// participant.
const CooldownPeriod = 5 * time.Second

var (
	ErrEmptyToken   = errors.New("submission: please enter a word")
	ErrTokenTooLong = fmt.Errorf("submission: word must be %d characters or less", MaxTokenLength)
	ErrBlockedToken = errors.New("submission: please choose a different word")
	ErrNoColor      = errors.New("submission: please select a color first")
	ErrCooldown     = errors.New("submission: please wait before submitting again")
)

var blocked = []string{"fuck", "shit", "bitch", "cunt"}

// Submission is one (word, colour) contribution to a canvas.
type Submission struct {
	ID        string    `json:"id"`
	CanvasID  string    `json:"canvasId"`
	Token     string    `json:"word"`
	Color     geom.RGB  `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// New builds a validated submission with a fresh time-ordered ID.
func New(canvasID, token, hexColor string, now time.Time) (Submission, error) {
	token, err := Validate(token)
	if err != nil {
		return Submission{}, err
	}
	if strings.TrimSpace(hexColor) == "" {
		return Submission{}, ErrNoColor
	}
	c, err := geom.ParseHex(hexColor)
	if err != nil {
		return Submission{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Submission{}, fmt.Errorf("submission: generating id: %w", err)
	}
	return Submission{
		ID:        id.String(),
		CanvasID:  canvasID,
		Token:     token,
		Color:     c,
		Timestamp: now,
	}, nil
}

// Validate trims token and checks it against the length limit and the
// blocked word list. It returns the trimmed token.
func Validate(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrEmptyToken
	}
	if utf8.RuneCountInString(token) > MaxTokenLength {
		return "", ErrTokenTooLong
	}
	for _, bad := range blocked {
		if strings.EqualFold(token, bad) {
			return "", ErrBlockedToken
		}
	}
	return token, nil
}

// Cooldown enforces CooldownPeriod per participant.
type Cooldown struct {
	mu     sync.Mutex
	period time.Duration
	last   map[string]time.Time
}

// NewCooldown creates a cooldown tracker with the given period.
func NewCooldown(period time.Duration) *Cooldown {
	return &Cooldown{period: period, last: make(map[string]time.Time)}
}

// Remaining returns how many whole seconds participant still has to wait,
// rounded up. Zero means a submission is allowed.
func (c *Cooldown) Remaining(participant string, now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked(participant, now)
}

func (c *Cooldown) remainingLocked(participant string, now time.Time) int {
	last, ok := c.last[participant]
	if !ok {
		return 0
	}
	left := c.period - now.Sub(last)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// Allow records a submission for participant if the cooldown has passed.
// Otherwise it returns ErrCooldown with the seconds remaining.
func (c *Cooldown) Allow(participant string, now time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if left := c.remainingLocked(participant, now); left > 0 {
		return left, ErrCooldown
	}
	for p, t := range c.last {
		if now.Sub(t) >= c.period {
			delete(c.last, p)
		}
	}
	c.last[participant] = now
	return 0, nil
}

// Cancel undoes the Allow made for participant at the given time. A later
// Allow is left alone.
func (c *Cooldown) Cancel(participant string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.last[participant]; ok && t.Equal(at) {
		delete(c.last, participant)
	}
}
