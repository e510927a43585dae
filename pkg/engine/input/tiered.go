package input

import (
	"sort"
	"time"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceTerminal
)

// Action represents a host control.
type Action int

const (
	ActionNone Action = iota

	ActionTogglePause
	ActionPause
	ActionResume
	ActionSoftClear
	ActionSaveSnapshot
	ActionHardReset
	ActionToggleHUD
	ActionToggleFullscreen
	ActionQuit
)

// Intent is the 4th‑layer, high‑level description of what the host wants to do.
type Intent struct {
	Action Action
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "space", "shift+r", "pause").
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after repeat suppression.
type DebouncedInput struct {
	Device Device
	Code   string
}

// DefaultDebounce is the window within which a repeated code is dropped.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer drops a code seen again within its window, so a held key or a
// bouncing switch does not fire a destructive control twice.
type Debouncer struct {
	window time.Duration
	last   map[string]time.Time
}

// NewDebouncer creates a debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window, last: make(map[string]time.Time)}
}

// Accept converts a raw event to a debounced one, or reports false when the
// event repeats a code inside the window.
func (d *Debouncer) Accept(raw RawInput) (DebouncedInput, bool) {
	if t, ok := d.last[raw.Code]; ok && raw.Timestamp.Sub(t) < d.window {
		return DebouncedInput{}, false
	}
	d.last[raw.Code] = raw.Timestamp
	return DebouncedInput{Device: raw.Device, Code: raw.Code}, true
}

// bindings maps raw codes to actions (3rd-layer bindings).
// Multiple codes may point to the same Action.
var bindings = map[string]Action{
	// Keyboard
	"space":   ActionTogglePause,
	"c":       ActionSoftClear,
	"s":       ActionSaveSnapshot,
	"shift+r": ActionHardReset,
	"h":       ActionToggleHUD,
	"f":       ActionToggleFullscreen,
	"q":       ActionQuit,
	"escape":  ActionQuit,

	// Terminal commands
	"pause":      ActionPause,
	"resume":     ActionResume,
	"toggle":     ActionTogglePause,
	"clear":      ActionSoftClear,
	"save":       ActionSaveSnapshot,
	"reset":      ActionHardReset,
	"hud":        ActionToggleHUD,
	"fullscreen": ActionToggleFullscreen,
	"quit":       ActionQuit,
	"exit":       ActionQuit,
}

// shiftPrefix marks a key pressed with shift held.
const shiftPrefix = "shift+"

// KeyCode returns the raw code for key. The shift prefix is kept only when a
// shifted binding exists, so shift+space still toggles pause.
func KeyCode(key string, shift bool) string {
	if shift {
		if _, ok := bindings[shiftPrefix+key]; ok {
			return shiftPrefix + key
		}
	}
	return key
}

// MapToIntent is the 3rd+4th layer: it applies the bindings to a debounced
// input and returns a high‑level Intent.
func MapToIntent(ev DebouncedInput) Intent {
	if act, ok := bindings[ev.Code]; ok {
		return Intent{Action: act}
	}
	return Intent{Action: ActionNone}
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionTogglePause:
		return "Pause/Resume"
	case ActionPause:
		return "Pause"
	case ActionResume:
		return "Resume"
	case ActionSoftClear:
		return "Clear"
	case ActionSaveSnapshot:
		return "Save"
	case ActionHardReset:
		return "Reset"
	case ActionToggleHUD:
		return "HUD"
	case ActionToggleFullscreen:
		return "Fullscreen"
	case ActionQuit:
		return "Quit"
	default:
		return "None"
	}
}

// GetBindingsByAction returns the bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Stable ordering so the HUD doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}
