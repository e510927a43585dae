package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"collectivecanvas/pkg/canvas/i18n"
	engineinput "collectivecanvas/pkg/engine/input"
)

// keyCodes maps keys to their raw input codes. readKeys adds shift only
// where a shifted binding exists.
var keyCodes = map[ebiten.Key]string{
	ebiten.KeySpace:  "space",
	ebiten.KeyC:      "c",
	ebiten.KeyS:      "s",
	ebiten.KeyR:      "r",
	ebiten.KeyH:      "h",
	ebiten.KeyF:      "f",
	ebiten.KeyQ:      "q",
	ebiten.KeyEscape: "escape",
}

// readKeys returns the raw inputs for the keys pressed this tick.
func (g *Game) readKeys() []engineinput.RawInput {
	var out []engineinput.RawInput
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		code, ok := keyCodes[k]
		if !ok {
			continue
		}
		out = append(out, engineinput.RawInput{
			Device:    engineinput.DeviceKeyboard,
			Code:      engineinput.KeyCode(code, shift),
			Timestamp: g.clock.Now(),
		})
	}
	return out
}

// pollCommands drains pending terminal commands without blocking.
func (g *Game) pollCommands() []engineinput.RawInput {
	var out []engineinput.RawInput
	for {
		select {
		case raw, ok := <-g.opts.Commands:
			if !ok {
				g.opts.Commands = nil
				return out
			}
			out = append(out, raw)
		default:
			return out
		}
	}
}

// handleInput runs raw inputs through the debouncer and the bindings and
// applies the resulting intents. It reports whether the host asked to quit.
func (g *Game) handleInput(raws []engineinput.RawInput) bool {
	for _, raw := range raws {
		ev, ok := g.debouncer.Accept(raw)
		if !ok {
			continue
		}
		intent := engineinput.MapToIntent(ev)
		if intent.Action == engineinput.ActionNone {
			if raw.Device == engineinput.DeviceTerminal {
				g.log.Warnf("Unknown command %q", raw.Code)
			}
			continue
		}
		if g.apply(intent) {
			return true
		}
	}
	return false
}

func (g *Game) apply(intent engineinput.Intent) bool {
	now := g.clock.Now()
	g.log.Debugf("Host action: %s", engineinput.ActionName(intent.Action))

	switch intent.Action {
	case engineinput.ActionTogglePause:
		if g.engine.TogglePause() {
			g.status.set(i18n.T("STATUS_PAUSED"), colorPaused, now)
		} else {
			g.status.set(i18n.T("STATUS_RESUMED"), colorSuccess, now)
		}
	case engineinput.ActionPause:
		g.engine.Pause()
		g.status.set(i18n.T("STATUS_PAUSED"), colorPaused, now)
	case engineinput.ActionResume:
		g.engine.Resume()
		g.status.set(i18n.T("STATUS_RESUMED"), colorSuccess, now)
	case engineinput.ActionSoftClear:
		g.engine.SoftClear()
		g.status.set(i18n.T("STATUS_CLEARED"), colorText, now)
	case engineinput.ActionSaveSnapshot:
		path, err := g.engine.ExportSnapshot(g.opts.SnapshotDir)
		if err != nil {
			g.log.Errorf("Saving snapshot: %v", err)
			g.status.set(i18n.T("STATUS_SAVE_FAILED", err.Error()), colorDenied, now)
			break
		}
		g.status.set(i18n.T("STATUS_SAVING", path), colorText, now)
	case engineinput.ActionHardReset:
		if err := g.engine.HardReset(g.ctx); err != nil {
			g.log.Errorf("Reset: %v", err)
			g.status.set(err.Error(), colorDenied, now)
			break
		}
		g.status.set(i18n.T("STATUS_RESET"), colorDenied, now)
	case engineinput.ActionToggleHUD:
		g.hudVisible = !g.hudVisible
	case engineinput.ActionToggleFullscreen:
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	case engineinput.ActionQuit:
		return true
	}
	return false
}
