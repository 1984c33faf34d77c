package tui

import (
	"vibeloop/debug"
	"vibeloop/midi"
	"vibeloop/theme"
	"vibeloop/vibe"
)

// Scene column rows with a workspace role
const (
	scenePlay = 7
	sceneVibe = 6
)

var (
	arrowColor = [3]uint8{40, 60, 120}
	saveColor  = [3]uint8{217, 70, 239}
	playColor  = [3]uint8{13, 89, 242}
	vibeColor  = [3]uint8{168, 85, 247}
)

// padPress maps a controller press onto the same operations as the keyboard
func (m *Model) padPress(ev midi.PadEvent) {
	if ev.Velocity == 0 {
		return
	}
	debug.Log("ctrl", "press row=%d col=%d on %s", ev.Row, ev.Col, m.state.Screen())

	t := m.Config.Gesture.Threshold + 1
	if m.state.Screen() == vibe.ScreenDiscover {
		switch {
		case ev.Row == midi.TopRow && ev.Col == midi.ButtonUp:
			m.release(0, -t)
		case ev.Row == midi.TopRow && ev.Col == midi.ButtonDown:
			m.release(0, t)
		case ev.Row == midi.TopRow && ev.Col == midi.ButtonRight:
			m.release(t, 0)
		case ev.Col == midi.SceneCol && ev.Row == scenePlay:
			m.enterWorkspace()
		}
		return
	}

	if m.ws == nil {
		return
	}
	if ev.Row == midi.TopRow && ev.Col == midi.ButtonLeft {
		m.showDiscover()
		return
	}
	if m.ws.Empty() {
		return
	}

	stems := m.ws.Stems()
	switch {
	case ev.Col == midi.SceneCol && ev.Row == scenePlay:
		m.ws.TogglePlayback()
	case ev.Col == midi.SceneCol && ev.Row == sceneVibe:
		m.ws.VibeCheck()
	case ev.Row == 0 && ev.Col < len(stems):
		m.selected = ev.Col
		m.ws.ToggleStem(stems[ev.Col].ID)
	case ev.Row == 1 && ev.Col < len(stems):
		m.selected = ev.Col
		m.ws.CycleTexture(stems[ev.Col].ID)
	}
}

// renderSurface computes the full LED frame for the current screen
func renderSurface(th *theme.Theme, state *vibe.State, ws *vibe.Workspace) []midi.LEDUpdate {
	var leds []midi.LEDUpdate
	set := func(row, col int, c [3]uint8, ch uint8) {
		leds = append(leds, midi.LEDUpdate{Row: row, Col: col, Color: c, Channel: ch})
	}

	if state.Screen() == vibe.ScreenDiscover {
		set(midi.TopRow, midi.ButtonUp, arrowColor, midi.ChannelStatic)
		set(midi.TopRow, midi.ButtonDown, arrowColor, midi.ChannelStatic)
		set(midi.TopRow, midi.ButtonRight, saveColor, midi.ChannelPulse)
		if state.SavedCount() > 0 {
			set(scenePlay, midi.SceneCol, playColor, midi.ChannelStatic)
		}
		return leds
	}

	set(midi.TopRow, midi.ButtonLeft, arrowColor, midi.ChannelStatic)
	if ws == nil || ws.Empty() {
		return leds
	}

	stems := ws.Stems()
	grad := th.LoopGradient(*ws.Loop())
	for i, s := range stems {
		if i >= midi.GridSize {
			break
		}
		c := grad.Lookup(stemNorm(i, len(stems)))
		if !s.Active {
			set(0, i, c.Scale(0.1), midi.ChannelStatic)
			continue
		}
		set(0, i, c, midi.ChannelStatic)
		set(1, i, c.Scale(float64(s.Texture+1)/3), midi.ChannelStatic)
	}

	if ws.Playing() {
		set(scenePlay, midi.SceneCol, playColor, midi.ChannelPulse)
	} else {
		set(scenePlay, midi.SceneCol, playColor, midi.ChannelStatic)
	}
	if ws.EffectLabel() != "" {
		set(sceneVibe, midi.SceneCol, vibeColor, midi.ChannelFlash)
	} else {
		set(sceneVibe, midi.SceneCol, vibeColor, midi.ChannelStatic)
	}
	return leds
}

// diffLEDs returns the updates needed to move from prev to next, including
// switching off pads next no longer lights, and the new frame
func diffLEDs(prev map[[2]int]midi.LEDUpdate, next []midi.LEDUpdate) ([]midi.LEDUpdate, map[[2]int]midi.LEDUpdate) {
	frame := make(map[[2]int]midi.LEDUpdate, len(next))
	var updates []midi.LEDUpdate
	for _, led := range next {
		key := [2]int{led.Row, led.Col}
		frame[key] = led
		if old, ok := prev[key]; !ok || old != led {
			updates = append(updates, led)
		}
	}
	for key := range prev {
		if _, ok := frame[key]; !ok {
			updates = append(updates, midi.LEDUpdate{Row: key[0], Col: key[1]})
		}
	}
	return updates, frame
}

// syncLEDs sends only the pads that changed since the last frame
func (m *Model) syncLEDs() {
	if m.controller == nil {
		return
	}
	updates, frame := diffLEDs(m.leds, renderSurface(m.Theme, m.state, m.ws))
	if len(updates) == 0 {
		return
	}
	if err := m.controller.SetLEDBatch(updates); err != nil {
		debug.Log("ctrl", "led batch: %v", err)
		return
	}
	debug.Log("ctrl", "leds: batch=%d", len(updates))
	m.leds = frame
}
