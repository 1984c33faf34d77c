package tui

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vibeloop/catalog"
	"vibeloop/config"
	"vibeloop/midi"
	"vibeloop/theme"
	"vibeloop/vibe"
)

type stepClock struct {
	now    time.Duration
	timers []*stepTimer
}

type stepTimer struct {
	at   time.Duration
	f    func()
	done bool
}

func (t *stepTimer) Stop() bool {
	was := !t.done
	t.done = true
	return was
}

func (c *stepClock) AfterFunc(d time.Duration, f func()) vibe.Timer {
	t := &stepTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *stepClock) Advance(d time.Duration) {
	c.now += d
	for _, t := range c.timers {
		if !t.done && t.at <= c.now {
			t.done = true
			t.f()
		}
	}
}

// recordingController captures LED batches and feeds scripted pad events
type recordingController struct {
	mu      sync.Mutex
	batches [][]midi.LEDUpdate
	events  chan midi.PadEvent
}

func (c *recordingController) ID() string                      { return "test" }
func (c *recordingController) Type() midi.ControllerType       { return midi.ControllerLaunchpad }
func (c *recordingController) PadEvents() <-chan midi.PadEvent { return c.events }
func (c *recordingController) SetLEDRGB(row, col int, rgb [3]uint8, ch uint8) error {
	return c.SetLEDBatch([]midi.LEDUpdate{{Row: row, Col: col, Color: rgb, Channel: ch}})
}
func (c *recordingController) SetLEDBatch(u []midi.LEDUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, u)
	return nil
}
func (c *recordingController) Close() error { return nil }

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(catalog.Default(), config.DefaultConfig(), theme.Default(), nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(x, y int, b tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: b}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func releaseAt(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

// click renders a frame and presses the centre of region id
func click(t *testing.T, m Model, id string, b tea.MouseButton) Model {
	t.Helper()
	m.View()
	r, ok := m.hits.Find(id)
	if !ok {
		t.Fatalf("no region %q on screen", id)
	}
	m = send(m, press(r.X+r.W/2, r.Y+r.H/2, b))
	return send(m, releaseAt(r.X+r.W/2, r.Y+r.H/2))
}

func TestSaveKeyOpensWorkspace(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("right"))

	if m.state.Screen() != vibe.ScreenWorkspace {
		t.Fatalf("screen = %s, want workspace", m.state.Screen())
	}
	if m.state.SavedCount() != 1 {
		t.Errorf("saved = %d, want 1", m.state.SavedCount())
	}
	if got := m.ws.Loop().Name; got != "Neon Nights" {
		t.Errorf("workspace loop = %q, want Neon Nights", got)
	}
	if m.ws.Tempo() != 124 {
		t.Errorf("tempo = %d, want 124", m.ws.Tempo())
	}
	if !strings.Contains(m.View(), "VIBE BOX") {
		t.Error("workspace header missing")
	}
}

func TestNextPrevKeysCycleDeck(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("up"), keyPress("up"))
	if m.deck.Index() != 2 {
		t.Errorf("index = %d, want 2", m.deck.Index())
	}
	m = send(m, keyPress("up"))
	if m.deck.Index() != 0 {
		t.Errorf("index = %d, want 0 after wrap", m.deck.Index())
	}
	m = send(m, keyPress("down"))
	if m.deck.Index() != m.deck.Len()-1 {
		t.Errorf("index = %d, want last", m.deck.Index())
	}
	if m.state.Screen() != vibe.ScreenDiscover {
		t.Error("navigation left discover")
	}
}

func TestCardDragGestures(t *testing.T) {
	tests := []struct {
		name       string
		dx, dy     int // cells
		wantIndex  int
		wantScreen vibe.Screen
		wantSaved  int
	}{
		{"right saves and advances", 13, 0, 1, vibe.ScreenWorkspace, 1},
		{"up advances", 0, -7, 1, vibe.ScreenDiscover, 0},
		{"down goes back", 0, 7, 2, vibe.ScreenDiscover, 0},
		{"short drag cancels", 5, 2, 0, vibe.ScreenDiscover, 0},
		{"left cancels", -13, 0, 0, vibe.ScreenDiscover, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m.View()
			r, ok := m.hits.Find("card")
			if !ok {
				t.Fatal("card not on screen")
			}
			x, y := r.X+r.W/2, r.Y+r.H/2
			m = send(m,
				press(x, y, tea.MouseButtonLeft),
				motion(x+tt.dx/2, y+tt.dy/2),
				motion(x+tt.dx, y+tt.dy),
				releaseAt(x+tt.dx, y+tt.dy),
			)

			if m.state.Screen() != tt.wantScreen {
				t.Errorf("screen = %s, want %s", m.state.Screen(), tt.wantScreen)
			}
			if m.deck.Index() != tt.wantIndex {
				t.Errorf("index = %d, want %d", m.deck.Index(), tt.wantIndex)
			}
			if m.state.SavedCount() != tt.wantSaved {
				t.Errorf("saved = %d, want %d", m.state.SavedCount(), tt.wantSaved)
			}
			if off := m.deck.Offset(); off != (vibe.Offset{}) {
				t.Errorf("offset = %+v, want reset", off)
			}
		})
	}
}

func TestDragMovesCardBeforeRelease(t *testing.T) {
	m := newTestModel(t)
	m.View()
	r, _ := m.hits.Find("card")
	x, y := r.X+r.W/2, r.Y+r.H/2
	m = send(m, press(x, y, tea.MouseButtonLeft), motion(x+3, y))

	want := vibe.Offset{X: 3 * m.Config.Gesture.UnitsPerColumn}
	if got := m.deck.Offset(); got != want {
		t.Errorf("offset = %+v, want %+v", got, want)
	}
}

func TestEmptyWorkspace(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("w"))

	if m.state.Screen() != vibe.ScreenWorkspace || !m.ws.Empty() {
		t.Fatal("expected empty workspace")
	}
	if !strings.Contains(m.View(), "Workspace Empty") {
		t.Error("placeholder not shown")
	}

	// Mixing keys do nothing here
	m = send(m, keyPress("p"), keyPress("m"), keyPress("1"))
	if len(m.ws.Stems()) != 0 || m.ws.EffectLabel() != "" {
		t.Error("empty workspace changed")
	}

	m = click(t, m, "discover", tea.MouseButtonLeft)
	if m.state.Screen() != vibe.ScreenDiscover {
		t.Errorf("screen = %s, want discover", m.state.Screen())
	}

	m = send(m, keyPress("w"), keyPress("enter"))
	if m.state.Screen() != vibe.ScreenDiscover {
		t.Errorf("enter: screen = %s, want discover", m.state.Screen())
	}
}

func TestLibraryBadgeOpensWorkspace(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("right"), keyPress("esc"))
	if m.state.Screen() != vibe.ScreenDiscover {
		t.Fatal("esc did not return to discover")
	}
	m = click(t, m, "library", tea.MouseButtonLeft)
	if m.state.Screen() != vibe.ScreenWorkspace || m.ws.Empty() {
		t.Error("badge did not open the saved loop")
	}
}

func TestTempoKeysClamp(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("right"))

	m = send(m, keyPress("+"), keyPress("+"), keyPress("-"))
	if m.ws.Tempo() != 125 {
		t.Errorf("tempo = %d, want 125", m.ws.Tempo())
	}
	for i := 0; i < 20; i++ {
		m = send(m, keyPress("]"))
	}
	if m.ws.Tempo() != vibe.MaxTempo {
		t.Errorf("tempo = %d, want %d", m.ws.Tempo(), vibe.MaxTempo)
	}
	for i := 0; i < 40; i++ {
		m = send(m, keyPress("["))
	}
	if m.ws.Tempo() != vibe.MinTempo {
		t.Errorf("tempo = %d, want %d", m.ws.Tempo(), vibe.MinTempo)
	}
}

func TestTempoMeterClick(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("right"))
	m.View()
	r, ok := m.hits.Find("tempo")
	if !ok {
		t.Fatal("tempo meter not on screen")
	}

	m = send(m, press(r.X, r.Y, tea.MouseButtonLeft))
	if m.ws.Tempo() != vibe.MinTempo {
		t.Errorf("left edge: tempo = %d, want %d", m.ws.Tempo(), vibe.MinTempo)
	}
	m = send(m, motion(r.X+r.W+10, r.Y), releaseAt(r.X+r.W+10, r.Y))
	if m.ws.Tempo() != vibe.MaxTempo {
		t.Errorf("slide past end: tempo = %d, want %d", m.ws.Tempo(), vibe.MaxTempo)
	}
	m = send(m, motion(r.X, r.Y))
	if m.ws.Tempo() != vibe.MaxTempo {
		t.Error("motion after release moved tempo")
	}
}

func TestStemKeysAndClicks(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("right"))

	m = send(m, keyPress("right"), keyPress(" "))
	stems := m.ws.Stems()
	if stems[1].Active || !stems[0].Active {
		t.Errorf("space toggled wrong stem: %+v", stems)
	}

	m = send(m, keyPress("t"), keyPress("t"))
	if got := m.ws.Stems()[1].Texture; got != 2 {
		t.Errorf("texture = %d, want 2", got)
	}

	m = click(t, m, "stem:0", tea.MouseButtonLeft)
	if m.ws.Stems()[0].Active {
		t.Error("left click did not toggle stem 0")
	}
	if m.selected != 0 {
		t.Errorf("selected = %d, want 0", m.selected)
	}
	m = click(t, m, "stem:2", tea.MouseButtonRight)
	if got := m.ws.Stems()[2].Texture; got != 1 {
		t.Errorf("right click texture = %d, want 1", got)
	}
}

func TestAddInstrument(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("right"), keyPress("2"))

	stems := m.ws.Stems()
	if len(stems) != 4 {
		t.Fatalf("stems = %d, want 4", len(stems))
	}
	added := stems[3]
	if added.Name != "Slap Bass" || added.Kind != catalog.KindBass || !added.Active || added.Texture != 0 {
		t.Errorf("added = %+v", added)
	}
	if m.selected != 3 {
		t.Errorf("selected = %d, want new stem", m.selected)
	}

	m = click(t, m, "inst:0", tea.MouseButtonLeft)
	if got := len(m.ws.Stems()); got != 5 {
		t.Errorf("stems = %d after click, want 5", got)
	}

	// No ninth instrument
	m = send(m, keyPress("9"))
	if got := len(m.ws.Stems()); got != 5 {
		t.Errorf("stems = %d, want unchanged", got)
	}
}

func TestPadDrag(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("right"), keyPress("tab"))
	if m.ws.Tab() != vibe.TabFX {
		t.Fatalf("tab = %s, want fx", m.ws.Tab())
	}
	m.View()
	r, ok := m.hits.Find("pad")
	if !ok {
		t.Fatal("pad not on screen")
	}

	m = send(m, press(r.X, r.Y, tea.MouseButtonLeft))
	if got := m.ws.Pad().Position(); got != (vibe.Position{X: 0, Y: 0}) {
		t.Errorf("top-left = %+v, want 0,0", got)
	}
	m = send(m, motion(r.X+r.W-1, r.Y+r.H-1))
	if got := m.ws.Pad().Position(); got != (vibe.Position{X: 100, Y: 100}) {
		t.Errorf("bottom-right = %+v, want 100,100", got)
	}
	m = send(m, motion(r.X+r.W+20, r.Y-5))
	if got := m.ws.Pad().Position(); got != (vibe.Position{X: 100, Y: 0}) {
		t.Errorf("outside = %+v, want clamped 100,0", got)
	}
	m = send(m, releaseAt(r.X, r.Y), motion(r.X+5, r.Y+5))
	if got := m.ws.Pad().Position(); got != (vibe.Position{X: 100, Y: 0}) {
		t.Errorf("moved after release: %+v", got)
	}

	// Leaving and re-entering fx remounts the pad
	m = send(m, keyPress("tab"), keyPress("tab"))
	if got := m.ws.Pad().Position(); got != (vibe.Position{X: 50, Y: 50}) {
		t.Errorf("remount = %+v, want 50,50", got)
	}
}

func TestVibeCheckReverts(t *testing.T) {
	m := newTestModel(t)
	clock := &stepClock{}
	m.clock = clock
	m = send(m, keyPress("right"))

	m = send(m, keyPress("m"))
	label := m.ws.EffectLabel()
	if label == "" {
		t.Fatal("no label after vibe check")
	}
	if !strings.Contains(m.View(), "Applying "+label+" Master...") {
		t.Error("button does not show the applied label")
	}

	clock.Advance(2 * time.Second)
	m = click(t, m, "vibe", tea.MouseButtonLeft)
	clock.Advance(2 * time.Second)
	if m.ws.EffectLabel() == "" {
		t.Error("label cleared by the first timer")
	}
	clock.Advance(time.Second)
	if m.ws.EffectLabel() != "" {
		t.Errorf("label = %q, want cleared", m.ws.EffectLabel())
	}
	if !strings.Contains(m.View(), "Vibe Check (Auto-Mix)") {
		t.Error("button did not return to idle")
	}

	select {
	case <-m.updates:
	default:
		t.Error("label change did not wake the UI")
	}
}

func TestLeavingWorkspaceCancelsVibe(t *testing.T) {
	m := newTestModel(t)
	clock := &stepClock{}
	m.clock = clock
	m = send(m, keyPress("right"), keyPress("m"))
	ws := m.ws
	m = send(m, keyPress("esc"))

	if ws.EffectLabel() != "" {
		t.Errorf("label = %q after leaving, want cleared", ws.EffectLabel())
	}
	if m.ws != nil {
		t.Error("workspace kept after leaving")
	}
}

func TestPadPressMapping(t *testing.T) {
	m := newTestModel(t)
	top := func(col int) PadMsg {
		return PadMsg{ID: "test", Event: midi.PadEvent{Row: midi.TopRow, Col: col, Velocity: 127}}
	}
	grid := func(row, col int) PadMsg {
		return PadMsg{ID: "test", Event: midi.PadEvent{Row: row, Col: col, Velocity: 127}}
	}
	c := &recordingController{events: make(chan midi.PadEvent, 1)}
	m.controller = c

	m = send(m, top(midi.ButtonUp))
	if m.deck.Index() != 1 {
		t.Errorf("up: index = %d, want 1", m.deck.Index())
	}
	m = send(m, top(midi.ButtonDown), top(midi.ButtonRight))
	if m.state.Screen() != vibe.ScreenWorkspace || m.ws.Loop().Name != "Neon Nights" {
		t.Fatal("right arrow did not save the current loop")
	}

	m = send(m, grid(0, 1))
	if m.ws.Stems()[1].Active {
		t.Error("row 0 did not toggle stem 1")
	}
	m = send(m, grid(1, 2))
	if m.ws.Stems()[2].Texture != 1 {
		t.Error("row 1 did not cycle texture")
	}
	m = send(m, grid(scenePlay, midi.SceneCol))
	if m.ws.Playing() {
		t.Error("scene button did not pause")
	}
	m = send(m, grid(0, 7)) // no stem there
	if len(m.ws.Stems()) != 3 {
		t.Error("press past the stems changed the mix")
	}

	m = send(m, top(midi.ButtonLeft))
	if m.state.Screen() != vibe.ScreenDiscover {
		t.Error("left arrow did not go back")
	}

	m = send(m, PadMsg{ID: "other", Event: midi.PadEvent{Row: midi.TopRow, Col: midi.ButtonUp, Velocity: 127}})
	if m.deck.Index() != 1 {
		t.Error("press from an unknown controller was handled")
	}
}

func TestRenderSurface(t *testing.T) {
	th := theme.Default()
	state := vibe.NewState()

	leds := renderSurface(th, state, nil)
	lit := map[[2]int]midi.LEDUpdate{}
	for _, l := range leds {
		lit[[2]int{l.Row, l.Col}] = l
	}
	for _, col := range []int{midi.ButtonUp, midi.ButtonDown, midi.ButtonRight} {
		if _, ok := lit[[2]int{midi.TopRow, col}]; !ok {
			t.Errorf("discover: arrow %d dark", col)
		}
	}

	cat := catalog.Default()
	state.Save(cat.Loops[0])
	ws := vibe.NewWorkspace(state.Current(), nil)
	defer ws.Close()
	ws.ToggleStem(cat.Loops[0].Stems[0].ID)

	lit = map[[2]int]midi.LEDUpdate{}
	for _, l := range renderSurface(th, state, ws) {
		lit[[2]int{l.Row, l.Col}] = l
	}
	if _, ok := lit[[2]int{1, 0}]; ok {
		t.Error("texture pad lit for a muted stem")
	}
	if _, ok := lit[[2]int{1, 1}]; !ok {
		t.Error("texture pad dark for an active stem")
	}
	if lit[[2]int{scenePlay, midi.SceneCol}].Channel != midi.ChannelPulse {
		t.Error("play button not pulsing while playing")
	}
}

func TestDiffLEDs(t *testing.T) {
	a := midi.LEDUpdate{Row: 0, Col: 0, Color: [3]uint8{1, 2, 3}}
	b := midi.LEDUpdate{Row: 0, Col: 1, Color: [3]uint8{4, 5, 6}}
	prev := map[[2]int]midi.LEDUpdate{{0, 0}: a, {0, 1}: b}

	changed := b
	changed.Color = [3]uint8{9, 9, 9}
	updates, frame := diffLEDs(prev, []midi.LEDUpdate{a, changed})
	if len(updates) != 1 || updates[0] != changed {
		t.Errorf("updates = %+v, want only the changed pad", updates)
	}
	if len(frame) != 2 {
		t.Errorf("frame = %d pads, want 2", len(frame))
	}

	updates, _ = diffLEDs(frame, []midi.LEDUpdate{a})
	if len(updates) != 1 || updates[0] != (midi.LEDUpdate{Row: 0, Col: 1}) {
		t.Errorf("updates = %+v, want pad 0,1 switched off", updates)
	}
}

func TestSyncLEDsSendsOnlyChanges(t *testing.T) {
	m := newTestModel(t)
	c := &recordingController{events: make(chan midi.PadEvent, 1)}
	m.controller = c

	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 40})
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 40})
	if len(c.batches) != 1 {
		t.Fatalf("batches = %d, want 1 (second frame unchanged)", len(c.batches))
	}
	send(m, keyPress("right"))
	if len(c.batches) != 2 {
		t.Errorf("batches = %d, want 2 after screen change", len(c.batches))
	}
}

func TestCrowdedOrbitKeepsEveryStemClickable(t *testing.T) {
	m := newTestModel(t)
	m = send(m, keyPress("right"))
	for i := 0; i < 45; i++ {
		m.ws.AddStem(m.Catalog.Instruments[i%len(m.Catalog.Instruments)])
	}
	m.View()

	stems := m.ws.Stems()
	for i := range stems {
		id := fmt.Sprintf("stem:%d", i)
		r, ok := m.hits.Find(id)
		if !ok {
			t.Fatalf("%s not on screen", id)
		}
		if got, _ := m.hits.At(r.X+r.W/2, r.Y); got.ID != id {
			t.Errorf("click on %s lands on %q", id, got.ID)
		}
	}

	last := len(stems) - 1
	m = click(t, m, fmt.Sprintf("stem:%d", last), tea.MouseButtonLeft)
	if m.ws.Stems()[last].Active {
		t.Error("overflow stem did not toggle")
	}
}
