package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vibeloop/debug"
	"vibeloop/vibe"
	"vibeloop/widgets"
)

// Workspace geometry in cells
const (
	orbitWidth  = 37
	orbitHeight = 15
	orbitRX     = 14 // columns per orbit radius
	orbitRY     = 6  // rows per orbit radius

	meterWidth = 33

	padWidth  = 33
	padHeight = 11
)

func (m *Model) workspaceKey(msg tea.KeyMsg) {
	if m.ws.Empty() {
		if key.Matches(msg, m.keys.Discover, m.keys.Back) {
			m.showDiscover()
		}
		return
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.showDiscover()
	case key.Matches(msg, m.keys.Play):
		m.ws.TogglePlayback()
	case key.Matches(msg, m.keys.Tab):
		m.ws.ToggleTab()
	case key.Matches(msg, m.keys.TempoUp):
		m.ws.NudgeTempo(1)
	case key.Matches(msg, m.keys.TempoDown):
		m.ws.NudgeTempo(-1)
	case key.Matches(msg, m.keys.TempoJump):
		m.ws.NudgeTempo(5)
	case key.Matches(msg, m.keys.TempoDrop):
		m.ws.NudgeTempo(-5)
	case key.Matches(msg, m.keys.SelectPrev):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.SelectNext):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Toggle):
		if s, ok := m.selectedStem(); ok {
			m.ws.ToggleStem(s)
		}
	case key.Matches(msg, m.keys.Texture):
		if s, ok := m.selectedStem(); ok {
			m.ws.CycleTexture(s)
		}
	case key.Matches(msg, m.keys.Vibe):
		m.ws.VibeCheck()
	case key.Matches(msg, m.keys.Add):
		m.addInstrument(int(msg.String()[0] - '1'))
	}
}

func (m *Model) moveSelection(delta int) {
	n := len(m.ws.Stems())
	if n == 0 {
		return
	}
	m.selected = (m.selected + delta + n) % n
}

func (m *Model) selectedStem() (string, bool) {
	stems := m.ws.Stems()
	if m.selected < 0 || m.selected >= len(stems) {
		return "", false
	}
	return stems[m.selected].ID, true
}

func (m *Model) addInstrument(i int) {
	if i < 0 || i >= len(m.Catalog.Instruments) {
		return
	}
	m.ws.AddStem(m.Catalog.Instruments[i])
	m.selected = len(m.ws.Stems()) - 1
}

func (m *Model) workspaceMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonRight {
			return
		}
		r, ok := m.hits.At(msg.X, msg.Y)
		if !ok {
			return
		}
		m.workspaceClick(r, msg)

	case tea.MouseActionMotion:
		buttons := 0
		if msg.Button == tea.MouseButtonLeft {
			buttons = 1
		}
		if m.padDrag {
			m.padPointer(vibe.PointerMove, msg.X, msg.Y, buttons)
		}
		if m.sliding && buttons == 1 {
			m.slideTempo(msg.X)
		}

	case tea.MouseActionRelease:
		m.padDrag = false
		m.sliding = false
	}
}

func (m *Model) workspaceClick(r widgets.Region, msg tea.MouseMsg) {
	right := msg.Button == tea.MouseButtonRight
	id, arg, _ := strings.Cut(r.ID, ":")

	switch id {
	case "discover", "back":
		m.showDiscover()
	case "play":
		m.ws.TogglePlayback()
	case "tab":
		if arg == "fx" {
			m.ws.SetTab(vibe.TabFX)
		} else {
			m.ws.SetTab(vibe.TabMix)
		}
	case "stem":
		i, err := strconv.Atoi(arg)
		stems := m.ws.Stems()
		if err != nil || i < 0 || i >= len(stems) {
			return
		}
		m.selected = i
		if right {
			m.ws.CycleTexture(stems[i].ID)
		} else {
			m.ws.ToggleStem(stems[i].ID)
		}
	case "inst":
		if i, err := strconv.Atoi(arg); err == nil {
			m.addInstrument(i)
		}
	case "tempo":
		if !right {
			m.sliding = true
			m.slideTempo(msg.X)
		}
	case "pad":
		if !right {
			m.padDrag = true
			m.padPointer(vibe.PointerDown, msg.X, msg.Y, 1)
		}
	case "vibe":
		m.ws.VibeCheck()
	}
}

func (m *Model) slideTempo(x int) {
	r, ok := m.hits.Find("tempo")
	if !ok {
		return
	}
	m.ws.SetTempo(widgets.MeterValue(x-r.X, r.W, vibe.MinTempo, vibe.MaxTempo))
}

// padPointer feeds the pad. The rect runs from the first to the last cell so
// the corner cells read exactly 0 and 100.
func (m *Model) padPointer(kind vibe.PointerKind, x, y, buttons int) {
	r, ok := m.hits.Find("pad")
	if !ok {
		return
	}
	rect := vibe.Rect{
		Left:   float64(r.X),
		Top:    float64(r.Y),
		Width:  float64(r.W - 1),
		Height: float64(r.H - 1),
	}
	ev := vibe.PointerEvent{Kind: kind, X: float64(x), Y: float64(y), Buttons: buttons}
	if m.ws.Pad().HandlePointer(ev, rect) {
		pos := m.ws.Pad().Position()
		debug.LogEvery(10, "pad", "puck %.0f,%.0f", pos.X, pos.Y)
	}
}

func (m Model) viewWorkspace(f *frame) {
	if m.ws == nil || m.ws.Empty() {
		m.viewEmptyWorkspace(f)
		return
	}

	th := m.Theme
	ws := m.ws
	loop := ws.Loop()
	accent := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	muted := lipgloss.NewStyle().Foreground(th.Muted())
	fg := lipgloss.NewStyle().Foreground(th.FG())

	// Header
	playLabel := "[▶ play]"
	if ws.Playing() {
		playLabel = "[❚❚ pause]"
	}
	f.buttons(3,
		button{id: "back", label: fg.Render("[← back]")},
		button{label: accent.Render("VIBE BOX") + " " + muted.Render(fmt.Sprintf("%s • %d BPM", loop.Name, ws.Tempo()))},
		button{id: "play", label: accent.Render(playLabel)},
	)
	f.blank()

	// Orbit
	canvas, placed, overflow := m.renderOrbit()
	top := f.add(canvas.String())
	for _, s := range placed {
		f.region(fmt.Sprintf("stem:%d", s.index), s.x, top+s.y, 3, 1)
	}
	m.viewOverflow(f, overflow)

	if stems := ws.Stems(); m.selected >= 0 && m.selected < len(stems) {
		st := stems[m.selected]
		state := "muted"
		if st.Active {
			state = fmt.Sprintf("texture %d", st.Texture+1)
		}
		swatch := widgets.RenderSwatch(th.LoopGradient(*loop).Lookup(stemNorm(m.selected, len(stems))))
		f.add(swatch + " " + muted.Render(fmt.Sprintf("%s · %s · %s", st.Name, st.Kind, state)))
	} else {
		f.add(muted.Render("no stems yet"))
	}
	f.blank()

	// Tabs
	tabStyle := func(on bool) lipgloss.Style {
		if on {
			return accent.Underline(true)
		}
		return muted
	}
	f.buttons(4,
		button{id: "tab:mix", label: tabStyle(ws.Tab() == vibe.TabMix).Render("STACKING")},
		button{id: "tab:fx", label: tabStyle(ws.Tab() == vibe.TabFX).Render("GYRO-FX")},
	)
	f.blank()

	if ws.Tab() == vibe.TabMix {
		m.viewMixTab(f)
	} else {
		m.viewFXTab(f)
	}
	f.blank()

	// One-tap master
	vibeLabel := "✦ Vibe Check (Auto-Mix)"
	vibeStyle := lipgloss.NewStyle().Foreground(th.Bright()).Background(th.Accent()).Bold(true).Padding(0, 2)
	if label := ws.EffectLabel(); label != "" {
		vibeLabel = fmt.Sprintf("✦ Applying %s Master...", label)
		vibeStyle = vibeStyle.Background(th.Active())
	}
	f.buttons(0, button{id: "vibe", label: vibeStyle.Render(vibeLabel)})
	f.blank()
	f.add(m.help.ShortHelpView(m.keys.workspaceHelp()))
}

func (m Model) viewMixTab(f *frame) {
	th := m.Theme
	muted := lipgloss.NewStyle().Foreground(th.Muted())
	accent := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)

	f.add(muted.Bold(true).Render("TEMPO") + strings.Repeat(" ", meterWidth-5-7) + accent.Render(fmt.Sprintf("%3d BPM", m.ws.Tempo())))
	meter := widgets.RenderMeter(m.ws.Tempo(), vibe.MinTempo, vibe.MaxTempo, meterWidth,
		lipgloss.NewStyle().Foreground(th.Accent()), muted)
	top := f.add(meter)
	f.region("tempo", 0, top, meterWidth, 1)
	f.add(muted.Render("Pitch-Preserving Shift Active"))
	f.blank()

	f.add(muted.Bold(true).Render("LIBRARY") + muted.Render("  click or 1-4 to stack"))
	var items []button
	for i, inst := range m.Catalog.Instruments {
		label := fmt.Sprintf("[%d %c %s]", i+1, th.KindSymbol(inst.Kind), inst.Name)
		items = append(items, button{id: fmt.Sprintf("inst:%d", i), label: lipgloss.NewStyle().Foreground(th.FG()).Render(label)})
	}
	// Two per row keeps the library inside a narrow terminal
	for i := 0; i < len(items); i += 2 {
		f.buttons(1, items[i:min(i+2, len(items))]...)
	}
}

func (m Model) viewFXTab(f *frame) {
	th := m.Theme
	muted := lipgloss.NewStyle().Foreground(th.Muted())

	f.add(muted.Bold(true).Render("XY PAD MORPHING") + muted.Render("  drag to morph"))

	canvas := widgets.NewCanvas(padWidth, padHeight)
	grid := lipgloss.NewStyle().Foreground(th.Surface())
	for y := 0; y < padHeight; y++ {
		for x := 0; x < padWidth; x++ {
			if x%(padWidth/4) == 0 || y%(padHeight/3) == 0 {
				canvas.Set(x, y, th.Symbols.Grid, grid)
			}
		}
	}
	label := lipgloss.NewStyle().Foreground(th.Muted()).Bold(true)
	canvas.TextCentered(padWidth/2, 0, "BRIGHT", label)
	canvas.TextCentered(padWidth/2, padHeight-1, "DARK", label)
	canvas.Text(1, padHeight/2, "SMOOTH", label)
	canvas.Text(padWidth-6, padHeight/2, "ROUGH", label)

	pos := m.ws.Pad().Position()
	px := int(math.Round(pos.X / 100 * float64(padWidth-1)))
	py := int(math.Round(pos.Y / 100 * float64(padHeight-1)))
	canvas.Set(px, py, th.Symbols.Puck, lipgloss.NewStyle().Foreground(th.Cursor()).Bold(true))

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(th.Muted())
	top := f.add(box.Render(canvas.String()))
	f.region("pad", 1, top+1, padWidth, padHeight)
	f.add(muted.Render(fmt.Sprintf("x %3.0f%%  y %3.0f%%", pos.X, pos.Y)))
}

// placedStem is where a stem landed on the orbit canvas
type placedStem struct {
	index int
	x, y  int // leftmost cell of the 3-cell glyph
}

// renderOrbit draws the mix core with the stems around it. Stems whose glyph
// would cover one already drawn are returned as overflow instead.
func (m Model) renderOrbit() (*widgets.Canvas, []placedStem, []int) {
	th := m.Theme
	ws := m.ws
	canvas := widgets.NewCanvas(orbitWidth, orbitHeight)
	cx, cy := orbitWidth/2, orbitHeight/2

	// Dashed ring
	ring := lipgloss.NewStyle().Foreground(th.Surface())
	for i := 0; i < 48; i++ {
		a := float64(i) / 48 * 2 * math.Pi
		canvas.Set(cx+int(math.Round(math.Cos(a)*orbitRX)), cy+int(math.Round(math.Sin(a)*orbitRY)), '·', ring)
	}

	core := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	if !ws.Playing() {
		core = core.Foreground(th.Muted())
	}
	canvas.Set(cx, cy, th.Symbols.Core, core)

	radius := m.Config.Workspace.OrbitRadius
	stems := ws.Stems()
	var placed []placedStem
	var overflow []int
	taken := make(map[[2]int]bool)
	for i, p := range ws.Orbit(radius) {
		s := stems[i]
		x := cx + int(math.Round(p.X/radius*orbitRX))
		y := cy + int(math.Round(p.Y/radius*orbitRY))
		if taken[[2]int{x - 1, y}] || taken[[2]int{x, y}] || taken[[2]int{x + 1, y}] {
			overflow = append(overflow, i)
			continue
		}
		taken[[2]int{x - 1, y}], taken[[2]int{x, y}], taken[[2]int{x + 1, y}] = true, true, true

		style := lipgloss.NewStyle().Foreground(th.Muted())
		glyph := th.Symbols.StemInactive
		if s.Active {
			style = lipgloss.NewStyle().Foreground(th.LoopColor(*ws.Loop(), stemNorm(i, len(stems)))).Bold(true)
			glyph = th.Symbols.StemActive
		}
		if i == m.selected {
			glyph = th.Symbols.StemCursor
			style = style.Reverse(true)
		}

		canvas.Set(x-1, y, glyph, style)
		canvas.Set(x, y, th.KindSymbol(s.Kind), style)
		if s.Active {
			canvas.Set(x+1, y, rune('1'+s.Texture), style)
		} else {
			canvas.Set(x+1, y, ' ', style)
		}
		placed = append(placed, placedStem{index: i, x: x - 1, y: y})
	}
	return canvas, placed, overflow
}

// viewOverflow lists the stems with no room left on the orbit
func (m Model) viewOverflow(f *frame, overflow []int) {
	if len(overflow) == 0 {
		return
	}
	stems := m.ws.Stems()
	muted := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	var items []button
	for _, i := range overflow {
		s := stems[i]
		style := muted
		if s.Active {
			style = lipgloss.NewStyle().Foreground(m.Theme.LoopColor(*m.ws.Loop(), stemNorm(i, len(stems))))
		}
		if i == m.selected {
			style = style.Reverse(true)
		}
		label := fmt.Sprintf("[%c%d]", m.Theme.KindSymbol(s.Kind), i+1)
		items = append(items, button{id: fmt.Sprintf("stem:%d", i), label: style.Render(label)})
	}
	f.add(muted.Render(fmt.Sprintf("+%d more", len(overflow))))
	for i := 0; i < len(items); i += 8 {
		f.buttons(1, items[i:min(i+8, len(items))]...)
	}
}

func (m Model) viewEmptyWorkspace(f *frame) {
	th := m.Theme
	f.blank()
	f.add(lipgloss.NewStyle().Foreground(th.Surface()).Render("    ◎"))
	f.blank()
	f.add(lipgloss.NewStyle().Foreground(th.FG()).Bold(true).Render("Workspace Empty"))
	f.add(lipgloss.NewStyle().Foreground(th.Muted()).Render("Swipe right on a vibe in Discover to start mixing."))
	f.blank()
	f.buttons(0, button{
		id:    "discover",
		label: lipgloss.NewStyle().Foreground(th.Bright()).Background(th.Accent()).Bold(true).Padding(0, 2).Render("Go Discover"),
	})
	f.blank()
	f.add(m.help.ShortHelpView(m.keys.emptyHelp()))
}

// stemNorm spreads n stems across a loop's gradient
func stemNorm(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
