package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vibeloop/debug"
	"vibeloop/theme"
	"vibeloop/vibe"
	"vibeloop/widgets"
)

// Card geometry in cells. The card can slide within the slack around it.
const (
	cardWidth  = 36
	cardHeight = 11
	cardSlackX = 6
	cardSlackY = 2
)

func (m *Model) discoverKey(msg tea.KeyMsg) {
	// Keys are swipes just past the threshold so they share the gesture table.
	t := m.Config.Gesture.Threshold + 1
	switch {
	case key.Matches(msg, m.keys.Save):
		m.release(t, 0)
	case key.Matches(msg, m.keys.Next):
		m.release(0, -t)
	case key.Matches(msg, m.keys.Prev):
		m.release(0, t)
	case key.Matches(msg, m.keys.Library):
		m.enterWorkspace()
	}
}

func (m *Model) discoverMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			r, ok := m.hits.At(msg.X, msg.Y)
			if !ok {
				return
			}
			switch r.ID {
			case "card":
				m.drag = &dragState{startX: msg.X, startY: msg.Y}
				m.deck.Drag(0, 0)
			case "library":
				m.enterWorkspace()
			}
		case tea.MouseButtonWheelUp:
			m.release(0, -(m.Config.Gesture.Threshold + 1))
		case tea.MouseButtonWheelDown:
			m.release(0, m.Config.Gesture.Threshold+1)
		}

	case tea.MouseActionMotion:
		if m.drag != nil {
			m.deck.Drag(m.dragOffset(msg.X, msg.Y))
		}

	case tea.MouseActionRelease:
		if m.drag != nil {
			dx, dy := m.dragOffset(msg.X, msg.Y)
			m.drag = nil
			m.release(dx, dy)
		}
	}
}

// dragOffset converts the cells travelled since the press into gesture units
func (m *Model) dragOffset(x, y int) (dx, dy float64) {
	g := m.Config.Gesture
	return float64(x-m.drag.startX) * g.UnitsPerColumn, float64(y-m.drag.startY) * g.UnitsPerRow
}

// release resolves a swipe; a save opens the workspace on the saved loop
func (m *Model) release(dx, dy float64) {
	before := m.deck.Current()
	action := m.deck.Release(dx, dy, m.Config.Gesture.Threshold, m.state.Save)
	debug.Log("deck", "release (%.0f, %.0f) on %q -> %s, now %d/%d", dx, dy, before.Name, action, m.deck.Index()+1, m.deck.Len())
	if action == vibe.ActionSave {
		m.enterWorkspace()
	}
}

func (m Model) viewDiscover(f *frame) {
	th := m.Theme
	title := lipgloss.NewStyle().Bold(true).Foreground(th.FG()).Render("Vibe") +
		lipgloss.NewStyle().Bold(true).Foreground(th.Accent()).Render("Loop")
	badgeStyle := lipgloss.NewStyle().Foreground(th.Bright()).Background(th.Accent()).Bold(true)
	library := lipgloss.NewStyle().Foreground(th.FG()).Render("[▤ box]") + widgets.RenderBadge(m.state.SavedCount(), badgeStyle)

	f.buttons(max(1, cardWidth+2*cardSlackX-lipgloss.Width(title)-lipgloss.Width(library)),
		button{label: title},
		button{id: "library", label: library},
	)
	f.blank()

	hint := lipgloss.NewStyle().Foreground(th.Muted()).Bold(true)
	f.add(centerIn(cardWidth+2*cardSlackX, hint.Render("↑ NEXT VIBE")))

	// Card area: the card shifts inside it with the drag
	off := m.deck.Offset()
	g := m.Config.Gesture
	shiftX := clampInt(int(math.Round(off.X/g.UnitsPerColumn)), -cardSlackX, cardSlackX)
	shiftY := clampInt(int(math.Round(off.Y/g.UnitsPerRow)), -cardSlackY, cardSlackY)

	card := m.renderCard()
	var area []string
	for i := 0; i < cardSlackY+shiftY; i++ {
		area = append(area, "")
	}
	indent := strings.Repeat(" ", cardSlackX+shiftX)
	for _, line := range strings.Split(card, "\n") {
		area = append(area, indent+line)
	}
	for len(area) < cardHeight+2+2*cardSlackY {
		area = append(area, "")
	}
	top := f.add(strings.Join(area, "\n"))
	f.region("card", 0, top, cardWidth+2*cardSlackX, len(area))

	save := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	f.add(lipgloss.PlaceHorizontal(cardWidth+2*cardSlackX, lipgloss.Right, save.Render("SAVE TO BOX →")))
	f.blank()

	foot := lipgloss.NewStyle().Foreground(th.Muted())
	f.add(foot.Render("Swipe ") + save.Render("Right") + foot.Render(" to mix this vibe"))
	f.add(foot.Render(fmt.Sprintf("%d/%d", m.deck.Index()+1, m.deck.Len())))
	f.blank()
	f.add(m.help.ShortHelpView(m.keys.discoverHelp()))
}

// renderCard draws the current loop. Horizontal travel fades the text and
// tilts the border colour, vertical travel narrows the card.
func (m Model) renderCard() string {
	th := m.Theme
	loop := m.deck.Current()
	grad := th.LoopGradient(loop)

	width := int(math.Round(cardWidth * m.deck.Scale()))
	inner := width - 4

	text := blend(th.RGB(theme.RoleBG), th.RGB(theme.RoleFG), m.deck.Fade())
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(text.Hex()))
	nameStyle := textStyle.Bold(true)
	chip := lipgloss.NewStyle().Foreground(th.Bright()).Background(th.Surface()).Padding(0, 1)

	rings := lipgloss.NewStyle().Foreground(th.LoopColor(loop, 0.5)).Render("(( ( ♫ ) ))")

	lines := []string{
		widgets.RenderGradient(inner, func(n float64) [3]uint8 { return grad.Lookup(n) }),
		"",
		lipgloss.PlaceHorizontal(inner, lipgloss.Center, rings),
		"",
		chip.Render(strings.ToUpper(loop.Genre)) + " " + chip.Render(fmt.Sprintf("%d BPM", loop.BPM)),
		nameStyle.Render(loop.Name),
		textStyle.Render("✦ AI Curated Loop"),
		"",
		m.gesturePreview(inner),
	}

	tilt := (m.deck.Tilt() + 10) / 20 // 0..1 across the gradient
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(grad.Lookup(tilt).Hex())).
		Padding(0, 1).
		Width(width - 2).
		Height(cardHeight)
	return border.Render(strings.Join(lines, "\n"))
}

// gesturePreview names the action the card would take if released now
func (m Model) gesturePreview(width int) string {
	off := m.deck.Offset()
	style := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)
	var label string
	switch vibe.ResolveGesture(off.X, off.Y, m.Config.Gesture.Threshold) {
	case vibe.ActionSave:
		label = "♥ SAVE"
	case vibe.ActionNext:
		label = "↑ NEXT"
	case vibe.ActionPrev:
		label = "↓ BACK"
	default:
		return ""
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(label))
}

func blend(a, b theme.RGB, t float64) theme.RGB {
	p := theme.Palette{Colors: []theme.RGB{a, b}}
	return p.Lookup(t)
}

func centerIn(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
