package tui

import (
	"encoding/json"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vibeloop/catalog"
	"vibeloop/config"
	"vibeloop/debug"
	"vibeloop/midi"
	"vibeloop/theme"
	"vibeloop/vibe"
	"vibeloop/widgets"
)

// dragState is a press on the deck card that has not been released yet
type dragState struct {
	startX, startY int
}

type Model struct {
	Catalog   *catalog.Catalog
	Config    *config.Config
	Theme     *theme.Theme
	DeviceMgr *midi.DeviceManager // nil when controllers are disabled

	state *vibe.State
	deck  *vibe.Deck
	ws    *vibe.Workspace // live only on the workspace screen

	keys keyMap
	help help.Model

	width, height int
	quitting      bool

	drag     *dragState
	padDrag  bool
	sliding  bool
	selected int // stem cursor

	hits    *widgets.Hits
	updates chan struct{}
	clock   vibe.Clock // nil: wall clock

	controller midi.Controller
	leds       map[[2]int]midi.LEDUpdate // last frame sent, for diffing
}

// UpdateMsg wakes the UI after an auto-mix label change
type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

// PadMsg is a pad press from the grid controller with the given id
type PadMsg struct {
	ID    string
	Event midi.PadEvent
}

// NewModel builds the UI over a catalog. deviceMgr may be nil.
func NewModel(cat *catalog.Catalog, cfg *config.Config, th *theme.Theme, deviceMgr *midi.DeviceManager) (Model, error) {
	deck, err := vibe.NewDeck(cat.Loops)
	if err != nil {
		return Model{}, err
	}
	return Model{
		Catalog:   cat,
		Config:    cfg,
		Theme:     th,
		DeviceMgr: deviceMgr,
		state:     vibe.NewState(),
		deck:      deck,
		keys:      newKeyMap(),
		help:      help.New(),
		width:     64,
		height:    40,
		hits:      &widgets.Hits{},
		updates:   make(chan struct{}, 1),
		leds:      make(map[[2]int]midi.LEDUpdate),
	}, nil
}

func ListenForUpdates(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func ListenForPads(c midi.Controller) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-c.PadEvents()
		if !ok {
			return nil
		}
		return PadMsg{ID: c.ID(), Event: ev}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.updates)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width - 2*margin

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			m.leaveWorkspace()
			return m, tea.Quit
		}
		if m.state.Screen() == vibe.ScreenDiscover {
			m.discoverKey(msg)
		} else {
			m.workspaceKey(msg)
		}

	case tea.MouseMsg:
		if m.state.Screen() == vibe.ScreenDiscover {
			m.discoverMouse(msg)
		} else {
			m.workspaceMouse(msg)
		}

	case UpdateMsg:
		cmd = ListenForUpdates(m.updates)

	case DeviceEventMsg:
		cmd = m.deviceEvent(midi.DeviceEvent(msg))

	case PadMsg:
		if m.controller != nil && msg.ID == m.controller.ID() {
			m.padPress(msg.Event)
			cmd = ListenForPads(m.controller)
		}
	}

	m.syncLEDs()
	return m, cmd
}

func (m *Model) deviceEvent(event midi.DeviceEvent) tea.Cmd {
	listen := ListenForDevices(m.DeviceMgr)
	switch event.Type {
	case midi.DeviceConnected:
		debug.Log("ctrl", "using controller %s", event.ID)
		m.controller = event.Controller
		m.leds = make(map[[2]int]midi.LEDUpdate) // reset state - diff will handle clearing
		return tea.Batch(listen, ListenForPads(event.Controller))
	case midi.DeviceDisconnected:
		if m.controller != nil && m.controller.ID() == event.ID {
			m.controller = nil
		}
	}
	return listen
}

// notify wakes the render loop without blocking the timer goroutine
func (m Model) notify(string) {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

// enterWorkspace shows the workspace with a fresh session on the current loop
func (m *Model) enterWorkspace() {
	m.leaveWorkspace()
	m.state.ShowWorkspace()

	opts := []vibe.AutoMixOption{vibe.WithOnChange(m.notify)}
	if m.clock != nil {
		opts = append(opts, vibe.WithClock(m.clock))
	}
	m.ws = vibe.NewWorkspace(m.state.Current(), vibe.NewAutoMix(m.Config.VibeRevert(), opts...))
	m.selected = 0

	if m.ws.Empty() {
		debug.Log("ws", "open empty workspace")
	} else {
		debug.Log("ws", "open %q with %d stems", m.ws.Loop().Name, len(m.ws.Stems()))
	}
}

// leaveWorkspace ends the session, if any
func (m *Model) leaveWorkspace() {
	if m.ws == nil {
		return
	}
	if data, err := json.Marshal(m.ws.Snapshot()); err == nil {
		debug.Log("ws", "close %s", data)
	}
	m.ws.Close()
	m.ws = nil
	m.padDrag = false
	m.sliding = false
}

func (m *Model) showDiscover() {
	m.leaveWorkspace()
	m.state.ShowDiscover()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	f := newFrame(m.hits)
	f.blank()
	if m.state.Screen() == vibe.ScreenDiscover {
		m.viewDiscover(f)
	} else {
		m.viewWorkspace(f)
	}
	return f.String()
}
