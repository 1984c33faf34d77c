package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit key.Binding

	// Discover
	Save    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Library key.Binding

	// Workspace
	Back       key.Binding
	Play       key.Binding
	Tab        key.Binding
	TempoUp    key.Binding
	TempoDown  key.Binding
	TempoJump  key.Binding
	TempoDrop  key.Binding
	SelectPrev key.Binding
	SelectNext key.Binding
	Toggle     key.Binding
	Texture    key.Binding
	Vibe       key.Binding
	Add        key.Binding

	// Empty workspace
	Discover key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Save:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "save")),
		Next:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "next")),
		Prev:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "prev")),
		Library: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "vibe box")),

		Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Play:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mix/fx")),
		TempoUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "tempo")),
		TempoDown:  key.NewBinding(key.WithKeys("-", "_")),
		TempoJump:  key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "tempo ±5")),
		TempoDrop:  key.NewBinding(key.WithKeys("[")),
		SelectPrev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "select")),
		SelectNext: key.NewBinding(key.WithKeys("right", "l")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Texture:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "texture")),
		Vibe:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "vibe check")),
		Add:        key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-4", "add")),

		Discover: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go discover")),
	}
}

func (k keyMap) discoverHelp() []key.Binding {
	return []key.Binding{k.Save, k.Next, k.Prev, k.Library, k.Quit}
}

func (k keyMap) workspaceHelp() []key.Binding {
	return []key.Binding{k.Back, k.Play, k.Tab, k.TempoUp, k.SelectPrev, k.Toggle, k.Texture, k.Add, k.Vibe, k.Quit}
}

func (k keyMap) emptyHelp() []key.Binding {
	return []key.Binding{k.Discover, k.Back, k.Quit}
}
