package vibe

import "vibeloop/catalog"

// Screen identifies which view is visible
type Screen int

const (
	ScreenDiscover Screen = iota
	ScreenWorkspace
)

func (s Screen) String() string {
	switch s {
	case ScreenDiscover:
		return "discover"
	case ScreenWorkspace:
		return "workspace"
	}
	return "unknown"
}

// State is the root controller: visible screen, saved loops and the loop
// handed to the workspace. It is passed down explicitly, never global.
type State struct {
	screen  Screen
	saved   []catalog.Loop
	current *catalog.Loop
}

// NewState starts on the discover screen with nothing saved
func NewState() *State {
	return &State{screen: ScreenDiscover}
}

// Save appends the loop to the saved list, makes it current and opens the workspace
func (s *State) Save(loop catalog.Loop) {
	s.saved = append(s.saved, loop)
	l := loop
	s.current = &l
	s.screen = ScreenWorkspace
}

// ShowWorkspace switches to the workspace. The current loop may be nil.
func (s *State) ShowWorkspace() {
	s.screen = ScreenWorkspace
}

// ShowDiscover switches back to the deck
func (s *State) ShowDiscover() {
	s.screen = ScreenDiscover
}

func (s *State) Screen() Screen {
	return s.screen
}

// Current returns the loop handed to the workspace, or nil
func (s *State) Current() *catalog.Loop {
	return s.current
}

// Saved returns a copy of the saved loops in save order
func (s *State) Saved() []catalog.Loop {
	out := make([]catalog.Loop, len(s.saved))
	copy(out, s.saved)
	return out
}

func (s *State) SavedCount() int {
	return len(s.saved)
}
