package vibe

import (
	"github.com/google/uuid"

	"vibeloop/catalog"
	"vibeloop/debug"
)

// Tempo limits of the workspace slider
const (
	MinTempo     = 60
	MaxTempo     = 180
	DefaultTempo = 120
)

// Tab is the control panel below the orbit
type Tab int

const (
	TabMix Tab = iota
	TabFX
)

func (t Tab) String() string {
	if t == TabFX {
		return "fx"
	}
	return "mix"
}

// Workspace is the mixing session for one loop. It lives from entering the
// workspace screen until leaving it; nothing is persisted.
type Workspace struct {
	loop    *catalog.Loop
	tempo   int
	stems   []catalog.Stem
	tab     Tab
	playing bool
	pad     *Pad
	vibe    *AutoMix
}

// NewWorkspace starts a session on loop, which may be nil for the empty
// placeholder. The auto-mix is owned by the workspace from here on.
func NewWorkspace(loop *catalog.Loop, vibe *AutoMix) *Workspace {
	if vibe == nil {
		vibe = NewAutoMix(DefaultVibeRevert)
	}
	w := &Workspace{
		tempo:   DefaultTempo,
		stems:   []catalog.Stem{},
		tab:     TabMix,
		playing: true,
		pad:     NewPad(),
		vibe:    vibe,
	}
	if loop != nil {
		l := *loop
		w.loop = &l
		if l.BPM > 0 {
			w.tempo = l.BPM
		}
		w.stems = l.CopyStems()
	}
	return w
}

// Empty reports that no loop was handed in
func (w *Workspace) Empty() bool {
	return w.loop == nil
}

func (w *Workspace) Loop() *catalog.Loop {
	return w.loop
}

func (w *Workspace) Tempo() int {
	return w.tempo
}

// Stems returns a copy of the stems in orbit order
func (w *Workspace) Stems() []catalog.Stem {
	out := make([]catalog.Stem, len(w.stems))
	copy(out, w.stems)
	return out
}

func (w *Workspace) Tab() Tab {
	return w.tab
}

func (w *Workspace) Playing() bool {
	return w.playing
}

func (w *Workspace) Pad() *Pad {
	return w.pad
}

// EffectLabel is the vibe check label currently showing, "" when idle
func (w *Workspace) EffectLabel() string {
	return w.vibe.Label()
}

// AddStem appends a fresh active stem built from an instrument template
func (w *Workspace) AddStem(inst catalog.Instrument) catalog.Stem {
	s := catalog.Stem{
		ID:      uuid.NewString(),
		Kind:    inst.Kind,
		Name:    inst.Name,
		Active:  true,
		Texture: 0,
	}
	w.stems = append(w.stems, s)
	debug.Log("ws", "add stem %s (%s) -> %d stems", s.Name, s.Kind, len(w.stems))
	return s
}

// ToggleStem flips the active flag of the stem with id; unknown ids are ignored
func (w *Workspace) ToggleStem(id string) {
	if i := w.find(id); i >= 0 {
		w.stems[i].Active = !w.stems[i].Active
	}
}

// CycleTexture steps the stem's texture 0 -> 1 -> 2 -> 0; unknown ids are ignored
func (w *Workspace) CycleTexture(id string) {
	if i := w.find(id); i >= 0 {
		w.stems[i].Texture = (w.stems[i].Texture + 1) % catalog.TextureLevels
	}
}

func (w *Workspace) find(id string) int {
	for i := range w.stems {
		if w.stems[i].ID == id {
			return i
		}
	}
	return -1
}

// SetTempo stores bpm clamped to the slider range
func (w *Workspace) SetTempo(bpm int) {
	w.tempo = max(MinTempo, min(MaxTempo, bpm))
}

// NudgeTempo moves the tempo by delta, clamped
func (w *Workspace) NudgeTempo(delta int) {
	w.SetTempo(w.tempo + delta)
}

// TogglePlayback flips the play state; there is no audio behind it
func (w *Workspace) TogglePlayback() {
	w.playing = !w.playing
}

// SetTab switches the control panel. Entering the fx tab mounts a fresh pad.
func (w *Workspace) SetTab(t Tab) {
	if t == TabFX && w.tab != TabFX {
		w.pad = NewPad()
	}
	w.tab = t
}

// ToggleTab flips between mix and fx
func (w *Workspace) ToggleTab() {
	if w.tab == TabMix {
		w.SetTab(TabFX)
	} else {
		w.SetTab(TabMix)
	}
}

// VibeCheck runs the auto-mix and returns the chosen label
func (w *Workspace) VibeCheck() string {
	label := w.vibe.Apply()
	debug.Log("automix", "vibe check -> %s", label)
	return label
}

// Orbit returns the stem positions around the core in stored order
func (w *Workspace) Orbit(radius float64) []Point {
	return OrbitLayout(len(w.stems), radius)
}

// Close cancels the pending auto-mix revert
func (w *Workspace) Close() {
	w.vibe.Stop()
}

// Snapshot is a serialisable copy of the mix state
type Snapshot struct {
	LoopID  string         `json:"loopId,omitempty"`
	Tempo   int            `json:"tempo"`
	Stems   []catalog.Stem `json:"stems"`
	Tab     string         `json:"tab"`
	Playing bool           `json:"playing"`
	Effect  string         `json:"effect,omitempty"`
	Pad     Position       `json:"pad"`
}

func (w *Workspace) Snapshot() Snapshot {
	s := Snapshot{
		Tempo:   w.tempo,
		Stems:   w.Stems(),
		Tab:     w.tab.String(),
		Playing: w.playing,
		Effect:  w.vibe.Label(),
		Pad:     w.pad.Position(),
	}
	if w.loop != nil {
		s.LoopID = w.loop.ID
	}
	return s
}
