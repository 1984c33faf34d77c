package vibe

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"vibeloop/catalog"
)

func neonNights() *catalog.Loop {
	l := catalog.Default().Loops[0]
	return &l
}

func TestNewWorkspaceFromLoop(t *testing.T) {
	loop := neonNights()
	w := NewWorkspace(loop, nil)
	defer w.Close()

	if w.Empty() {
		t.Fatal("workspace with loop reports empty")
	}
	if w.Tempo() != 124 {
		t.Errorf("Tempo = %d, want 124", w.Tempo())
	}
	if len(w.Stems()) != 3 {
		t.Errorf("len(Stems) = %d, want 3", len(w.Stems()))
	}
	if w.Tab() != TabMix || !w.Playing() || w.EffectLabel() != "" {
		t.Errorf("tab %v playing %v effect %q, want mix/true/empty", w.Tab(), w.Playing(), w.EffectLabel())
	}

	w.ToggleStem("d1")
	if !loop.Stems[0].Active {
		t.Error("toggling a workspace stem mutated the loop")
	}
}

func TestNewWorkspaceEmpty(t *testing.T) {
	w := NewWorkspace(nil, nil)
	if !w.Empty() {
		t.Fatal("workspace without loop not empty")
	}
	if w.Tempo() != DefaultTempo || len(w.Stems()) != 0 {
		t.Errorf("tempo %d stems %d, want defaults", w.Tempo(), len(w.Stems()))
	}
}

func TestAddStem(t *testing.T) {
	w := NewWorkspace(neonNights(), nil)
	inst := catalog.Instrument{ID: "new_vocal", Kind: catalog.KindVocal, Name: "Chopped Vox"}

	a := w.AddStem(inst)
	b := w.AddStem(inst)

	stems := w.Stems()
	if len(stems) != 5 {
		t.Fatalf("len(Stems) = %d, want 5", len(stems))
	}
	if a.ID == b.ID || a.ID == inst.ID {
		t.Errorf("stem ids not fresh: %q %q", a.ID, b.ID)
	}
	last := stems[4]
	if last.Kind != catalog.KindVocal || last.Name != "Chopped Vox" || !last.Active || last.Texture != 0 {
		t.Errorf("added stem = %+v", last)
	}
}

func TestToggleStem(t *testing.T) {
	w := NewWorkspace(neonNights(), nil)

	w.ToggleStem("b1")
	if w.Stems()[1].Active {
		t.Error("b1 still active after toggle")
	}
	w.ToggleStem("b1")
	if !w.Stems()[1].Active {
		t.Error("b1 inactive after second toggle")
	}

	before := w.Stems()
	w.ToggleStem("nope")
	w.CycleTexture("nope")
	if !reflect.DeepEqual(before, w.Stems()) {
		t.Errorf("unknown id changed stems: %+v -> %+v", before, w.Stems())
	}
}

func TestCycleTexture(t *testing.T) {
	w := NewWorkspace(neonNights(), nil)

	for i := 1; i <= 10; i++ {
		w.CycleTexture("s1")
		got := w.Stems()[2].Texture
		if got != i%3 {
			t.Fatalf("texture after %d cycles = %d, want %d", i, got, i%3)
		}
	}

	w = NewWorkspace(neonNights(), nil)
	orig := w.Stems()[0].Texture
	for i := 0; i < 3; i++ {
		w.CycleTexture("d1")
	}
	if w.Stems()[0].Texture != orig {
		t.Errorf("texture after 3 cycles = %d, want %d", w.Stems()[0].Texture, orig)
	}
}

func TestSetTempoClamps(t *testing.T) {
	w := NewWorkspace(neonNights(), nil)

	tests := []struct{ in, want int }{
		{30, 60},
		{300, 180},
		{100, 100},
		{60, 60},
		{180, 180},
		{-5, 60},
	}
	for _, tt := range tests {
		w.SetTempo(tt.in)
		if w.Tempo() != tt.want {
			t.Errorf("SetTempo(%d) -> %d, want %d", tt.in, w.Tempo(), tt.want)
		}
	}

	w.SetTempo(178)
	w.NudgeTempo(5)
	if w.Tempo() != 180 {
		t.Errorf("NudgeTempo past max = %d, want 180", w.Tempo())
	}
}

func TestTogglePlayback(t *testing.T) {
	w := NewWorkspace(nil, nil)
	w.TogglePlayback()
	if w.Playing() {
		t.Error("still playing after toggle")
	}
	w.TogglePlayback()
	if !w.Playing() {
		t.Error("not playing after second toggle")
	}
}

func TestSetTabRemountsPad(t *testing.T) {
	w := NewWorkspace(neonNights(), nil)
	w.SetTab(TabFX)

	w.Pad().HandlePointer(PointerEvent{Kind: PointerDown, X: 0, Y: 0, Buttons: 1}, Rect{Width: 10, Height: 10})
	if w.Pad().Position() != (Position{}) {
		t.Fatalf("pad = %+v, want origin", w.Pad().Position())
	}

	w.SetTab(TabFX)
	if w.Pad().Position() != (Position{}) {
		t.Error("re-selecting fx tab reset the pad")
	}

	w.ToggleTab()
	w.ToggleTab()
	if w.Tab() != TabFX {
		t.Fatalf("tab = %v, want fx", w.Tab())
	}
	if w.Pad().Position() != (Position{X: 50, Y: 50}) {
		t.Errorf("pad after remount = %+v, want centre", w.Pad().Position())
	}
}

func TestWorkspaceVibeCheck(t *testing.T) {
	clock := &fakeClock{}
	w := NewWorkspace(neonNights(), NewAutoMix(3*time.Second, WithClock(clock), WithPicker(sequence(1))))

	if got := w.VibeCheck(); got != "Stadium" {
		t.Fatalf("VibeCheck = %q, want Stadium", got)
	}
	if w.EffectLabel() != "Stadium" {
		t.Errorf("EffectLabel = %q", w.EffectLabel())
	}

	w.Close()
	clock.Advance(5 * time.Second)
	if w.EffectLabel() != "" {
		t.Errorf("EffectLabel after Close = %q", w.EffectLabel())
	}
}

func TestWorkspaceOrbitFollowsStems(t *testing.T) {
	w := NewWorkspace(neonNights(), nil)
	if n := len(w.Orbit(DefaultOrbitRadius)); n != 3 {
		t.Fatalf("orbit has %d points, want 3", n)
	}

	w.AddStem(catalog.Instrument{Kind: catalog.KindDrum, Name: "House Beat"})
	pts := w.Orbit(DefaultOrbitRadius)
	if len(pts) != 4 {
		t.Fatalf("orbit has %d points, want 4", len(pts))
	}
	// Four stems sit on the axes; the second is straight below the core.
	if math.Abs(pts[1].X) > 1e-9 || math.Abs(pts[1].Y-100) > 1e-9 {
		t.Errorf("pts[1] = %+v, want (0, 100)", pts[1])
	}
}

func TestSnapshot(t *testing.T) {
	w := NewWorkspace(neonNights(), nil)
	w.SetTempo(140)
	w.ToggleStem("s1")

	data, err := json.Marshal(w.Snapshot())
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["loopId"] != "1" || got["tempo"] != float64(140) || got["tab"] != "mix" {
		t.Errorf("snapshot = %s", data)
	}
	if _, ok := got["effect"]; ok {
		t.Errorf("idle snapshot carries effect: %s", data)
	}
}
