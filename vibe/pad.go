package vibe

// Position is the pad puck, both axes in percent of the pad
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the pad's bounding box in the same space as pointer coordinates
type Rect struct {
	Left, Top, Width, Height float64
}

// PointerKind distinguishes the press that starts a drag from later moves
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
)

// PointerEvent is a pointer sample. Buttons is a bitmask, 1 = primary.
type PointerEvent struct {
	Kind    PointerKind
	X, Y    float64
	Buttons int
}

// Pad is the two-axis morphing control
type Pad struct {
	pos Position
}

// NewPad returns a pad with the puck centred
func NewPad() *Pad {
	return &Pad{pos: Position{X: 50, Y: 50}}
}

func (p *Pad) Position() Position {
	return p.pos
}

// HandlePointer moves the puck under the pointer. Presses and moves only
// count while the primary button alone is held. Reports whether the position
// changed.
func (p *Pad) HandlePointer(ev PointerEvent, rect Rect) bool {
	if ev.Buttons != 1 {
		return false
	}
	if rect.Width <= 0 || rect.Height <= 0 {
		return false
	}

	next := Position{
		X: clamp((ev.X-rect.Left)/rect.Width*100, 0, 100),
		Y: clamp((ev.Y-rect.Top)/rect.Height*100, 0, 100),
	}
	if next == p.pos {
		return false
	}
	p.pos = next
	return true
}
