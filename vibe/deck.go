package vibe

import (
	"errors"
	"math"

	"vibeloop/catalog"
)

// DefaultThreshold is the drag distance needed to resolve a swipe
const DefaultThreshold = 100.0

// Action is the outcome of a released drag on the deck
type Action int

const (
	ActionCancel Action = iota
	ActionSave
	ActionNext
	ActionPrev
)

func (a Action) String() string {
	switch a {
	case ActionCancel:
		return "cancel"
	case ActionSave:
		return "save"
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	}
	return "unknown"
}

// ResolveGesture maps a drag-release offset to an action. The horizontal
// save check wins over the vertical ones.
func ResolveGesture(dx, dy, threshold float64) Action {
	switch {
	case dx > threshold:
		return ActionSave
	case dy < -threshold:
		return ActionNext
	case dy > threshold:
		return ActionPrev
	default:
		return ActionCancel
	}
}

// Offset is the live drag offset of the card in gesture units
type Offset struct {
	X, Y float64
}

// ErrEmptyDeck is returned when a deck is built from no loops
var ErrEmptyDeck = errors.New("deck needs at least one loop")

// Deck shows one catalog loop at a time and cycles through them
type Deck struct {
	loops  []catalog.Loop
	index  int
	offset Offset
}

// NewDeck builds a deck over loops, starting at the first one
func NewDeck(loops []catalog.Loop) (*Deck, error) {
	if len(loops) == 0 {
		return nil, ErrEmptyDeck
	}
	return &Deck{loops: loops}, nil
}

func (d *Deck) Len() int {
	return len(d.loops)
}

func (d *Deck) Index() int {
	return d.index
}

// Current is the loop on the visible card
func (d *Deck) Current() catalog.Loop {
	return d.loops[d.index]
}

// Next advances one card, wrapping at the end
func (d *Deck) Next() {
	d.index = (d.index + 1) % len(d.loops)
	d.offset = Offset{}
}

// Prev goes back one card, wrapping at the start
func (d *Deck) Prev() {
	d.index = (d.index - 1 + len(d.loops)) % len(d.loops)
	d.offset = Offset{}
}

// Drag records the live offset while the pointer is held
func (d *Deck) Drag(dx, dy float64) {
	d.offset = Offset{X: dx, Y: dy}
}

func (d *Deck) Offset() Offset {
	return d.offset
}

// Release resolves a finished drag. onSave receives the card's loop before
// the deck advances. The offset is back at the origin afterwards whatever
// the outcome.
func (d *Deck) Release(dx, dy, threshold float64, onSave func(catalog.Loop)) Action {
	action := ResolveGesture(dx, dy, threshold)
	switch action {
	case ActionSave:
		if onSave != nil {
			onSave(d.Current())
		}
		d.Next()
	case ActionNext:
		d.Next()
	case ActionPrev:
		d.Prev()
	default:
		d.offset = Offset{}
	}
	return action
}

// Card presentation follows the drag: tilt and fade with x, shrink with y.
const cardTravel = 200.0

// Tilt returns the card rotation in degrees, -10 to 10
func (d *Deck) Tilt() float64 {
	return clamp(d.offset.X/cardTravel, -1, 1) * 10
}

// Fade returns the card opacity, 1 at rest down to 0 at full travel
func (d *Deck) Fade() float64 {
	return 1 - clamp(math.Abs(d.offset.X)/cardTravel, 0, 1)
}

// Scale returns the card scale, 1 at rest down to 0.8 at full travel
func (d *Deck) Scale() float64 {
	return 1 - 0.2*clamp(math.Abs(d.offset.Y)/cardTravel, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
