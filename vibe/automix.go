package vibe

import (
	"math/rand/v2"
	"sync"
	"time"
)

// VibeLabels are the mastering presets the vibe check picks from
var VibeLabels = []string{"Lo-fi", "Stadium", "Space", "Club"}

// DefaultVibeRevert is how long a vibe check label stays up
const DefaultVibeRevert = 3 * time.Second

// Timer is a pending callback that can be cancelled
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks; the real one is time.AfterFunc
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// AutoMix holds the transient vibe check label and its single revert timer.
// A new Apply replaces the pending timer, so the latest call decides when
// the label clears.
type AutoMix struct {
	mu       sync.Mutex
	label    string
	timer    Timer
	gen      uint64
	delay    time.Duration
	clock    Clock
	pick     func(n int) int
	onChange func(label string)
}

// AutoMixOption configures an AutoMix
type AutoMixOption func(*AutoMix)

// WithClock replaces the time source
func WithClock(c Clock) AutoMixOption {
	return func(a *AutoMix) { a.clock = c }
}

// WithPicker replaces the random label choice; pick(n) returns [0,n)
func WithPicker(pick func(n int) int) AutoMixOption {
	return func(a *AutoMix) { a.pick = pick }
}

// WithOnChange registers a hook called after the label is set or cleared.
// It runs on the timer goroutine for reverts.
func WithOnChange(f func(label string)) AutoMixOption {
	return func(a *AutoMix) { a.onChange = f }
}

// NewAutoMix creates an idle auto-mix with the given revert delay
func NewAutoMix(delay time.Duration, opts ...AutoMixOption) *AutoMix {
	if delay <= 0 {
		delay = DefaultVibeRevert
	}
	a := &AutoMix{
		delay: delay,
		clock: realClock{},
		pick:  rand.IntN,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply picks a label, shows it and (re)starts the revert timer
func (a *AutoMix) Apply() string {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.label = VibeLabels[a.pick(len(VibeLabels))]
	a.gen++
	gen := a.gen
	a.timer = a.clock.AfterFunc(a.delay, func() { a.revert(gen) })
	label := a.label
	a.mu.Unlock()

	a.notify(label)
	return label
}

// revert clears the label unless a newer Apply has taken over. The
// generation check covers a timer that fired while Apply held the lock.
func (a *AutoMix) revert(gen uint64) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.label = ""
	a.timer = nil
	a.mu.Unlock()

	a.notify("")
}

// Label returns the pending effect label, "" when idle
func (a *AutoMix) Label() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.label
}

// Pending reports whether a label is showing
func (a *AutoMix) Pending() bool {
	return a.Label() != ""
}

// Stop cancels any pending revert and clears the label without notifying
func (a *AutoMix) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
	a.label = ""
}

func (a *AutoMix) notify(label string) {
	if a.onChange != nil {
		a.onChange(label)
	}
}
