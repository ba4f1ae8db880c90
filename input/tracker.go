package input

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/arcade-drive/parameter"
)

// Terminals report key presses and auto-repeats but never releases, so a held
// control stays active for a window after its latest press
const (
	DefaultHold        = parameter.KeyHold
	DefaultInitialHold = parameter.KeyInitialHold
)

// Button is an on-screen control driven by mouse press and release
type Button struct {
	Action Action
	Label  string
	X, Y   int
	W, H   int
}

// Contains reports whether the cell lies inside the button
func (b Button) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// ButtonLayout places the accelerate, reverse and brake buttons on the bottom row
func ButtonLayout(width, height int) []Button {
	labels := []struct {
		action Action
		label  string
	}{
		{ActionForward, "[ GAS ]"},
		{ActionBackward, "[ REV ]"},
		{ActionBrake, "[ BRAKE ]"},
	}
	if width <= 0 || height <= 0 {
		return nil
	}

	buttons := make([]Button, 0, len(labels))
	x := 1
	for _, l := range labels {
		w := len(l.label)
		buttons = append(buttons, Button{Action: l.action, Label: l.label, X: x, Y: height - 1, W: w, H: 1})
		x += w + 1
	}
	return buttons
}

// Event is the outcome of one terminal event
type Event struct {
	// Action is the bound action of a key press, or a pressed button
	Action Action
	// Click is a primary press outside every button
	Click bool
	X, Y  int
	// Resize carries the new screen size in X and Y
	Resize bool
}

// TrackerOption configures a Tracker
type TrackerOption func(*Tracker)

// WithHold overrides the repeat and initial hold windows
func WithHold(hold, initial time.Duration) TrackerOption {
	return func(t *Tracker) {
		if hold > 0 {
			t.hold = hold
		}
		if initial >= hold {
			t.initial = initial
		} else {
			t.initial = t.hold
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// Tracker turns terminal events into per-tick snapshots
// Owned by the simulation goroutine; not safe for concurrent use
type Tracker struct {
	bindings *Bindings
	hold     time.Duration
	initial  time.Duration
	now      func() time.Time

	until   [ActionBrake + 1]time.Time
	mouse   [ActionBrake + 1]bool
	reset   bool
	buttons []Button
}

// NewTracker creates a tracker; nil bindings select the defaults
func NewTracker(b *Bindings, opts ...TrackerOption) *Tracker {
	if b == nil {
		b = DefaultBindings()
	}
	t := &Tracker{
		bindings: b,
		hold:     DefaultHold,
		initial:  DefaultInitialHold,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Buttons returns the current on-screen buttons
func (t *Tracker) Buttons() []Button {
	return t.buttons
}

// SetScreenSize lays out the buttons for a screen
func (t *Tracker) SetScreenSize(width, height int) {
	t.buttons = ButtonLayout(width, height)
}

// HandleEvent records a terminal event
func (t *Tracker) HandleEvent(ev tcell.Event) Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a := t.bindings.Lookup(ev)
		t.press(a)
		return Event{Action: a}

	case *tcell.EventMouse:
		x, y := ev.Position()
		if ev.Buttons()&tcell.Button1 == 0 {
			t.releaseMouse()
			return Event{X: x, Y: y}
		}
		for _, b := range t.buttons {
			if b.Contains(x, y) {
				t.mouse[b.Action] = true
				return Event{Action: b.Action, X: x, Y: y}
			}
		}
		return Event{Click: true, X: x, Y: y}

	case *tcell.EventResize:
		w, h := ev.Size()
		t.SetScreenSize(w, h)
		return Event{Resize: true, X: w, Y: h}
	}
	return Event{}
}

// Press records a press of action directly
func (t *Tracker) Press(a Action) {
	t.press(a)
}

func (t *Tracker) press(a Action) {
	switch {
	case a.held():
		now := t.now()
		if now.Before(t.until[a]) {
			t.until[a] = now.Add(t.hold)
		} else {
			t.until[a] = now.Add(t.initial)
		}
	case a == ActionReset:
		t.reset = true
	}
}

func (t *Tracker) releaseMouse() {
	for i := range t.mouse {
		t.mouse[i] = false
	}
}

// Release drops every held control
func (t *Tracker) Release() {
	for i := range t.until {
		t.until[i] = time.Time{}
	}
	t.releaseMouse()
	t.reset = false
}

// Snapshot returns the held controls and consumes a pending reset
func (t *Tracker) Snapshot() Snapshot {
	now := t.now()
	held := func(a Action) bool {
		return t.mouse[a] || now.Before(t.until[a])
	}
	s := Snapshot{
		Forward:  held(ActionForward),
		Backward: held(ActionBackward),
		Left:     held(ActionLeft),
		Right:    held(ActionRight),
		Brake:    held(ActionBrake),
		Reset:    t.reset,
	}
	t.reset = false
	return s
}
