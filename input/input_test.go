package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	m := NewMapper(DefaultMapperConfig())

	tests := []struct {
		name string
		in   Snapshot
		want ControlSignal
	}{
		{"idle", Snapshot{}, ControlSignal{Brake: 2}},
		{"forward", Snapshot{Forward: true}, ControlSignal{Throttle: -300, Brake: 2}},
		{"backward", Snapshot{Backward: true}, ControlSignal{Throttle: 300, Brake: 2}},
		{"forward wins", Snapshot{Forward: true, Backward: true}, ControlSignal{Throttle: -300, Brake: 2}},
		{"left", Snapshot{Left: true}, ControlSignal{Steer: 0.3, Brake: 2}},
		{"right", Snapshot{Right: true}, ControlSignal{Steer: -0.3, Brake: 2}},
		{"brake", Snapshot{Brake: true}, ControlSignal{Brake: 15, Braking: true}},
		{"brake ignored under throttle", Snapshot{Forward: true, Brake: true}, ControlSignal{Throttle: -300, Brake: 2}},
		{"brake while steering", Snapshot{Right: true, Brake: true}, ControlSignal{Steer: -0.3, Brake: 15, Braking: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.in))
		})
	}
}

func TestNormalized(t *testing.T) {
	m := NewMapper(MapperConfig{MaxForce: -300, MaxSteer: 0.3, MaxBrake: 15, IdleDrag: 2})
	assert.Equal(t, 300.0, m.Config().MaxForce)

	throttle, steer := m.Normalized(m.Map(Snapshot{Forward: true, Left: true}))
	assert.Equal(t, -1.0, throttle)
	assert.InDelta(t, 1.0, steer, 1e-12)

	zero := NewMapper(MapperConfig{})
	throttle, steer = zero.Normalized(ControlSignal{Throttle: 5, Steer: 1})
	assert.Zero(t, throttle)
	assert.Zero(t, steer)
}

func TestDefaultBindings(t *testing.T) {
	b := DefaultBindings()

	tests := []struct {
		ev   *tcell.EventKey
		want Action
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), ActionForward},
		{tcell.NewEventKey(tcell.KeyRune, 'W', tcell.ModShift), ActionForward},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ActionForward},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), ActionBrake},
		{tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), ActionReset},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ActionNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Lookup(tt.ev), "key %v", tt.ev.Name())
	}
}

func TestParseBindings(t *testing.T) {
	b, err := ParseBindings(nil, map[string]string{
		"i":     "forward",
		"w":     "none",
		"Space": "Reset",
		"Home":  "camera",
	})
	require.NoError(t, err)

	assert.Equal(t, ActionForward, b.Runes['i'])
	_, bound := b.Runes['w']
	assert.False(t, bound)
	assert.Equal(t, ActionReset, b.Runes[' '])
	assert.Equal(t, ActionCamera, b.Keys[tcell.KeyHome])

	// base untouched
	assert.Equal(t, ActionForward, DefaultBindings().Runes['w'])
}

func TestParseBindingsErrors(t *testing.T) {
	_, err := ParseBindings(nil, map[string]string{"w": "fly"})
	assert.ErrorContains(t, err, "unknown action")

	_, err = ParseBindings(nil, map[string]string{"NotAKey": "forward"})
	assert.ErrorContains(t, err, "unknown key name")
}

func TestActionNames(t *testing.T) {
	a, ok := ActionByName(" Brake ")
	require.True(t, ok)
	assert.Equal(t, ActionBrake, a)
	assert.Equal(t, "brake", a.String())
	assert.Equal(t, "unknown", Action(200).String())
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	return NewTracker(nil, WithClock(clock.now), WithHold(100*time.Millisecond, 400*time.Millisecond)), clock
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestTrackerHoldWindow(t *testing.T) {
	tr, clock := newTestTracker()

	ev := tr.HandleEvent(key('w'))
	assert.Equal(t, ActionForward, ev.Action)
	assert.True(t, tr.Snapshot().Forward)

	// initial window covers the terminal's repeat delay
	clock.advance(350 * time.Millisecond)
	assert.True(t, tr.Snapshot().Forward)

	// repeats extend by the short window
	tr.HandleEvent(key('w'))
	clock.advance(90 * time.Millisecond)
	assert.True(t, tr.Snapshot().Forward)
	tr.HandleEvent(key('w'))
	clock.advance(110 * time.Millisecond)
	assert.False(t, tr.Snapshot().Forward, "released after repeats stop")
}

func TestTrackerResetIsEdgeTriggered(t *testing.T) {
	tr, _ := newTestTracker()

	tr.HandleEvent(key('r'))
	assert.True(t, tr.Snapshot().Reset)
	assert.False(t, tr.Snapshot().Reset, "consumed by the first snapshot")
}

func TestTrackerRelease(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Press(ActionLeft)
	tr.Press(ActionReset)
	tr.Release()
	assert.Equal(t, Snapshot{}, tr.Snapshot())
}

func TestTrackerButtons(t *testing.T) {
	tr, _ := newTestTracker()
	ev := tr.HandleEvent(tcell.NewEventResize(80, 24))
	require.True(t, ev.Resize)
	require.Len(t, tr.Buttons(), 3)

	brake := tr.Buttons()[2]
	assert.Equal(t, ActionBrake, brake.Action)
	assert.Equal(t, 23, brake.Y)

	ev = tr.HandleEvent(tcell.NewEventMouse(brake.X+1, brake.Y, tcell.Button1, tcell.ModNone))
	assert.Equal(t, ActionBrake, ev.Action)
	assert.False(t, ev.Click)
	assert.True(t, tr.Snapshot().Brake)
	assert.True(t, tr.Snapshot().Brake, "held until release")

	tr.HandleEvent(tcell.NewEventMouse(brake.X+1, brake.Y, tcell.ButtonNone, tcell.ModNone))
	assert.False(t, tr.Snapshot().Brake)

	ev = tr.HandleEvent(tcell.NewEventMouse(40, 5, tcell.Button1, tcell.ModNone))
	assert.True(t, ev.Click)
	assert.Equal(t, 40, ev.X)
	assert.Equal(t, 5, ev.Y)
}

func TestButtonLayoutEmptyScreen(t *testing.T) {
	assert.Nil(t, ButtonLayout(0, 10))
	b := ButtonLayout(80, 24)
	for i := 1; i < len(b); i++ {
		assert.Greater(t, b[i].X, b[i-1].X+b[i-1].W-1, "buttons do not overlap")
	}
}
