package vehicle

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/arcade-drive/asset"
	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/physics"
	"github.com/lixenwraith/arcade-drive/scene"
	"github.com/lixenwraith/arcade-drive/vmath"
)

const tickDt = 1.0 / 30.0

// recordingSound counts calls the way a real looping source would see them
type recordingSound struct {
	playing bool
	plays   int
	stops   int
	rate    float64
}

func (s *recordingSound) Play()                     { s.plays++; s.playing = true }
func (s *recordingSound) Stop()                     { s.stops++; s.playing = false }
func (s *recordingSound) IsPlaying() bool           { return s.playing }
func (s *recordingSound) SetPlaybackRate(r float64) { s.rate = r }

func newTestController(t *testing.T, opts ...Option) (*physics.World, *scene.Scene, *Controller) {
	t.Helper()
	w := physics.NewWorld()
	w.AddGround(0)
	sc := scene.New()
	c, err := New(w, sc, DefaultConfig(), opts...)
	require.NoError(t, err)
	return w, sc, c
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(nil, scene.New(), DefaultConfig())
	assert.ErrorIs(t, err, ErrNoWorld)

	_, err = New(physics.NewWorld(), nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoScene)

	var typedNil *scene.Scene
	_, err = New(physics.NewWorld(), typedNil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoScene)
}

func TestNewRejectsBadWheelLayout(t *testing.T) {
	base := DefaultConfig()

	tests := []struct {
		name   string
		mutate func(ws []WheelConfig) []WheelConfig
	}{
		{"three wheels", func(ws []WheelConfig) []WheelConfig { return ws[:3] }},
		{"five wheels", func(ws []WheelConfig) []WheelConfig { return append(ws, ws[1]) }},
		{"duplicate front-right", func(ws []WheelConfig) []WheelConfig {
			ws[2] = ws[1]
			return ws
		}},
		{"zero radius", func(ws []WheelConfig) []WheelConfig {
			ws[3].Radius = 0
			return ws
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Wheels = tt.mutate(DefaultWheels(cfg.HalfExtents))
			_, err := New(physics.NewWorld(), scene.New(), cfg)
			assert.ErrorIs(t, err, ErrWheelLayout)
		})
	}
}

func TestWheelsPlacedByRoleNotOrder(t *testing.T) {
	cfg := DefaultConfig()
	ws := DefaultWheels(cfg.HalfExtents)
	cfg.Wheels = []WheelConfig{ws[3], ws[1], ws[2], ws[0]}

	_, sc, c := newTestControllerWith(t, cfg)
	for i, want := range []string{"front-left", "front-right", "rear-left", "rear-right"} {
		wr, ok := c.Wheel(i)
		require.True(t, ok)
		assert.Equal(t, want, wr.Role)
		_, ok = sc.Node("wheel/" + want)
		assert.True(t, ok)
	}

	fl, _ := c.Wheel(FrontLeft)
	rr, _ := c.Wheel(RearRight)
	assert.Greater(t, fl.Position.X(), 0.0, "left is +x")
	assert.Greater(t, fl.Position.Z(), 0.0, "front is +z")
	assert.Less(t, rr.Position.X(), 0.0)
	assert.Less(t, rr.Position.Z(), 0.0)
}

func newTestControllerWith(t *testing.T, cfg Config) (*physics.World, *scene.Scene, *Controller) {
	t.Helper()
	w := physics.NewWorld()
	w.AddGround(0)
	sc := scene.New()
	c, err := New(w, sc, cfg)
	require.NoError(t, err)
	return w, sc, c
}

func TestDefaultWheelLayout(t *testing.T) {
	ws := DefaultWheels(vmath.Vec3F{1.2, 1, 2.5})
	require.Len(t, ws, WheelCount)
	for i, w := range ws {
		assert.Equal(t, i, w.Index())
		assert.InDelta(t, 1.32, math.Abs(w.Connection.X()), 1e-12)
		assert.InDelta(t, 1.25, math.Abs(w.Connection.Z()), 1e-12)
		assert.Equal(t, -1.0, w.Connection.Y())
		assert.Equal(t, 0.6, w.Radius)
	}
}

func TestSteeringOnlyFrontWheels(t *testing.T) {
	_, _, c := newTestController(t)

	c.SetSteering(0.3)
	c.Step()

	for i := 0; i < WheelCount; i++ {
		wr, _ := c.Wheel(i)
		if i == FrontLeft || i == FrontRight {
			assert.Equal(t, 0.3, wr.Steering, "wheel %d", i)
			axle := wr.Orientation.Rotate(vmath.UnitX)
			assert.True(t, axle.ApproxEqualThreshold(vmath.Vec3F{math.Cos(0.3), 0, -math.Sin(0.3)}, 1e-9), "wheel %d axle %v", i, axle)
			continue
		}
		assert.Zero(t, wr.Steering, "wheel %d", i)
		axle := wr.Orientation.Rotate(vmath.UnitX)
		assert.True(t, axle.ApproxEqualThreshold(vmath.UnitX, 1e-9), "wheel %d axle %v", i, axle)
	}
}

func TestEngineForceAndBrakeOnAllWheels(t *testing.T) {
	_, _, c := newTestController(t)

	c.ApplyEngineForce(-300)
	c.SetBrake(15)
	c.Step()

	for i, wr := range c.Wheels() {
		assert.Equal(t, -300.0, wr.EngineForce, "wheel %d", i)
		assert.Equal(t, 15.0, wr.Brake, "wheel %d", i)
	}
}

func TestLimitSpeed(t *testing.T) {
	tests := []struct {
		name    string
		v       vmath.Vec3F
		max     float64
		damping float64
		want    vmath.Vec3F
	}{
		{"above limit damped once", vmath.Vec3F{100, 0, 0}, 50, 0.9, vmath.Vec3F{90, 0, 0}},
		{"below limit untouched", vmath.Vec3F{10, 0, 0}, 50, 0.9, vmath.Vec3F{10, 0, 0}},
		{"at limit untouched", vmath.Vec3F{0, 0, 50}, 50, 0.9, vmath.Vec3F{0, 0, 50}},
		{"negative damping ignored", vmath.Vec3F{100, 0, 0}, 50, -0.5, vmath.Vec3F{100, 0, 0}},
		{"amplifying damping ignored", vmath.Vec3F{100, 0, 0}, 50, 1.5, vmath.Vec3F{100, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LimitSpeed(tt.v, tt.max, tt.damping))
		})
	}
}

func TestLimitSpeedSmoothDecaysMonotonically(t *testing.T) {
	_, _, c := newTestController(t)
	c.Body().Velocity = vmath.Vec3F{60, 0, 80}

	c.LimitSpeedSmooth(50, 0.9)
	assert.InDelta(t, 90.0, c.Speed(), 1e-9)

	prev := c.Speed()
	dir := c.Body().Velocity.Normalize()
	for i := 0; i < 20; i++ {
		c.LimitSpeedSmooth(50, 0.9)
		assert.LessOrEqual(t, c.Speed(), prev)
		assert.InDelta(t, 1.0, c.Body().Velocity.Normalize().Dot(dir), 1e-12, "direction kept")
		prev = c.Speed()
	}
	assert.LessOrEqual(t, c.Speed(), 50.0)
	assert.Greater(t, c.Speed(), 50*0.9-1e-9)
}

func TestResetPoseFullStop(t *testing.T) {
	_, _, c := newTestController(t)
	b := c.Body()
	b.Velocity = vmath.Vec3F{5, -3, 12}
	b.AngularVelocity = vmath.Vec3F{1, 2, 3}
	b.Orientation = vmath.QFAxisAngle(vmath.UnitZ, math.Pi)

	c.ResetPose(vmath.Vec3F{4, 0, -7}, math.Pi/2)

	st := c.Chassis()
	assert.Equal(t, vmath.Vec3F{}, st.AngularVelocity)
	assert.Equal(t, vmath.Vec3F{}, st.Velocity)
	assert.Equal(t, vmath.QFYaw(math.Pi/2), st.Orientation)
	assert.Equal(t, DefaultResetPolicy().Height, st.Position.Y())
	assert.Equal(t, 4.0, st.Position.X())
	assert.Equal(t, -7.0, st.Position.Z())
	assert.True(t, c.Upright())
	assert.True(t, c.Heading().ApproxEqualThreshold(vmath.UnitX, 1e-9), "got %v", c.Heading())
	assert.InDelta(t, math.Pi/2, c.Yaw(), 1e-9)
}

func TestResetPolicy(t *testing.T) {
	inPlace := DefaultResetPolicy()
	assert.Equal(t, vmath.Vec3F{3, 0, 9}, inPlace.GroundPoint(vmath.Vec3F{3, 1.8, 9}))

	spawn := ResetPolicy{Spawn: vmath.Vec3F{0, 0, 0}, Height: 2, Yaw: 0}
	assert.Equal(t, vmath.Vec3F{}, spawn.GroundPoint(vmath.Vec3F{3, 1.8, 9}))

	_, _, c := newTestController(t, WithResetPolicy(spawn))
	c.Body().Position = vmath.Vec3F{30, 1, 30}
	c.Reset()
	assert.Equal(t, vmath.Vec3F{0, 2, 0}, c.Chassis().Position)
	assert.Equal(t, vmath.QFYaw(0), c.Chassis().Orientation)
}

func TestPlayBrakeCue(t *testing.T) {
	brake := &recordingSound{}
	_, _, c := newTestController(t, WithBrakeSound(brake))

	c.PlayBrakeCue(true)
	c.PlayBrakeCue(true)
	assert.Equal(t, 1, brake.plays, "a playing loop is not restarted")

	c.PlayBrakeCue(false)
	c.PlayBrakeCue(false)
	assert.Equal(t, 2, brake.stops, "stop is unconditional")
	assert.False(t, brake.playing)

	c.PlayBrakeCue(true)
	assert.Equal(t, 2, brake.plays)
}

func TestPlayBrakeCueWithoutSound(t *testing.T) {
	_, _, c := newTestController(t)
	assert.NotPanics(t, func() {
		c.PlayBrakeCue(true)
		c.PlayBrakeCue(false)
	})
}

func TestEnginePitchFollowsSpeed(t *testing.T) {
	assert.Equal(t, 1.0, EnginePitch(0))
	assert.InDelta(t, 1.8, EnginePitch(10), 1e-12)
	assert.Equal(t, 2.0, EnginePitch(40))

	engine := &recordingSound{playing: true}
	_, _, c := newTestController(t, WithEngineSound(engine))
	c.Body().Velocity = vmath.Vec3F{0, 0, 5}
	c.Step()
	assert.InDelta(t, 1.4, engine.rate, 1e-12)

	engine.playing = false
	engine.rate = 0
	c.Step()
	assert.Zero(t, engine.rate, "stopped source is left alone")
}

func TestWheelNodes(t *testing.T) {
	_, sc, c := newTestController(t)
	for _, w := range c.Wheels() {
		n, ok := sc.Node(wheelNodePrefix + w.Role)
		require.True(t, ok, w.Role)
		assert.Equal(t, scene.KindWheel, n.Kind)
		assert.Equal(t, uint32(parameter.WheelColor), n.Color)
		assert.Equal(t, vmath.Vec3F{parameter.WheelVisualHalfWidth, parameter.WheelRadius, parameter.WheelRadius}, n.HalfExtents)
	}
}

func TestModelGate(t *testing.T) {
	m := &asset.Model{Min: vmath.Vec3F{-1, -1, -2}, Max: vmath.Vec3F{1, 1, 2}}

	t.Run("resolved", func(t *testing.T) {
		_, sc, c := newTestController(t, WithModel(asset.Resolved(m)))
		n, ok := sc.Node(ChassisNodeName)
		require.True(t, ok)
		assert.False(t, c.VisualReady())
		assert.False(t, n.Visible)

		c.Step()
		assert.True(t, c.VisualReady())
		assert.True(t, n.Visible)
		assert.Equal(t, c.Chassis().Position, n.Position)
		assert.InDelta(t, 1.3, n.HalfExtents.X(), 1e-12)
	})

	t.Run("failed", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		_, sc, c := newTestController(t, WithModel(asset.Failed[*asset.Model](errors.New("no truck"))), WithLogger(logger))
		for i := 0; i < 5; i++ {
			c.Step()
		}
		assert.False(t, c.VisualReady())
		n, _ := sc.Node(ChassisNodeName)
		assert.False(t, n.Visible)
		assert.Equal(t, 1, strings.Count(buf.String(), "chassis model failed to load"), "logged once")
	})
}

func TestStepSkipsNonFiniteState(t *testing.T) {
	_, sc, c := newTestController(t)
	n, _ := sc.Node(ChassisNodeName)
	before := n.Position

	c.Body().Position = vmath.Vec3F{math.NaN(), 0, 0}
	assert.NotPanics(t, c.Step)
	assert.Equal(t, before, n.Position)
}

func TestDriveForwardEndToEnd(t *testing.T) {
	w, sc, c := newTestController(t)

	c.ApplyEngineForce(-300)
	zs := make([]float64, 0, 30)
	for i := 0; i < 30; i++ {
		w.Step(tickDt)
		c.Step()
		zs = append(zs, c.Chassis().Position.Z())
	}

	assert.Greater(t, zs[len(zs)-1], zs[0], "negative force drives +z")
	for i := 10; i < len(zs); i++ {
		assert.GreaterOrEqual(t, zs[i], zs[i-1]-1e-9, "tick %d", i)
	}

	st := c.Chassis()
	assert.InDelta(t, 1.83, st.Position.Y(), 0.2, "rides on the suspension")
	assert.Less(t, math.Abs(st.Velocity.Y()), 0.5, "no sustained bounce")
	assert.Greater(t, c.SpeedKmh(), 0.0)

	n, _ := sc.Node(ChassisNodeName)
	assert.Equal(t, st.Position, n.Position, "node follows the body")
	for i, wr := range c.Wheels() {
		assert.True(t, wr.InContact, "wheel %d", i)
	}
}
