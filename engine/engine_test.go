package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/arcade-drive/asset"
	"github.com/lixenwraith/arcade-drive/config"
	"github.com/lixenwraith/arcade-drive/input"
	"github.com/lixenwraith/arcade-drive/telemetry"
	"github.com/lixenwraith/arcade-drive/vmath"
)

const dt = 1.0 / 30

type scriptedInput struct {
	next input.Snapshot
	once input.Snapshot
}

func (s *scriptedInput) Snapshot() input.Snapshot {
	out := s.next
	if s.once.Reset {
		out.Reset = true
		s.once = input.Snapshot{}
	}
	return out
}

type recordingPublisher struct {
	ticks []uint64
	last  telemetry.Snapshot
	err   error
}

func (p *recordingPublisher) Publish(s telemetry.Snapshot) error {
	p.ticks = append(p.ticks, s.Tick)
	p.last = s
	return p.err
}

type fakeSound struct {
	playing bool
	plays   int
	stops   int
	rate    float64
}

func (f *fakeSound) Play() { f.playing = true; f.plays++ }
func (f *fakeSound) Stop() { f.playing = false; f.stops++ }
func (f *fakeSound) IsPlaying() bool { return f.playing }
func (f *fakeSound) SetPlaybackRate(r float64) { f.rate = r }

// emptyScene keeps only the ground and the vehicle
func emptyScene() *config.Config {
	cfg := config.Default()
	cfg.Scene = config.SceneConfig{}
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts ...Option) *Game {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	g, err := NewGame(ctx, cfg, opts...)
	require.NoError(t, err)
	return g
}

func TestNewGameBuildsDefaultScene(t *testing.T) {
	g := newTestGame(t, config.Default())

	// 11-rune sign slab, TATYAAA and POOKIE letter blocks, the ball
	assert.Len(t, g.Props(), 1+7+6+1)
	assert.Len(t, g.StaticObjects(), 1)
	assert.Len(t, g.Triggers(), 1)

	_, ok := g.Scene.Node("block#49")
	assert.True(t, ok)
	_, ok = g.Scene.Node("ball")
	assert.True(t, ok)
	assert.Equal(t, "cinematic", g.Camera.Config().Name)
}

func TestTickIgnoresBadDt(t *testing.T) {
	g := newTestGame(t, emptyScene())
	for _, d := range []float64{0, -dt, math.NaN()} {
		g.Tick(d)
	}
	assert.Zero(t, g.Ticks())
	assert.Zero(t, g.World.Steps())
}

func TestForwardDrivesPositiveZ(t *testing.T) {
	in := &scriptedInput{next: input.Snapshot{Forward: true}}
	g := newTestGame(t, emptyScene(), WithInput(in))

	start := g.Vehicle.Chassis().Position
	for i := 0; i < 60; i++ {
		g.Tick(dt)
	}

	assert.Less(t, g.Control().Throttle, 0.0)
	assert.Greater(t, g.Vehicle.Chassis().Position.Z(), start.Z()+1)
	assert.Greater(t, g.Vehicle.SpeedKmh(), 0.0)
	assert.Equal(t, uint64(60), g.Ticks())

	assert.NotEqual(t, vmath.Vec3F{}, g.CameraPose().Position, "camera follows")
}

func TestIdleAppliesDrag(t *testing.T) {
	g := newTestGame(t, emptyScene())
	g.Tick(dt)

	sig := g.Control()
	assert.Zero(t, sig.Throttle)
	assert.Zero(t, sig.Steer)
	assert.Equal(t, g.Mapper().Config().IdleDrag, sig.Brake)
	assert.False(t, sig.Braking)
}

func TestResetRecoversInPlace(t *testing.T) {
	in := &scriptedInput{}
	g := newTestGame(t, emptyScene(), WithInput(in))
	g.Tick(dt)

	b := g.Vehicle.Body()
	b.Position = vmath.Vec3F{5, 0.4, 7}
	b.Orientation = vmath.QFAxisAngle(vmath.UnitZ, math.Pi)
	b.Velocity = vmath.Vec3F{3, 0, 3}

	in.once = input.Snapshot{Reset: true}
	g.Tick(dt)

	c := g.Vehicle.Chassis()
	assert.InDelta(t, 5, c.Position.X(), 0.05)
	assert.InDelta(t, 7, c.Position.Z(), 0.05)
	assert.InDelta(t, 3, c.Position.Y(), 0.05, "dropped from reset height")
	assert.Less(t, c.Velocity.Len(), 0.5, "only one step of gravity")
	assert.True(t, g.Vehicle.Upright())
}

func TestSpeedLimitAppliedAfterStep(t *testing.T) {
	cfg := emptyScene()
	g := newTestGame(t, cfg)
	for i := 0; i < 15; i++ {
		g.Tick(dt)
	}

	g.Vehicle.Body().Velocity = vmath.Vec3F{0, 0, 100}
	g.Tick(dt)

	assert.LessOrEqual(t, g.Vehicle.Chassis().Velocity.Len(), 100*cfg.Sim.SpeedDamping+0.5)
}

func TestBrakeCue(t *testing.T) {
	brake := &fakeSound{}
	in := &scriptedInput{next: input.Snapshot{Brake: true}}
	g := newTestGame(t, emptyScene(), WithInput(in), WithBrakeSound(brake))

	g.Tick(dt)
	g.Tick(dt)
	assert.True(t, brake.playing)
	assert.Equal(t, 1, brake.plays, "held brake does not restart the loop")

	in.next = input.Snapshot{Brake: true, Forward: true}
	g.Tick(dt)
	assert.False(t, brake.playing, "throttle overrides the brake")
}

func TestEngineSoundPitchFollowsSpeed(t *testing.T) {
	engine := &fakeSound{playing: true}
	in := &scriptedInput{next: input.Snapshot{Forward: true}}
	g := newTestGame(t, emptyScene(), WithInput(in), WithEngineSound(engine))

	for i := 0; i < 30; i++ {
		g.Tick(dt)
	}
	assert.Greater(t, engine.rate, 0.0)
}

func TestTelemetryCadence(t *testing.T) {
	pub := &recordingPublisher{}
	g := newTestGame(t, emptyScene(), WithPublisher(pub, 3))

	for i := 0; i < 10; i++ {
		g.Tick(dt)
	}
	assert.Equal(t, []uint64{3, 6, 9}, pub.ticks)
	assert.Len(t, pub.last.Wheels, 4)
	assert.Equal(t, "front-left", pub.last.Wheels[0].Role)
	assert.InDelta(t, 9*dt, pub.last.Time, 1e-9)
	var norm float64
	for _, c := range pub.last.Chassis.Orientation {
		norm += c * c
	}
	assert.InDelta(t, 1, norm, 1e-6)
}

func TestSnapshotCarriesHeading(t *testing.T) {
	g := newTestGame(t, emptyScene())
	g.Vehicle.ResetPose(vmath.Vec3F{}, -0.8)

	s := g.Snapshot()
	assert.InDelta(t, -0.8, s.Chassis.Heading, 1e-9)
	assert.InDelta(t, g.Vehicle.Yaw(), s.Chassis.Heading, 1e-12)
}

func TestTelemetryErrorDoesNotStopTick(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("closed")}
	g := newTestGame(t, emptyScene(), WithPublisher(pub, 1))

	g.Tick(dt)
	g.Tick(dt)
	assert.Len(t, pub.ticks, 2)
	assert.Equal(t, uint64(2), g.Ticks())
}

func TestTriggerClickNeedsProximity(t *testing.T) {
	cfg := emptyScene()
	cfg.Scene.Triggers = []config.TriggerConfig{
		{Name: "near", Position: []float64{3, 2, 3}, Radius: 1, Reach: 5},
		{Name: "far", Position: []float64{40, 2, 40}, Radius: 1, Reach: 5},
	}
	g := newTestGame(t, cfg)
	g.Tick(dt)

	name, ok := g.HandleClick(vmath.Vec3F{3.5, 0, 3})
	assert.True(t, ok)
	assert.Equal(t, "near", name)
	g.Tick(dt)
	assert.Equal(t, []string{"near"}, g.TakeClicks())
	assert.Empty(t, g.TakeClicks())

	_, ok = g.HandleClick(vmath.Vec3F{40, 0, 40})
	assert.False(t, ok, "out of reach")
	_, ok = g.HandleClick(vmath.Vec3F{0, 0, 10})
	assert.False(t, ok, "misses the footprint")
}

func TestStaticObjectsResolve(t *testing.T) {
	cfg := emptyScene()
	cfg.Scene.StaticObjects = []config.StaticObjectConfig{
		{Name: "gate", Position: []float64{0, 0, 60}},
		{Name: "missing", Path: "does/not/exist.obj", Position: []float64{20, 0, 20}},
	}
	g := newTestGame(t, cfg)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.Tick(dt)
		if g.Assets.Progress().Done() && g.StaticObjects()[0].Ready() && g.StaticObjects()[1].Failed() && g.Vehicle.VisualReady() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	assert.True(t, g.StaticObjects()[0].Ready())
	assert.NotNil(t, g.StaticObjects()[0].Body())
	assert.True(t, g.StaticObjects()[1].Failed())
	assert.Contains(t, g.Assets.Failures(), "missing")
	assert.True(t, g.Vehicle.VisualReady(), "built-in truck model")
}

func TestSharedAssetTracker(t *testing.T) {
	tracker := asset.NewTracker()
	asset.Track(tracker, "sound", asset.Resolved(1))
	g := newTestGame(t, emptyScene(), WithAssets(tracker))
	assert.Same(t, tracker, g.Assets)
	assert.GreaterOrEqual(t, g.Assets.Progress().Total(), 2, "sound plus truck")
}

func TestCycleCamera(t *testing.T) {
	g := newTestGame(t, emptyScene())
	assert.Equal(t, "chase", g.CycleCamera())
	assert.Equal(t, "cinematic", g.CycleCamera())
}
