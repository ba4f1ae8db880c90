// Package engine wires the physics world, vehicle, scene props, camera and input
// into one fixed-step simulation tick
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/asset"
	"github.com/lixenwraith/arcade-drive/camera"
	"github.com/lixenwraith/arcade-drive/config"
	"github.com/lixenwraith/arcade-drive/input"
	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/physics"
	"github.com/lixenwraith/arcade-drive/scene"
	"github.com/lixenwraith/arcade-drive/telemetry"
	"github.com/lixenwraith/arcade-drive/vehicle"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// InputSource yields the held controls for one tick
type InputSource interface {
	Snapshot() input.Snapshot
}

// Publisher receives telemetry snapshots
type Publisher interface {
	Publish(s telemetry.Snapshot) error
}

// Option configures a Game
type Option func(*Game)

// WithInput attaches the control source; without one the vehicle idles
func WithInput(src InputSource) Option {
	return func(g *Game) { g.input = src }
}

// WithPublisher streams a snapshot every n ticks
func WithPublisher(p Publisher, every int) Option {
	return func(g *Game) {
		g.pub = p
		g.every = every
	}
}

// WithLogger attaches a logger shared by every subsystem
func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithEngineSound attaches the engine loop
func WithEngineSound(s vehicle.Sound) Option {
	return func(g *Game) { g.engineSound = s }
}

// WithAssets shares a load tracker with other subsystems
func WithAssets(t *asset.Tracker) Option {
	return func(g *Game) { g.Assets = t }
}

// WithBrakeSound attaches the brake loop
func WithBrakeSound(s vehicle.Sound) Option {
	return func(g *Game) { g.brakeSound = s }
}

// Game owns the simulation state; all methods run on the loop goroutine
type Game struct {
	World   *physics.World
	Scene   *scene.Scene
	Vehicle *vehicle.Controller
	Camera  *camera.FollowCamera
	Assets  *asset.Tracker

	mapper   *input.Mapper
	props    []*scene.Prop
	statics  []*scene.StaticObject
	triggers []*scene.TriggerSphere

	input       InputSource
	pub         Publisher
	every       int
	engineSound vehicle.Sound
	brakeSound  vehicle.Sound

	maxSpeed float64
	damping  float64

	tick    uint64
	pose    camera.Pose
	held    input.Snapshot
	control input.ControlSignal
	clicks  []string

	log zerolog.Logger
}

// NewGame builds the world and scene described by cfg
// Models load in the background under ctx; the simulation runs before they resolve
func NewGame(ctx context.Context, cfg *config.Config, opts ...Option) (*Game, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Game{
		mapper:   input.NewMapper(cfg.MapperConfig()),
		maxSpeed: cfg.Sim.MaxSpeed,
		damping:  cfg.Sim.SpeedDamping,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.Assets == nil {
		g.Assets = asset.NewTracker()
	}

	g.World = physics.NewWorld(
		physics.WithGravity(cfg.Gravity()),
		physics.WithWorldLogger(g.log),
	)
	g.World.AddGround(0)
	g.Scene = scene.New(scene.WithLogger(g.log))

	vopts := []vehicle.Option{
		vehicle.WithLogger(g.log),
		vehicle.WithResetPolicy(cfg.ResetPolicy()),
		vehicle.WithModel(asset.Track(g.Assets, "truck", loadModel(ctx, cfg.Vehicle.ModelPath, "truck", asset.TruckOBJ))),
	}
	if g.engineSound != nil {
		vopts = append(vopts, vehicle.WithEngineSound(g.engineSound))
	}
	if g.brakeSound != nil {
		vopts = append(vopts, vehicle.WithBrakeSound(g.brakeSound))
	}
	v, err := vehicle.New(g.World, g.Scene, cfg.VehicleConfig(), vopts...)
	if err != nil {
		return nil, fmt.Errorf("vehicle: %w", err)
	}
	g.Vehicle = v

	g.populate(ctx, cfg.Scene)

	g.Camera = camera.New(cfg.CameraConfig())

	g.log.Info().
		Int("bodies", len(g.World.Bodies())).
		Int("nodes", g.Scene.Len()).
		Str("camera", g.Camera.Config().Name).
		Msg("game ready")
	return g, nil
}

// loadModel reads an OBJ file, or parses the built-in source when path is empty
func loadModel(ctx context.Context, path, name, builtin string) *asset.Future[*asset.Model] {
	if path != "" {
		return asset.LoadOBJ(ctx, path)
	}
	return asset.Load(ctx, func(ctx context.Context) (*asset.Model, error) {
		return asset.ParseOBJ(ctx, strings.NewReader(builtin), name)
	})
}

// populate drops the props, scenery and triggers
func (g *Game) populate(ctx context.Context, sc config.SceneConfig) {
	scene.AddBlockLane(g.World, g.Scene, sc.Blocks)

	style := scene.DefaultTextStyle()
	if sc.Sign.Text != "" {
		signStyle := style
		signStyle.Depth = parameter.SignDepth
		g.props = append(g.props, scene.AddSign(g.World, g.Scene, "sign", sc.Sign.Text, config.Vec3(sc.Sign.Position), 0, signStyle))
	}
	for i, n := range sc.Names {
		name := fmt.Sprintf("name%d", i)
		g.props = append(g.props, scene.AddText(g.World, g.Scene, name, n.Text, config.Vec3(n.Position), style)...)
	}
	if sc.Ball {
		g.props = append(g.props, scene.AddBall(g.World, g.Scene, "ball",
			vmath.Vec3F{parameter.BallX, parameter.BallY, parameter.BallZ},
			parameter.BallRadius, parameter.BallMass, parameter.BallColor))
	}

	for _, so := range sc.StaticObjects {
		model := asset.Track(g.Assets, so.Name, loadModel(ctx, so.Path, so.Name, asset.GateOBJ))
		g.statics = append(g.statics, scene.NewStaticObject(
			g.World, g.Scene, so.Name, model, config.Vec3(so.Position), config.Vec3(so.Scale), so.Yaw,
		))
	}
	for _, t := range sc.Triggers {
		g.triggers = append(g.triggers, scene.AddTrigger(
			g.World, g.Scene, t.Name, t.Label, config.Vec3(t.Position), t.Radius, t.Reach,
		))
	}
}

// Tick advances the simulation by one fixed step of dt seconds
func (g *Game) Tick(dt float64) {
	if !(dt > 0) {
		return
	}

	var snap input.Snapshot
	if g.input != nil {
		snap = g.input.Snapshot()
	}
	g.held = snap
	if snap.Reset {
		g.Vehicle.Reset()
	}

	sig := g.mapper.Map(snap)
	g.control = sig
	g.Vehicle.ApplyEngineForce(sig.Throttle)
	g.Vehicle.SetSteering(sig.Steer)
	g.Vehicle.SetBrake(sig.Brake)

	g.World.Step(dt)
	g.Vehicle.LimitSpeedSmooth(g.maxSpeed, g.damping)
	g.Vehicle.Step()
	g.Vehicle.PlayBrakeCue(sig.Braking)

	for _, p := range g.props {
		p.Sync()
	}
	for _, o := range g.statics {
		o.Update()
	}
	chassis := g.Vehicle.Chassis()
	for _, t := range g.triggers {
		t.Update(chassis.Position)
		if t.ConsumeClick() {
			g.clicks = append(g.clicks, t.Name)
		}
	}

	g.Camera.Update(&g.pose, camera.Target{
		Position:    chassis.Position,
		Velocity:    chassis.Velocity,
		Orientation: chassis.Orientation,
	}, dt)

	g.tick++
	g.publish()
}

// HandleClick forwards a ground-plane click to the triggers and returns the first hit
// The click is reported again by TakeClicks after the next tick
func (g *Game) HandleClick(point vmath.Vec3F) (string, bool) {
	for _, t := range g.triggers {
		if t.HandleClick(point) {
			g.log.Info().Str("trigger", t.Name).Msg("trigger clicked")
			return t.Name, true
		}
	}
	return "", false
}

// TakeClicks returns and clears the trigger names clicked since the last call
func (g *Game) TakeClicks() []string {
	out := g.clicks
	g.clicks = nil
	return out
}

// CycleCamera switches between the cinematic and chase presets
func (g *Game) CycleCamera() string {
	next := camera.ChaseConfig()
	if g.Camera.Config().Name == next.Name {
		next = camera.CinematicConfig()
	}
	g.Camera.SetConfig(next)
	g.log.Debug().Str("camera", next.Name).Msg("camera preset")
	return next.Name
}

// Ticks returns the number of completed ticks
func (g *Game) Ticks() uint64 {
	return g.tick
}

// CameraPose returns the pose written on the last tick
func (g *Game) CameraPose() camera.Pose {
	return g.pose
}

// Held returns the controls read on the last tick
func (g *Game) Held() input.Snapshot {
	return g.held
}

// Control returns the signal applied on the last tick
func (g *Game) Control() input.ControlSignal {
	return g.control
}

// Mapper returns the control mapper
func (g *Game) Mapper() *input.Mapper {
	return g.mapper
}

// Props returns the dynamic props
func (g *Game) Props() []*scene.Prop {
	return g.props
}

// StaticObjects returns the model-backed scenery
func (g *Game) StaticObjects() []*scene.StaticObject {
	return g.statics
}

// Triggers returns the trigger spheres
func (g *Game) Triggers() []*scene.TriggerSphere {
	return g.triggers
}
