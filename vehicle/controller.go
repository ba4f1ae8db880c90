// Package vehicle drives a chassis body on four raycast wheels.
//
// Engine force sign: the forward axis is +z but the wheel friction frame points
// the drive direction along -z, so a NEGATIVE engine force moves the truck
// forward (+z) and a positive one reverses. Input mapping relies on this.
package vehicle

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/asset"
	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/physics"
	"github.com/lixenwraith/arcade-drive/scene"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// Sound is the subset of an audio source the controller drives
type Sound interface {
	Play()
	Stop()
	IsPlaying() bool
	SetPlaybackRate(rate float64)
}

// Scene receives the chassis and wheel nodes
type Scene interface {
	Add(n *scene.Node) *scene.Node
}

// Node names registered by the controller
const (
	ChassisNodeName = "chassis"
	wheelNodePrefix = "wheel/"
)

// Config describes the chassis; wheels are placed by their role tags
type Config struct {
	HalfExtents    vmath.Vec3F
	CenterOffset   vmath.Vec3F
	Mass           float64
	AngularDamping float64
	Spawn          vmath.Vec3F
	Wheels         []WheelConfig
	// ModelScale stretches the visual model's bounds; zero keeps chassis extents
	ModelScale vmath.Vec3F
	Color      uint32
}

// DefaultConfig is the demo truck
func DefaultConfig() Config {
	half := vmath.Vec3F{parameter.ChassisHalfWidth, parameter.ChassisHalfHeight, parameter.ChassisHalfLength}
	return Config{
		HalfExtents:    half,
		CenterOffset:   vmath.Vec3F{0, parameter.ChassisCenterOffsetY, 0},
		Mass:           parameter.ChassisMass,
		AngularDamping: parameter.ChassisAngularDamping,
		Spawn:          vmath.Vec3F{0, parameter.ChassisSpawnY, 0},
		Wheels:         DefaultWheels(half),
		ModelScale:     vmath.Vec3F{parameter.ModelScaleX, parameter.ModelScaleY, parameter.ModelScaleZ},
		Color:          parameter.ChassisColor,
	}
}

// ChassisState is a read-only copy of the chassis body state
type ChassisState struct {
	Position        vmath.Vec3F
	Orientation     vmath.QuatF
	Velocity        vmath.Vec3F
	AngularVelocity vmath.Vec3F
	Mass            float64
	AngularDamping  float64
}

// WheelRuntime is the per-tick derived state of one wheel
type WheelRuntime struct {
	Role        string
	Position    vmath.Vec3F
	Orientation vmath.QuatF
	Steering    float64
	EngineForce float64
	Brake       float64
	Compression float64
	InContact   bool
}

// Controller owns the chassis body, its raycast vehicle and the derived wheel state
type Controller struct {
	cfg    Config
	world  *physics.World
	scene  Scene
	body   *physics.Body
	rv     *physics.RaycastVehicle
	wheels [WheelCount]WheelConfig

	chassisNode *scene.Node
	wheelNodes  [WheelCount]*scene.Node

	model       *asset.Future[*asset.Model]
	modelFailed bool
	visualReady bool

	engineSound Sound
	brakeSound  Sound
	reset       ResetPolicy

	log zerolog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger attaches a logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithEngineSound attaches the looping engine source whose pitch follows speed
func WithEngineSound(s Sound) Option {
	return func(c *Controller) { c.engineSound = s }
}

// WithBrakeSound attaches the brake loop used by PlayBrakeCue
func WithBrakeSound(s Sound) Option {
	return func(c *Controller) { c.brakeSound = s }
}

// WithResetPolicy replaces DefaultResetPolicy
func WithResetPolicy(p ResetPolicy) Option {
	return func(c *Controller) { c.reset = p }
}

// WithModel gates visual sync on an asynchronously loaded chassis model
// Without it the visual is ready immediately
func WithModel(f *asset.Future[*asset.Model]) Option {
	return func(c *Controller) { c.model = f }
}

// New builds the chassis, attaches four wheels in front-left, front-right,
// rear-left, rear-right order and registers the visual nodes
func New(world *physics.World, sc Scene, cfg Config, opts ...Option) (*Controller, error) {
	if world == nil {
		return nil, ErrNoWorld
	}
	if isNilScene(sc) {
		return nil, ErrNoScene
	}
	if len(cfg.Wheels) == 0 {
		cfg.Wheels = DefaultWheels(cfg.HalfExtents)
	}
	wheels, err := arrangeWheels(cfg.Wheels)
	if err != nil {
		return nil, err
	}
	if cfg.Mass <= 0 {
		return nil, fmt.Errorf("vehicle: chassis mass must be positive, got %v", cfg.Mass)
	}

	c := &Controller{
		cfg:    cfg,
		world:  world,
		scene:  sc,
		wheels: wheels,
		reset:  DefaultResetPolicy(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	body := physics.NewBody(cfg.Mass, physics.Box(cfg.HalfExtents).WithOffset(cfg.CenterOffset))
	body.Name = ChassisNodeName
	body.Position = cfg.Spawn
	body.AngularDamping = cfg.AngularDamping
	c.body = body

	c.rv = physics.NewRaycastVehicle(body, vmath.AxisIndexX, vmath.AxisIndexY, vmath.AxisIndexZ)
	for _, w := range c.wheels {
		c.rv.AddWheel(w.options())
	}
	c.rv.AddToWorld(world)

	c.chassisNode = scene.NewNode(ChassisNodeName, scene.KindChassis)
	c.chassisNode.HalfExtents = cfg.HalfExtents
	c.chassisNode.Color = cfg.Color
	c.chassisNode.Visible = false
	sc.Add(c.chassisNode)
	for i, w := range c.wheels {
		n := scene.NewNode(wheelNodePrefix+w.Role(), scene.KindWheel)
		n.Radius = w.Radius
		n.HalfExtents = vmath.Vec3F{parameter.WheelVisualHalfWidth, w.Radius, w.Radius}
		n.Color = parameter.WheelColor
		n.Visible = false
		c.wheelNodes[i] = sc.Add(n)
	}

	if c.model == nil {
		c.setVisualReady(true)
	}

	c.log.Debug().
		Float64("mass", cfg.Mass).
		Interface("spawn", cfg.Spawn).
		Msg("vehicle created")
	return c, nil
}

func isNilScene(sc Scene) bool {
	if sc == nil {
		return true
	}
	s, ok := sc.(*scene.Scene)
	return ok && s == nil
}

// Body exposes the chassis body for world-level queries; callers must not mutate it
func (c *Controller) Body() *physics.Body {
	return c.body
}

// Chassis returns a copy of the chassis state
func (c *Controller) Chassis() ChassisState {
	return ChassisState{
		Position:        c.body.Position,
		Orientation:     c.body.Orientation,
		Velocity:        c.body.Velocity,
		AngularVelocity: c.body.AngularVelocity,
		Mass:            c.body.Mass,
		AngularDamping:  c.body.AngularDamping,
	}
}

// Speed is the chassis speed in units per second
func (c *Controller) Speed() float64 {
	return c.body.Velocity.Len()
}

// SpeedKmh is the signed forward speed as reported by the raycast vehicle
func (c *Controller) SpeedKmh() float64 {
	return c.rv.CurrentSpeedKmHour()
}

// ApplyEngineForce applies the same signed force to all four wheels
// Negative drives forward (+z), positive reverses
func (c *Controller) ApplyEngineForce(force float64) {
	for i := 0; i < WheelCount; i++ {
		c.rv.ApplyEngineForce(force, i)
	}
}

// SetSteering turns the front wheels only; positive steers left
func (c *Controller) SetSteering(angle float64) {
	c.rv.SetSteeringValue(angle, FrontLeft)
	c.rv.SetSteeringValue(angle, FrontRight)
}

// SetBrake applies the same brake force to all four wheels
func (c *Controller) SetBrake(force float64) {
	for i := 0; i < WheelCount; i++ {
		c.rv.SetBrake(force, i)
	}
}

// Step refreshes wheel transforms, the engine pitch and the visual nodes
// Call once per physics step before reading transforms
func (c *Controller) Step() {
	if !c.stateFinite() {
		c.log.Debug().Msg("chassis state not finite, skipping step")
		return
	}

	for i := 0; i < WheelCount; i++ {
		c.rv.UpdateWheelTransform(i)
	}

	if c.engineSound != nil && c.engineSound.IsPlaying() {
		c.engineSound.SetPlaybackRate(EnginePitch(c.Speed()))
	}

	c.pollModel()
	if c.visualReady {
		c.syncNodes()
	}
}

// EnginePitch maps speed to playback rate in [1, 2]
func EnginePitch(speed float64) float64 {
	return vmath.ClampF(1+speed*parameter.EnginePitchPerSpeed, parameter.EnginePitchMin, parameter.EnginePitchMax)
}

func (c *Controller) stateFinite() bool {
	b := c.body
	return vmath.V3FFinite(b.Position) && vmath.V3FFinite(b.Velocity) &&
		vmath.V3FFinite(b.AngularVelocity) && vmath.QFFinite(b.Orientation)
}

func (c *Controller) pollModel() {
	if c.visualReady || c.model == nil || c.modelFailed {
		return
	}
	m, done, err := c.model.Poll()
	if !done {
		return
	}
	if err != nil {
		c.modelFailed = true
		c.log.Error().Err(err).Msg("chassis model failed to load")
		return
	}
	if s := c.cfg.ModelScale; s != (vmath.Vec3F{}) {
		size := m.Size()
		c.chassisNode.HalfExtents = vmath.Vec3F{size[0] * s[0] / 2, size[1] * s[1] / 2, size[2] * s[2] / 2}
	}
	c.setVisualReady(true)
}

func (c *Controller) setVisualReady(ready bool) {
	c.visualReady = ready
	c.chassisNode.Visible = ready
	for _, n := range c.wheelNodes {
		n.Visible = ready
	}
	if ready {
		c.syncNodes()
	}
}

// SetVisualReady overrides the model gate
func (c *Controller) SetVisualReady(ready bool) {
	c.setVisualReady(ready)
}

// VisualReady reports whether nodes follow the physics state
func (c *Controller) VisualReady() bool {
	return c.visualReady
}

func (c *Controller) syncNodes() {
	c.chassisNode.SetPose(c.body.Position, c.body.Orientation)
	for i, n := range c.wheelNodes {
		t := c.rv.WheelTransformWorld(i)
		n.SetPose(t.Position, t.Orientation)
	}
}

// Wheel returns the runtime state of wheel i
func (c *Controller) Wheel(i int) (WheelRuntime, bool) {
	if i < 0 || i >= WheelCount {
		return WheelRuntime{}, false
	}
	info := c.rv.Wheels[i]
	t := c.rv.WheelTransformWorld(i)
	return WheelRuntime{
		Role:        c.wheels[i].Role(),
		Position:    t.Position,
		Orientation: t.Orientation,
		Steering:    info.Steering,
		EngineForce: info.EngineForce,
		Brake:       info.Brake,
		Compression: info.Compression(),
		InContact:   info.InContact,
	}, true
}

// Wheels returns all four wheel states in index order
func (c *Controller) Wheels() [WheelCount]WheelRuntime {
	var out [WheelCount]WheelRuntime
	for i := range out {
		out[i], _ = c.Wheel(i)
	}
	return out
}

// LimitSpeedSmooth damps chassis velocity once when above maxSpeed
func (c *Controller) LimitSpeedSmooth(maxSpeed, damping float64) {
	c.body.Velocity = LimitSpeed(c.body.Velocity, maxSpeed, damping)
}

// ResetPose stops the chassis and drops it upright over ground, facing yaw
func (c *Controller) ResetPose(ground vmath.Vec3F, yaw float64) {
	b := c.body
	b.Velocity = vmath.Vec3F{}
	b.AngularVelocity = vmath.Vec3F{}
	b.Orientation = vmath.QFYaw(yaw)
	b.Position = vmath.Vec3F{ground.X(), ground.Y() + c.reset.Height, ground.Z()}
	for i := 0; i < WheelCount; i++ {
		c.rv.UpdateWheelTransform(i)
	}
	c.log.Info().
		Float64("x", b.Position.X()).
		Float64("z", b.Position.Z()).
		Float64("yaw", yaw).
		Msg("vehicle reset")
}

// Reset applies the configured reset policy
func (c *Controller) Reset() {
	c.ResetPose(c.reset.GroundPoint(c.body.Position), c.reset.Yaw)
}

// ResetPolicy returns the active policy
func (c *Controller) ResetPolicy() ResetPolicy {
	return c.reset
}

// PlayBrakeCue starts the brake loop on entering a brake and always stops it otherwise
func (c *Controller) PlayBrakeCue(braking bool) {
	if c.brakeSound == nil {
		return
	}
	if braking {
		if !c.brakeSound.IsPlaying() {
			c.brakeSound.Play()
		}
		return
	}
	c.brakeSound.Stop()
}

// Heading returns the chassis forward direction in world space
func (c *Controller) Heading() vmath.Vec3F {
	return c.body.VectorToWorld(vmath.UnitZ)
}

// Yaw is the heading angle about the up axis; 0 faces +Z, positive turns toward +X
func (c *Controller) Yaw() float64 {
	return vmath.YawOf(c.Heading())
}

// Upright reports whether the chassis up axis points above the horizon
func (c *Controller) Upright() bool {
	return c.body.VectorToWorld(vmath.UnitY).Y() > math.Cos(mgl64.DegToRad(80))
}
