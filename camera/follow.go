// Package camera implements the smoothed third-person follow camera
package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// Config tunes the follow camera
type Config struct {
	Name string
	// FollowRate and LookRate are per-second approach rates
	FollowRate float64
	LookRate   float64
	// LookAhead is how far ahead of the target the camera aims
	LookAhead float64
	// Offset is added to the target position in world space
	Offset vmath.Vec3F
	// LookHeight replaces the vertical component of the look-at point
	LookHeight float64
	// SpeedThreshold below which the target's own forward axis is used
	SpeedThreshold float64
	// LocalForward is the target's forward axis in its own frame
	LocalForward vmath.Vec3F
}

// CinematicConfig is the wide corner framing of the demo
func CinematicConfig() Config {
	return Config{
		Name:           "cinematic",
		FollowRate:     parameter.CameraFollowRate,
		LookRate:       parameter.CameraLookRate,
		LookAhead:      parameter.CameraLookAhead,
		Offset:         vmath.Vec3F{parameter.CameraOffsetX, parameter.CameraOffsetY, parameter.CameraOffsetZ},
		LookHeight:     parameter.CameraLookHeight,
		SpeedThreshold: parameter.CameraSpeedThreshold,
		LocalForward:   vmath.UnitZ,
	}
}

// ChaseConfig sits low behind a target driving toward +z
func ChaseConfig() Config {
	return Config{
		Name:           "chase",
		FollowRate:     parameter.ChaseFollowRate,
		LookRate:       parameter.ChaseLookRate,
		LookAhead:      parameter.ChaseLookAhead,
		Offset:         vmath.Vec3F{0, parameter.ChaseOffsetY, parameter.ChaseOffsetZ},
		LookHeight:     parameter.CameraLookHeight,
		SpeedThreshold: parameter.CameraSpeedThreshold,
		LocalForward:   vmath.UnitZ,
	}
}

// Preset returns a named configuration, falling back to cinematic
func Preset(name string) Config {
	if name == "chase" {
		return ChaseConfig()
	}
	return CinematicConfig()
}

// Target is the tracked body's state
type Target struct {
	Position    vmath.Vec3F
	Velocity    vmath.Vec3F
	Orientation vmath.QuatF
}

// Pose is the camera output; Orientation looks down its local -Z
type Pose struct {
	Position    vmath.Vec3F
	LookAt      vmath.Vec3F
	Orientation vmath.QuatF
}

// Forward returns the pose's viewing direction
func (p Pose) Forward() vmath.Vec3F {
	return p.Orientation.Rotate(vmath.Vec3F{0, 0, -1})
}

// FollowCamera keeps smoothed position and look-at accumulators across updates
type FollowCamera struct {
	cfg Config

	position    vmath.Vec3F
	lookAt      vmath.Vec3F
	lookDir     vmath.Vec3F
	orientation vmath.QuatF
}

// New creates a camera with both accumulators at the origin
func New(cfg Config) *FollowCamera {
	if _, ok := vmath.V3FNormalize(cfg.LocalForward); !ok {
		cfg.LocalForward = vmath.UnitZ
	}
	return &FollowCamera{
		cfg:         cfg,
		lookDir:     cfg.LocalForward,
		orientation: mgl64.QuatIdent(),
	}
}

// Config returns the active configuration
func (c *FollowCamera) Config() Config {
	return c.cfg
}

// SetConfig swaps tuning without touching the accumulators
func (c *FollowCamera) SetConfig(cfg Config) {
	if _, ok := vmath.V3FNormalize(cfg.LocalForward); !ok {
		cfg.LocalForward = vmath.UnitZ
	}
	c.cfg = cfg
}

// LookDirection is the direction chosen on the last update
func (c *FollowCamera) LookDirection() vmath.Vec3F {
	return c.lookDir
}

// Pose returns the current smoothed pose
func (c *FollowCamera) Pose() Pose {
	return Pose{Position: c.position, LookAt: c.lookAt, Orientation: c.orientation}
}

// Update advances the camera by dt toward the target and writes the result into pose
// The interpolation factor is clamped to [0, 1] so large dt never overshoots
func (c *FollowCamera) Update(pose *Pose, target Target, dt float64) {
	if !vmath.V3FFinite(target.Position) {
		return
	}

	desired := target.Position.Add(c.cfg.Offset)
	c.position = vmath.Approach(c.position, desired, vmath.SmoothFactor(c.cfg.FollowRate, dt))

	c.lookDir = c.lookDirection(target)
	desiredLook := vmath.Vec3F{
		target.Position.X() + c.lookDir.X()*c.cfg.LookAhead,
		c.cfg.LookHeight,
		target.Position.Z() + c.lookDir.Z()*c.cfg.LookAhead,
	}
	c.lookAt = vmath.Approach(c.lookAt, desiredLook, vmath.SmoothFactor(c.cfg.LookRate, dt))

	c.orientation = aim(c.position, c.lookAt, c.orientation)

	if pose != nil {
		*pose = c.Pose()
	}
}

func (c *FollowCamera) lookDirection(target Target) vmath.Vec3F {
	if target.Velocity.Len() > c.cfg.SpeedThreshold {
		if dir, ok := vmath.V3FNormalize(target.Velocity); ok {
			return dir
		}
	}
	q := target.Orientation
	if q == (vmath.QuatF{}) || !vmath.QFFinite(q) {
		q = mgl64.QuatIdent()
	}
	if dir, ok := vmath.V3FNormalize(q.Rotate(c.cfg.LocalForward)); ok {
		return dir
	}
	return c.cfg.LocalForward
}

// aim returns the orientation looking from eye at center, or prev when undefined
// Local -Z maps to the view direction and local +Y stays toward world up
func aim(eye, center vmath.Vec3F, prev vmath.QuatF) vmath.QuatF {
	forward, ok := vmath.V3FNormalize(center.Sub(eye))
	if !ok {
		return prev
	}
	right, ok := vmath.V3FNormalize(forward.Cross(vmath.UnitY))
	if !ok {
		return prev
	}
	// QuatLookAtV yields the view rotation and expects an up already orthogonal to forward
	q := mgl64.QuatLookAtV(eye, center, right.Cross(forward)).Inverse()
	if !vmath.QFFinite(q) {
		return prev
	}
	return q.Normalize()
}
