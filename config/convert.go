package config

import (
	"github.com/lixenwraith/arcade-drive/camera"
	"github.com/lixenwraith/arcade-drive/input"
	"github.com/lixenwraith/arcade-drive/vehicle"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// Vec3 converts a validated three-component slice; anything else yields zero
func Vec3(v []float64) vmath.Vec3F {
	if len(v) != 3 {
		return vmath.Vec3F{}
	}
	return vmath.Vec3F{v[0], v[1], v[2]}
}

// Gravity returns the world gravity vector
func (c *Config) Gravity() vmath.Vec3F {
	return vmath.Vec3F{0, c.Sim.Gravity, 0}
}

// VehicleConfig builds the chassis and wheel layout
func (c *Config) VehicleConfig() vehicle.Config {
	cfg := vehicle.DefaultConfig()
	cfg.Mass = c.Vehicle.Mass
	cfg.AngularDamping = c.Vehicle.AngularDamping
	cfg.HalfExtents = Vec3(c.Vehicle.HalfExtents)
	cfg.CenterOffset = Vec3(c.Vehicle.CenterOffset)
	cfg.Spawn = Vec3(c.Vehicle.Spawn)
	cfg.ModelScale = Vec3(c.Vehicle.ModelScale)
	cfg.Color = c.Vehicle.Color

	base := vehicle.BaseWheel()
	base.Radius = c.Wheel.Radius
	base.SuspensionStiffness = c.Wheel.SuspensionStiffness
	base.SuspensionRestLength = c.Wheel.SuspensionRestLength
	base.MaxSuspensionTravel = c.Wheel.MaxSuspensionTravel
	base.MaxSuspensionForce = c.Wheel.MaxSuspensionForce
	base.FrictionSlip = c.Wheel.FrictionSlip
	base.DampingCompression = c.Wheel.DampingCompression
	base.DampingRelaxation = c.Wheel.DampingRelaxation
	base.RollInfluence = c.Wheel.RollInfluence
	base.UseCustomSlidingSpeed = c.Wheel.UseCustomSliding
	base.CustomSlidingSpeed = c.Wheel.CustomSlidingSpeed
	cfg.Wheels = vehicle.LayoutWheels(base, cfg.HalfExtents)

	return cfg
}

// ResetPolicy builds the recovery policy
func (c *Config) ResetPolicy() vehicle.ResetPolicy {
	return vehicle.ResetPolicy{
		InPlace: c.Reset.InPlace,
		Spawn:   Vec3(c.Reset.Spawn),
		Yaw:     c.Reset.Yaw,
		Height:  c.Reset.Height,
	}
}

// MapperConfig builds the control magnitudes
func (c *Config) MapperConfig() input.MapperConfig {
	return input.MapperConfig{
		MaxForce: c.Input.MaxForce,
		MaxSteer: c.Input.MaxSteer,
		MaxBrake: c.Input.MaxBrake,
		IdleDrag: c.Input.IdleDrag,
	}
}

// Bindings applies configured key overrides to the defaults
func (c *Config) Bindings() (*input.Bindings, error) {
	return input.ParseBindings(input.DefaultBindings(), c.Input.Bindings)
}

// CameraConfig resolves the preset and applies non-zero overrides
func (c *Config) CameraConfig() camera.Config {
	cfg := camera.Preset(c.Camera.Preset)
	if c.Camera.FollowRate > 0 {
		cfg.FollowRate = c.Camera.FollowRate
	}
	if c.Camera.LookRate > 0 {
		cfg.LookRate = c.Camera.LookRate
	}
	if c.Camera.LookAhead > 0 {
		cfg.LookAhead = c.Camera.LookAhead
	}
	if len(c.Camera.Offset) == 3 {
		cfg.Offset = Vec3(c.Camera.Offset)
	}
	return cfg
}
