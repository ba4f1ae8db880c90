package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/input"
)

// Validate reports every invalid value in one error
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}
	positive := func(key string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			add("%s must be positive, got %v", key, v)
		}
	}
	finite := func(key string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			add("%s must be finite, got %v", key, v)
		}
	}
	nonNegative := func(key string, v float64) {
		if v < 0 || math.IsNaN(v) {
			add("%s must not be negative, got %v", key, v)
		}
	}
	vec3 := func(key string, v []float64, positiveOnly bool) {
		if len(v) != 3 {
			add("%s must have 3 components, got %d", key, len(v))
			return
		}
		for i, x := range v {
			if positiveOnly {
				positive(fmt.Sprintf("%s[%d]", key, i), x)
			} else {
				finite(fmt.Sprintf("%s[%d]", key, i), x)
			}
		}
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		add("log.level %q is not a log level", c.Log.Level)
	}

	positive("sim.timestep", c.Sim.Timestep)
	if c.Sim.MaxSubSteps < 1 {
		add("sim.max_substeps must be at least 1, got %d", c.Sim.MaxSubSteps)
	}
	positive("sim.max_speed", c.Sim.MaxSpeed)
	if !(c.Sim.SpeedDamping > 0 && c.Sim.SpeedDamping < 1) {
		add("sim.speed_damping must be in (0, 1), got %v", c.Sim.SpeedDamping)
	}
	finite("sim.gravity", c.Sim.Gravity)

	positive("vehicle.mass", c.Vehicle.Mass)
	if c.Vehicle.AngularDamping < 0 || c.Vehicle.AngularDamping > 1 {
		add("vehicle.angular_damping must be in [0, 1], got %v", c.Vehicle.AngularDamping)
	}
	vec3("vehicle.half_extents", c.Vehicle.HalfExtents, true)
	vec3("vehicle.center_offset", c.Vehicle.CenterOffset, false)
	vec3("vehicle.spawn", c.Vehicle.Spawn, false)
	vec3("vehicle.model_scale", c.Vehicle.ModelScale, true)

	vec3("reset.spawn", c.Reset.Spawn, false)
	finite("reset.yaw", c.Reset.Yaw)
	positive("reset.height", c.Reset.Height)

	positive("wheel.radius", c.Wheel.Radius)
	positive("wheel.suspension_stiffness", c.Wheel.SuspensionStiffness)
	positive("wheel.suspension_rest_length", c.Wheel.SuspensionRestLength)
	positive("wheel.max_suspension_travel", c.Wheel.MaxSuspensionTravel)
	positive("wheel.max_suspension_force", c.Wheel.MaxSuspensionForce)
	positive("wheel.friction_slip", c.Wheel.FrictionSlip)
	finite("wheel.damping_compression", c.Wheel.DampingCompression)
	finite("wheel.damping_relaxation", c.Wheel.DampingRelaxation)
	finite("wheel.roll_influence", c.Wheel.RollInfluence)

	positive("input.max_force", c.Input.MaxForce)
	positive("input.max_steer", c.Input.MaxSteer)
	positive("input.max_brake", c.Input.MaxBrake)
	nonNegative("input.idle_drag", c.Input.IdleDrag)
	if c.Input.Hold <= 0 {
		add("input.hold must be a positive duration, got %v", c.Input.Hold)
	}
	if _, err := input.ParseBindings(nil, c.Input.Bindings); err != nil {
		add("input.bindings: %v", err)
	}

	if c.Camera.Preset != "cinematic" && c.Camera.Preset != "chase" {
		add("camera.preset must be cinematic or chase, got %q", c.Camera.Preset)
	}
	if len(c.Camera.Offset) != 0 {
		vec3("camera.offset", c.Camera.Offset, false)
	}

	nonNegative("audio.engine_volume", c.Audio.EngineVolume)
	nonNegative("audio.brake_volume", c.Audio.BrakeVolume)

	if c.Scene.Blocks < 0 {
		add("scene.blocks must not be negative, got %d", c.Scene.Blocks)
	}
	if c.Scene.Sign.Text != "" {
		vec3("scene.sign.position", c.Scene.Sign.Position, false)
	}
	for i, n := range c.Scene.Names {
		vec3(fmt.Sprintf("scene.names[%d].position", i), n.Position, false)
	}
	for i, o := range c.Scene.StaticObjects {
		if o.Name == "" {
			add("scene.static_objects[%d].name is required", i)
		}
		vec3(fmt.Sprintf("scene.static_objects[%d].position", i), o.Position, false)
		if len(o.Scale) != 0 {
			vec3(fmt.Sprintf("scene.static_objects[%d].scale", i), o.Scale, true)
		}
	}
	for i, t := range c.Scene.Triggers {
		if t.Name == "" {
			add("scene.triggers[%d].name is required", i)
		}
		vec3(fmt.Sprintf("scene.triggers[%d].position", i), t.Position, false)
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.Addr == "" {
			add("telemetry.addr is required when telemetry is enabled")
		}
		if c.Telemetry.Every < 1 {
			add("telemetry.every must be at least 1, got %d", c.Telemetry.Every)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
