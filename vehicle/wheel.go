package vehicle

import (
	"fmt"

	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/physics"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// Axle tags a wheel as front or rear
type Axle uint8

const (
	AxleFront Axle = iota
	AxleRear
)

func (a Axle) String() string {
	if a == AxleFront {
		return "front"
	}
	return "rear"
}

// Side tags a wheel as left or right, seen from the driver's seat facing +z
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Wheel indices; steering touches only the front pair
const (
	FrontLeft = iota
	FrontRight
	RearLeft
	RearRight
	WheelCount
)

// WheelConfig is the immutable description of one wheel
type WheelConfig struct {
	Axle Axle
	Side Side

	Radius               float64
	Direction            vmath.Vec3F
	SuspensionStiffness  float64
	SuspensionRestLength float64
	MaxSuspensionTravel  float64
	MaxSuspensionForce   float64
	FrictionSlip         float64
	DampingCompression   float64
	DampingRelaxation    float64
	RollInfluence        float64
	AxleLocal            vmath.Vec3F
	Connection           vmath.Vec3F

	UseCustomSlidingSpeed bool
	CustomSlidingSpeed    float64
}

// Index returns the fixed slot of the wheel's role
func (w WheelConfig) Index() int {
	i := 0
	if w.Axle == AxleRear {
		i += 2
	}
	if w.Side == SideRight {
		i++
	}
	return i
}

// Role returns a readable label such as "front-left"
func (w WheelConfig) Role() string {
	return w.Axle.String() + "-" + w.Side.String()
}

func (w WheelConfig) options() physics.WheelOptions {
	return physics.WheelOptions{
		Radius:                          w.Radius,
		DirectionLocal:                  w.Direction,
		SuspensionStiffness:             w.SuspensionStiffness,
		SuspensionRestLength:            w.SuspensionRestLength,
		MaxSuspensionTravel:             w.MaxSuspensionTravel,
		MaxSuspensionForce:              w.MaxSuspensionForce,
		FrictionSlip:                    w.FrictionSlip,
		DampingRelaxation:               w.DampingRelaxation,
		DampingCompression:              w.DampingCompression,
		RollInfluence:                   w.RollInfluence,
		AxleLocal:                       w.AxleLocal,
		ChassisConnectionPointLocal:     w.Connection,
		UseCustomSlidingRotationalSpeed: w.UseCustomSlidingSpeed,
		CustomSlidingRotationalSpeed:    w.CustomSlidingSpeed,
	}
}

// BaseWheel is the shared template of the demo truck
func BaseWheel() WheelConfig {
	return WheelConfig{
		Radius:                parameter.WheelRadius,
		Direction:             vmath.Vec3F{0, -1, 0},
		SuspensionStiffness:   parameter.WheelSuspensionStiffness,
		SuspensionRestLength:  parameter.WheelSuspensionRestLength,
		MaxSuspensionTravel:   parameter.WheelMaxSuspensionTravel,
		MaxSuspensionForce:    parameter.WheelMaxSuspensionForce,
		FrictionSlip:          parameter.WheelFrictionSlip,
		DampingCompression:    parameter.WheelDampingCompression,
		DampingRelaxation:     parameter.WheelDampingRelaxation,
		RollInfluence:         parameter.WheelRollInfluence,
		AxleLocal:             vmath.Vec3F{-1, 0, 0},
		UseCustomSlidingSpeed: true,
		CustomSlidingSpeed:    parameter.WheelCustomSlidingSpeed,
	}
}

// MirrorWheels places copies of base at (±x, y, ±z); left is +x because forward is +z
func MirrorWheels(base WheelConfig, x, y, z float64) []WheelConfig {
	out := make([]WheelConfig, 0, WheelCount)
	for _, axle := range []Axle{AxleFront, AxleRear} {
		for _, side := range []Side{SideLeft, SideRight} {
			w := base
			w.Axle, w.Side = axle, side
			w.Connection = vmath.Vec3F{x, y, z}
			if side == SideRight {
				w.Connection[0] = -x
			}
			if axle == AxleRear {
				w.Connection[2] = -z
			}
			out = append(out, w)
		}
	}
	return out
}

// DefaultWheels derives the demo wheel layout from chassis half extents
func DefaultWheels(halfExtents vmath.Vec3F) []WheelConfig {
	return LayoutWheels(BaseWheel(), halfExtents)
}

// LayoutWheels mirrors base around the chassis using the demo track and base factors
func LayoutWheels(base WheelConfig, halfExtents vmath.Vec3F) []WheelConfig {
	return MirrorWheels(base, halfExtents.X()*parameter.WheelTrackFactor, parameter.WheelConnectionY, halfExtents.Z()*parameter.WheelBaseFactor)
}

// arrangeWheels orders configs by role and rejects missing or repeated roles
func arrangeWheels(configs []WheelConfig) ([WheelCount]WheelConfig, error) {
	var out [WheelCount]WheelConfig
	if len(configs) != WheelCount {
		return out, fmt.Errorf("%w: want %d wheels, got %d", ErrWheelLayout, WheelCount, len(configs))
	}
	var seen [WheelCount]bool
	for _, w := range configs {
		if w.Axle > AxleRear || w.Side > SideRight {
			return out, fmt.Errorf("%w: invalid role axle=%d side=%d", ErrWheelLayout, w.Axle, w.Side)
		}
		i := w.Index()
		if seen[i] {
			return out, fmt.Errorf("%w: duplicate %s wheel", ErrWheelLayout, w.Role())
		}
		if w.Radius <= 0 {
			return out, fmt.Errorf("%w: %s wheel radius %v", ErrWheelLayout, w.Role(), w.Radius)
		}
		seen[i] = true
		out[i] = w
	}
	return out, nil
}
