package parameter

import "math"

// Chassis
const (
	ChassisMass           = 150.0
	ChassisAngularDamping = 0.6

	// Chassis collision box half extents
	ChassisHalfWidth  = 1.2
	ChassisHalfHeight = 1.0
	ChassisHalfLength = 2.5

	// ChassisCenterOffsetY lifts the collision box above the body origin
	ChassisCenterOffsetY = 0.5

	// ChassisSpawnY is the starting height of the body origin
	ChassisSpawnY = 2.0

	ChassisColor = 0xaa1111
)

// Visual model scale applied to the loaded truck mesh
const (
	ModelScaleX = 1.3
	ModelScaleY = 0.75
	ModelScaleZ = 1.2
)

// Recovery
const (
	// ResetHeight is the drop height of a recovered vehicle above the ground point
	ResetHeight = 3.0

	// ResetYaw faces the recovered vehicle down the block lane
	ResetYaw = math.Pi / 2
)

// Engine sound pitch
const (
	// EnginePitchPerSpeed is the playback-rate gain per m/s
	EnginePitchPerSpeed = 0.08
	EnginePitchMin      = 1.0
	EnginePitchMax      = 2.0
)

// Wheel template shared by all four wheels
const (
	WheelRadius               = 0.6
	WheelSuspensionStiffness  = 35.0
	WheelSuspensionRestLength = 0.3
	WheelMaxSuspensionTravel  = 10.0
	WheelMaxSuspensionForce   = 1500.0
	WheelFrictionSlip         = 10.0
	WheelDampingCompression   = 6.4
	WheelDampingRelaxation    = 3.3
	WheelRollInfluence        = 0.08
	WheelCustomSlidingSpeed   = -30.0

	// Connection points as fractions of the chassis half extents
	WheelTrackFactor = 1.1
	WheelBaseFactor  = 0.5
	// WheelConnectionY is the connection height in the chassis frame
	WheelConnectionY = -1.0
)

// Wheel visuals
const (
	// WheelVisualHalfWidth is the half thickness of a drawn wheel along its axle
	WheelVisualHalfWidth = 0.125
	WheelColor           = 0x333333
)
