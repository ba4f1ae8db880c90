package parameter

import "time"

// Control magnitudes
const (
	// MaxEngineForce is applied negative for forward travel
	MaxEngineForce = 300.0
	MaxSteer       = 0.3
	MaxBrakeForce  = 15.0

	// IdleDrag is the brake force applied when not fully braking
	IdleDrag = 2.0
)

// Terminal key hold emulation
const (
	// KeyHold keeps a control active after each auto-repeat
	KeyHold = 150 * time.Millisecond

	// KeyInitialHold covers the terminal's delay before auto-repeat starts
	KeyInitialHold = 500 * time.Millisecond
)
