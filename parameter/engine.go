package parameter

import "time"

// Simulation timing
const (
	// SimTimestep is the fixed physics step in seconds (30 Hz)
	SimTimestep = 1.0 / 30.0

	// SimMaxSubSteps caps catch-up steps after a stalled frame
	SimMaxSubSteps = 3

	// FrameUpdateInterval is the rendering frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// EventQueueSize is the buffered capacity between the terminal reader and the loop
	EventQueueSize = 100
)

// World physics
const (
	// Gravity is the world's vertical acceleration
	Gravity = -9.82

	// MaxSpeed is the soft speed limit in m/s
	MaxSpeed = 50.0

	// SpeedDamping is the per-tick velocity multiplier applied above MaxSpeed
	SpeedDamping = 0.9
)
