package parameter

// Block lane
const (
	BlockCount = 50
)

// Ball prop
const (
	BallRadius = 2.0
	BallMass   = 1.0
	BallX      = 8.0
	BallY      = 10.0
	BallZ      = 5.0
	BallColor  = 0x2194ce
)

// Lettered props
const (
	SignText  = "Use W A S D"
	SignX     = -9.0
	SignY     = 2.0
	SignZ     = 5.0
	SignDepth = 1.5

	LetterSize  = 2.0
	LetterDepth = 1.0
	LetterMass  = 1.0
)

// Static scenery and trigger spheres
const (
	GateX = 0.0
	GateZ = 60.0

	TriggerX           = 12.0
	TriggerY           = 2.0
	TriggerZ           = 30.0
	TriggerRadius      = 2.0
	TriggerReachRadius = 5.0
)
