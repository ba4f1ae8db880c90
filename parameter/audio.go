package parameter

// Sound volumes
const (
	EngineVolume = 1.0
	BrakeVolume  = 0.8
)
