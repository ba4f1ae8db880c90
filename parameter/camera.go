package parameter

// Cinematic follow camera
const (
	CameraFollowRate     = 10.0
	CameraLookRate       = 5.0
	CameraLookAhead      = 5.0
	CameraOffsetX        = 10.0
	CameraOffsetY        = 10.0
	CameraOffsetZ        = -10.0
	CameraLookHeight     = 1.0
	CameraSpeedThreshold = 0.1
)

// Chase camera
const (
	ChaseFollowRate = 8.0
	ChaseLookRate   = 8.0
	ChaseLookAhead  = 8.0
	ChaseOffsetY    = 4.0
	ChaseOffsetZ    = -10.0
)
