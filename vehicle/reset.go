package vehicle

import (
	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// ResetPolicy decides where a reset puts the chassis
// Resets always zero linear and angular velocity
type ResetPolicy struct {
	// InPlace recovers over the chassis' current ground point instead of Spawn
	InPlace bool
	// Spawn is the ground point used when InPlace is false; its Y is ground level
	Spawn vmath.Vec3F
	// Yaw is the heading after reset, radians about +Y
	Yaw float64
	// Height is the recovery drop height above the ground point
	Height float64
}

// DefaultResetPolicy matches the demo: flip upright where the truck is, facing +X, 3 units up
func DefaultResetPolicy() ResetPolicy {
	return ResetPolicy{
		InPlace: true,
		Yaw:     parameter.ResetYaw,
		Height:  parameter.ResetHeight,
	}
}

// GroundPoint returns the point the chassis is recovered over
func (p ResetPolicy) GroundPoint(current vmath.Vec3F) vmath.Vec3F {
	if p.InPlace {
		return vmath.Vec3F{current.X(), p.Spawn.Y(), current.Z()}
	}
	return p.Spawn
}
