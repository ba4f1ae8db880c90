package vehicle

import "github.com/lixenwraith/arcade-drive/vmath"

// LimitSpeed scales v by damping once when its magnitude exceeds maxSpeed
// Repeated per tick this decays speed geometrically toward the limit
// Damping outside (0, 1) returns v unchanged so the result never flips or grows
func LimitSpeed(v vmath.Vec3F, maxSpeed, damping float64) vmath.Vec3F {
	if damping <= 0 || damping >= 1 {
		return v
	}
	if v.Len() > maxSpeed {
		return v.Mul(damping)
	}
	return v
}
