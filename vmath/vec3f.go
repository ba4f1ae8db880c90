package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3F and QuatF alias the mgl64 types so physics, vehicle and camera code
// share one vector representation without conversions in hot paths
type (
	Vec3F = mgl64.Vec3
	QuatF = mgl64.Quat
)

// Axis indices used by the raycast vehicle (x = right, y = up, z = forward)
const (
	AxisIndexX = 0
	AxisIndexY = 1
	AxisIndexZ = 2
)

var (
	UnitX = Vec3F{1, 0, 0}
	UnitY = Vec3F{0, 1, 0}
	UnitZ = Vec3F{0, 0, 1}
)

// Axis returns the unit basis vector for index 0..2, zero vector otherwise
func Axis(index int) Vec3F {
	switch index {
	case AxisIndexX:
		return UnitX
	case AxisIndexY:
		return UnitY
	case AxisIndexZ:
		return UnitZ
	}
	return Vec3F{}
}

// V3FNormalize returns the unit vector and false when v has no usable length
func V3FNormalize(v Vec3F) (Vec3F, bool) {
	l := v.Len()
	if l < 1e-12 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3F{}, false
	}
	inv := 1.0 / l
	return Vec3F{v[0] * inv, v[1] * inv, v[2] * inv}, true
}

// V3FFinite reports whether every component is a real number
func V3FFinite(v Vec3F) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// QFFinite reports whether every quaternion component is a real number
func QFFinite(q QuatF) bool {
	return V3FFinite(q.V) && !math.IsNaN(q.W) && !math.IsInf(q.W, 0)
}

// QFAxisAngle builds a unit quaternion rotating angle radians about axis
func QFAxisAngle(axis Vec3F, angle float64) QuatF {
	n, ok := V3FNormalize(axis)
	if !ok {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(angle, n)
}

// QFYaw is a rotation about the world up (Y) axis
func QFYaw(yaw float64) QuatF {
	return mgl64.QuatRotate(yaw, UnitY)
}

// QFIntegrate advances orientation q by angular velocity w over dt
// q' = q + 0.5*dt*(w,0)*q, renormalized
func QFIntegrate(q QuatF, w Vec3F, dt float64) QuatF {
	spin := QuatF{W: 0, V: w}.Mul(q)
	q = QuatF{
		W: q.W + 0.5*dt*spin.W,
		V: q.V.Add(spin.V.Mul(0.5 * dt)),
	}
	if q.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}

// VelocityAtPoint returns v + w × r for a rigid body point at offset r
func VelocityAtPoint(v, w, r Vec3F) Vec3F {
	return v.Add(w.Cross(r))
}

// InvInertiaWorld rotates a diagonal local inverse inertia into world space: R·D·Rᵀ
func InvInertiaWorld(q QuatF, invLocal Vec3F) mgl64.Mat3 {
	r := q.Mat4().Mat3()
	return r.Mul3(mgl64.Diag3(invLocal)).Mul3(r.Transpose())
}

// BoxInertia returns the principal inertia of a solid box from its half extents
func BoxInertia(mass float64, half Vec3F) Vec3F {
	x, y, z := 2*half[0], 2*half[1], 2*half[2]
	k := mass / 12.0
	return Vec3F{k * (y*y + z*z), k * (x*x + z*z), k * (x*x + y*y)}
}

// SphereInertia returns the principal inertia of a solid sphere
func SphereInertia(mass, radius float64) Vec3F {
	i := 2.0 / 5.0 * mass * radius * radius
	return Vec3F{i, i, i}
}

// InvertDiag inverts each positive component, zero stays zero (static axis)
func InvertDiag(v Vec3F) Vec3F {
	var out Vec3F
	for i, c := range v {
		if c > 0 {
			out[i] = 1.0 / c
		}
	}
	return out
}

// ProjectOnPlane removes the component of v along unit normal n
func ProjectOnPlane(v, n Vec3F) Vec3F {
	return v.Sub(n.Mul(v.Dot(n)))
}
