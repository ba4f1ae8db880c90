package vmath

import "math"

// --- Scalar helpers ---

func ClampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits an interpolation factor to [0, 1]
// NaN collapses to 0 so a bad dt never propagates into smoothed state
func Clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// SmoothFactor is the clamped exponential-approach factor for one frame
func SmoothFactor(rate, dt float64) float64 {
	return Clamp01(rate * dt)
}

// Approach moves current toward target by factor t in [0, 1]
func Approach(current, target Vec3F, t float64) Vec3F {
	t = Clamp01(t)
	return current.Add(target.Sub(current).Mul(t))
}

// SignF returns -1, 0 or 1
func SignF(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// YawOf extracts the heading angle of a horizontal direction (0 = +Z, π/2 = +X)
func YawOf(dir Vec3F) float64 {
	return math.Atan2(dir[0], dir[2])
}
