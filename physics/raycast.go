package physics

import (
	"math"

	"github.com/lixenwraith/arcade-drive/vmath"
)

// RayHit describes the closest intersection along a ray
type RayHit struct {
	Body     *Body
	Point    vmath.Vec3F
	Normal   vmath.Vec3F
	Distance float64
}

// RayOptions filters raycast candidates
type RayOptions struct {
	Skip       *Body
	StaticOnly bool
}

// Raycast returns the closest hit on the segment from..to
// Back faces of planes are ignored
func (w *World) Raycast(from, to vmath.Vec3F, opts RayOptions) (RayHit, bool) {
	dir, ok := vmath.V3FNormalize(to.Sub(from))
	if !ok {
		return RayHit{}, false
	}
	maxDist := to.Sub(from).Len()

	best := RayHit{Distance: math.Inf(1)}
	found := false
	for _, b := range w.bodies {
		if b == opts.Skip || (opts.StaticOnly && !b.IsStatic()) {
			continue
		}
		for _, s := range b.Shapes {
			t, n, hit := rayShape(b, s, from, dir, maxDist)
			if hit && t < best.Distance {
				best = RayHit{Body: b, Point: from.Add(dir.Mul(t)), Normal: n, Distance: t}
				found = true
			}
		}
	}
	return best, found
}

// shapeFrame returns world centre and orientation of a shape
func shapeFrame(b *Body, s Shape) (vmath.Vec3F, vmath.QuatF) {
	return b.PointToWorld(s.Offset), b.Orientation.Mul(s.Orientation)
}

func rayShape(b *Body, s Shape, from, dir vmath.Vec3F, maxDist float64) (float64, vmath.Vec3F, bool) {
	center, q := shapeFrame(b, s)
	switch s.Kind {
	case ShapePlane:
		return rayPlane(center, q.Rotate(vmath.UnitY), from, dir, maxDist)
	case ShapeSphere:
		return raySphere(center, s.Radius, from, dir, maxDist)
	case ShapeBox:
		return rayBox(center, q, s.HalfExtents, from, dir, maxDist)
	}
	return 0, vmath.Vec3F{}, false
}

func rayPlane(point, normal, from, dir vmath.Vec3F, maxDist float64) (float64, vmath.Vec3F, bool) {
	denom := normal.Dot(dir)
	if denom > -1e-9 {
		return 0, vmath.Vec3F{}, false
	}
	t := normal.Dot(point.Sub(from)) / denom
	if t < 0 || t > maxDist {
		return 0, vmath.Vec3F{}, false
	}
	return t, normal, true
}

func raySphere(center vmath.Vec3F, radius float64, from, dir vmath.Vec3F, maxDist float64) (float64, vmath.Vec3F, bool) {
	oc := from.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, vmath.Vec3F{}, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		// origin inside the sphere
		return 0, vmath.Vec3F{}, false
	}
	if t > maxDist {
		return 0, vmath.Vec3F{}, false
	}
	n, _ := vmath.V3FNormalize(from.Add(dir.Mul(t)).Sub(center))
	return t, n, true
}

// rayBox is a slab test in box space
func rayBox(center vmath.Vec3F, q vmath.QuatF, half, from, dir vmath.Vec3F, maxDist float64) (float64, vmath.Vec3F, bool) {
	inv := q.Conjugate()
	o := inv.Rotate(from.Sub(center))
	d := inv.Rotate(dir)

	tMin, tMax := math.Inf(-1), math.Inf(1)
	axis, sign := -1, 0.0
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < -half[i] || o[i] > half[i] {
				return 0, vmath.Vec3F{}, false
			}
			continue
		}
		t1 := (-half[i] - o[i]) / d[i]
		t2 := (half[i] - o[i]) / d[i]
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}
		if t1 > tMin {
			tMin, axis, sign = t1, i, s
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, vmath.Vec3F{}, false
		}
	}
	if axis < 0 || tMin < 0 || tMin > maxDist {
		return 0, vmath.Vec3F{}, false
	}
	return tMin, q.Rotate(vmath.Axis(axis).Mul(sign)), true
}
