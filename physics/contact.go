package physics

import (
	"math"

	"github.com/lixenwraith/arcade-drive/vmath"
)

const (
	contactSlop     = 0.005
	contactBaumgart = 0.2
)

// contact is a point of a dynamic body touching a static surface
type contact struct {
	body   *Body
	point  vmath.Vec3F
	normal vmath.Vec3F
	depth  float64
	mu     float64
}

// solveContacts resolves dynamic-versus-static contacts with sequential impulses
// Dynamic pairs are not resolved; props and the chassis never rest on each other in the demo
func (w *World) solveContacts(dt float64) {
	var statics []*Body
	for _, b := range w.bodies {
		if b.IsStatic() {
			statics = append(statics, b)
		}
	}
	if len(statics) == 0 {
		return
	}

	var contacts []contact
	for _, b := range w.bodies {
		if b.IsStatic() {
			continue
		}
		for _, p := range samplePoints(b) {
			for _, s := range statics {
				contacts = appendPointContacts(contacts, b, s, p)
			}
		}
	}
	if len(contacts) == 0 {
		return
	}

	for iter := 0; iter < w.ContactIterations; iter++ {
		for i := range contacts {
			resolveContact(&contacts[i], dt)
		}
	}
}

// samplePoints are the body points tested against static geometry
func samplePoints(b *Body) []vmath.Vec3F {
	var pts []vmath.Vec3F
	for _, s := range b.Shapes {
		center, q := shapeFrame(b, s)
		switch s.Kind {
		case ShapeBox:
			h := s.HalfExtents
			for _, sx := range [2]float64{-1, 1} {
				for _, sy := range [2]float64{-1, 1} {
					for _, sz := range [2]float64{-1, 1} {
						pts = append(pts, center.Add(q.Rotate(vmath.Vec3F{sx * h[0], sy * h[1], sz * h[2]})))
					}
				}
			}
		case ShapeSphere:
			// lowest point against gravity; spheres only ever rest on the ground here
			pts = append(pts, center.Sub(vmath.UnitY.Mul(s.Radius)))
		}
	}
	return pts
}

func appendPointContacts(out []contact, b, static *Body, p vmath.Vec3F) []contact {
	mu := math.Sqrt(b.Friction * static.Friction)
	for _, s := range static.Shapes {
		center, q := shapeFrame(static, s)
		switch s.Kind {
		case ShapePlane:
			n := q.Rotate(vmath.UnitY)
			depth := -n.Dot(p.Sub(center))
			if depth > -contactSlop {
				out = append(out, contact{body: b, point: p, normal: n, depth: depth, mu: mu})
			}
		case ShapeBox:
			if n, depth, ok := pointInBox(center, q, s.HalfExtents, p); ok {
				out = append(out, contact{body: b, point: p, normal: n, depth: depth, mu: mu})
			}
		case ShapeSphere:
			d := p.Sub(center)
			l := d.Len()
			if l < s.Radius && l > 1e-9 {
				out = append(out, contact{body: b, point: p, normal: d.Mul(1 / l), depth: s.Radius - l, mu: mu})
			}
		}
	}
	return out
}

// pointInBox returns the exit normal along the shallowest axis when p is inside the box
func pointInBox(center vmath.Vec3F, q vmath.QuatF, half, p vmath.Vec3F) (vmath.Vec3F, float64, bool) {
	local := q.Conjugate().Rotate(p.Sub(center))
	best := math.Inf(1)
	var n vmath.Vec3F
	for i := 0; i < 3; i++ {
		pen := half[i] - math.Abs(local[i])
		if pen < 0 {
			return vmath.Vec3F{}, 0, false
		}
		if pen < best {
			best = pen
			n = vmath.Axis(i).Mul(vmath.SignF(local[i]))
			if local[i] == 0 {
				n = vmath.Axis(i)
			}
		}
	}
	return q.Rotate(n), best, true
}

func resolveContact(c *contact, dt float64) {
	b := c.body
	r := c.point.Sub(b.Position)
	vel := vmath.VelocityAtPoint(b.Velocity, b.AngularVelocity, r)
	vn := vel.Dot(c.normal)

	bias := 0.0
	if c.depth > contactSlop {
		bias = contactBaumgart / dt * (c.depth - contactSlop)
	}
	if vn >= bias {
		return
	}

	kn := b.impulseDenominator(c.point, c.normal)
	if kn <= 0 {
		return
	}
	jn := (-(1+b.Restitution)*vn + bias) / kn
	if jn <= 0 {
		return
	}
	b.ApplyImpulse(c.normal.Mul(jn), r)

	vel = vmath.VelocityAtPoint(b.Velocity, b.AngularVelocity, r)
	vt := vel.Sub(c.normal.Mul(vel.Dot(c.normal)))
	tangent, ok := vmath.V3FNormalize(vt)
	if !ok {
		return
	}
	kt := b.impulseDenominator(c.point, tangent)
	if kt <= 0 {
		return
	}
	jt := math.Min(vt.Len()/kt, c.mu*jn)
	b.ApplyImpulse(tangent.Mul(-jt), r)
}
