package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/arcade-drive/vmath"
)

// ShapeKind discriminates collision shapes
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeSphere
	ShapePlane
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapePlane:
		return "plane"
	}
	return "unknown"
}

// Shape is one collision primitive attached to a body at a local offset
// Plane normal is the shape orientation applied to local +Y
type Shape struct {
	Kind        ShapeKind
	HalfExtents vmath.Vec3F
	Radius      float64
	Offset      vmath.Vec3F
	Orientation vmath.QuatF
}

// Box returns a box shape centred on the body origin
func Box(halfExtents vmath.Vec3F) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents, Orientation: mgl64.QuatIdent()}
}

// Sphere returns a sphere shape centred on the body origin
func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius, Orientation: mgl64.QuatIdent()}
}

// Plane returns an infinite plane through the body origin facing local +Y
func Plane() Shape {
	return Shape{Kind: ShapePlane, Orientation: mgl64.QuatIdent()}
}

// WithOffset returns a copy of s placed at a local offset
func (s Shape) WithOffset(offset vmath.Vec3F) Shape {
	s.Offset = offset
	return s
}

// WithOrientation returns a copy of s rotated in body space
func (s Shape) WithOrientation(q vmath.QuatF) Shape {
	s.Orientation = q
	return s
}

// localBounds returns the shape's axis-aligned half extents around its offset in body space
func (s Shape) localBounds() (min, max vmath.Vec3F) {
	var half vmath.Vec3F
	switch s.Kind {
	case ShapeBox:
		r := s.Orientation.Mat4().Mat3()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				half[i] += math.Abs(r.At(i, j)) * s.HalfExtents[j]
			}
		}
	case ShapeSphere:
		half = vmath.Vec3F{s.Radius, s.Radius, s.Radius}
	default:
		return s.Offset, s.Offset
	}
	return s.Offset.Sub(half), s.Offset.Add(half)
}

// Default damping matches the usual browser physics defaults
const (
	DefaultLinearDamping  = 0.01
	DefaultAngularDamping = 0.01
	DefaultFriction       = 0.3
)

// Body is a rigid body; mass 0 makes it static
// Position is the centre of mass; shapes hang off it through their offsets
type Body struct {
	ID   int
	Name string

	Shapes []Shape

	Position        vmath.Vec3F
	Orientation     vmath.QuatF
	Velocity        vmath.Vec3F
	AngularVelocity vmath.Vec3F

	Mass       float64
	InvMass    float64
	Inertia    vmath.Vec3F
	InvInertia vmath.Vec3F

	LinearDamping  float64
	AngularDamping float64
	Friction       float64
	Restitution    float64

	force  vmath.Vec3F
	torque vmath.Vec3F
}

// NewBody creates a body and derives inertia from the bounding box of its shapes
func NewBody(mass float64, shapes ...Shape) *Body {
	b := &Body{
		Shapes:         shapes,
		Orientation:    mgl64.QuatIdent(),
		LinearDamping:  DefaultLinearDamping,
		AngularDamping: DefaultAngularDamping,
		Friction:       DefaultFriction,
	}
	b.SetMass(mass)
	return b
}

// AddShape appends a shape and refreshes mass properties
func (b *Body) AddShape(s Shape) {
	b.Shapes = append(b.Shapes, s)
	b.SetMass(b.Mass)
}

// SetMass updates mass and inertia; non-positive mass makes the body static
func (b *Body) SetMass(mass float64) {
	if mass <= 0 || math.IsNaN(mass) {
		b.Mass, b.InvMass = 0, 0
		b.Inertia, b.InvInertia = vmath.Vec3F{}, vmath.Vec3F{}
		return
	}
	b.Mass = mass
	b.InvMass = 1.0 / mass

	half, sphere := b.massShape()
	switch {
	case sphere > 0:
		b.Inertia = vmath.SphereInertia(mass, sphere)
	default:
		b.Inertia = vmath.BoxInertia(mass, half)
	}
	b.InvInertia = vmath.InvertDiag(b.Inertia)
}

// massShape returns AABB half extents of all finite shapes, or the radius of a lone sphere
func (b *Body) massShape() (vmath.Vec3F, float64) {
	if len(b.Shapes) == 1 && b.Shapes[0].Kind == ShapeSphere && b.Shapes[0].Offset.Len() == 0 {
		return vmath.Vec3F{}, b.Shapes[0].Radius
	}
	first := true
	var lo, hi vmath.Vec3F
	for _, s := range b.Shapes {
		if s.Kind == ShapePlane {
			continue
		}
		smin, smax := s.localBounds()
		if first {
			lo, hi, first = smin, smax, false
			continue
		}
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], smin[i])
			hi[i] = math.Max(hi[i], smax[i])
		}
	}
	if first {
		return vmath.Vec3F{0.5, 0.5, 0.5}, 0
	}
	return hi.Sub(lo).Mul(0.5), 0
}

// IsStatic reports whether the body ignores forces and impulses
func (b *Body) IsStatic() bool {
	return b.InvMass == 0
}

// PointToWorld converts a body-local point into world space
func (b *Body) PointToWorld(local vmath.Vec3F) vmath.Vec3F {
	return b.Position.Add(b.Orientation.Rotate(local))
}

// VectorToWorld rotates a body-local direction into world space
func (b *Body) VectorToWorld(local vmath.Vec3F) vmath.Vec3F {
	return b.Orientation.Rotate(local)
}

// VectorToLocal rotates a world direction into body space
func (b *Body) VectorToLocal(world vmath.Vec3F) vmath.Vec3F {
	return b.Orientation.Conjugate().Rotate(world)
}

// VelocityAtWorldPoint returns the velocity of the body material at p
func (b *Body) VelocityAtWorldPoint(p vmath.Vec3F) vmath.Vec3F {
	return vmath.VelocityAtPoint(b.Velocity, b.AngularVelocity, p.Sub(b.Position))
}

// InvInertiaWorld returns the inverse inertia tensor in world space
func (b *Body) InvInertiaWorld() mgl64.Mat3 {
	return vmath.InvInertiaWorld(b.Orientation, b.InvInertia)
}

// ApplyImpulse changes momentum immediately; rel is the offset from the centre of mass
func (b *Body) ApplyImpulse(impulse, rel vmath.Vec3F) {
	if b.IsStatic() {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Mul(b.InvMass))
	b.AngularVelocity = b.AngularVelocity.Add(b.InvInertiaWorld().Mul3x1(rel.Cross(impulse)))
}

// ApplyForce accumulates a force for the next step; rel is the offset from the centre of mass
func (b *Body) ApplyForce(force, rel vmath.Vec3F) {
	if b.IsStatic() {
		return
	}
	b.force = b.force.Add(force)
	b.torque = b.torque.Add(rel.Cross(force))
}

// impulseDenominator is the effective inverse mass along dir at world point p
func (b *Body) impulseDenominator(p, dir vmath.Vec3F) float64 {
	if b.IsStatic() {
		return 0
	}
	r := p.Sub(b.Position)
	c := r.Cross(dir)
	vec := b.InvInertiaWorld().Mul3x1(c)
	return b.InvMass + dir.Dot(vec.Cross(r))
}

// integrate advances velocity then position (semi-implicit Euler)
func (b *Body) integrate(gravity vmath.Vec3F, dt float64) {
	if b.IsStatic() {
		return
	}
	b.Velocity = b.Velocity.Mul(math.Pow(1-b.LinearDamping, dt))
	b.AngularVelocity = b.AngularVelocity.Mul(math.Pow(1-b.AngularDamping, dt))

	accel := gravity.Add(b.force.Mul(b.InvMass))
	b.Velocity = b.Velocity.Add(accel.Mul(dt))
	b.AngularVelocity = b.AngularVelocity.Add(b.InvInertiaWorld().Mul3x1(b.torque).Mul(dt))
}

func (b *Body) integratePosition(dt float64) {
	if b.IsStatic() {
		return
	}
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.Orientation = vmath.QFIntegrate(b.Orientation, b.AngularVelocity, dt)
}

func (b *Body) clearForces() {
	b.force = vmath.Vec3F{}
	b.torque = vmath.Vec3F{}
}

// healthy reports whether the body state is finite
func (b *Body) healthy() bool {
	return vmath.V3FFinite(b.Position) && vmath.V3FFinite(b.Velocity) &&
		vmath.V3FFinite(b.AngularVelocity) && vmath.QFFinite(b.Orientation)
}
