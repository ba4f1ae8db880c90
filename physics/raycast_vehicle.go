package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/arcade-drive/vmath"
)

// Suspension and friction constants of the raycast vehicle model
const (
	sideFrictionStiffness = 1.0
	forwardFrictionFactor = 0.5
	sideFrictionFactor    = 1.0
	bilateralDamping      = 0.2
	rotationDecay         = 0.99
	minDenominator        = -0.1
	clippedNoContact      = 1.0
	clippedGrazing        = 10.0
)

// WheelOptions is the static description of one wheel
type WheelOptions struct {
	Radius                          float64
	DirectionLocal                  vmath.Vec3F
	SuspensionStiffness             float64
	SuspensionRestLength            float64
	MaxSuspensionTravel             float64
	MaxSuspensionForce              float64
	FrictionSlip                    float64
	DampingRelaxation               float64
	DampingCompression              float64
	RollInfluence                   float64
	AxleLocal                       vmath.Vec3F
	ChassisConnectionPointLocal     vmath.Vec3F
	UseCustomSlidingRotationalSpeed bool
	CustomSlidingRotationalSpeed    float64
}

// Transform is a world-space pose
type Transform struct {
	Position    vmath.Vec3F
	Orientation vmath.QuatF
}

// WheelInfo is one wheel's options plus per-step state
type WheelInfo struct {
	WheelOptions

	Steering      float64
	Rotation      float64
	DeltaRotation float64
	EngineForce   float64
	Brake         float64

	SuspensionLength               float64
	SuspensionForce                float64
	SuspensionRelativeVelocity     float64
	ClippedInvContactDotSuspension float64

	SideImpulse    float64
	ForwardImpulse float64
	SkidInfo       float64
	Sliding        bool
	InContact      bool

	Hit RayHit

	ConnectionPointWorld vmath.Vec3F
	DirectionWorld       vmath.Vec3F
	AxleWorld            vmath.Vec3F
	WorldTransform       Transform

	forwardWS vmath.Vec3F
	axleWS    vmath.Vec3F
}

// Compression is the normalized spring travel: 0 fully extended, 1 fully compressed
func (w *WheelInfo) Compression() float64 {
	minLen := math.Max(0, w.SuspensionRestLength-w.MaxSuspensionTravel)
	span := w.SuspensionRestLength - minLen
	if span <= 0 {
		return 0
	}
	return vmath.Clamp01((w.SuspensionRestLength - w.SuspensionLength) / span)
}

// RaycastVehicle suspends a chassis body on ray-cast wheels
// Ground rays only hit static bodies
type RaycastVehicle struct {
	Chassis *Body
	Wheels  []*WheelInfo

	IndexRightAxis   int
	IndexUpAxis      int
	IndexForwardAxis int

	world    *World
	speedKmh float64
	sliding  bool
}

// NewRaycastVehicle wraps chassis with the given axis indices (0=x, 1=y, 2=z)
func NewRaycastVehicle(chassis *Body, right, up, forward int) *RaycastVehicle {
	return &RaycastVehicle{
		Chassis:          chassis,
		IndexRightAxis:   right,
		IndexUpAxis:      up,
		IndexForwardAxis: forward,
	}
}

// AddWheel appends a wheel and returns its index
func (v *RaycastVehicle) AddWheel(opts WheelOptions) int {
	w := &WheelInfo{
		WheelOptions:     opts,
		SuspensionLength: opts.SuspensionRestLength,
		SkidInfo:         1,
	}
	w.WorldTransform.Orientation = mgl64.QuatIdent()
	v.Wheels = append(v.Wheels, w)
	idx := len(v.Wheels) - 1
	v.UpdateWheelTransform(idx)
	return idx
}

// AddToWorld registers the chassis and the per-step vehicle update
func (v *RaycastVehicle) AddToWorld(world *World) {
	v.world = world
	world.AddBody(v.Chassis)
	world.AddPreStepper(v)
}

// RemoveFromWorld detaches the vehicle update and chassis
func (v *RaycastVehicle) RemoveFromWorld(world *World) {
	world.RemovePreStepper(v)
	world.RemoveBody(v.Chassis)
	v.world = nil
}

func (v *RaycastVehicle) wheel(i int) *WheelInfo {
	if i < 0 || i >= len(v.Wheels) {
		return nil
	}
	return v.Wheels[i]
}

// ApplyEngineForce sets the drive force on wheel i
func (v *RaycastVehicle) ApplyEngineForce(force float64, i int) {
	if w := v.wheel(i); w != nil {
		w.EngineForce = force
	}
}

// SetSteeringValue sets the steering angle of wheel i in radians
func (v *RaycastVehicle) SetSteeringValue(angle float64, i int) {
	if w := v.wheel(i); w != nil {
		w.Steering = angle
	}
}

// SetBrake sets the brake impulse limit of wheel i
func (v *RaycastVehicle) SetBrake(brake float64, i int) {
	if w := v.wheel(i); w != nil {
		w.Brake = brake
	}
}

// CurrentSpeedKmHour is signed along the chassis forward axis
func (v *RaycastVehicle) CurrentSpeedKmHour() float64 {
	return v.speedKmh
}

// Sliding reports whether any wheel exceeded its friction budget on the last step
func (v *RaycastVehicle) Sliding() bool {
	return v.sliding
}

// WheelTransformWorld returns the pose computed by the last UpdateWheelTransform
func (v *RaycastVehicle) WheelTransformWorld(i int) Transform {
	if w := v.wheel(i); w != nil {
		return w.WorldTransform
	}
	return Transform{Orientation: mgl64.QuatIdent()}
}

func (v *RaycastVehicle) updateWheelFrame(w *WheelInfo) {
	w.ConnectionPointWorld = v.Chassis.PointToWorld(w.ChassisConnectionPointLocal)
	w.DirectionWorld = v.Chassis.VectorToWorld(w.DirectionLocal)
	w.AxleWorld = v.Chassis.VectorToWorld(w.AxleLocal)
}

// UpdateWheelTransform recomputes the world pose of wheel i from the chassis,
// steering, spin and current suspension length
func (v *RaycastVehicle) UpdateWheelTransform(i int) {
	w := v.wheel(i)
	if w == nil {
		return
	}
	v.updateWheelFrame(w)

	up := w.DirectionWorld.Mul(-1)
	steer := vmath.QFAxisAngle(up, w.Steering)
	spin := vmath.QFAxisAngle(w.AxleWorld, w.Rotation)

	w.WorldTransform = Transform{
		Position:    w.ConnectionPointWorld.Add(w.DirectionWorld.Mul(w.SuspensionLength)),
		Orientation: steer.Mul(v.Chassis.Orientation).Mul(spin).Normalize(),
	}
}

// PreStep implements PreStepper
func (v *RaycastVehicle) PreStep(dt float64) {
	if v.world == nil || len(v.Wheels) == 0 {
		return
	}
	chassis := v.Chassis

	for i := range v.Wheels {
		v.UpdateWheelTransform(i)
	}

	v.speedKmh = 3.6 * chassis.Velocity.Len()
	forward := chassis.VectorToWorld(vmath.Axis(v.IndexForwardAxis))
	if forward.Dot(chassis.Velocity) < 0 {
		v.speedKmh = -v.speedKmh
	}

	for _, w := range v.Wheels {
		v.castRay(w)
	}

	v.updateSuspension()

	for _, w := range v.Wheels {
		if !w.InContact {
			continue
		}
		force := math.Min(w.SuspensionForce, w.MaxSuspensionForce)
		impulse := w.Hit.Normal.Mul(force * dt)
		chassis.ApplyImpulse(impulse, w.Hit.Point.Sub(chassis.Position))
	}

	v.updateFriction(dt)
	v.updateRotation(dt)
}

func (v *RaycastVehicle) castRay(w *WheelInfo) {
	v.updateWheelFrame(w)

	rayLen := w.SuspensionRestLength + w.Radius
	source := w.ConnectionPointWorld
	target := source.Add(w.DirectionWorld.Mul(rayLen))

	hit, ok := v.world.Raycast(source, target, RayOptions{Skip: v.Chassis, StaticOnly: true})
	if !ok {
		w.InContact = false
		w.SuspensionLength = w.SuspensionRestLength
		w.SuspensionRelativeVelocity = 0
		w.ClippedInvContactDotSuspension = clippedNoContact
		w.Hit = RayHit{Point: target, Normal: w.DirectionWorld.Mul(-1), Distance: rayLen}
		return
	}

	w.InContact = true
	w.Hit = hit
	w.SuspensionLength = vmath.ClampF(
		hit.Distance-w.Radius,
		w.SuspensionRestLength-w.MaxSuspensionTravel,
		w.SuspensionRestLength+w.MaxSuspensionTravel,
	)

	denom := hit.Normal.Dot(w.DirectionWorld)
	projVel := hit.Normal.Dot(v.Chassis.VelocityAtWorldPoint(hit.Point))
	if denom >= minDenominator {
		w.SuspensionRelativeVelocity = 0
		w.ClippedInvContactDotSuspension = clippedGrazing
	} else {
		inv := -1 / denom
		w.SuspensionRelativeVelocity = projVel * inv
		w.ClippedInvContactDotSuspension = inv
	}
}

// updateSuspension computes spring-damper force per wheel, scaled by chassis mass
func (v *RaycastVehicle) updateSuspension() {
	mass := v.Chassis.Mass
	for _, w := range v.Wheels {
		if !w.InContact {
			w.SuspensionForce = 0
			continue
		}
		force := w.SuspensionStiffness * (w.SuspensionRestLength - w.SuspensionLength) * w.ClippedInvContactDotSuspension

		damping := w.DampingRelaxation
		if w.SuspensionRelativeVelocity < 0 {
			damping = w.DampingCompression
		}
		force -= damping * w.SuspensionRelativeVelocity

		w.SuspensionForce = math.Max(0, force*mass)
	}
}

func (v *RaycastVehicle) updateFriction(dt float64) {
	chassis := v.Chassis

	for _, w := range v.Wheels {
		w.SideImpulse = 0
		w.ForwardImpulse = 0
		w.SkidInfo = 1
		w.Sliding = false
		w.axleWS, w.forwardWS = vmath.Vec3F{}, vmath.Vec3F{}
		if !w.InContact {
			continue
		}
		n := w.Hit.Normal
		axle := w.WorldTransform.Orientation.Rotate(vmath.Axis(v.IndexRightAxis))
		axle, ok := vmath.V3FNormalize(vmath.ProjectOnPlane(axle, n))
		if !ok {
			continue
		}
		fwd, ok := vmath.V3FNormalize(n.Cross(axle))
		if !ok {
			continue
		}
		w.axleWS, w.forwardWS = axle, fwd
		w.SideImpulse = resolveSingleBilateral(chassis, w.Hit.Point, axle) * sideFrictionStiffness
	}

	v.sliding = false
	for _, w := range v.Wheels {
		if !w.InContact || w.forwardWS == (vmath.Vec3F{}) {
			continue
		}
		if w.EngineForce != 0 {
			w.ForwardImpulse = w.EngineForce * dt
		} else {
			w.ForwardImpulse = rollingFriction(chassis, w.Hit.Point, w.forwardWS, w.Brake)
		}

		maxImpulse := w.SuspensionForce * dt * w.FrictionSlip
		x := w.ForwardImpulse * forwardFrictionFactor
		y := w.SideImpulse * sideFrictionFactor
		sq := x*x + y*y
		if sq > maxImpulse*maxImpulse {
			v.sliding = true
			w.Sliding = true
			w.SkidInfo *= maxImpulse / math.Sqrt(sq)
		}
	}

	if v.sliding {
		for _, w := range v.Wheels {
			if w.SideImpulse != 0 && w.SkidInfo < 1 {
				w.ForwardImpulse *= w.SkidInfo
				w.SideImpulse *= w.SkidInfo
			}
		}
	}

	for _, w := range v.Wheels {
		if !w.InContact {
			continue
		}
		rel := w.Hit.Point.Sub(chassis.Position)
		if w.ForwardImpulse != 0 {
			chassis.ApplyImpulse(w.forwardWS.Mul(w.ForwardImpulse), rel)
		}
		if w.SideImpulse != 0 {
			local := chassis.VectorToLocal(rel)
			local[v.IndexUpAxis] *= w.RollInfluence
			chassis.ApplyImpulse(w.axleWS.Mul(w.SideImpulse), chassis.VectorToWorld(local))
		}
	}
}

func (v *RaycastVehicle) updateRotation(dt float64) {
	chassis := v.Chassis
	for _, w := range v.Wheels {
		if w.InContact {
			fwd := chassis.VectorToWorld(vmath.Axis(v.IndexForwardAxis))
			fwd = vmath.ProjectOnPlane(fwd, w.Hit.Normal)
			vel := chassis.VelocityAtWorldPoint(w.ConnectionPointWorld)
			w.DeltaRotation = fwd.Dot(vel) * dt / w.Radius
		}
		if (w.Sliding || !w.InContact) && w.EngineForce != 0 && w.UseCustomSlidingRotationalSpeed {
			w.DeltaRotation = vmath.SignF(w.EngineForce) * w.CustomSlidingRotationalSpeed * dt
		}
		if math.Abs(w.Brake) > math.Abs(w.EngineForce) {
			w.DeltaRotation = 0
		}
		w.Rotation += w.DeltaRotation
		w.DeltaRotation *= rotationDecay
	}
}

// resolveSingleBilateral returns the lateral impulse that removes a fraction of slip
// against static ground
func resolveSingleBilateral(b *Body, p, normal vmath.Vec3F) float64 {
	if normal.LenSqr() > 1.1 || b.InvMass == 0 {
		return 0
	}
	relVel := normal.Dot(b.VelocityAtWorldPoint(p))
	return -bilateralDamping * relVel / b.InvMass
}

// rollingFriction returns the impulse opposing rolling along dir, limited by maxImpulse
func rollingFriction(b *Body, p, dir vmath.Vec3F, maxImpulse float64) float64 {
	denom := b.impulseDenominator(p, dir)
	if denom <= 0 {
		return 0
	}
	vrel := dir.Dot(b.VelocityAtWorldPoint(p))
	j := -vrel / denom
	return vmath.ClampF(j, -maxImpulse, maxImpulse)
}
