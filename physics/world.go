package physics

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/vmath"
)

// DefaultGravity matches the demo world
var DefaultGravity = vmath.Vec3F{0, -9.82, 0}

// PreStepper runs before bodies integrate on each internal step
type PreStepper interface {
	PreStep(dt float64)
}

// World owns bodies and advances them in fixed steps
// Not safe for concurrent use; the simulation goroutine owns it
type World struct {
	Gravity vmath.Vec3F

	// ContactIterations is the number of sequential impulse passes per step
	ContactIterations int

	bodies      []*Body
	preSteppers []PreStepper
	nextID      int

	time        float64
	accumulator float64
	steps       uint64

	log zerolog.Logger
}

// WorldOption configures a World
type WorldOption func(*World)

// WithGravity overrides DefaultGravity
func WithGravity(g vmath.Vec3F) WorldOption {
	return func(w *World) { w.Gravity = g }
}

// WithWorldLogger attaches a logger for anomaly reporting
func WithWorldLogger(l zerolog.Logger) WorldOption {
	return func(w *World) { w.log = l }
}

// NewWorld creates an empty world
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		Gravity:           DefaultGravity,
		ContactIterations: 8,
		log:               zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddBody registers b and assigns its ID; adding twice is a no-op
func (w *World) AddBody(b *Body) {
	if b == nil || w.Contains(b) {
		return
	}
	w.nextID++
	b.ID = w.nextID
	w.bodies = append(w.bodies, b)
}

// RemoveBody unregisters b
func (w *World) RemoveBody(b *Body) {
	for i, existing := range w.bodies {
		if existing == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

// Contains reports whether b is registered
func (w *World) Contains(b *Body) bool {
	for _, existing := range w.bodies {
		if existing == b {
			return true
		}
	}
	return false
}

// Bodies returns the registered bodies; callers must not modify the slice
func (w *World) Bodies() []*Body {
	return w.bodies
}

// AddPreStepper registers a hook run at the start of every internal step
func (w *World) AddPreStepper(p PreStepper) {
	for _, existing := range w.preSteppers {
		if existing == p {
			return
		}
	}
	w.preSteppers = append(w.preSteppers, p)
}

// RemovePreStepper unregisters a hook
func (w *World) RemovePreStepper(p PreStepper) {
	for i, existing := range w.preSteppers {
		if existing == p {
			w.preSteppers = append(w.preSteppers[:i], w.preSteppers[i+1:]...)
			return
		}
	}
}

// Time returns simulated seconds
func (w *World) Time() float64 {
	return w.time
}

// Steps returns the number of internal steps taken
func (w *World) Steps() uint64 {
	return w.steps
}

// AddGround adds an infinite static plane at height y facing up
func (w *World) AddGround(y float64) *Body {
	b := NewBody(0, Plane())
	b.Name = "ground"
	b.Position = vmath.Vec3F{0, y, 0}
	w.AddBody(b)
	return b
}

// AddStaticBox adds an immovable box
func (w *World) AddStaticBox(center, halfExtents vmath.Vec3F) *Body {
	b := NewBody(0, Box(halfExtents))
	b.Position = center
	w.AddBody(b)
	return b
}

// AddStaticSphere adds an immovable sphere
func (w *World) AddStaticSphere(center vmath.Vec3F, radius float64) *Body {
	b := NewBody(0, Sphere(radius))
	b.Position = center
	w.AddBody(b)
	return b
}

// Step advances the world by exactly dt
func (w *World) Step(dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}

	for _, p := range w.preSteppers {
		p.PreStep(dt)
	}

	for _, b := range w.bodies {
		b.integrate(w.Gravity, dt)
	}

	w.solveContacts(dt)

	for _, b := range w.bodies {
		b.integratePosition(dt)
		b.clearForces()
		if !b.IsStatic() && !b.healthy() {
			w.log.Warn().Int("body", b.ID).Str("name", b.Name).Msg("non-finite body state")
		}
	}

	w.time += dt
	w.steps++
}

// StepAccumulated consumes elapsed wall time in fixed steps, at most maxSubSteps per call
// Returns the number of steps taken; leftover time beyond the cap is dropped
func (w *World) StepAccumulated(fixed, elapsed float64, maxSubSteps int) int {
	if fixed <= 0 || elapsed <= 0 || math.IsNaN(elapsed) {
		return 0
	}
	if maxSubSteps < 1 {
		maxSubSteps = 1
	}
	w.accumulator += elapsed
	n := 0
	for w.accumulator >= fixed && n < maxSubSteps {
		w.Step(fixed)
		w.accumulator -= fixed
		n++
	}
	if w.accumulator >= fixed {
		w.accumulator = math.Mod(w.accumulator, fixed)
	}
	return n
}
