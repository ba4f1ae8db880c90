package input

import (
	"math"

	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// Snapshot is the immutable per-tick view of held controls
type Snapshot struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Brake    bool
	// Reset is set on the tick a reset was requested
	Reset bool
}

// Any reports whether any drive control is held
func (s Snapshot) Any() bool {
	return s.Forward || s.Backward || s.Left || s.Right || s.Brake
}

// ControlSignal carries the forces for one tick
// Throttle is negative for forward motion
type ControlSignal struct {
	Throttle float64
	Steer    float64
	Brake    float64
	// Braking is true when the full brake force was selected
	Braking bool
}

// MapperConfig holds the control magnitudes
type MapperConfig struct {
	MaxForce float64
	MaxSteer float64
	MaxBrake float64
	// IdleDrag is the brake force applied whenever the full brake is not
	IdleDrag float64
}

// DefaultMapperConfig returns the demo magnitudes
func DefaultMapperConfig() MapperConfig {
	return MapperConfig{
		MaxForce: parameter.MaxEngineForce,
		MaxSteer: parameter.MaxSteer,
		MaxBrake: parameter.MaxBrakeForce,
		IdleDrag: parameter.IdleDrag,
	}
}

// Mapper converts snapshots into control signals
type Mapper struct {
	cfg MapperConfig
}

// NewMapper creates a mapper; magnitudes are taken as absolute values
func NewMapper(cfg MapperConfig) *Mapper {
	cfg.MaxForce = math.Abs(cfg.MaxForce)
	cfg.MaxSteer = math.Abs(cfg.MaxSteer)
	cfg.MaxBrake = math.Abs(cfg.MaxBrake)
	cfg.IdleDrag = math.Abs(cfg.IdleDrag)
	return &Mapper{cfg: cfg}
}

// Config returns the active magnitudes
func (m *Mapper) Config() MapperConfig {
	return m.cfg
}

// Map produces the control signal for one tick
// Forward wins over backward and left wins over right
func (m *Mapper) Map(s Snapshot) ControlSignal {
	var sig ControlSignal

	switch {
	case s.Forward:
		sig.Throttle = -m.cfg.MaxForce
	case s.Backward:
		sig.Throttle = m.cfg.MaxForce
	}

	switch {
	case s.Left:
		sig.Steer = m.cfg.MaxSteer
	case s.Right:
		sig.Steer = -m.cfg.MaxSteer
	}

	if s.Brake && sig.Throttle == 0 {
		sig.Brake = m.cfg.MaxBrake
		sig.Braking = true
	} else {
		sig.Brake = m.cfg.IdleDrag
	}

	return sig
}

// Normalized returns throttle and steer scaled to [-1, 1]
func (m *Mapper) Normalized(sig ControlSignal) (throttle, steer float64) {
	if m.cfg.MaxForce > 0 {
		throttle = vmath.ClampF(sig.Throttle/m.cfg.MaxForce, -1, 1)
	}
	if m.cfg.MaxSteer > 0 {
		steer = vmath.ClampF(sig.Steer/m.cfg.MaxSteer, -1, 1)
	}
	return throttle, steer
}

