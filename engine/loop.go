package engine

import "time"

// Loop converts wall-clock frames into fixed simulation steps
// Frames shorter than one step produce no step; the remainder carries over
type Loop struct {
	step     float64
	maxSteps int
	clock    TimeProvider

	last    time.Time
	started bool
	steps   uint64
}

// NewLoop creates a loop; maxSteps caps catch-up after a stall, dropping the excess
func NewLoop(step float64, maxSteps int, clock TimeProvider) *Loop {
	if maxSteps < 1 {
		maxSteps = 1
	}
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	return &Loop{step: step, maxSteps: maxSteps, clock: clock}
}

// Step returns the fixed step in seconds
func (l *Loop) Step() float64 {
	return l.step
}

// Steps returns the total steps issued
func (l *Loop) Steps() uint64 {
	return l.steps
}

// Advance reads the clock and returns how many steps are due
// The first call only starts the clock
func (l *Loop) Advance() int {
	now := l.clock.Now()
	if !l.started {
		l.last = now
		l.started = true
		return 0
	}
	if !(l.step > 0) {
		return 0
	}

	elapsed := now.Sub(l.last).Seconds()
	if elapsed < l.step {
		return 0
	}

	n := int(elapsed / l.step)
	if n > l.maxSteps {
		n = l.maxSteps
		l.last = now
	} else {
		l.last = l.last.Add(time.Duration(float64(n) * l.step * float64(time.Second)))
	}
	l.steps += uint64(n)
	return n
}
