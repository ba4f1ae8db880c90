package vehicle

import "errors"

var (
	ErrNoWorld     = errors.New("vehicle: physics world is required")
	ErrNoScene     = errors.New("vehicle: scene is required")
	ErrWheelLayout = errors.New("vehicle: invalid wheel layout")
)
