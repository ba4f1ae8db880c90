package parameter

import "time"

// Top-down view
const (
	// ViewCellsPerMeter is horizontal cells per world meter; rows are half as dense
	ViewCellsPerMeter = 1.0

	// ViewGridSpacing is the ground grid pitch in meters
	ViewGridSpacing = 10.0

	// HUDRows reserved at the top for status lines
	HUDRows = 2
)

// StatusDuration is how long a HUD status message stays up
const StatusDuration = 2 * time.Second
