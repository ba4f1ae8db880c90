package parameter

import "time"

// Telemetry stream
const (
	TelemetryAddr = "127.0.0.1:8090"

	// TelemetryEvery publishes one snapshot per this many ticks
	TelemetryEvery = 3

	// TelemetrySendBuffer is queued snapshots per client before dropping
	TelemetrySendBuffer = 16

	TelemetryWriteWait  = 2 * time.Second
	TelemetryPingPeriod = 20 * time.Second
)
