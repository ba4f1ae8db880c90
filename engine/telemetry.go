package engine

import (
	"github.com/lixenwraith/arcade-drive/telemetry"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// publish sends a snapshot on every n-th tick; failures are logged and dropped
func (g *Game) publish() {
	if g.pub == nil || g.every < 1 || g.tick%uint64(g.every) != 0 {
		return
	}
	if err := g.pub.Publish(g.Snapshot()); err != nil {
		g.log.Warn().Err(err).Uint64("tick", g.tick).Msg("telemetry publish failed")
	}
}

// Snapshot captures the current tick for telemetry
func (g *Game) Snapshot() telemetry.Snapshot {
	c := g.Vehicle.Chassis()
	q := c.Orientation
	s := telemetry.Snapshot{
		Tick: g.tick,
		Time: g.World.Time(),
		Chassis: telemetry.Chassis{
			Position:        vec(c.Position),
			Orientation:     [4]float64{q.W, q.V.X(), q.V.Y(), q.V.Z()},
			Velocity:        vec(c.Velocity),
			AngularVelocity: vec(c.AngularVelocity),
			SpeedKmh:        g.Vehicle.SpeedKmh(),
			Heading:         g.Vehicle.Yaw(),
		},
		Control: telemetry.Control{
			Throttle: g.control.Throttle,
			Steer:    g.control.Steer,
			Brake:    g.control.Brake,
		},
		Camera: telemetry.Camera{
			Position: vec(g.pose.Position),
			LookAt:   vec(g.pose.LookAt),
		},
	}
	for _, w := range g.Vehicle.Wheels() {
		s.Wheels = append(s.Wheels, telemetry.Wheel{
			Role:        w.Role,
			Position:    vec(w.Position),
			Steering:    w.Steering,
			EngineForce: w.EngineForce,
			Brake:       w.Brake,
			Compression: w.Compression,
			InContact:   w.InContact,
		})
	}
	return s
}

func vec(v vmath.Vec3F) [3]float64 {
	return [3]float64{v.X(), v.Y(), v.Z()}
}
