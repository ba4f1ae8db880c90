package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/arcade-drive/vmath"
)

func TestStationaryTargetFallsBackToLocalForward(t *testing.T) {
	c := New(CinematicConfig())
	var pose Pose
	c.Update(&pose, Target{Orientation: mgl64.QuatIdent()}, 1.0/30)

	assert.Equal(t, vmath.UnitZ, c.LookDirection())
}

func TestFallbackFollowsTargetOrientation(t *testing.T) {
	c := New(CinematicConfig())
	c.Update(nil, Target{Orientation: vmath.QFYaw(math.Pi / 2), Velocity: vmath.Vec3F{0.05, 0, 0}}, 1.0/30)

	assert.True(t, c.LookDirection().ApproxEqualThreshold(vmath.UnitX, 1e-9), "got %v", c.LookDirection())
}

func TestMovingTargetLooksAlongVelocity(t *testing.T) {
	c := New(CinematicConfig())
	c.Update(nil, Target{Velocity: vmath.Vec3F{0, 0, -8}, Orientation: mgl64.QuatIdent()}, 1.0/30)

	assert.True(t, c.LookDirection().ApproxEqual(vmath.Vec3F{0, 0, -1}))
}

func TestZeroDtLeavesAccumulators(t *testing.T) {
	c := New(CinematicConfig())
	target := Target{Position: vmath.Vec3F{5, 2, 5}, Orientation: mgl64.QuatIdent()}
	c.Update(nil, target, 0.05)
	before := c.Pose()

	for _, dt := range []float64{0, -1, math.NaN()} {
		var pose Pose
		c.Update(&pose, Target{Position: vmath.Vec3F{50, 2, 50}, Orientation: mgl64.QuatIdent()}, dt)
		assert.Equal(t, before.Position, pose.Position, "dt %v", dt)
		assert.Equal(t, before.LookAt, pose.LookAt, "dt %v", dt)
	}
}

func TestLargeDtDoesNotOvershoot(t *testing.T) {
	cfg := CinematicConfig()
	c := New(cfg)
	target := Target{Position: vmath.Vec3F{3, 1.8, 4}, Orientation: mgl64.QuatIdent()}

	var pose Pose
	c.Update(&pose, target, 5)

	assert.True(t, pose.Position.ApproxEqual(target.Position.Add(cfg.Offset)), "got %v", pose.Position)
	wantLook := vmath.Vec3F{3, cfg.LookHeight, 4 + cfg.LookAhead}
	assert.True(t, pose.LookAt.ApproxEqual(wantLook), "got %v", pose.LookAt)
}

func TestSmoothingConverges(t *testing.T) {
	cfg := CinematicConfig()
	c := New(cfg)
	target := Target{Position: vmath.Vec3F{-4, 1.8, 12}, Orientation: mgl64.QuatIdent()}
	desired := target.Position.Add(cfg.Offset)

	prevDist := math.Inf(1)
	for i := 0; i < 90; i++ {
		c.Update(nil, target, 1.0/30)
		d := c.Pose().Position.Sub(desired).Len()
		assert.LessOrEqual(t, d, prevDist)
		prevDist = d
	}
	assert.Less(t, prevDist, 1e-3)
}

func TestLookAtHeightIsFixed(t *testing.T) {
	cfg := CinematicConfig()
	c := New(cfg)
	// pitched target moving partly upward
	target := Target{Position: vmath.Vec3F{0, 6, 0}, Velocity: vmath.Vec3F{0, 5, 5}, Orientation: mgl64.QuatIdent()}
	for i := 0; i < 60; i++ {
		c.Update(nil, target, 1.0/30)
	}
	assert.InDelta(t, cfg.LookHeight, c.Pose().LookAt.Y(), 1e-3)
}

func TestOrientationAimsAtLookAt(t *testing.T) {
	c := New(CinematicConfig())
	target := Target{Position: vmath.Vec3F{0, 1.8, 0}, Orientation: mgl64.QuatIdent()}
	var pose Pose
	c.Update(&pose, target, 10)

	want, _ := vmath.V3FNormalize(pose.LookAt.Sub(pose.Position))
	assert.True(t, pose.Forward().ApproxEqualThreshold(want, 1e-9), "forward %v want %v", pose.Forward(), want)

	up := pose.Orientation.Rotate(vmath.UnitY)
	assert.Greater(t, up.Y(), 0.0, "camera stays upright")
}

func TestAimKeepsHorizonLevel(t *testing.T) {
	eye := vmath.Vec3F{10, 10, -10}
	for _, center := range []vmath.Vec3F{
		{0, 1, 0},
		{10, 10, 5},
		{10, 10, -20},
		{10, 2, -10.5},
		{-3, 0, 40},
	} {
		q := aim(eye, center, mgl64.QuatIdent())
		want, _ := vmath.V3FNormalize(center.Sub(eye))
		assert.True(t, q.Rotate(vmath.Vec3F{0, 0, -1}).ApproxEqualThreshold(want, 1e-9), "center %v", center)
		assert.InDelta(t, 0, q.Rotate(vmath.UnitX).Y(), 1e-9, "no roll toward %v", center)
		assert.Greater(t, q.Rotate(vmath.UnitY).Y(), 0.0, "upright toward %v", center)
	}
}

func TestDegenerateAimKeepsPrevious(t *testing.T) {
	prev := vmath.QFYaw(0.7)
	p := vmath.Vec3F{1, 2, 3}
	assert.Equal(t, prev, aim(p, p, prev))
	assert.Equal(t, prev, aim(p, p.Add(vmath.Vec3F{0, -5, 0}), prev), "straight down")
}

func TestPresets(t *testing.T) {
	assert.Equal(t, "chase", Preset("chase").Name)
	assert.Equal(t, "cinematic", Preset("anything").Name)
	assert.Equal(t, vmath.Vec3F{10, 10, -10}, CinematicConfig().Offset)

	c := New(Config{})
	assert.Equal(t, vmath.UnitZ, c.Config().LocalForward)
}
