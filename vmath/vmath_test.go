package vmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestClamp01(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative", -0.5, 0},
		{"zero", 0, 0},
		{"inside", 0.25, 0.25},
		{"one", 1, 1},
		{"overshoot", 3.7, 1},
		{"nan", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp01(tt.in))
		})
	}
}

func TestApproachNeverOvershoots(t *testing.T) {
	cur := Vec3F{0, 0, 0}
	target := Vec3F{10, -4, 2}

	got := Approach(cur, target, 10*0.5) // rate*dt = 5, clamped to 1
	assert.True(t, got.ApproxEqual(target), "got %v", got)

	half := Approach(cur, target, 0.5)
	assert.True(t, half.ApproxEqual(Vec3F{5, -2, 1}), "got %v", half)

	same := Approach(cur, target, 0)
	assert.Equal(t, cur, same)
}

func TestV3FNormalizeZero(t *testing.T) {
	_, ok := V3FNormalize(Vec3F{})
	assert.False(t, ok)

	n, ok := V3FNormalize(Vec3F{0, 3, 4})
	assert.True(t, ok)
	assert.InDelta(t, 1.0, n.Len(), 1e-12)
}

func TestQFYawRotatesForward(t *testing.T) {
	q := QFYaw(math.Pi / 2)
	got := q.Rotate(UnitZ)
	assert.True(t, got.ApproxEqualThreshold(UnitX, 1e-9), "got %v", got)
}

func TestQFIntegrateSpinsAboutUp(t *testing.T) {
	q := mgl64.QuatIdent()
	w := Vec3F{0, math.Pi, 0} // half turn per second
	for i := 0; i < 1000; i++ {
		q = QFIntegrate(q, w, 0.0005)
	}
	// 0.5 s at π rad/s = π/2
	got := q.Rotate(UnitZ)
	assert.True(t, got.ApproxEqualThreshold(UnitX, 1e-3), "got %v", got)
	assert.InDelta(t, 1.0, q.Len(), 1e-9)
}

func TestInvInertiaWorldIdentity(t *testing.T) {
	inv := Vec3F{1, 2, 3}
	m := InvInertiaWorld(mgl64.QuatIdent(), inv)
	got := m.Mul3x1(Vec3F{1, 1, 1})
	assert.True(t, got.ApproxEqual(inv), "got %v", got)
}

func TestBoxInertia(t *testing.T) {
	i := BoxInertia(12, Vec3F{0.5, 0.5, 0.5})
	assert.True(t, i.ApproxEqual(Vec3F{2, 2, 2}), "got %v", i)
}

func TestYawOfMatchesQFYaw(t *testing.T) {
	for _, yaw := range []float64{0, 0.7, math.Pi / 2, -2.5} {
		assert.InDelta(t, yaw, YawOf(QFYaw(yaw).Rotate(UnitZ)), 1e-12)
	}
	assert.InDelta(t, math.Pi/2, YawOf(UnitX), 1e-12)
}
