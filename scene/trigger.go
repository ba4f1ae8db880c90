package scene

import (
	"github.com/lixenwraith/arcade-drive/physics"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// Trigger colors
const (
	TriggerColor     uint32 = 0xffff00
	TriggerGlowColor uint32 = 0xffffaa
)

// TriggerSphere is a static sphere that lights up and accepts clicks while the
// vehicle is within TriggerRadius of its centre
type TriggerSphere struct {
	Name          string
	Position      vmath.Vec3F
	Radius        float64
	TriggerRadius float64

	body *physics.Body
	node *Node

	glowing   bool
	clickable bool
	clicked   bool
}

// AddTrigger places a trigger sphere; non-positive radii fall back to 2 and 5
func AddTrigger(world *physics.World, sc *Scene, name, label string, pos vmath.Vec3F, radius, triggerRadius float64) *TriggerSphere {
	if radius <= 0 {
		radius = 2
	}
	if triggerRadius <= 0 {
		triggerRadius = 5
	}
	body := world.AddStaticSphere(pos, radius)
	body.Name = name

	n := NewNode(name, KindTrigger)
	n.Position = pos
	n.Radius = radius
	n.Label = label
	n.Color = TriggerColor
	sc.Add(n)

	return &TriggerSphere{
		Name:          name,
		Position:      pos,
		Radius:        radius,
		TriggerRadius: triggerRadius,
		body:          body,
		node:          n,
	}
}

// Update toggles glow and clickability from the target's distance
func (t *TriggerSphere) Update(target vmath.Vec3F) {
	if !vmath.V3FFinite(target) {
		return
	}
	if target.Sub(t.Position).Len() <= t.TriggerRadius {
		if !t.glowing {
			t.node.Highlight = true
			t.node.Color = TriggerGlowColor
			t.glowing = true
		}
		t.clickable = true
		return
	}
	if t.glowing {
		t.node.Highlight = false
		t.node.Color = TriggerColor
		t.glowing = false
	}
	t.clickable = false
}

// Glowing reports whether the target is in range
func (t *TriggerSphere) Glowing() bool {
	return t.glowing
}

// Clickable reports whether HandleClick currently registers
func (t *TriggerSphere) Clickable() bool {
	return t.clickable
}

// HandleClick registers a click at a ground-plane point; it only counts while
// clickable and when the point lands on the sphere's footprint
func (t *TriggerSphere) HandleClick(point vmath.Vec3F) bool {
	if !t.clickable {
		return false
	}
	dx, dz := point.X()-t.Position.X(), point.Z()-t.Position.Z()
	if dx*dx+dz*dz > t.Radius*t.Radius {
		return false
	}
	t.clicked = true
	return true
}

// ConsumeClick returns and clears the pending click
func (t *TriggerSphere) ConsumeClick() bool {
	was := t.clicked
	t.clicked = false
	return was
}
