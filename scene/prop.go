package scene

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/physics"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// Prop is a dynamic body mirrored onto one node every tick
type Prop struct {
	Body *physics.Body
	Node *Node
}

// Sync copies the body pose onto the node; non-finite poses are skipped
func (p *Prop) Sync() {
	if p.Body == nil || p.Node == nil {
		return
	}
	if !vmath.V3FFinite(p.Body.Position) || !vmath.QFFinite(p.Body.Orientation) {
		return
	}
	p.Node.SetPose(p.Body.Position, p.Body.Orientation)
}

// TextStyle sizes lettered props
type TextStyle struct {
	Size  float64
	Depth float64
	Mass  float64
	Color uint32
}

// DefaultTextStyle matches the demo's letter blocks
func DefaultTextStyle() TextStyle {
	return TextStyle{Size: parameter.LetterSize, Depth: parameter.LetterDepth, Mass: parameter.LetterMass, Color: 0xffffff}
}

// glyphAspect approximates a glyph's width relative to its height
const glyphAspect = 0.7

// AddSign drops a single lettered slab carrying the whole text
func AddSign(world *physics.World, sc *Scene, name, text string, pos vmath.Vec3F, yaw float64, style TextStyle) *Prop {
	width := float64(len([]rune(text))) * style.Size * glyphAspect
	half := vmath.Vec3F{width / 2, style.Depth / 2, style.Size / 2}
	return addBoxProp(world, sc, name, text, pos, vmath.QFYaw(yaw), half, style)
}

// AddText drops one lettered block per non-space rune, laid out toward -x from pos
// so the text reads left to right when viewed from +z
func AddText(world *physics.World, sc *Scene, name, text string, pos vmath.Vec3F, style TextStyle) []*Prop {
	runes := []rune(text)
	half := vmath.Vec3F{style.Size * glyphAspect / 2, style.Size / 2, style.Depth / 2}
	var props []*Prop
	for i, r := range runes {
		if r == ' ' {
			continue
		}
		at := vmath.Vec3F{pos.X() - float64(i)*style.Size, pos.Y(), pos.Z()}
		props = append(props, addBoxProp(world, sc, fmt.Sprintf("%s#%d", name, i), string(r), at, vmath.QFYaw(0), half, style))
	}
	return props
}

// AddBall drops a dynamic sphere
func AddBall(world *physics.World, sc *Scene, name string, pos vmath.Vec3F, radius, mass float64, color uint32) *Prop {
	b := physics.NewBody(mass, physics.Sphere(radius))
	b.Name = name
	b.Position = pos
	b.AngularDamping = 0.1
	b.Restitution = 0.3
	b.Friction = 0.4
	world.AddBody(b)

	n := NewNode(name, KindSphere)
	n.Radius = radius
	n.Color = color
	sc.Add(n)

	p := &Prop{Body: b, Node: n}
	p.Sync()
	return p
}

func addBoxProp(world *physics.World, sc *Scene, name, label string, pos vmath.Vec3F, q vmath.QuatF, half vmath.Vec3F, style TextStyle) *Prop {
	b := physics.NewBody(style.Mass, physics.Box(half))
	b.Name = name
	b.Position = pos
	b.Orientation = q
	world.AddBody(b)

	n := NewNode(name, KindProp)
	n.HalfExtents = half
	n.Label = strings.TrimSpace(label)
	n.Color = style.Color
	sc.Add(n)

	p := &Prop{Body: b, Node: n}
	p.Sync()
	return p
}
