package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/asset"
	"github.com/lixenwraith/arcade-drive/physics"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// StaticObject turns an asynchronously loaded model into a static compound collider
// with one box per model group
type StaticObject struct {
	Name     string
	Position vmath.Vec3F
	Scale    vmath.Vec3F
	Yaw      float64
	Color    uint32

	model *asset.Future[*asset.Model]
	world *physics.World
	scene *Scene
	log   zerolog.Logger

	body   *physics.Body
	nodes  []*Node
	ready  bool
	failed bool
}

// NewStaticObject binds a pending model; nothing is added until the model resolves
func NewStaticObject(world *physics.World, sc *Scene, name string, model *asset.Future[*asset.Model], position, scale vmath.Vec3F, yaw float64) *StaticObject {
	if scale == (vmath.Vec3F{}) {
		scale = vmath.Vec3F{1, 1, 1}
	}
	return &StaticObject{
		Name:     name,
		Position: position,
		Scale:    scale,
		Yaw:      yaw,
		Color:    0x888888,
		model:    model,
		world:    world,
		scene:    sc,
		log:      sc.log,
	}
}

// Ready reports whether the collider and nodes exist
func (o *StaticObject) Ready() bool {
	return o.ready
}

// Failed reports a model load error; a failed object never becomes ready
func (o *StaticObject) Failed() bool {
	return o.failed
}

// Body returns the collider, nil until ready
func (o *StaticObject) Body() *physics.Body {
	return o.body
}

// Update polls the model and syncs nodes once ready
func (o *StaticObject) Update() {
	if o.ready {
		o.sync()
		return
	}
	if o.failed {
		return
	}
	m, done, err := o.model.Poll()
	if !done {
		return
	}
	if err != nil {
		o.failed = true
		o.log.Error().Err(err).Str("object", o.Name).Msg("static object model failed to load")
		return
	}
	o.build(m)
}

func (o *StaticObject) build(m *asset.Model) {
	body := physics.NewBody(0)
	body.Name = o.Name
	body.Position = o.Position
	body.Orientation = vmath.QFYaw(o.Yaw)

	for i, g := range m.Groups {
		half := scaleVec(g.Size(), o.Scale).Mul(0.5)
		offset := scaleVec(g.Center(), o.Scale)
		body.AddShape(physics.Box(half).WithOffset(offset))

		n := NewNode(fmt.Sprintf("%s/%s#%d", o.Name, g.Name, i), KindBox)
		n.HalfExtents = half
		n.Color = o.Color
		o.nodes = append(o.nodes, o.scene.Add(n))
	}
	o.world.AddBody(body)
	o.body = body
	o.ready = true
	o.log.Debug().Str("object", o.Name).Int("groups", len(m.Groups)).Msg("static object ready")
	o.sync()
}

func (o *StaticObject) sync() {
	for i, n := range o.nodes {
		s := o.body.Shapes[i]
		n.SetPose(o.body.PointToWorld(s.Offset), o.body.Orientation.Mul(s.Orientation))
	}
}

func scaleVec(v, s vmath.Vec3F) vmath.Vec3F {
	return vmath.Vec3F{v[0] * s[0], v[1] * s[1], v[2] * s[2]}
}

// blockPalette cycles block colors
var blockPalette = []uint32{0x3a6ea5, 0x7a3b69, 0x2e8b57, 0xb8860b, 0x8b3a3a, 0x4b6043}

// BlockHalfExtents is the half size of a lane block
var BlockHalfExtents = vmath.Vec3F{0.5, 0.5, 0.5}

// BlockPosition returns the lane slot of block i out of count
// The first half runs up the x=1 row, the rest comes back down x=-1
func BlockPosition(i, count int) vmath.Vec3F {
	x, z := 1.0, float64(i)*2
	if i > count/2 {
		x = -1
		z = float64(count-i)*2 + 0.5
	}
	return vmath.Vec3F{x, -0.3, z}
}

// AddBlockLane places count static blocks that poke slightly out of the ground
func AddBlockLane(world *physics.World, sc *Scene, count int) []*physics.Body {
	bodies := make([]*physics.Body, 0, count)
	for i := 0; i < count; i++ {
		pos := BlockPosition(i, count)
		b := world.AddStaticBox(pos, BlockHalfExtents)
		b.Name = fmt.Sprintf("block#%d", i)

		n := NewNode(b.Name, KindBox)
		n.Position = pos
		n.Orientation = mgl64.QuatIdent()
		n.HalfExtents = BlockHalfExtents
		n.Color = blockPalette[i%len(blockPalette)]
		sc.Add(n)

		bodies = append(bodies, b)
	}
	return bodies
}
