// Package scene holds the drawable nodes of the world and the scenery objects
// that keep physics bodies and nodes in step
package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/vmath"
)

// Kind selects how a node is drawn
type Kind uint8

const (
	KindBox Kind = iota
	KindSphere
	KindChassis
	KindWheel
	KindProp
	KindTrigger
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindChassis:
		return "chassis"
	case KindWheel:
		return "wheel"
	case KindProp:
		return "prop"
	case KindTrigger:
		return "trigger"
	}
	return "unknown"
}

// Node is a drawable object; Color is 0xRRGGBB
type Node struct {
	Name        string
	Kind        Kind
	Position    vmath.Vec3F
	Orientation vmath.QuatF
	HalfExtents vmath.Vec3F
	Radius      float64
	Label       string
	Color       uint32
	Visible     bool
	Highlight   bool
}

// NewNode returns a visible node with identity orientation
func NewNode(name string, kind Kind) *Node {
	return &Node{
		Name:        name,
		Kind:        kind,
		Orientation: mgl64.QuatIdent(),
		Visible:     true,
		Color:       0xffffff,
	}
}

// SetPose copies a world pose onto the node
func (n *Node) SetPose(pos vmath.Vec3F, q vmath.QuatF) {
	n.Position = pos
	n.Orientation = q
}

// Footprint returns the node's four ground-plane corners in winding order
// Spheres and wheels report their axis-aligned square
func (n *Node) Footprint() [4]vmath.Vec3F {
	h := n.HalfExtents
	if n.Kind == KindSphere || n.Kind == KindTrigger {
		h = vmath.Vec3F{n.Radius, n.Radius, n.Radius}
	}
	var out [4]vmath.Vec3F
	corners := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for i, c := range corners {
		local := vmath.Vec3F{c[0] * h[0], 0, c[1] * h[2]}
		world := n.Orientation.Rotate(local)
		out[i] = n.Position.Add(vmath.Vec3F{world[0], 0, world[2]})
	}
	return out
}

// Scene is the registry of nodes shared by the simulation and the renderer
// Node fields are written by the simulation goroutine only; the renderer draws between ticks
type Scene struct {
	mu     sync.RWMutex
	nodes  []*Node
	byName map[string]*Node
	log    zerolog.Logger
}

// Option configures a Scene
type Option func(*Scene)

// WithLogger attaches a logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scene) { s.log = l }
}

// New creates an empty scene
func New(opts ...Option) *Scene {
	s := &Scene{
		byName: make(map[string]*Node),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers n, replacing a node of the same name
func (s *Scene) Add(n *Node) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byName[n.Name]; ok {
		for i, existing := range s.nodes {
			if existing == old {
				s.nodes[i] = n
				break
			}
		}
		s.log.Debug().Str("node", n.Name).Msg("node replaced")
	} else {
		s.nodes = append(s.nodes, n)
	}
	s.byName[n.Name] = n
	return n
}

// Remove drops the named node
func (s *Scene) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byName[name]
	if !ok {
		return
	}
	delete(s.byName, name)
	for i, existing := range s.nodes {
		if existing == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return
		}
	}
}

// Node looks up a node by name
func (s *Scene) Node(name string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.byName[name]
	return n, ok
}

// Len returns the node count
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Each calls fn for every node in insertion order while holding the read lock
func (s *Scene) Each(fn func(n *Node)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.nodes {
		fn(n)
	}
}
