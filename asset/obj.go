package asset

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/udhos/gwob"

	"github.com/lixenwraith/arcade-drive/vmath"
)

// Group is one named object/group of a model with its bounds
type Group struct {
	Name     string
	Min, Max vmath.Vec3F
	Vertices int
	Faces    int
}

// Size returns the full extents of the group
func (g Group) Size() vmath.Vec3F {
	return g.Max.Sub(g.Min)
}

// Center returns the midpoint of the bounds
func (g Group) Center() vmath.Vec3F {
	return g.Min.Add(g.Max).Mul(0.5)
}

// Model is the geometry summary needed for colliders and top-down drawing
type Model struct {
	Name     string
	Groups   []Group
	Min, Max vmath.Vec3F
	Vertices int
}

// Size returns the full extents of the whole model
func (m *Model) Size() vmath.Vec3F {
	return m.Max.Sub(m.Min)
}

// Center returns the midpoint of the model bounds
func (m *Model) Center() vmath.Vec3F {
	return m.Min.Add(m.Max).Mul(0.5)
}

// LoadOBJ reads a Wavefront OBJ file on a goroutine
func LoadOBJ(ctx context.Context, path string) *Future[*Model] {
	return Load(ctx, func(ctx context.Context) (*Model, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("asset: open model: %w", err)
		}
		defer f.Close()
		return ParseOBJ(ctx, f, filepath.Base(path))
	})
}

// coordUnit snaps gwob's float32 coordinates back onto a micrometre grid
const coordUnit = 1e6

// ParseOBJ summarizes the faced geometry of each o/g section
// Sections without at least one triangle are dropped; Faces counts triangles
func ParseOBJ(ctx context.Context, r io.Reader, name string) (*Model, error) {
	var problems []string
	opts := &gwob.ObjParserOptions{
		IgnoreNormals: true,
		Logger: func(msg string) {
			problems = append(problems, strings.TrimSpace(msg))
		},
	}

	obj, err := gwob.NewObjFromReader(name, ctxReader{ctx: ctx, r: r}, opts)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", name, err)
	}

	m := &Model{Name: name}
	for _, og := range obj.Groups {
		if og.IndexCount < 3 {
			continue
		}
		g := Group{
			Name:  og.Name,
			Min:   vmath.Vec3F{math.Inf(1), math.Inf(1), math.Inf(1)},
			Max:   vmath.Vec3F{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
			Faces: og.IndexCount / 3,
		}
		if g.Name == "" {
			g.Name = "default"
		}
		seen := make(map[int]struct{}, og.IndexCount)
		for _, idx := range obj.Indices[og.IndexBegin : og.IndexBegin+og.IndexCount] {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			p := vertex(obj, idx)
			for i := 0; i < 3; i++ {
				g.Min[i] = math.Min(g.Min[i], p[i])
				g.Max[i] = math.Max(g.Max[i], p[i])
			}
		}
		g.Vertices = len(seen)
		m.Groups = append(m.Groups, g)
	}
	if len(m.Groups) == 0 {
		if len(problems) > 0 {
			return nil, fmt.Errorf("asset: %s: no faces: %s", name, problems[0])
		}
		return nil, fmt.Errorf("asset: %s: no faces", name)
	}
	m.Vertices = obj.NumberOfElements()

	m.Min, m.Max = m.Groups[0].Min, m.Groups[0].Max
	for _, g := range m.Groups[1:] {
		for i := 0; i < 3; i++ {
			m.Min[i] = math.Min(m.Min[i], g.Min[i])
			m.Max[i] = math.Max(m.Max[i], g.Max[i])
		}
	}
	return m, nil
}

func vertex(obj *gwob.Obj, stride int) vmath.Vec3F {
	x, y, z := obj.VertexCoordinates(stride)
	return vmath.Vec3F{snap(x), snap(y), snap(z)}
}

func snap(c float32) float64 {
	return math.Round(float64(c)*coordUnit) / coordUnit
}

// ctxReader stops a parse once the context is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
