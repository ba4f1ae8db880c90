package render

import (
	"math"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/arcade-drive/scene"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// drawOrder lists kinds bottom to top
var drawOrder = []scene.Kind{
	scene.KindBox,
	scene.KindTrigger,
	scene.KindSphere,
	scene.KindProp,
	scene.KindChassis,
	scene.KindWheel,
}

// SceneRenderer draws every visible node as its ground footprint
type SceneRenderer struct{}

func (r SceneRenderer) Render(ctx Context, buf *RenderBuffer) {
	if ctx.Game == nil {
		return
	}
	byKind := make(map[scene.Kind][]*scene.Node, len(drawOrder))
	ctx.Game.Scene.Each(func(n *scene.Node) {
		if n.Visible {
			byKind[n.Kind] = append(byKind[n.Kind], n)
		}
	})
	for _, k := range drawOrder {
		for _, n := range byKind[k] {
			drawNode(ctx.View, buf, n)
		}
	}
}

func drawNode(v View, buf *RenderBuffer, n *scene.Node) {
	style := StyleBackground.Foreground(NodeColor(n.Color))
	switch n.Kind {
	case scene.KindBox:
		fillQuad(v, buf, n.Footprint(), '#', style)
	case scene.KindChassis:
		fillQuad(v, buf, n.Footprint(), '█', style)
		// heading marker on the front edge
		front := n.Position.Add(n.Orientation.Rotate(vmath.Vec3F{0, 0, n.HalfExtents.Z()}))
		if x, y, ok := v.WorldToScreen(front); ok {
			buf.Set(x, y, '▲', style.Bold(true))
		}
	case scene.KindWheel:
		if x, y, ok := v.WorldToScreen(n.Position); ok {
			buf.Set(x, y, '■', style)
		}
	case scene.KindSphere:
		fillDisk(v, buf, n.Position, n.Radius, '●', style)
	case scene.KindTrigger:
		r := 'o'
		if n.Highlight {
			r = 'O'
			style = style.Bold(true)
		}
		fillDisk(v, buf, n.Position, n.Radius, r, style)
		if n.Highlight && n.Label != "" {
			label(v, buf, n.Position, n.Radius, n.Label, style)
		}
	case scene.KindProp:
		if utf8.RuneCountInString(n.Label) == 1 {
			r, _ := utf8.DecodeRuneInString(n.Label)
			fillQuad(v, buf, n.Footprint(), r, style.Bold(true))
			return
		}
		fillQuad(v, buf, n.Footprint(), '▒', style)
		if n.Label != "" {
			if x, y, ok := v.WorldToScreen(n.Position); ok {
				buf.Text(x-utf8.RuneCountInString(n.Label)/2, y, n.Label, style.Reverse(true))
			}
		}
	}
}

// fillQuad fills the cells whose centres fall inside a convex ground quad
// A quad smaller than a cell still marks the cell under its centre
func fillQuad(v View, buf *RenderBuffer, q [4]vmath.Vec3F, r rune, style tcell.Style) {
	minX, minY, maxX, maxY := screenBounds(v, q)

	drawn := false
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if insideQuad(v.ScreenToWorld(x, y), q) {
				buf.Set(x, y, r, style)
				drawn = true
			}
		}
	}
	if !drawn {
		c := q[0].Add(q[2]).Mul(0.5)
		if x, y, ok := v.WorldToScreen(c); ok {
			buf.Set(x, y, r, style)
		}
	}
}

// screenBounds returns the viewport-clipped cell rectangle covering q
func screenBounds(v View, q [4]vmath.Vec3F) (minX, minY, maxX, maxY int) {
	minX, minY = math.MaxInt, math.MaxInt
	maxX, maxY = math.MinInt, math.MinInt
	for _, p := range q {
		x, y, _ := v.WorldToScreen(p)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	return max(minX, v.X), max(minY, v.Y), min(maxX, v.X+v.Width-1), min(maxY, v.Y+v.Height-1)
}

// insideQuad tests p against a convex quad in either winding on the x/z plane
func insideQuad(p vmath.Vec3F, q [4]vmath.Vec3F) bool {
	var pos, neg bool
	for i := range q {
		a, b := q[i], q[(i+1)%4]
		c := (b.X()-a.X())*(p.Z()-a.Z()) - (b.Z()-a.Z())*(p.X()-a.X())
		if c > 0 {
			pos = true
		} else if c < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

func fillDisk(v View, buf *RenderBuffer, center vmath.Vec3F, radius float64, r rune, style tcell.Style) {
	h := vmath.Vec3F{radius, 0, radius}
	q := [4]vmath.Vec3F{
		center.Sub(h),
		center.Add(vmath.Vec3F{radius, 0, -radius}),
		center.Add(h),
		center.Add(vmath.Vec3F{-radius, 0, radius}),
	}
	minX, minY, maxX, maxY := screenBounds(v, q)

	drawn := false
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := v.ScreenToWorld(x, y)
			dx, dz := p.X()-center.X(), p.Z()-center.Z()
			if dx*dx+dz*dz <= radius*radius {
				buf.Set(x, y, r, style)
				drawn = true
			}
		}
	}
	if !drawn {
		if x, y, ok := v.WorldToScreen(center); ok {
			buf.Set(x, y, r, style)
		}
	}
}

// label writes text on the row above a footprint of the given radius
func label(v View, buf *RenderBuffer, at vmath.Vec3F, radius float64, text string, style tcell.Style) {
	top := at.Add(v.Forward.Mul(radius))
	x, y, _ := v.WorldToScreen(top)
	y--
	if y < v.Y || y >= v.Y+v.Height {
		return
	}
	buf.Text(x-utf8.RuneCountInString(text)/2, y, text, style)
}
