package render

import (
	"math"

	"github.com/lixenwraith/arcade-drive/camera"
	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/vmath"
)

// View projects the ground plane onto the terminal
// The camera's horizontal viewing direction points up the screen
type View struct {
	Center  vmath.Vec3F
	Forward vmath.Vec3F
	Right   vmath.Vec3F
	// Scale is columns per meter; rows are half as dense
	Scale float64

	// Viewport rectangle in cells
	X, Y, Width, Height int
}

// NewView frames the viewport around the camera's look-at point
func NewView(pose camera.Pose, scale float64, x, y, width, height int) View {
	if !(scale > 0) {
		scale = parameter.ViewCellsPerMeter
	}
	d := pose.LookAt.Sub(pose.Position)
	forward, ok := vmath.V3FNormalize(vmath.Vec3F{d.X(), 0, d.Z()})
	if !ok {
		forward = vmath.UnitZ
	}
	return View{
		Center:  vmath.Vec3F{pose.LookAt.X(), 0, pose.LookAt.Z()},
		Forward: forward,
		Right:   forward.Cross(vmath.UnitY),
		Scale:   scale,
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
	}
}

func (v View) origin() (float64, float64) {
	return float64(v.X) + float64(v.Width)/2, float64(v.Y) + float64(v.Height)/2
}

// WorldToScreen returns the cell under a world point and whether it lies in the viewport
func (v View) WorldToScreen(p vmath.Vec3F) (int, int, bool) {
	d := p.Sub(v.Center)
	ox, oy := v.origin()
	sx := int(math.Floor(ox + d.Dot(v.Right)*v.Scale))
	sy := int(math.Floor(oy - d.Dot(v.Forward)*v.Scale/2))
	return sx, sy, v.Contains(sx, sy)
}

// ScreenToWorld returns the ground point at the centre of a cell
func (v View) ScreenToWorld(sx, sy int) vmath.Vec3F {
	ox, oy := v.origin()
	u := (float64(sx) + 0.5 - ox) / v.Scale
	w := (oy - float64(sy) - 0.5) / (v.Scale / 2)
	p := v.Center.Add(v.Right.Mul(u)).Add(v.Forward.Mul(w))
	return vmath.Vec3F{p.X(), 0, p.Z()}
}

// Contains reports whether a cell lies in the viewport
func (v View) Contains(sx, sy int) bool {
	return sx >= v.X && sx < v.X+v.Width && sy >= v.Y && sy < v.Y+v.Height
}

// CellSize returns the world extent of one cell along right and forward
func (v View) CellSize() (float64, float64) {
	return 1 / v.Scale, 2 / v.Scale
}
