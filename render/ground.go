package render

import "math"

// GroundRenderer draws the world grid under the view
type GroundRenderer struct {
	Spacing float64
}

func (r GroundRenderer) Render(ctx Context, buf *RenderBuffer) {
	if !(r.Spacing > 0) {
		return
	}
	v := ctx.View
	cw, ch := v.CellSize()
	// a cell is on a line when the line falls within half a cell of its centre
	tol := max(cw, ch) / 2

	for sy := v.Y; sy < v.Y+v.Height; sy++ {
		for sx := v.X; sx < v.X+v.Width; sx++ {
			p := v.ScreenToWorld(sx, sy)
			onX := nearLine(p.X(), r.Spacing, tol)
			onZ := nearLine(p.Z(), r.Spacing, tol)
			switch {
			case onX && onZ:
				buf.SetFgOnly(sx, sy, '+', RgbGrid)
			case onX || onZ:
				buf.SetFgOnly(sx, sy, '·', RgbGrid)
			}
		}
	}
}

func nearLine(c, spacing, tol float64) bool {
	d := math.Abs(math.Remainder(c, spacing))
	return d <= tol
}
