package render

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/arcade-drive/input"
)

// Hints shown on the second HUD row when no status message is pending
const Hints = "W A S D drive  SPACE brake  R reset  C camera  M mute  Q quit"

// HUDRenderer draws the status rows and the on-screen buttons
type HUDRenderer struct{}

func (r HUDRenderer) Render(ctx Context, buf *RenderBuffer) {
	for x := 0; x < ctx.ScreenWidth; x++ {
		buf.Set(x, 0, ' ', StyleHUD)
	}

	x := 1
	if g := ctx.Game; g != nil {
		x = buf.Text(x, 0, fmt.Sprintf("%5.1f km/h", g.Vehicle.SpeedKmh()), StyleHUD.Bold(true))
		x = buf.Text(x+2, 0, fmt.Sprintf("hdg %03d", Bearing(g.Vehicle.Yaw())), StyleHUD)
		x = buf.Text(x+2, 0, "cam "+g.Camera.Config().Name, StyleHUD.Foreground(RgbAccent))
		if !g.Vehicle.Upright() {
			x = buf.Text(x+2, 0, "flipped: press R", StyleHUD.Foreground(RgbWarning))
		}
	}
	if ctx.Muted {
		x = buf.Text(x+2, 0, "muted", StyleHint)
	}
	if p := ctx.Progress; !p.Done() {
		buf.Text(x+2, 0, fmt.Sprintf("loading %d/%d", p.Loaded+p.Failed, p.Total()), StyleHUD.Foreground(RgbWarning))
	} else if p.Failed > 0 {
		buf.Text(x+2, 0, fmt.Sprintf("%d asset(s) failed", p.Failed), StyleHUD.Foreground(RgbError))
	}

	if ctx.Status != "" {
		buf.Text(1, 1, ctx.Status, StyleHUD.Foreground(RgbAccent))
	} else {
		buf.Text(1, 1, Hints, StyleHint)
	}

	for _, b := range ctx.Buttons {
		style := StyleHUD.Background(RgbButton)
		if held(ctx.Held, b.Action) {
			style = style.Background(RgbPressed).Foreground(RgbBackground)
		}
		buf.Text(b.X, b.Y, b.Label, style)
	}
}

// Bearing converts a yaw to whole compass degrees, clockwise from +Z seen from above
// +X lies to the left of +Z, so a positive yaw reads as a bearing west of north
func Bearing(yaw float64) int {
	return int(math.Mod(math.Round(360-mgl64.RadToDeg(yaw)), 360))
}

func held(s input.Snapshot, a input.Action) bool {
	switch a {
	case input.ActionForward:
		return s.Forward
	case input.ActionBackward:
		return s.Backward
	case input.ActionLeft:
		return s.Left
	case input.ActionRight:
		return s.Right
	case input.ActionBrake:
		return s.Brake
	}
	return false
}
