package render

import "github.com/gdamore/tcell/v2"

// Palette (Tokyo Night)
var (
	RgbBackground = tcell.NewHexColor(0x1a1b26)
	RgbGrid       = tcell.NewHexColor(0x292e42)
	RgbText       = tcell.NewHexColor(0xc0caf5)
	RgbDim        = tcell.NewHexColor(0x565f89)
	RgbAccent     = tcell.NewHexColor(0x7aa2f7)
	RgbWarning    = tcell.NewHexColor(0xe0af68)
	RgbError      = tcell.NewHexColor(0xf7768e)
	RgbButton     = tcell.NewHexColor(0x3b4261)
	RgbPressed    = tcell.NewHexColor(0x9ece6a)
)

// Base styles
var (
	StyleBackground = tcell.StyleDefault.Background(RgbBackground).Foreground(RgbText)
	StyleHUD        = StyleBackground.Foreground(RgbText)
	StyleHint       = StyleBackground.Foreground(RgbDim)
)

// NodeColor converts a 0xRRGGBB scene color
func NodeColor(rgb uint32) tcell.Color {
	return tcell.NewHexColor(int32(rgb & 0xffffff))
}

// Shade scales a 0xRRGGBB color by f in [0, 1]
func Shade(rgb uint32, f float64) tcell.Color {
	f = min(max(f, 0), 1)
	r := float64(rgb>>16&0xff) * f
	g := float64(rgb>>8&0xff) * f
	b := float64(rgb&0xff) * f
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
