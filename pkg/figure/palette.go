package figure

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette hue parameters. Hues are evenly spaced around the HSLuv wheel at
// fixed saturation and lightness, which keeps the colors perceptually
// uniform and visually distinct for any palette size. The small hue offset
// keeps the first color off pure red.
const (
	paletteSaturation = 0.90
	paletteLightness  = 0.65
	paletteHueOffset  = 3.6
)

// Palette returns n categorical colors from the HSLuv color space. The
// assignment is deterministic: the same n always yields the same colors in
// the same order.
func Palette(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := range colors {
		h := paletteHueOffset + 360.0*float64(i)/float64(n)
		colors[i] = colorful.HSLuv(h, paletteSaturation, paletteLightness).Clamped()
	}
	return colors
}
