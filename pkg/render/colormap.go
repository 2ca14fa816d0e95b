package render

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/neuroimg/fmriplot/pkg/figure"
)

// Colormap maps a display-normalized value in [0,1] to a color.
type Colormap func(v float64) color.Color

// pairedHex is the ColorBrewer "Paired" qualitative scheme, used when
// matrix values encode discrete pairs (e.g. left/right structures).
var pairedHex = []string{
	"#a6cee3", "#1f78b4", "#b2df8a", "#33a02c",
	"#fb9a99", "#e31a1c", "#fdbf6f", "#ff7f00",
	"#cab2d6", "#6a3d9a", "#ffff99", "#b15928",
}

// lookupColormap resolves a figure colormap selector to a Colormap.
// Unknown names fall back to the default grayscale map.
func lookupColormap(name string) Colormap {
	if name == figure.ColormapPaired {
		return paired()
	}
	return grayscale
}

// grayscale maps [0,1] onto a near-black to near-white ramp. The range is
// slightly compressed so extremes stay distinguishable from the panel
// background and border.
func grayscale(v float64) color.Color {
	l := 0.06 + 0.88*clamp01(v)
	return colorful.Color{R: l, G: l, B: l}
}

// paired bins [0,1] onto the twelve Paired colors.
func paired() Colormap {
	colors := make([]colorful.Color, len(pairedHex))
	for i, hex := range pairedHex {
		c, err := colorful.Hex(hex)
		if err != nil {
			// The palette is a compile-time constant; a bad entry is a bug.
			panic(err)
		}
		colors[i] = c
	}
	return func(v float64) color.Color {
		i := int(clamp01(v) * float64(len(colors)))
		if i >= len(colors) {
			i = len(colors) - 1
		}
		return colors[i]
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
