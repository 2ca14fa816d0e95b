package figure

import (
	"image/color"

	"gonum.org/v1/gonum/mat"
)

// Colormap selectors accepted by [CarpetParams]. The paired colormap is a
// qualitative map used when matrix values encode discrete pairs rather than
// a continuous intensity.
const (
	ColormapDefault = ""
	ColormapPaired  = "paired"
)

// Renderer draws the three panel kinds of the summary figure. Implementations
// own all visual styling; the composition engine only decides what is drawn
// where, and in which order.
type Renderer interface {
	// RenderSpikes draws a spike-intensity panel into region.
	RenderSpikes(region Region, p SpikesParams)
	// RenderTrace draws a single annotated time-series panel into region.
	RenderTrace(region Region, p TraceParams)
	// RenderCarpet draws the voxel-by-time heatmap panel into region.
	RenderCarpet(region Region, p CarpetParams)
}

// TraceParams carries one normalized signal to the trace renderer.
type TraceParams struct {
	Values []float64
	TR     *float64 // nil for physio traces, which are never TR-scaled
	Color  color.Color
	Name   string
	Units  string   // "" when unitless
	Cutoff *float64 // nil when no threshold line applies
}

// SpikesParams carries one spike record to the spike renderer.
type SpikesParams struct {
	Values  *mat.Dense
	Title   string // "" when untitled
	TR      *float64
	ZScored bool
}

// CarpetParams carries the imaging matrix to the carpet renderer.
type CarpetParams struct {
	Matrix   *mat.Dense
	Segments Segments
	TR       *float64
	SortRows bool
	DropTRs  int    // leading timepoints to skip
	Colormap string // ColormapDefault or ColormapPaired
}
