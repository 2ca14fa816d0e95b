package figure

import "gonum.org/v1/gonum/mat"

// ConfoundSignal is a nuisance regressor sampled at imaging frame
// resolution. Units and Cutoff come from caller-supplied lookup maps and
// stay at their zero values when the signal name is absent from the maps.
type ConfoundSignal struct {
	Name   string
	Values []float64
	Units  string   // "" when unitless
	Cutoff *float64 // nil when no threshold line applies
}

// PhysioSignal is a directly measured physiological time series. It carries
// no cutoff: physio traces are never thresholded, and they are plotted at
// their native sampling rate rather than scaled by the imaging TR.
type PhysioSignal struct {
	Name   string
	Values []float64
	Units  string
}

// PhysioConfoundSignal is a regressor derived from a physio recording,
// aligned to imaging frame resolution. It has the same shape as
// [ConfoundSignal] but normalization never populates Cutoff for this
// category, even when the cutoff map names the signal.
type PhysioConfoundSignal struct {
	Name   string
	Values []float64
	Units  string
	Cutoff *float64 // always nil; cutoffs apply only to confounds
}

// SpikeRecord is a slice-by-frame outlier metric loaded from a spike file.
type SpikeRecord struct {
	Values  *mat.Dense
	Title   string // always "" for file-loaded spikes
	ZScored bool   // always false for file-loaded spikes
}
