package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"

	"github.com/neuroimg/fmriplot/pkg/figure"
)

// Slice trace colors run along a fixed blue-to-red ramp; spikes take no
// slot in the figure palette.
var (
	spikeRampStart, _ = colorful.Hex("#2166ac")
	spikeRampEnd, _   = colorful.Hex("#b2182b")
)

// RenderSpikes draws a spike-intensity panel: one thin trace per slice of
// the 2D spike matrix, colored along an internal ramp by slice position.
func (c *Canvas) RenderSpikes(region figure.Region, p figure.SpikesParams) {
	x, y, w, h := c.rect(region)
	c.panelFrame(x, y, w, h)

	if p.Values == nil {
		return
	}
	nslices, _ := p.Values.Dims()
	if nslices == 0 {
		return
	}

	lo, hi, ok := matrixRange(p.Values)
	if !ok {
		return
	}

	const pad = 3.0
	plotY := y + pad
	plotH := h - 2*pad
	toY := func(v float64) float64 {
		return plotY + plotH*(1-(v-lo)/(hi-lo))
	}

	c.clipped(x, y, w, h, func() {
		for i := 0; i < nslices; i++ {
			t := 0.0
			if nslices > 1 {
				t = float64(i) / float64(nslices-1)
			}
			c.dc.SetColor(spikeRampStart.BlendLab(spikeRampEnd, t).Clamped())
			c.dc.SetLineWidth(0.8)
			c.drawPolyline(p.Values.RawRowView(i), x, w, toY)
		}
	})

	c.dc.SetRGB(0.15, 0.15, 0.17)
	c.dc.DrawStringAnchored(spikeLabel(p.Title, p.ZScored), x+6, y+4, 0, 1)
}

// spikeLabel picks the panel annotation: the record title when present,
// otherwise a generic label that notes z-scoring.
func spikeLabel(title string, zscored bool) string {
	if title != "" {
		return title
	}
	if zscored {
		return "spikes [z-score]"
	}
	return "spikes"
}

// matrixRange returns the finite min and max over all matrix cells, padded
// when flat. ok is false when no finite cell exists.
func matrixRange(m *mat.Dense) (lo, hi float64, ok bool) {
	rows, cols := m.Dims()
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 0, false
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi, true
}
