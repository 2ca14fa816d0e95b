package render

import (
	"fmt"
	"math"

	"github.com/neuroimg/fmriplot/pkg/figure"
)

// RenderTrace draws a single annotated time-series panel: the signal
// polyline in its assigned palette color, an optional dashed cutoff line,
// and the signal name with units in the panel corner.
func (c *Canvas) RenderTrace(region figure.Region, p figure.TraceParams) {
	x, y, w, h := c.rect(region)
	c.panelFrame(x, y, w, h)

	lo, hi, ok := valueRange(p.Values)
	if ok && p.Cutoff != nil {
		// Keep the cutoff line inside the panel even when the signal never
		// reaches it.
		lo = math.Min(lo, *p.Cutoff)
		hi = math.Max(hi, *p.Cutoff)
	}

	const pad = 3.0
	plotY := y + pad
	plotH := h - 2*pad
	toY := func(v float64) float64 {
		return plotY + plotH*(1-(v-lo)/(hi-lo))
	}

	if ok {
		c.clipped(x, y, w, h, func() {
			if p.Cutoff != nil {
				cy := toY(*p.Cutoff)
				c.dc.SetRGB(0.85, 0.25, 0.25)
				c.dc.SetLineWidth(1)
				c.dc.SetDash(4, 3)
				c.dc.DrawLine(x, cy, x+w, cy)
				c.dc.Stroke()
				c.dc.SetDash()
			}

			c.dc.SetColor(p.Color)
			c.dc.SetLineWidth(1.4)
			c.drawPolyline(p.Values, x, w, toY)
		})
	}

	c.dc.SetRGB(0.15, 0.15, 0.17)
	c.dc.DrawStringAnchored(traceLabel(p.Name, p.Units), x+6, y+4, 0, 1)
}

// drawPolyline strokes the values left to right across the panel width.
// NaN samples break the line instead of being interpolated over.
func (c *Canvas) drawPolyline(values []float64, x, w float64, toY func(float64) float64) {
	n := len(values)
	if n == 1 {
		c.dc.DrawPoint(x+w/2, toY(values[0]), 2)
		c.dc.Fill()
		return
	}

	step := w / float64(n-1)
	open := false
	for i, v := range values {
		if math.IsNaN(v) {
			if open {
				c.dc.Stroke()
				open = false
			}
			continue
		}
		px := x + float64(i)*step
		if !open {
			c.dc.MoveTo(px, toY(v))
			open = true
			continue
		}
		c.dc.LineTo(px, toY(v))
	}
	if open {
		c.dc.Stroke()
	}
}

// traceLabel formats the corner annotation, e.g. "FD [mm]".
func traceLabel(name, units string) string {
	if units == "" {
		return name
	}
	return fmt.Sprintf("%s [%s]", name, units)
}

// valueRange returns the finite min and max of values, padded when the
// signal is flat so the divide in the y mapping stays defined. ok is false
// when no finite sample exists.
func valueRange(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0, false
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi, true
}
