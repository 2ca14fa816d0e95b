package render

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/neuroimg/fmriplot/pkg/figure"
)

const (
	// segmentBarWidth is the pixel width of the tissue color sidebar.
	segmentBarWidth = 8.0

	// carpetTimeTicks is the number of x-axis time annotations.
	carpetTimeTicks = 5
)

// RenderCarpet draws the voxel-by-time heatmap: a tissue color sidebar on
// the left, one heatmap row per imaging-matrix row grouped by segment, and
// time annotations along the bottom edge. The first DropTRs frames are
// excluded; when SortRows is set, rows are ordered within each segment by
// descending mean intensity.
func (c *Canvas) RenderCarpet(region figure.Region, p figure.CarpetParams) {
	x, y, w, h := c.rect(region)
	c.panelFrame(x, y, w, h)

	if p.Matrix == nil {
		return
	}
	nrows, ncols := p.Matrix.Dims()
	drop := p.DropTRs
	if drop < 0 {
		drop = 0
	}
	if drop >= ncols || nrows == 0 {
		return
	}
	nframes := ncols - drop

	order := carpetRowOrder(p.Matrix, p.Segments, p.SortRows, drop)
	if len(order) == 0 {
		return
	}

	lo, hi, ok := matrixRange(p.Matrix)
	if !ok {
		return
	}
	cmap := lookupColormap(p.Colormap)

	heatX := x + segmentBarWidth
	heatW := w - segmentBarWidth
	cellW := heatW / float64(nframes)
	cellH := h / float64(len(order))

	segColors := figure.Palette(len(p.Segments))
	segOf := segmentIndex(p.Segments)

	c.clipped(x, y, w, h, func() {
		for di, row := range order {
			top := y + float64(di)*cellH

			if si, tagged := segOf[row]; tagged {
				c.dc.SetColor(segColors[si])
				c.dc.DrawRectangle(x, top, segmentBarWidth, cellH+0.5)
				c.dc.Fill()
			}

			for j := 0; j < nframes; j++ {
				v := p.Matrix.At(row, drop+j)
				if math.IsNaN(v) {
					continue
				}
				c.dc.SetColor(cmap((v - lo) / (hi - lo)))
				// A half pixel of overlap hides seams between cells.
				c.dc.DrawRectangle(heatX+float64(j)*cellW, top, cellW+0.5, cellH+0.5)
				c.dc.Fill()
			}
		}
	})

	c.drawTimeAxis(heatX, y+h, heatW, nframes, p.TR)
}

// drawTimeAxis annotates the bottom edge with frame or elapsed-time labels.
func (c *Canvas) drawTimeAxis(x, bottom, w float64, nframes int, tr *float64) {
	c.dc.SetRGB(0.35, 0.35, 0.38)
	for i := 0; i < carpetTimeTicks; i++ {
		frac := float64(i) / float64(carpetTimeTicks-1)
		frame := frac * float64(nframes-1)

		var label string
		if tr != nil {
			label = fmt.Sprintf("%.0fs", frame**tr)
		} else {
			label = fmt.Sprintf("%.0f", frame)
		}

		ax := frac // anchor shifts from left to right across ticks
		c.dc.DrawStringAnchored(label, x+frac*w, bottom-3, ax, 0)
	}
}

// carpetRowOrder returns the display order of matrix rows: segments in
// label order, each segment's rows optionally sorted by descending mean
// over the displayed frames. With no segments, all rows display in natural
// order.
func carpetRowOrder(m *mat.Dense, segments figure.Segments, sortRows bool, drop int) []int {
	nrows, ncols := m.Dims()

	if len(segments) == 0 {
		order := make([]int, nrows)
		for i := range order {
			order[i] = i
		}
		return order
	}

	var order []int
	for _, seg := range segments {
		rows := append([]int(nil), seg.Rows...)
		if sortRows {
			means := make(map[int]float64, len(rows))
			for _, r := range rows {
				means[r] = rowMean(m.RawRowView(r)[drop:ncols])
			}
			sort.SliceStable(rows, func(a, b int) bool {
				return means[rows[a]] > means[rows[b]]
			})
		}
		order = append(order, rows...)
	}
	return order
}

// segmentIndex maps a matrix row to the index of the segment covering it.
func segmentIndex(segments figure.Segments) map[int]int {
	index := make(map[int]int)
	for si, seg := range segments {
		for _, r := range seg.Rows {
			index[r] = si
		}
	}
	return index
}

func rowMean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.Inf(-1) // all-NaN rows sink to the segment bottom
	}
	return sum / float64(n)
}
