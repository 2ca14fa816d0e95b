package figure

// Grid layout constants. Every signal row has the same unit height; the
// carpet row is five times taller and always last. Rows are separated by a
// small fixed vertical gap and span the full figure width.
const (
	signalRowRatio = 1.0
	carpetRowRatio = 5.0
	rowGap         = 0.012 // fraction of figure height between rows
)

// Region is one grid slot, expressed as fractions of the figure height.
// Y increases downward from the top edge; every region spans the full
// figure width (the grid has zero horizontal spacing).
type Region struct {
	Row int     // grid row index, top to bottom
	Y   float64 // top edge
	H   float64 // height
}

// Grid is the vertical figure grid: nrows-1 signal rows over one carpet row.
type Grid struct {
	rows int
}

// NewGrid builds a grid with the given total row count. nrows includes the
// carpet row, so it is always at least 1.
func NewGrid(nrows int) Grid {
	if nrows < 1 {
		nrows = 1
	}
	return Grid{rows: nrows}
}

// Rows returns the total row count, carpet included.
func (g Grid) Rows() int { return g.rows }

// HeightRatios returns the per-row height ratios: 1 for every signal row,
// 5 for the final carpet row.
func (g Grid) HeightRatios() []float64 {
	ratios := make([]float64, g.rows)
	for i := range ratios {
		ratios[i] = signalRowRatio
	}
	ratios[g.rows-1] = carpetRowRatio
	return ratios
}

// Regions computes the fractional vertical extent of every row, top to
// bottom. The regions plus the fixed gaps tile the full [0,1] interval.
func (g Grid) Regions() []Region {
	ratios := g.HeightRatios()
	total := 0.0
	for _, r := range ratios {
		total += r
	}
	usable := 1.0 - rowGap*float64(g.rows-1)

	regions := make([]Region, g.rows)
	y := 0.0
	for i, r := range ratios {
		h := usable * r / total
		regions[i] = Region{Row: i, Y: y, H: h}
		y += h + rowGap
	}
	return regions
}
