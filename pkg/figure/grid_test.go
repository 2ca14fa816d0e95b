package figure

import (
	"math"
	"testing"
)

func TestGridHeightRatios(t *testing.T) {
	tests := []struct {
		name  string
		nrows int
		want  []float64
	}{
		{"carpet only", 1, []float64{5}},
		{"one signal", 2, []float64{1, 5}},
		{"four signals", 5, []float64{1, 1, 1, 1, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewGrid(tt.nrows).HeightRatios()
			if len(got) != len(tt.want) {
				t.Fatalf("HeightRatios() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("HeightRatios()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGridRegions(t *testing.T) {
	g := NewGrid(4)
	regions := g.Regions()

	if len(regions) != 4 {
		t.Fatalf("Regions() returned %d regions, want 4", len(regions))
	}

	for i, r := range regions {
		if r.Row != i {
			t.Errorf("region %d has Row = %d", i, r.Row)
		}
		if i > 0 && regions[i].Y <= regions[i-1].Y {
			t.Errorf("region %d does not descend below region %d", i, i-1)
		}
	}

	// Carpet row is last and exactly 5x a signal row.
	last := regions[len(regions)-1]
	if ratio := last.H / regions[0].H; math.Abs(ratio-5) > 1e-9 {
		t.Errorf("carpet/signal height ratio = %v, want 5", ratio)
	}

	// Rows plus gaps tile the unit height.
	if bottom := last.Y + last.H; math.Abs(bottom-1) > 1e-9 {
		t.Errorf("grid bottom = %v, want 1", bottom)
	}
}

func TestGridSingleRow(t *testing.T) {
	regions := NewGrid(1).Regions()
	if len(regions) != 1 {
		t.Fatalf("Regions() returned %d regions, want 1", len(regions))
	}
	if regions[0].Y != 0 || math.Abs(regions[0].H-1) > 1e-9 {
		t.Errorf("single region = %+v, want full height", regions[0])
	}
}
