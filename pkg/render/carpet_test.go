package render

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/neuroimg/fmriplot/pkg/figure"
)

func TestCarpetRowOrderNoSegments(t *testing.T) {
	m := mat.NewDense(3, 4, []float64{
		1, 1, 1, 1,
		9, 9, 9, 9,
		5, 5, 5, 5,
	})

	order := carpetRowOrder(m, nil, true, 0)
	want := []int{0, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestCarpetRowOrderSorted(t *testing.T) {
	m := mat.NewDense(4, 4, []float64{
		1, 1, 1, 1, // mean 1
		9, 9, 9, 9, // mean 9
		5, 5, 5, 5, // mean 5
		2, 2, 2, 2, // mean 2
	})
	segments := figure.Segments{
		{Label: "a", Rows: []int{0, 1}},
		{Label: "b", Rows: []int{2, 3}},
	}

	// Sorting is within segment: segment a rows by descending mean, then
	// segment b rows by descending mean.
	order := carpetRowOrder(m, segments, true, 0)
	want := []int{1, 0, 2, 3}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	// Without sorting, segment row order is preserved as given.
	order = carpetRowOrder(m, segments, false, 0)
	want = []int{0, 1, 2, 3}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unsorted order = %v, want %v", order, want)
		}
	}
}

func TestCarpetRowOrderDropAffectsMeans(t *testing.T) {
	// Row 0 has a large initial transient; once the first two frames are
	// dropped, row 1 has the larger mean.
	m := mat.NewDense(2, 4, []float64{
		100, 100, 1, 1,
		2, 2, 2, 2,
	})
	segments := figure.Segments{{Label: "a", Rows: []int{0, 1}}}

	order := carpetRowOrder(m, segments, true, 2)
	if order[0] != 1 || order[1] != 0 {
		t.Errorf("order = %v, want [1 0]", order)
	}
}

func TestRenderCarpetPaired(t *testing.T) {
	c, err := NewCanvas(240, 160)
	if err != nil {
		t.Fatal(err)
	}

	m := mat.NewDense(4, 6, []float64{
		1, 1, 1, 2, 2, 2,
		3, 3, 3, 4, 4, 4,
		5, 5, 5, 6, 6, 6,
		7, 7, 7, 8, 8, 8,
	})
	segments := figure.Segments{{Label: "ctx", Rows: []int{0, 1, 2, 3}}}
	tr := 2.0

	region := figure.NewGrid(1).Regions()[0]
	c.RenderCarpet(region, figure.CarpetParams{
		Matrix:   m,
		Segments: segments,
		TR:       &tr,
		SortRows: true,
		Colormap: figure.ColormapPaired,
	})

	if countNonWhite(c.Image()) == 0 {
		t.Error("carpet panel not drawn")
	}
}
