package figure

import (
	"github.com/neuroimg/fmriplot/pkg/errors"
)

// Segment maps a tissue or region label to the imaging-matrix rows it
// covers. Row indices refer to the untrimmed matrix.
type Segment struct {
	Label string
	Rows  []int
}

// Segments is an ordered segment labeling of the imaging matrix. Order
// determines the top-to-bottom banding of the carpet panel.
type Segments []Segment

// Validate checks that every referenced row index is within [0, nrows).
func (s Segments) Validate(nrows int) error {
	for _, seg := range s {
		for _, row := range seg.Rows {
			if row < 0 || row >= nrows {
				return errors.New(errors.ErrCodeInvalidSegment,
					"segment %q references row %d of a %d-row matrix", seg.Label, row, nrows)
			}
		}
	}
	return nil
}
