// Package tabular reads the delimited text inputs consumed by figure
// composition: confound tables with a header row of column names, and plain
// numeric arrays such as spike traces or imaging matrices.
//
// Tables keep their columns in file order; that order is what determines
// panel order in the composed figure, so it is never reshuffled here.
package tabular

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrEmptyTable is returned when a table source contains no header row.
var ErrEmptyTable = errors.New("empty table")

// Table is an ordered collection of named numeric columns.
// Column order matches the source file; names are unique.
type Table struct {
	names []string
	cols  map[string][]float64
}

// NewTable builds a table from parallel name and column slices.
// All columns must have the same length and names must be unique.
func NewTable(names []string, cols [][]float64) (*Table, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("have %d names but %d columns", len(names), len(cols))
	}
	t := &Table{cols: make(map[string][]float64, len(names))}
	for i, name := range names {
		if _, dup := t.cols[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		if i > 0 && len(cols[i]) != len(cols[0]) {
			return nil, fmt.Errorf("column %q has %d values, want %d", name, len(cols[i]), len(cols[0]))
		}
		t.names = append(t.names, name)
		t.cols[name] = cols[i]
	}
	return t, nil
}

// Names returns the column names in file order.
func (t *Table) Names() []string { return t.names }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.names) }

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if len(t.names) == 0 {
		return 0
	}
	return len(t.cols[t.names[0]])
}

// Column returns the values of the named column and whether it exists.
// The returned slice is the table's backing storage; callers must not mutate it.
func (t *Table) Column(name string) ([]float64, bool) {
	c, ok := t.cols[name]
	return c, ok
}

// ReadTable parses a whitespace/tab-delimited table from r.
// The first non-blank line is the header row of column names. Cells spelled
// "n/a", "na" or "nan" (any case) parse as NaN, matching the convention of
// fMRIPrep confound files.
//
// If usecols is non-empty, only the listed columns are kept. Kept columns
// stay in file order, not usecols order. Naming a column absent from the
// header is an error.
func ReadTable(r io.Reader, usecols []string) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var header []string
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			header = fields
			break
		}
	}
	if header == nil {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, ErrEmptyTable
	}

	keep, err := columnSelection(header, usecols)
	if err != nil {
		return nil, err
	}

	cols := make([][]float64, len(header))
	line := 1
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(header) {
			return nil, fmt.Errorf("line %d: have %d cells, want %d", line, len(fields), len(header))
		}
		for i, cell := range fields {
			if !keep[i] {
				continue
			}
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, header[i], err)
			}
			cols[i] = append(cols[i], v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	var names []string
	var kept [][]float64
	for i, name := range header {
		if keep[i] {
			names = append(names, name)
			kept = append(kept, cols[i])
		}
	}
	return NewTable(names, kept)
}

// LoadTable reads a delimited table from the file at path.
// See [ReadTable] for the accepted format and the usecols semantics.
func LoadTable(path string, usecols []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f, usecols)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// columnSelection maps header positions to a keep/drop flag.
// An empty usecols keeps everything.
func columnSelection(header []string, usecols []string) ([]bool, error) {
	keep := make([]bool, len(header))
	if len(usecols) == 0 {
		for i := range keep {
			keep[i] = true
		}
		return keep, nil
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range usecols {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("column %q not in header", name)
		}
		keep[i] = true
	}
	return keep, nil
}

func parseCell(cell string) (float64, error) {
	switch strings.ToLower(cell) {
	case "n/a", "na", "nan":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", cell, err)
	}
	return v, nil
}
