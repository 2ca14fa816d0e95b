package tabular

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ReadArray parses a plain whitespace-delimited numeric matrix from r.
// Lines starting with '#' and blank lines are skipped. Every remaining line
// must have the same number of cells. A single data row yields a 1xN matrix.
func ReadArray(r io.Reader) (*mat.Dense, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var data []float64
	rows, cols := 0, 0
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if cols == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("line %d: have %d cells, want %d", line, len(fields), cols)
		}
		for _, cell := range fields {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("no numeric rows")
	}
	return mat.NewDense(rows, cols, data), nil
}

// LoadArray reads a numeric matrix from the file at path.
func LoadArray(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ReadArray(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}
