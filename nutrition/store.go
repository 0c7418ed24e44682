package nutrition

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Store holds one generated dataset in memory for the lifetime of the
// process. It is built once by LoadStore and never mutated afterwards, so
// concurrent requests may read it without locking.
type Store struct {
	features       []string
	ids            []int
	matrix         *mat.Dense
	displayColumns []string
	display        []map[string]string
}

// LoadStore reads the persisted dataset table. Columns are split into
// computation and display sets purely by the NormSuffix convention. A missing
// file, a missing identifier column, or an absence of normalized columns is a
// startup-fatal condition.
func LoadStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s (run the etl first): %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}

	idIdx := -1
	var normIdx []int
	var displayIdx []int
	for i, col := range header {
		switch {
		case col == IDColumn:
			idIdx = i
			displayIdx = append(displayIdx, i)
		case strings.HasSuffix(col, NormSuffix):
			normIdx = append(normIdx, i)
		default:
			displayIdx = append(displayIdx, i)
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("dataset %s has no %q column", path, IDColumn)
	}
	if len(normIdx) == 0 {
		return nil, fmt.Errorf("dataset %s has no %q columns; nothing to project", path, NormSuffix)
	}

	s := &Store{
		features:       make([]string, len(normIdx)),
		displayColumns: make([]string, len(displayIdx)),
	}
	for i, idx := range normIdx {
		s.features[i] = strings.TrimSuffix(header[idx], NormSuffix)
	}
	for i, idx := range displayIdx {
		s.displayColumns[i] = header[idx]
	}

	body := rows[1:]
	s.ids = make([]int, len(body))
	s.matrix = mat.NewDense(len(body), len(normIdx), nil)
	s.display = make([]map[string]string, len(body))
	for i, row := range body {
		line := i + 2
		if idIdx >= len(row) {
			return nil, fmt.Errorf("dataset line %d is short", line)
		}
		id, err := strconv.Atoi(cleanCell(row[idIdx]))
		if err != nil {
			return nil, fmt.Errorf("dataset line %d: bad identifier %q", line, row[idIdx])
		}
		s.ids[i] = id
		for j, idx := range normIdx {
			if idx >= len(row) {
				return nil, fmt.Errorf("dataset line %d is short", line)
			}
			v, err := strconv.ParseFloat(cleanCell(row[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("dataset line %d: bad value %q in %s", line, row[idx], header[idx])
			}
			s.matrix.Set(i, j, v)
		}
		rec := make(map[string]string, len(displayIdx))
		for _, idx := range displayIdx {
			if idx < len(row) {
				rec[header[idx]] = row[idx]
			} else {
				rec[header[idx]] = ""
			}
		}
		s.display[i] = rec
	}
	return s, nil
}

// Features returns the retained feature display names, suffix stripped, in
// matrix column order.
func (s *Store) Features() []string {
	out := make([]string, len(s.features))
	copy(out, s.features)
	return out
}

// IDs returns the item identifiers in matrix row order.
func (s *Store) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Count returns the number of items in the dataset.
func (s *Store) Count() int {
	return len(s.ids)
}

// Matrix exposes the standardized feature matrix. The returned value is
// shared and must be treated as read-only.
func (s *Store) Matrix() mat.Matrix {
	return s.matrix
}

// DisplayRecords returns the display table, one record per item in
// identifier order, original units, without the normalized columns. The
// returned slice is shared and must be treated as read-only.
func (s *Store) DisplayRecords() []map[string]string {
	return s.display
}
