package ledger

import (
	"errors"
	"fmt"
)

// namedColumn matches a canonical column name to its index in a CSV file
type namedColumn struct {
	index int
	key   string
}

// columnMap matches the name and index of status log columns, tolerating
// reordered or extended headers in older snapshot files
type columnMap struct {
	entries []namedColumn
}

// newColumnMap extracts the indices of the named columns from a header row
func newColumnMap(namedColumns []string, headerRow []string) (columnMap, error) {
	inverse := make(map[string]int, len(headerRow))
	for idx, name := range headerRow {
		inverse[name] = idx
	}

	entries := make([]namedColumn, len(namedColumns))
	for idx, name := range namedColumns {
		columnIndex, ok := inverse[name]
		if !ok {
			return columnMap{}, fmt.Errorf("snapshot header is missing column %q", name)
		}
		entries[idx] = namedColumn{index: columnIndex, key: name}
	}
	return columnMap{entries: entries}, nil
}

// values populates a map of column name to cell value for one record
func (m columnMap) values(record []string) (map[string]string, error) {
	out := make(map[string]string, len(m.entries))
	for _, col := range m.entries {
		if col.index >= len(record) {
			return nil, errors.New("snapshot record shorter than header")
		}
		out[col.key] = record[col.index]
	}
	return out, nil
}
