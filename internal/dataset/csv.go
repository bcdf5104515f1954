package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// LoadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := records[0]
	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadFilenameTable reads an "index,image_id" CSV into a slice addressed by
// dataset index. Every index from 0 to the largest one must be present.
func LoadFilenameTable(path string) ([]string, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(rows))
	seen := make([]bool, len(rows))
	for i, row := range rows {
		rawIdx, ok := row["index"]
		if !ok {
			return nil, fmt.Errorf("csv: %s has no index column", path)
		}
		id, ok := row["image_id"]
		if !ok {
			return nil, fmt.Errorf("csv: %s has no image_id column", path)
		}
		idx, err := strconv.Atoi(rawIdx)
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: bad index %q: %w", i+2, rawIdx, err)
		}
		if idx < 0 || idx >= len(rows) {
			return nil, fmt.Errorf("csv: row %d: index %d out of range [0, %d)", i+2, idx, len(rows))
		}
		if seen[idx] {
			return nil, fmt.Errorf("csv: row %d: duplicate index %d", i+2, idx)
		}
		seen[idx] = true
		names[idx] = id
	}

	return names, nil
}
