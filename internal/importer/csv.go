package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// readCSVRows reads every record from a CSV file. Records shorter than
// minCols become RowErrors when they carry any content and are silently
// dropped when fully blank. Malformed records are RowErrors too; only
// opening or reading the file itself is fatal.
func readCSVRows(path string, minCols int) ([][]string, []RowError, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var (
		rows    [][]string
		rowNums []int
		rowErrs []RowError
	)
	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Err: err})
			continue
		}
		if len(record) < minCols {
			if hasContent(record) {
				rowErrs = append(rowErrs, RowError{
					Row: rowNum,
					Err: fmt.Errorf("incomplete row (expected %d columns, got %d)", minCols, len(record)),
				})
			}
			continue
		}
		rows = append(rows, record)
		rowNums = append(rowNums, rowNum)
	}
	return rows, rowErrs, rowNums, nil
}

func hasContent(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// optFloat parses an optional numeric cell; blank means NULL.
func optFloat(cell string) (*float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", cell)
	}
	return &v, nil
}

// optInt parses an optional integer cell; blank means NULL.
func optInt(cell string) (*int64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", cell)
	}
	return &v, nil
}

// optStr trims an optional text cell; blank means NULL.
func optStr(cell string) *string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	return &cell
}
