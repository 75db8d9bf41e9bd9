// Package explorer parses uploaded delimited text into typed columns.
package explorer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotCSV is returned for uploads without a .csv extension.
	ErrNotCSV = errors.New("only .csv files are accepted")
	// ErrNoColumns is returned when the input has no header row.
	ErrNoColumns = errors.New("no columns to parse from file")
)

// ColumnKind is the inferred type of a column.
type ColumnKind string

const (
	KindNumber ColumnKind = "number"
	KindDate   ColumnKind = "date"
	KindText   ColumnKind = "text"
)

// Column is a named, typed column.
type Column struct {
	Name string
	Kind ColumnKind
}

// Frame is a parsed table. Every row has exactly len(Columns) cells.
type Frame struct {
	Columns []Column
	Rows    [][]string
}

var missingValues = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// Parse reads comma-delimited text with a header row.
func Parse(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	f := &Frame{Columns: make([]Column, len(header))}
	for i, name := range headerNames(header) {
		f.Columns[i] = Column{Name: name}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
		f.Rows = append(f.Rows, rec)
	}

	for i := range f.Columns {
		f.Columns[i].Kind = f.inferKind(i)
	}
	return f, nil
}

// headerNames fills blank names and disambiguates duplicates ("a", "a.1", ...).
func headerNames(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, name := range raw {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

// IsMissing reports whether a cell holds no value.
func IsMissing(cell string) bool {
	return missingValues[strings.ToLower(strings.TrimSpace(cell))]
}

func parseNumber(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (f *Frame) inferKind(col int) ColumnKind {
	numeric, dates, present := true, true, 0
	for _, row := range f.Rows {
		cell := row[col]
		if IsMissing(cell) {
			continue
		}
		present++
		if numeric {
			if _, ok := parseNumber(cell); !ok {
				numeric = false
			}
		}
		if dates {
			if _, ok := parseDate(cell); !ok {
				dates = false
			}
		}
		if !numeric && !dates {
			return KindText
		}
	}
	switch {
	case present == 0:
		return KindText
	case numeric:
		return KindNumber
	case dates:
		return KindDate
	default:
		return KindText
	}
}

// RowCount returns the number of data rows.
func (f *Frame) RowCount() int {
	return len(f.Rows)
}

// NumericColumns returns the indexes of number columns, in column order.
func (f *Frame) NumericColumns() []int {
	var idx []int
	for i, c := range f.Columns {
		if c.Kind == KindNumber {
			idx = append(idx, i)
		}
	}
	return idx
}

// Float returns the numeric value of a cell, or false when missing or not a number.
func (f *Frame) Float(row, col int) (float64, bool) {
	if row < 0 || row >= len(f.Rows) || col < 0 || col >= len(f.Columns) {
		return 0, false
	}
	cell := f.Rows[row][col]
	if IsMissing(cell) {
		return 0, false
	}
	return parseNumber(cell)
}

// Series returns x (row index) and y values of a numeric column, skipping missing cells.
func (f *Frame) Series(col int) (xs, ys []float64) {
	for r := range f.Rows {
		if v, ok := f.Float(r, col); ok {
			xs = append(xs, float64(r))
			ys = append(ys, v)
		}
	}
	return xs, ys
}

// CheckExtension returns ErrNotCSV unless name ends in .csv.
func CheckExtension(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return ErrNotCSV
	}
	return nil
}
