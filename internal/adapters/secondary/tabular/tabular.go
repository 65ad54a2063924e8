// Package tabular reads the plain-text numeric tables used for throughputs,
// atmospheres and weather histories.
package tabular

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Table holds numeric rows with optional column names.
type Table struct {
	Header []string
	Rows   [][]float64
}

// Column returns column i of every row.
func (t *Table) Column(i int) ([]float64, error) {
	out := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		if i < 0 || i >= len(row) {
			return nil, fmt.Errorf("row %d has %d columns, want column %d", r, len(row), i)
		}
		out[r] = row[i]
	}
	return out, nil
}

// Named returns the column with the given header name.
func (t *Table) Named(name string) ([]float64, error) {
	for i, h := range t.Header {
		if h == name {
			return t.Column(i)
		}
	}
	return nil, fmt.Errorf("column %q not in header %v", name, t.Header)
}

// ReadFile reads a table from path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses whitespace- or comma-separated numbers. Lines starting with '#'
// are comments, except that a '#' line directly before the first data row is
// taken as the header. A first line that does not parse as numbers is also a
// header.
func Read(r io.Reader) (*Table, error) {
	t := &Table{}
	var lastComment string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			lastComment = strings.TrimSpace(strings.TrimLeft(line, "#"))
			continue
		}

		fields := split(line)
		row, err := parseRow(fields)
		if err != nil {
			if len(t.Rows) == 0 && t.Header == nil {
				t.Header = fields
				continue
			}
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(t.Rows) == 0 && t.Header == nil && lastComment != "" {
			if h := split(lastComment); len(h) == len(row) {
				t.Header = h
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func split(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

func parseRow(fields []string) ([]float64, error) {
	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}
