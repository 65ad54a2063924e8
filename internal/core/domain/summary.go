package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// IndexColumn identifies a visit in an OpSim Summary table.
const IndexColumn = "obsHistID"

// SummaryTable is an OpSim Summary table held column-generically, so rows can
// be copied into another database with the same schema.
type SummaryTable struct {
	Columns []string
	Rows    [][]interface{}
}

// ColumnIndex returns the position of a column or -1.
func (t *SummaryTable) ColumnIndex(name string) int {
	return indexOf(t.Columns, name)
}

// ResultField names a recalculated quantity of a PointingResult.
type ResultField string

const (
	ResultFieldM5             ResultField = "fieldM5"
	ResultSkyMag              ResultField = "skyMag"
	ResultAirmass             ResultField = "airmass"
	ResultFilter              ResultField = "filter"
	ResultFiveSigmaDepthInput ResultField = "fiveSigmaDepth"
)

// Value extracts the field from a result. NaN becomes nil so it is stored as
// NULL.
func (f ResultField) Value(r PointingResult) (interface{}, error) {
	switch f {
	case ResultFieldM5:
		return nullableFloat(r.FieldM5), nil
	case ResultSkyMag:
		return nullableFloat(r.SkyMag), nil
	case ResultAirmass:
		return nullableFloat(r.Airmass), nil
	case ResultFilter:
		return r.Filter, nil
	case ResultFiveSigmaDepthInput:
		return nullableFloat(r.FiveSigmaDepth), nil
	default:
		return nil, fmt.Errorf("unknown result field %q", string(f))
	}
}

func nullableFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// ColumnMapping assigns summary columns to result fields.
type ColumnMapping map[string]ResultField

// DefaultColumnMapping writes the recalculated depth and sky brightness into
// the columns OpSim uses for them.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		"fiveSigmaDepth":    ResultFieldM5,
		"filtSkyBrightness": ResultSkyMag,
	}
}

// JoinStats summarises a join.
type JoinStats struct {
	Rows      int `json:"rows"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}

// JoinResults left-joins results onto the summary on obsHistID. Every summary
// row is kept. Mapped columns take the result's value, or nil where the row
// has no result; mapped columns missing from the summary are appended. The
// input table is not modified.
func JoinResults(summary *SummaryTable, results []PointingResult, mapping ColumnMapping) (*SummaryTable, JoinStats, error) {
	idx := summary.ColumnIndex(IndexColumn)
	if idx < 0 {
		return nil, JoinStats{}, ErrIndexColNotFound
	}

	byID := make(map[int64]PointingResult, len(results))
	for _, r := range results {
		byID[r.ObsHistID] = r
	}

	columns := make([]string, len(summary.Columns))
	copy(columns, summary.Columns)

	type target struct {
		pos   int
		field ResultField
	}
	targets := make([]target, 0, len(mapping))
	for _, col := range sortedKeys(mapping) {
		pos := indexOf(columns, col)
		if pos < 0 {
			columns = append(columns, col)
			pos = len(columns) - 1
		}
		targets = append(targets, target{pos: pos, field: mapping[col]})
	}

	out := &SummaryTable{Columns: columns, Rows: make([][]interface{}, 0, len(summary.Rows))}
	stats := JoinStats{Rows: len(summary.Rows)}

	for _, row := range summary.Rows {
		newRow := make([]interface{}, len(columns))
		copy(newRow, row)

		id, err := AsInt64(row[idx])
		if err != nil {
			return nil, JoinStats{}, fmt.Errorf("row obsHistID: %w", err)
		}
		res, ok := byID[id]
		if ok {
			stats.Matched++
		} else {
			stats.Unmatched++
		}
		for _, tgt := range targets {
			if !ok {
				newRow[tgt.pos] = nil
				continue
			}
			v, err := tgt.field.Value(res)
			if err != nil {
				return nil, JoinStats{}, err
			}
			newRow[tgt.pos] = v
		}
		out.Rows = append(out.Rows, newRow)
	}

	return out, stats, nil
}

// AsInt64 converts the integer representations a SQL driver may return.
func AsInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported integer value %v (%T)", v, v)
	}
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

func sortedKeys(m ColumnMapping) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
