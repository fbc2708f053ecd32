package models

import "strings"

// Frame is a tabular dataset as returned by the provider.
// The schema is owned by the provider: columns are whatever the release
// file carries, values are kept as raw strings.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the frame carries no data at all (zero rows and
// zero columns). A frame with columns but no rows is not considered empty.
func (f *Frame) Empty() bool {
	return f == nil || (len(f.Columns) == 0 && len(f.Rows) == 0)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
// Column names are matched case-insensitively.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the frame carries the named column.
func (f *Frame) HasColumn(name string) bool {
	return f.ColumnIndex(name) >= 0
}

// FilterEq returns a new frame containing only the rows whose value in the
// named column equals want. If the column is absent the frame is returned
// unchanged.
func (f *Frame) FilterEq(column, want string) *Frame {
	idx := f.ColumnIndex(column)
	if idx < 0 {
		return f
	}

	out := &Frame{Columns: f.Columns}
	for _, row := range f.Rows {
		if idx < len(row) && row[idx] == want {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
