package model

// Cell is one (column, value) pair of a normalized row.
//
// Value is the plain string form of the driver value. Raw keeps the value as
// the driver returned it, for callers that need the type.
type Cell struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Raw   any    `json:"-"`
}

// Row is an ordered sequence of cells, in source column order.
type Row []Cell

// Get returns the value of the first cell named name.
func (r Row) Get(name string) (string, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// QueryResult is a tabular result with every value coerced to a string.
// Every row carries the same column names, in the same order, as Columns.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (r QueryResult) Len() int {
	return len(r.Rows)
}

// Column returns the values of the named column in row order. The second
// return value is false when the result has no such column.
func (r QueryResult) Column(name string) ([]string, bool) {
	idx := -1
	for i, c := range r.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	values := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		values = append(values, row[idx].Value)
	}
	return values, true
}
