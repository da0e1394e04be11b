package connector

import (
	"fmt"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// Table is a filled result buffer: column names plus raw driver values,
// both in source order.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Normalize pairs every value with its column name and coerces it to a
// string. The coercion is deliberately plain: no locale or type-aware
// formatting, so results compare the same way on every machine.
func Normalize(t Table) model.QueryResult {
	res := model.QueryResult{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]model.Row, 0, len(t.Rows)),
	}
	for _, values := range t.Rows {
		row := make(model.Row, len(t.Columns))
		for i, name := range t.Columns {
			var v any
			if i < len(values) {
				v = values[i]
			}
			row[i] = model.Cell{Name: name, Value: stringify(v), Raw: v}
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
