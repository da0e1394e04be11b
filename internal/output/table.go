package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

const columnGap = "  "

// RenderTable prints a query result as an aligned grid followed by the row
// count.
func RenderTable(w io.Writer, res model.QueryResult, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	header := make([]string, len(res.Columns))
	widths := make([]int, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = cellText(c)
		widths[i] = lipgloss.Width(header[i])
	}

	cells := make([][]string, len(res.Rows))
	for r, row := range res.Rows {
		cells[r] = make([]string, len(row))
		for i, cell := range row {
			v := cellText(cell.Value)
			cells[r][i] = v
			if i < len(widths) && lipgloss.Width(v) > widths[i] {
				widths[i] = lipgloss.Width(v)
			}
		}
	}

	if len(res.Columns) > 0 {
		p.Printf("%s\n", p.paint(colorBold, joinPadded(header, widths)))
		rule := make([]string, len(widths))
		for i, n := range widths {
			rule[i] = strings.Repeat("-", n)
		}
		p.Printf("%s\n", p.paint(colorDim, joinPadded(rule, widths)))
	}
	for _, row := range cells {
		p.Printf("%s\n", ansiString(joinPadded(row, widths)))
	}

	p.Println()
	p.Printf("%s\n", p.paint(colorDim, "("+plural(len(res.Rows), "row")+")"))
}

// joinPadded lays values out in columns. The last column is not padded so
// lines carry no trailing blanks.
func joinPadded(values []string, widths []int) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteString(columnGap)
		}
		b.WriteString(v)
		if i < len(values)-1 && i < len(widths) {
			b.WriteString(strings.Repeat(" ", max(widths[i]-lipgloss.Width(v), 0)))
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
