package output

import (
	"io"
	"strings"

	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// RenderMeasures lists every container and its measures. When values is not
// nil, each measure evaluated successfully is followed by its result.
func RenderMeasures(w io.Writer, catalog model.MeasureCatalog, values map[string]string, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	for _, container := range catalog.Containers() {
		p.Printf("%s\n", p.paint(colorBold, cellText(container)))
		measures := catalog[container]
		if len(measures) == 0 {
			p.Printf("  %s\n", p.paint(colorDim, "(no measures)"))
			continue
		}
		for _, m := range measures {
			expr := strings.ReplaceAll(SanitizeTerminal(strings.TrimSpace(m.Expression)), "\n", "\n      ")
			p.Printf("  %s = %s", p.paint(colorCyan, cellText(m.Name)), ansiString(expr))
			if v, ok := values[MeasureKey(m)]; ok {
				p.Printf("  %s %s", p.paint(colorDim, "->"), v)
			}
			p.Println()
		}
	}

	p.Println()
	p.Printf("%s in %s\n", plural(catalog.Count(), "measure"), plural(len(catalog), "container"))
}

// MeasureKey identifies a measure across containers.
func MeasureKey(m model.MeasureDefinition) string {
	return m.Container + "." + m.Name
}
