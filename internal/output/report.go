package output

import (
	"io"

	"github.com/pranshuparmar/daxprobe/internal/check"
)

// RenderReport prints one line per check result and a summary.
func RenderReport(w io.Writer, suite string, results []check.Result, colorEnabled bool) {
	p := NewPrinter(w, colorEnabled)

	if suite != "" {
		p.Printf("%s\n\n", p.paint(colorBold, cellText(suite)))
	}

	passed, failed, errored := 0, 0, 0
	for _, r := range results {
		var status ansiString
		switch {
		case r.Err != nil:
			status = p.paint(colorYellow, "ERROR")
			errored++
		case r.Passed:
			status = p.paint(colorGreen, "PASS ")
			passed++
		default:
			status = p.paint(colorRed, "FAIL ")
			failed++
		}
		p.Printf("%s %s", status, cellText(r.Name))
		if r.Message != "" {
			p.Printf(": %s", cellText(r.Message))
		}
		p.Println()
	}

	p.Println()
	p.Printf("%d checks: %d passed, %d failed, %d errors\n", len(results), passed, failed, errored)
}
