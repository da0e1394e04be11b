package output

import (
	"fmt"
	"io"
)

// ansiString is text we produced ourselves; the printer passes it through
// unsanitized.
type ansiString string

var (
	colorReset  = ansiString("\033[0m")
	colorBold   = ansiString("\033[1m")
	colorDim    = ansiString("\033[2m")
	colorRed    = ansiString("\033[31m")
	colorGreen  = ansiString("\033[32m")
	colorYellow = ansiString("\033[33m")
	colorCyan   = ansiString("\033[36m")
)

// Printer writes terminal-safe output to an io.Writer, sanitizing any
// string-like argument (string, []byte, error, fmt.Stringer). Everything
// that came from the engine or the OS goes through it.
type Printer struct {
	w     io.Writer
	color bool
}

func NewPrinter(w io.Writer, colorEnabled bool) Printer {
	return Printer{w: w, color: colorEnabled}
}

func (p Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, sanitizePrintArgs(args)...)
}

func (p Printer) Println(args ...any) {
	fmt.Fprintln(p.w, sanitizePrintArgs(args)...)
}

// paint wraps already-sanitized text in a color when color is on.
func (p Printer) paint(color ansiString, text string) ansiString {
	if !p.color || text == "" {
		return ansiString(text)
	}
	return color + ansiString(text) + colorReset
}

func sanitizePrintArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case ansiString:
			out[i] = string(v)
		case string:
			out[i] = SanitizeTerminal(v)
		case []byte:
			out[i] = SanitizeTerminal(string(v))
		case error:
			out[i] = SanitizeTerminal(v.Error())
		case fmt.Stringer:
			out[i] = SanitizeTerminal(v.String())
		default:
			out[i] = a
		}
	}
	return out
}
