package output

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeTerminal makes a string safe to print to an interactive terminal.
// Control characters and invalid UTF-8 bytes are replaced by visible
// escapes; tabs and newlines are kept.
//
//	"hi\x1b[31mred" -> `hi\x1b[31mred`
//	"bad:\xff"      -> `bad:\xff`
func SanitizeTerminal(s string) string {
	if isClean(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&b, `\x%02x`, s[i])
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r):
			b.WriteString(escapeRune(r))
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// cellText is SanitizeTerminal for a single table cell: line breaks and tabs
// are escaped too so a value cannot break the grid.
func cellText(s string) string {
	s = SanitizeTerminal(s)
	return strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`).Replace(s)
}

func isClean(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return false
		}
		i += size
	}
	return true
}

// escapeRune renders r as \xHH, \uHHHH or \UHHHHHHHH, whichever is shortest.
func escapeRune(r rune) string {
	switch {
	case r <= 0xFF:
		return fmt.Sprintf(`\x%02x`, r)
	case r <= 0xFFFF:
		return fmt.Sprintf(`\u%04x`, r)
	default:
		return fmt.Sprintf(`\U%08x`, r)
	}
}
