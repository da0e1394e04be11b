package output

import (
	"encoding/json"
	"io"
)

// RenderJSON writes v as indented JSON. Values from the engine are left to
// the encoder, which escapes control characters on its own.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
