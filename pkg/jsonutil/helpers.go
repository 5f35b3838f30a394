// Package jsonutil provides the JSON output used by paddock's --format json
// flags.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"io"
)

// Encode writes v to w as indented JSON followed by a newline.
// HTML escaping is off so track names like "Spa & Co" stay readable.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
