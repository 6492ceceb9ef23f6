package format

import (
	"encoding"
	"fmt"
	"io"
)

// Encoder writes one analysis report to its output.
type Encoder interface {
	encoding.TextMarshaler
	Encode(report *Report) error
}

// NewEncoder returns the encoder for a format name: "json", "yaml" or
// "cbor".
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "cbor":
		return NewCBOREncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
}
