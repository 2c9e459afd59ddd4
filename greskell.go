/*
Package greskell implements a codec for the typed JSON wire format spoken by
Gremlin graph servers.

Wire documents are parsed into a generic value tree in which every node may
carry its own "@type" tag; the graphson package converts that tree to and
from concrete Go types across the three generations of the format. The graph
package defines the standard graph element types built on that conversion.

This package only re-exports the common entry points; the real surface lives
in the subpackages.
*/
package greskell

import (
	"github.com/gardspirito/greskell/graphson"
)

// Parse builds a generic value tree from a wire document.
func Parse(data []byte) (*graphson.GValue, error) {
	return graphson.Parse(data)
}

// Marshal encodes v as a wire document of the latest format generation.
func Marshal(v any) ([]byte, error) {
	var enc graphson.Encoder
	return enc.Marshal(v)
}
