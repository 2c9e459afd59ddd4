package graphson

import (
	"encoding/json"
)

// GraphSON wraps a payload of any type together with an optional type tag.
// An empty TypeTag means the value is untyped: its wire encoding is then
// just the encoding of the payload.
type GraphSON[T any] struct {
	TypeTag string
	Value   T
}

// Wrap returns a GraphSON value carrying the given type tag.
func Wrap[T any](tag string, v T) GraphSON[T] {
	return GraphSON[T]{TypeTag: tag, Value: v}
}

// Bare returns an untyped GraphSON value.
func Bare[T any](v T) GraphSON[T] {
	return GraphSON[T]{Value: v}
}

type typedWire[T any] struct {
	Type  string `json:"@type"`
	Value T      `json:"@value"`
}

// MarshalJSON implements the json.Marshaler interface. A tagged value is
// written as the two-field {"@type", "@value"} object, an untyped one as
// the payload alone.
func (g GraphSON[T]) MarshalJSON() ([]byte, error) {
	if g.TypeTag == "" {
		return json.Marshal(g.Value)
	}

	return json.Marshal(typedWire[T]{Type: g.TypeTag, Value: g.Value})
}

// UnmarshalJSON implements the json.Unmarshaler interface. Only an object
// with exactly the two keys "@type" and "@value" is read as tagged; any
// other input is decoded as an untyped payload.
func (g *GraphSON[T]) UnmarshalJSON(data []byte) error {
	if tag, inner, innerType, ok := matchTypedObject(data); ok {
		g.TypeTag = tag
		return json.Unmarshal(rawSegment(inner, innerType), &g.Value)
	}

	g.TypeTag = ""
	return json.Unmarshal(data, &g.Value)
}

// UnmarshalTyped decodes data like GraphSON.UnmarshalJSON but additionally
// verifies that the value is tagged and that its tag equals expected. It
// fails with ErrNotTagged on an untyped value and with a TagMismatchError
// on a wrong tag.
func UnmarshalTyped[T any](data []byte, expected string) (GraphSON[T], error) {
	var g GraphSON[T]

	tag, inner, innerType, ok := matchTypedObject(data)
	if !ok {
		return g, ErrNotTagged
	}
	if tag != expected {
		return g, &TagMismatchError{Expected: expected, Actual: tag}
	}

	g.TypeTag = tag
	err := json.Unmarshal(rawSegment(inner, innerType), &g.Value)
	if err != nil {
		return GraphSON[T]{}, err
	}

	return g, nil
}
