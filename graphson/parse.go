package graphson

import (
	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
)

// Parse builds the generic value tree from a raw wire document. Objects and
// arrays are walked recursively and each visited object is checked for the
// two-field {"@type", "@value"} wrapper, so a tag may be captured at any
// depth.
func Parse(data []byte) (*GValue, error) {
	value, dt, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, err
	}

	return parseValue(dt, value)
}

func parseValue(dataType jsonparser.ValueType, data []byte) (*GValue, error) {
	switch dataType {
	case jsonparser.Null:
		return NewNull(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return nil, err
		}
		return NewBool(b), nil
	case jsonparser.Number:
		return NewNumber(Number(data)), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	case jsonparser.Array:
		return parseArray(data)
	case jsonparser.Object:
		return parseObject(data)
	}

	return nil, errors.Newf("unsupported JSON value %q", data)
}

func parseArray(data []byte) (*GValue, error) {
	var elems []*GValue

	var err error
	_, perr := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, _ error) {
		var v *GValue
		v, err = parseValue(dataType, value)
		if err != nil {
			return
		}

		elems = append(elems, v)
	})
	if err != nil {
		return nil, err
	}
	if perr != nil {
		return nil, perr
	}

	return NewArray(elems...), nil
}

func parseObject(data []byte) (*GValue, error) {
	if tag, inner, innerType, ok := matchTypedObject(data); ok {
		// The payload itself is never a wrapper: a two-key
		// {"@type", "@value"} object inside "@value" is a plain
		// object body. Its children still get wrapper detection.
		var v *GValue
		var err error
		if innerType == jsonparser.Object {
			v, err = parsePlainObject(inner)
		} else {
			v, err = parseValue(innerType, inner)
		}
		if err != nil {
			return nil, err
		}

		return v.WithTag(tag), nil
	}

	return parsePlainObject(data)
}

func parsePlainObject(data []byte) (*GValue, error) {
	ob := NewObject()
	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, offset int) error {
		v, err := parseValue(dataType, value)
		if err != nil {
			return err
		}

		ob.Add(string(key), v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return NewObjectValue(ob), nil
}

// matchTypedObject reports whether data is an object with exactly two keys,
// "@type" holding a string and "@value" holding anything. A genuine domain
// object that happens to have exactly those two keys is indistinguishable
// from the wrapper and is matched as one; this is an accepted limitation of
// the wire format.
func matchTypedObject(data []byte) (tag string, value []byte, valueType jsonparser.ValueType, ok bool) {
	var (
		n        int
		sawTag   bool
		sawValue bool
		other    bool
	)

	err := jsonparser.ObjectEach(data, func(key, v []byte, dataType jsonparser.ValueType, offset int) error {
		n++
		switch string(key) {
		case "@type":
			if dataType != jsonparser.String || sawTag {
				other = true
				return nil
			}
			s, err := jsonparser.ParseString(v)
			if err != nil {
				return err
			}
			tag = s
			sawTag = true
		case "@value":
			if sawValue {
				other = true
				return nil
			}
			value = v
			valueType = dataType
			sawValue = true
		default:
			other = true
		}

		return nil
	})
	if err != nil || other || n != 2 || !sawTag || !sawValue {
		return "", nil, 0, false
	}

	return tag, value, valueType, true
}

// rawSegment rebuilds a standalone JSON document from a value segment
// returned by jsonparser, which strips the surrounding quotes of strings.
func rawSegment(value []byte, dataType jsonparser.ValueType) []byte {
	switch dataType {
	case jsonparser.String:
		out := make([]byte, 0, len(value)+2)
		out = append(out, '"')
		out = append(out, value...)
		return append(out, '"')
	case jsonparser.Null:
		return []byte("null")
	default:
		return value
	}
}
