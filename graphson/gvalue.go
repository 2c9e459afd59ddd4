// Package graphson implements the typed JSON wire format used to exchange
// values with a Gremlin graph server. Any value may carry an explicit type
// tag at any level of nesting, encoded as a two-field {"@type", "@value"}
// object, alongside the untyped encoding used by the legacy protocol.
package graphson

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/cockroachdb/errors"
)

// BodyType represents the structural shape of the body of a GValue.
type BodyType uint8

// List of body shapes.
const (
	NullBody BodyType = iota + 1
	BoolBody
	NumberBody
	StringBody
	ArrayBody
	ObjectBody
)

func (t BodyType) String() string {
	switch t {
	case NullBody:
		return "null"
	case BoolBody:
		return "bool"
	case NumberBody:
		return "number"
	case StringBody:
		return "string"
	case ArrayBody:
		return "array"
	case ObjectBody:
		return "object"
	}

	return ""
}

// A Number holds the raw lexeme of a JSON number so that no precision is
// lost between parsing and interpretation.
type Number string

func (n Number) String() string {
	return string(n)
}

// Int64 interprets the number as a 64-bit integer.
func (n Number) Int64() (int64, error) {
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, &RangeError{Value: n, Target: "int64"}
		}
		return 0, &FormatError{Value: n, Target: "int64"}
	}

	return i, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n), nil
}

// Float64 interprets the number as a 64-bit float.
func (n Number) Float64() (float64, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, &FormatError{Value: n, Target: "float64"}
	}

	return f, nil
}

// BigFloat interprets the number as an arbitrary-precision float.
func (n Number) BigFloat() (*big.Float, error) {
	f, ok := new(big.Float).SetString(string(n))
	if !ok {
		return nil, &FormatError{Value: n, Target: "big.Float"}
	}

	return f, nil
}

// A Field is a single name/value member of an Object.
type Field struct {
	Name  string
	Value *GValue
}

// An Object stores an ordered group of fields. Field order is the order of
// appearance in the wire document; duplicate names are kept as is.
type Object struct {
	fields []Field
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return new(Object)
}

// Add appends a field to the object.
func (o *Object) Add(name string, v *GValue) *Object {
	o.fields = append(o.fields, Field{Name: name, Value: v})
	return o
}

// GetByField returns the value of the first field with the given name.
// It returns a FieldNotFoundError if the field doesn't exist.
func (o *Object) GetByField(name string) (*GValue, error) {
	for _, f := range o.fields {
		if f.Name == name {
			return f.Value, nil
		}
	}

	return nil, &FieldNotFoundError{Field: name}
}

// Iterate goes through all the fields of the object, in order, and calls the
// given function for each of them. If the given function returns an error,
// the iteration stops.
func (o *Object) Iterate(fn func(name string, v *GValue) error) error {
	for _, f := range o.fields {
		err := fn(f.Name, f.Value)
		if err != nil {
			return err
		}
	}

	return nil
}

// Fields returns the ordered field list of the object.
func (o *Object) Fields() []Field {
	return o.fields
}

// Len returns the number of fields in the object.
func (o *Object) Len() int {
	return len(o.fields)
}

// A GValue is a node of the generic value tree: a JSON-shaped body stored
// alongside an optional type tag. Every node of a parsed document, not only
// the root, carries its own tag slot.
type GValue struct {
	tag string
	tp  BodyType
	v   any
}

// NewNull returns a null node.
func NewNull() *GValue {
	return &GValue{tp: NullBody}
}

// NewBool returns a bool node.
func NewBool(b bool) *GValue {
	return &GValue{tp: BoolBody, v: b}
}

// NewNumber returns a number node holding the given lexeme.
func NewNumber(n Number) *GValue {
	return &GValue{tp: NumberBody, v: n}
}

// NewInt returns a number node from an integer.
func NewInt(i int64) *GValue {
	return NewNumber(Number(strconv.FormatInt(i, 10)))
}

// NewString returns a string node.
func NewString(s string) *GValue {
	return &GValue{tp: StringBody, v: s}
}

// NewArray returns an array node from the given elements.
func NewArray(elems ...*GValue) *GValue {
	if elems == nil {
		elems = []*GValue{}
	}

	return &GValue{tp: ArrayBody, v: elems}
}

// NewObjectValue returns an object node.
func NewObjectValue(o *Object) *GValue {
	return &GValue{tp: ObjectBody, v: o}
}

// WithTag returns a copy of v carrying the given type tag.
func (v *GValue) WithTag(tag string) *GValue {
	return &GValue{tag: tag, tp: v.tp, v: v.v}
}

// Type returns the structural shape of the body of v.
func (v *GValue) Type() BodyType {
	return v.tp
}

// Tag returns the type tag of v, if any.
func (v *GValue) Tag() (string, bool) {
	return v.tag, v.tag != ""
}

// Bool returns the body of v as a bool.
func (v *GValue) Bool() (bool, error) {
	if v.tp != BoolBody {
		return false, &ShapeMismatchError{Expected: "bool", Actual: v.tp}
	}

	return v.v.(bool), nil
}

// Number returns the body of v as a Number.
func (v *GValue) Number() (Number, error) {
	if v.tp != NumberBody {
		return "", &ShapeMismatchError{Expected: "number", Actual: v.tp}
	}

	return v.v.(Number), nil
}

// Text returns the body of v as a string.
func (v *GValue) Text() (string, error) {
	if v.tp != StringBody {
		return "", &ShapeMismatchError{Expected: "string", Actual: v.tp}
	}

	return v.v.(string), nil
}

// Array returns the body of v as an element list.
func (v *GValue) Array() ([]*GValue, error) {
	if v.tp != ArrayBody {
		return nil, &ShapeMismatchError{Expected: "array", Actual: v.tp}
	}

	return v.v.([]*GValue), nil
}

// Object returns the body of v as an Object.
func (v *GValue) Object() (*Object, error) {
	if v.tp != ObjectBody {
		return nil, &ShapeMismatchError{Expected: "object", Actual: v.tp}
	}

	return v.v.(*Object), nil
}

// Unwrap strips the type tag of every node at every depth and returns the
// plain value: nil, bool, Number, string, []any or map[string]any.
// It is idempotent on trees that carry no tags.
func (v *GValue) Unwrap() any {
	switch v.tp {
	case ArrayBody:
		elems := v.v.([]*GValue)
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = e.Unwrap()
		}
		return out
	case ObjectBody:
		o := v.v.(*Object)
		out := make(map[string]any, o.Len())
		for _, f := range o.fields {
			out[f.Name] = f.Value.Unwrap()
		}
		return out
	default:
		return v.v
	}
}

// UnwrapOne strips only the top-level tag of v. Children are returned as
// GValue nodes with their own tags intact: the result is nil, bool, Number,
// string, []*GValue or *Object.
func (v *GValue) UnwrapOne() any {
	return v.v
}

// stripTags returns a copy of the tree with every tag removed.
func (v *GValue) stripTags() *GValue {
	switch v.tp {
	case ArrayBody:
		elems := v.v.([]*GValue)
		out := make([]*GValue, len(elems))
		for i, e := range elems {
			out[i] = e.stripTags()
		}
		return &GValue{tp: ArrayBody, v: out}
	case ObjectBody:
		o := v.v.(*Object)
		out := NewObject()
		for _, f := range o.fields {
			out.Add(f.Name, f.Value.stripTags())
		}
		return &GValue{tp: ObjectBody, v: out}
	default:
		return &GValue{tp: v.tp, v: v.v}
	}
}

// MarshalJSON implements the json.Marshaler interface. Every node that
// carries a tag is written back as a two-field {"@type", "@value"} object.
func (v *GValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	err := v.marshalTo(&buf)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (v *GValue) marshalTo(buf *bytes.Buffer) error {
	if v.tag != "" {
		buf.WriteString(`{"@type":`)
		data, err := json.Marshal(v.tag)
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteString(`,"@value":`)
		err = v.marshalBody(buf)
		if err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	}

	return v.marshalBody(buf)
}

func (v *GValue) marshalBody(buf *bytes.Buffer) error {
	switch v.tp {
	case NullBody:
		buf.WriteString("null")
	case BoolBody:
		if v.v.(bool) {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case NumberBody:
		buf.WriteString(string(v.v.(Number)))
	case StringBody:
		data, err := json.Marshal(v.v.(string))
		if err != nil {
			return err
		}
		buf.Write(data)
	case ArrayBody:
		buf.WriteByte('[')
		for i, e := range v.v.([]*GValue) {
			if i > 0 {
				buf.WriteByte(',')
			}
			err := e.marshalTo(buf)
			if err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ObjectBody:
		buf.WriteByte('{')
		var notFirst bool
		err := v.v.(*Object).Iterate(func(name string, fv *GValue) error {
			if notFirst {
				buf.WriteByte(',')
			}
			notFirst = true

			data, err := json.Marshal(name)
			if err != nil {
				return err
			}
			buf.Write(data)
			buf.WriteByte(':')
			return fv.marshalTo(buf)
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	}

	return nil
}
