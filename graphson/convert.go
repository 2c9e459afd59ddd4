package graphson

import (
	"math"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-module/carbon/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
)

// A Decoder converts a node of the generic value tree into a value of type
// T. Decoders for composite types are built from the ones of their parts
// with List, SetOf, MapOf, Optional, FirstOf and Typed.
type Decoder[T any] func(*GValue) (T, error)

// Unmarshaler is implemented by domain types that define their own
// conversion from the generic value tree.
type Unmarshaler interface {
	UnmarshalGraphSON(*GValue) error
}

// As converts v into a value of type T using its UnmarshalGraphSON method.
func As[T any, P interface {
	*T
	Unmarshaler
}](v *GValue) (T, error) {
	var t T
	if err := P(&t).UnmarshalGraphSON(v); err != nil {
		var zero T
		return zero, err
	}

	return t, nil
}

// DecoderOf returns the Decoder backed by the UnmarshalGraphSON method of T.
func DecoderOf[T any, P interface {
	*T
	Unmarshaler
}]() Decoder[T] {
	return As[T, P]
}

func signedDecoder[T constraints.Signed](target string, min, max int64) Decoder[T] {
	return func(v *GValue) (T, error) {
		n, err := v.Number()
		if err != nil {
			return 0, err
		}

		i, err := n.Int64()
		if err != nil {
			var rangeErr *RangeError
			if errors.As(err, &rangeErr) {
				return 0, &RangeError{Value: n, Target: target}
			}
			return 0, &FormatError{Value: n, Target: target}
		}
		if i < min || i > max {
			return 0, &RangeError{Value: n, Target: target}
		}

		return T(i), nil
	}
}

// Decoders for the fixed-width integer types. Values that do not fit in the
// target type fail with a RangeError.
var (
	Int8  = signedDecoder[int8]("int8", math.MinInt8, math.MaxInt8)
	Int16 = signedDecoder[int16]("int16", math.MinInt16, math.MaxInt16)
	Int32 = signedDecoder[int32]("int32", math.MinInt32, math.MaxInt32)
	Int64 = signedDecoder[int64]("int64", math.MinInt64, math.MaxInt64)
)

// Float64 converts a number node to a float64.
func Float64(v *GValue) (float64, error) {
	n, err := v.Number()
	if err != nil {
		return 0, err
	}

	return n.Float64()
}

// Float32 converts a number node to a float32. Finite values whose
// magnitude exceeds the float32 range fail with a RangeError.
func Float32(v *GValue) (float32, error) {
	n, err := v.Number()
	if err != nil {
		return 0, err
	}

	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if !math.IsInf(f, 0) && math.IsInf(float64(float32(f)), 0) {
		return 0, &RangeError{Value: n, Target: "float32"}
	}

	return float32(f), nil
}

// BigDec converts a number node to an arbitrary-precision float.
func BigDec(v *GValue) (*big.Float, error) {
	n, err := v.Number()
	if err != nil {
		return nil, err
	}

	return n.BigFloat()
}

// Text converts a string node to a string.
func Text(v *GValue) (string, error) {
	return v.Text()
}

// Bool converts a bool node to a bool.
func Bool(v *GValue) (bool, error) {
	return v.Bool()
}

// UUID converts a string node holding the textual form of a 128-bit
// identifier. Non-UUID-shaped strings fail with a MalformedIdentifierError.
func UUID(v *GValue) (uuid.UUID, error) {
	s, err := v.Text()
	if err != nil {
		return uuid.UUID{}, err
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, &MalformedIdentifierError{Text: s}
	}

	return id, nil
}

// Date converts a number node holding epoch milliseconds to a time.Time.
func Date(v *GValue) (time.Time, error) {
	n, err := v.Number()
	if err != nil {
		return time.Time{}, err
	}

	ms, err := n.Int64()
	if err != nil {
		return time.Time{}, err
	}

	return carbon.CreateFromTimestampMilli(ms).ToStdTime(), nil
}

// Timestamp converts a number node holding epoch milliseconds to a
// time.Time. g:Date and g:Timestamp carry the same payload on the wire; the
// two decoders only differ in which tag a strict Typed decode accepts.
var Timestamp Decoder[time.Time] = Date

// Ignore succeeds on any node and discards its content. It is used to
// intentionally skip a value.
func Ignore(v *GValue) (struct{}, error) {
	return struct{}{}, nil
}

// Plain returns the fully untagged structural value of the node with no
// further interpretation.
func Plain(v *GValue) (any, error) {
	return v.Unwrap(), nil
}

// List converts an array node by applying d to every element.
func List[T any](d Decoder[T]) Decoder[[]T] {
	return func(v *GValue) ([]T, error) {
		elems, err := v.Array()
		if err != nil {
			return nil, err
		}

		out := make([]T, 0, len(elems))
		for i, e := range elems {
			t, err := d(e)
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			out = append(out, t)
		}

		return out, nil
	}
}

// SetOf converts an array node into a set. Elements equal under Go equality
// collapse into one.
func SetOf[T comparable](d Decoder[T]) Decoder[map[T]struct{}] {
	return func(v *GValue) (map[T]struct{}, error) {
		elems, err := List(d)(v)
		if err != nil {
			return nil, err
		}

		out := make(map[T]struct{}, len(elems))
		for _, e := range elems {
			out[e] = struct{}{}
		}

		return out, nil
	}
}

// A MapEntry is one converted key/value pair of a map-shaped node.
type MapEntry[K, V any] struct {
	Key   K
	Value V
}

// EntriesOf converts a map-shaped node into its ordered entry sequence,
// whatever its physical encoding. Duplicate keys are preserved.
func EntriesOf[K, V any](kd Decoder[K], vd Decoder[V]) Decoder[[]MapEntry[K, V]] {
	return func(v *GValue) ([]MapEntry[K, V], error) {
		entries, err := Entries(v)
		if err != nil {
			return nil, err
		}

		out := make([]MapEntry[K, V], 0, len(entries))
		for i, e := range entries {
			k, err := decodeKey(kd, e.Key)
			if err != nil {
				return nil, errors.Wrapf(err, "key of entry %d", i)
			}
			val, err := vd(e.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "value of entry %d", i)
			}
			out = append(out, MapEntry[K, V]{Key: k, Value: val})
		}

		return out, nil
	}
}

// MapOf converts a map-shaped node into a Go map, whatever its physical
// encoding. On duplicate keys the last entry wins.
func MapOf[K comparable, V any](kd Decoder[K], vd Decoder[V]) Decoder[map[K]V] {
	entriesOf := EntriesOf(kd, vd)

	return func(v *GValue) (map[K]V, error) {
		entries, err := entriesOf(v)
		if err != nil {
			return nil, err
		}

		out := make(map[K]V, len(entries))
		for _, e := range entries {
			out[e.Key] = e.Value
		}

		return out, nil
	}
}

// decodeKey applies kd to a key node. Object-shaped maps carry non-string
// keys in stringified form, so a failed decode of a string key is retried
// on the parsed key text.
func decodeKey[K any](kd Decoder[K], key *GValue) (K, error) {
	k, err := kd(key)
	if err == nil {
		return k, nil
	}

	if key.tp == StringBody {
		inner, perr := Parse([]byte(key.v.(string)))
		if perr == nil {
			if k, kerr := kd(inner); kerr == nil {
				return k, nil
			}
		}
	}

	var zero K
	return zero, err
}

// Optional converts a null node to nil and delegates anything else to d.
func Optional[T any](d Decoder[T]) Decoder[*T] {
	return func(v *GValue) (*T, error) {
		if v.tp == NullBody {
			return nil, nil
		}

		t, err := d(v)
		if err != nil {
			return nil, err
		}

		return &t, nil
	}
}

// A OneOf holds the result of a sum conversion: exactly one of First and
// Second is set.
type OneOf[A, B any] struct {
	First  *A
	Second *B
}

// IsFirst reports whether the first alternative succeeded.
func (o OneOf[A, B]) IsFirst() bool {
	return o.First != nil
}

// FirstOf attempts da and, if it fails, db. When both fail the conversion
// fails with an AlternativesError carrying both errors.
func FirstOf[A, B any](da Decoder[A], db Decoder[B]) Decoder[OneOf[A, B]] {
	return func(v *GValue) (OneOf[A, B], error) {
		a, errA := da(v)
		if errA == nil {
			return OneOf[A, B]{First: &a}, nil
		}

		b, errB := db(v)
		if errB == nil {
			return OneOf[A, B]{Second: &b}, nil
		}

		return OneOf[A, B]{}, &AlternativesError{Errs: []error{errA, errB}}
	}
}

// Typed verifies that the node carries the given type tag before delegating
// to d. It fails with ErrNotTagged on an untyped node and with a
// TagMismatchError on a wrong tag.
func Typed[T any](tag string, d Decoder[T]) Decoder[T] {
	return func(v *GValue) (T, error) {
		var zero T

		actual, ok := v.Tag()
		if !ok {
			return zero, ErrNotTagged
		}
		if actual != tag {
			return zero, &TagMismatchError{Expected: tag, Actual: actual}
		}

		return d(v)
	}
}

// TypedFor is Typed with the tag looked up in the type-tag registry for T.
func TypedFor[T any](d Decoder[T]) Decoder[T] {
	tag, ok := TagFor[T]()
	if !ok {
		return func(v *GValue) (T, error) {
			var zero T
			return zero, errors.Newf("no type tag registered for %T", zero)
		}
	}

	return Typed(tag, d)
}

// FieldOf looks up a field of an object and converts it with d. A missing
// field fails with a FieldNotFoundError.
func FieldOf[T any](o *Object, name string, d Decoder[T]) (T, error) {
	var zero T

	v, err := o.GetByField(name)
	if err != nil {
		return zero, err
	}

	t, err := d(v)
	if err != nil {
		return zero, errors.Wrapf(err, "field %q", name)
	}

	return t, nil
}

// OptionalFieldOf is FieldOf for fields that may be absent or null.
func OptionalFieldOf[T any](o *Object, name string, d Decoder[T]) (*T, error) {
	v, err := o.GetByField(name)
	if err != nil {
		if IsFieldNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	t, err := Optional(d)(v)
	if err != nil {
		return nil, errors.Wrapf(err, "field %q", name)
	}

	return t, nil
}
