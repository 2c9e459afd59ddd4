package graphson

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNotTagged is returned by strict decoding when the value carries no
// "@type" tag at all.
var ErrNotTagged = errors.New("value is not typed")

// ShapeMismatchError is returned when the body of a value is not the JSON
// shape a conversion requires.
type ShapeMismatchError struct {
	Expected string
	Actual   BodyType
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

// IsShapeMismatch reports whether err is a ShapeMismatchError.
func IsShapeMismatch(err error) bool {
	var e *ShapeMismatchError
	return errors.As(err, &e)
}

// TagMismatchError is returned by strict decoding when the "@type" tag of a
// value differs from the tag registered for the target type.
type TagMismatchError struct {
	Expected string
	Actual   string
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("expected type tag %q, got %q", e.Expected, e.Actual)
}

// FieldNotFoundError is returned when a required field is absent from an
// object.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found", e.Field)
}

// IsFieldNotFound reports whether err is a FieldNotFoundError.
func IsFieldNotFound(err error) bool {
	var e *FieldNotFoundError
	return errors.As(err, &e)
}

// MalformedIdentifierError is returned when a value cannot be parsed as an
// opaque identifier.
type MalformedIdentifierError struct {
	Text string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed identifier %q", e.Text)
}

// RangeError is returned when a numeric value does not fit in the target
// type.
type RangeError struct {
	Value  Number
	Target string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("number %s out of range for %s", e.Value, e.Target)
}

// FormatError is returned when a numeric lexeme cannot be interpreted as the
// target numeric type.
type FormatError struct {
	Value  Number
	Target string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot interpret %s as %s", e.Value, e.Target)
}

// OddLengthError is returned by the map adapter when a flattened key/value
// array has an odd number of elements.
type OddLengthError struct {
	Length int
}

func (e *OddLengthError) Error() string {
	return fmt.Sprintf("flattened map has odd length %d", e.Length)
}

// AlternativesError is returned when every alternative of a sum conversion
// failed. It carries the error of each alternative, in order.
type AlternativesError struct {
	Errs []error
}

func (e *AlternativesError) Error() string {
	var b strings.Builder
	b.WriteString("every alternative failed:")
	for i, err := range e.Errs {
		fmt.Fprintf(&b, " [%d] %v", i, err)
	}
	return b.String()
}

// Unwrap makes the alternative errors visible to errors.Is and errors.As.
func (e *AlternativesError) Unwrap() []error {
	return e.Errs
}
