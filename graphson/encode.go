package graphson

import (
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-module/carbon/v2"
	"github.com/google/uuid"
)

// Version selects the wire-format generation produced by an Encoder. The
// caller picks one explicitly; there is no auto-detection.
type Version int

const (
	// Version1 is the legacy untyped encoding: no type tags, maps as
	// plain objects.
	Version1 Version = iota + 1
	// Version2 tags scalar values; collections stay plain, maps are
	// objects with stringified keys.
	Version2
	// Version3 tags scalars and collections; maps are flattened
	// alternating key/value arrays.
	Version3
)

// Marshaler is implemented by domain types that define their own conversion
// to the generic value tree.
type Marshaler interface {
	MarshalGraphSON() (*GValue, error)
}

// An Encoder converts Go values into wire documents of one format
// generation.
type Encoder struct {
	// Version of the wire format to produce. Defaults to Version3.
	Version Version
}

func (e *Encoder) version() Version {
	if e.Version == 0 {
		return Version3
	}

	return e.Version
}

// Marshal converts v into a wire document.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	gv, err := e.ToGValue(v)
	if err != nil {
		return nil, err
	}

	return gv.MarshalJSON()
}

// ToGValue converts v into a generic value tree, attaching type tags as the
// selected format generation requires.
func (e *Encoder) ToGValue(v any) (*GValue, error) {
	gv, err := e.toGValue(v)
	if err != nil {
		return nil, err
	}

	if e.version() == Version1 {
		return gv.stripTags(), nil
	}

	return gv, nil
}

func (e *Encoder) toGValue(x any) (*GValue, error) {
	switch t := x.(type) {
	case nil:
		return NewNull(), nil
	case *GValue:
		return t, nil
	case Marshaler:
		return t.MarshalGraphSON()
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case Number:
		return NewNumber(t), nil
	case int8:
		return NewInt(int64(t)).WithTag(TypeByte), nil
	case int16:
		return NewInt(int64(t)).WithTag(TypeInt16), nil
	case int32:
		return NewInt(int64(t)).WithTag(TypeInt32), nil
	case int:
		return NewInt(int64(t)).WithTag(TypeInt64), nil
	case int64:
		return NewInt(t).WithTag(TypeInt64), nil
	case uint8:
		return NewInt(int64(t)).WithTag(TypeInt16), nil
	case uint16:
		return NewInt(int64(t)).WithTag(TypeInt32), nil
	case uint32:
		return NewInt(int64(t)).WithTag(TypeInt64), nil
	case uint:
		return e.toGValue(uint64(t))
	case uint64:
		if t > math.MaxInt64 {
			n := Number(strconv.FormatUint(t, 10))
			return nil, &RangeError{Value: n, Target: "int64"}
		}
		return NewInt(int64(t)).WithTag(TypeInt64), nil
	case float32:
		n := Number(strconv.FormatFloat(float64(t), 'g', -1, 32))
		return NewNumber(n).WithTag(TypeFloat), nil
	case float64:
		n := Number(strconv.FormatFloat(t, 'g', -1, 64))
		return NewNumber(n).WithTag(TypeDouble), nil
	case *big.Float:
		return NewNumber(Number(t.Text('g', -1))).WithTag(TypeBigDecimal), nil
	case time.Time:
		ms := carbon.CreateFromStdTime(t).TimestampMilli()
		return NewInt(ms).WithTag(TypeDate), nil
	case uuid.UUID:
		return NewString(t.String()).WithTag(TypeUUID), nil
	case *Object:
		return NewObjectValue(t), nil
	case []Entry:
		return e.encodeEntries(t, false)
	}

	return e.encodeReflect(reflect.ValueOf(x))
}

func (e *Encoder) encodeReflect(rv reflect.Value) (*GValue, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NewNull(), nil
		}
		return e.toGValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		elems := make([]*GValue, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := e.toGValue(rv.Index(i).Interface())
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			elems[i] = v
		}
		arr := NewArray(elems...)
		if e.version() == Version3 {
			arr = arr.WithTag(TypeList)
		}
		return arr, nil
	case reflect.Map:
		entries := make([]Entry, 0, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			k, err := e.toGValue(it.Key().Interface())
			if err != nil {
				return nil, errors.Wrap(err, "map key")
			}
			v, err := e.toGValue(it.Value().Interface())
			if err != nil {
				return nil, errors.Wrap(err, "map value")
			}
			entries = append(entries, Entry{Key: k, Value: v})
		}
		return e.encodeEntries(entries, true)
	}

	return nil, errors.Newf("cannot encode %s value", rv.Kind())
}

// encodeEntries writes a logical key/value sequence in the map shape of the
// selected generation. Go maps have no iteration order, so their entries are
// sorted by key text first; explicit entry sequences keep their order.
func (e *Encoder) encodeEntries(entries []Entry, sortKeys bool) (*GValue, error) {
	keys := make([]string, len(entries))
	for i, en := range entries {
		k, err := fieldName(en.Key)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	if sortKeys {
		sort.Sort(&entrySorter{keys: keys, entries: entries})
	}

	if e.version() == Version3 {
		elems := make([]*GValue, 0, len(entries)*2)
		for _, en := range entries {
			elems = append(elems, en.Key, en.Value)
		}
		return NewArray(elems...).WithTag(TypeMap), nil
	}

	ob := NewObject()
	for i, en := range entries {
		ob.Add(keys[i], en.Value)
	}

	return NewObjectValue(ob), nil
}

// fieldName returns the object-shape key text of a key node: the content of
// a string key, the compact untyped document of anything else.
func fieldName(key *GValue) (string, error) {
	if key.tp == StringBody {
		return key.v.(string), nil
	}

	data, err := key.stripTags().MarshalJSON()
	if err != nil {
		return "", err
	}

	return string(data), nil
}

type entrySorter struct {
	keys    []string
	entries []Entry
}

func (s *entrySorter) Len() int {
	return len(s.keys)
}

func (s *entrySorter) Less(i, j int) bool {
	return s.keys[i] < s.keys[j]
}

func (s *entrySorter) Swap(i, j int) {
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
}
