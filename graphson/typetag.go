package graphson

import (
	"math/big"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Canonical type tags of the wire format.
const (
	TypeInt32      = "g:Int32"
	TypeInt64      = "g:Int64"
	TypeFloat      = "g:Float"
	TypeDouble     = "g:Double"
	TypeUUID       = "g:UUID"
	TypeDate       = "g:Date"
	TypeTimestamp  = "g:Timestamp"
	TypeList       = "g:List"
	TypeSet        = "g:Set"
	TypeMap        = "g:Map"
	TypeByte       = "gx:Byte"
	TypeInt16      = "gx:Int16"
	TypeBigDecimal = "gx:BigDecimal"
)

var (
	tagsMu   sync.RWMutex
	typeTags = map[reflect.Type]string{
		reflect.TypeOf(int8(0)):      TypeByte,
		reflect.TypeOf(int16(0)):     TypeInt16,
		reflect.TypeOf(int32(0)):     TypeInt32,
		reflect.TypeOf(int64(0)):     TypeInt64,
		reflect.TypeOf(int(0)):       TypeInt64,
		reflect.TypeOf(float32(0)):   TypeFloat,
		reflect.TypeOf(float64(0)):   TypeDouble,
		reflect.TypeOf(uuid.UUID{}):  TypeUUID,
		reflect.TypeOf(time.Time{}):  TypeDate,
		reflect.TypeOf(&big.Float{}): TypeBigDecimal,
	}
)

// RegisterType associates a Go type with its canonical wire type tag. It is
// meant to be called at init time by packages that define taggable domain
// types.
func RegisterType(t reflect.Type, tag string) {
	tagsMu.Lock()
	defer tagsMu.Unlock()
	typeTags[t] = tag
}

// TagOf returns the wire type tag registered for the given Go type.
func TagOf(t reflect.Type) (string, bool) {
	tagsMu.RLock()
	defer tagsMu.RUnlock()
	tag, ok := typeTags[t]
	return tag, ok
}

// TagFor returns the wire type tag registered for the type T.
func TagFor[T any]() (string, bool) {
	return TagOf(reflect.TypeOf((*T)(nil)).Elem())
}
