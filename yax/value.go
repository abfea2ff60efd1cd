package yax

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/nierarc/format"
)

// Value is the typed payload of a node.
//
// The zero Value has type format.TypeNone and means "no value". Integers, floats and
// booleans live in bits at their native width; byte strings are held in raw and text in
// str. A decoded text value also keeps its Shift-JIS source in raw, so that encoding it
// again reproduces the input even where two codes decode to the same character. Values
// are immutable once built.
type Value struct {
	typ  format.ValueType
	bits uint64
	str  string
	raw  []byte
}

// None returns the empty value.
func None() Value { return Value{} }

func Int8(v int8) Value     { return Value{typ: format.TypeInt8, bits: uint64(uint8(v))} }
func Uint8(v uint8) Value   { return Value{typ: format.TypeUint8, bits: uint64(v)} }
func Int16(v int16) Value   { return Value{typ: format.TypeInt16, bits: uint64(uint16(v))} }
func Uint16(v uint16) Value { return Value{typ: format.TypeUint16, bits: uint64(v)} }
func Int32(v int32) Value   { return Value{typ: format.TypeInt32, bits: uint64(uint32(v))} }
func Uint32(v uint32) Value { return Value{typ: format.TypeUint32, bits: uint64(v)} }
func Int64(v int64) Value   { return Value{typ: format.TypeInt64, bits: uint64(v)} }
func Uint64(v uint64) Value { return Value{typ: format.TypeUint64, bits: v} }

// Float32 stores v by its IEEE-754 bit pattern, so NaN payloads survive round trips.
func Float32(v float32) Value {
	return Value{typ: format.TypeFloat32, bits: uint64(math.Float32bits(v))}
}

func Bool(v bool) Value {
	if v {
		return Value{typ: format.TypeBool, bits: 1}
	}

	return Value{typ: format.TypeBool}
}

// Bytes copies b into a byte string value. An empty b is stored as nil.
func Bytes(b []byte) Value {
	if len(b) == 0 {
		return Value{typ: format.TypeBytes}
	}

	return Value{typ: format.TypeBytes, raw: bytes.Clone(b)}
}

// String returns a text value.
func String(s string) Value {
	return Value{typ: format.TypeString, str: s}
}

// decodedString builds a text value from its encoded source.
func decodedString(src []byte) Value {
	return Value{typ: format.TypeString, str: decodeText(src), raw: bytes.Clone(src)}
}

// fromBits builds a fixed-width value from its raw storage bits, truncating to the
// type's width.
func fromBits(typ format.ValueType, bits uint64) Value {
	switch typ {
	case format.TypeInt8, format.TypeUint8:
		bits &= math.MaxUint8
	case format.TypeInt16, format.TypeUint16:
		bits &= math.MaxUint16
	case format.TypeInt32, format.TypeUint32, format.TypeFloat32:
		bits &= math.MaxUint32
	case format.TypeBool:
		if bits != 0 {
			bits = 1
		}
	default:
	}

	return Value{typ: typ, bits: bits}
}

// Type returns the value's type.
func (v Value) Type() format.ValueType { return v.typ }

// IsNone reports whether v holds no value.
func (v Value) IsNone() bool { return v.typ == format.TypeNone }

// Bits returns the raw storage bits of a fixed-width value.
func (v Value) Bits() uint64 { return v.bits }

// Int returns a signed integer value sign-extended to int64.
func (v Value) Int() (int64, bool) {
	switch v.typ {
	case format.TypeInt8:
		return int64(int8(v.bits)), true //nolint:gosec
	case format.TypeInt16:
		return int64(int16(v.bits)), true //nolint:gosec
	case format.TypeInt32:
		return int64(int32(v.bits)), true //nolint:gosec
	case format.TypeInt64:
		return int64(v.bits), true //nolint:gosec
	default:
		return 0, false
	}
}

// Uint returns an unsigned integer value widened to uint64.
func (v Value) Uint() (uint64, bool) {
	switch v.typ {
	case format.TypeUint8, format.TypeUint16, format.TypeUint32, format.TypeUint64:
		return v.bits, true
	default:
		return 0, false
	}
}

// Float returns a float32 value.
func (v Value) Float() (float32, bool) {
	if v.typ != format.TypeFloat32 {
		return 0, false
	}

	return math.Float32frombits(uint32(v.bits)), true //nolint:gosec
}

// Bool returns a boolean value.
func (v Value) Bool() (bool, bool) {
	if v.typ != format.TypeBool {
		return false, false
	}

	return v.bits != 0, true
}

// Text returns a text value.
func (v Value) Text() (string, bool) {
	if v.typ != format.TypeString {
		return "", false
	}

	return v.str, true
}

// Raw returns a byte string value. The slice must not be modified.
func (v Value) Raw() ([]byte, bool) {
	if v.typ != format.TypeBytes {
		return nil, false
	}

	return v.raw, true
}

// Equal reports whether two values have the same type and content. Text values compare
// by their text only.
func (v Value) Equal(o Value) bool {
	if v.typ == format.TypeString {
		return o.typ == format.TypeString && v.str == o.str
	}

	return v.typ == o.typ && v.bits == o.bits && v.str == o.str && bytes.Equal(v.raw, o.raw)
}

// GoString renders the value for debugging and test failure output.
func (v Value) GoString() string {
	switch v.typ {
	case format.TypeNone:
		return "yax.None()"
	case format.TypeString:
		return fmt.Sprintf("yax.String(%q)", v.str)
	case format.TypeBytes:
		return fmt.Sprintf("yax.Bytes(%x)", v.raw)
	case format.TypeFloat32:
		f, _ := v.Float()
		return fmt.Sprintf("yax.Float32(%v)", f)
	default:
		return fmt.Sprintf("yax.%s(%#x)", v.typ, v.bits)
	}
}
