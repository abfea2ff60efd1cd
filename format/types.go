package format

type (
	EntryKind       uint8
	ValueType       uint8
	CompressionType uint8
)

const (
	KindRaw EntryKind = 0x0 // KindRaw is an opaque payload written as-is.
	KindPak EntryKind = 0x1 // KindPak is a nested PAK container.
	KindYax EntryKind = 0x2 // KindYax is a binary YAX tree.

	CompressionNone CompressionType = 0x0 // CompressionNone stores the payload verbatim.
	CompressionZlib CompressionType = 0x1 // CompressionZlib stores a zlib stream with a u32 length prefix.
)

// Value types of a YAX node. The numbering is the on-disk discriminant.
const (
	TypeNone    ValueType = 0x0
	TypeInt8    ValueType = 0x1
	TypeUint8   ValueType = 0x2
	TypeInt16   ValueType = 0x3
	TypeUint16  ValueType = 0x4
	TypeInt32   ValueType = 0x5
	TypeUint32  ValueType = 0x6
	TypeInt64   ValueType = 0x7
	TypeUint64  ValueType = 0x8
	TypeFloat32 ValueType = 0x9
	TypeBool    ValueType = 0xA
	TypeBytes   ValueType = 0xB
	TypeString  ValueType = 0xC

	maxValueType = TypeString
)

func (k EntryKind) String() string {
	switch k {
	case KindRaw:
		return "Raw"
	case KindPak:
		return "Pak"
	case KindYax:
		return "Yax"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

var valueTypeNames = [...]string{
	TypeNone:    "none",
	TypeInt8:    "i8",
	TypeUint8:   "u8",
	TypeInt16:   "i16",
	TypeUint16:  "u16",
	TypeInt32:   "i32",
	TypeUint32:  "u32",
	TypeInt64:   "i64",
	TypeUint64:  "u64",
	TypeFloat32: "f32",
	TypeBool:    "bool",
	TypeBytes:   "bytes",
	TypeString:  "str",
}

// String returns the short name used for the type in text documents.
func (t ValueType) String() string {
	if t > maxValueType {
		return "unknown"
	}

	return valueTypeNames[t]
}

// Valid reports whether t is one of the defined value types.
func (t ValueType) Valid() bool {
	return t <= maxValueType
}

// Inline reports whether values of type t fit in the 32-bit value slot of a node record.
func (t ValueType) Inline() bool {
	switch t {
	case TypeInt8, TypeUint8, TypeInt16, TypeUint16, TypeInt32, TypeUint32, TypeFloat32, TypeBool:
		return true
	default:
		return false
	}
}

// ParseValueType maps a short type name back to its ValueType.
func ParseValueType(name string) (ValueType, bool) {
	for i, n := range valueTypeNames {
		if n == name {
			return ValueType(i), true //nolint:gosec
		}
	}

	return TypeNone, false
}
