package xmlbridge

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/nierarc/format"
	"github.com/arloliu/nierarc/yax"
)

const (
	attrType  = "type"
	attrEnc   = "enc"
	attrValue = "value"
	attrStr   = "str"
	attrID    = "id"

	encBase64 = "base64"
	nanPrefix = "nan:0x"
)

// valueText is a value rendered for XML: its text and the attributes describing it.
type valueText struct {
	text   string
	typ    string // empty for plain text
	base64 bool
}

// formatValue renders a non-empty value.
func formatValue(v yax.Value) valueText {
	switch v.Type() { //nolint:exhaustive
	case format.TypeString:
		s, _ := v.Text()
		if !representable(s) {
			return valueText{text: base64.StdEncoding.EncodeToString([]byte(s)), base64: true}
		}
		if isBlank(s) {
			return valueText{text: s, typ: format.TypeString.String()}
		}

		return valueText{text: s}
	case format.TypeBytes:
		raw, _ := v.Raw()
		return valueText{text: hex.EncodeToString(raw), typ: v.Type().String()}
	case format.TypeFloat32:
		f, _ := v.Float()
		if math.IsNaN(float64(f)) {
			return valueText{text: fmt.Sprintf("%s%08x", nanPrefix, math.Float32bits(f)), typ: v.Type().String()}
		}

		return valueText{text: strconv.FormatFloat(float64(f), 'g', -1, 32), typ: v.Type().String()}
	case format.TypeBool:
		b, _ := v.Bool()
		return valueText{text: strconv.FormatBool(b), typ: v.Type().String()}
	case format.TypeInt8, format.TypeInt16, format.TypeInt32, format.TypeInt64:
		n, _ := v.Int()
		return valueText{text: strconv.FormatInt(n, 10), typ: v.Type().String()}
	default:
		n, _ := v.Uint()
		return valueText{text: strconv.FormatUint(n, 10), typ: v.Type().String()}
	}
}

// parseValue is the inverse of formatValue. typ is the type attribute ("" when absent).
func parseValue(text, typ string, isBase64 bool) (yax.Value, error) {
	if isBase64 {
		if typ != "" && typ != format.TypeString.String() {
			return yax.Value{}, fmt.Errorf("enc=%q is only valid on text, not %q", encBase64, typ)
		}
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return yax.Value{}, fmt.Errorf("bad base64 text: %w", err)
		}
		return yax.String(string(raw)), nil
	}

	if typ == "" {
		return yax.String(text), nil
	}

	vt, ok := format.ParseValueType(typ)
	if !ok {
		return yax.Value{}, fmt.Errorf("unknown value type %q", typ)
	}

	switch vt {
	case format.TypeNone:
		if !isBlank(text) {
			return yax.Value{}, fmt.Errorf("type %q carries text", typ)
		}

		return yax.None(), nil
	case format.TypeString:
		return yax.String(text), nil
	case format.TypeBytes:
		raw, err := hex.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return yax.Value{}, fmt.Errorf("bad hex bytes: %w", err)
		}

		return yax.Bytes(raw), nil
	case format.TypeFloat32:
		return parseFloat(strings.TrimSpace(text))
	case format.TypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return yax.Value{}, fmt.Errorf("bad bool %q", text)
		}

		return yax.Bool(b), nil
	default:
		return parseInt(strings.TrimSpace(text), vt)
	}
}

func parseFloat(s string) (yax.Value, error) {
	if hexBits, ok := strings.CutPrefix(s, nanPrefix); ok {
		bits, err := strconv.ParseUint(hexBits, 16, 32)
		if err != nil {
			return yax.Value{}, fmt.Errorf("bad NaN payload %q", s)
		}

		return yax.Float32(math.Float32frombits(uint32(bits))), nil
	}

	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return yax.Value{}, fmt.Errorf("bad f32 %q", s)
	}

	return yax.Float32(float32(f)), nil
}

func parseInt(s string, vt format.ValueType) (yax.Value, error) {
	switch vt { //nolint:exhaustive
	case format.TypeInt8, format.TypeInt16, format.TypeInt32, format.TypeInt64:
		n, err := strconv.ParseInt(s, 10, intBits(vt))
		if err != nil {
			return yax.Value{}, fmt.Errorf("bad %s %q", vt, s)
		}

		switch vt { //nolint:exhaustive
		case format.TypeInt8:
			return yax.Int8(int8(n)), nil
		case format.TypeInt16:
			return yax.Int16(int16(n)), nil
		case format.TypeInt32:
			return yax.Int32(int32(n)), nil
		default:
			return yax.Int64(n), nil
		}
	default:
		n, err := strconv.ParseUint(s, 10, intBits(vt))
		if err != nil {
			return yax.Value{}, fmt.Errorf("bad %s %q", vt, s)
		}

		switch vt { //nolint:exhaustive
		case format.TypeUint8:
			return yax.Uint8(uint8(n)), nil
		case format.TypeUint16:
			return yax.Uint16(uint16(n)), nil
		case format.TypeUint32:
			return yax.Uint32(uint32(n)), nil
		default:
			return yax.Uint64(n), nil
		}
	}
}

func intBits(vt format.ValueType) int {
	switch vt { //nolint:exhaustive
	case format.TypeInt8, format.TypeUint8:
		return 8
	case format.TypeInt16, format.TypeUint16:
		return 16
	case format.TypeInt32, format.TypeUint32:
		return 32
	default:
		return 64
	}
}

// representable reports whether every rune of s survives an XML 1.0 text node unchanged.
// Carriage returns are excluded since parsers normalize line endings.
func representable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n':
		case r < 0x20:
			return false
		case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
			return false
		}
	}

	return true
}

// isBlank reports whether s is empty or only XML whitespace.
func isBlank(s string) bool {
	return strings.TrimLeft(s, " \t\r\n") == ""
}
