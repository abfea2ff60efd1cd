package yax

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nierarc/format"
)

func TestValueAccessors(t *testing.T) {
	t.Run("signed integers sign-extend", func(t *testing.T) {
		tests := []struct {
			value Value
			want  int64
		}{
			{Int8(-1), -1},
			{Int16(math.MinInt16), math.MinInt16},
			{Int32(-123456), -123456},
			{Int64(math.MinInt64), math.MinInt64},
		}
		for _, tt := range tests {
			got, ok := tt.value.Int()
			require.True(t, ok, "%#v", tt.value)
			require.Equal(t, tt.want, got)

			_, ok = tt.value.Uint()
			require.False(t, ok)
		}
	})

	t.Run("unsigned integers", func(t *testing.T) {
		got, ok := Uint8(200).Uint()
		require.True(t, ok)
		require.Equal(t, uint64(200), got)

		got, ok = Uint64(math.MaxUint64).Uint()
		require.True(t, ok)
		require.Equal(t, uint64(math.MaxUint64), got)

		_, ok = Uint32(1).Int()
		require.False(t, ok)
	})

	t.Run("float keeps NaN payload", func(t *testing.T) {
		nan := math.Float32frombits(0x7fc00123)
		v := Float32(nan)
		require.Equal(t, uint64(0x7fc00123), v.Bits())

		f, ok := v.Float()
		require.True(t, ok)
		require.Equal(t, uint32(0x7fc00123), math.Float32bits(f))
	})

	t.Run("bool", func(t *testing.T) {
		b, ok := Bool(true).Bool()
		require.True(t, ok)
		require.True(t, b)

		b, ok = Bool(false).Bool()
		require.True(t, ok)
		require.False(t, b)
	})

	t.Run("bytes are copied", func(t *testing.T) {
		src := []byte{1, 2, 3}
		v := Bytes(src)
		src[0] = 9

		raw, ok := v.Raw()
		require.True(t, ok)
		require.Equal(t, []byte{1, 2, 3}, raw)

		empty, ok := Bytes([]byte{}).Raw()
		require.True(t, ok)
		require.Nil(t, empty)
		require.True(t, Bytes(nil).Equal(Bytes([]byte{})))
	})

	t.Run("text", func(t *testing.T) {
		s, ok := String("テスト").Text()
		require.True(t, ok)
		require.Equal(t, "テスト", s)

		_, ok = Int8(1).Text()
		require.False(t, ok)
	})

	t.Run("none", func(t *testing.T) {
		require.True(t, None().IsNone())
		require.True(t, Value{}.IsNone())
		require.Equal(t, format.TypeNone, None().Type())
		require.False(t, String("").IsNone())
	})
}

func TestValueEqual(t *testing.T) {
	require.True(t, Int32(5).Equal(Int32(5)))
	require.False(t, Int32(5).Equal(Uint32(5)), "types must match")
	require.False(t, String("a").Equal(String("b")))
	require.True(t, String("").Equal(String("")))
	require.False(t, String("").Equal(None()))
	require.False(t, Bytes([]byte{1}).Equal(Bytes([]byte{2})))
	require.True(t, decodedString([]byte{0x87, 0x90}).Equal(String("≒")), "text compares without its source bytes")
}

func TestFromBitsTruncates(t *testing.T) {
	require.Equal(t, uint64(0xff), fromBits(format.TypeInt8, 0xffffffff).Bits())
	require.Equal(t, uint64(0xffff), fromBits(format.TypeUint16, 0x1ffff).Bits())
	require.Equal(t, uint64(1), fromBits(format.TypeBool, 7).Bits())

	v, _ := fromBits(format.TypeInt8, 0xff).Int()
	require.Equal(t, int64(-1), v)
}
