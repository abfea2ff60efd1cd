package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueType_RoundTripName(t *testing.T) {
	for vt := TypeNone; vt <= maxValueType; vt++ {
		got, ok := ParseValueType(vt.String())
		require.True(t, ok, vt.String())
		require.Equal(t, vt, got)
	}

	_, ok := ParseValueType("f64")
	require.False(t, ok)
	require.Equal(t, "unknown", ValueType(0x7F).String())
	require.False(t, ValueType(0x7F).Valid())
}

func TestValueType_Inline(t *testing.T) {
	require.True(t, TypeUint32.Inline())
	require.True(t, TypeFloat32.Inline())
	require.True(t, TypeBool.Inline())
	require.False(t, TypeInt64.Inline())
	require.False(t, TypeString.Inline())
	require.False(t, TypeBytes.Inline())
	require.False(t, TypeNone.Inline())
}

func TestEntryKind_String(t *testing.T) {
	require.Equal(t, "Raw", KindRaw.String())
	require.Equal(t, "Pak", KindPak.String())
	require.Equal(t, "Yax", KindYax.String())
	require.Equal(t, "Unknown", EntryKind(9).String())
	require.Equal(t, "Zlib", CompressionZlib.String())
}
