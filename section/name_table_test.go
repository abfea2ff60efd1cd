package section

import (
	"testing"

	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
	"github.com/stretchr/testify/require"
)

func TestNameTable_RoundTrip(t *testing.T) {
	names := []string{"ba0001.pak", "ba0001_scp.bxm", "a.yax"}

	buf, err := AppendNameTable([]byte{0xEE}, names)
	require.NoError(t, err)
	require.Len(t, buf, 1+NameTableSize(names))

	parsed, err := ParseNameTable(endian.NewView(buf), 1, uint32(len(names)))
	require.NoError(t, err)
	require.Equal(t, names, parsed)
}

func TestNameTable_Invalid(t *testing.T) {
	_, err := AppendNameTable(nil, []string{"ok", ""})
	require.ErrorIs(t, err, errs.ErrInvalidEntryName)

	_, err = AppendNameTable(nil, []string{"bad\x00name"})
	require.ErrorIs(t, err, errs.ErrInvalidEntryName)

	buf, err := AppendNameTable(nil, []string{"abc"})
	require.NoError(t, err)

	_, err = ParseNameTable(endian.NewView(buf), 0, 2)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)

	_, err = ParseNameTable(endian.NewView(buf[:2]), 0, 1)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestExtensionTable_RoundTrip(t *testing.T) {
	buf := AppendExtensionTable(nil, []string{"pak", "yax", "bxmx"})
	require.Len(t, buf, 12)

	exts, err := ParseExtensionTable(endian.NewView(buf), 0, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"pak", "yax", "bxm"}, exts)

	_, err = ParseExtensionTable(endian.NewView(buf), 4, 3)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestHashIndex(t *testing.T) {
	t.Run("lookup every name", func(t *testing.T) {
		names := []string{"p100.pak", "p100_scp.bxm", "p100.yax", "readme.txt", "Effect.EST", "z.bin", "q.dat"}
		idx := BuildHashIndex(names)

		for i, name := range names {
			got, ok := idx.Lookup(name)
			require.True(t, ok, name)
			require.Equal(t, i, got, name)
		}

		got, ok := idx.Lookup("EFFECT.est")
		require.True(t, ok, "lookup is case-insensitive")
		require.Equal(t, 4, got)

		_, ok = idx.Lookup("missing.file")
		require.False(t, ok)
	})

	t.Run("round trip through bytes", func(t *testing.T) {
		names := []string{"a.yax", "b.txt", "c.pak"}
		idx := BuildHashIndex(names)

		data := append([]byte{1, 2, 3, 4}, idx.Bytes()...)
		require.Len(t, data, 4+idx.Size())

		parsed, err := ParseHashIndex(endian.NewView(data), 4, uint32(len(names)))
		require.NoError(t, err)
		require.Equal(t, idx, parsed)
	})

	t.Run("single and empty", func(t *testing.T) {
		one := BuildHashIndex([]string{"only.bin"})
		require.Equal(t, uint32(31), one.PreHashShift)
		require.Len(t, one.Buckets, 1)
		got, ok := one.Lookup("only.bin")
		require.True(t, ok)
		require.Equal(t, 0, got)

		empty := BuildHashIndex(nil)
		_, ok = empty.Lookup("x")
		require.False(t, ok)
	})

	t.Run("corrupt index", func(t *testing.T) {
		idx := BuildHashIndex([]string{"a", "b"})
		data := idx.Bytes()
		data[len(data)-1] = 0x7F

		_, err := ParseHashIndex(endian.NewView(data), 0, 2)
		require.ErrorIs(t, err, errs.ErrOutOfBounds)

		_, err = ParseHashIndex(endian.NewView(data[:10]), 0, 2)
		require.ErrorIs(t, err, errs.ErrOutOfBounds)
	})
}
