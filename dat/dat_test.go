package dat

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nierarc/archive"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/format"
	"github.com/arloliu/nierarc/hashname"
	"github.com/arloliu/nierarc/pak"
	"github.com/arloliu/nierarc/section"
	"github.com/arloliu/nierarc/yax"
)

func yaxBytes(t *testing.T, text string) []byte {
	t.Helper()
	data, err := yax.Encode(yax.NewDocument(yax.Branch(hashname.Hash("event"),
		yax.Leaf(hashname.Hash("text"), yax.String(text)),
		yax.Leaf(hashname.Hash("time"), yax.Int32(-1)),
	)))
	require.NoError(t, err)

	return data
}

func pakBytes(t *testing.T, entries ...any) []byte {
	t.Helper()
	w, err := pak.NewWriter()
	require.NoError(t, err)
	for i := 0; i < len(entries); i += 2 {
		require.NoError(t, w.Add(entries[i].(string), 0, entries[i+1].([]byte)))
	}
	data, err := w.Bytes()
	require.NoError(t, err)

	return data
}

func datBytes(t *testing.T, entries ...any) []byte {
	t.Helper()
	w := NewWriter()
	for i := 0; i < len(entries); i += 2 {
		require.NoError(t, w.Add(entries[i].(string), entries[i+1].([]byte)))
	}
	data, err := w.Bytes()
	require.NoError(t, err)

	return data
}

func TestWriterOpen(t *testing.T) {
	scene := yaxBytes(t, "はじめ")
	stage := pakBytes(t, "0.yax", scene)
	data := datBytes(t, "readme.txt", []byte("hi"), "scene.yax", scene, "stage.pak", stage, "core.dat", datBytes(t))
	require.True(t, IsDat(data))

	a, err := Open(data)
	require.NoError(t, err)
	require.Equal(t, 4, a.Len())

	kinds := []format.EntryKind{format.KindRaw, format.KindYax, format.KindPak, format.KindRaw}
	for i, e := range a.Entries() {
		require.Equal(t, kinds[i], e.Kind, e.Name)
		require.Zero(t, e.Offset%section.PayloadAlignment)
	}
	require.Equal(t, "txt", a.Extension(0))
	require.Equal(t, "pak", a.Extension(2))

	got, err := a.Data(1)
	require.NoError(t, err)
	require.Equal(t, scene, got)

	again, err := a.Encode()
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestLookup(t *testing.T) {
	names := []string{"a.txt", "B.yax", "c.pak", "d.bin", "e.bin", "f.bin", "g.bin"}
	entries := make([]any, 0, 2*len(names))
	for _, n := range names {
		entries = append(entries, n, []byte(n))
	}
	a, err := Open(datBytes(t, entries...))
	require.NoError(t, err)
	require.NotNil(t, a.index)

	for i, n := range names {
		got, err := a.Lookup(n)
		require.NoError(t, err)
		require.Equal(t, i, got)
	}

	got, err := a.Lookup("b.YAX")
	require.NoError(t, err)
	require.Equal(t, 1, got)

	_, err = a.Lookup("missing.bin")
	require.ErrorIs(t, err, errs.ErrEntryNotFound)

	t.Run("without index", func(t *testing.T) {
		data := datBytes(t, "x.bin", []byte("x"))
		binary.LittleEndian.PutUint32(data[24:], 0)
		b, err := Open(data)
		require.NoError(t, err)
		require.Nil(t, b.index)

		got, err := b.Lookup("X.BIN")
		require.NoError(t, err)
		require.Equal(t, 0, got)
	})
}

func TestOpenErrors(t *testing.T) {
	valid := datBytes(t, "a.txt", []byte("aaaa"), "b.txt", []byte("bbbb"))
	header, err := section.ParseDatHeader(valid)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"empty", func([]byte) []byte { return nil }, errs.ErrBadMagic},
		{"short foreign buffer", func([]byte) []byte { return []byte("abc") }, errs.ErrBadMagic},
		{"short header", func(b []byte) []byte { return b[:12] }, errs.ErrOutOfBounds},
		{"bad magic", func(b []byte) []byte { copy(b, "PAK\x00"); return b }, errs.ErrBadMagic},
		{"offsets beyond buffer", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[8:], uint32(len(b)-4))
			return b
		}, errs.ErrOutOfBounds},
		{"extensions beyond buffer", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[12:], 0xfffffff0)
			return b
		}, errs.ErrOutOfBounds},
		{"name stride beyond buffer", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[header.NamesTableOffset:], 0x10000000)
			return b
		}, errs.ErrOutOfBounds},
		{"bad hash shift", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[header.HashMapOffset:], 40)
			return b
		}, errs.ErrMalformed},
		{"overlapping payloads", func(b []byte) []byte {
			first := binary.LittleEndian.Uint32(b[header.OffsetsTableOffset:])
			binary.LittleEndian.PutUint32(b[header.OffsetsTableOffset+4:], first)
			return b
		}, errs.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.mutate(bytes.Clone(valid)))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractAll(t *testing.T) {
	scene := yaxBytes(t, "はじめ")
	stage := pakBytes(t, "0.yax", yaxBytes(t, "first"), "1.txt", []byte("one"))
	data := datBytes(t, "readme.txt", []byte("hi"), "scene.yax", scene, "stage.pak", stage)

	t.Run("nested pak extraction", func(t *testing.T) {
		a, err := Open(data)
		require.NoError(t, err)

		dir := t.TempDir()
		res, err := a.ExtractAll(dir, true)
		require.NoError(t, err)
		require.True(t, res.OK(), "%v", res.Err())

		nested := filepath.Join(dir, archive.PakExtractDir, "stage.pak")
		require.Equal(t, []string{
			filepath.Join(dir, "readme.txt"),
			filepath.Join(dir, "scene.xml"),
			filepath.Join(dir, "stage.pak"),
			filepath.Join(nested, "0.xml"),
			filepath.Join(nested, "1.txt"),
		}, res.Paths)
		for _, p := range res.Paths {
			require.FileExists(t, p)
		}

		raw, err := os.ReadFile(filepath.Join(dir, "stage.pak"))
		require.NoError(t, err)
		require.Equal(t, stage, raw)
	})

	t.Run("nested pak kept opaque", func(t *testing.T) {
		a, err := Open(data)
		require.NoError(t, err)

		dir := t.TempDir()
		res, err := a.ExtractAll(dir, false)
		require.NoError(t, err)
		require.Len(t, res.Paths, 3)
		require.NoDirExists(t, filepath.Join(dir, archive.PakExtractDir))
	})

	t.Run("failures do not stop the batch", func(t *testing.T) {
		brokenPak := append([]byte("PAK\x00"), make([]byte, 8)...)
		innerBad := pakBytes(t, "0.yax", scene[:len(scene)-1], "1.txt", []byte("one"))
		a, err := Open(datBytes(t,
			"bad.yax", scene[:20],
			"broken.pak", brokenPak,
			"inner.pak", innerBad,
			"ok.txt", []byte("ok"),
		))
		require.NoError(t, err)

		dir := t.TempDir()
		res, err := a.ExtractAll(dir, true)
		require.NoError(t, err)

		nested := filepath.Join(dir, archive.PakExtractDir, "inner.pak")
		require.Equal(t, []string{
			filepath.Join(dir, "broken.pak"),
			filepath.Join(dir, "inner.pak"),
			filepath.Join(nested, "1.txt"),
			filepath.Join(dir, "ok.txt"),
		}, res.Paths)

		require.Len(t, res.Failures, 3)
		require.Equal(t, "bad.yax", res.Failures[0].Name)
		require.Equal(t, "broken.pak", res.Failures[1].Name)
		require.ErrorIs(t, res.Failures[1], errs.ErrOutOfBounds)
		require.Equal(t, "inner.pak/0.yax", res.Failures[2].Name)
		require.NoFileExists(t, filepath.Join(dir, "bad.xml"))
	})

	t.Run("nesting limit", func(t *testing.T) {
		a, err := Open(data)
		require.NoError(t, err)

		res, err := a.ExtractAll(t.TempDir(), true, archive.WithDepth(archive.MaxNestingDepth-1))
		require.NoError(t, err)
		require.Len(t, res.Paths, 3)
		require.ErrorIs(t, res.Err(), errs.ErrNestingTooDeep)
	})

	t.Run("manifests", func(t *testing.T) {
		a, err := Open(data)
		require.NoError(t, err)

		dir := t.TempDir()
		res, err := a.ExtractAll(dir, true, archive.WithManifest(true), archive.WithSource("/game/data/core.dat"))
		require.NoError(t, err)
		require.Len(t, res.Paths, 5)

		raw, err := os.ReadFile(filepath.Join(dir, archive.DatManifestName))
		require.NoError(t, err)
		m, err := archive.ReadManifest(raw)
		require.NoError(t, err)
		require.Equal(t, "core", m.Basename)
		require.Equal(t, "dat", m.Ext)
		require.Equal(t, "readme.txt", m.Files[0].Name)
		require.Equal(t, "scene.yax", m.Files[1].Name)
		require.Equal(t, "stage.pak", m.Files[2].Name)

		require.FileExists(t, filepath.Join(dir, archive.PakExtractDir, "stage.pak", archive.PakManifestName))
	})

	t.Run("path traversal", func(t *testing.T) {
		a, err := Open(datBytes(t, "../up.txt", []byte("x"), "fine.txt", []byte("y")))
		require.NoError(t, err)

		root := t.TempDir()
		dir := filepath.Join(root, "out")
		res, err := a.ExtractAll(dir, true)
		require.NoError(t, err)
		require.Equal(t, []string{filepath.Join(dir, "fine.txt")}, res.Paths)
		require.ErrorIs(t, res.Err(), errs.ErrPathTraversal)
		require.NoFileExists(t, filepath.Join(root, "up.txt"))
	})

	t.Run("empty archive", func(t *testing.T) {
		a, err := Open(datBytes(t))
		require.NoError(t, err)

		var logs bytes.Buffer
		res, err := a.ExtractAll(t.TempDir(), true, archive.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
		require.NoError(t, err)
		require.Empty(t, res.Paths)
		require.True(t, res.OK())
		require.Contains(t, logs.String(), "no entries")
	})
}

func TestWriterDuplicateNames(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.Add("scene.yax", []byte("a")))
	err := w.Add("Scene.YAX", []byte("b"))
	require.ErrorIs(t, err, errs.ErrInvalidEntryName)
	require.Equal(t, 1, w.Len())
	require.False(t, w.HasHashCollision())
}
