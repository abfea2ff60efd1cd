package nierarc

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/nierarc/archive"
	"github.com/arloliu/nierarc/dat"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/hashname"
	"github.com/arloliu/nierarc/pak"
	"github.com/arloliu/nierarc/yax"
)

func sceneBytes(t *testing.T) []byte {
	t.Helper()
	data, err := yax.Encode(yax.NewDocument(yax.Branch(hashname.Hash("event"),
		yax.Leaf(hashname.Hash("text"), yax.String("こんにちは")),
		yax.Leaf(hashname.Hash("time"), yax.Float32(1.5)),
	)))
	require.NoError(t, err)

	return data
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))

	return p
}

func decodePaths(t *testing.T, s string) []string {
	t.Helper()
	var paths []string
	require.NoError(t, json.Unmarshal([]byte(s), &paths))

	return paths
}

func TestConvertRoundTrip(t *testing.T) {
	scene := sceneBytes(t)
	src := writeTemp(t, "0.yax", scene)
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "0.xml")
	yaxPath := filepath.Join(dir, "again.yax")

	require.NoError(t, ConvertYaxToXMLFile(src, xmlPath))
	text, err := os.ReadFile(xmlPath)
	require.NoError(t, err)
	require.Contains(t, string(text), "<text>こんにちは</text>")

	require.NoError(t, ConvertXMLToYaxFile(xmlPath, yaxPath))
	again, err := os.ReadFile(yaxPath)
	require.NoError(t, err)
	require.Equal(t, scene, again)
}

func TestConvertFailures(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "out.xml")
		err := ConvertYaxToXMLFile(filepath.Join(t.TempDir(), "none.yax"), dst)
		require.ErrorIs(t, err, errs.ErrIo)
		require.NoFileExists(t, dst)
	})

	t.Run("not a tree", func(t *testing.T) {
		src := writeTemp(t, "bad.yax", []byte("not a yax file at all"))
		dst := filepath.Join(t.TempDir(), "out.xml")
		require.Error(t, ConvertYaxToXMLFile(src, dst))
		require.NoFileExists(t, dst)
	})

	t.Run("malformed xml keeps existing output", func(t *testing.T) {
		src := writeTemp(t, "bad.xml", []byte("<event><text></event>"))
		dst := writeTemp(t, "out.yax", []byte("previous"))
		err := ConvertXMLToYaxFile(src, dst)
		require.ErrorIs(t, err, errs.ErrMalformed)

		kept, err := os.ReadFile(dst)
		require.NoError(t, err)
		require.Equal(t, []byte("previous"), kept)
	})

	t.Run("unknown tag name", func(t *testing.T) {
		src := writeTemp(t, "bad.xml", []byte("<event><notAKnownTag>1</notAKnownTag></event>"))
		dst := filepath.Join(t.TempDir(), "out.yax")
		err := ConvertXMLToYaxFile(src, dst)
		require.ErrorIs(t, err, errs.ErrUnknownTagName)
		require.NoFileExists(t, dst)
	})
}

func TestExtractDatFiles(t *testing.T) {
	scene := sceneBytes(t)

	pw, err := pak.NewWriter()
	require.NoError(t, err)
	require.NoError(t, pw.Add("0.yax", 0, scene))
	stage, err := pw.Bytes()
	require.NoError(t, err)

	dw := dat.NewWriter()
	require.NoError(t, dw.Add("scene.yax", scene))
	require.NoError(t, dw.Add("stage.pak", stage))
	data, err := dw.Bytes()
	require.NoError(t, err)
	src := writeTemp(t, "core.dat", data)

	t.Run("without pak extraction", func(t *testing.T) {
		dir := t.TempDir()
		out, err := ExtractDatFiles(src, dir, false)
		require.NoError(t, err)
		require.Equal(t, []string{
			filepath.Join(dir, "scene.xml"),
			filepath.Join(dir, "stage.pak"),
		}, decodePaths(t, out))
	})

	t.Run("with pak extraction", func(t *testing.T) {
		dir := t.TempDir()
		out, err := ExtractDatFiles(src, dir, true)
		require.NoError(t, err)
		require.Equal(t, []string{
			filepath.Join(dir, "scene.xml"),
			filepath.Join(dir, "stage.pak"),
			filepath.Join(dir, archive.PakExtractDir, "stage.pak", "0.xml"),
		}, decodePaths(t, out))
	})

	t.Run("manifest names the source", func(t *testing.T) {
		dir := t.TempDir()
		_, err := ExtractDatFiles(src, dir, false, archive.WithManifest(true))
		require.NoError(t, err)

		raw, err := os.ReadFile(filepath.Join(dir, archive.DatManifestName))
		require.NoError(t, err)
		m, err := archive.ReadManifest(raw)
		require.NoError(t, err)
		require.Equal(t, "core", m.Basename)
		require.Len(t, m.Files, 2)
	})

	t.Run("empty file", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		empty := writeTemp(t, "empty.dat", nil)

		out, err := ExtractDatFiles(empty, t.TempDir(), true, archive.WithLogger(logger))
		require.NoError(t, err)
		require.Equal(t, "[]", out)
		require.Contains(t, logs.String(), "DAT file is empty")
	})

	t.Run("not a dat", func(t *testing.T) {
		bad := writeTemp(t, "bad.dat", append([]byte("PAK\x00"), make([]byte, 64)...))
		_, err := ExtractDatFiles(bad, t.TempDir(), true)
		require.ErrorIs(t, err, errs.ErrBadMagic)
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := ExtractDatFiles(filepath.Join(t.TempDir(), "none.dat"), t.TempDir(), true)
		require.ErrorIs(t, err, errs.ErrIo)
	})
}

func TestExtractPakFiles(t *testing.T) {
	scene := sceneBytes(t)
	pw, err := pak.NewWriter()
	require.NoError(t, err)
	require.NoError(t, pw.Add("0.yax", 0, scene))
	require.NoError(t, pw.Add("1.bin", 0, []byte{1, 2, 3}))
	data, err := pw.Bytes()
	require.NoError(t, err)
	src := writeTemp(t, "stage.pak", data)

	dir := t.TempDir()
	out, err := ExtractPakFiles(src, dir, true)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "0.xml"),
		filepath.Join(dir, "1.bin"),
	}, decodePaths(t, out))

	res, err := ExtractPak(src, t.TempDir(), false)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, "0.yax", filepath.Base(res.Paths[0]))
}

func TestPathsJSON(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{name: "nil", paths: nil, want: "[]"},
		{name: "empty", paths: []string{}, want: "[]"},
		{name: "escaped", paths: []string{`a\b`, `c"d`}, want: `["a\\b","c\"d"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PathsJSON(tt.paths)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestExtractFilesLogFailures(t *testing.T) {
	scene := sceneBytes(t)
	dw := dat.NewWriter()
	require.NoError(t, dw.Add("bad.yax", scene[:20]))
	require.NoError(t, dw.Add("ok.txt", []byte("ok")))
	data, err := dw.Bytes()
	require.NoError(t, err)
	src := writeTemp(t, "broken.dat", data)

	var defaultLogs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&defaultLogs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Run("default logger", func(t *testing.T) {
		defaultLogs.Reset()
		dir := t.TempDir()
		out, err := ExtractDatFiles(src, dir, false)
		require.NoError(t, err)
		require.Equal(t, []string{filepath.Join(dir, "ok.txt")}, decodePaths(t, out))
		require.Contains(t, defaultLogs.String(), "entry failed")
		require.Contains(t, defaultLogs.String(), "bad.yax")
	})

	t.Run("explicit logger wins", func(t *testing.T) {
		defaultLogs.Reset()
		var own bytes.Buffer
		_, err := ExtractDatFiles(src, t.TempDir(), false, archive.WithLogger(slog.New(slog.NewTextHandler(&own, nil))))
		require.NoError(t, err)
		require.Contains(t, own.String(), "bad.yax")
		require.Empty(t, defaultLogs.String())
	})
}
