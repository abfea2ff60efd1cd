package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nierarc/dat"
	"github.com/arloliu/nierarc/hashname"
	"github.com/arloliu/nierarc/pak"
	"github.com/arloliu/nierarc/yax"
)

func testEnv() (*env, *bytes.Buffer) {
	var out bytes.Buffer
	return &env{stdout: &out, stderr: &out, logger: slog.New(slog.DiscardHandler)}, &out
}

func writeArchives(t *testing.T) (string, string) {
	t.Helper()
	scene, err := yax.Encode(yax.NewDocument(yax.Branch(hashname.Hash("event"),
		yax.Leaf(hashname.Hash("text"), yax.String("hello")),
	)))
	require.NoError(t, err)

	pw, err := pak.NewWriter()
	require.NoError(t, err)
	require.NoError(t, pw.Add("0.yax", 0, scene))
	stage, err := pw.Bytes()
	require.NoError(t, err)

	dw := dat.NewWriter()
	require.NoError(t, dw.Add("scene.yax", scene))
	require.NoError(t, dw.Add("stage.pak", stage))
	core, err := dw.Bytes()
	require.NoError(t, err)

	dir := t.TempDir()
	datPath := filepath.Join(dir, "core.dat")
	pakPath := filepath.Join(dir, "stage.pak")
	require.NoError(t, os.WriteFile(datPath, core, 0o644))
	require.NoError(t, os.WriteFile(pakPath, stage, 0o644))

	return datPath, pakPath
}

func TestRunDispatch(t *testing.T) {
	e, out := testEnv()
	require.NoError(t, run(e, nil))
	require.Contains(t, out.String(), "yax2xml")

	err := run(e, []string{"unpack"})
	require.ErrorIs(t, err, errUsage)

	err = run(e, []string{"dat"})
	require.ErrorIs(t, err, errUsage)

	err = run(e, []string{"dat", "--bogus", "x.dat"})
	require.ErrorIs(t, err, errUsage)

	require.NoError(t, run(e, []string{"dat", "--help"}))
}

func TestRunExtract(t *testing.T) {
	datPath, pakPath := writeArchives(t)

	t.Run("dat with pak", func(t *testing.T) {
		e, out := testEnv()
		outDir := t.TempDir()
		require.NoError(t, run(e, []string{"dat", "--pak", "-j", "2", "-o", outDir, datPath}))
		require.Contains(t, out.String(), "3 files written")
		require.FileExists(t, filepath.Join(outDir, "core", "scene.xml"))
		require.FileExists(t, filepath.Join(outDir, "core", "pakExtracted", "stage.pak", "0.xml"))
	})

	t.Run("pak raw", func(t *testing.T) {
		e, _ := testEnv()
		outDir := t.TempDir()
		require.NoError(t, run(e, []string{"pak", "--raw", "-o", outDir, pakPath}))
		require.FileExists(t, filepath.Join(outDir, "stage", "0.yax"))
	})

	t.Run("several archives", func(t *testing.T) {
		e, out := testEnv()
		outDir := t.TempDir()
		err := run(e, []string{"dat", "-o", outDir, "--manifest", datPath, pakPath})
		require.ErrorContains(t, err, "1 of 2 archives")
		require.FileExists(t, filepath.Join(outDir, "core", "dat_info.json"))
		require.Contains(t, out.String(), "FAIL")
	})

	t.Run("shared output directory", func(t *testing.T) {
		e, _ := testEnv()
		err := run(e, []string{"dat", "-o", t.TempDir(), datPath, datPath})
		require.ErrorIs(t, err, errUsage)
	})

	t.Run("bad jobs", func(t *testing.T) {
		e, _ := testEnv()
		err := run(e, []string{"dat", "-j", "0", datPath})
		require.ErrorIs(t, err, errUsage)
	})
}

func TestRunConvert(t *testing.T) {
	datPath, _ := writeArchives(t)
	e, _ := testEnv()
	outDir := t.TempDir()
	require.NoError(t, run(e, []string{"dat", "-o", outDir, datPath}))

	xmlPath := filepath.Join(outDir, "core", "scene.xml")
	yaxPath := filepath.Join(t.TempDir(), "scene.yax")
	require.NoError(t, run(e, []string{"xml2yax", xmlPath, yaxPath}))

	again := filepath.Join(t.TempDir(), "scene.xml")
	require.NoError(t, run(e, []string{"yax2xml", yaxPath, again}))

	want, err := os.ReadFile(xmlPath)
	require.NoError(t, err)
	got, err := os.ReadFile(again)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.ErrorIs(t, run(e, []string{"yax2xml", yaxPath}), errUsage)
}

func TestRunList(t *testing.T) {
	datPath, pakPath := writeArchives(t)

	e, out := testEnv()
	require.NoError(t, run(e, []string{"ls", datPath}))
	require.Contains(t, out.String(), "scene.yax")
	require.Contains(t, out.String(), "Pak")

	out.Reset()
	require.NoError(t, run(e, []string{"ls", pakPath}))
	require.Contains(t, out.String(), "0.yax")

	bad := filepath.Join(t.TempDir(), "x.bin")
	require.NoError(t, os.WriteFile(bad, []byte("hello world"), 0o644))
	require.Error(t, run(e, []string{"ls", bad}))
}
