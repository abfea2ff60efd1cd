// Package nierarc extracts and converts the game archive formats: DAT archives, the PAK
// containers nested in them, and the YAX binary trees they carry.
//
// The functions in this package are the file-level entry points used by host
// applications and the nierarc command. Each call reads its own source file and writes
// only below its own destination, so independent calls may run concurrently.
//
// # Basic Usage
//
// Extracting a DAT archive and its nested PAK files:
//
//	paths, err := nierarc.ExtractDatFiles("data/core.dat", "out/core", true)
//	if err != nil {
//	    // the archive itself could not be read
//	}
//	// paths is a JSON array of the files written, in entry order
//
// Converting a single tree to XML and back:
//
//	err := nierarc.ConvertYaxToXMLFile("0.yax", "0.xml")
//	err = nierarc.ConvertXMLToYaxFile("0.xml", "0.yax")
//
// # Package Structure
//
// The dat, pak, yax and xmlbridge packages expose the formats directly; archive holds
// the shared extraction machinery.
package nierarc

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"

	"github.com/arloliu/nierarc/archive"
	"github.com/arloliu/nierarc/dat"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/pak"
	"github.com/arloliu/nierarc/xmlbridge"
	"github.com/arloliu/nierarc/yax"
)

// ConvertYaxToXMLFile decodes the YAX tree in src and writes its XML form to dst.
// On failure dst is not created, and an existing dst is left untouched.
func ConvertYaxToXMLFile(src, dst string, opts ...xmlbridge.Option) error {
	data, err := readFile(src)
	if err != nil {
		return err
	}

	doc, err := yax.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}

	w, err := xmlbridge.NewWriter(opts...)
	if err != nil {
		return err
	}

	return writeFile(dst, func(out io.Writer) error {
		return w.Write(out, doc)
	})
}

// ConvertXMLToYaxFile parses the XML document in src and writes it to dst as a YAX tree.
// Element names that the name table cannot resolve fail with errs.ErrUnknownTagName.
func ConvertXMLToYaxFile(src, dst string, opts ...xmlbridge.Option) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrIo, err)
	}
	defer f.Close()

	doc, err := xmlbridge.Read(f, opts...)
	if err != nil {
		return fmt.Errorf("parse %s: %w", src, err)
	}

	data, err := yax.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", src, err)
	}

	return writeFile(dst, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
}

// ExtractDat extracts the DAT archive at src into dir and returns the full result,
// entry failures included.
//
// An empty source file is not an error: it yields an empty result and a warning.
func ExtractDat(src, dir string, shouldExtractPakFiles bool, opts ...archive.Option) (archive.Result, error) {
	data, err := readFile(src)
	if err != nil {
		return archive.Result{}, err
	}
	if len(data) == 0 {
		cfg, err := archive.NewConfig(opts...)
		if err != nil {
			return archive.Result{}, err
		}
		cfg.Logger().Warn("DAT file is empty", "path", src)

		return archive.Result{}, nil
	}

	a, err := dat.Open(data)
	if err != nil {
		return archive.Result{}, fmt.Errorf("open %s: %w", src, err)
	}

	opts = append([]archive.Option{archive.WithSource(src)}, opts...)

	return a.ExtractAll(dir, shouldExtractPakFiles, opts...)
}

// ExtractPak extracts the PAK container at src into dir and returns the full result.
func ExtractPak(src, dir string, yaxToXml bool, opts ...archive.Option) (archive.Result, error) {
	data, err := readFile(src)
	if err != nil {
		return archive.Result{}, err
	}

	a, err := pak.Open(data)
	if err != nil {
		return archive.Result{}, fmt.Errorf("open %s: %w", src, err)
	}

	opts = append([]archive.Option{archive.WithSource(src)}, opts...)

	return a.ExtractAll(dir, yaxToXml, opts...)
}

// ExtractDatFiles extracts a DAT archive and returns the written paths as a JSON array.
// An error means the archive could not be extracted at all. Entry failures are logged
// at Warn and summarized at Info, through slog.Default() unless archive.WithLogger is
// passed; ExtractDat returns them instead.
func ExtractDatFiles(src, dir string, shouldExtractPakFiles bool, opts ...archive.Option) (string, error) {
	res, err := ExtractDat(src, dir, shouldExtractPakFiles, hostOptions(opts)...)
	if err != nil {
		return "", err
	}

	return PathsJSON(res.Paths)
}

// ExtractPakFiles extracts a PAK container and returns the written paths as a JSON
// array, with the same failure and logging convention as ExtractDatFiles.
func ExtractPakFiles(src, dir string, yaxToXml bool, opts ...archive.Option) (string, error) {
	res, err := ExtractPak(src, dir, yaxToXml, hostOptions(opts)...)
	if err != nil {
		return "", err
	}

	return PathsJSON(res.Paths)
}

// PathsJSON serializes paths as a JSON array; nil becomes "[]".
func PathsJSON(paths []string) (string, error) {
	if paths == nil {
		paths = []string{}
	}

	b, err := json.Marshal(paths)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// hostOptions puts the process logger ahead of opts, so a caller's WithLogger still wins.
func hostOptions(opts []archive.Option) []archive.Option {
	return append([]archive.Option{archive.WithLogger(slog.Default())}, opts...)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIo, err)
	}

	return data, nil
}

func writeFile(dst string, fn func(io.Writer) error) error {
	sink, err := archive.NewSink(filepath.Dir(dst))
	if err != nil {
		return err
	}
	_, err = sink.WriteFunc(filepath.Base(dst), fn)

	return err
}
