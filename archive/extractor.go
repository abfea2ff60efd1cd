package archive

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/xmlbridge"
	"github.com/arloliu/nierarc/yax"
)

// Extractor writes the entries of one container into one directory.
//
// Note: The Extractor is NOT thread-safe; concurrent extractions each use their own.
type Extractor struct {
	cfg  *Config
	sink *Sink
	xml  *xmlbridge.Writer
}

// NewExtractor prepares extraction into dir.
//
// Returns:
//   - *Extractor: Extractor bound to dir
//   - error: ErrNestingTooDeep when the configured depth reaches MaxNestingDepth, or a
//     failure creating dir
func NewExtractor(dir string, opts ...Option) (*Extractor, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if cfg.depth >= MaxNestingDepth {
		return nil, fmt.Errorf("%w: depth %d, limit %d", errs.ErrNestingTooDeep, cfg.depth, MaxNestingDepth)
	}

	xw, err := xmlbridge.NewWriter(cfg.XMLOptions()...)
	if err != nil {
		return nil, err
	}

	sink, err := NewSink(dir)
	if err != nil {
		return nil, err
	}

	return &Extractor{cfg: cfg, sink: sink, xml: xw}, nil
}

// Config returns the extraction settings.
func (x *Extractor) Config() *Config {
	return x.cfg
}

// Dir returns the destination directory.
func (x *Extractor) Dir() string {
	return x.sink.Dir()
}

// WriteRaw writes an entry payload unchanged.
func (x *Extractor) WriteRaw(e Entry, data []byte) (string, error) {
	p, err := x.sink.WriteFile(e.Name, data)
	if err != nil {
		return "", err
	}
	x.cfg.logger.Debug("extracted entry", "index", e.Index, "name", e.Name, "kind", e.Kind, "path", p)

	return p, nil
}

// WriteYaxAsXML decodes a YAX payload and writes its XML form under the entry name with
// the extension replaced by ".xml". The tree is decoded before any file is created.
func (x *Extractor) WriteYaxAsXML(e Entry, data []byte) (string, error) {
	// reject the name before spending time on the decode
	if _, err := LocalName(e.Name); err != nil {
		return "", err
	}

	doc, err := yax.Decode(data)
	if err != nil {
		return "", err
	}

	p, err := x.sink.WriteFunc(XMLName(e.Name), func(w io.Writer) error {
		return x.xml.Write(w, doc)
	})
	if err != nil {
		return "", err
	}
	x.cfg.logger.Debug("converted entry", "index", e.Index, "name", e.Name, "nodes", doc.NodeCount(), "path", p)

	return p, nil
}

// Fail logs a failed entry and records it in res.
func (x *Extractor) Fail(res *Result, e Entry, err error) {
	x.cfg.logger.Warn("entry failed", slog.Int("index", e.Index), slog.String("name", e.Name), slog.Any("error", err))
	res.Fail(e.Index, e.Name, err)
}

// XMLName replaces the extension of an entry name with ".xml".
func XMLName(name string) string {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	ext := filepath.Ext(base)
	if ext == base {
		ext = ""
	}

	return strings.TrimSuffix(name, ext) + ".xml"
}
