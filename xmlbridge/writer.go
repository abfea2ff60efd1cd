package xmlbridge

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/arloliu/nierarc/format"
	"github.com/arloliu/nierarc/hashname"
	"github.com/arloliu/nierarc/yax"
)

// Writer renders documents as XML. A Writer is immutable and safe for concurrent use.
type Writer struct {
	cfg *config
}

// NewWriter creates a Writer with the given options.
func NewWriter(opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Writer{cfg: cfg}, nil
}

// Tokens returns the element tokens of doc using the default name table.
func Tokens(doc *yax.Document) iter.Seq[xml.Token] {
	return (&Writer{cfg: &config{table: hashname.Default()}}).Tokens(doc)
}

// Write writes doc to w as an indented XML document.
func Write(w io.Writer, doc *yax.Document, opts ...Option) error {
	wr, err := NewWriter(opts...)
	if err != nil {
		return err
	}

	return wr.Write(w, doc)
}

// Marshal returns the XML form of doc.
func Marshal(doc *yax.Document, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, opts...); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Tokens lazily yields start, text and end tokens of doc in document order. Nothing is
// produced for an empty document.
func (wr *Writer) Tokens(doc *yax.Document) iter.Seq[xml.Token] {
	return func(yield func(xml.Token) bool) {
		if doc == nil || doc.Root == nil {
			return
		}
		wr.emit(doc.Root, yield)
	}
}

// Write streams the tokens of doc through an xml.Encoder, preceded by the XML declaration.
func (wr *Writer) Write(w io.Writer, doc *yax.Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	for tok := range wr.Tokens(doc) {
		if err := enc.EncodeToken(tok); err != nil {
			return fmt.Errorf("write xml: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}

	if doc != nil && doc.Root != nil {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return fmt.Errorf("write xml: %w", err)
		}
	}

	return nil
}

func (wr *Writer) emit(n *yax.Node, yield func(xml.Token) bool) bool {
	start := xml.StartElement{Name: xml.Name{Local: wr.cfg.table.Resolve(n.Tag)}}

	var text string
	if !n.Value.IsNone() {
		vt := formatValue(n.Value)
		if vt.typ != "" {
			start.Attr = append(start.Attr, attr(attrType, vt.typ))
		}
		if vt.base64 {
			start.Attr = append(start.Attr, attr(attrEnc, encBase64))
		}
		if len(n.Children) > 0 {
			start.Attr = append(start.Attr, attr(attrValue, vt.text))
		} else {
			text = vt.text
		}
		if wr.cfg.annotations {
			if name, ok := wr.hashName(n.Value); ok {
				start.Attr = append(start.Attr, attr(attrStr, name))
			}
		}
	}
	if wr.cfg.annotations {
		if _, ok := wr.cfg.table.Lookup(n.Tag); !ok {
			start.Attr = append(start.Attr, attr(attrID, fmt.Sprintf("0x%08x", n.Tag)))
		}
	}

	if !yield(start) {
		return false
	}
	if text != "" && !yield(xml.CharData(text)) {
		return false
	}
	for i := range n.Children {
		if !wr.emit(&n.Children[i], yield) {
			return false
		}
	}

	return yield(start.End())
}

// hashName resolves text values of the form 0x1234abcd that name a known tag.
func (wr *Writer) hashName(v yax.Value) (string, bool) {
	if v.Type() != format.TypeString {
		return "", false
	}
	s, _ := v.Text()
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok || len(digits) == 0 || len(digits) > 8 {
		return "", false
	}
	tag, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return "", false
	}

	return wr.cfg.table.Lookup(uint32(tag))
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
