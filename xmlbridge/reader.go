package xmlbridge

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/hashname"
	"github.com/arloliu/nierarc/yax"
)

// Reader parses XML produced by Writer (or edited by hand) back into documents.
type Reader struct {
	cfg *config
}

// NewReader creates a Reader with the given options. Annotation options are ignored.
func NewReader(opts ...Option) (*Reader, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Reader{cfg: cfg}, nil
}

// Read parses one XML document from r.
func Read(r io.Reader, opts ...Option) (*yax.Document, error) {
	rd, err := NewReader(opts...)
	if err != nil {
		return nil, err
	}

	return rd.Read(r)
}

// Unmarshal parses one XML document from data.
func Unmarshal(data []byte, opts ...Option) (*yax.Document, error) {
	return Read(bytes.NewReader(data), opts...)
}

// Read parses one XML document. The whole document must be well formed; no partial tree
// is ever returned.
//
// Returns:
//   - *yax.Document: Parsed document (a nil Root when the input has no element)
//   - error: *errs.MalformedError for broken or unexpected markup, errs.ErrUnknownTagName
//     for element names that neither the table nor the placeholder form can resolve
func (rd *Reader) Read(r io.Reader) (*yax.Document, error) {
	p := &parser{dec: xml.NewDecoder(r), table: rd.cfg.table}

	return p.document()
}

type parser struct {
	dec   *xml.Decoder
	table *hashname.Table
	line  int
	col   int
}

// next returns the next token, remembering where it starts.
func (p *parser) next() (xml.Token, error) {
	p.line, p.col = p.dec.InputPos()

	tok, err := p.dec.Token()
	if err == nil || errors.Is(err, io.EOF) {
		return tok, err
	}

	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		line, col := p.dec.InputPos()
		return nil, &errs.MalformedError{Line: line, Column: col, Reason: syntax.Msg}
	}

	return nil, fmt.Errorf("%w: read xml: %w", errs.ErrIo, err)
}

func (p *parser) malformed(line, col int, format string, args ...any) error {
	return &errs.MalformedError{Line: line, Column: col, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) document() (*yax.Document, error) {
	var root *yax.Node
	for {
		tok, err := p.next()
		if errors.Is(err, io.EOF) {
			return &yax.Document{Root: root}, nil
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, p.malformed(p.line, p.col, "second root element <%s>", t.Name.Local)
			}
			node, err := p.element(t, p.line, p.col)
			if err != nil {
				return nil, err
			}
			root = &node
		case xml.CharData:
			if !isBlank(string(t)) {
				return nil, p.malformed(p.line, p.col, "text outside the root element")
			}
		case xml.Directive:
			return nil, p.malformed(p.line, p.col, "unexpected directive")
		}
	}
}

// elementAttrs holds the recognized attributes of one element.
type elementAttrs struct {
	typ      string
	base64   bool
	value    string
	hasValue bool
}

func (p *parser) attrs(start xml.StartElement, line, col int) (elementAttrs, error) {
	var a elementAttrs
	for _, at := range start.Attr {
		if at.Name.Space != "" {
			return a, p.malformed(line, col, "unknown attribute %s:%s on <%s>", at.Name.Space, at.Name.Local, start.Name.Local)
		}

		switch at.Name.Local {
		case attrType:
			a.typ = at.Value
		case attrEnc:
			if at.Value != encBase64 {
				return a, p.malformed(line, col, "unknown encoding %q on <%s>", at.Value, start.Name.Local)
			}
			a.base64 = true
		case attrValue:
			a.value, a.hasValue = at.Value, true
		case attrStr, attrID:
			// annotations only
		default:
			return a, p.malformed(line, col, "unknown attribute %q on <%s>", at.Name.Local, start.Name.Local)
		}
	}

	return a, nil
}

func (p *parser) element(start xml.StartElement, line, col int) (yax.Node, error) {
	if start.Name.Space != "" {
		return yax.Node{}, p.malformed(line, col, "namespaced element %s:%s", start.Name.Space, start.Name.Local)
	}

	tag, err := p.table.Reverse(start.Name.Local)
	if err != nil {
		return yax.Node{}, fmt.Errorf("line %d, column %d: %w", line, col, err)
	}

	a, err := p.attrs(start, line, col)
	if err != nil {
		return yax.Node{}, err
	}

	node := yax.Node{Tag: tag}
	var text strings.Builder
	for done := false; !done; {
		tok, err := p.next()
		if errors.Is(err, io.EOF) {
			return yax.Node{}, p.malformed(p.line, p.col, "unexpected end of input inside <%s>", start.Name.Local)
		}
		if err != nil {
			return yax.Node{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := p.element(t, p.line, p.col)
			if err != nil {
				return yax.Node{}, err
			}
			node.Children = append(node.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			done = true
		case xml.Directive:
			return yax.Node{}, p.malformed(p.line, p.col, "unexpected directive inside <%s>", start.Name.Local)
		}
	}

	switch {
	case a.hasValue:
		if !isBlank(text.String()) {
			return yax.Node{}, p.malformed(line, col, "<%s> has both a value attribute and text", start.Name.Local)
		}
		node.Value, err = parseValue(a.value, a.typ, a.base64)
	case len(node.Children) > 0:
		if !isBlank(text.String()) {
			return yax.Node{}, p.malformed(line, col, "<%s> mixes text and child elements", start.Name.Local)
		}
		if a.typ != "" || a.base64 {
			return yax.Node{}, p.malformed(line, col, "<%s> has children and a type but no value", start.Name.Local)
		}
	case a.typ == "" && !a.base64 && isBlank(text.String()):
		// no value
	default:
		node.Value, err = parseValue(text.String(), a.typ, a.base64)
	}
	if err != nil {
		return yax.Node{}, p.malformed(line, col, "<%s>: %v", start.Name.Local, err)
	}

	return node, nil
}
