package yax

import (
	"fmt"

	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/format"
	"github.com/arloliu/nierarc/section"
)

// IsYax reports whether data starts with the YAX signature.
func IsYax(data []byte) bool {
	return section.HasMagic(data, section.MagicYAX)
}

// Decoder rebuilds a Document from an encoded YAX tree.
//
// Every offset and length read from the input is checked against the buffer before it is
// dereferenced; violations yield errs.ErrOutOfBounds. The decoder keeps no state beyond
// one Decode call.
//
// Note: The Decoder is NOT thread-safe and NOT reusable.
type Decoder struct {
	view    endian.View
	header  section.YaxHeader
	records []section.YaxNode
	visited []bool
	blob    endian.View
}

// NewDecoder parses and validates the header of data.
//
// Returns:
//   - *Decoder: Decoder ready for Decode
//   - error: ErrBadMagic for a foreign buffer, ErrOutOfBounds for truncated or corrupt input
func NewDecoder(data []byte) (*Decoder, error) {
	header, err := section.ParseYaxHeader(data)
	if err != nil {
		return nil, err
	}

	data = data[:header.TotalSize]

	return &Decoder{
		view:   endian.NewView(data),
		header: header,
		blob:   endian.NewView(data[header.BlobOffset : header.BlobOffset+header.BlobSize]),
	}, nil
}

// Decode decodes a YAX tree into a Document.
func Decode(data []byte) (*Document, error) {
	d, err := NewDecoder(data)
	if err != nil {
		return nil, err
	}

	return d.Decode()
}

// Decode walks the node table from the root and returns the tree.
//
// Returns:
//   - *Document: Decoded document (a nil Root for an empty tree)
//   - error: ErrOutOfBounds for offsets outside the buffer, ErrMalformed for unknown
//     value types and for nodes that are unreachable or referenced more than once
func (d *Decoder) Decode() (*Document, error) {
	if d.header.NodeCount == 0 {
		return &Document{}, nil
	}

	if err := d.parseRecords(); err != nil {
		return nil, err
	}

	root, err := d.decodeNode(d.header.RootIndex)
	if err != nil {
		return nil, err
	}

	for i, seen := range d.visited {
		if !seen {
			return nil, fmt.Errorf("%w: node %d is unreachable from the root", errs.ErrMalformed, i)
		}
	}

	return &Document{Root: &root}, nil
}

func (d *Decoder) parseRecords() error {
	count := d.header.NodeCount
	table, err := d.view.Slice("node table", section.YaxHeaderSize, uint64(count)*section.YaxNodeSize)
	if err != nil {
		return err
	}

	engine := endian.GetLittleEndianEngine()
	d.records = make([]section.YaxNode, count)
	d.visited = make([]bool, count)
	for i := range d.records {
		rec, err := section.ParseYaxNode(table[i*section.YaxNodeSize:], engine)
		if err != nil {
			return err
		}
		d.records[i] = rec
	}

	return nil
}

func (d *Decoder) decodeNode(idx uint32) (Node, error) {
	if d.visited[idx] {
		return Node{}, fmt.Errorf("%w: node %d is referenced more than once", errs.ErrMalformed, idx)
	}
	d.visited[idx] = true

	rec := d.records[idx]
	value, err := d.decodeValue(idx, rec)
	if err != nil {
		return Node{}, err
	}

	node := Node{Tag: rec.Tag, Value: value}
	if rec.ChildCount == 0 {
		return node, nil
	}

	end := uint64(rec.FirstChild) + uint64(rec.ChildCount)
	if end > uint64(d.header.NodeCount) {
		return Node{}, fmt.Errorf("%w: node %d children [%d, +%d) exceed %d nodes",
			errs.ErrOutOfBounds, idx, rec.FirstChild, rec.ChildCount, d.header.NodeCount)
	}

	node.Children = make([]Node, rec.ChildCount)
	for i := range node.Children {
		child, err := d.decodeNode(rec.FirstChild + uint32(i)) //nolint:gosec
		if err != nil {
			return Node{}, err
		}
		node.Children[i] = child
	}

	return node, nil
}

func (d *Decoder) decodeValue(idx uint32, rec section.YaxNode) (Value, error) {
	typ := rec.ValueType
	switch {
	case !typ.Valid():
		return Value{}, fmt.Errorf("%w: node %d has unknown value type 0x%02x", errs.ErrMalformed, idx, uint8(typ))
	case typ == format.TypeNone:
		return Value{}, nil
	case typ.Inline():
		return fromBits(typ, uint64(rec.Value)), nil
	}

	offset := uint64(rec.Value)
	switch typ { //nolint:exhaustive
	case format.TypeInt64, format.TypeUint64:
		bits, err := d.blob.Uint64(offset)
		if err != nil {
			return Value{}, fmt.Errorf("node %d value: %w", idx, err)
		}

		return fromBits(typ, bits), nil
	default:
		length, err := d.blob.Uint32(offset)
		if err != nil {
			return Value{}, fmt.Errorf("node %d value length: %w", idx, err)
		}
		payload, err := d.blob.Slice("value payload", offset+4, uint64(length))
		if err != nil {
			return Value{}, fmt.Errorf("node %d value: %w", idx, err)
		}
		if typ == format.TypeBytes {
			return Bytes(payload), nil
		}

		return decodedString(payload), nil
	}
}
