package yax

import (
	"fmt"
	"math"

	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/format"
	"github.com/arloliu/nierarc/hashname"
	"github.com/arloliu/nierarc/internal/options"
	"github.com/arloliu/nierarc/internal/pool"
	"github.com/arloliu/nierarc/section"
)

// EncoderConfig holds the options of one Encode call.
type EncoderConfig struct {
	strictTags *hashname.Table
}

// EncoderOption configures Encode.
type EncoderOption = options.Option[*EncoderConfig]

// WithStrictTags makes Encode reject tag hashes that table cannot name.
func WithStrictTags(table *hashname.Table) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if table == nil {
			return fmt.Errorf("strict tags: nil table")
		}
		c.strictTags = table

		return nil
	})
}

// Encoder lays a Document out as a YAX tree.
//
// Node order: the root takes index 0; visiting a node allocates one contiguous block for
// all of its children, then each child is visited in order. Out-of-line values are
// appended to the blob in node index order. Decoding the output and encoding it again
// yields the same bytes.
type Encoder struct {
	cfg     *EncoderConfig
	engine  endian.EndianEngine
	records []section.YaxNode
	nodes   []*Node
}

// NewEncoder creates an encoder with the given options.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := &EncoderConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg, engine: endian.GetLittleEndianEngine()}, nil
}

// Encode encodes doc with the given options.
func Encode(doc *Document, opts ...EncoderOption) ([]byte, error) {
	e, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return e.Encode(doc)
}

// Encode encodes doc into a new byte slice. The encoder may be reused afterwards.
//
// Returns:
//   - []byte: Encoded tree
//   - error: ErrUnknownTagHash in strict mode, ErrOutOfBounds when the tree exceeds the
//     32-bit limits of the format
func (e *Encoder) Encode(doc *Document) ([]byte, error) {
	e.records = e.records[:0]
	e.nodes = e.nodes[:0]

	if doc != nil && doc.Root != nil {
		if err := e.push(doc.Root); err != nil {
			return nil, err
		}
		if err := e.layout(0); err != nil {
			return nil, err
		}
	}

	blob := pool.GetTreeBuffer()
	defer pool.PutTreeBuffer(blob)

	for i, n := range e.nodes {
		if err := e.writeValue(&e.records[i], n.Value, blob); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}

	tableSize := uint64(len(e.records)) * section.YaxNodeSize
	total := uint64(section.YaxHeaderSize) + tableSize + uint64(blob.Len())
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("%w: encoded tree needs %d bytes", errs.ErrOutOfBounds, total)
	}

	blobOffset := uint64(section.YaxHeaderSize) + tableSize
	header := section.YaxHeader{
		TotalSize:  uint32(total),
		NodeCount:  uint32(len(e.records)),
		BlobOffset: uint32(blobOffset),
		BlobSize:   uint32(blob.Len()),
	}

	out := make([]byte, total)
	copy(out, header.Bytes())
	for i := range e.records {
		off := section.YaxHeaderSize + i*section.YaxNodeSize
		if err := e.records[i].WriteToSlice(out[off:], e.engine); err != nil {
			return nil, err
		}
	}
	copy(out[header.BlobOffset:], blob.Bytes())

	return out, nil
}

func (e *Encoder) push(n *Node) error {
	if e.cfg.strictTags != nil && !e.cfg.strictTags.Contains(n.Tag) {
		return fmt.Errorf("%w: 0x%08x", errs.ErrUnknownTagHash, n.Tag)
	}
	if uint64(len(e.records)) >= math.MaxUint32 {
		return fmt.Errorf("%w: too many nodes", errs.ErrOutOfBounds)
	}

	e.records = append(e.records, section.YaxNode{Tag: n.Tag})
	e.nodes = append(e.nodes, n)

	return nil
}

func (e *Encoder) layout(idx int) error {
	n := e.nodes[idx]
	if len(n.Children) == 0 {
		return nil
	}

	first := len(e.records)
	e.records[idx].FirstChild = uint32(first)           //nolint:gosec
	e.records[idx].ChildCount = uint32(len(n.Children)) //nolint:gosec
	for i := range n.Children {
		if err := e.push(&n.Children[i]); err != nil {
			return err
		}
	}
	for i := range n.Children {
		if err := e.layout(first + i); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) writeValue(rec *section.YaxNode, v Value, blob *pool.ByteBuffer) error {
	rec.ValueType = v.Type()
	if v.IsNone() {
		return nil
	}
	if v.Type().Inline() {
		rec.Value = uint32(v.Bits()) //nolint:gosec
		return nil
	}

	if uint64(blob.Len()) > math.MaxUint32 {
		return fmt.Errorf("%w: value region exceeds 4 GiB", errs.ErrOutOfBounds)
	}
	rec.Value = uint32(blob.Len()) //nolint:gosec

	switch v.Type() { //nolint:exhaustive
	case format.TypeInt64, format.TypeUint64:
		blob.B = e.engine.AppendUint64(blob.B, v.Bits())
	case format.TypeBytes:
		raw, _ := v.Raw()
		blob.B = e.engine.AppendUint32(blob.B, uint32(len(raw))) //nolint:gosec
		blob.MustWrite(raw)
	case format.TypeString:
		encoded := v.raw
		if encoded == nil {
			text, _ := v.Text()
			var err error
			if encoded, err = encodeText(text); err != nil {
				return err
			}
		}
		blob.B = e.engine.AppendUint32(blob.B, uint32(len(encoded))) //nolint:gosec
		blob.MustWrite(encoded)
	default:
		return fmt.Errorf("%w: unsupported value type %s", errs.ErrMalformed, v.Type())
	}

	return nil
}
