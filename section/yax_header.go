package section

import (
	"fmt"

	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/format"
)

// YaxHeader represents the fixed-size header of a YAX tree.
type YaxHeader struct {
	// TotalSize is the declared length of the whole tree, header included.
	TotalSize uint32 // byte offset 4-7
	// NodeCount is the number of node records following the header.
	NodeCount uint32 // byte offset 8-11
	// RootIndex is the node table index of the root node.
	RootIndex uint32 // byte offset 12-15
	// BlobOffset is the absolute offset of the out-of-line value region.
	BlobOffset uint32 // byte offset 16-19
	// BlobSize is the size of the out-of-line value region.
	BlobSize uint32 // byte offset 20-23
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least 24 bytes)
//
// Returns:
//   - error: ErrBadMagic for a foreign buffer, ErrInvalidHeaderSize wrapping ErrOutOfBounds for
//     a truncated header
func (h *YaxHeader) Parse(data []byte) error {
	if err := checkHeader(data, MagicYAX, YaxHeaderSize, "YAX"); err != nil {
		return err
	}

	engine := endian.GetLittleEndianEngine()
	h.TotalSize = engine.Uint32(data[4:8])
	h.NodeCount = engine.Uint32(data[8:12])
	h.RootIndex = engine.Uint32(data[12:16])
	h.BlobOffset = engine.Uint32(data[16:20])
	h.BlobSize = engine.Uint32(data[20:24])

	return nil
}

// Bytes serializes the YaxHeader into a byte slice.
func (h *YaxHeader) Bytes() []byte {
	b := make([]byte, YaxHeaderSize)
	engine := endian.GetLittleEndianEngine()

	copy(b[0:4], MagicYAX[:])
	engine.PutUint32(b[4:8], h.TotalSize)
	engine.PutUint32(b[8:12], h.NodeCount)
	engine.PutUint32(b[12:16], h.RootIndex)
	engine.PutUint32(b[16:20], h.BlobOffset)
	engine.PutUint32(b[20:24], h.BlobSize)

	return b
}

// Validate checks the declared sections against the real buffer length.
func (h *YaxHeader) Validate(bufLen int) error {
	if uint64(h.TotalSize) > uint64(bufLen) {
		return errs.OutOfBounds("declared size", 0, uint64(h.TotalSize), bufLen)
	}

	tableEnd := uint64(YaxHeaderSize) + uint64(h.NodeCount)*YaxNodeSize
	if tableEnd > uint64(h.TotalSize) {
		return errs.OutOfBounds("node table", YaxHeaderSize, uint64(h.NodeCount)*YaxNodeSize, int(h.TotalSize))
	}

	blobEnd := uint64(h.BlobOffset) + uint64(h.BlobSize)
	if uint64(h.BlobOffset) < tableEnd || blobEnd > uint64(h.TotalSize) {
		return errs.OutOfBounds("blob region", uint64(h.BlobOffset), uint64(h.BlobSize), int(h.TotalSize))
	}

	if h.NodeCount > 0 && h.RootIndex >= h.NodeCount {
		return fmt.Errorf("%w: root index %d of %d nodes", errs.ErrOutOfBounds, h.RootIndex, h.NodeCount)
	}

	return nil
}

// ParseYaxHeader parses and validates a YaxHeader against data.
func ParseYaxHeader(data []byte) (YaxHeader, error) {
	h := YaxHeader{}
	if err := h.Parse(data); err != nil {
		return YaxHeader{}, err
	}
	if err := h.Validate(len(data)); err != nil {
		return YaxHeader{}, err
	}

	return h, nil
}

// YaxNode is the 20-byte record of one node in the YAX node table.
//
// Value holds the value itself for inline types and a blob-relative offset otherwise.
type YaxNode struct {
	Tag        uint32           // bytes 0-3
	ValueType  format.ValueType // byte 4
	Flags      uint8            // byte 5, reserved
	Reserved   uint16           // bytes 6-7
	FirstChild uint32           // bytes 8-11
	ChildCount uint32           // bytes 12-15
	Value      uint32           // bytes 16-19
}

// WriteToSlice writes the node record to b, which must hold at least 20 bytes.
func (n *YaxNode) WriteToSlice(b []byte, engine endian.EndianEngine) error {
	if len(b) < YaxNodeSize {
		return errs.ErrInvalidHeaderSize
	}

	engine.PutUint32(b[0:4], n.Tag)
	b[4] = uint8(n.ValueType)
	b[5] = n.Flags
	engine.PutUint16(b[6:8], n.Reserved)
	engine.PutUint32(b[8:12], n.FirstChild)
	engine.PutUint32(b[12:16], n.ChildCount)
	engine.PutUint32(b[16:20], n.Value)

	return nil
}

// ParseYaxNode parses a node record from a byte slice.
func ParseYaxNode(data []byte, engine endian.EndianEngine) (YaxNode, error) {
	if len(data) < YaxNodeSize {
		return YaxNode{}, errs.ErrInvalidHeaderSize
	}

	return YaxNode{
		Tag:        engine.Uint32(data[0:4]),
		ValueType:  format.ValueType(data[4]),
		Flags:      data[5],
		Reserved:   engine.Uint16(data[6:8]),
		FirstChild: engine.Uint32(data[8:12]),
		ChildCount: engine.Uint32(data[12:16]),
		Value:      engine.Uint32(data[16:20]),
	}, nil
}
