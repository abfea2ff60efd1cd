package section

import (
	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
)

// PakHeader represents the fixed-size header at the start of a PAK container.
type PakHeader struct {
	FileCount     uint32    // byte offset 4-7
	EntriesOffset uint32    // byte offset 8-11, start of the 12-byte entry records
	NamesOffset   uint32    // byte offset 12-15, start of the name table
	SizesOffset   uint32    // byte offset 16-19, stored (on-disk) payload sizes
	Reserved      [3]uint32 // byte offset 20-31
}

// Parse parses the header from a byte slice.
//
// Returns:
//   - error: ErrBadMagic if the signature does not match (short foreign buffers included),
//     ErrInvalidHeaderSize wrapping ErrOutOfBounds if the header is truncated
func (h *PakHeader) Parse(data []byte) error {
	if err := checkHeader(data, MagicPAK, PakHeaderSize, "PAK"); err != nil {
		return err
	}

	engine := endian.GetLittleEndianEngine()
	h.FileCount = engine.Uint32(data[4:8])
	h.EntriesOffset = engine.Uint32(data[8:12])
	h.NamesOffset = engine.Uint32(data[12:16])
	h.SizesOffset = engine.Uint32(data[16:20])
	for i := range h.Reserved {
		h.Reserved[i] = engine.Uint32(data[20+i*4:])
	}

	return nil
}

// Bytes serializes the PakHeader into a byte slice.
func (h *PakHeader) Bytes() []byte {
	b := make([]byte, PakHeaderSize)
	engine := endian.GetLittleEndianEngine()

	copy(b[0:4], MagicPAK[:])
	engine.PutUint32(b[4:8], h.FileCount)
	engine.PutUint32(b[8:12], h.EntriesOffset)
	engine.PutUint32(b[12:16], h.NamesOffset)
	engine.PutUint32(b[16:20], h.SizesOffset)
	for i, r := range h.Reserved {
		engine.PutUint32(b[20+i*4:], r)
	}

	return b
}

// ParsePakHeader parses a PakHeader from a byte slice.
func ParsePakHeader(data []byte) (PakHeader, error) {
	h := PakHeader{}
	if err := h.Parse(data); err != nil {
		return PakHeader{}, err
	}

	return h, nil
}

// PakEntry is the 12-byte per-entry record of a PAK container.
//
// A payload is zlib-compressed when UncompressedSize exceeds its stored size; in that
// case the payload begins with a u32 holding the compressed stream length.
type PakEntry struct {
	Type             uint32 // bytes 0-3, opaque game type id
	UncompressedSize uint32 // bytes 4-7
	Offset           uint32 // bytes 8-11, absolute payload offset
}

// WriteToSlice writes the entry to b, which must hold at least 12 bytes.
func (e *PakEntry) WriteToSlice(b []byte, engine endian.EndianEngine) error {
	if len(b) < PakEntrySize {
		return errs.ErrInvalidHeaderSize
	}

	engine.PutUint32(b[0:4], e.Type)
	engine.PutUint32(b[4:8], e.UncompressedSize)
	engine.PutUint32(b[8:12], e.Offset)

	return nil
}

// ParsePakEntry parses a PakEntry from a byte slice.
func ParsePakEntry(data []byte, engine endian.EndianEngine) (PakEntry, error) {
	if len(data) < PakEntrySize {
		return PakEntry{}, errs.ErrInvalidHeaderSize
	}

	return PakEntry{
		Type:             engine.Uint32(data[0:4]),
		UncompressedSize: engine.Uint32(data[4:8]),
		Offset:           engine.Uint32(data[8:12]),
	}, nil
}
