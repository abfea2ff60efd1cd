package section

import "github.com/arloliu/nierarc/endian"

// DatHeader represents the fixed-size header at the start of a DAT archive.
//
// Every offset is absolute within the archive buffer.
type DatHeader struct {
	// FileCount is the number of entries stored in the archive.
	FileCount uint32 // byte offset 4-7
	// OffsetsTableOffset locates the u32 payload offset of each entry.
	OffsetsTableOffset uint32 // byte offset 8-11
	// ExtensionsTableOffset locates the 4-byte NUL padded extension of each entry.
	ExtensionsTableOffset uint32 // byte offset 12-15
	// NamesTableOffset locates the name table (u32 stride + fixed width names).
	NamesTableOffset uint32 // byte offset 16-19
	// SizesTableOffset locates the u32 payload size of each entry.
	SizesTableOffset uint32 // byte offset 20-23
	// HashMapOffset locates the name lookup index. Zero when absent.
	HashMapOffset uint32 // byte offset 24-27
	// Reserved must round-trip untouched.
	Reserved uint32 // byte offset 28-31
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least 32 bytes)
//
// Returns:
//   - error: ErrBadMagic if the signature does not match (short foreign buffers included),
//     ErrInvalidHeaderSize wrapping ErrOutOfBounds if the header is truncated
func (h *DatHeader) Parse(data []byte) error {
	if err := checkHeader(data, MagicDAT, DatHeaderSize, "DAT"); err != nil {
		return err
	}

	engine := endian.GetLittleEndianEngine()
	h.FileCount = engine.Uint32(data[4:8])
	h.OffsetsTableOffset = engine.Uint32(data[8:12])
	h.ExtensionsTableOffset = engine.Uint32(data[12:16])
	h.NamesTableOffset = engine.Uint32(data[16:20])
	h.SizesTableOffset = engine.Uint32(data[20:24])
	h.HashMapOffset = engine.Uint32(data[24:28])
	h.Reserved = engine.Uint32(data[28:32])

	return nil
}

// Bytes serializes the DatHeader into a byte slice.
func (h *DatHeader) Bytes() []byte {
	b := make([]byte, DatHeaderSize)
	engine := endian.GetLittleEndianEngine()

	copy(b[0:4], MagicDAT[:])
	engine.PutUint32(b[4:8], h.FileCount)
	engine.PutUint32(b[8:12], h.OffsetsTableOffset)
	engine.PutUint32(b[12:16], h.ExtensionsTableOffset)
	engine.PutUint32(b[16:20], h.NamesTableOffset)
	engine.PutUint32(b[20:24], h.SizesTableOffset)
	engine.PutUint32(b[24:28], h.HashMapOffset)
	engine.PutUint32(b[28:32], h.Reserved)

	return b
}

// ParseDatHeader parses a DatHeader from a byte slice.
func ParseDatHeader(data []byte) (DatHeader, error) {
	h := DatHeader{}
	if err := h.Parse(data); err != nil {
		return DatHeader{}, err
	}

	return h, nil
}
