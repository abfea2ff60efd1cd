package section

import (
	"bytes"
	"fmt"

	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
)

// ParseNameTable reads count fixed-width names from the table at offset.
//
// The table starts with a u32 stride; each name occupies stride bytes and ends at the
// first NUL.
func ParseNameTable(view endian.View, offset uint32, count uint32) ([]string, error) {
	stride, err := view.Uint32(uint64(offset))
	if err != nil {
		return nil, fmt.Errorf("name table stride: %w", err)
	}

	start := uint64(offset) + NameStrideSize
	raw, err := view.Slice("name table", start, uint64(stride)*uint64(count))
	if err != nil {
		return nil, err
	}

	names := make([]string, count)
	for i := range names {
		slot := raw[uint64(i)*uint64(stride) : uint64(i+1)*uint64(stride)]
		if n := bytes.IndexByte(slot, 0); n >= 0 {
			slot = slot[:n]
		}
		names[i] = string(slot)
	}

	return names, nil
}

// NameTableSize returns the encoded size of a name table holding names.
func NameTableSize(names []string) int {
	return NameStrideSize + nameStride(names)*len(names)
}

// AppendNameTable appends the encoded name table for names to buf.
//
// The stride is the longest name plus its NUL terminator. Names must be non-empty and
// must not contain NUL bytes.
func AppendNameTable(buf []byte, names []string) ([]byte, error) {
	for _, name := range names {
		if name == "" || bytes.IndexByte([]byte(name), 0) >= 0 {
			return buf, fmt.Errorf("%w: %q", errs.ErrInvalidEntryName, name)
		}
	}

	stride := nameStride(names)
	buf = endian.GetLittleEndianEngine().AppendUint32(buf, uint32(stride)) //nolint:gosec
	for _, name := range names {
		buf = append(buf, name...)
		buf = append(buf, make([]byte, stride-len(name))...)
	}

	return buf, nil
}

func nameStride(names []string) int {
	longest := 0
	for _, name := range names {
		longest = max(longest, len(name))
	}

	return longest + 1
}

// ParseExtensionTable reads count 4-byte extension slots at offset.
func ParseExtensionTable(view endian.View, offset uint32, count uint32) ([]string, error) {
	raw, err := view.Slice("extension table", uint64(offset), uint64(count)*ExtensionSize)
	if err != nil {
		return nil, err
	}

	exts := make([]string, count)
	for i := range exts {
		slot := raw[i*ExtensionSize : (i+1)*ExtensionSize]
		if n := bytes.IndexByte(slot, 0); n >= 0 {
			slot = slot[:n]
		}
		exts[i] = string(slot)
	}

	return exts, nil
}

// AppendExtensionTable appends one NUL padded 4-byte slot per extension.
// Extensions longer than three bytes are truncated, as in the game tables.
func AppendExtensionTable(buf []byte, exts []string) []byte {
	for _, ext := range exts {
		var slot [ExtensionSize]byte
		copy(slot[:ExtensionSize-1], ext)
		buf = append(buf, slot[:]...)
	}

	return buf
}
