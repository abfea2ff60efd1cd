package endian

import (
	"github.com/arloliu/nierarc/errs"
)

// View is a bounds-checked, read-only window over a byte buffer.
//
// All accessors take absolute offsets and return errs.ErrOutOfBounds instead of
// panicking when the requested range does not fit, so decoders can dereference
// offsets read from untrusted input directly.
type View struct {
	data   []byte
	engine EndianEngine
}

// NewView creates a little-endian view over data.
func NewView(data []byte) View {
	return View{data: data, engine: GetLittleEndianEngine()}
}

// Len returns the size of the underlying buffer.
func (v View) Len() int {
	return len(v.data)
}

// Bytes returns the underlying buffer.
func (v View) Bytes() []byte {
	return v.data
}

// Check verifies that [offset, offset+length) lies within the buffer.
func (v View) Check(what string, offset, length uint64) error {
	end := offset + length
	if end < offset || end > uint64(len(v.data)) {
		return errs.OutOfBounds(what, offset, length, len(v.data))
	}

	return nil
}

// Slice returns data[offset:offset+length] without copying.
func (v View) Slice(what string, offset, length uint64) ([]byte, error) {
	if err := v.Check(what, offset, length); err != nil {
		return nil, err
	}

	return v.data[offset : offset+length], nil
}

// Uint8 reads the byte at offset.
func (v View) Uint8(offset uint64) (uint8, error) {
	if err := v.Check("u8", offset, 1); err != nil {
		return 0, err
	}

	return v.data[offset], nil
}

// Uint16 reads a uint16 at offset.
func (v View) Uint16(offset uint64) (uint16, error) {
	if err := v.Check("u16", offset, 2); err != nil {
		return 0, err
	}

	return v.engine.Uint16(v.data[offset:]), nil
}

// Uint32 reads a uint32 at offset.
func (v View) Uint32(offset uint64) (uint32, error) {
	if err := v.Check("u32", offset, 4); err != nil {
		return 0, err
	}

	return v.engine.Uint32(v.data[offset:]), nil
}

// Uint64 reads a uint64 at offset.
func (v View) Uint64(offset uint64) (uint64, error) {
	if err := v.Check("u64", offset, 8); err != nil {
		return 0, err
	}

	return v.engine.Uint64(v.data[offset:]), nil
}

// Uint32s reads count consecutive uint32 values starting at offset.
func (v View) Uint32s(what string, offset uint64, count uint32) ([]uint32, error) {
	if err := v.Check(what, offset, uint64(count)*4); err != nil {
		return nil, err
	}

	out := make([]uint32, count)
	for i := range out {
		out[i] = v.engine.Uint32(v.data[offset+uint64(i)*4:])
	}

	return out, nil
}
