// Package endian provides byte order utilities for the archive and tree formats.
//
// Every structure in the DAT, PAK and YAX layouts is little-endian. The package combines
// binary.ByteOrder and binary.AppendByteOrder into one EndianEngine so section encoders can
// both patch fixed slots and append variable payloads through the same value, and it offers a
// bounds-checked View for reading untrusted buffers.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, count)
//
//	view := endian.NewView(data)
//	count, err := view.Uint32(4)
//
// # Thread Safety
//
// EndianEngine values are immutable and stateless. A View is read-only and may be shared.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine used by every game format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
