package section

// Signatures of the three formats. DAT matches the game's archive layout; PAK and YAX
// follow the same four-byte, NUL-terminated convention.
var (
	MagicDAT = [4]byte{'D', 'A', 'T', 0}
	MagicPAK = [4]byte{'P', 'A', 'K', 0}
	MagicYAX = [4]byte{'Y', 'A', 'X', 0}
)

// offset and section sizes
const (
	MagicSize          = 4
	DatHeaderSize      = 32 // fixed DAT header size in bytes
	PakHeaderSize      = 32 // fixed PAK header size in bytes
	PakEntrySize       = 12 // type, uncompressed size, offset
	YaxHeaderSize      = 24 // fixed YAX header size in bytes
	YaxNodeSize        = 20 // fixed YAX node record size in bytes
	ExtensionSize      = 4  // NUL padded extension slot in the DAT extension table
	NameStrideSize     = 4  // u32 stride prefix of a name table
	HashIndexHeaderLen = 16 // pre-hash shift + three table offsets

	PayloadAlignment = 16 // container payloads start on 16-byte boundaries
	TableAlignment   = 4  // index tables start on 4-byte boundaries
)

// Align rounds n up to the next multiple of alignment, which must be a power of two.
func Align(n, alignment int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}

// Pad appends zero bytes to buf until its length is a multiple of alignment.
func Pad(buf []byte, alignment int) []byte {
	for len(buf)%alignment != 0 {
		buf = append(buf, 0)
	}

	return buf
}
