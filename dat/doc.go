// Package dat reads, writes and extracts DAT archives, the outer containers of the game
// data.
//
// The layout matches the game files:
//
//	header (32B)
//	offsets     u32 * N
//	extensions  [4]byte * N, NUL padded
//	names       u32 stride, then N names of stride bytes, NUL padded
//	sizes       u32 * N
//	hash map    name lookup index (optional)
//	payloads    16-byte aligned
//
// Entries are raw files, nested PAK containers or YAX trees; the kind is sniffed from
// each payload's signature when the archive is opened.
package dat
