// Package section defines the low-level binary structures and constants of the DAT, PAK
// and YAX formats.
//
// It handles the byte-level serialization of headers, per-entry records, name tables and
// the DAT name lookup index, plus signature sniffing. Higher level packages (dat, pak,
// yax) compose these pieces and own all semantic validation.
//
// # DAT Layout
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (32 bytes)                                       │
//	│  - "DAT\0", file count                                  │
//	│  - offsets of the five tables below, reserved           │
//	├─────────────────────────────────────────────────────────┤
//	│ Offsets table (N × u32)                                 │
//	│ Extensions table (N × 4 bytes, NUL padded)              │
//	│ Names table (u32 stride + N × stride bytes)             │
//	│ Sizes table (N × u32)                                   │
//	│ Hash index (name lookup)                                │
//	├─────────────────────────────────────────────────────────┤
//	│ Payloads (16-byte aligned)                              │
//	└─────────────────────────────────────────────────────────┘
//
// # PAK Layout
//
//	Bytes  | Field          | Type   | Description
//	-------|----------------|--------|----------------------------------
//	0-3    | Magic          | [4]u8  | "PAK\0"
//	4-7    | FileCount      | uint32 | Number of entries
//	8-11   | EntriesOffset  | uint32 | N × {type, uncompressed size, offset}
//	12-15  | NamesOffset    | uint32 | Name table, same shape as DAT
//	16-19  | SizesOffset    | uint32 | N × stored size
//	20-31  | Reserved       | 3×u32  | Kept verbatim
//
// # YAX Layout
//
//	Bytes  | Field          | Type   | Description
//	-------|----------------|--------|----------------------------------
//	0-3    | Magic          | [4]u8  | "YAX\0"
//	4-7    | TotalSize      | uint32 | Declared size of the tree
//	8-11   | NodeCount      | uint32 | Node records after the header
//	12-15  | RootIndex      | uint32 | Index of the root record
//	16-19  | BlobOffset     | uint32 | Out-of-line value region
//	20-23  | BlobSize       | uint32 | Size of the value region
//
// Each node record is 20 bytes: tag hash, value type, flags, reserved, first child index,
// child count and a 32-bit value slot (inline value or blob-relative offset).
//
// All multi-byte values are little-endian.
package section
