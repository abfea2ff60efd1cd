// Package pak reads, writes and extracts PAK containers.
//
// A PAK is a flat list of named entries, usually YAX trees:
//
//	+--------+------------------+------------+-------------+---------------------+
//	| header | entries (12B*N)  | name table | sizes (4B*N)| payloads (16B align)|
//	+--------+------------------+------------+-------------+---------------------+
//
// Each entry record holds an opaque type id, the uncompressed payload size and the
// payload offset; the sizes table holds the stored size. A payload whose uncompressed
// size exceeds its stored size is a u32 stream length followed by a zlib stream.
package pak
