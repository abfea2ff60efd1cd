// Package yax implements the binary YAX tree codec.
//
// A YAX tree is a rooted, ordered tree of nodes. Each node carries a 32-bit tag hash,
// an optional typed value and zero or more children. The encoded form is a fixed
// header, a table of 20-byte node records and a region for values that do not fit in
// a record:
//
//	+--------+----------------------+------------------+
//	| header | node table (20B * N) | out-of-line blob |
//	+--------+----------------------+------------------+
//
// Values of 32 bits or less are stored inline in their node record. 64-bit integers
// take 8 bytes in the blob; byte strings and text take a u32 length prefix followed by
// the payload. Text is stored as Shift-JIS and exposed as UTF-8.
//
// Decode never trusts the input: every offset and length is bounds-checked and the node
// graph must form a tree reachable from the root. Encode is deterministic, so encoding a
// decoded tree reproduces the original bytes when they came from Encode.
package yax
