// Package hash provides the content digests recorded in extraction manifests.
package hash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Digest computes the xxHash64 of data.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Hex formats a digest as 16 lowercase hex digits.
func Hex(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
