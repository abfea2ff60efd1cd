package section

import (
	"fmt"
	"hash/crc32"
	"math/bits"
	"sort"
	"strings"

	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
)

// emptyBucket marks a bucket with no names (-1 as int16 on disk).
const emptyBucket = 0xFFFF

// HashIndex is the name lookup index stored at the end of a DAT index.
//
// Names hash to crc32(lower(name)) & 0x7fffffff. Hashes are grouped by their top bits
// (hash >> PreHashShift); Buckets[b] holds the position of the first hash of bucket b in
// Hashes, and Indices maps each hash position back to its entry index.
type HashIndex struct {
	PreHashShift uint32
	Buckets      []uint16
	Hashes       []uint32
	Indices      []uint16
}

// NameHash returns the 31-bit lookup hash of an entry name.
func NameHash(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(strings.ToLower(name))) & 0x7FFFFFFF
}

// BuildHashIndex builds the lookup index for names in entry order.
func BuildHashIndex(names []string) HashIndex {
	shift := uint32(31)
	if len(names) > 1 {
		shift = min(31, uint32(32-bits.Len(uint(len(names)-1)))) //nolint:gosec
	}

	idx := HashIndex{
		PreHashShift: shift,
		Buckets:      make([]uint16, 1<<(31-shift)),
		Hashes:       make([]uint32, len(names)),
		Indices:      make([]uint16, len(names)),
	}

	for i, name := range names {
		idx.Hashes[i] = NameHash(name)
		idx.Indices[i] = uint16(i) //nolint:gosec
	}

	sort.Stable(byBucket{idx: &idx})

	for i := range idx.Buckets {
		idx.Buckets[i] = emptyBucket
	}
	for i, h := range idx.Hashes {
		b := h >> shift
		if idx.Buckets[b] == emptyBucket {
			idx.Buckets[b] = uint16(i) //nolint:gosec
		}
	}

	return idx
}

type byBucket struct {
	idx *HashIndex
}

func (s byBucket) Len() int { return len(s.idx.Hashes) }

func (s byBucket) Less(i, j int) bool {
	return s.idx.Hashes[i]>>s.idx.PreHashShift < s.idx.Hashes[j]>>s.idx.PreHashShift
}

func (s byBucket) Swap(i, j int) {
	s.idx.Hashes[i], s.idx.Hashes[j] = s.idx.Hashes[j], s.idx.Hashes[i]
	s.idx.Indices[i], s.idx.Indices[j] = s.idx.Indices[j], s.idx.Indices[i]
}

// Lookup returns the entry index stored for name.
func (h *HashIndex) Lookup(name string) (int, bool) {
	if len(h.Hashes) == 0 || h.PreHashShift > 31 {
		return 0, false
	}

	hash := NameHash(name)
	bucket := hash >> h.PreHashShift
	if int(bucket) >= len(h.Buckets) || h.Buckets[bucket] == emptyBucket {
		return 0, false
	}

	for i := int(h.Buckets[bucket]); i < len(h.Hashes) && h.Hashes[i]>>h.PreHashShift == bucket; i++ {
		if h.Hashes[i] == hash {
			return int(h.Indices[i]), true
		}
	}

	return 0, false
}

// Size returns the encoded size in bytes.
func (h *HashIndex) Size() int {
	return HashIndexHeaderLen + 2*len(h.Buckets) + 4*len(h.Hashes) + 2*len(h.Indices)
}

// Bytes serializes the index. Table offsets are relative to the start of the index.
func (h *HashIndex) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()
	bucketsOffset := uint32(HashIndexHeaderLen)
	hashesOffset := bucketsOffset + uint32(2*len(h.Buckets)) //nolint:gosec
	indicesOffset := hashesOffset + uint32(4*len(h.Hashes))  //nolint:gosec

	b := make([]byte, 0, h.Size())
	b = engine.AppendUint32(b, h.PreHashShift)
	b = engine.AppendUint32(b, bucketsOffset)
	b = engine.AppendUint32(b, hashesOffset)
	b = engine.AppendUint32(b, indicesOffset)
	for _, v := range h.Buckets {
		b = engine.AppendUint16(b, v)
	}
	for _, v := range h.Hashes {
		b = engine.AppendUint32(b, v)
	}
	for _, v := range h.Indices {
		b = engine.AppendUint16(b, v)
	}

	return b
}

// ParseHashIndex parses an index holding count names starting at offset.
func ParseHashIndex(view endian.View, offset uint32, count uint32) (HashIndex, error) {
	base := uint64(offset)
	header, err := view.Uint32s("hash index header", base, 4)
	if err != nil {
		return HashIndex{}, err
	}

	idx := HashIndex{PreHashShift: header[0]}
	if idx.PreHashShift > 31 {
		return HashIndex{}, fmt.Errorf("%w: hash index pre-hash shift %d", errs.ErrMalformed, idx.PreHashShift)
	}

	bucketCount := uint64(1) << (31 - idx.PreHashShift)
	if bucketCount > uint64(view.Len()) {
		return HashIndex{}, errs.OutOfBounds("hash index buckets", base+uint64(header[1]), bucketCount*2, view.Len())
	}

	buckets, err := view.Slice("hash index buckets", base+uint64(header[1]), bucketCount*2)
	if err != nil {
		return HashIndex{}, err
	}
	hashes, err := view.Uint32s("hash index hashes", base+uint64(header[2]), count)
	if err != nil {
		return HashIndex{}, err
	}
	indices, err := view.Slice("hash index indices", base+uint64(header[3]), uint64(count)*2)
	if err != nil {
		return HashIndex{}, err
	}

	engine := endian.GetLittleEndianEngine()
	idx.Buckets = make([]uint16, bucketCount)
	for i := range idx.Buckets {
		idx.Buckets[i] = engine.Uint16(buckets[i*2:])
	}
	idx.Hashes = hashes
	idx.Indices = make([]uint16, count)
	for i := range idx.Indices {
		idx.Indices[i] = engine.Uint16(indices[i*2:])
		if uint32(idx.Indices[i]) >= count {
			return HashIndex{}, fmt.Errorf("%w: hash index entry %d points at %d of %d",
				errs.ErrOutOfBounds, i, idx.Indices[i], count)
		}
	}

	return idx, nil
}
