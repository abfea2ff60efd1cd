package dat

import (
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/internal/collision"
	"github.com/arloliu/nierarc/internal/pool"
	"github.com/arloliu/nierarc/section"
)

// maxEntries is the limit of the 16-bit entry indices in the lookup index.
const maxEntries = math.MaxUint16

type pendingEntry struct {
	name string
	data []byte
}

// Writer assembles a DAT archive in the game layout, lookup index included.
type Writer struct {
	entries []pendingEntry
	names   *collision.Tracker
}

// NewWriter creates an empty DAT writer.
func NewWriter() *Writer {
	return &Writer{names: collision.NewTracker()}
}

// Add appends an entry. data is referenced until Bytes returns.
func (w *Writer) Add(name string, data []byte) error {
	if len(w.entries) >= maxEntries {
		return fmt.Errorf("%w: more than %d entries", errs.ErrOutOfBounds, maxEntries)
	}
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("%w: entry %q is larger than 4 GiB", errs.ErrOutOfBounds, name)
	}
	if err := w.names.Track(name, section.NameHash(name)); err != nil {
		return err
	}
	w.entries = append(w.entries, pendingEntry{name: name, data: data})

	return nil
}

// HasHashCollision reports whether two entry names share a lookup hash. Such archives
// are valid; lookups of the colliding names compare names after the index probe.
func (w *Writer) HasHashCollision() bool {
	return w.names.HasCollision()
}

// Len returns the number of added entries.
func (w *Writer) Len() int {
	return len(w.entries)
}

// Bytes lays out the archive. The result depends only on the added entries.
//
// Returns:
//   - []byte: Encoded archive
//   - error: ErrInvalidEntryName for empty names or names with NUL bytes, ErrOutOfBounds
//     when the archive exceeds 4 GiB
func (w *Writer) Bytes() ([]byte, error) {
	count := len(w.entries)
	names := make([]string, count)
	exts := make([]string, count)
	for i, e := range w.entries {
		names[i] = e.name
		exts[i] = extension(e.name)
	}

	index := section.BuildHashIndex(names)

	offsetsOffset := section.DatHeaderSize
	extensionsOffset := offsetsOffset + count*4
	namesOffset := extensionsOffset + count*section.ExtensionSize
	sizesOffset := section.Align(namesOffset+section.NameTableSize(names), section.TableAlignment)
	hashMapOffset := sizesOffset + count*4
	payloadOffset := section.Align(hashMapOffset+index.Size(), section.PayloadAlignment)

	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)

	buf.MustWrite(make([]byte, payloadOffset))
	offsets := make([]uint32, count)
	for i, e := range w.entries {
		if uint64(buf.Len()) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: archive exceeds 4 GiB", errs.ErrOutOfBounds)
		}
		offsets[i] = uint32(buf.Len()) //nolint:gosec
		buf.MustWrite(e.data)
		buf.Align(section.PayloadAlignment)
	}
	if uint64(buf.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: archive exceeds 4 GiB", errs.ErrOutOfBounds)
	}

	header := section.DatHeader{
		FileCount:             uint32(count),            //nolint:gosec
		OffsetsTableOffset:    uint32(offsetsOffset),    //nolint:gosec
		ExtensionsTableOffset: uint32(extensionsOffset), //nolint:gosec
		NamesTableOffset:      uint32(namesOffset),      //nolint:gosec
		SizesTableOffset:      uint32(sizesOffset),      //nolint:gosec
		HashMapOffset:         uint32(hashMapOffset),    //nolint:gosec
	}
	copy(buf.B, header.Bytes())

	engine := endian.GetLittleEndianEngine()
	for i, e := range w.entries {
		engine.PutUint32(buf.B[offsetsOffset+i*4:], offsets[i])
		engine.PutUint32(buf.B[sizesOffset+i*4:], uint32(len(e.data))) //nolint:gosec
	}
	copy(buf.B[extensionsOffset:], section.AppendExtensionTable(nil, exts))

	table, err := section.AppendNameTable(nil, names)
	if err != nil {
		return nil, err
	}
	copy(buf.B[namesOffset:], table)
	copy(buf.B[hashMapOffset:], index.Bytes())

	return buf.Clone(), nil
}

// extension returns the extension of name without the dot.
func extension(name string) string {
	return strings.TrimPrefix(path.Ext(strings.ReplaceAll(name, `\`, "/")), ".")
}

// Encode re-emits the archive from its parsed entries. An archive produced by Writer
// encodes back to the same bytes.
func (a *Archive) Encode() ([]byte, error) {
	w := NewWriter()
	for i, e := range a.entries {
		data, err := a.Data(i)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.Name, err)
		}
		if err := w.Add(e.Name, data); err != nil {
			return nil, err
		}
	}

	return w.Bytes()
}
