package pak

import (
	"fmt"
	"slices"

	"github.com/arloliu/nierarc/archive"
	"github.com/arloliu/nierarc/compress"
	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/format"
	"github.com/arloliu/nierarc/section"
)

// IsPak reports whether data starts with the PAK signature.
func IsPak(data []byte) bool {
	return section.HasMagic(data, section.MagicPAK)
}

// Archive is an opened PAK container. It references the buffer passed to Open, which
// must not be modified while the Archive is in use.
type Archive struct {
	view    endian.View
	header  section.PakHeader
	records []section.PakEntry
	entries []archive.Entry
}

// Open parses the header and entry tables of a PAK container.
//
// Payload ranges are checked when they are read, so one broken entry does not make
// the rest unreadable.
//
// Returns:
//   - *Archive: Opened container
//   - error: ErrBadMagic for a foreign buffer, ErrOutOfBounds for a truncated header or
//     when a table lies outside the buffer, ErrMalformed for overlapping payloads
func Open(data []byte) (*Archive, error) {
	header, err := section.ParsePakHeader(data)
	if err != nil {
		return nil, err
	}

	a := &Archive{view: endian.NewView(data), header: header}
	if err := a.parseTables(); err != nil {
		return nil, err
	}
	if err := archive.CheckOverlap(a.entries, a.view.Len()); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Archive) parseTables() error {
	count := a.header.FileCount
	table, err := a.view.Slice("entry table", uint64(a.header.EntriesOffset), uint64(count)*section.PakEntrySize)
	if err != nil {
		return err
	}

	names, err := section.ParseNameTable(a.view, a.header.NamesOffset, count)
	if err != nil {
		return err
	}

	sizes, err := a.view.Uint32s("size table", uint64(a.header.SizesOffset), count)
	if err != nil {
		return err
	}

	engine := endian.GetLittleEndianEngine()
	a.records = make([]section.PakEntry, count)
	a.entries = make([]archive.Entry, count)
	for i := range a.records {
		rec, err := section.ParsePakEntry(table[i*section.PakEntrySize:], engine)
		if err != nil {
			return err
		}
		a.records[i] = rec
		a.entries[i] = archive.Entry{
			Index:  i,
			Name:   names[i],
			Offset: rec.Offset,
			Size:   sizes[i],
		}
		a.entries[i].Kind = a.sniff(i)
	}

	return nil
}

// sniff classifies entry i from its leading bytes, inflating only the signature of
// compressed payloads. Unreadable payloads are Raw; Data reports their error.
func (a *Archive) sniff(i int) format.EntryKind {
	stored, err := a.Stored(i)
	if err != nil {
		return format.KindRaw
	}
	if !a.Compressed(i) {
		return section.Sniff(stored)
	}

	stream, err := a.stream(i, stored)
	if err != nil {
		return format.KindRaw
	}
	head, err := compress.NewZlibCompressor().DecompressPrefix(stream, section.MagicSize)
	if err != nil {
		return format.KindRaw
	}

	return section.Sniff(head)
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Entries returns a copy of the entry list in table order.
func (a *Archive) Entries() []archive.Entry {
	return slices.Clone(a.entries)
}

// Entry returns entry i.
func (a *Archive) Entry(i int) archive.Entry {
	return a.entries[i]
}

// Type returns the opaque game type id of entry i.
func (a *Archive) Type(i int) uint32 {
	return a.records[i].Type
}

// Compressed reports whether entry i is stored as a zlib stream.
func (a *Archive) Compressed(i int) bool {
	return a.records[i].UncompressedSize > a.entries[i].Size
}

// Index returns the position of the entry named name.
func (a *Archive) Index(name string) (int, bool) {
	for i, e := range a.entries {
		if e.Name == name {
			return i, true
		}
	}

	return -1, false
}

// Stored returns the payload of entry i as stored in the container.
func (a *Archive) Stored(i int) ([]byte, error) {
	e := a.entries[i]
	return a.view.Slice("entry payload", uint64(e.Offset), uint64(e.Size))
}

func (a *Archive) stream(i int, stored []byte) ([]byte, error) {
	payload := endian.NewView(stored)
	length, err := payload.Uint32(0)
	if err != nil {
		return nil, fmt.Errorf("compressed length: %w", err)
	}

	return payload.Slice("compressed stream", 4, uint64(length))
}

// Data returns the payload of entry i, inflated when it is compressed.
//
// Returns:
//   - []byte: Payload; for uncompressed entries it aliases the container buffer
//   - error: ErrOutOfBounds for a payload outside the buffer, ErrDecompress for a broken
//     or wrongly sized zlib stream
func (a *Archive) Data(i int) ([]byte, error) {
	stored, err := a.Stored(i)
	if err != nil {
		return nil, err
	}

	rec := a.records[i]
	if !a.Compressed(i) {
		return stored[:min(uint32(len(stored)), rec.UncompressedSize)], nil //nolint:gosec
	}

	stream, err := a.stream(i, stored)
	if err != nil {
		return nil, err
	}
	codec, err := compress.GetCodec(format.CompressionZlib)
	if err != nil {
		return nil, err
	}
	out, err := codec.Decompress(stream)
	if err != nil {
		return nil, err
	}
	if uint64(len(out)) != uint64(rec.UncompressedSize) {
		return nil, fmt.Errorf("%w: inflated %d bytes, entry declares %d", errs.ErrDecompress, len(out), rec.UncompressedSize)
	}

	return out, nil
}
