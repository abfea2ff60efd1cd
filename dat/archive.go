package dat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arloliu/nierarc/archive"
	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/section"
)

// IsDat reports whether data starts with the DAT signature.
func IsDat(data []byte) bool {
	return section.HasMagic(data, section.MagicDAT)
}

// Archive is an opened DAT archive. It references the buffer passed to Open.
type Archive struct {
	view       endian.View
	header     section.DatHeader
	entries    []archive.Entry
	extensions []string
	index      *section.HashIndex
}

// Open parses the header and tables of a DAT archive.
//
// Returns:
//   - *Archive: Opened archive
//   - error: ErrBadMagic for a foreign buffer, ErrOutOfBounds for a truncated header or
//     when a table lies outside the buffer, ErrMalformed for overlapping payloads or a
//     broken lookup index
func Open(data []byte) (*Archive, error) {
	header, err := section.ParseDatHeader(data)
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
	h := a.header
	count := h.FileCount

	offsets, err := a.view.Uint32s("offset table", uint64(h.OffsetsTableOffset), count)
	if err != nil {
		return err
	}
	a.extensions, err = section.ParseExtensionTable(a.view, h.ExtensionsTableOffset, count)
	if err != nil {
		return err
	}
	names, err := section.ParseNameTable(a.view, h.NamesTableOffset, count)
	if err != nil {
		return err
	}
	sizes, err := a.view.Uint32s("size table", uint64(h.SizesTableOffset), count)
	if err != nil {
		return err
	}

	if h.HashMapOffset != 0 && count > 0 {
		idx, err := section.ParseHashIndex(a.view, h.HashMapOffset, count)
		if err != nil {
			return err
		}
		a.index = &idx
	}

	a.entries = make([]archive.Entry, count)
	for i := range a.entries {
		e := archive.Entry{Index: i, Name: names[i], Offset: offsets[i], Size: sizes[i]}
		if payload, err := a.view.Slice("entry payload", uint64(e.Offset), uint64(e.Size)); err == nil {
			e.Kind = section.Sniff(payload)
		}
		a.entries[i] = e
	}

	return nil
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

// Extension returns the extension stored for entry i, without the dot.
func (a *Archive) Extension(i int) string {
	return a.extensions[i]
}

// Data returns the payload of entry i. The slice aliases the archive buffer.
func (a *Archive) Data(i int) ([]byte, error) {
	e := a.entries[i]
	return a.view.Slice("entry payload", uint64(e.Offset), uint64(e.Size))
}

// Lookup finds an entry by name, ignoring case. It uses the lookup index when the
// archive has one and falls back to a scan otherwise.
func (a *Archive) Lookup(name string) (int, error) {
	if a.index != nil {
		if i, ok := a.index.Lookup(name); ok && strings.EqualFold(a.entries[i].Name, name) {
			return i, nil
		}
	}

	for i, e := range a.entries {
		if strings.EqualFold(e.Name, name) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q", errs.ErrEntryNotFound, name)
}
