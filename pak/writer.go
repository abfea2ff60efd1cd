package pak

import (
	"fmt"
	"math"

	"github.com/arloliu/nierarc/compress"
	"github.com/arloliu/nierarc/endian"
	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/format"
	"github.com/arloliu/nierarc/internal/collision"
	"github.com/arloliu/nierarc/internal/options"
	"github.com/arloliu/nierarc/internal/pool"
	"github.com/arloliu/nierarc/section"
)

// WriterConfig holds the settings of a Writer.
type WriterConfig struct {
	compression format.CompressionType
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*WriterConfig]

// WithCompression sets how Add stores payloads. Zlib payloads fall back to plain storage
// when compression does not make them smaller.
func WithCompression(c format.CompressionType) WriterOption {
	return options.New(func(cfg *WriterConfig) error {
		if _, err := compress.CreateCodec(c, "pak entry"); err != nil {
			return err
		}
		cfg.compression = c

		return nil
	})
}

type pendingEntry struct {
	name             string
	typ              uint32
	uncompressedSize uint32
	stored           []byte
}

// Writer assembles a PAK container.
//
// Layout: header, entry records, name table, size table, then payloads each aligned to
// 16 bytes in Add order. The layout is a pure function of the added entries.
type Writer struct {
	cfg     *WriterConfig
	codec   compress.Codec
	entries []pendingEntry
	names   *collision.Tracker
}

// NewWriter creates an empty PAK writer.
func NewWriter(opts ...WriterOption) (*Writer, error) {
	cfg, err := options.Build(func() *WriterConfig {
		return &WriterConfig{compression: format.CompressionNone}
	}, opts...)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	return &Writer{cfg: cfg, codec: codec, names: collision.NewTracker()}, nil
}

// Add appends an entry with the given game type id. Names must be unique up to case.
func (w *Writer) Add(name string, typ uint32, data []byte) error {
	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("%w: entry %q is larger than 4 GiB", errs.ErrOutOfBounds, name)
	}

	stored := data
	if w.cfg.compression != format.CompressionNone && len(data) > 0 {
		packed, err := w.codec.Compress(data)
		if err != nil {
			return fmt.Errorf("entry %q: %w", name, err)
		}
		if len(packed)+4 < len(data) {
			prefixed := endian.GetLittleEndianEngine().AppendUint32(make([]byte, 0, len(packed)+4), uint32(len(packed))) //nolint:gosec
			stored = append(prefixed, packed...)
		}
	}

	return w.addStored(name, typ, uint32(len(data)), stored) //nolint:gosec
}

func (w *Writer) addStored(name string, typ uint32, uncompressedSize uint32, stored []byte) error {
	if err := w.names.Track(name, section.NameHash(name)); err != nil {
		return err
	}
	w.entries = append(w.entries, pendingEntry{name: name, typ: typ, uncompressedSize: uncompressedSize, stored: stored})

	return nil
}

// Len returns the number of added entries.
func (w *Writer) Len() int {
	return len(w.entries)
}

// Bytes lays out the container.
//
// Returns:
//   - []byte: Encoded container
//   - error: ErrInvalidEntryName for empty names or names with NUL bytes, ErrOutOfBounds
//     when the container exceeds 4 GiB
func (w *Writer) Bytes() ([]byte, error) {
	count := len(w.entries)
	names := make([]string, count)
	for i, e := range w.entries {
		names[i] = e.name
	}

	entriesOffset := section.PakHeaderSize
	namesOffset := entriesOffset + count*section.PakEntrySize
	sizesOffset := section.Align(namesOffset+section.NameTableSize(names), section.TableAlignment)
	payloadOffset := section.Align(sizesOffset+count*4, section.PayloadAlignment)

	buf := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(buf)

	engine := endian.GetLittleEndianEngine()
	buf.MustWrite(make([]byte, payloadOffset))

	offsets := make([]uint32, count)
	for i, e := range w.entries {
		if uint64(buf.Len()) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: container exceeds 4 GiB", errs.ErrOutOfBounds)
		}
		offsets[i] = uint32(buf.Len()) //nolint:gosec
		buf.MustWrite(e.stored)
		buf.Align(section.PayloadAlignment)
	}
	if uint64(buf.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: container exceeds 4 GiB", errs.ErrOutOfBounds)
	}

	header := section.PakHeader{
		FileCount:     uint32(count),         //nolint:gosec
		EntriesOffset: uint32(entriesOffset), //nolint:gosec
		NamesOffset:   uint32(namesOffset),   //nolint:gosec
		SizesOffset:   uint32(sizesOffset),   //nolint:gosec
	}
	copy(buf.B, header.Bytes())

	for i, e := range w.entries {
		rec := section.PakEntry{Type: e.typ, UncompressedSize: e.uncompressedSize, Offset: offsets[i]}
		if err := rec.WriteToSlice(buf.B[entriesOffset+i*section.PakEntrySize:], engine); err != nil {
			return nil, err
		}
		engine.PutUint32(buf.B[sizesOffset+i*4:], uint32(len(e.stored))) //nolint:gosec
	}

	table, err := section.AppendNameTable(nil, names)
	if err != nil {
		return nil, err
	}
	copy(buf.B[namesOffset:], table)

	return buf.Clone(), nil
}

// Encode re-emits the archive from its parsed entries. Payloads are copied as stored,
// so compressed entries stay compressed; a container produced by Writer encodes back to
// the same bytes.
func (a *Archive) Encode() ([]byte, error) {
	w, err := NewWriter()
	if err != nil {
		return nil, err
	}

	for i, e := range a.entries {
		stored, err := a.Stored(i)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.Name, err)
		}
		if err := w.addStored(e.Name, a.records[i].Type, a.records[i].UncompressedSize, stored); err != nil {
			return nil, err
		}
	}

	return w.Bytes()
}
