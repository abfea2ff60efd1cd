package section

import (
	"bytes"
	"fmt"

	"github.com/arloliu/nierarc/errs"

	"github.com/arloliu/nierarc/format"
)

// Sniff classifies a payload by its leading signature bytes.
//
// Only PAK and YAX are routed to dedicated handlers; everything else, nested DAT
// containers included, is an opaque raw file.
func Sniff(data []byte) format.EntryKind {
	if len(data) < MagicSize {
		return format.KindRaw
	}

	switch {
	case bytes.Equal(data[:MagicSize], MagicPAK[:]):
		return format.KindPak
	case bytes.Equal(data[:MagicSize], MagicYAX[:]):
		return format.KindYax
	default:
		return format.KindRaw
	}
}

// HasMagic reports whether data starts with magic.
func HasMagic(data []byte, magic [4]byte) bool {
	return len(data) >= MagicSize && bytes.Equal(data[:MagicSize], magic[:])
}

// checkHeader validates the signature first, so a short foreign buffer reads as
// ErrBadMagic, then the fixed header length.
func checkHeader(data []byte, magic [4]byte, size int, what string) error {
	if !HasMagic(data, magic) {
		return fmt.Errorf("%w: got %q, want %q", errs.ErrBadMagic, data[:min(len(data), MagicSize)], magic[:])
	}
	if len(data) < size {
		return errs.ShortHeader(what, size, len(data))
	}

	return nil
}
