// Package errs defines the error taxonomy shared by the archive readers, the YAX codec
// and the text bridge.
//
// Callers classify failures with errors.Is against the sentinel values; the typed
// carriers add context (positions, names, entry indices) and unwrap to a sentinel.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic reports a signature mismatch: the input is not this format.
	ErrBadMagic = errors.New("bad magic: input is not in the expected format")
	// ErrOutOfBounds reports a declared offset or length that exceeds the buffer.
	ErrOutOfBounds = errors.New("offset or length out of bounds")
	// ErrInvalidHeaderSize reports a buffer too short to hold a fixed header. Header parsers
	// return it through ShortHeader, which also matches ErrOutOfBounds.
	ErrInvalidHeaderSize = errors.New("invalid header size")
	// ErrUnknownTagName reports a tag name absent from the name table that is not a hex placeholder either.
	ErrUnknownTagName = errors.New("unknown tag name")
	// ErrUnknownTagHash reports a tag hash absent from the name table in strict mode.
	ErrUnknownTagHash = errors.New("unknown tag hash")
	// ErrMalformed reports a structurally invalid tree, either binary or text.
	ErrMalformed = errors.New("malformed document")
	// ErrIo reports a filesystem read or write failure.
	ErrIo = errors.New("i/o failure")
	// ErrPathTraversal reports an entry name that would escape the destination directory.
	ErrPathTraversal = errors.New("entry name escapes destination directory")
	// ErrNestingTooDeep reports containers nested deeper than the format allows.
	ErrNestingTooDeep = errors.New("containers nested too deeply")
	// ErrDecompress reports a payload that failed to inflate.
	ErrDecompress = errors.New("payload decompression failed")
	// ErrEntryNotFound reports a lookup by name that matched no entry.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidEntryName reports an entry name that cannot be stored in a name table.
	ErrInvalidEntryName = errors.New("invalid entry name")
)

// MalformedError carries the position of a structural error in a text document.
type MalformedError struct {
	Line   int
	Column int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d: %s", ErrMalformed, e.Line, e.Column, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// UnknownTagNameError names the tag that could not be resolved back to a hash.
type UnknownTagNameError struct {
	Name string
}

func (e *UnknownTagNameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownTagName, e.Name)
}

func (e *UnknownTagNameError) Unwrap() error {
	return ErrUnknownTagName
}

// EntryError attaches an archive entry to the failure it caused.
type EntryError struct {
	Index int
	Name  string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// ShortHeader builds the error for a buffer that carries the right signature but ends
// before its fixed header does. It matches both ErrInvalidHeaderSize and ErrOutOfBounds.
func ShortHeader(what string, need, have int) error {
	return fmt.Errorf("%w: %w: %s header needs %d bytes, have %d", ErrInvalidHeaderSize, ErrOutOfBounds, what, need, have)
}

// OutOfBounds builds an ErrOutOfBounds error describing the offending range.
func OutOfBounds(what string, offset, length uint64, limit int) error {
	return fmt.Errorf("%w: %s [%d, +%d) exceeds %d bytes", ErrOutOfBounds, what, offset, length, limit)
}
