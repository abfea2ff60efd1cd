// Package hashname resolves YAX tag hashes to display names and back.
//
// A Table is immutable once built. The default table is constructed on first use and
// shared by every decode and encode in the process without synchronization.
package hashname

import (
	"fmt"
	"hash/crc32"
	"strconv"
	"strings"
	"sync"

	"github.com/arloliu/nierarc/errs"
)

// UnknownPrefix starts the placeholder name of a hash missing from the table.
const UnknownPrefix = "UNKNOWN_"

// Table is a bidirectional tag hash ↔ name mapping.
type Table struct {
	byHash map[uint32]string
	byName map[string]uint32
}

// New builds a table from hash → name pairs.
//
// Names must be unique; New returns an error on a duplicate name, on an empty name
// and on a name that would be read back as a placeholder.
func New(names map[uint32]string) (*Table, error) {
	t := &Table{
		byHash: make(map[uint32]string, len(names)),
		byName: make(map[string]uint32, len(names)),
	}

	for hash, name := range names {
		if name == "" {
			return nil, fmt.Errorf("hashname: empty name for hash 0x%08x", hash)
		}
		if strings.HasPrefix(name, UnknownPrefix) {
			return nil, fmt.Errorf("hashname: name %q uses the reserved %s prefix", name, UnknownPrefix)
		}
		if other, dup := t.byName[name]; dup {
			return nil, fmt.Errorf("hashname: name %q maps to both 0x%08x and 0x%08x", name, other, hash)
		}
		t.byHash[hash] = name
		t.byName[name] = hash
	}

	return t, nil
}

// FromNames builds a table by hashing each name with Hash.
func FromNames(names ...string) (*Table, error) {
	m := make(map[uint32]string, len(names))
	for _, name := range names {
		h := Hash(name)
		if other, ok := m[h]; ok && other != name {
			return nil, fmt.Errorf("hashname: %q and %q collide on 0x%08x", other, name, h)
		}
		m[h] = name
	}

	return New(m)
}

// Hash computes the tag hash of a name (CRC-32/IEEE of its bytes).
func Hash(name string) uint32 {
	return crc32.ChecksumIEEE([]byte(name))
}

// Resolve returns the name of tag. Unknown hashes resolve to UNKNOWN_xxxxxxxx.
func (t *Table) Resolve(tag uint32) string {
	if name, ok := t.byHash[tag]; ok {
		return name
	}

	return Placeholder(tag)
}

// Lookup returns the name of tag and whether the table knows it.
func (t *Table) Lookup(tag uint32) (string, bool) {
	name, ok := t.byHash[tag]
	return name, ok
}

// Contains reports whether tag has a name in the table.
func (t *Table) Contains(tag uint32) bool {
	_, ok := t.byHash[tag]
	return ok
}

// Reverse maps a name back to its tag hash.
//
// Names missing from the table are accepted only in placeholder form; anything else
// fails with an *errs.UnknownTagNameError.
func (t *Table) Reverse(name string) (uint32, error) {
	if hash, ok := t.byName[name]; ok {
		return hash, nil
	}
	if hash, ok := ParsePlaceholder(name); ok {
		return hash, nil
	}

	return 0, &errs.UnknownTagNameError{Name: name}
}

// Len returns the number of named hashes.
func (t *Table) Len() int {
	return len(t.byHash)
}

// Placeholder formats the fallback name of an unknown hash.
func Placeholder(tag uint32) string {
	return fmt.Sprintf("%s%08x", UnknownPrefix, tag)
}

// ParsePlaceholder parses a name produced by Placeholder.
func ParsePlaceholder(name string) (uint32, bool) {
	hex, ok := strings.CutPrefix(name, UnknownPrefix)
	if !ok || len(hex) != 8 {
		return 0, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}

	return uint32(v), true
}

// Default returns the process-wide table of known tag names.
var Default = sync.OnceValue(func() *Table {
	t, err := FromNames(knownNames...)
	if err != nil {
		panic("hashname: default table initialization failed: " + err.Error())
	}

	return t
})
