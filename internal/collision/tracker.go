// Package collision detects duplicate entry names and lookup hash collisions while an
// archive is being assembled.
package collision

import (
	"fmt"
	"strings"

	"github.com/arloliu/nierarc/errs"
)

// Tracker records entry names by their lookup hash.
//
// Names are compared case-insensitively, matching both the DAT lookup and extraction
// onto case-insensitive filesystems.
type Tracker struct {
	names        map[uint32]string // hash → first name seen with it
	folded       map[string]string // lower-cased name → name as added
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names:  make(map[uint32]string),
		folded: make(map[string]string),
	}
}

// Track records name under hash.
//
// Adding a name that equals an earlier one up to case fails with
// errs.ErrInvalidEntryName. Two different names sharing a hash are not an error: the
// collision flag is set and lookups fall back to comparing names.
func (t *Tracker) Track(name string, hash uint32) error {
	key := strings.ToLower(name)
	if prev, dup := t.folded[key]; dup {
		return fmt.Errorf("%w: %q duplicates entry %q", errs.ErrInvalidEntryName, name, prev)
	}

	if existing, ok := t.names[hash]; ok {
		if !strings.EqualFold(existing, name) {
			t.hasCollision = true
		}
	} else {
		t.names[hash] = name
	}
	t.folded[key] = name

	return nil
}

// HasCollision reports whether two tracked names share a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}
