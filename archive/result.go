package archive

import (
	"cmp"
	"errors"
	"fmt"
	"path"
	"slices"

	"github.com/arloliu/nierarc/errs"
	"github.com/arloliu/nierarc/format"
)

// MaxNestingDepth bounds container recursion. A DAT is extracted at depth 0 and the PAK
// files inside it at depth 1; nothing nests deeper in the game data.
const MaxNestingDepth = 2

// Entry describes one stored file of a container.
type Entry struct {
	Index  int
	Name   string
	Offset uint32
	Size   uint32
	// Kind is sniffed from the payload signature when the container is opened.
	Kind format.EntryKind
}

// Result lists the files an extraction produced, in entry order, and the entries that
// failed.
type Result struct {
	Paths    []string
	Failures []*errs.EntryError
}

// Add records a produced file.
func (r *Result) Add(p string) {
	r.Paths = append(r.Paths, p)
}

// Fail records a failed entry.
func (r *Result) Fail(index int, name string, err error) {
	r.Failures = append(r.Failures, &errs.EntryError{Index: index, Name: name, Err: err})
}

// Merge appends the outcome of a nested container extracted from the entry named parent.
// Failure names of the nested result are qualified with parent.
func (r *Result) Merge(parent string, o Result) {
	r.Paths = append(r.Paths, o.Paths...)
	for _, f := range o.Failures {
		name := f.Name
		if parent != "" {
			name = path.Join(parent, f.Name)
		}
		r.Failures = append(r.Failures, &errs.EntryError{Index: f.Index, Name: name, Err: f.Err})
	}
}

// OK reports whether every entry was extracted.
func (r Result) OK() bool {
	return len(r.Failures) == 0
}

// Err joins the entry failures, or returns nil when there are none.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}

	failures := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		failures[i] = f
	}

	return errors.Join(failures...)
}

// CheckOverlap reports entries whose payloads share bytes. Entries with an empty or
// out-of-range payload (beyond bufLen) are skipped; reading them fails on its own.
func CheckOverlap(entries []Entry, bufLen int) error {
	ranges := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Size > 0 && uint64(e.Offset)+uint64(e.Size) <= uint64(bufLen) {
			ranges = append(ranges, e)
		}
	}
	slices.SortFunc(ranges, func(x, y Entry) int { return cmp.Compare(x.Offset, y.Offset) })

	for i := 1; i < len(ranges); i++ {
		prev, cur := ranges[i-1], ranges[i]
		if uint64(prev.Offset)+uint64(prev.Size) > uint64(cur.Offset) {
			return fmt.Errorf("%w: entries %q and %q overlap", errs.ErrMalformed, prev.Name, cur.Name)
		}
	}

	return nil
}
