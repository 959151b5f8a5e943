// Package clob defines the content objects a managed dictionary file
// decomposes into, and the change actions that reconcile them against
// the repository.
package clob

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// Clob is one decomposed text unit, holding one or more joined records.
// Path is relative to the contents root of the managed file and is
// always ASCII.
type Clob struct {
	Path    string
	Content string
}

// Validated asserts the path invariant. A non-ASCII path can only come
// from a splitter bug, so this panics rather than returning an error.
func (c Clob) Validated() Clob {
	for i := 0; i < len(c.Path); i++ {
		if c.Path[i] >= 0x80 {
			panic(fmt.Sprintf("non-ASCII clob path %q", c.Path))
		}
	}
	return c
}

type DiffKind int

const (
	DiffAdd DiffKind = iota
	DiffUpdate
	DiffDelete
)

// Diff is one filesystem/index action. For DiffDelete only the path of
// the embedded clob is meaningful.
type Diff struct {
	Kind DiffKind
	Clob Clob
}

func Add(c Clob) Diff      { return Diff{Kind: DiffAdd, Clob: c} }
func Update(c Clob) Diff   { return Diff{Kind: DiffUpdate, Clob: c} }
func Delete(p string) Diff { return Diff{Kind: DiffDelete, Clob: Clob{Path: p}} }

func (d Diff) Path() string { return d.Clob.Path }

func (d Diff) Filename() string {
	p := d.Clob.Path
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Marker is the fixed-width change label used by listings and the
// clean-filter report.
func (d Diff) Marker() string {
	switch d.Kind {
	case DiffAdd:
		return "added   "
	case DiffUpdate:
		return "modified"
	default:
		return "deleted "
	}
}

// SortNatural orders a change-set by human path order. User-facing
// listings must apply it; the diff engine itself makes no ordering
// promises.
func SortNatural(diffs []Diff) {
	sort.SliceStable(diffs, func(a, b int) bool {
		return natural.Less(diffs[a].Clob.Path, diffs[b].Clob.Path)
	})
}

// Stats summarizes a change-set.
type Stats struct {
	Added   int
	Changed int
	Deleted int
}

func Count(diffs []Diff) Stats {
	var s Stats
	for _, d := range diffs {
		switch d.Kind {
		case DiffAdd:
			s.Added++
		case DiffUpdate:
			s.Changed++
		case DiffDelete:
			s.Deleted++
		}
	}
	return s
}

func (s Stats) NoChanges() bool {
	return s.Added == 0 && s.Changed == 0 && s.Deleted == 0
}

func (s Stats) String() string {
	if s.NoChanges() {
		return "no changes"
	}
	return fmt.Sprintf("%6d added %6d modified %6d deleted", s.Added, s.Changed, s.Deleted)
}
