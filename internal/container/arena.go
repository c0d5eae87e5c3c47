// Package container implements the arena allocator and the three data
// structures C1 specifies: a segmented-growth dynamic array, an
// identity-keyed map, and a string-keyed map.
//
// The real arena allocator is named in as an out-of-scope
// external collaborator ("opaque bump allocator providing alloc(size) with
// lifetime equal to the compilation"). Arena here is a small, in-scope
// stand-in that satisfies that contract for the in-process Go build: it
// never frees individually and its lifetime is the *Arena value's lifetime,
// matching "no reference counting or cyclic reclamation"
// resource model. Go's GC reclaims the backing slices when the Arena value
// itself becomes unreachable, which is the Go-idiomatic equivalent of
// "teardown" for a bump allocator.
package container

// Arena is a bump-style allocator. Everything it hands out lives for the
// lifetime of the Arena value.
type Arena struct {
	bytesAllocated int
}

// NewArena creates an arena. The reserved-size hint is accepted for parity
// with ("order 500 KiB reserved by default") but Go slices grow
// on demand, so the hint is ignored.
func NewArena(reserveHint int) *Arena {
	return &Arena{}
}

// Alloc accounts for size bytes of arena-owned allocation. Go values created
// for arena ownership are ordinary heap allocations; Alloc exists so callers
// can report the same "bump allocator" budget the original ashp4c CLI did,
// without this package reimplementing memory management.
func (a *Arena) Alloc(size int) {
	a.bytesAllocated += size
}

// BytesAllocated reports how much has been accounted for via Alloc.
func (a *Arena) BytesAllocated() int {
	return a.bytesAllocated
}
