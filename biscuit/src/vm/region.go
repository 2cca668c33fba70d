// Package vm implements the mapping region allocator, mapping table, and
// MAP/UNMAP operations of the memory-mapped file subsystem (spec.md §§3-4).
// It generalizes biscuit's Vm_t address-space machinery -- in particular
// its single embedded lock guarding all address-space state, and its
// Page_insert/Page_remove split between "install a mapping" and "tear one
// down" -- to the simpler, non-demand-paged contract this subsystem needs.
package vm

import (
	"defs"

	"mem"
	"util"
)

// CapacityPages is the number of pages in a process's mmap window
// (spec.md §3, "e.g., 32").
const CapacityPages = 32

// MappingRegion_t is the per-process ring buffer allocator of spec.md
// §4.1: a fixed virtual window [Base, Base+CapacityPages*PGSIZE) carved
// from Tail forward, wrapping to page 0 only when the tail-to-end run
// can't fit the request but the head-prefix run can.
type MappingRegion_t struct {
	Base uintptr
	head int
	tail int
	full bool
}

// NewMappingRegion constructs an empty region starting at base.
func NewMappingRegion(base uintptr) *MappingRegion_t {
	return &MappingRegion_t{Base: base}
}

// Head returns the current head page index, for tests and invariant
// checks.
func (r *MappingRegion_t) Head() int { return r.head }

// Tail returns the current tail page index.
func (r *MappingRegion_t) Tail() int { return r.tail }

// Full reports whether the region has no free pages.
func (r *MappingRegion_t) Full() bool { return r.full }

// PageAddr converts a page index within the region to a virtual address.
func (r *MappingRegion_t) PageAddr(page int) uintptr {
	return r.Base + uintptr(page*mem.PGSIZE)
}

// Reserve implements the decision policy of spec.md §4.1 step by step:
// empty, no-wrap-preferred, wrap-if-head-prefix-suffices, otherwise fail.
// No partial reservations are ever made.
func (r *MappingRegion_t) Reserve(nPages int) (startPage int, wrapped bool, err defs.Err_t) {
	if r.full {
		return 0, false, -defs.ENoSpace
	}

	switch {
	case r.head == r.tail:
		// Empty: the whole ring is free.
		if nPages > CapacityPages {
			return 0, false, -defs.ENoSpace
		}
		startPage = r.tail
	case r.tail > r.head:
		// Free run is [tail, Capacity) U [0, head).
		if CapacityPages-r.tail >= nPages {
			startPage = r.tail
		} else if r.head >= nPages {
			startPage = 0
			wrapped = true
		} else {
			return 0, false, -defs.ENoSpace
		}
	default:
		// Post-wrap state: free run is [tail, head).
		if r.head-r.tail >= nPages {
			startPage = r.tail
		} else {
			return 0, false, -defs.ENoSpace
		}
	}

	r.tail = (startPage + nPages) % CapacityPages
	if r.tail == r.head {
		r.full = true
	}
	return startPage, wrapped, 0
}

// ReleaseHead advances head forward by nPages pages and clears full.
// unmapHead calls it once per iteration of its page loop.
func (r *MappingRegion_t) ReleaseHead(nPages int) {
	r.head = (r.head + nPages) % CapacityPages
	r.full = false
}

// ReleaseTail moves tail back by nPages pages, used when unmapping from
// the high-address edge of the most-recently-placed mapping.
func (r *MappingRegion_t) ReleaseTail(nPages int) {
	r.tail -= nPages
	for r.tail < 0 {
		r.tail += CapacityPages
	}
	r.full = false
}

// RecomputeTail sets tail to the page index immediately after the
// highest end of any live mapping, called when the high-edge mapping is
// fully drained (spec.md §4.1).
func (r *MappingRegion_t) RecomputeTail(live []*Mapping_t) {
	if len(live) == 0 {
		r.tail = 0
		return
	}
	maxEnd := live[0].End
	for _, m := range live[1:] {
		maxEnd = util.Max(maxEnd, m.End)
	}
	pages := util.Roundup(int(maxEnd-r.Base), mem.PGSIZE) / mem.PGSIZE
	r.tail = pages % CapacityPages
}

// SetHeadZero forces head back to page 0, used by the head-edge drain
// path of spec.md §4.4 when the freed pages wrapped around the ring.
func (r *MappingRegion_t) SetHeadZero() { r.head = 0 }

// SetTailZero forces tail back to page 0.
func (r *MappingRegion_t) SetTailZero() { r.tail = 0 }

// ClearFull clears the full flag, used whenever a page is physically
// released during UNMAP (spec.md §4.4 step 2b).
func (r *MappingRegion_t) ClearFull() { r.full = false }
