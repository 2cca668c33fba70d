package vm

import (
	"defs"
	"fdops"
)

// Protection bits for the prot argument of MAP (spec.md §6).
const (
	PROT_READ  = 1 << 0
	PROT_WRITE = 1 << 1
)

// Mapping flags (spec.md §6); exactly one of these is set per mapping.
const (
	MAP_SHARED  = 1
	MAP_PRIVATE = 2
)

// MaxMaps bounds the number of live mappings a process may hold at once
// (spec.md §3, "e.g., 16").
const MaxMaps = 16

// Mapping_t is one live MT entry (spec.md §3). Start is page-aligned at
// creation; End is byte-granular so UNMAP knows exactly how much of a
// trailing partial page the mapping was authored to cover, and never
// flushes garbage past it.
type Mapping_t struct {
	File   fdops.Fdops_i
	Prot   uint
	Flags  uint
	Start  uintptr
	End    uintptr
	Offset int
}

// Shared reports whether this is a MAP_SHARED mapping. spec.md §9's
// design note reads the source's "!(mf->prop & 1)" write-back guard as
// this predicate re-derived for the SHARED=1/PRIVATE=2 encoding used
// here.
func (m *Mapping_t) Shared() bool { return m.Flags == MAP_SHARED }

// MappingTable_t is a process's fixed-size table of live mappings
// (spec.md §4.2). A nil *Mapping_t marks an empty slot.
type MappingTable_t struct {
	slots [MaxMaps]*Mapping_t
}

// AllocSlot returns the index of the first empty slot, or TooManyMaps if
// none is free.
func (t *MappingTable_t) AllocSlot() (int, defs.Err_t) {
	for i := range t.slots {
		if t.slots[i] == nil {
			return i, 0
		}
	}
	return 0, -defs.ETooManyMaps
}

// FindByStart performs the edge-only lookup spec.md §4.2 calls for:
// interior searches are never required because UNMAP only ever shrinks a
// mapping from one of its two edges.
func (t *MappingTable_t) FindByStart(va uintptr) (int, bool) {
	for i, m := range t.slots {
		if m != nil && m.Start == va {
			return i, true
		}
	}
	return 0, false
}

// FindByEnd is FindByStart's mirror for the high edge.
func (t *MappingTable_t) FindByEnd(va uintptr) (int, bool) {
	for i, m := range t.slots {
		if m != nil && m.End == va {
			return i, true
		}
	}
	return 0, false
}

// Get returns the mapping at index i, or nil if the slot is empty.
func (t *MappingTable_t) Get(i int) *Mapping_t { return t.slots[i] }

// Set installs m at index i.
func (t *MappingTable_t) Set(i int, m *Mapping_t) { t.slots[i] = m }

// Drop marks slot i empty. The caller must already have released the
// mapping's file reference.
func (t *MappingTable_t) Drop(i int) { t.slots[i] = nil }

// Live returns every currently occupied slot, for RecomputeTail and the
// universal non-overlap invariant tests of spec.md §8.
func (t *MappingTable_t) Live() []*Mapping_t {
	var out []*Mapping_t
	for _, m := range t.slots {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
