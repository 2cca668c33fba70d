// Package mem holds the page-size constants, PTE bit layout, and the
// Page-table Bridge that the vm package's mapping region and mapping table
// are built on top of.
package mem

// PGSHIFT is the base-2 exponent for the page size.
const PGSHIFT uint = 12

// PGSIZE is the size of a single page in bytes.
const PGSIZE int = 1 << PGSHIFT

// PGOFFSET masks offsets within a page.
const PGOFFSET Pa_t = 0xfff

// PGMASK masks the page number of an address.
const PGMASK Pa_t = ^(PGOFFSET)

// PTE_P marks a page as present.
const PTE_P Pa_t = 1 << 0

// PTE_W marks a page writable.
const PTE_W Pa_t = 1 << 1

// PTE_U marks a page user-accessible.
const PTE_U Pa_t = 1 << 2

// PTE_ADDR extracts the address bits of a PTE.
const PTE_ADDR Pa_t = PGMASK

// Pa_t represents a physical address (or, for the software bridge below,
// the opaque token a Pagetable_i implementation uses internally).
type Pa_t uintptr

// Bytepg_t is a byte-addressed page, one page's worth of backing storage.
type Bytepg_t [PGSIZE]uint8

// Pagetable_i is the Page-table Bridge of spec.md §4.5: a thin adapter
// over two VM primitives. UNMAP always calls UnmapPages with doFree=true
// once any write-back for that page has completed, per spec.md §4.4 step 2b.
//
// This is the external interface spec.md §6 calls "the VM layer"; the
// vm package never constructs page table entries itself, only calls
// through this bridge, exactly as vm.Vm_t calls pmap_walk/Page_insert in
// the teacher rather than poking PTEs inline outside of those helpers.
type Pagetable_i interface {
	// Translate returns the content backing the page containing va, or
	// ok=false if va is not currently mapped (never an error: an
	// unmapped page is simply skipped by UNMAP's per-page loop).
	Translate(va uintptr) (page []byte, ok bool)

	// Map installs a present, page-aligned mapping at va backed by page
	// (len(page) == PGSIZE), with write permission iff w.
	Map(va uintptr, page []byte, w bool)

	// UnmapPages removes n page-table entries starting at the
	// page-aligned address va. doFree additionally releases the backing
	// frame; UNMAP always passes true once write-back is done.
	UnmapPages(va uintptr, n int, doFree bool)
}

// SoftPagetable_t is a host-testable Page-table Bridge: a software page
// table keyed by page-aligned virtual address. spec.md §1's Non-goals
// permit eager (rather than demand-paged) mapping, so Map populates the
// page immediately instead of waiting for a fault, exactly as
// vm.Vm_t.Page_insert installs a PTE without itself triggering a fault.
type softpte_t struct {
	data  []byte
	flags Pa_t
}

type SoftPagetable_t struct {
	pages map[uintptr]*softpte_t
}

// NewSoftPagetable constructs an empty software page table.
func NewSoftPagetable() *SoftPagetable_t {
	return &SoftPagetable_t{pages: make(map[uintptr]*softpte_t)}
}

func pground(va uintptr) uintptr {
	return va &^ uintptr(PGOFFSET)
}

// Translate implements Pagetable_i.
func (pt *SoftPagetable_t) Translate(va uintptr) ([]byte, bool) {
	pte, ok := pt.pages[pground(va)]
	if !ok {
		return nil, false
	}
	return pte.data, true
}

// Map implements Pagetable_i.
func (pt *SoftPagetable_t) Map(va uintptr, page []byte, w bool) {
	if len(page) != PGSIZE {
		panic("mem: page must be PGSIZE bytes")
	}
	flags := PTE_P | PTE_U
	if w {
		flags |= PTE_W
	}
	pt.pages[pground(va)] = &softpte_t{data: page, flags: flags}
}

// Writable reports whether the page containing va was mapped with write
// permission. Unmapped addresses report false.
func (pt *SoftPagetable_t) Writable(va uintptr) bool {
	pte, ok := pt.pages[pground(va)]
	return ok && pte.flags&PTE_W != 0
}

// UnmapPages implements Pagetable_i. The entries are removed whatever
// doFree says; pages here are plain slices with no frame allocator to
// return them to, so doFree has no further effect.
func (pt *SoftPagetable_t) UnmapPages(va uintptr, n int, doFree bool) {
	va = pground(va)
	for i := 0; i < n; i++ {
		delete(pt.pages, va)
		va += uintptr(PGSIZE)
	}
}
