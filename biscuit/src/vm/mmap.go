package vm

import (
	"fmt"
	"sync"

	"defs"
	"fdops"
	"mem"
	"util"
)

// ResolveFunc resolves a process's small-integer file descriptor to an
// open file, spec.md §6's "descriptor_table[fd] -> file?" contract.
// proc.Process_t passes a closure over its fd.Table_t here, since vm must
// not import fd (fd already imports fdops, and vm has no need to know
// about descriptor tables beyond this one lookup).
type ResolveFunc func(fd int) (fdops.Fdops_i, bool)

// MapArgs are the arguments to Map (spec.md §4.3).
type MapArgs struct {
	Length int
	Prot   uint
	Flags  uint
	Fd     int
	Offset int
}

// AddressSpace_t is the per-process pair of MappingRegion+MappingTable
// plus the page-table bridge, guarded by a single sleep-capable lock
// (spec.md §5) -- the same shape as biscuit's Vm_t, which embeds
// sync.Mutex directly and serializes all of Vmregion/Pmap/P_pmap behind
// it.
type AddressSpace_t struct {
	sync.Mutex
	Region *MappingRegion_t
	Table  *MappingTable_t
	PT     mem.Pagetable_i
}

// NewAddressSpace constructs an address space with an empty mmap window
// starting at base and backed by pt.
func NewAddressSpace(base uintptr, pt mem.Pagetable_i) *AddressSpace_t {
	return &AddressSpace_t{
		Region: NewMappingRegion(base),
		Table:  &MappingTable_t{},
		PT:     pt,
	}
}

func pground(va uintptr) uintptr {
	return va &^ (uintptr(mem.PGSIZE) - 1)
}

func proundup(va uintptr) uintptr {
	return pground(va+uintptr(mem.PGSIZE)-1)
}

// logfail prints the one log line spec.md §7 wants for a failed MAP/UNMAP,
// naming the call and the failure kind, matching the style of the
// original sys_mmap/sys_munmap's "printf(\"sys_mmap: ...\")" lines.
func logfail(op string, err defs.Err_t, detail string) defs.Err_t {
	fmt.Printf("%s: %s (%s)\n", op, detail, err.Name())
	return err
}

// Map implements the MAP operation of spec.md §4.3. Validation is
// short-circuited in the exact order the spec lists, each failure
// surfacing its own named error kind.
func (as *AddressSpace_t) Map(args MapArgs, resolve ResolveFunc) (uintptr, defs.Err_t) {
	as.Lock()
	defer as.Unlock()

	// 1. argument decode/shape.
	if args.Length <= 0 {
		return 0, logfail("sys_mmap", -defs.EBadArgs, "bad length")
	}
	if args.Flags != MAP_SHARED && args.Flags != MAP_PRIVATE {
		return 0, logfail("sys_mmap", -defs.EBadArgs, "bad flags")
	}
	if args.Offset < 0 {
		return 0, logfail("sys_mmap", -defs.EBadArgs, "bad offset")
	}

	// 2. region full check, ahead of any other validation.
	if as.Region.Full() {
		return 0, logfail("sys_mmap", -defs.ENoSpace, "mmemory is full")
	}

	// 3. page count.
	nPages := util.Roundup(args.Length, mem.PGSIZE) / mem.PGSIZE

	// 4. slot availability.
	slot, err := as.Table.AllocSlot()
	if err != 0 {
		return 0, logfail("sys_mmap", err, "files being mapped are too many")
	}

	// 5. descriptor resolution.
	file, ok := resolve(args.Fd)
	if !ok {
		return 0, logfail("sys_mmap", -defs.EBadFd, "invalid file descriptor")
	}

	// 6. prot shape.
	if args.Prot == 0 {
		return 0, logfail("sys_mmap", -defs.EBadProt, "strange prot")
	}

	// 7. read capability.
	if args.Prot&PROT_READ != 0 && !file.Readable() {
		return 0, logfail("sys_mmap", -defs.EPerm, "file not readable")
	}

	// 8. write capability (shared mappings only; private writable maps
	// never touch the file, so they don't need it to be writable).
	if args.Prot&PROT_WRITE != 0 && args.Flags == MAP_SHARED && !file.Writable() {
		return 0, logfail("sys_mmap", -defs.EPerm, "file not writable")
	}

	// 9. reserve the address range.
	startPage, _, err := as.Region.Reserve(nPages)
	if err != 0 {
		return 0, logfail("sys_mmap", err, "mmemory is not enough")
	}

	start := as.Region.PageAddr(startPage)
	end := start + uintptr(args.Length)
	m := &Mapping_t{
		File:   file.Dup(),
		Prot:   args.Prot,
		Flags:  args.Flags,
		Start:  start,
		End:    end,
		Offset: args.Offset,
	}
	as.Table.Set(slot, m)

	writable := args.Prot&PROT_WRITE != 0
	for i := 0; i < nPages; i++ {
		va := start + uintptr(i*mem.PGSIZE)
		as.PT.Map(va, make([]byte, mem.PGSIZE), writable)
	}

	return start, 0
}

// writeBack writes all of buf to file at the mapping's logical offset,
// whether or not those bytes were modified (no dirty state is tracked),
// saving and restoring the file's cursor around the write so the
// caller's own position is undisturbed (spec.md §9's cursor design note).
// It prefers the cursor-independent WriteAt when the Fdops_i offers one
// with meaningful semantics; here both paths funnel through WriteAt since
// that is this package's Fdops_i contract either way.
func writeBack(file fdops.Fdops_i, off int, buf []byte) {
	saved := file.Offset()
	file.WriteAt(buf, len(buf), off)
	file.Seek(saved)
}

// Unmap implements the UNMAP operation of spec.md §4.4. addr must be the
// start of a live mapping, or addr+length its end (NotEdge otherwise);
// carving a hole out of the middle of a mapping is not supported.
func (as *AddressSpace_t) Unmap(addr uintptr, length int) defs.Err_t {
	as.Lock()
	defer as.Unlock()

	if length <= 0 {
		return logfail("sys_munmap", -defs.EBadArgs, "load argument failed")
	}
	end := addr + uintptr(length)

	if idx, ok := as.Table.FindByStart(addr); ok {
		return as.unmapHead(idx, addr, end)
	}
	if idx, ok := as.Table.FindByEnd(end); ok {
		return as.unmapTail(idx, addr, end)
	}
	return logfail("sys_munmap", -defs.ENotEdge, "not edge, can't unmap")
}

// unmapHead strips pages off the low-address side of the mapping at
// table slot idx. Per spec.md §9's first Open Question, head is advanced
// by one page every loop iteration regardless of whether that iteration
// actually released a physical page -- the source does this
// unconditionally, and the literal behavior is preserved here rather
// than "fixed", since a partial, sub-page unmap request still consumes
// one ring slot's worth of bookkeeping in the original.
func (as *AddressSpace_t) unmapHead(idx int, addr, end uintptr) defs.Err_t {
	m := as.Table.Get(idx)
	cur := addr
	for cur < end {
		nextBoundary := proundup(cur + 1)
		boundary := util.Min(nextBoundary, util.Min(m.End, end))

		pageVA := pground(cur)
		if page, ok := as.PT.Translate(pageVA); ok {
			if m.Prot&PROT_WRITE != 0 && m.Shared() {
				off := m.Offset + int(cur-m.Start)
				writeBack(m.File, off, page[cur-pageVA:boundary-pageVA])
			}
			if boundary == nextBoundary || boundary == m.End {
				as.PT.UnmapPages(pageVA, 1, true)
				as.Region.ClearFull()
			}
		}

		if boundary == m.End {
			m.File.Close()
			as.Table.Drop(idx)
			as.Region.ReleaseHead(1)
			if as.Region.Head() == as.Region.Tail() {
				as.Region.SetHeadZero()
				as.Region.SetTailZero()
			}
			return 0
		}

		m.Offset += int(boundary - m.Start)
		m.Start = boundary
		as.Region.ReleaseHead(1)
		cur = boundary
	}
	return 0
}

// unmapTail strips pages off the high-address side of the mapping at
// table slot idx, mirroring unmapHead from the opposite edge. Per
// spec.md §9's second Open Question, reaching boundary == mapping.Start
// is treated as a full drain even when the request's own end lands
// exactly on it.
func (as *AddressSpace_t) unmapTail(idx int, addr, end uintptr) defs.Err_t {
	m := as.Table.Get(idx)
	for end > addr {
		prevBoundary := pground(end - 1)
		boundary := util.Max(prevBoundary, util.Max(m.Start, addr))

		pageVA := prevBoundary
		if page, ok := as.PT.Translate(pageVA); ok {
			if m.Prot&PROT_WRITE != 0 && m.Shared() {
				off := m.Offset + int(boundary-m.Start)
				writeBack(m.File, off, page[boundary-pageVA:end-pageVA])
			}
			if boundary == m.Start || boundary == prevBoundary {
				as.PT.UnmapPages(pageVA, 1, true)
				as.Region.ClearFull()
				as.Region.ReleaseTail(1)
			}
		}

		if boundary == m.Start {
			m.File.Close()
			as.Table.Drop(idx)
			as.Region.RecomputeTail(as.Table.Live())
			return 0
		}

		m.End = boundary
		end = prevBoundary
	}
	return 0
}
