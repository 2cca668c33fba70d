// Package proc ties one address space to one descriptor table and
// exposes the two syscalls spec.md §6 names, Sys_mmap and Sys_munmap,
// the same way biscuit's Proc_t pairs a Vm_t with an Fds map behind the
// syscall entry points in syscall.go.
package proc

import (
	"fd"
	"mem"
	"vm"
)

// Process_t is the minimal per-process state this subsystem needs: a
// descriptor table and an mmap address space. A real kernel's Proc_t
// carries a great deal more (pid, threads, page directory root, ...);
// none of that is reachable from MAP/UNMAP, so it is left out.
type Process_t struct {
	Fds *fd.Table_t
	As  *vm.AddressSpace_t
}

// NewProcess constructs a process with an empty descriptor table and an
// mmap window starting at base.
func NewProcess(base uintptr, pt mem.Pagetable_i) *Process_t {
	return &Process_t{
		Fds: fd.NewTable(),
		As:  vm.NewAddressSpace(base, pt),
	}
}

// Sys_mmap is the MAP syscall entry point (spec.md §6):
// map(hint, length, prot, flags, fd, offset) -> vaddr | -1.
// hint is accepted for interface symmetry with a real mmap(2) but is
// unused: this subsystem's placement policy is the ring allocator alone.
func (p *Process_t) Sys_mmap(hint uintptr, length int, prot, flags uint, fdn, offset int) uintptr {
	start, err := p.As.Map(vm.MapArgs{
		Length: length,
		Prot:   prot,
		Flags:  flags,
		Fd:     fdn,
		Offset: offset,
	}, p.Fds.Resolve)
	if err != 0 {
		return ^uintptr(0) // -1
	}
	return start
}

// Sys_munmap is the UNMAP syscall entry point (spec.md §6):
// unmap(addr, length) -> 0 | -1.
func (p *Process_t) Sys_munmap(addr uintptr, length int) int {
	if err := p.As.Unmap(addr, length); err != 0 {
		return -1
	}
	return 0
}
