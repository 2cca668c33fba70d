package proc

import (
	"bytes"
	"testing"

	"fd"
	"fs"
	"mem"
	"vm"
)

func openFile(t *testing.T, p *Process_t, f *fs.File_t) int {
	t.Helper()
	return p.Fds.Insert(&fd.Fd_t{Fops: f, Perms: fd.FD_READ | fd.FD_WRITE})
}

func TestSysMmapSysMunmapRoundTrip(t *testing.T) {
	pt := mem.NewSoftPagetable()
	p := NewProcess(0x2000_0000, pt)
	f := fs.NewFile(true, true, nil)
	n := openFile(t, p, f)

	va := p.Sys_mmap(0, 4096, vm.PROT_READ|vm.PROT_WRITE, vm.MAP_SHARED, n, 0)
	if va == ^uintptr(0) {
		t.Fatalf("Sys_mmap failed")
	}

	page, ok := pt.Translate(va)
	if !ok {
		t.Fatalf("mapped page not present in page table")
	}
	for i := range page {
		page[i] = 'Z'
	}

	if rc := p.Sys_munmap(va, 4096); rc != 0 {
		t.Fatalf("Sys_munmap = %d, want 0", rc)
	}

	want := bytes.Repeat([]byte{'Z'}, 4096)
	if got := f.ReadAt(0, 4096); !bytes.Equal(got, want) {
		t.Fatalf("file content = %q, want 4096 'Z's", got)
	}
}

func TestSysMmapBadFdReturnsMinusOne(t *testing.T) {
	pt := mem.NewSoftPagetable()
	p := NewProcess(0, pt)
	if va := p.Sys_mmap(0, 4096, vm.PROT_READ, vm.MAP_SHARED, 99, 0); va != ^uintptr(0) {
		t.Fatalf("Sys_mmap with an unopened fd should return -1, got %#x", va)
	}
}

func TestSysMunmapNotEdgeReturnsMinusOne(t *testing.T) {
	pt := mem.NewSoftPagetable()
	p := NewProcess(0, pt)
	f := fs.NewFile(true, true, nil)
	n := openFile(t, p, f)

	va := p.Sys_mmap(0, 8192, vm.PROT_READ, vm.MAP_SHARED, n, 0)
	if va == ^uintptr(0) {
		t.Fatalf("Sys_mmap failed")
	}
	if rc := p.Sys_munmap(va+4096, 2048); rc != -1 {
		t.Fatalf("Sys_munmap on an interior address = %d, want -1", rc)
	}
}
