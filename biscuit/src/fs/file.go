// Package fs provides an in-memory file object used to exercise the vm
// package's MAP/UNMAP write-back path end to end. It is generalized from
// biscuit's block cache (fs.Bdev_block_t / fs.Disk_i): content sits
// behind a reference count, without an actual disk underneath; it is
// held as one contiguous byte slice rather than in fixed-size blocks.
// spec.md §6 treats the file object as a fixed external interface; this is
// one concrete implementation of that interface; any other Fdops_i works
// equally well with the vm package.
package fs

import (
	"defs"
	"fdops"

	"mem"
)

// BSIZE mirrors fs.BSIZE in the teacher (4096, one page). File_t does
// not grow in BSIZE units: a write extends the content to its exact end.
const BSIZE = mem.PGSIZE

// File_t is a reference-counted, growable in-memory file. Writes beyond
// the current length grow the file, zero-filling any gap, matching a
// real file's sparse-write semantics closely enough for this subsystem's
// tests; reads beyond it return zeros and do not grow the file.
type File_t struct {
	readable bool
	writable bool
	offset   int
	refcnt   int
	data     []byte
}

// NewFile constructs a File_t with one reference, the readable/writable
// capabilities spec.md's Map validation (§4.3 steps 7-8) checks against.
func NewFile(readable, writable bool, initial []byte) *File_t {
	f := &File_t{
		readable: readable,
		writable: writable,
		refcnt:   1,
	}
	f.data = append(f.data, initial...)
	return f
}

// Readable implements fdops.Fdops_i.
func (f *File_t) Readable() bool { return f.readable }

// Writable implements fdops.Fdops_i.
func (f *File_t) Writable() bool { return f.writable }

// Offset implements fdops.Fdops_i.
func (f *File_t) Offset() int { return f.offset }

// Seek implements fdops.Fdops_i.
func (f *File_t) Seek(off int) int {
	old := f.offset
	f.offset = off
	return old
}

func (f *File_t) growTo(n int) {
	if n <= len(f.data) {
		return
	}
	grown := make([]byte, n)
	copy(grown, f.data)
	f.data = grown
}

// Write implements fdops.Fdops_i: writes at the current cursor and
// advances it by the number of bytes written.
func (f *File_t) Write(buf []byte, n int) (int, defs.Err_t) {
	n, err := f.WriteAt(buf, n, f.offset)
	f.offset += n
	return n, err
}

// WriteAt implements fdops.Fdops_i's preferred, cursor-independent
// contract (spec.md §9's design note).
func (f *File_t) WriteAt(buf []byte, n int, off int) (int, defs.Err_t) {
	if !f.writable {
		return 0, -defs.EPerm
	}
	if n > len(buf) {
		n = len(buf)
	}
	f.growTo(off + n)
	copy(f.data[off:off+n], buf[:n])
	return n, 0
}

// ReadAt returns a copy of n bytes starting at off, for tests to verify
// write-back landed correctly. Bytes beyond the file's length read back
// as zero.
func (f *File_t) ReadAt(off, n int) []byte {
	out := make([]byte, n)
	if off >= len(f.data) {
		return out
	}
	end := off + n
	if end > len(f.data) {
		end = len(f.data)
	}
	copy(out, f.data[off:end])
	return out
}

// Len reports the file's current length in bytes.
func (f *File_t) Len() int { return len(f.data) }

// Refcnt reports the file's current reference count, for tests asserting
// the round-trip property of spec.md §8 (MAP+UNMAP nets one dup/close).
func (f *File_t) Refcnt() int { return f.refcnt }

// Dup implements fdops.Fdops_i. biscuit's fd.Copyfd reopens rather than
// aliasing, but a plain in-memory file has no per-handle state to
// duplicate, so sharing the pointer is correct.
func (f *File_t) Dup() fdops.Fdops_i {
	f.refcnt++
	return f
}

// Close implements fdops.Fdops_i.
func (f *File_t) Close() defs.Err_t {
	f.refcnt--
	if f.refcnt < 0 {
		panic("fs: refcnt underflow")
	}
	return 0
}
