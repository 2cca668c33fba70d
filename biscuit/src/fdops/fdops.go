// Package fdops defines the file-object contract that the vm package's MAP
// and UNMAP operations treat as an external, fixed interface (spec.md §6).
// The source package this is generalized from (biscuit's fd.Fd_t wrapping
// an Fdops_i) does not ship the descriptor's I/O surface in this pack, so
// this file supplies the mmap-relevant slice of it spec.md actually names:
// readable/writable capability, a mutable cursor, and a write primitive.
package fdops

import "defs"

// Fdops_i is the operations set a memory-mappable file descriptor exposes.
// Everything else a real file descriptor supports (read, seek modes other
// than the plain cursor, ioctl, ...) is out of scope per spec.md §1.
type Fdops_i interface {
	// Readable reports whether the file was opened for reading.
	Readable() bool

	// Writable reports whether the file was opened for writing.
	Writable() bool

	// Offset returns the file's current cursor.
	Offset() int

	// Seek repositions the file's cursor and returns the prior value, so
	// callers can restore it (spec.md §9's save/restore design note).
	Seek(off int) int

	// Write writes n bytes from buf starting at the current cursor and
	// advances the cursor by the number of bytes written.
	Write(buf []byte, n int) (int, defs.Err_t)

	// WriteAt is the cursor-independent contract spec.md §9 prefers:
	// write buf[:n] at the given file offset without touching the
	// cursor. vm.writeBack, UNMAP's write-back, calls it for every
	// Fdops_i.
	WriteAt(buf []byte, n int, off int) (int, defs.Err_t)

	// Dup increments the file's reference count and returns the same
	// handle; fd.Copyfd calls it to duplicate a descriptor.
	Dup() Fdops_i

	// Close decrements the file's reference count, releasing the
	// underlying resource when it reaches zero.
	Close() defs.Err_t
}
