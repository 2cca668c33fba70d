// Package fd wraps an fdops.Fdops_i as an open file descriptor and
// supplies the per-process descriptor table MAP resolves fd against
// (spec.md §6: "descriptor_table[fd] -> file?"). Path resolution
// (fd.Cwd_t/bpath/ustr in the teacher) belongs to directory traversal,
// which spec.md §1 excludes, so it is not carried over here.
package fd

import (
	"sync"

	"fdops"
)

// File descriptor permission bits.
const (
	FD_READ  = 0x1 // read permission
	FD_WRITE = 0x2 // write permission
)

// Fd_t represents an open file descriptor.
type Fd_t struct {
	// Fops is an interface implemented via a pointer receiver, thus Fops
	// is a reference, not a value.
	Fops  fdops.Fdops_i // descriptor operations
	Perms int           // permission bits
}

// Copyfd duplicates an open file descriptor via the underlying file's Dup,
// mirroring the teacher's Copyfd except that this Fdops_i contract dups
// rather than reopens (no backing path to reopen from).
func Copyfd(fd *Fd_t) *Fd_t {
	nfd := &Fd_t{}
	*nfd = *fd
	nfd.Fops = fd.Fops.Dup()
	return nfd
}

// Close_panic closes the descriptor and panics on failure, matching the
// teacher's convention that fd close cannot meaningfully fail.
func Close_panic(f *Fd_t) {
	if f.Fops.Close() != 0 {
		panic("must succeed")
	}
}

// Table_t is a process's descriptor table: open file descriptors indexed
// by small integer, spec.md §6's "descriptor_table[fd] -> file?".
type Table_t struct {
	sync.Mutex
	fds map[int]*Fd_t
	next int
}

// NewTable constructs an empty descriptor table.
func NewTable() *Table_t {
	return &Table_t{fds: make(map[int]*Fd_t)}
}

// Insert adds fd to the table and returns its newly assigned descriptor
// number.
func (t *Table_t) Insert(fd *Fd_t) int {
	t.Lock()
	defer t.Unlock()
	n := t.next
	t.next++
	t.fds[n] = fd
	return n
}

// Get resolves a descriptor number to its open file, or ok=false if it is
// not open -- spec.md §4.3 step 5's BadFd check.
func (t *Table_t) Get(n int) (*Fd_t, bool) {
	t.Lock()
	defer t.Unlock()
	fd, ok := t.fds[n]
	return fd, ok
}

// Remove drops a descriptor from the table without closing it; the
// caller is responsible for the underlying Fdops_i's lifetime.
func (t *Table_t) Remove(n int) {
	t.Lock()
	defer t.Unlock()
	delete(t.fds, n)
}

// Resolve adapts Get to vm.ResolveFunc's shape, unwrapping the Fd_t down
// to the bare fdops.Fdops_i that Map actually needs.
func (t *Table_t) Resolve(n int) (fdops.Fdops_i, bool) {
	fd, ok := t.Get(n)
	if !ok {
		return nil, false
	}
	return fd.Fops, true
}
