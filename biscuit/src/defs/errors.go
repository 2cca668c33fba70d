package defs

// Err_t is a kernel error code. Zero means success; callers return the
// negation of one of the constants below, mirroring vm.Vm_t's
// "-defs.EFAULT"-style call sites.
type Err_t int

// Classic xv6 errno numbering, extended with the mmap-specific kinds
// below need their own distinct name for.
const (
	EPERM  Err_t = 1 // operation not permitted
	ENOENT Err_t = 2 // no such file or directory
	EBADF  Err_t = 9 // bad file descriptor

	ENOMEM       Err_t = 12 // out of memory
	EACCES       Err_t = 13 // permission denied
	EFAULT       Err_t = 14 // bad address
	EEXIST       Err_t = 17 // file exists
	EINVAL       Err_t = 22 // invalid argument
	EMFILE       Err_t = 24 // too many open files
	ENOSPC       Err_t = 28 // no space left
	ENAMETOOLONG Err_t = 36 // name too long

	// ENOHEAP is not a POSIX errno; biscuit raises it when the kernel heap
	// reservation for a syscall is exhausted (see vm.Userbuf_t._tx).
	ENOHEAP Err_t = 100
)

// mmap-specific failure kinds, each an alias of the errno returned to
// the caller. Several kinds share one errno (BadArgs, BadProt and
// NotEdge are all EINVAL), so the value alone does not tell them apart.
const (
	EBadArgs     = EINVAL
	ENoSpace     = ENOSPC
	ETooManyMaps = EMFILE
	EBadFd       = EBADF
	EBadProt     = EINVAL
	EPerm        = EACCES
	ENotEdge     = EINVAL
)

// kindNames labels each errno above. The mmap failure kinds are aliases,
// so they log under their errno's label (BadArgs and BadProt both show
// as "EINVAL"); the detail text of each log line tells such kinds apart.
var kindNames = map[Err_t]string{
	EPERM:        "EPERM",
	ENOENT:       "ENOENT",
	EBADF:        "EBADF",
	ENOMEM:       "ENOMEM",
	EACCES:       "EACCES",
	EFAULT:       "EFAULT",
	EEXIST:       "EEXIST",
	EINVAL:       "EINVAL",
	EMFILE:       "EMFILE",
	ENOSPC:       "ENOSPC",
	ENAMETOOLONG: "ENAMETOOLONG",
	ENOHEAP:      "ENOHEAP",
}

// Name returns a human-readable label for err, for use in the one log
// line each failed syscall prints. Negative values (the caller's return
// convention) are reported under their positive kind.
func (err Err_t) Name() string {
	e := err
	if e < 0 {
		e = -e
	}
	if n, ok := kindNames[e]; ok {
		return n
	}
	return "EUNKNOWN"
}
