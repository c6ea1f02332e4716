//go:build unix

package memory

import (
	"golang.org/x/sys/unix"
)

func pageSize() int {
	return unix.Getpagesize()
}

// sysReserve maps inaccessible address space; no physical memory backs it
// until sysCommit.
func sysReserve(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_NONE, reserveFlags)
}

func sysCommit(b []byte) error {
	return unix.Mprotect(b, unix.PROT_READ|unix.PROT_WRITE)
}

func sysUncommit(b []byte) error {
	if err := unix.Madvise(b, unix.MADV_DONTNEED); err != nil {
		return err
	}
	return unix.Mprotect(b, unix.PROT_NONE)
}

func sysFree(b []byte) error {
	return unix.Munmap(b)
}
