//go:build !unix

package memory

import "os"

func pageSize() int {
	return os.Getpagesize()
}

// Without mmap the reservation is ordinary Go memory; only the accounting
// distinguishes reserved from committed bytes.
func sysReserve(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func sysCommit(b []byte) error {
	return nil
}

func sysUncommit(b []byte) error {
	clear(b)
	return nil
}

func sysFree(b []byte) error {
	return nil
}
