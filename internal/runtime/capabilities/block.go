// Package capabilities manipulates fixed-size capability flag blocks.
//
// The byte-level operations in this file treat a block as raw memory and do
// not allocate, lock or block. They give no atomicity: callers must make sure
// nobody mutates a block while it is being scanned, cleared or copied.
package capabilities

import (
	"unsafe"

	"github.com/nativert/rtaccount/internal/runtime/assert"
)

// Block is an opaque handle on a caller-owned block of capability bytes.
type Block struct {
	ptr  unsafe.Pointer
	size uintptr
}

// BlockOf returns a handle on the memory of *v. Its length is the size of T.
func BlockOf[T any](v *T) Block {
	return Block{ptr: unsafe.Pointer(v), size: unsafe.Sizeof(*v)}
}

// Size returns the length of the block in bytes.
func (b Block) Size() uintptr {
	return b.size
}

// IsNil reports whether b refers to no memory.
func (b Block) IsNil() bool {
	return b.ptr == nil
}

func (b Block) bytes() []byte {
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

// HasAny reports whether at least one byte of the block is non-zero.
func HasAny(b Block) bool {
	assert.That(!b.IsNil(), "capabilities: nil block")
	for _, c := range b.bytes() {
		if c != 0 {
			return true
		}
	}
	return false
}

// Clear sets every byte of the block to zero.
func Clear(b Block) {
	assert.That(!b.IsNil(), "capabilities: nil block")
	clear(b.bytes())
}

// Copy copies src into dst byte by byte, from low to high addresses. It is not
// a memmove: if dst starts inside src, dst receives bytes Copy already wrote.
func Copy(src, dst Block) {
	assert.That(!src.IsNil() && !dst.IsNil(), "capabilities: nil block")
	assert.That(src.size == dst.size, "capabilities: block size mismatch")
	s, d := src.bytes(), dst.bytes()
	for i := range d {
		d[i] = s[i]
	}
}
