package capabilities

import (
	"unsafe"

	"github.com/nativert/rtaccount/types"
)

// Capabilities is a 128-bit flag block. Bit n (byte n/8, bit n%8) is set when
// types.AllCapabilities()[n] is enabled; the remaining bits are reserved and
// must stay zero.
type Capabilities struct {
	bits [16]byte
}

// Size is the byte length of a Capabilities block.
const Size = unsafe.Sizeof(Capabilities{})

// Flag is the bit position of a capability within a Capabilities block.
type Flag uint8

// FlagOf returns the bit position of c.
func FlagOf(c types.Capability) (Flag, bool) {
	i := c.Index()
	if i < 0 {
		return 0, false
	}
	return Flag(i), true
}

// Block returns a handle on the raw bytes of c.
func (c *Capabilities) Block() Block {
	return BlockOf(c)
}

// HasAny reports whether any capability is set.
func (c *Capabilities) HasAny() bool {
	return HasAny(c.Block())
}

// Clear unsets every capability.
func (c *Capabilities) Clear() {
	Clear(c.Block())
}

// Set enables f.
func (c *Capabilities) Set(f Flag) {
	c.bits[f/8] |= 1 << (f % 8)
}

// Unset disables f.
func (c *Capabilities) Unset(f Flag) {
	c.bits[f/8] &^= 1 << (f % 8)
}

// Has reports whether f is enabled.
func (c *Capabilities) Has(f Flag) bool {
	return c.bits[f/8]&(1<<(f%8)) != 0
}

// Names lists the set capabilities in bit order.
func (c *Capabilities) Names() types.Capabilities {
	var out types.Capabilities
	for i, name := range types.AllCapabilities() {
		if c.Has(Flag(i)) {
			out = append(out, name)
		}
	}
	return out
}

// CopyCapabilities overwrites dst with src.
func CopyCapabilities(src, dst *Capabilities) {
	Copy(src.Block(), dst.Block())
}
