package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEightByteBlock(t *testing.T) {
	original := [8]byte{3: 0x01}
	block := BlockOf(&original)
	require.EqualValues(t, 8, block.Size())
	assert.True(t, HasAny(block))

	working := original
	Clear(BlockOf(&working))
	assert.False(t, HasAny(BlockOf(&working)))
	assert.Equal(t, [8]byte{}, working)

	var second [8]byte
	Copy(block, BlockOf(&second))
	assert.Equal(t, original, second)
}

func TestHasAnyEveryPosition(t *testing.T) {
	var raw [32]byte
	require.False(t, HasAny(BlockOf(&raw)))
	for i := range raw {
		raw = [32]byte{}
		raw[i] = 0x80
		assert.True(t, HasAny(BlockOf(&raw)), "byte %d", i)
	}
}

func TestClearAnySize(t *testing.T) {
	one := [1]byte{0xff}
	Clear(BlockOf(&one))
	assert.False(t, HasAny(BlockOf(&one)))

	odd := [13]byte{0: 1, 6: 7, 12: 0xff}
	Clear(BlockOf(&odd))
	assert.False(t, HasAny(BlockOf(&odd)))

	type layout struct {
		a uint32
		b [3]byte
		c uint64
	}
	s := layout{a: 1, b: [3]byte{1, 2, 3}, c: 42}
	Clear(BlockOf(&s))
	assert.Equal(t, layout{}, s)
}

func TestCopyPreservesOrder(t *testing.T) {
	var src, dst [64]byte
	for i := range src {
		src[i] = byte(i * 3)
	}
	Copy(BlockOf(&src), BlockOf(&dst))
	assert.Equal(t, src, dst)
}

func TestCopyOverlapIsForward(t *testing.T) {
	buf := [6]byte{1, 2, 3, 4, 5, 6}
	Copy(BlockOf((*[4]byte)(buf[2:6])), BlockOf((*[4]byte)(buf[0:4])))
	assert.Equal(t, [6]byte{3, 4, 5, 6, 5, 6}, buf)

	// dst after src: bytes already written are read again
	buf = [6]byte{1, 2, 3, 4, 5, 6}
	Copy(BlockOf((*[4]byte)(buf[0:4])), BlockOf((*[4]byte)(buf[2:6])))
	assert.Equal(t, [6]byte{1, 2, 1, 2, 1, 2}, buf)
}

func TestBlockOperationsDoNotAllocate(t *testing.T) {
	var a, b Capabilities
	a.Set(5)
	allocs := testing.AllocsPerRun(100, func() {
		_ = HasAny(a.Block())
		Copy(a.Block(), b.Block())
		Clear(b.Block())
	})
	assert.Zero(t, allocs)
}

func TestNilBlock(t *testing.T) {
	assert.True(t, Block{}.IsNil())
	var c Capabilities
	assert.False(t, c.Block().IsNil())
}
