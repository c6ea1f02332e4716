package memory

import (
	"sync"

	rterrors "github.com/nativert/rtaccount/internal/runtime/error"
)

// Region is a reservation whose first Committed() bytes are usable memory.
type Region struct {
	manager *Manager

	mu        sync.Mutex
	mem       []byte // whole reservation, nil once freed
	committed int
}

// Reserved returns the size of the reservation, zero after Free.
func (r *Region) Reserved() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.mem)
}

// Committed returns the number of usable bytes.
func (r *Region) Committed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committed
}

// Bytes returns the committed part of the region.
func (r *Region) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mem[:r.committed:r.committed]
}

// Commit makes at least the first size bytes usable. Committing less than
// what is already committed is a no-op.
func (r *Region) Commit(size int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mem == nil {
		return &rterrors.MemoryError{Op: "commit", Size: int64(size), Err: ErrRegionFreed}
	}
	if size > len(r.mem) {
		return &rterrors.MemoryError{Op: "commit", Size: int64(size), Err: ErrOutOfRange}
	}
	size = r.manager.roundUp(size)
	if size <= r.committed {
		return nil
	}
	if err := sysCommit(r.mem[r.committed:size]); err != nil {
		return &rterrors.MemoryError{Op: "commit", Size: int64(size - r.committed), Err: err}
	}
	r.manager.ledger.TrackCommitted(int64(size - r.committed))
	r.committed = size
	return nil
}

// Uncommit shrinks the usable part to size bytes, rounded up to the page
// size. The released pages read as zero if committed again.
func (r *Region) Uncommit(size int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mem == nil {
		return &rterrors.MemoryError{Op: "uncommit", Size: int64(size), Err: ErrRegionFreed}
	}
	if size < 0 {
		return &rterrors.MemoryError{Op: "uncommit", Size: int64(size), Err: ErrInvalidSize}
	}
	size = r.manager.roundUp(size)
	if size >= r.committed {
		return nil
	}
	if err := sysUncommit(r.mem[size:r.committed]); err != nil {
		return &rterrors.MemoryError{Op: "uncommit", Size: int64(r.committed - size), Err: err}
	}
	r.manager.ledger.TrackUncommit(int64(r.committed - size))
	r.committed = size
	return nil
}

// Free releases the whole reservation, committed part included.
func (r *Region) Free() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mem == nil {
		return &rterrors.MemoryError{Op: "free", Err: ErrRegionFreed}
	}
	reserved := len(r.mem)
	if err := sysFree(r.mem); err != nil {
		return &rterrors.MemoryError{Op: "free", Size: int64(reserved), Err: err}
	}
	if r.committed > 0 {
		r.manager.ledger.TrackUncommit(int64(r.committed))
	}
	r.manager.ledger.TrackFree(int64(reserved))
	r.mem, r.committed = nil, 0

	r.manager.logger.Debug().Int("size", reserved).Msg("freed region")
	return nil
}
