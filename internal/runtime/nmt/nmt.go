// Package nmt tracks how much virtual memory the runtime has reserved and
// committed.
//
// Every method on VirtualMemoryInfo is lock free, never allocates and never
// blocks, so it may be called from inside the allocator or from thread
// attach/detach paths.
package nmt

import (
	"sync/atomic"

	"github.com/nativert/rtaccount/internal/runtime/assert"
)

// VirtualMemoryInfo is the process-wide virtual memory ledger. The zero value
// is an empty ledger. A single instance is created at startup, before any
// concurrent access, and shared by pointer for the lifetime of the process.
//
// The four counters are independent: a reader may observe a peak that has not
// yet caught up with a size that was just updated.
type VirtualMemoryInfo struct {
	peakReservedSize  atomic.Int64
	peakCommittedSize atomic.Int64
	reservedSize      atomic.Int64
	committedSize     atomic.Int64
}

// NewVirtualMemoryInfo creates an empty ledger.
func NewVirtualMemoryInfo() *VirtualMemoryInfo {
	return &VirtualMemoryInfo{}
}

// TrackReserved records size bytes of newly reserved address space.
func (v *VirtualMemoryInfo) TrackReserved(size int64) {
	newReservedSize := v.reservedSize.Add(size)
	updatePeak(newReservedSize, &v.peakReservedSize)
}

// TrackCommitted records size bytes of newly committed memory.
func (v *VirtualMemoryInfo) TrackCommitted(size int64) {
	newCommittedSize := v.committedSize.Add(size)
	updatePeak(newCommittedSize, &v.peakCommittedSize)
}

// TrackUncommit records size bytes returned from committed to reserved.
// Uncommitting more than is committed is a caller bug; it is only caught in
// debug builds.
func (v *VirtualMemoryInfo) TrackUncommit(size int64) {
	lastSize := v.committedSize.Add(-size)
	assert.That(lastSize >= 0, "nmt: committed size underflow")
}

// TrackFree records size bytes of address space released to the OS.
func (v *VirtualMemoryInfo) TrackFree(size int64) {
	lastSize := v.reservedSize.Add(-size)
	assert.That(lastSize >= 0, "nmt: reserved size underflow")
}

// updatePeak raises peak to newSize unless a concurrent writer already moved
// it higher.
func updatePeak(newSize int64, peak *atomic.Int64) {
	for {
		oldPeak := peak.Load()
		if newSize <= oldPeak || peak.CompareAndSwap(oldPeak, newSize) {
			return
		}
	}
}

// ReservedSize returns the reserved address space in bytes.
func (v *VirtualMemoryInfo) ReservedSize() int64 {
	return v.reservedSize.Load()
}

// CommittedSize returns the committed memory in bytes.
func (v *VirtualMemoryInfo) CommittedSize() int64 {
	return v.committedSize.Load()
}

// PeakReservedSize returns the highest ReservedSize seen so far.
func (v *VirtualMemoryInfo) PeakReservedSize() int64 {
	return v.peakReservedSize.Load()
}

// PeakCommittedSize returns the highest CommittedSize seen so far.
func (v *VirtualMemoryInfo) PeakCommittedSize() int64 {
	return v.peakCommittedSize.Load()
}
