package nmt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLedger(t *testing.T) {
	var v VirtualMemoryInfo
	assert.Equal(t, Report{}, v.Report())
	assert.Equal(t, Report{}, NewVirtualMemoryInfo().Report())
}

func TestTrackSequence(t *testing.T) {
	v := NewVirtualMemoryInfo()
	v.TrackReserved(1000)
	v.TrackCommitted(400)
	v.TrackCommitted(100)
	v.TrackUncommit(200)
	v.TrackFree(300)

	assert.EqualValues(t, 700, v.ReservedSize())
	assert.EqualValues(t, 300, v.CommittedSize())
	assert.EqualValues(t, 1000, v.PeakReservedSize())
	assert.EqualValues(t, 500, v.PeakCommittedSize())

	r := v.Report()
	assert.Equal(t, Report{Reserved: 700, Committed: 300, PeakReserved: 1000, PeakCommitted: 500}, r)
	assert.EqualValues(t, 400, r.Uncommitted())
}

func TestNegativeReservedDelta(t *testing.T) {
	v := NewVirtualMemoryInfo()
	v.TrackReserved(1000)
	v.TrackReserved(-300)
	assert.EqualValues(t, 700, v.ReservedSize())
	assert.EqualValues(t, 1000, v.PeakReservedSize())
}

func TestPeakTracksMaximum(t *testing.T) {
	v := NewVirtualMemoryInfo()
	deltas := []int64{10, 50, -30, 5, -20, 100, -115}
	var cur, highest int64
	for _, d := range deltas {
		if d >= 0 {
			v.TrackCommitted(d)
		} else {
			v.TrackUncommit(-d)
		}
		cur += d
		if cur > highest {
			highest = cur
		}
		require.GreaterOrEqual(t, v.PeakCommittedSize(), v.CommittedSize())
	}
	assert.Equal(t, cur, v.CommittedSize())
	assert.Equal(t, highest, v.PeakCommittedSize())
}

func TestConcurrentReserve(t *testing.T) {
	v := NewVirtualMemoryInfo()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.TrackReserved(100)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 200, v.ReservedSize())
	assert.EqualValues(t, 200, v.PeakReservedSize())
}

func TestConcurrentBalancedUpdates(t *testing.T) {
	const (
		workers    = 16
		iterations = 1000
	)
	v := NewVirtualMemoryInfo()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			size := int64(w + 1)
			for i := 0; i < iterations; i++ {
				v.TrackReserved(size)
				v.TrackCommitted(size)
				v.TrackUncommit(size)
				v.TrackFree(size)
			}
		}(w)
	}
	wg.Wait()

	assert.Zero(t, v.ReservedSize())
	assert.Zero(t, v.CommittedSize())
	// every worker holds at most its own size at any instant
	maxTotal := int64(workers * (workers + 1) / 2)
	assert.Positive(t, v.PeakReservedSize())
	assert.LessOrEqual(t, v.PeakReservedSize(), maxTotal)
	assert.Positive(t, v.PeakCommittedSize())
	assert.LessOrEqual(t, v.PeakCommittedSize(), maxTotal)
}

func TestConcurrentGrowthPeakEqualsTotal(t *testing.T) {
	const workers = 8
	v := NewVirtualMemoryInfo()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				v.TrackCommitted(4096)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, workers*500*4096, v.CommittedSize())
	assert.Equal(t, v.CommittedSize(), v.PeakCommittedSize())
}

func TestUpdatePeakNeverDecreases(t *testing.T) {
	v := NewVirtualMemoryInfo()
	v.TrackReserved(500)
	v.TrackFree(400)
	v.TrackReserved(100)
	assert.EqualValues(t, 200, v.ReservedSize())
	assert.EqualValues(t, 500, v.PeakReservedSize())
}

func TestTrackDoesNotAllocate(t *testing.T) {
	v := NewVirtualMemoryInfo()
	allocs := testing.AllocsPerRun(100, func() {
		v.TrackReserved(8192)
		v.TrackCommitted(4096)
		v.TrackUncommit(4096)
		v.TrackFree(8192)
		_ = v.Report()
	})
	assert.Zero(t, allocs)
}

func BenchmarkTrackCommittedParallel(b *testing.B) {
	v := NewVirtualMemoryInfo()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			v.TrackCommitted(4096)
			v.TrackUncommit(4096)
		}
	})
}
