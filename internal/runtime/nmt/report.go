package nmt

// Report is a point-in-time view of the ledger, meant for diagnostics.
// The fields are read one after another, so a Report taken while other
// threads are updating the ledger may show a peak slightly behind its size.
type Report struct {
	Reserved      int64
	Committed     int64
	PeakReserved  int64
	PeakCommitted int64
}

// Report reads all four counters.
func (v *VirtualMemoryInfo) Report() Report {
	return Report{
		Reserved:      v.ReservedSize(),
		Committed:     v.CommittedSize(),
		PeakReserved:  v.PeakReservedSize(),
		PeakCommitted: v.PeakCommittedSize(),
	}
}

// Uncommitted is the reserved address space not backed by committed memory.
func (r Report) Uncommitted() int64 {
	return r.Reserved - r.Committed
}
