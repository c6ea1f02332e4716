package rtaccount

import (
	"github.com/nativert/rtaccount/internal/runtime/capabilities"
	"github.com/nativert/rtaccount/internal/runtime/diag"
	"github.com/nativert/rtaccount/internal/runtime/memory"
	"github.com/nativert/rtaccount/internal/runtime/nmt"
)

// VirtualMemoryInfo is the virtual memory ledger owned by a Runtime
type VirtualMemoryInfo = nmt.VirtualMemoryInfo

// Report is a snapshot of the ledger
type Report = nmt.Report

// Region is a reservation of virtual memory accounted in the ledger
type Region = memory.Region

// Sample is a timestamped Report
type Sample = diag.Sample

// History stores ledger samples
type History = diag.History

// CapabilitySet is a raw capability flag block
type CapabilitySet = capabilities.Capabilities
