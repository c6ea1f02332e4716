// Package memory reserves and commits virtual memory for the runtime and
// reports every change to the nmt ledger in the same call that performs it.
package memory

import (
	"github.com/rs/zerolog"

	rterrors "github.com/nativert/rtaccount/internal/runtime/error"
	"github.com/nativert/rtaccount/internal/runtime/nmt"
)

// Manager hands out virtual memory regions accounted in a single ledger.
// It is safe for concurrent use.
type Manager struct {
	ledger   *nmt.VirtualMemoryInfo
	logger   zerolog.Logger
	pageSize int
}

// New creates a manager that records into ledger.
func New(ledger *nmt.VirtualMemoryInfo, logger zerolog.Logger) *Manager {
	return &Manager{
		ledger:   ledger,
		logger:   logger.With().Str("component", "memory").Logger(),
		pageSize: pageSize(),
	}
}

func (m *Manager) Ledger() *nmt.VirtualMemoryInfo {
	return m.ledger
}

// PageSize returns the granularity regions are rounded to.
func (m *Manager) PageSize() int {
	return m.pageSize
}

// Reserve claims size bytes of address space, rounded up to the page size.
// Nothing is committed yet.
func (m *Manager) Reserve(size int) (*Region, error) {
	if size <= 0 {
		return nil, &rterrors.MemoryError{Op: "reserve", Size: int64(size), Err: ErrInvalidSize}
	}
	size = m.roundUp(size)
	mem, err := sysReserve(size)
	if err != nil {
		return nil, &rterrors.MemoryError{Op: "reserve", Size: int64(size), Err: err}
	}
	m.ledger.TrackReserved(int64(len(mem)))

	m.logger.Debug().Int("size", len(mem)).Msg("reserved region")
	return &Region{manager: m, mem: mem}, nil
}

func (m *Manager) roundUp(size int) int {
	return (size + m.pageSize - 1) &^ (m.pageSize - 1)
}
