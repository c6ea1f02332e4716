package memory

import (
	"sync"

	"github.com/tetratelabs/wazero/experimental"
)

// Allocator backs Wasm linear memories with regions, so every memory.grow
// shows up in the ledger as committed memory.
type Allocator struct {
	manager *Manager
	limit   uint64
}

var _ experimental.MemoryAllocator = (*Allocator)(nil)

// NewAllocator creates an allocator. A non-zero limit caps the address space
// reserved for one linear memory.
func NewAllocator(manager *Manager, limit uint64) *Allocator {
	return &Allocator{manager: manager, limit: limit}
}

// Allocate reserves max bytes (or the limit, if lower) up front so the
// memory never moves when it grows.
func (a *Allocator) Allocate(_, max uint64) experimental.LinearMemory {
	size := max
	if a.limit > 0 && size > a.limit {
		size = a.limit
	}
	if size == 0 {
		return &linearMemory{manager: a.manager}
	}
	region, err := a.manager.Reserve(int(size))
	if err != nil {
		a.manager.logger.Error().Err(err).Uint64("max", max).Msg("failed to reserve linear memory")
		return &linearMemory{manager: a.manager}
	}
	return &linearMemory{manager: a.manager, region: region}
}

type linearMemory struct {
	manager *Manager
	region  *Region
}

// Reallocate commits the region up to size bytes. It returns nil when the
// region cannot grow, which wazero reports as a failed grow.
func (l *linearMemory) Reallocate(size uint64) []byte {
	if size == 0 {
		return []byte{}
	}
	if l.region == nil {
		return nil
	}
	if err := l.region.Commit(int(size)); err != nil {
		l.manager.logger.Warn().Err(err).Uint64("size", size).Msg("failed to grow linear memory")
		return nil
	}
	return l.region.Bytes()[:size:size]
}

func (l *linearMemory) Free() {
	if l.region == nil {
		return
	}
	if err := l.region.Free(); err != nil {
		l.manager.logger.Error().Err(err).Msg("failed to free linear memory")
	}
	l.region = nil
}

// Session hands out linear memories for a single instantiation and keeps
// track of them. wazero only frees the memories of modules it registered, so
// a failed instantiation must release them through FreeAll.
type Session struct {
	allocator *Allocator

	mu       sync.Mutex
	memories []experimental.LinearMemory
}

var _ experimental.MemoryAllocator = (*Session)(nil)

// Session starts a new session on a.
func (a *Allocator) Session() *Session {
	return &Session{allocator: a}
}

func (s *Session) Allocate(cap, max uint64) experimental.LinearMemory {
	lm := s.allocator.Allocate(cap, max)
	s.mu.Lock()
	s.memories = append(s.memories, lm)
	s.mu.Unlock()
	return lm
}

// FreeAll frees every memory handed out by the session.
func (s *Session) FreeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lm := range s.memories {
		lm.Free()
	}
	s.memories = nil
}
