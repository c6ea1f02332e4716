// Package wasm runs Wasm modules on wazero with their linear memories accounted
// in the runtime's virtual memory ledger.
package wasm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"

	rterrors "github.com/nativert/rtaccount/internal/runtime/error"
	"github.com/nativert/rtaccount/internal/runtime/memory"
	"github.com/nativert/rtaccount/types"
)

// Checksum is the SHA-256 digest identifying a Wasm code blob.
type Checksum [32]byte

func (c Checksum) String() string {
	return hex.EncodeToString(c[:])
}

// Engine compiles and instantiates modules. Compiled modules are cached by
// checksum for the lifetime of the engine.
type Engine struct {
	runtime   wazero.Runtime
	allocator *memory.Allocator
	logger    zerolog.Logger

	cacheMu  sync.RWMutex
	compiled map[Checksum]wazero.CompiledModule
}

// NewEngine creates an engine whose linear memories are reserved through
// manager.
func NewEngine(ctx context.Context, manager *memory.Manager, cfg types.WasmConfig, logger zerolog.Logger) *Engine {
	rcfg := wazero.NewRuntimeConfigInterpreter()
	if cfg.MemoryLimitPages > 0 {
		rcfg = rcfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	e := &Engine{
		runtime:   wazero.NewRuntimeWithConfig(ctx, rcfg),
		allocator: memory.NewAllocator(manager, cfg.ReservationLimit.Uint64()),
		logger:    logger.With().Str("component", "wasm").Logger(),
		compiled:  make(map[Checksum]wazero.CompiledModule),
	}
	e.logger.Info().Uint32("memory_limit_pages", cfg.MemoryLimitPages).Msg("Wazero runtime initialized")
	return e
}

// Compile compiles code, or returns the cached compilation.
func (e *Engine) Compile(ctx context.Context, code []byte) (Checksum, error) {
	_, sum, err := e.compile(ctx, code)
	return sum, err
}

func (e *Engine) compile(ctx context.Context, code []byte) (wazero.CompiledModule, Checksum, error) {
	sum := Checksum(sha256.Sum256(code))

	e.cacheMu.RLock()
	cm, ok := e.compiled[sum]
	e.cacheMu.RUnlock()
	if ok {
		e.logger.Debug().Str("checksum", sum.String()).Msg("Using cached module")
		return cm, sum, nil
	}

	cm, err := e.runtime.CompileModule(ctx, code)
	if err != nil {
		return nil, sum, &rterrors.RuntimeError{Msg: "failed to compile module", Err: err}
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if existing, ok := e.compiled[sum]; ok {
		_ = cm.Close(ctx)
		return existing, sum, nil
	}
	e.compiled[sum] = cm
	e.logger.Info().Str("checksum", sum.String()).Int("size", len(code)).Msg("Compiled module")
	return cm, sum, nil
}

// Instantiate compiles code if needed and instantiates it under name. An
// empty name instantiates an anonymous module. The caller closes the module.
func (e *Engine) Instantiate(ctx context.Context, code []byte, name string) (api.Module, error) {
	cm, sum, err := e.compile(ctx, code)
	if err != nil {
		return nil, err
	}
	session := e.allocator.Session()
	ctx = experimental.WithMemoryAllocator(ctx, session)
	mod, err := e.runtime.InstantiateModule(ctx, cm, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		// the instance was never registered, so wazero will not free its memory
		session.FreeAll()
		return nil, &rterrors.RuntimeError{Msg: "failed to instantiate module " + sum.String(), Err: err}
	}
	return mod, nil
}

// Close releases every compiled module and instance.
func (e *Engine) Close(ctx context.Context) error {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	for sum, cm := range e.compiled {
		if err := cm.Close(ctx); err != nil {
			e.logger.Error().Err(err).Str("checksum", sum.String()).Msg("Error closing compiled module")
		}
	}
	e.compiled = make(map[Checksum]wazero.CompiledModule)
	return e.runtime.Close(ctx)
}
