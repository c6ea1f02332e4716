// Package rtaccount is the resource-accounting core of a runtime: a virtual
// memory ledger fed by the runtime's memory reservations and Wasm linear
// memories, and the capability set negotiated with introspection agents.
package rtaccount

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero/api"

	"github.com/nativert/rtaccount/internal/runtime/capabilities"
	"github.com/nativert/rtaccount/internal/runtime/diag"
	"github.com/nativert/rtaccount/internal/runtime/memory"
	"github.com/nativert/rtaccount/internal/runtime/nmt"
	"github.com/nativert/rtaccount/internal/runtime/wasm"
	"github.com/nativert/rtaccount/types"
)

// Runtime owns the process-wide ledger and everything that reports into it.
// Create exactly one, during startup, and share it by pointer.
type Runtime struct {
	logger  zerolog.Logger
	ledger  *nmt.VirtualMemoryInfo
	memory  *memory.Manager
	engine  *wasm.Engine
	history *diag.History
	sampler *diag.Sampler

	capMu     sync.Mutex
	potential capabilities.Capabilities
	current   capabilities.Capabilities
}

// New builds a Runtime from cfg. The ledger starts empty.
func New(ctx context.Context, cfg types.Config, logger zerolog.Logger) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	r := &Runtime{
		logger: logger,
		ledger: nmt.NewVirtualMemoryInfo(),
	}
	r.memory = memory.New(r.ledger, logger)

	if len(cfg.Capabilities.Potential) == 0 {
		r.potential = capabilities.Potential()
	} else {
		potential, err := capabilities.FromNames(cfg.Capabilities.Potential)
		if err != nil {
			return nil, err
		}
		r.potential = potential
	}

	if cfg.Diagnostics.HistoryBackend != "" {
		history, err := diag.OpenHistory(cfg.Diagnostics.HistoryBackend, cfg.Diagnostics.HistoryDir)
		if err != nil {
			return nil, err
		}
		r.history = history
	}
	r.sampler = diag.NewSampler(r.ledger, r.history, cfg.Diagnostics.SampleInterval(), logger)
	r.engine = wasm.NewEngine(ctx, r.memory, cfg.Wasm, logger)

	if len(cfg.Capabilities.Requested) > 0 {
		if err := r.AddCapabilities(cfg.Capabilities.Requested); err != nil {
			_ = r.Close(ctx)
			return nil, err
		}
	}
	return r, nil
}

// Ledger returns the runtime's virtual memory ledger.
func (r *Runtime) Ledger() *VirtualMemoryInfo {
	return r.ledger
}

// Report reads the ledger.
func (r *Runtime) Report() Report {
	return r.ledger.Report()
}

// LogReport writes the current ledger report to the runtime logger.
func (r *Runtime) LogReport() {
	diag.LogReport(r.logger, r.ledger.Report())
}

// Reserve reserves size bytes of virtual memory. The caller commits and
// frees it through the returned region.
func (r *Runtime) Reserve(size int) (*Region, error) {
	return r.memory.Reserve(size)
}

// PageSize is the granularity of Reserve, Commit and Uncommit.
func (r *Runtime) PageSize() int {
	return r.memory.PageSize()
}

// Instantiate runs a Wasm module whose linear memory is accounted in the
// ledger. The caller closes the module.
func (r *Runtime) Instantiate(ctx context.Context, code []byte, name string) (api.Module, error) {
	return r.engine.Instantiate(ctx, code, name)
}

// Sample takes and records one ledger sample.
func (r *Runtime) Sample() (Sample, error) {
	return r.sampler.Sample()
}

// RunSampler samples the ledger at the configured interval until ctx is done.
func (r *Runtime) RunSampler(ctx context.Context) error {
	return r.sampler.Run(ctx)
}

// History returns the sample history, or nil when none is configured.
func (r *Runtime) History() *History {
	return r.history
}

// AddCapabilities enables names. Nothing is enabled if one of them is not
// offered by the runtime.
func (r *Runtime) AddCapabilities(names types.Capabilities) error {
	desired, err := capabilities.FromNames(names)
	if err != nil {
		return err
	}
	r.capMu.Lock()
	defer r.capMu.Unlock()
	if err := capabilities.Add(&r.current, &r.potential, &desired); err != nil {
		return err
	}
	r.logger.Info().Str("capabilities", names.Serialize()).Msg("added capabilities")
	return nil
}

// RelinquishCapabilities disables names.
func (r *Runtime) RelinquishCapabilities(names types.Capabilities) error {
	unwanted, err := capabilities.FromNames(names)
	if err != nil {
		return err
	}
	r.capMu.Lock()
	defer r.capMu.Unlock()
	capabilities.Relinquish(&r.current, &unwanted)
	return nil
}

// Capabilities lists the enabled capabilities.
func (r *Runtime) Capabilities() types.Capabilities {
	r.capMu.Lock()
	defer r.capMu.Unlock()
	return r.current.Names()
}

// CapabilitySet copies the enabled capabilities into dst.
func (r *Runtime) CapabilitySet(dst *CapabilitySet) {
	r.capMu.Lock()
	defer r.capMu.Unlock()
	capabilities.CopyCapabilities(&r.current, dst)
}

// PotentialCapabilities lists what the runtime can offer.
func (r *Runtime) PotentialCapabilities() types.Capabilities {
	return r.potential.Names()
}

// Close shuts down the engine and the history. The ledger stays readable.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.engine != nil {
		errs = append(errs, r.engine.Close(ctx))
	}
	if r.history != nil {
		errs = append(errs, r.history.Close())
	}
	return errors.Join(errs...)
}
