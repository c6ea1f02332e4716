package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nativert/rtaccount/internal/runtime/constants"
)

// Config defines the configuration of the runtime.
type Config struct {
	Wasm         WasmConfig        `json:"wasm"`
	Diagnostics  DiagnosticsConfig `json:"diagnostics"`
	Capabilities CapabilityConfig  `json:"capabilities"`
}

type WasmConfig struct {
	// MemoryLimitPages caps every linear memory; 0 means the Wasm maximum
	MemoryLimitPages uint32 `json:"memory_limit_pages"`
	// ReservationLimit caps the address space reserved per linear memory; 0 means no cap
	ReservationLimit Size `json:"reservation_limit_bytes"`
}

type DiagnosticsConfig struct {
	SampleIntervalMillis uint32 `json:"sample_interval_ms"`
	// HistoryBackend is a cometbft-db backend name ("memdb", "goleveldb").
	// Empty disables sample history.
	HistoryBackend string `json:"history_db_backend,omitempty"`
	HistoryDir     string `json:"history_dir,omitempty"`
}

// SampleInterval returns the sampling period of the diagnostics sampler.
func (d DiagnosticsConfig) SampleInterval() time.Duration {
	return time.Duration(d.SampleIntervalMillis) * time.Millisecond
}

type CapabilityConfig struct {
	// Potential lists what the runtime can offer; empty means every capability
	Potential Capabilities `json:"potential,omitempty"`
	// Requested is added to the runtime's capability set at startup
	Requested Capabilities `json:"requested,omitempty"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Wasm: WasmConfig{
			MemoryLimitPages: constants.DefaultMemoryLimitPages,
			ReservationLimit: NewSize(constants.DefaultReservationLimit),
		},
		Diagnostics: DiagnosticsConfig{
			SampleIntervalMillis: constants.DefaultSampleIntervalMillis,
		},
	}
}

// LoadConfig parses a JSON configuration on top of DefaultConfig.
func LoadConfig(bz []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(bz, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks limits and capability lists.
func (c Config) Validate() error {
	if c.Wasm.MemoryLimitPages > constants.MaxWasmPages {
		return fmt.Errorf("memory_limit_pages %d exceeds %d", c.Wasm.MemoryLimitPages, constants.MaxWasmPages)
	}
	if c.Diagnostics.SampleIntervalMillis == 0 {
		return fmt.Errorf("sample_interval_ms must be positive")
	}
	if c.Diagnostics.HistoryBackend == "goleveldb" && c.Diagnostics.HistoryDir == "" {
		return fmt.Errorf("history_dir is required for backend %q", c.Diagnostics.HistoryBackend)
	}
	if err := c.Capabilities.Potential.Validate(); err != nil {
		return fmt.Errorf("potential capabilities: %w", err)
	}
	if err := c.Capabilities.Requested.Validate(); err != nil {
		return fmt.Errorf("requested capabilities: %w", err)
	}
	return nil
}

// Size is a byte count encoded as a JSON number.
type Size struct{ uint32 }

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.uint32)
}

func (s *Size) UnmarshalJSON(bz []byte) error {
	return json.Unmarshal(bz, &s.uint32)
}

func (s Size) Uint64() uint64 {
	return uint64(s.uint32)
}

func NewSize(v uint32) Size {
	return Size{v}
}

// NewSizeMebi returns v MiB. Sizes are 32-bit: v must be below 4096.
func NewSizeMebi(v uint32) Size {
	return Size{v * 1024 * 1024}
}
