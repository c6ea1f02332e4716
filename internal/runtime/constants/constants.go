package constants

const (
	// WasmPageSize is the size of one Wasm linear memory page
	WasmPageSize = 65536
	// MaxWasmPages is the largest page count a 32-bit linear memory can have
	MaxWasmPages = 65536

	// DefaultMemoryLimitPages caps linear memories at 32 MiB
	DefaultMemoryLimitPages = 512
	// DefaultReservationLimit caps the address space reserved per linear memory
	DefaultReservationLimit = DefaultMemoryLimitPages * WasmPageSize

	// DefaultSampleIntervalMillis is how often the diagnostics sampler reads the ledger
	DefaultSampleIntervalMillis = 1000
)
